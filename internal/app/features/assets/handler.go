// internal/app/features/assets/handler.go

// Package assets exposes the asset catalog: HR users create, edit, resize,
// and delete assets; any signed-in user can browse them.
package assets

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}
