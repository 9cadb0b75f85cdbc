// internal/app/features/users/handler.go

// Package users covers account management: registration, credential login,
// the public role lookup, and profile reads and edits.
package users

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/assetverse/assetverse/internal/app/system/auth"
)

type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	Tokens *auth.TokenManager
}

func NewHandler(db *mongo.Database, tm *auth.TokenManager, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger, Tokens: tm}
}
