// internal/app/features/affiliations/handler.go

// Package affiliations exposes the employee/company affiliation registry:
// listing current team membership and removing employees from a team.
// Affiliations are created as a side effect of request approval, never
// directly through this package.
package affiliations

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/assetverse/assetverse/internal/app/system/auditlog"
)

type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	AuditLog *auditlog.Logger
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger, AuditLog: audit}
}
