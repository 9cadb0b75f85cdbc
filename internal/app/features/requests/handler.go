// internal/app/features/requests/handler.go

// Package requests implements the request lifecycle: employee submission and
// the HR approval/rejection workflow, including the inventory and
// affiliation side effects of an approval.
package requests

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/assetverse/assetverse/internal/app/system/auditlog"
)

// Handler owns the request endpoints. Constructed once at startup in
// bootstrap with the shared Mongo database handle, audit logger, and logger.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	AuditLog *auditlog.Logger
}

// NewHandler constructs a Handler bound to the given database and loggers.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger, AuditLog: audit}
}
