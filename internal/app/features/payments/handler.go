// internal/app/features/payments/handler.go

// Package payments handles subscription purchases: creating payment intents
// against the processor, recording completed transactions idempotently, and
// applying the purchased plan's employee limit to the paying HR user.
package payments

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/assetverse/assetverse/internal/app/system/auditlog"
)

type Handler struct {
	DB        *mongo.Database
	Log       *zap.Logger
	AuditLog  *auditlog.Logger
	Processor Processor
}

func NewHandler(db *mongo.Database, proc Processor, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	if proc == nil {
		proc = StubProcessor{}
	}
	return &Handler{DB: db, Log: logger, AuditLog: audit, Processor: proc}
}
