// internal/app/system/auditlog/logger.go

// Package auditlog records approval-lifecycle, affiliation, and payment
// events to MongoDB and/or structured logs, gated by configuration.
package auditlog

import (
	"context"

	"go.uber.org/zap"

	"github.com/assetverse/assetverse/internal/app/store/audit"
)

// Mode controls where events go: "all" (MongoDB + zap), "db", "log", "off".
type Mode string

const (
	ModeAll Mode = "all"
	ModeDB  Mode = "db"
	ModeLog Mode = "log"
	ModeOff Mode = "off"
)

// Logger writes audit events. A nil Logger is a no-op, which lets tests and
// callers skip wiring one.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	mode   Mode
}

// New creates an audit Logger. Unknown modes behave like ModeAll.
func New(store *audit.Store, zapLog *zap.Logger, mode Mode) *Logger {
	return &Logger{store: store, zapLog: zapLog, mode: mode}
}

// Log records one event according to the configured mode. Store failures are
// logged and swallowed; auditing never fails the audited operation.
func (l *Logger) Log(ctx context.Context, e audit.Event) {
	if l == nil || l.mode == ModeOff {
		return
	}

	if l.mode == ModeAll || l.mode == ModeLog {
		fields := []zap.Field{
			zap.Bool("audit", true),
			zap.String("category", e.Category),
			zap.String("eventType", e.EventType),
			zap.Bool("success", e.Success),
		}
		if e.ActorEmail != "" {
			fields = append(fields, zap.String("actor", e.ActorEmail))
		}
		if e.SubjectEmail != "" {
			fields = append(fields, zap.String("subject", e.SubjectEmail))
		}
		if e.FailureReason != "" {
			fields = append(fields, zap.String("failureReason", e.FailureReason))
		}
		for k, v := range e.Details {
			fields = append(fields, zap.String("detail_"+k, v))
		}
		if e.Success {
			l.zapLog.Info("audit event", fields...)
		} else {
			l.zapLog.Warn("audit event", fields...)
		}
	}

	if (l.mode == ModeAll || l.mode == ModeDB) && l.store != nil {
		if err := l.store.Insert(ctx, e); err != nil {
			l.zapLog.Error("audit store insert failed", zap.Error(err))
		}
	}
}

// RequestProcessed records an approval or rejection outcome.
func (l *Logger) RequestProcessed(ctx context.Context, eventType, actor, requester, requestID string, success bool, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryRequest,
		EventType:     eventType,
		ActorEmail:    actor,
		SubjectEmail:  requester,
		Success:       success,
		FailureReason: reason,
		Details:       map[string]string{"requestId": requestID},
	})
}

// AffiliationRemoved records an HR removal of an employee.
func (l *Logger) AffiliationRemoved(ctx context.Context, actor, employee string, success bool, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAffiliation,
		EventType:     "affiliation_removed",
		ActorEmail:    actor,
		SubjectEmail:  employee,
		Success:       success,
		FailureReason: reason,
	})
}

// PaymentRecorded records a subscription payment, including idempotent
// replays of an already-recorded transaction.
func (l *Logger) PaymentRecorded(ctx context.Context, userEmail, transactionID string, alreadyRecorded bool) {
	l.Log(ctx, audit.Event{
		Category:     audit.CategoryPayment,
		EventType:    "payment_recorded",
		SubjectEmail: userEmail,
		Success:      true,
		Details: map[string]string{
			"transactionId":   transactionID,
			"alreadyRecorded": boolString(alreadyRecorded),
		},
	})
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
