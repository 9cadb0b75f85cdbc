// internal/app/system/txn/txn.go

// Package txn runs a function inside a MongoDB multi-document transaction
// when the deployment supports one, and falls back to plain sequential
// execution on standalone servers (local dev, some test environments).
//
// Callers must keep the function body safe to run outside a transaction:
// each statement single-document atomic or idempotent.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// WithTransaction executes fn transactionally if possible. On servers where
// transactions are unsupported it logs once at debug level and runs fn
// directly with the original context.
func WithTransaction(ctx context.Context, client *mongo.Client, log *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			logFallback(log, err)
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		logFallback(log, err)
		return fn(ctx)
	}
	return err
}

func logFallback(log *zap.Logger, err error) {
	if log != nil {
		log.Debug("transactions unsupported, running sequentially", zap.Error(err))
	}
}

// Server error codes that indicate the deployment cannot run transactions.
// 20 = IllegalOperation on standalone, 51 = no such transaction support,
// 263 = operation not allowed in a multi-document transaction.
var notSupportedCodes = map[int32]bool{20: true, 51: true, 263: true}

// IsNotSupported reports whether err means the server cannot run
// multi-document transactions (standalone deployment, old server, or a
// session-less connection) rather than that the transaction itself failed.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && notSupportedCodes[cmdErr.Code] {
		return true
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "transaction") && strings.Contains(msg, "replica set"):
		return true
	case strings.Contains(msg, "session") && strings.Contains(msg, "not supported"):
		return true
	case strings.Contains(msg, "transaction") && strings.Contains(msg, "session"):
		return true
	case strings.Contains(msg, "illegal operation"):
		return true
	}
	return false
}
