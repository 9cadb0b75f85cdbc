// Package timeouts provides centralized timeout values for handler operations.
//
// Every store call runs under a context deadline so a slow or unreachable
// MongoDB surfaces as a store_unavailable error instead of a hung request.
//
// Guidelines:
//   - Ping: health checks and connectivity verification
//   - Short: single-document reads or lookups
//   - Medium: list queries and simple writes
//   - Long: the approval path and other operations touching several collections
package timeouts

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	Ping   = 2 * time.Second
	Short  = 5 * time.Second
	Medium = 10 * time.Second
	Long   = 30 * time.Second
)

// WithTimeout creates a context with the given timeout and returns a cancel
// function that logs a warning if the deadline was actually hit. Use it on
// the multi-collection paths where timeout debugging matters.
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
