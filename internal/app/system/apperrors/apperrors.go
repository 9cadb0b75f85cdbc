// internal/app/system/apperrors/apperrors.go

// Package apperrors defines the error kinds every operation is allowed to
// surface. Stores and handlers classify failures into one of these kinds at
// the point where they occur; raw driver errors never cross the handler
// boundary.
package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for callers and for HTTP translation.
type Kind string

const (
	// NotFound: missing request, asset, user, affiliation, or package.
	NotFound Kind = "not_found"
	// AlreadyProcessed: attempt to re-transition a terminal request.
	AlreadyProcessed Kind = "already_processed"
	// Exhausted: no available inventory units to reserve.
	Exhausted Kind = "exhausted"
	// Conflict: optimistic concurrency retries exhausted.
	Conflict Kind = "conflict"
	// StoreUnavailable: backing store timed out or is unreachable.
	StoreUnavailable Kind = "store_unavailable"
	// Duplicate: unique-key violation (existing user, recorded payment).
	Duplicate Kind = "duplicate"
	// Invalid: malformed or out-of-range caller input.
	Invalid Kind = "invalid"
	// Unauthorized: missing or unverifiable credentials.
	Unauthorized Kind = "unauthorized"
	// Forbidden: authenticated caller lacks the required role.
	Forbidden Kind = "forbidden"
	// Internal: anything that does not fit the kinds above.
	Internal Kind = "internal"
)

// Error carries a kind, a caller-safe message, and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an error of the given kind with a caller-safe message.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf is New with formatting.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error. A nil cause yields nil.
func Wrap(kind Kind, msg string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the kind from err. Context deadline and cancellation
// errors are reported as StoreUnavailable since store calls are the only
// places this codebase imposes deadlines. Unclassified errors are Internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return StoreUnavailable
	}
	return Internal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Message returns the caller-safe message for err, or a generic fallback for
// unclassified errors so internals are not leaked.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	if KindOf(err) == StoreUnavailable {
		return "backing store unavailable"
	}
	return "internal error"
}

// HTTPStatus maps an error kind to a response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case NotFound:
		return http.StatusNotFound
	case AlreadyProcessed, Conflict, Duplicate:
		return http.StatusConflict
	case Exhausted:
		return http.StatusUnprocessableEntity
	case Invalid:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case StoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
