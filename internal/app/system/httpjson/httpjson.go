// internal/app/system/httpjson/httpjson.go

// Package httpjson holds the request/response helpers shared by all feature
// handlers: JSON decoding with a body size cap, JSON responses, and the
// single place where application errors become HTTP status codes.
package httpjson

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/assetverse/assetverse/internal/app/system/apperrors"
)

// maxBodyBytes caps request bodies to keep oversized payloads from
// exhausting memory.
const maxBodyBytes = 1 << 20 // 1 MB

// Decode reads a JSON request body into v.
func Decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperrors.Wrap(apperrors.Invalid, "malformed request body", err)
	}
	return nil
}

// Respond writes v as JSON with the given status.
func Respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

type errBody struct {
	Message string `json:"message"`
}

// Error translates err into an HTTP response. Expected business outcomes
// (not found, already processed, exhausted, duplicates) log at info;
// everything else logs at error with the underlying cause.
func Error(w http.ResponseWriter, log *zap.Logger, err error) {
	status := apperrors.HTTPStatus(err)
	msg := apperrors.Message(err)

	if log != nil {
		switch apperrors.KindOf(err) {
		case apperrors.NotFound, apperrors.AlreadyProcessed, apperrors.Exhausted,
			apperrors.Duplicate, apperrors.Invalid, apperrors.Unauthorized, apperrors.Forbidden:
			log.Info("request rejected", zap.Int("status", status), zap.String("reason", msg))
		default:
			log.Error("request failed", zap.Int("status", status), zap.Error(err))
		}
	}
	Respond(w, status, errBody{Message: msg})
}
