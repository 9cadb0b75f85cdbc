// internal/app/features/requests/reject.go
package requests

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	requeststore "github.com/assetverse/assetverse/internal/app/store/requests"
	"github.com/assetverse/assetverse/internal/app/system/apperrors"
	"github.com/assetverse/assetverse/internal/app/system/auth"
	"github.com/assetverse/assetverse/internal/app/system/httpjson"
	"github.com/assetverse/assetverse/internal/app/system/timeouts"
	"github.com/assetverse/assetverse/internal/domain/models"
)

// HandleReject performs the pending → rejected transition. Rejection has no
// inventory or affiliation side effects.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.CurrentIdentity(r)

	requestID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, h.Log, apperrors.New(apperrors.Invalid, "invalid request id"))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium, h.Log, "reject request")
	defer cancel()

	store := requeststore.New(h.DB)
	now := time.Now().UTC()
	if err := store.MarkRejected(ctx, requestID, id.Email, now); err != nil {
		h.AuditLog.RequestProcessed(ctx, "request_rejected", id.Email, "", requestID.Hex(), false, apperrors.Message(err))
		httpjson.Error(w, h.Log, err)
		return
	}

	updated, err := store.GetByID(ctx, requestID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.AuditLog.RequestProcessed(ctx, "request_rejected", id.Email, updated.RequesterEmail, requestID.Hex(), true, "")
	httpjson.Respond(w, http.StatusOK, updated)
}

// statuses accepted as list filters.
var listStatuses = map[string]bool{
	models.StatusPending:  true,
	models.StatusApproved: true,
	models.StatusRejected: true,
}
