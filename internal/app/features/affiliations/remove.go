// internal/app/features/affiliations/remove.go
package affiliations

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	affiliationstore "github.com/assetverse/assetverse/internal/app/store/affiliations"
	userstore "github.com/assetverse/assetverse/internal/app/store/users"
	"github.com/assetverse/assetverse/internal/app/system/apperrors"
	"github.com/assetverse/assetverse/internal/app/system/auth"
	"github.com/assetverse/assetverse/internal/app/system/httpjson"
	"github.com/assetverse/assetverse/internal/app/system/normalize"
	"github.com/assetverse/assetverse/internal/app/system/timeouts"
)

// HandleRemove deactivates an employee's affiliation with the caller's
// company. The record flips active → inactive and keeps its history; the
// HR head count is decremented, saturating at zero. Removing someone who is
// not on the team is a 404.
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.CurrentIdentity(r)

	employeeEmail := normalize.Email(chi.URLParam(r, "email"))
	if employeeEmail == "" {
		httpjson.Error(w, h.Log, apperrors.New(apperrors.Invalid, "employee email is required"))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium, h.Log, "remove affiliation")
	defer cancel()

	if err := affiliationstore.New(h.DB).Deactivate(ctx, employeeEmail, id.Email); err != nil {
		h.AuditLog.AffiliationRemoved(ctx, id.Email, employeeEmail, false, apperrors.Message(err))
		httpjson.Error(w, h.Log, err)
		return
	}

	// The counter is advisory bookkeeping. If the decrement cannot apply
	// (already zero, or the HR record is gone) the removal still stands.
	if err := userstore.New(h.DB).IncrementEmployees(ctx, id.Email, -1); err != nil {
		h.Log.Warn("employee counter decrement skipped",
			zap.String("hrEmail", id.Email), zap.Error(err))
	}

	h.AuditLog.AffiliationRemoved(ctx, id.Email, employeeEmail, true, "")
	httpjson.Respond(w, http.StatusOK, map[string]string{"message": "affiliation removed"})
}
