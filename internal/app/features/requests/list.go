// internal/app/features/requests/list.go
package requests

import (
	"net/http"

	requeststore "github.com/assetverse/assetverse/internal/app/store/requests"
	"github.com/assetverse/assetverse/internal/app/system/apperrors"
	"github.com/assetverse/assetverse/internal/app/system/auth"
	"github.com/assetverse/assetverse/internal/app/system/httpjson"
	"github.com/assetverse/assetverse/internal/app/system/timeouts"
	"github.com/assetverse/assetverse/internal/domain/models"
)

// HandleList scopes the listing to the caller: HR users see requests
// addressed to them (optionally filtered by ?status=), employees see their
// own submissions.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.CurrentIdentity(r)

	status := r.URL.Query().Get("status")
	if status != "" && !listStatuses[status] {
		httpjson.Error(w, h.Log, apperrors.New(apperrors.Invalid, "invalid status filter"))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium, h.Log, "list requests")
	defer cancel()

	store := requeststore.New(h.DB)
	var (
		out []models.Request
		err error
	)
	if id.Role == models.RoleHR {
		out, err = store.ListByHR(ctx, id.Email, status)
	} else {
		out, err = store.ListByRequester(ctx, id.Email)
	}
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if out == nil {
		out = []models.Request{}
	}
	httpjson.Respond(w, http.StatusOK, out)
}
