// internal/app/features/affiliations/list.go
package affiliations

import (
	"net/http"

	affiliationstore "github.com/assetverse/assetverse/internal/app/store/affiliations"
	"github.com/assetverse/assetverse/internal/app/system/auth"
	"github.com/assetverse/assetverse/internal/app/system/httpjson"
	"github.com/assetverse/assetverse/internal/app/system/timeouts"
	"github.com/assetverse/assetverse/internal/domain/models"
)

// HandleList returns active affiliations scoped to the caller: an HR user
// sees their team, an employee sees the companies they belong to.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.CurrentIdentity(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium, h.Log, "list affiliations")
	defer cancel()

	store := affiliationstore.New(h.DB)
	var (
		out []models.Affiliation
		err error
	)
	if id.Role == models.RoleHR {
		out, err = store.ListActiveByHR(ctx, id.Email)
	} else {
		out, err = store.ListActiveByEmployee(ctx, id.Email)
	}
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if out == nil {
		out = []models.Affiliation{}
	}
	httpjson.Respond(w, http.StatusOK, out)
}
