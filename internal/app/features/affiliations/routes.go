// internal/app/features/affiliations/routes.go
package affiliations

import (
	"github.com/go-chi/chi/v5"

	"github.com/assetverse/assetverse/internal/app/system/auth"
	"github.com/assetverse/assetverse/internal/domain/models"
)

// Routes mounts the affiliation endpoints.
func Routes(h *Handler, tm *auth.TokenManager) chi.Router {
	r := chi.NewRouter()
	r.Use(tm.RequireAuth)

	r.Get("/", h.HandleList)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(models.RoleHR))
		pr.Delete("/{email}", h.HandleRemove)
	})

	return r
}
