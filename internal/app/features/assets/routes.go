// internal/app/features/assets/routes.go
package assets

import (
	"github.com/go-chi/chi/v5"

	"github.com/assetverse/assetverse/internal/app/system/auth"
	"github.com/assetverse/assetverse/internal/domain/models"
)

// Routes mounts the asset endpoints.
func Routes(h *Handler, tm *auth.TokenManager) chi.Router {
	r := chi.NewRouter()
	r.Use(tm.RequireAuth)

	r.Get("/", h.HandleList)
	r.Get("/{id}", h.HandleGet)

	// Catalog changes are HR-only; ownership is enforced per handler.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(models.RoleHR))
		pr.Post("/", h.HandleCreate)
		pr.Patch("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
