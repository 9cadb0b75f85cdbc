// internal/app/features/requests/routes.go
package requests

import (
	"github.com/go-chi/chi/v5"

	"github.com/assetverse/assetverse/internal/app/system/auth"
	"github.com/assetverse/assetverse/internal/domain/models"
)

// Routes mounts the request endpoints under whatever base path the caller
// chooses (typically "/requests" from bootstrap).
func Routes(h *Handler, tm *auth.TokenManager) chi.Router {
	r := chi.NewRouter()
	r.Use(tm.RequireAuth)

	// Any signed-in user can submit and list; listing scopes to the caller.
	r.Post("/", h.HandleSubmit)
	r.Get("/", h.HandleList)

	// Processing is HR-only.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(models.RoleHR))
		pr.Post("/{id}/approve", h.HandleApprove)
		pr.Post("/{id}/reject", h.HandleReject)
	})

	return r
}
