// internal/app/features/users/routes.go
package users

import (
	"github.com/go-chi/chi/v5"

	"github.com/assetverse/assetverse/internal/app/system/auth"
	"github.com/assetverse/assetverse/internal/domain/models"
)

// Routes mounts the user endpoints. Registration and the role lookup are
// public; everything else requires a token. Login is mounted separately at
// /auth/token by bootstrap.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.HandleRegister)
	r.Get("/{email}/role", h.HandleRole)

	r.Group(func(pr chi.Router) {
		pr.Use(h.Tokens.RequireAuth)
		pr.Get("/me", h.HandleMe)
		pr.Patch("/me", h.HandleUpdateMe)

		pr.With(auth.RequireRole(models.RoleHR)).Get("/", h.HandleList)
	})

	return r
}
