// internal/app/features/payments/routes.go
package payments

import (
	"github.com/go-chi/chi/v5"

	"github.com/assetverse/assetverse/internal/app/system/auth"
	"github.com/assetverse/assetverse/internal/domain/models"
)

// Routes mounts the payment endpoints. Purchasing is HR-only since plans
// attach to a company account.
func Routes(h *Handler, tm *auth.TokenManager) chi.Router {
	r := chi.NewRouter()
	r.Use(tm.RequireAuth)
	r.Use(auth.RequireRole(models.RoleHR))

	r.Post("/checkout", h.HandleCheckout)
	r.Post("/record", h.HandleRecord)
	r.Get("/", h.HandleList)

	return r
}
