// internal/app/features/packages/handler.go

// Package packages serves the subscription plan catalog. The catalog is
// seeded at startup and read-only over HTTP.
package packages

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	packagestore "github.com/assetverse/assetverse/internal/app/store/packages"
	"github.com/assetverse/assetverse/internal/app/system/httpjson"
	"github.com/assetverse/assetverse/internal/app/system/timeouts"
	"github.com/assetverse/assetverse/internal/domain/models"
)

type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

// Routes mounts the plan catalog endpoints. The catalog is public so
// prospective buyers can see the plans before signing in.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.HandleList)
	return r
}

// HandleList returns all subscription plans.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short, h.Log, "list packages")
	defer cancel()

	out, err := packagestore.New(h.DB).List(ctx)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if out == nil {
		out = []models.Package{}
	}
	httpjson.Respond(w, http.StatusOK, out)
}
