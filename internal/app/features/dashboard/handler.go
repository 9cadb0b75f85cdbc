// internal/app/features/dashboard/handler.go

// Package dashboard aggregates per-company counts for the HR landing view.
package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	affiliationstore "github.com/assetverse/assetverse/internal/app/store/affiliations"
	assetstore "github.com/assetverse/assetverse/internal/app/store/assets"
	requeststore "github.com/assetverse/assetverse/internal/app/store/requests"
	"github.com/assetverse/assetverse/internal/app/system/auth"
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

// Routes mounts the dashboard endpoint. HR-only.
func Routes(h *Handler, tm *auth.TokenManager) chi.Router {
	r := chi.NewRouter()
	r.Use(tm.RequireAuth)
	r.Use(auth.RequireRole(models.RoleHR))
	r.Get("/", h.HandleSummary)
	return r
}

// Summary is the HR dashboard payload.
type Summary struct {
	Assets          int64 `json:"assets"`
	PendingRequests int64 `json:"pendingRequests"`
	ActiveEmployees int64 `json:"activeEmployees"`
}

// HandleSummary fans the three counts out concurrently; a failure in any
// one fails the whole response.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.CurrentIdentity(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium, h.Log, "dashboard summary")
	defer cancel()

	var s Summary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := assetstore.New(h.DB).CountByHR(gctx, id.Email)
		s.Assets = n
		return err
	})
	g.Go(func() error {
		n, err := requeststore.New(h.DB).CountPendingByHR(gctx, id.Email)
		s.PendingRequests = n
		return err
	})
	g.Go(func() error {
		n, err := affiliationstore.New(h.DB).CountActiveByHR(gctx, id.Email)
		s.ActiveEmployees = n
		return err
	})
	if err := g.Wait(); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, s)
}
