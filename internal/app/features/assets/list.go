// internal/app/features/assets/list.go
package assets

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	assetstore "github.com/assetverse/assetverse/internal/app/store/assets"
	"github.com/assetverse/assetverse/internal/app/system/apperrors"
	"github.com/assetverse/assetverse/internal/app/system/auth"
	"github.com/assetverse/assetverse/internal/app/system/httpjson"
	"github.com/assetverse/assetverse/internal/app/system/timeouts"
	"github.com/assetverse/assetverse/internal/domain/models"
)

// HandleList returns assets, newest first. HR users see their own catalog;
// employees browse the whole catalog, optionally narrowed to one company's
// HR. Both can filter by name search and product type.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.CurrentIdentity(r)

	f := assetstore.ListFilter{
		Search:      r.URL.Query().Get("search"),
		ProductType: r.URL.Query().Get("type"),
	}
	if id.Role == models.RoleHR {
		f.HREmail = id.Email
	} else {
		f.HREmail = r.URL.Query().Get("hrEmail")
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium, h.Log, "list assets")
	defer cancel()

	out, err := assetstore.New(h.DB).List(ctx, f)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if out == nil {
		out = []models.Asset{}
	}
	httpjson.Respond(w, http.StatusOK, out)
}

// HandleGet returns a single asset.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	assetID, err := assetIDParam(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short, h.Log, "get asset")
	defer cancel()

	a, err := assetstore.New(h.DB).GetByID(ctx, assetID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, a)
}

func assetIDParam(r *http.Request) (primitive.ObjectID, error) {
	assetID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, apperrors.New(apperrors.Invalid, "invalid asset id")
	}
	return assetID, nil
}
