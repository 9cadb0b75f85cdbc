// internal/app/features/assets/update.go
package assets

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	assetstore "github.com/assetverse/assetverse/internal/app/store/assets"
	"github.com/assetverse/assetverse/internal/app/system/apperrors"
	"github.com/assetverse/assetverse/internal/app/system/auth"
	"github.com/assetverse/assetverse/internal/app/system/httpjson"
	"github.com/assetverse/assetverse/internal/app/system/timeouts"
)

type updateBody struct {
	ProductName     string `json:"productName,omitempty"`
	ProductType     string `json:"productType,omitempty"`
	ProductImage    string `json:"productImage,omitempty"`
	ProductQuantity *int   `json:"productQuantity,omitempty"`
}

// HandleUpdate edits an asset the caller owns. Descriptive fields are set
// directly; a productQuantity change goes through the resize path so
// availability is adjusted consistently with in-flight reservations.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.CurrentIdentity(r)

	assetID, err := assetIDParam(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var body updateBody
	if err := httpjson.Decode(w, r, &body); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium, h.Log, "update asset")
	defer cancel()

	store := assetstore.New(h.DB)
	if err := h.requireOwner(ctx, store, assetID, id.Email); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if body.ProductName != "" || body.ProductType != "" || body.ProductImage != "" {
		if err := store.UpdateDetails(ctx, assetID, body.ProductName, body.ProductType, body.ProductImage); err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
	}

	if body.ProductQuantity != nil {
		updated, err := store.Resize(ctx, assetID, *body.ProductQuantity)
		if err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
		httpjson.Respond(w, http.StatusOK, updated)
		return
	}

	updated, err := store.GetByID(ctx, assetID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, updated)
}

// HandleDelete removes an asset the caller owns.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.CurrentIdentity(r)

	assetID, err := assetIDParam(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium, h.Log, "delete asset")
	defer cancel()

	store := assetstore.New(h.DB)
	if err := h.requireOwner(ctx, store, assetID, id.Email); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if err := store.Delete(ctx, assetID); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]string{"message": "asset deleted"})
}

func (h *Handler) requireOwner(ctx context.Context, store *assetstore.Store, assetID primitive.ObjectID, hrEmail string) error {
	a, err := store.GetByID(ctx, assetID)
	if err != nil {
		return err
	}
	if a.HREmail != hrEmail {
		return apperrors.New(apperrors.Forbidden, "forbidden access")
	}
	return nil
}
