// internal/app/features/assets/create.go
package assets

import (
	"net/http"

	assetstore "github.com/assetverse/assetverse/internal/app/store/assets"
	"github.com/assetverse/assetverse/internal/app/system/auth"
	"github.com/assetverse/assetverse/internal/app/system/httpjson"
	"github.com/assetverse/assetverse/internal/app/system/timeouts"
	"github.com/assetverse/assetverse/internal/domain/models"
)

type createBody struct {
	ProductName     string `json:"productName"`
	ProductType     string `json:"productType"`
	ProductQuantity int    `json:"productQuantity"`
	ProductImage    string `json:"productImage,omitempty"`
}

// HandleCreate registers a new asset owned by the calling HR user. The asset
// starts fully available.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.CurrentIdentity(r)

	var body createBody
	if err := httpjson.Decode(w, r, &body); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium, h.Log, "create asset")
	defer cancel()

	created, err := assetstore.New(h.DB).Create(ctx, models.Asset{
		ProductName:     body.ProductName,
		ProductType:     body.ProductType,
		ProductQuantity: body.ProductQuantity,
		ProductImage:    body.ProductImage,
		HREmail:         id.Email,
		CompanyName:     id.CompanyName,
	})
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	httpjson.Respond(w, http.StatusCreated, created)
}
