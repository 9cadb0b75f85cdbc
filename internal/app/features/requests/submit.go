// internal/app/features/requests/submit.go
package requests

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	assetstore "github.com/assetverse/assetverse/internal/app/store/assets"
	requeststore "github.com/assetverse/assetverse/internal/app/store/requests"
	userstore "github.com/assetverse/assetverse/internal/app/store/users"
	"github.com/assetverse/assetverse/internal/app/system/apperrors"
	"github.com/assetverse/assetverse/internal/app/system/auth"
	"github.com/assetverse/assetverse/internal/app/system/httpjson"
	"github.com/assetverse/assetverse/internal/app/system/timeouts"
	"github.com/assetverse/assetverse/internal/domain/models"
)

type submitBody struct {
	AssetID string `json:"assetId"`
	Note    string `json:"note,omitempty"`
}

// HandleSubmit creates a pending request for the authenticated employee.
// Requester identity comes from the verified token, never the body. The
// referenced asset supplies the HR owner and the denormalized asset fields.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.CurrentIdentity(r)

	var body submitBody
	if err := httpjson.Decode(w, r, &body); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	assetID, err := primitive.ObjectIDFromHex(body.AssetID)
	if err != nil {
		httpjson.Error(w, h.Log, apperrors.New(apperrors.Invalid, "invalid assetId"))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium, h.Log, "submit request")
	defer cancel()

	requester, err := userstore.New(h.DB).GetByEmail(ctx, id.Email)
	if apperrors.Is(err, apperrors.NotFound) {
		httpjson.Error(w, h.Log, apperrors.New(apperrors.NotFound, "requester not found"))
		return
	} else if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	asset, err := assetstore.New(h.DB).GetByID(ctx, assetID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	created, err := requeststore.New(h.DB).Create(ctx, models.Request{
		AssetID:        asset.ID,
		AssetName:      asset.ProductName,
		AssetType:      asset.ProductType,
		RequesterEmail: requester.Email,
		RequesterName:  requester.Name,
		HREmail:        asset.HREmail,
		Note:           body.Note,
	})
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	httpjson.Respond(w, http.StatusCreated, created)
}
