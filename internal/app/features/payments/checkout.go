// internal/app/features/payments/checkout.go
package payments

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	packagestore "github.com/assetverse/assetverse/internal/app/store/packages"
	"github.com/assetverse/assetverse/internal/app/system/apperrors"
	"github.com/assetverse/assetverse/internal/app/system/httpjson"
	"github.com/assetverse/assetverse/internal/app/system/timeouts"
)

type checkoutBody struct {
	PackageID string `json:"packageId"`
}

// HandleCheckout creates a payment intent for a plan. The amount always
// comes from the stored plan, never from the client.
func (h *Handler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	var body checkoutBody
	if err := httpjson.Decode(w, r, &body); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	packageID, err := primitive.ObjectIDFromHex(body.PackageID)
	if err != nil {
		httpjson.Error(w, h.Log, apperrors.New(apperrors.Invalid, "invalid packageId"))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium, h.Log, "checkout")
	defer cancel()

	plan, err := packagestore.New(h.DB).GetByID(ctx, packageID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	intent, err := h.Processor.CreateIntent(ctx, plan.PriceMinor, plan.Currency)
	if err != nil {
		httpjson.Error(w, h.Log, apperrors.Wrap(apperrors.Internal, "create payment intent", err))
		return
	}
	httpjson.Respond(w, http.StatusOK, intent)
}
