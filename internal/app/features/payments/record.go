// internal/app/features/payments/record.go
package payments

import (
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	packagestore "github.com/assetverse/assetverse/internal/app/store/packages"
	paymentstore "github.com/assetverse/assetverse/internal/app/store/payments"
	userstore "github.com/assetverse/assetverse/internal/app/store/users"
	"github.com/assetverse/assetverse/internal/app/system/apperrors"
	"github.com/assetverse/assetverse/internal/app/system/auth"
	"github.com/assetverse/assetverse/internal/app/system/httpjson"
	"github.com/assetverse/assetverse/internal/app/system/timeouts"
	"github.com/assetverse/assetverse/internal/domain/models"
)

type recordBody struct {
	TransactionID string `json:"transactionId"`
	PackageID     string `json:"packageId"`
}

// HandleRecord stores a completed payment and applies the plan to the
// caller's account. The amount and currency always come from the stored
// plan, never from the request body. The unique transactionId index makes
// re-delivery safe: a repeat post returns the original record with 200
// instead of writing twice, and re-applies the originally recorded plan so
// a replay heals a crash that landed between the insert and the
// subscription update.
func (h *Handler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.CurrentIdentity(r)

	var body recordBody
	if err := httpjson.Decode(w, r, &body); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	body.TransactionID = strings.TrimSpace(body.TransactionID)
	if body.TransactionID == "" {
		httpjson.Error(w, h.Log, apperrors.New(apperrors.Invalid, "transactionId is required"))
		return
	}
	packageID, err := primitive.ObjectIDFromHex(body.PackageID)
	if err != nil {
		httpjson.Error(w, h.Log, apperrors.New(apperrors.Invalid, "invalid packageId"))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium, h.Log, "record payment")
	defer cancel()

	plans := packagestore.New(h.DB)
	plan, err := plans.GetByID(ctx, packageID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	store := paymentstore.New(h.DB)
	recorded, err := store.Insert(ctx, models.Payment{
		TransactionID: body.TransactionID,
		PackageID:     plan.ID,
		UserEmail:     id.Email,
		PackageName:   plan.Name,
		Amount:        float64(plan.PriceMinor) / 100,
		Currency:      plan.Currency,
		PaymentStatus: "succeeded",
	})
	if apperrors.Is(err, apperrors.Duplicate) {
		existing, lookupErr := store.GetByTransactionID(ctx, body.TransactionID)
		if lookupErr != nil {
			httpjson.Error(w, h.Log, lookupErr)
			return
		}
		// Re-apply the plan the original record names, ignoring whatever
		// plan the replayed body carries. SetSubscription is idempotent, so
		// this also repairs a payment whose plan was never applied.
		if orig, planErr := plans.GetByID(ctx, existing.PackageID); planErr == nil {
			if subErr := userstore.New(h.DB).SetSubscription(ctx, existing.UserEmail, orig.Name, orig.EmployeeLimit); subErr != nil {
				h.Log.Warn("could not reapply plan for replayed payment",
					zap.String("transactionId", existing.TransactionID), zap.Error(subErr))
			}
		} else {
			h.Log.Warn("plan for replayed payment no longer exists",
				zap.String("transactionId", existing.TransactionID), zap.Error(planErr))
		}
		h.AuditLog.PaymentRecorded(ctx, id.Email, body.TransactionID, true)
		httpjson.Respond(w, http.StatusOK, existing)
		return
	} else if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if err := userstore.New(h.DB).SetSubscription(ctx, id.Email, plan.Name, plan.EmployeeLimit); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.AuditLog.PaymentRecorded(ctx, id.Email, body.TransactionID, false)
	httpjson.Respond(w, http.StatusCreated, recorded)
}

// HandleList returns the caller's payment history.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.CurrentIdentity(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium, h.Log, "list payments")
	defer cancel()

	out, err := paymentstore.New(h.DB).ListByUser(ctx, id.Email)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if out == nil {
		out = []models.Payment{}
	}
	httpjson.Respond(w, http.StatusOK, out)
}
