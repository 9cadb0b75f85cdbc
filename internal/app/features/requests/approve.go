// internal/app/features/requests/approve.go
package requests

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	affiliationstore "github.com/assetverse/assetverse/internal/app/store/affiliations"
	assetstore "github.com/assetverse/assetverse/internal/app/store/assets"
	requeststore "github.com/assetverse/assetverse/internal/app/store/requests"
	userstore "github.com/assetverse/assetverse/internal/app/store/users"
	"github.com/assetverse/assetverse/internal/app/system/apperrors"
	"github.com/assetverse/assetverse/internal/app/system/auth"
	"github.com/assetverse/assetverse/internal/app/system/httpjson"
	"github.com/assetverse/assetverse/internal/app/system/timeouts"
	"github.com/assetverse/assetverse/internal/app/system/txn"
	"github.com/assetverse/assetverse/internal/domain/models"
)

// ApprovalResult reports what an approval touched.
type ApprovalResult struct {
	Request            models.Request `json:"request"`
	AssetID            string         `json:"assetId"`
	AssetAssigned      bool           `json:"assetAssigned"`
	AffiliationCreated bool           `json:"affiliationCreated"`
}

// HandleApprove processes an approval and responds with the result.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.CurrentIdentity(r)

	requestID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, h.Log, apperrors.New(apperrors.Invalid, "invalid request id"))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long, h.Log, "approve request")
	defer cancel()

	res, err := h.Approve(ctx, requestID, id)
	if err != nil {
		h.AuditLog.RequestProcessed(ctx, "request_approved", id.Email, "", requestID.Hex(), false, apperrors.Message(err))
		httpjson.Error(w, h.Log, err)
		return
	}

	h.AuditLog.RequestProcessed(ctx, "request_approved", id.Email, res.Request.RequesterEmail, requestID.Hex(), true, "")
	httpjson.Respond(w, http.StatusOK, res)
}

// Approve runs the approval workflow:
//
//  1. load the request; missing or terminal states are rejected up front
//  2. load the referenced asset
//  3. reserve one inventory unit, the only contended mutation, committed
//     first; Exhausted leaves the request pending with no side effects,
//     unless a concurrent approval of this same request already consumed
//     the unit and went terminal, which reports AlreadyProcessed instead
//  4. CAS the request pending → approved; losing this race to a concurrent
//     processor puts the reserved unit back and reports AlreadyProcessed,
//     so two racing approvals of one request net exactly one reservation
//  5. append the assigned-asset record to the requester's embedded list
//  6. look up the (requester, company) affiliation across both statuses;
//     any existing record, active or inactive, suppresses creation —
//     removed employees are never silently restored
//  7. otherwise create an active affiliation and bump the HR's
//     currentEmployees counter
//
// Steps 5–7 run inside a multi-document transaction when the deployment
// supports one; on standalone servers they run sequentially, which is safe
// because each is single-document atomic and the affiliation create is
// guarded by the partial unique index.
func (h *Handler) Approve(ctx context.Context, requestID primitive.ObjectID, approver auth.Identity) (*ApprovalResult, error) {
	reqStore := requeststore.New(h.DB)
	assets := assetstore.New(h.DB)
	users := userstore.New(h.DB)
	affiliations := affiliationstore.New(h.DB)

	req, err := reqStore.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Terminal() {
		return nil, apperrors.New(apperrors.AlreadyProcessed, "request already processed")
	}

	asset, err := assets.GetByID(ctx, req.AssetID)
	if err != nil {
		return nil, err
	}

	if err := assets.Reserve(ctx, asset.ID); err != nil {
		if apperrors.Is(err, apperrors.Exhausted) {
			// The last unit may have gone to a concurrent approval of this
			// same request between the status check and the reservation.
			// Re-read the request so the caller learns which one happened.
			if latest, lerr := reqStore.GetByID(ctx, requestID); lerr == nil && latest.Terminal() {
				return nil, apperrors.New(apperrors.AlreadyProcessed, "request already processed")
			}
		}
		return nil, err
	}

	now := time.Now().UTC()
	if err := reqStore.MarkApproved(ctx, requestID, approver.Email, now); err != nil {
		// A concurrent processor won the status CAS after we reserved.
		// Put the unit back so the one real approval accounts for it.
		if rerr := assets.Release(ctx, asset.ID); rerr != nil {
			h.Log.Warn("failed to release reserved unit after lost approval race",
				zap.String("assetId", asset.ID.Hex()), zap.Error(rerr))
		}
		return nil, err
	}

	req.RequestStatus = models.StatusApproved
	req.ApprovalDate = &now
	processedBy := approver.Email
	req.ProcessedBy = &processedBy

	result := &ApprovalResult{Request: *req, AssetID: asset.ID.Hex()}

	err = txn.WithTransaction(ctx, h.DB.Client(), h.Log, func(ctx context.Context) error {
		if err := users.AppendAssignedAsset(ctx, req.RequesterEmail, models.AssignedAsset{
			AssetID:      asset.ID,
			Name:         asset.ProductName,
			Image:        asset.ProductImage,
			Type:         asset.ProductType,
			CompanyName:  asset.CompanyName,
			HREmail:      asset.HREmail,
			RequestDate:  req.RequestDate,
			ApprovalDate: now,
			AssignedAt:   now,
			Status:       "assigned",
		}); err != nil {
			return err
		}
		result.AssetAssigned = true

		_, err := affiliations.FindByPair(ctx, req.RequesterEmail, asset.CompanyName)
		switch {
		case err == nil:
			// Existing record for the pair (either status): skip creation.
			return nil
		case apperrors.Is(err, apperrors.NotFound):
		default:
			return err
		}

		if _, err := affiliations.Create(ctx, models.Affiliation{
			EmployeeEmail:   req.RequesterEmail,
			EmployeeName:    req.RequesterName,
			HREmail:         asset.HREmail,
			CompanyName:     asset.CompanyName,
			CompanyLogo:     asset.CompanyLogo,
			AffiliationDate: now,
		}); err != nil {
			if apperrors.Is(err, apperrors.Duplicate) {
				// Concurrent approval created it between lookup and insert.
				return nil
			}
			return err
		}
		result.AffiliationCreated = true

		if err := users.IncrementEmployees(ctx, asset.HREmail, 1); err != nil {
			if apperrors.Is(err, apperrors.NotFound) {
				h.Log.Warn("approval could not bump employee counter",
					zap.String("hrEmail", asset.HREmail))
				return nil
			}
			return err
		}
		return nil
	})
	if err != nil {
		// The status flip and the reservation are already committed. An
		// operator needs the ids to reconcile the missing assignment and
		// affiliation records by hand.
		h.Log.Error("approval committed but follow-up records failed",
			zap.String("requestId", requestID.Hex()),
			zap.String("assetId", asset.ID.Hex()),
			zap.String("requesterEmail", req.RequesterEmail),
			zap.Error(err))
		return nil, err
	}

	return result, nil
}
