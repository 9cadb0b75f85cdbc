// internal/app/store/requests/requeststore.go

// Package requeststore owns the request state machine. The pending →
// approved and pending → rejected transitions are compare-and-swap updates
// conditioned on the current status, so two concurrent processors of the
// same request resolve to exactly one winner.
package requeststore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/assetverse/assetverse/internal/app/system/apperrors"
	"github.com/assetverse/assetverse/internal/app/system/normalize"
	"github.com/assetverse/assetverse/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("requests")}
}

// Create inserts a new pending request with server-assigned timestamps.
// approvalDate and processedBy start null and stay null until a terminal
// transition stamps them.
func (s *Store) Create(ctx context.Context, r models.Request) (models.Request, error) {
	r.ID = primitive.NewObjectID()
	r.RequesterEmail = normalize.Email(r.RequesterEmail)
	r.HREmail = normalize.Email(r.HREmail)
	r.Note = normalize.Text(r.Note)
	r.RequestStatus = models.StatusPending
	r.RequestDate = time.Now().UTC()
	r.ApprovalDate = nil
	r.ProcessedBy = nil

	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.Request{}, apperrors.Wrap(apperrors.Internal, "create request", err)
	}
	return r, nil
}

// GetByID loads a single request.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Request, error) {
	var r models.Request
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.New(apperrors.NotFound, "request not found")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "load request", err)
	}
	return &r, nil
}

// MarkApproved performs the pending → approved CAS. A zero-match result
// means either the request is gone (NotFound) or another processor reached
// it first (AlreadyProcessed).
func (s *Store) MarkApproved(ctx context.Context, id primitive.ObjectID, processorEmail string, at time.Time) error {
	return s.transition(ctx, id, models.StatusApproved, processorEmail, at)
}

// MarkRejected performs the pending → rejected CAS with the same semantics.
func (s *Store) MarkRejected(ctx context.Context, id primitive.ObjectID, processorEmail string, at time.Time) error {
	return s.transition(ctx, id, models.StatusRejected, processorEmail, at)
}

func (s *Store) transition(ctx context.Context, id primitive.ObjectID, to, processorEmail string, at time.Time) error {
	processorEmail = normalize.Email(processorEmail)
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "requestStatus": models.StatusPending},
		bson.M{"$set": bson.M{
			"requestStatus": to,
			"approvalDate":  at,
			"processedBy":   processorEmail,
		}})
	if err != nil {
		return apperrors.Wrap(apperrors.Internal, "transition request", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Err(); err == mongo.ErrNoDocuments {
		return apperrors.New(apperrors.NotFound, "request not found")
	} else if err != nil {
		return apperrors.Wrap(apperrors.Internal, "transition request", err)
	}
	return apperrors.New(apperrors.AlreadyProcessed, "request already processed")
}

// ListByHR returns requests addressed to an HR user, optionally filtered by
// status, newest first.
func (s *Store) ListByHR(ctx context.Context, hrEmail, status string) ([]models.Request, error) {
	filter := bson.M{"hrEmail": normalize.Email(hrEmail)}
	if status != "" {
		filter["requestStatus"] = status
	}
	return s.list(ctx, filter)
}

// ListByRequester returns an employee's own requests, newest first.
func (s *Store) ListByRequester(ctx context.Context, email string) ([]models.Request, error) {
	return s.list(ctx, bson.M{"requesterEmail": normalize.Email(email)})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Request, error) {
	opts := options.Find().SetSort(bson.D{{Key: "requestDate", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "list requests", err)
	}
	defer cur.Close(ctx)
	var out []models.Request
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "decode requests", err)
	}
	return out, nil
}

// CountPendingByHR returns the number of pending requests for an HR user.
func (s *Store) CountPendingByHR(ctx context.Context, hrEmail string) (int64, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{
		"hrEmail":       normalize.Email(hrEmail),
		"requestStatus": models.StatusPending,
	})
	if err != nil {
		return 0, apperrors.Wrap(apperrors.Internal, "count pending requests", err)
	}
	return n, nil
}
