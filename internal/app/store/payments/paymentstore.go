// internal/app/store/payments/paymentstore.go

// Package paymentstore persists completed payments. The unique index on
// transactionId is the idempotency key: re-delivered webhooks insert
// nothing and get the original record back.
package paymentstore

import (
	"context"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/assetverse/assetverse/internal/app/system/apperrors"
	"github.com/assetverse/assetverse/internal/app/system/normalize"
	"github.com/assetverse/assetverse/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("payments")}
}

// Insert records a payment. A duplicate transactionId surfaces as Duplicate;
// the caller decides whether that is an error or an idempotent no-op.
func (s *Store) Insert(ctx context.Context, p models.Payment) (models.Payment, error) {
	p.ID = primitive.NewObjectID()
	p.UserEmail = normalize.Email(p.UserEmail)
	if p.PaidAt.IsZero() {
		p.PaidAt = time.Now().UTC()
	}

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Payment{}, apperrors.New(apperrors.Duplicate, "payment already recorded")
		}
		return models.Payment{}, apperrors.Wrap(apperrors.Internal, "insert payment", err)
	}
	return p, nil
}

// GetByTransactionID loads the payment recorded for a processor transaction.
func (s *Store) GetByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	var p models.Payment
	err := s.c.FindOne(ctx, bson.M{"transactionId": transactionID}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.New(apperrors.NotFound, "payment not found")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "load payment", err)
	}
	return &p, nil
}

// ListByUser returns a user's payments, newest first.
func (s *Store) ListByUser(ctx context.Context, email string) ([]models.Payment, error) {
	cur, err := s.c.Find(ctx, bson.M{"userEmail": normalize.Email(email)})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "list payments", err)
	}
	defer cur.Close(ctx)
	var out []models.Payment
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "decode payments", err)
	}
	return out, nil
}
