// internal/app/store/audit/store.go

// Package audit persists audit events to the audit_logs collection. Writes
// are best-effort: a failed audit insert is logged by the caller but never
// fails the operation being audited.
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Event categories.
const (
	CategoryRequest     = "request"
	CategoryAffiliation = "affiliation"
	CategoryPayment     = "payment"
)

// Event is one audited action.
type Event struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Category      string             `bson:"category"`  // request | affiliation | payment
	EventType     string             `bson:"eventType"` // e.g. request_approved
	ActorEmail    string             `bson:"actorEmail,omitempty"`
	SubjectEmail  string             `bson:"subjectEmail,omitempty"`
	Success       bool               `bson:"success"`
	FailureReason string             `bson:"failureReason,omitempty"`
	Details       map[string]string  `bson:"details,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt"`
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_logs")}
}

// Insert writes one event, assigning ID and CreatedAt if unset.
func (s *Store) Insert(ctx context.Context, e Event) error {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, e)
	return err
}
