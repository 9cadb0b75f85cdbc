// internal/app/store/affiliations/affiliationstore.go

// Package affiliationstore is the affiliation registry: the durable record
// of which employees belong to which company. Records are created on first
// approval, deactivated on HR removal, and never deleted. A partial unique
// index on (employeeEmail, companyName) scoped to status "active" lets a
// removed employee be re-affiliated later without violating uniqueness.
package affiliationstore

import (
	"context"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
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
	return &Store{c: db.Collection("affiliations")}
}

// Create inserts a new active affiliation. A concurrent create for the same
// active pair loses against the partial unique index and surfaces as
// Duplicate, which the approval path treats as "already exists, skip".
func (s *Store) Create(ctx context.Context, a models.Affiliation) (models.Affiliation, error) {
	a.ID = primitive.NewObjectID()
	a.EmployeeEmail = normalize.Email(a.EmployeeEmail)
	a.HREmail = normalize.Email(a.HREmail)
	a.Status = models.AffiliationActive
	a.RemovedAt = nil
	if a.AffiliationDate.IsZero() {
		a.AffiliationDate = time.Now().UTC()
	}

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Affiliation{}, apperrors.New(apperrors.Duplicate, "affiliation already exists")
		}
		return models.Affiliation{}, apperrors.Wrap(apperrors.Internal, "create affiliation", err)
	}
	return a, nil
}

// FindByPair returns any affiliation record for (employeeEmail, companyName)
// regardless of status. The approval path uses this to decide whether to
// create: an inactive record also blocks creation, so a removed employee is
// never silently restored.
func (s *Store) FindByPair(ctx context.Context, employeeEmail, companyName string) (*models.Affiliation, error) {
	var a models.Affiliation
	err := s.c.FindOne(ctx, bson.M{
		"employeeEmail": normalize.Email(employeeEmail),
		"companyName":   companyName,
	}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.New(apperrors.NotFound, "affiliation not found")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "load affiliation", err)
	}
	return &a, nil
}

// ListActiveByEmployee returns the employee's active affiliations.
func (s *Store) ListActiveByEmployee(ctx context.Context, email string) ([]models.Affiliation, error) {
	return s.listActive(ctx, bson.M{"employeeEmail": normalize.Email(email)})
}

// ListActiveByHR returns the active affiliations owned by an HR user.
func (s *Store) ListActiveByHR(ctx context.Context, hrEmail string) ([]models.Affiliation, error) {
	return s.listActive(ctx, bson.M{"hrEmail": normalize.Email(hrEmail)})
}

func (s *Store) listActive(ctx context.Context, filter bson.M) ([]models.Affiliation, error) {
	filter["status"] = models.AffiliationActive
	opts := options.Find().SetSort(bson.D{{Key: "affiliationDate", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "list affiliations", err)
	}
	defer cur.Close(ctx)
	var out []models.Affiliation
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "decode affiliations", err)
	}
	return out, nil
}

// Deactivate flips the unique active record for (employeeEmail, hrEmail) to
// inactive and stamps removedAt. The status condition makes the removal a
// CAS: a second concurrent removal matches nothing and reports NotFound.
func (s *Store) Deactivate(ctx context.Context, employeeEmail, hrEmail string) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"employeeEmail": normalize.Email(employeeEmail),
			"hrEmail":       normalize.Email(hrEmail),
			"status":        models.AffiliationActive,
		},
		bson.M{"$set": bson.M{
			"status":    models.AffiliationInactive,
			"removedAt": now,
		}})
	if err != nil {
		return apperrors.Wrap(apperrors.Internal, "deactivate affiliation", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.New(apperrors.NotFound, "active affiliation not found")
	}
	return nil
}

// CountActiveByHR returns the number of active affiliations for an HR user.
// Index maintenance aside, this is the ground truth the currentEmployees
// counter must agree with.
func (s *Store) CountActiveByHR(ctx context.Context, hrEmail string) (int64, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{
		"hrEmail": normalize.Email(hrEmail),
		"status":  models.AffiliationActive,
	})
	if err != nil {
		return 0, apperrors.Wrap(apperrors.Internal, "count affiliations", err)
	}
	return n, nil
}
