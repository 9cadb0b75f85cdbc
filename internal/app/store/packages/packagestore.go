// internal/app/store/packages/packagestore.go

// Package packagestore serves the static subscription plan catalog.
package packagestore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/assetverse/assetverse/internal/app/system/apperrors"
	"github.com/assetverse/assetverse/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("packages")}
}

// List returns all plans ordered by employee limit.
func (s *Store) List(ctx context.Context) ([]models.Package, error) {
	opts := options.Find().SetSort(bson.D{{Key: "employeeLimit", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "list packages", err)
	}
	defer cur.Close(ctx)
	var out []models.Package
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "decode packages", err)
	}
	return out, nil
}

// GetByID loads one plan.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Package, error) {
	var p models.Package
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.New(apperrors.NotFound, "package not found")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "load package", err)
	}
	return &p, nil
}

// defaultCatalog is the static plan catalog seeded at startup.
var defaultCatalog = []models.Package{
	{Name: "Starter", EmployeeLimit: 5, PriceMinor: 500, Currency: "usd"},
	{Name: "Standard", EmployeeLimit: 10, PriceMinor: 800, Currency: "usd"},
	{Name: "Premium", EmployeeLimit: 20, PriceMinor: 1500, Currency: "usd"},
}

// Seed upserts the default catalog keyed by plan name. Idempotent; safe to
// run on every startup.
func (s *Store) Seed(ctx context.Context) error {
	now := time.Now().UTC()
	for _, p := range defaultCatalog {
		_, err := s.c.UpdateOne(ctx,
			bson.M{"name": p.Name},
			bson.M{
				"$set": bson.M{
					"employeeLimit": p.EmployeeLimit,
					"priceMinor":    p.PriceMinor,
					"currency":      p.Currency,
				},
				"$setOnInsert": bson.M{
					"_id":       primitive.NewObjectID(),
					"createdAt": now,
				},
			},
			options.Update().SetUpsert(true))
		if err != nil {
			return apperrors.Wrap(apperrors.Internal, "seed packages", err)
		}
	}
	return nil
}
