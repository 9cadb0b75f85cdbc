// internal/app/store/assets/assetstore.go

// Package assetstore is the inventory ledger. It owns the two quantity
// fields on an asset and the only code paths allowed to change them:
// Reserve, Release, and Resize. All three preserve the invariant
// 0 <= availableQuantity <= productQuantity using conditional
// single-document updates, which MongoDB applies atomically.
package assetstore

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/assetverse/assetverse/internal/app/system/apperrors"
	"github.com/assetverse/assetverse/internal/app/system/normalize"
	"github.com/assetverse/assetverse/internal/domain/models"
)

// resizeRetries bounds the optimistic CAS loop in Resize.
const resizeRetries = 3

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("assets")}
}

// Create inserts a new asset. Available quantity starts equal to the total.
func (s *Store) Create(ctx context.Context, a models.Asset) (models.Asset, error) {
	a.ProductName = normalize.Text(a.ProductName)
	if a.ProductName == "" {
		return models.Asset{}, apperrors.New(apperrors.Invalid, "productName is required")
	}
	if !models.ValidProductType(a.ProductType) {
		return models.Asset{}, apperrors.Newf(apperrors.Invalid, "productType must be %q or %q", models.TypeReturnable, models.TypeNonReturnable)
	}
	if a.ProductQuantity < 0 {
		return models.Asset{}, apperrors.New(apperrors.Invalid, "productQuantity must not be negative")
	}

	a.ID = primitive.NewObjectID()
	a.HREmail = normalize.Email(a.HREmail)
	a.AvailableQuantity = a.ProductQuantity
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Asset{}, apperrors.Wrap(apperrors.Internal, "create asset", err)
	}
	return a, nil
}

// GetByID loads a single asset.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Asset, error) {
	var a models.Asset
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.New(apperrors.NotFound, "asset not found")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "load asset", err)
	}
	return &a, nil
}

// ListFilter narrows List results.
type ListFilter struct {
	Search      string // literal case-insensitive productName substring
	ProductType string
	HREmail     string
}

// List returns assets matching the filter, newest first.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.Asset, error) {
	filter := bson.M{}
	if f.Search != "" {
		// Quote the input so user-typed metacharacters match literally
		// instead of acting as pattern syntax.
		filter["productName"] = bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
	}
	if f.ProductType != "" {
		filter["productType"] = f.ProductType
	}
	if f.HREmail != "" {
		filter["hrEmail"] = normalize.Email(f.HREmail)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "list assets", err)
	}
	defer cur.Close(ctx)
	var out []models.Asset
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "decode assets", err)
	}
	return out, nil
}

// Reserve takes one available unit. The decrement is conditional on
// availableQuantity > 0, so availability can never go negative regardless of
// how many approvals race on the same asset. A zero-match result is
// disambiguated with a point read: missing asset vs exhausted inventory.
func (s *Store) Reserve(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "availableQuantity": bson.M{"$gt": 0}},
		bson.M{
			"$inc": bson.M{"availableQuantity": -1},
			"$set": bson.M{"updatedAt": time.Now().UTC()},
		})
	if err != nil {
		return apperrors.Wrap(apperrors.Internal, "reserve asset unit", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Err(); err == mongo.ErrNoDocuments {
		return apperrors.New(apperrors.NotFound, "asset not found")
	} else if err != nil {
		return apperrors.Wrap(apperrors.Internal, "reserve asset unit", err)
	}
	return apperrors.New(apperrors.Exhausted, "no available units")
}

// Release returns one unit, compensating a reservation whose approval lost a
// race. The increment is guarded so availability never exceeds the total; a
// zero-match here means nothing was reserved and is reported for logging.
func (s *Store) Release(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "$expr": bson.M{"$lt": bson.A{"$availableQuantity", "$productQuantity"}}},
		bson.M{
			"$inc": bson.M{"availableQuantity": 1},
			"$set": bson.M{"updatedAt": time.Now().UTC()},
		})
	if err != nil {
		return apperrors.Wrap(apperrors.Internal, "release asset unit", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.New(apperrors.NotFound, "asset missing or already at full availability")
	}
	return nil
}

// Resize changes an asset's total quantity. Growing makes the added units
// immediately available; shrinking caps availability at the new total but
// never raises it. The read-modify-write runs under an optimistic CAS on
// both quantity fields, retried a bounded number of times.
func (s *Store) Resize(ctx context.Context, id primitive.ObjectID, newTotal int) (*models.Asset, error) {
	if newTotal < 0 {
		return nil, apperrors.New(apperrors.Invalid, "productQuantity must not be negative")
	}

	for attempt := 0; attempt < resizeRetries; attempt++ {
		a, err := s.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		newAvail := a.AvailableQuantity
		if newTotal > a.ProductQuantity {
			newAvail = a.AvailableQuantity + (newTotal - a.ProductQuantity)
		} else if newAvail > newTotal {
			newAvail = newTotal
		}

		res, err := s.c.UpdateOne(ctx,
			bson.M{
				"_id":               id,
				"productQuantity":   a.ProductQuantity,
				"availableQuantity": a.AvailableQuantity,
			},
			bson.M{"$set": bson.M{
				"productQuantity":   newTotal,
				"availableQuantity": newAvail,
				"updatedAt":         time.Now().UTC(),
			}})
		if err != nil {
			return nil, apperrors.Wrap(apperrors.Internal, "resize asset", err)
		}
		if res.MatchedCount > 0 {
			a.ProductQuantity = newTotal
			a.AvailableQuantity = newAvail
			return a, nil
		}
		// Lost the race against a concurrent reserve/release; reload and retry.
	}
	return nil, apperrors.New(apperrors.Conflict, "asset changed concurrently, retries exhausted")
}

// UpdateDetails edits the descriptive fields without touching quantities.
func (s *Store) UpdateDetails(ctx context.Context, id primitive.ObjectID, name, productType, image string) error {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if name != "" {
		set["productName"] = normalize.Text(name)
	}
	if productType != "" {
		if !models.ValidProductType(productType) {
			return apperrors.New(apperrors.Invalid, "invalid productType")
		}
		set["productType"] = productType
	}
	if image != "" {
		set["productImage"] = image
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return apperrors.Wrap(apperrors.Internal, "update asset", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.New(apperrors.NotFound, "asset not found")
	}
	return nil
}

// Delete removes an asset. Explicit HR action only.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperrors.Wrap(apperrors.Internal, "delete asset", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.New(apperrors.NotFound, "asset not found")
	}
	return nil
}

// CountByHR returns the number of assets owned by an HR user.
func (s *Store) CountByHR(ctx context.Context, hrEmail string) (int64, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"hrEmail": normalize.Email(hrEmail)})
	if err != nil {
		return 0, apperrors.Wrap(apperrors.Internal, "count assets", err)
	}
	return n, nil
}
