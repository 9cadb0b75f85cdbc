// internal/app/store/users/userstore.go
package userstore

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
	return &Store{c: db.Collection("users")}
}

// Create inserts a new user after normalizing fields. Email is the identity
// key; a duplicate insert surfaces as a Duplicate error via the unique index.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Email = normalize.Email(u.Email)
	u.Name = normalize.Text(u.Name)
	u.CompanyName = normalize.Text(u.CompanyName)

	switch u.Role {
	case models.RoleHR, models.RoleEmployee:
	default:
		return models.User{}, apperrors.Newf(apperrors.Invalid, "role must be %q or %q", models.RoleHR, models.RoleEmployee)
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, apperrors.New(apperrors.Duplicate, "user already exists")
		}
		return models.User{}, apperrors.Wrap(apperrors.Internal, "create user", err)
	}
	return u, nil
}

// GetByEmail looks up a user by normalized email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.New(apperrors.NotFound, "user not found")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "load user", err)
	}
	return &u, nil
}

// RoleByEmail returns the stored role for an email, defaulting to "employee"
// when no user exists. Used by the public role endpoint.
func (s *Store) RoleByEmail(ctx context.Context, email string) (string, error) {
	u, err := s.GetByEmail(ctx, email)
	if apperrors.Is(err, apperrors.NotFound) {
		return models.RoleEmployee, nil
	}
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

// ListAll returns every user. HR-only listing endpoint.
func (s *Store) ListAll(ctx context.Context) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "list users", err)
	}
	defer cur.Close(ctx)
	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "decode users", err)
	}
	return out, nil
}

// ProfileUpdate holds the profile fields a user may change about themselves.
type ProfileUpdate struct {
	Name        string
	CompanyName string
	CompanyLogo string
}

// UpdateProfile applies a profile update to the user with the given email.
func (s *Store) UpdateProfile(ctx context.Context, email string, upd ProfileUpdate) error {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Name != "" {
		set["name"] = normalize.Text(upd.Name)
	}
	if upd.CompanyName != "" {
		set["companyName"] = normalize.Text(upd.CompanyName)
	}
	if upd.CompanyLogo != "" {
		set["companyLogo"] = upd.CompanyLogo
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"email": normalize.Email(email)}, bson.M{"$set": set})
	if err != nil {
		return apperrors.Wrap(apperrors.Internal, "update profile", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.New(apperrors.NotFound, "user not found")
	}
	return nil
}

// AppendAssignedAsset appends rec to the user's embedded assets array. The
// first append creates the array; order of appends is preserved.
func (s *Store) AppendAssignedAsset(ctx context.Context, email string, rec models.AssignedAsset) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"email": normalize.Email(email)},
		bson.M{
			"$push": bson.M{"assets": rec},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		})
	if err != nil {
		return apperrors.Wrap(apperrors.Internal, "append assigned asset", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.New(apperrors.NotFound, "user not found")
	}
	return nil
}

// IncrementEmployees adjusts an HR user's currentEmployees counter by delta.
// Decrements saturate at zero: a decrement against a zero counter matches no
// document and is reported as NotFound so callers can log the inconsistency.
func (s *Store) IncrementEmployees(ctx context.Context, hrEmail string, delta int) error {
	filter := bson.M{"email": normalize.Email(hrEmail), "role": models.RoleHR}
	if delta < 0 {
		filter["currentEmployees"] = bson.M{"$gte": -delta}
	}
	res, err := s.c.UpdateOne(ctx, filter, bson.M{
		"$inc": bson.M{"currentEmployees": delta},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return apperrors.Wrap(apperrors.Internal, "adjust employee count", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.New(apperrors.NotFound, "hr user not found or counter at zero")
	}
	return nil
}

// SetSubscription records the purchased plan name and its employee limit on
// the user. Called exactly once per recorded payment.
func (s *Store) SetSubscription(ctx context.Context, email, planName string, packageLimit int) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"email": normalize.Email(email)},
		bson.M{"$set": bson.M{
			"subscription": planName,
			"packageLimit": packageLimit,
			"updatedAt":    time.Now().UTC(),
		}})
	if err != nil {
		return apperrors.Wrap(apperrors.Internal, "set subscription", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.New(apperrors.NotFound, "user not found")
	}
	return nil
}
