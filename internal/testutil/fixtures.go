// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/assetverse/assetverse/internal/domain/models"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateHR creates an HR user for the given company.
func (f *Fixtures) CreateHR(ctx context.Context, name, email, companyName string) models.User {
	f.t.Helper()
	return f.createUser(ctx, models.User{
		Name:        name,
		Email:       email,
		Role:        models.RoleHR,
		CompanyName: companyName,
	})
}

// CreateHRWithEmployees creates an HR user with a preset currentEmployees
// counter, for tests exercising increments from a non-zero base.
func (f *Fixtures) CreateHRWithEmployees(ctx context.Context, name, email, companyName string, current int) models.User {
	f.t.Helper()
	return f.createUser(ctx, models.User{
		Name:             name,
		Email:            email,
		Role:             models.RoleHR,
		CompanyName:      companyName,
		CurrentEmployees: current,
	})
}

// CreateEmployee creates an employee user.
func (f *Fixtures) CreateEmployee(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.createUser(ctx, models.User{
		Name:  name,
		Email: email,
		Role:  models.RoleEmployee,
	})
}

func (f *Fixtures) createUser(ctx context.Context, u models.User) models.User {
	f.t.Helper()
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.CreatedAt = now
	u.UpdatedAt = now
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateAsset creates an asset owned by the given HR user with the given
// total and available quantities.
func (f *Fixtures) CreateAsset(ctx context.Context, hr models.User, name string, total, available int) models.Asset {
	f.t.Helper()
	now := time.Now().UTC()
	a := models.Asset{
		ID:                primitive.NewObjectID(),
		ProductName:       name,
		ProductType:       models.TypeReturnable,
		ProductQuantity:   total,
		AvailableQuantity: available,
		HREmail:           hr.Email,
		CompanyName:       hr.CompanyName,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if _, err := f.db.Collection("assets").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test asset: %v", err)
	}
	return a
}

// CreatePendingRequest creates a pending request from employee to the asset's
// HR owner.
func (f *Fixtures) CreatePendingRequest(ctx context.Context, employee models.User, asset models.Asset) models.Request {
	f.t.Helper()
	r := models.Request{
		ID:             primitive.NewObjectID(),
		AssetID:        asset.ID,
		AssetName:      asset.ProductName,
		AssetType:      asset.ProductType,
		RequesterEmail: employee.Email,
		RequesterName:  employee.Name,
		HREmail:        asset.HREmail,
		RequestStatus:  models.StatusPending,
		RequestDate:    time.Now().UTC(),
	}
	if _, err := f.db.Collection("requests").InsertOne(ctx, r); err != nil {
		f.t.Fatalf("failed to create test request: %v", err)
	}
	return r
}

// CreateAffiliation creates an affiliation record with the given status.
func (f *Fixtures) CreateAffiliation(ctx context.Context, employee, hr models.User, status string) models.Affiliation {
	f.t.Helper()
	a := models.Affiliation{
		ID:              primitive.NewObjectID(),
		EmployeeEmail:   employee.Email,
		EmployeeName:    employee.Name,
		HREmail:         hr.Email,
		CompanyName:     hr.CompanyName,
		AffiliationDate: time.Now().UTC(),
		Status:          status,
	}
	if status == models.AffiliationInactive {
		removed := time.Now().UTC()
		a.RemovedAt = &removed
	}
	if _, err := f.db.Collection("affiliations").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test affiliation: %v", err)
	}
	return a
}

// CreatePackage creates a subscription plan.
func (f *Fixtures) CreatePackage(ctx context.Context, name string, limit int, priceMinor int64) models.Package {
	f.t.Helper()
	p := models.Package{
		ID:            primitive.NewObjectID(),
		Name:          name,
		EmployeeLimit: limit,
		PriceMinor:    priceMinor,
		Currency:      "usd",
		CreatedAt:     time.Now().UTC(),
	}
	if _, err := f.db.Collection("packages").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test package: %v", err)
	}
	return p
}

// GetUser reloads a user document by email.
func (f *Fixtures) GetUser(ctx context.Context, email string) models.User {
	f.t.Helper()
	var u models.User
	if err := f.db.Collection("users").FindOne(ctx, map[string]any{"email": email}).Decode(&u); err != nil {
		f.t.Fatalf("failed to load test user %s: %v", email, err)
	}
	return u
}

// GetAsset reloads an asset document.
func (f *Fixtures) GetAsset(ctx context.Context, id primitive.ObjectID) models.Asset {
	f.t.Helper()
	var a models.Asset
	if err := f.db.Collection("assets").FindOne(ctx, map[string]any{"_id": id}).Decode(&a); err != nil {
		f.t.Fatalf("failed to load test asset: %v", err)
	}
	return a
}

// GetRequest reloads a request document.
func (f *Fixtures) GetRequest(ctx context.Context, id primitive.ObjectID) models.Request {
	f.t.Helper()
	var r models.Request
	if err := f.db.Collection("requests").FindOne(ctx, map[string]any{"_id": id}).Decode(&r); err != nil {
		f.t.Fatalf("failed to load test request: %v", err)
	}
	return r
}
