// internal/domain/models/pkg.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Package is a subscription plan an HR user can purchase. The catalog is
// static and seeded at startup; EmployeeLimit becomes the user's
// packageLimit when a payment for the plan is recorded.
type Package struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	EmployeeLimit int                `bson:"employeeLimit" json:"employeeLimit"`
	PriceMinor    int64              `bson:"priceMinor" json:"priceMinor"` // price in minor currency units
	Currency      string             `bson:"currency" json:"currency"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
