// internal/domain/models/asset.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product types for assets.
const (
	TypeReturnable    = "Returnable"
	TypeNonReturnable = "Non-returnable"
)

// Asset is a unit-trackable inventory item owned by an HR user's company.
//
// Invariant: 0 <= AvailableQuantity <= ProductQuantity, at all times.
// AvailableQuantity only changes through the conditional updates in
// assetstore (Reserve, Release, Resize), never through blind writes.
type Asset struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductName       string             `bson:"productName" json:"productName"`
	ProductType       string             `bson:"productType" json:"productType"` // Returnable | Non-returnable
	ProductImage      string             `bson:"productImage,omitempty" json:"productImage,omitempty"`
	ProductQuantity   int                `bson:"productQuantity" json:"productQuantity"`
	AvailableQuantity int                `bson:"availableQuantity" json:"availableQuantity"`
	HREmail           string             `bson:"hrEmail" json:"hrEmail"`
	CompanyName       string             `bson:"companyName" json:"companyName"`
	CompanyLogo       string             `bson:"companyLogo,omitempty" json:"companyLogo,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ValidProductType reports whether t is one of the recognized product types.
func ValidProductType(t string) bool {
	return t == TypeReturnable || t == TypeNonReturnable
}
