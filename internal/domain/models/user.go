// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles recognized by the platform.
const (
	RoleHR       = "hr"
	RoleEmployee = "employee"
)

// AssignedAsset is an entry in a user's embedded assets array. It is appended
// when HR approves a request and denormalizes enough of the asset to render
// the employee's "my assets" view without extra lookups.
type AssignedAsset struct {
	AssetID      primitive.ObjectID `bson:"assetId" json:"assetId"`
	Name         string             `bson:"name" json:"name"`
	Image        string             `bson:"image,omitempty" json:"image,omitempty"`
	Type         string             `bson:"type" json:"type"`
	CompanyName  string             `bson:"companyName" json:"companyName"`
	HREmail      string             `bson:"hrEmail" json:"hrEmail"`
	RequestDate  time.Time          `bson:"requestDate" json:"requestDate"`
	ApprovalDate time.Time          `bson:"approvalDate" json:"approvalDate"`
	AssignedAt   time.Time          `bson:"assignedAt" json:"assignedAt"`
	Status       string             `bson:"status" json:"status"` // assigned
}

// User represents both HR managers and employees. Email is the identity key
// (unique index). CurrentEmployees is maintained for HR users only and must
// track the count of their active affiliations.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash,omitempty" json:"-"`
	Role         string             `bson:"role" json:"role"` // hr | employee
	CompanyName  string             `bson:"companyName,omitempty" json:"companyName,omitempty"`
	CompanyLogo  string             `bson:"companyLogo,omitempty" json:"companyLogo,omitempty"`

	PackageLimit     int    `bson:"packageLimit,omitempty" json:"packageLimit,omitempty"`
	CurrentEmployees int    `bson:"currentEmployees,omitempty" json:"currentEmployees,omitempty"`
	Subscription     string `bson:"subscription,omitempty" json:"subscription,omitempty"`

	Assets []AssignedAsset `bson:"assets,omitempty" json:"assets,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsHR reports whether the user holds the HR role.
func (u *User) IsHR() bool { return u.Role == RoleHR }
