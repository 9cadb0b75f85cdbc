// internal/domain/models/affiliation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Affiliation statuses.
const (
	AffiliationActive   = "active"
	AffiliationInactive = "inactive"
)

// Affiliation records an employee's association with a company. It is created
// on the first approved request between the pair and flipped to inactive on
// explicit HR removal; records are never deleted. Uniqueness of
// (employeeEmail, companyName) is enforced only for active records, so a
// removed employee can be re-affiliated later without violating the index.
type Affiliation struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EmployeeEmail   string             `bson:"employeeEmail" json:"employeeEmail"`
	EmployeeName    string             `bson:"employeeName" json:"employeeName"`
	HREmail         string             `bson:"hrEmail" json:"hrEmail"`
	CompanyName     string             `bson:"companyName" json:"companyName"`
	CompanyLogo     string             `bson:"companyLogo,omitempty" json:"companyLogo,omitempty"`
	AffiliationDate time.Time          `bson:"affiliationDate" json:"affiliationDate"`
	Status          string             `bson:"status" json:"status"` // active | inactive
	RemovedAt       *time.Time         `bson:"removedAt,omitempty" json:"removedAt,omitempty"`
}
