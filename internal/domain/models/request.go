// internal/domain/models/request.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Request states. Pending is the only initial state; approved and rejected
// are terminal and no transition out of them is permitted.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Request is an employee's pending claim on an asset. Requester name/email
// and asset name/type are denormalized at submission time.
type Request struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AssetID        primitive.ObjectID `bson:"assetId" json:"assetId"`
	AssetName      string             `bson:"assetName,omitempty" json:"assetName,omitempty"`
	AssetType      string             `bson:"assetType,omitempty" json:"assetType,omitempty"`
	RequesterEmail string             `bson:"requesterEmail" json:"requesterEmail"`
	RequesterName  string             `bson:"requesterName" json:"requesterName"`
	HREmail        string             `bson:"hrEmail" json:"hrEmail"`
	Note           string             `bson:"note,omitempty" json:"note,omitempty"`
	RequestDate    time.Time          `bson:"requestDate" json:"requestDate"`
	ApprovalDate   *time.Time         `bson:"approvalDate" json:"approvalDate"`
	RequestStatus  string             `bson:"requestStatus" json:"requestStatus"` // pending | approved | rejected
	ProcessedBy    *string            `bson:"processedBy" json:"processedBy"`
}

// Terminal reports whether the request is in a terminal state.
func (r *Request) Terminal() bool {
	return r.RequestStatus == StatusApproved || r.RequestStatus == StatusRejected
}
