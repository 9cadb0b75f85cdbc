// internal/domain/models/payment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment records a completed transaction with the external processor.
// TransactionID carries a unique index and acts as the idempotency key:
// duplicate webhook deliveries insert nothing and return the stored record.
// Documents are immutable once written.
type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TransactionID string             `bson:"transactionId" json:"transactionId"`
	PackageID     primitive.ObjectID `bson:"packageId" json:"packageId"`
	UserEmail     string             `bson:"userEmail" json:"userEmail"`
	PackageName   string             `bson:"packageName" json:"packageName"`
	Amount        float64            `bson:"amount" json:"amount"` // major currency units
	Currency      string             `bson:"currency" json:"currency"`
	PaymentStatus string             `bson:"paymentStatus" json:"paymentStatus"`
	PaidAt        time.Time          `bson:"paidAt" json:"paidAt"`
}
