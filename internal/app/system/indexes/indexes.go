// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
Errors are aggregated so every problem is visible and startup can fail fast.

Two of these indexes carry invariants, not just performance:
  - users.email unique: email is the identity key.
  - payments.transactionId unique: the payment idempotency key.
  - affiliations (employeeEmail, companyName) unique, partial on
    status="active": at most one active affiliation per pair, while
    inactive history records remain representable.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureAssets(ctx, db); err != nil {
		problems = append(problems, "assets: "+err.Error())
	}
	if err := ensureRequests(ctx, db); err != nil {
		problems = append(problems, "requests: "+err.Error())
	}
	if err := ensureAffiliations(ctx, db); err != nil {
		problems = append(problems, "affiliations: "+err.Error())
	}
	if err := ensurePayments(ctx, db); err != nil {
		problems = append(problems, "payments: "+err.Error())
	}
	if err := ensureAuditLogs(ctx, db); err != nil {
		problems = append(problems, "audit_logs: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_email").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}},
			Options: options.Index().SetName("role"),
		},
	})
	return err
}

func ensureAssets(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("assets").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "hrEmail", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("hr_created"),
		},
		{
			Keys:    bson.D{{Key: "productName", Value: 1}},
			Options: options.Index().SetName("product_name"),
		},
	})
	return err
}

func ensureRequests(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("requests").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "hrEmail", Value: 1}, {Key: "requestStatus", Value: 1}, {Key: "requestDate", Value: -1}},
			Options: options.Index().SetName("hr_status_date"),
		},
		{
			Keys:    bson.D{{Key: "requesterEmail", Value: 1}, {Key: "requestDate", Value: -1}},
			Options: options.Index().SetName("requester_date"),
		},
	})
	return err
}

func ensureAffiliations(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("affiliations").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "employeeEmail", Value: 1}, {Key: "companyName", Value: 1}},
			Options: options.Index().
				SetName("uniq_active_pair").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": "active"}),
		},
		{
			Keys:    bson.D{{Key: "hrEmail", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("hr_status"),
		},
	})
	return err
}

func ensurePayments(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("payments").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "transactionId", Value: 1}},
			Options: options.Index().SetName("uniq_transaction").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "userEmail", Value: 1}},
			Options: options.Index().SetName("user_email"),
		},
	})
	return err
}

func ensureAuditLogs(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("audit_logs").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("created_desc"),
		},
	})
	return err
}
