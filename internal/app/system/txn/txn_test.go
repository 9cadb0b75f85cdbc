package txn_test

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/assetverse/assetverse/internal/app/system/txn"
	"github.com/assetverse/assetverse/internal/testutil"
)

func TestIsNotSupported(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "unrelated store error",
			err:  errors.New("reserve asset unit: connection reset"),
			want: false,
		},
		{
			name: "standalone server code 20",
			err:  mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member"},
			want: true,
		},
		{
			name: "code 51",
			err:  mongo.CommandError{Code: 51, Message: "Illegal operation"},
			want: true,
		},
		{
			name: "code 263",
			err:  mongo.CommandError{Code: 263, Message: "Cannot run in a multi-document transaction"},
			want: true,
		},
		{
			name: "other command error code passes through",
			err:  mongo.CommandError{Code: 11000, Message: "duplicate key error on affiliations"},
			want: false,
		},
		{
			name: "transaction plus replica set wording",
			err:  errors.New("transaction failed because this is not a replica set member"),
			want: true,
		},
		{
			name: "sessions not supported wording",
			err:  errors.New("session operations are not supported on this server"),
			want: true,
		},
		{
			name: "transaction alone is not enough",
			err:  errors.New("transaction failed"),
			want: false,
		},
		{
			name: "transaction plus session wording",
			err:  errors.New("cannot start transaction in current session state"),
			want: true,
		},
		{
			name: "illegal operation wording",
			err:  errors.New("illegal operation during transaction"),
			want: true,
		},
		{
			name: "wording match is case insensitive",
			err:  errors.New("Transaction numbers require a Replica Set"),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := txn.IsNotSupported(tt.err)
			if got != tt.want {
				t.Errorf("IsNotSupported(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

// WithTransaction must leave exactly one committed write behind whether the
// server ran a real transaction or fell back to sequential execution. On a
// standalone server the first attempt fails inside the aborted transaction
// and the fallback re-runs the function, so the test asserts on the
// committed state rather than on call counts.
func TestWithTransaction_CommitsWrites(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := txn.WithTransaction(ctx, db.Client(), zap.NewNop(), func(ctx context.Context) error {
		_, err := db.Collection("audit").InsertOne(ctx, bson.M{"action": "approval_recorded"})
		return err
	})
	if err != nil {
		t.Fatalf("WithTransaction failed: %v", err)
	}

	n, err := db.Collection("audit").CountDocuments(ctx, bson.M{"action": "approval_recorded"})
	if err != nil {
		t.Fatalf("count documents: %v", err)
	}
	if n != 1 {
		t.Errorf("documents = %d, want 1", n)
	}
}

func TestWithTransaction_PropagatesFunctionError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	boom := errors.New("affiliation create failed")
	err := txn.WithTransaction(ctx, db.Client(), zap.NewNop(), func(ctx context.Context) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("WithTransaction err = %v, want the function's error", err)
	}
}
