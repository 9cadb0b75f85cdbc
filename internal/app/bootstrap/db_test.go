package bootstrap

import (
	"testing"

	"go.uber.org/zap"

	"github.com/assetverse/assetverse/internal/testutil"
)

func TestEnsureSchema_SeedsCatalogOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoClient: db.Client(), MongoDatabase: db}
	appCfg := AppConfig{SeedPackages: true}

	if err := EnsureSchema(ctx, nil, appCfg, deps, zap.NewNop()); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}
	// Running again must not duplicate plans.
	if err := EnsureSchema(ctx, nil, appCfg, deps, zap.NewNop()); err != nil {
		t.Fatalf("second EnsureSchema failed: %v", err)
	}

	n, err := db.Collection("packages").CountDocuments(ctx, map[string]any{})
	if err != nil {
		t.Fatalf("count packages: %v", err)
	}
	if n != 3 {
		t.Errorf("packages = %d, want 3", n)
	}
}
