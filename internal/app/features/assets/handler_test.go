package assets_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	assetsfeature "github.com/assetverse/assetverse/internal/app/features/assets"
	"github.com/assetverse/assetverse/internal/domain/models"
	"github.com/assetverse/assetverse/internal/testutil"
)

func TestHandleCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := assetsfeature.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hr := fixtures.CreateHR(ctx, "Hana HR", "hr@acme.com", "Acme")

	req := testutil.NewAuthenticatedRequest(t, http.MethodPost, "/assets", map[string]any{
		"productName":     "Standing Desk",
		"productType":     models.TypeReturnable,
		"productQuantity": 6,
	}, hr)
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var created models.Asset
	testutil.DecodeResponse(t, rec, &created)
	if created.AvailableQuantity != 6 {
		t.Errorf("availableQuantity = %d, want 6 (starts equal to total)", created.AvailableQuantity)
	}
	if created.HREmail != hr.Email || created.CompanyName != hr.CompanyName {
		t.Errorf("ownership fields wrong: %+v", created)
	}
}

func TestHandleCreate_Invalid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := assetsfeature.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hr := fixtures.CreateHR(ctx, "Hana HR", "hr@acme.com", "Acme")

	for name, body := range map[string]map[string]any{
		"missing name":      {"productType": models.TypeReturnable, "productQuantity": 1},
		"bad type":          {"productName": "Desk", "productType": "Leased", "productQuantity": 1},
		"negative quantity": {"productName": "Desk", "productType": models.TypeReturnable, "productQuantity": -2},
	} {
		req := testutil.NewAuthenticatedRequest(t, http.MethodPost, "/assets", body, hr)
		rec := httptest.NewRecorder()
		h.HandleCreate(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, rec.Code)
		}
	}
}

func TestHandleUpdate_Resize(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := assetsfeature.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hr := fixtures.CreateHR(ctx, "Hana HR", "hr@acme.com", "Acme")

	// Growing adds the new units to availability; shrinking caps it.
	cases := []struct {
		name         string
		total, avail int
		newTotal     int
		wantAvail    int
	}{
		{"grow", 5, 2, 8, 5},
		{"shrink above available", 5, 2, 3, 2},
		{"shrink below available", 5, 2, 1, 1},
		{"shrink to zero", 5, 2, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			asset := fixtures.CreateAsset(ctx, hr, "Printer "+tc.name, tc.total, tc.avail)

			req := testutil.NewAuthenticatedRequest(t, http.MethodPatch, "/assets/"+asset.ID.Hex(),
				map[string]any{"productQuantity": tc.newTotal}, hr)
			req = testutil.WithChiURLParam(req, "id", asset.ID.Hex())
			rec := httptest.NewRecorder()
			h.HandleUpdate(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
			got := fixtures.GetAsset(ctx, asset.ID)
			if got.ProductQuantity != tc.newTotal || got.AvailableQuantity != tc.wantAvail {
				t.Errorf("after resize: %d/%d, want %d/%d",
					got.AvailableQuantity, got.ProductQuantity, tc.wantAvail, tc.newTotal)
			}
		})
	}
}

func TestHandleUpdate_ForeignAsset(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := assetsfeature.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateHR(ctx, "Hana HR", "hr@acme.com", "Acme")
	other := fixtures.CreateHR(ctx, "Omar HR", "hr@globex.com", "Globex")
	asset := fixtures.CreateAsset(ctx, owner, "Scanner", 3, 3)

	req := testutil.NewAuthenticatedRequest(t, http.MethodPatch, "/assets/"+asset.ID.Hex(),
		map[string]any{"productName": "Hijacked"}, other)
	req = testutil.WithChiURLParam(req, "id", asset.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleUpdate(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	if got := fixtures.GetAsset(ctx, asset.ID); got.ProductName != "Scanner" {
		t.Errorf("productName = %q, should be unchanged", got.ProductName)
	}
}

func TestHandleList_ScopedByRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := assetsfeature.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hr1 := fixtures.CreateHR(ctx, "Hana HR", "hr@acme.com", "Acme")
	hr2 := fixtures.CreateHR(ctx, "Omar HR", "hr@globex.com", "Globex")
	emp := fixtures.CreateEmployee(ctx, "Evan Employee", "evan@mail.com")
	fixtures.CreateAsset(ctx, hr1, "Laptop", 2, 2)
	fixtures.CreateAsset(ctx, hr2, "Monitor", 2, 2)

	// HR sees only their own catalog.
	req := testutil.NewAuthenticatedRequest(t, http.MethodGet, "/assets", nil, hr1)
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)
	var mine []models.Asset
	testutil.DecodeResponse(t, rec, &mine)
	if len(mine) != 1 || mine[0].HREmail != hr1.Email {
		t.Errorf("HR list = %+v, want only own assets", mine)
	}

	// Employees browse everything.
	req = testutil.NewAuthenticatedRequest(t, http.MethodGet, "/assets", nil, emp)
	rec = httptest.NewRecorder()
	h.HandleList(rec, req)
	var all []models.Asset
	testutil.DecodeResponse(t, rec, &all)
	if len(all) != 2 {
		t.Errorf("employee list = %d assets, want 2", len(all))
	}
}

func TestHandleDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := assetsfeature.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hr := fixtures.CreateHR(ctx, "Hana HR", "hr@acme.com", "Acme")
	asset := fixtures.CreateAsset(ctx, hr, "Projector", 1, 1)

	req := testutil.NewAuthenticatedRequest(t, http.MethodDelete, "/assets/"+asset.ID.Hex(), nil, hr)
	req = testutil.WithChiURLParam(req, "id", asset.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	n, err := db.Collection("assets").CountDocuments(ctx, map[string]any{})
	if err != nil {
		t.Fatalf("count assets: %v", err)
	}
	if n != 0 {
		t.Errorf("assets remaining = %d, want 0", n)
	}
}
