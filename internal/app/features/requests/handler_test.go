package requests_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	requestsfeature "github.com/assetverse/assetverse/internal/app/features/requests"
	"github.com/assetverse/assetverse/internal/app/system/apperrors"
	"github.com/assetverse/assetverse/internal/domain/models"
	"github.com/assetverse/assetverse/internal/testutil"
)

func TestApprove_EndToEnd(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := requestsfeature.NewHandler(db, nil, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hr := fixtures.CreateHRWithEmployees(ctx, "Hana HR", "hr@acme.com", "Acme", 2)
	emp := fixtures.CreateEmployee(ctx, "Evan Employee", "evan@mail.com")
	asset := fixtures.CreateAsset(ctx, hr, "Laptop", 3, 3)
	req := fixtures.CreatePendingRequest(ctx, emp, asset)

	res, err := h.Approve(ctx, req.ID, testutil.IdentityFor(hr))
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}

	if res.Request.RequestStatus != models.StatusApproved {
		t.Errorf("status = %q, want approved", res.Request.RequestStatus)
	}
	if res.Request.ApprovalDate == nil || res.Request.ProcessedBy == nil {
		t.Error("approvalDate/processedBy not stamped")
	} else if *res.Request.ProcessedBy != hr.Email {
		t.Errorf("processedBy = %q, want %q", *res.Request.ProcessedBy, hr.Email)
	}
	if !res.AssetAssigned || !res.AffiliationCreated {
		t.Errorf("result = %+v, want asset assigned and affiliation created", res)
	}

	// Inventory decremented by exactly one.
	got := fixtures.GetAsset(ctx, asset.ID)
	if got.AvailableQuantity != 2 {
		t.Errorf("availableQuantity = %d, want 2", got.AvailableQuantity)
	}
	if got.AvailableQuantity < 0 || got.AvailableQuantity > got.ProductQuantity {
		t.Errorf("availability invariant violated: %d/%d", got.AvailableQuantity, got.ProductQuantity)
	}

	// Employee's embedded assets list holds the assignment.
	gotEmp := fixtures.GetUser(ctx, emp.Email)
	if len(gotEmp.Assets) != 1 {
		t.Fatalf("embedded assets = %d records, want 1", len(gotEmp.Assets))
	}
	if gotEmp.Assets[0].AssetID != asset.ID || gotEmp.Assets[0].Status != "assigned" {
		t.Errorf("assigned record = %+v", gotEmp.Assets[0])
	}

	// Affiliation created active, counter bumped from its prior value.
	gotHR := fixtures.GetUser(ctx, hr.Email)
	if gotHR.CurrentEmployees != 3 {
		t.Errorf("currentEmployees = %d, want 3", gotHR.CurrentEmployees)
	}
}

func TestApprove_AlreadyApproved(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := requestsfeature.NewHandler(db, nil, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hr := fixtures.CreateHR(ctx, "Hana HR", "hr@acme.com", "Acme")
	emp := fixtures.CreateEmployee(ctx, "Evan Employee", "evan@mail.com")
	asset := fixtures.CreateAsset(ctx, hr, "Monitor", 5, 5)
	req := fixtures.CreatePendingRequest(ctx, emp, asset)

	if _, err := h.Approve(ctx, req.ID, testutil.IdentityFor(hr)); err != nil {
		t.Fatalf("first Approve failed: %v", err)
	}

	_, err := h.Approve(ctx, req.ID, testutil.IdentityFor(hr))
	if !apperrors.Is(err, apperrors.AlreadyProcessed) {
		t.Fatalf("second Approve err = %v, want AlreadyProcessed", err)
	}

	// No additional inventory or affiliation mutation.
	if got := fixtures.GetAsset(ctx, asset.ID); got.AvailableQuantity != 4 {
		t.Errorf("availableQuantity = %d, want 4", got.AvailableQuantity)
	}
	if got := fixtures.GetUser(ctx, emp.Email); len(got.Assets) != 1 {
		t.Errorf("embedded assets = %d records, want 1", len(got.Assets))
	}
	if got := fixtures.GetUser(ctx, hr.Email); got.CurrentEmployees != 1 {
		t.Errorf("currentEmployees = %d, want 1", got.CurrentEmployees)
	}
}

func TestApprove_Exhausted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := requestsfeature.NewHandler(db, nil, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hr := fixtures.CreateHR(ctx, "Hana HR", "hr@acme.com", "Acme")
	emp := fixtures.CreateEmployee(ctx, "Evan Employee", "evan@mail.com")
	asset := fixtures.CreateAsset(ctx, hr, "Dock", 2, 0)
	req := fixtures.CreatePendingRequest(ctx, emp, asset)

	_, err := h.Approve(ctx, req.ID, testutil.IdentityFor(hr))
	if !apperrors.Is(err, apperrors.Exhausted) {
		t.Fatalf("Approve err = %v, want Exhausted", err)
	}

	// Request stays pending, nothing else happened.
	if got := fixtures.GetRequest(ctx, req.ID); got.RequestStatus != models.StatusPending {
		t.Errorf("request status = %q, want pending", got.RequestStatus)
	}
	if got := fixtures.GetAsset(ctx, asset.ID); got.AvailableQuantity != 0 {
		t.Errorf("availableQuantity = %d, want 0", got.AvailableQuantity)
	}
	if got := fixtures.GetUser(ctx, emp.Email); len(got.Assets) != 0 {
		t.Errorf("embedded assets = %d records, want 0", len(got.Assets))
	}
	if got := fixtures.GetUser(ctx, hr.Email); got.CurrentEmployees != 0 {
		t.Errorf("currentEmployees = %d, want 0", got.CurrentEmployees)
	}
}

func TestApprove_InactiveAffiliationNotReactivated(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := requestsfeature.NewHandler(db, nil, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hr := fixtures.CreateHRWithEmployees(ctx, "Hana HR", "hr@acme.com", "Acme", 4)
	emp := fixtures.CreateEmployee(ctx, "Evan Employee", "evan@mail.com")
	fixtures.CreateAffiliation(ctx, emp, hr, models.AffiliationInactive)
	asset := fixtures.CreateAsset(ctx, hr, "Keyboard", 3, 3)
	req := fixtures.CreatePendingRequest(ctx, emp, asset)

	res, err := h.Approve(ctx, req.ID, testutil.IdentityFor(hr))
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if res.AffiliationCreated {
		t.Error("affiliation should not be created when an inactive record exists")
	}

	// The inactive record stays inactive and the counter is untouched.
	n, err := db.Collection("affiliations").CountDocuments(ctx, map[string]any{
		"employeeEmail": emp.Email, "companyName": hr.CompanyName,
	})
	if err != nil {
		t.Fatalf("count affiliations: %v", err)
	}
	if n != 1 {
		t.Errorf("affiliation documents = %d, want 1", n)
	}
	var aff models.Affiliation
	if err := db.Collection("affiliations").FindOne(ctx, map[string]any{"employeeEmail": emp.Email}).Decode(&aff); err != nil {
		t.Fatalf("load affiliation: %v", err)
	}
	if aff.Status != models.AffiliationInactive {
		t.Errorf("affiliation status = %q, want inactive", aff.Status)
	}
	if got := fixtures.GetUser(ctx, hr.Email); got.CurrentEmployees != 4 {
		t.Errorf("currentEmployees = %d, want 4", got.CurrentEmployees)
	}
}

func TestApprove_FollowUpFailureIsLogged(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	core, logs := observer.New(zap.ErrorLevel)
	h := requestsfeature.NewHandler(db, nil, zap.New(core))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hr := fixtures.CreateHR(ctx, "Hana HR", "hr@acme.com", "Acme")
	emp := fixtures.CreateEmployee(ctx, "Evan Employee", "evan@mail.com")
	asset := fixtures.CreateAsset(ctx, hr, "Printer", 2, 2)
	req := fixtures.CreatePendingRequest(ctx, emp, asset)

	// Remove the requester so appending the assignment record fails after
	// the status flip and the reservation have already committed.
	if _, err := db.Collection("users").DeleteOne(ctx, map[string]any{"email": emp.Email}); err != nil {
		t.Fatalf("delete requester: %v", err)
	}

	_, err := h.Approve(ctx, req.ID, testutil.IdentityFor(hr))
	if !apperrors.Is(err, apperrors.NotFound) {
		t.Fatalf("Approve err = %v, want NotFound", err)
	}

	// The committed part stands and the error log names the ids an operator
	// needs to reconcile the missing records.
	if got := fixtures.GetRequest(ctx, req.ID); got.RequestStatus != models.StatusApproved {
		t.Errorf("request status = %q, want approved", got.RequestStatus)
	}
	if got := fixtures.GetAsset(ctx, asset.ID); got.AvailableQuantity != 1 {
		t.Errorf("availableQuantity = %d, want 1", got.AvailableQuantity)
	}
	entries := logs.FilterMessage("approval committed but follow-up records failed").All()
	if len(entries) != 1 {
		t.Fatalf("reconciliation log entries = %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["requestId"] != req.ID.Hex() || fields["assetId"] != asset.ID.Hex() {
		t.Errorf("log fields = %v, want requestId %s and assetId %s", fields, req.ID.Hex(), asset.ID.Hex())
	}
}

func TestApprove_ConcurrentSameRequest(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := requestsfeature.NewHandler(db, nil, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hr := fixtures.CreateHR(ctx, "Hana HR", "hr@acme.com", "Acme")
	emp := fixtures.CreateEmployee(ctx, "Evan Employee", "evan@mail.com")
	asset := fixtures.CreateAsset(ctx, hr, "Headset", 5, 5)
	req := fixtures.CreatePendingRequest(ctx, emp, asset)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = h.Approve(ctx, req.ID, testutil.IdentityFor(hr))
		}(i)
	}
	wg.Wait()

	var successes, processed int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case apperrors.Is(err, apperrors.AlreadyProcessed):
			processed++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if successes != 1 || processed != 1 {
		t.Errorf("successes = %d, alreadyProcessed = %d, want 1 and 1", successes, processed)
	}

	// Exactly one unit accounted for, despite both racers reserving.
	if got := fixtures.GetAsset(ctx, asset.ID); got.AvailableQuantity != 4 {
		t.Errorf("availableQuantity = %d, want 4", got.AvailableQuantity)
	}
	if got := fixtures.GetUser(ctx, hr.Email); got.CurrentEmployees != 1 {
		t.Errorf("currentEmployees = %d, want 1", got.CurrentEmployees)
	}
}

func TestApprove_ConcurrentSameRequestLastUnit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := requestsfeature.NewHandler(db, nil, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hr := fixtures.CreateHR(ctx, "Hana HR", "hr@acme.com", "Acme")
	emp := fixtures.CreateEmployee(ctx, "Evan Employee", "evan@mail.com")
	asset := fixtures.CreateAsset(ctx, hr, "Webcam", 1, 1)
	req := fixtures.CreatePendingRequest(ctx, emp, asset)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = h.Approve(ctx, req.ID, testutil.IdentityFor(hr))
		}(i)
	}
	wg.Wait()

	// Both racers target the same request, so the loser must hear that the
	// request was already processed, never that inventory ran out. Exhausted
	// here would claim the request is still pending when it is not.
	var successes, processed int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case apperrors.Is(err, apperrors.AlreadyProcessed):
			processed++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if successes != 1 || processed != 1 {
		t.Errorf("successes = %d, alreadyProcessed = %d, want 1 and 1", successes, processed)
	}

	if got := fixtures.GetRequest(ctx, req.ID); got.RequestStatus != models.StatusApproved {
		t.Errorf("request status = %q, want approved", got.RequestStatus)
	}
	if got := fixtures.GetAsset(ctx, asset.ID); got.AvailableQuantity != 0 {
		t.Errorf("availableQuantity = %d, want 0", got.AvailableQuantity)
	}
}

func TestApprove_ConcurrentLastUnit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := requestsfeature.NewHandler(db, nil, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hr := fixtures.CreateHR(ctx, "Hana HR", "hr@acme.com", "Acme")
	emp1 := fixtures.CreateEmployee(ctx, "Evan Employee", "evan@mail.com")
	emp2 := fixtures.CreateEmployee(ctx, "Fran Employee", "fran@mail.com")
	asset := fixtures.CreateAsset(ctx, hr, "Tablet", 1, 1)
	req1 := fixtures.CreatePendingRequest(ctx, emp1, asset)
	req2 := fixtures.CreatePendingRequest(ctx, emp2, asset)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); _, errs[0] = h.Approve(ctx, req1.ID, testutil.IdentityFor(hr)) }()
	go func() { defer wg.Done(); _, errs[1] = h.Approve(ctx, req2.ID, testutil.IdentityFor(hr)) }()
	wg.Wait()

	var successes, exhausted int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case apperrors.Is(err, apperrors.Exhausted):
			exhausted++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if successes != 1 || exhausted != 1 {
		t.Errorf("successes = %d, exhausted = %d, want 1 and 1", successes, exhausted)
	}

	got := fixtures.GetAsset(ctx, asset.ID)
	if got.AvailableQuantity != 0 {
		t.Errorf("availableQuantity = %d, want 0", got.AvailableQuantity)
	}

	// The losing request must still be pending.
	var pending int
	for _, r := range []models.Request{fixtures.GetRequest(ctx, req1.ID), fixtures.GetRequest(ctx, req2.ID)} {
		if r.RequestStatus == models.StatusPending {
			pending++
		}
	}
	if pending != 1 {
		t.Errorf("pending requests after race = %d, want 1", pending)
	}
}

func TestHandleSubmit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := requestsfeature.NewHandler(db, nil, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hr := fixtures.CreateHR(ctx, "Hana HR", "hr@acme.com", "Acme")
	emp := fixtures.CreateEmployee(ctx, "Evan Employee", "evan@mail.com")
	asset := fixtures.CreateAsset(ctx, hr, "Chair", 4, 4)

	req := testutil.NewAuthenticatedRequest(t, http.MethodPost, "/requests",
		map[string]string{"assetId": asset.ID.Hex(), "note": "for the new desk"}, emp)
	rec := httptest.NewRecorder()
	h.HandleSubmit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var created models.Request
	testutil.DecodeResponse(t, rec, &created)
	if created.RequestStatus != models.StatusPending {
		t.Errorf("status = %q, want pending", created.RequestStatus)
	}
	if created.ApprovalDate != nil || created.ProcessedBy != nil {
		t.Error("approvalDate/processedBy should start null")
	}
	if created.RequesterEmail != emp.Email || created.RequesterName != emp.Name {
		t.Errorf("requester denormalization wrong: %+v", created)
	}
	if created.HREmail != hr.Email || created.AssetName != asset.ProductName {
		t.Errorf("asset denormalization wrong: %+v", created)
	}
}

func TestHandleSubmit_UnknownRequester(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := requestsfeature.NewHandler(db, nil, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hr := fixtures.CreateHR(ctx, "Hana HR", "hr@acme.com", "Acme")
	asset := fixtures.CreateAsset(ctx, hr, "Chair", 4, 4)

	ghost := models.User{Email: "ghost@mail.com", Role: models.RoleEmployee}
	req := testutil.NewAuthenticatedRequest(t, http.MethodPost, "/requests",
		map[string]string{"assetId": asset.ID.Hex()}, ghost)
	rec := httptest.NewRecorder()
	h.HandleSubmit(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleReject(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := requestsfeature.NewHandler(db, nil, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hr := fixtures.CreateHR(ctx, "Hana HR", "hr@acme.com", "Acme")
	emp := fixtures.CreateEmployee(ctx, "Evan Employee", "evan@mail.com")
	asset := fixtures.CreateAsset(ctx, hr, "Lamp", 2, 2)
	pending := fixtures.CreatePendingRequest(ctx, emp, asset)

	req := testutil.NewAuthenticatedRequest(t, http.MethodPost, "/requests/"+pending.ID.Hex()+"/reject", nil, hr)
	req = testutil.WithChiURLParam(req, "id", pending.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleReject(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var updated models.Request
	testutil.DecodeResponse(t, rec, &updated)
	if updated.RequestStatus != models.StatusRejected {
		t.Errorf("status = %q, want rejected", updated.RequestStatus)
	}

	// No inventory change, no affiliation.
	if got := fixtures.GetAsset(ctx, asset.ID); got.AvailableQuantity != 2 {
		t.Errorf("availableQuantity = %d, want 2", got.AvailableQuantity)
	}
	n, _ := db.Collection("affiliations").CountDocuments(ctx, map[string]any{})
	if n != 0 {
		t.Errorf("affiliations = %d, want 0", n)
	}

	// Rejection is terminal.
	req = testutil.NewAuthenticatedRequest(t, http.MethodPost, "/requests/"+pending.ID.Hex()+"/reject", nil, hr)
	req = testutil.WithChiURLParam(req, "id", pending.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleReject(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("second reject status = %d, want 409", rec.Code)
	}
}
