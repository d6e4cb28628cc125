package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/medcarehq/medcare/internal/auth"
	"github.com/medcarehq/medcare/internal/db"
	"github.com/medcarehq/medcare/internal/model"
	"github.com/medcarehq/medcare/internal/store"
)

const testJWTSecret = "test-secret"

func setupTestServer(t *testing.T) (*httptest.Server, *sql.DB, string) {
	t.Helper()
	database := db.NewTestDB(t)
	router := NewRouter(database, testJWTSecret)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	ctx := context.Background()
	if err := store.SeedDemo(ctx, database); err != nil {
		t.Fatalf("seeding demo data: %v", err)
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	store.CreateUser(ctx, database, "admin", string(hash), model.RoleAdmin)

	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "password"})
	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var loginResp map[string]string
	json.NewDecoder(resp.Body).Decode(&loginResp)
	token := loginResp["token"]
	if token == "" {
		t.Fatal("empty token from login")
	}

	return server, database, token
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func doJSON(t *testing.T, req *http.Request, target any) int {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if target != nil {
		json.NewDecoder(resp.Body).Decode(target)
	}
	return resp.StatusCode
}

func TestLoginEndpoint(t *testing.T) {
	server, _, _ := setupTestServer(t)

	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrong"})
	resp, _ := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestUnauthenticatedAccess(t *testing.T) {
	database := db.NewTestDB(t)
	server := httptest.NewServer(NewRouter(database, testJWTSecret))
	t.Cleanup(server.Close)

	resp, _ := http.Get(server.URL + "/api/beds")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for unauthenticated request, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestBedLifecycleFlow(t *testing.T) {
	server, database, token := setupTestServer(t)
	ctx := context.Background()

	bed, _ := store.GetBedByNumber(ctx, database, "ICU-002")
	patient, _ := store.GetPatientByCode(ctx, database, "P005")

	// Assign.
	req, _ := authRequest("POST", server.URL+"/api/beds/"+itoa(bed.ID)+"/assign", token,
		map[string]int64{"patient_id": patient.ID})
	var assigned model.Bed
	if status := doJSON(t, req, &assigned); status != http.StatusOK {
		t.Fatalf("assign: expected 200, got %d", status)
	}
	if assigned.Status != model.BedOccupied || assigned.AssignedPatient == nil {
		t.Fatalf("expected occupied bed with patient, got %+v", assigned)
	}
	if assigned.AssignedPatient.Name != "Robert Wilson" {
		t.Errorf("expected Robert Wilson, got %q", assigned.AssignedPatient.Name)
	}

	// Assigning an unknown patient is 404.
	req, _ = authRequest("POST", server.URL+"/api/beds/"+itoa(bed.ID)+"/assign", token,
		map[string]int64{"patient_id": 9999})
	if status := doJSON(t, req, nil); status != http.StatusNotFound {
		t.Errorf("expected 404 for unknown patient, got %d", status)
	}

	// Discharge.
	req, _ = authRequest("POST", server.URL+"/api/beds/"+itoa(bed.ID)+"/discharge", token, nil)
	var discharged model.Bed
	if status := doJSON(t, req, &discharged); status != http.StatusOK {
		t.Fatalf("discharge: expected 200, got %d", status)
	}
	if discharged.Status != model.BedAvailable || discharged.AssignedPatient != nil {
		t.Errorf("expected available bed with no patient, got %+v", discharged)
	}

	// Cleaning-complete on a non-cleaning bed conflicts.
	req, _ = authRequest("POST", server.URL+"/api/beds/"+itoa(bed.ID)+"/cleaned", token, nil)
	if status := doJSON(t, req, nil); status != http.StatusConflict {
		t.Errorf("expected 409 for cleaning-complete on available bed, got %d", status)
	}
}

func TestBedStatsEndpoint(t *testing.T) {
	server, _, token := setupTestServer(t)

	req, _ := authRequest("GET", server.URL+"/api/beds/stats", token, nil)
	var payload struct {
		Stats struct {
			Total         int `json:"total"`
			Occupied      int `json:"occupied"`
			OccupancyRate int `json:"occupancy_rate"`
		} `json:"stats"`
	}
	if status := doJSON(t, req, &payload); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if payload.Stats.Total != 10 || payload.Stats.Occupied != 4 || payload.Stats.OccupancyRate != 40 {
		t.Errorf("unexpected stats: %+v", payload.Stats)
	}
}

func TestInventoryEndpoint(t *testing.T) {
	server, _, token := setupTestServer(t)

	// Full listing.
	req, _ := authRequest("GET", server.URL+"/api/inventory", token, nil)
	var view inventoryView
	if status := doJSON(t, req, &view); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(view.Items) != 6 {
		t.Errorf("expected 6 medicines, got %d", len(view.Items))
	}
	if view.Selected != "A" {
		t.Errorf("expected default letter A, got %q", view.Selected)
	}
	if view.Summary.TotalValue != 820.00 {
		t.Errorf("expected total value 820.00, got %v", view.Summary.TotalValue)
	}

	// Use-case search. The summary cards stay constant while filtering.
	req, _ = authRequest("GET", server.URL+"/api/inventory?search=diabetes", token, nil)
	doJSON(t, req, &view)
	if len(view.Items) != 2 {
		t.Errorf("expected 2 diabetes matches, got %d", len(view.Items))
	}
	if view.Summary.TotalItems != 6 {
		t.Errorf("expected summary over whole inventory (6 items), got %d", view.Summary.TotalItems)
	}
	if view.Summary.TotalValue != 820.00 {
		t.Errorf("expected total value 820.00 while filtered, got %v", view.Summary.TotalValue)
	}

	// Alpha groups only apply in alphabetical sort mode.
	req, _ = authRequest("GET", server.URL+"/api/inventory?sort=stock", token, nil)
	doJSON(t, req, &view)
	if len(view.Groups) != 0 || len(view.Index) != 0 || view.Selected != "" {
		t.Errorf("expected no alpha groups for stock sort, got %d groups, selected %q",
			len(view.Groups), view.Selected)
	}
	if len(view.Items) != 6 {
		t.Errorf("expected 6 medicines in stock sort, got %d", len(view.Items))
	}
}

func TestUpdateMedicineStatusEndpoint(t *testing.T) {
	server, database, token := setupTestServer(t)

	med, err := store.GetMedicineByName(context.Background(), database, "Aspirin 75mg")
	if err != nil || med == nil {
		t.Fatalf("getting seeded medicine: %v", err)
	}

	req, _ := authRequest("PUT", server.URL+"/api/inventory/"+itoa(med.ID)+"/status", token,
		map[string]string{"status": "out-of-stock"})
	var updated model.Medicine
	if status := doJSON(t, req, &updated); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if updated.ID != med.ID || updated.Status != model.MedicineOutOfStock {
		t.Errorf("expected updated medicine in response, got id=%d status=%q", updated.ID, updated.Status)
	}

	req, _ = authRequest("PUT", server.URL+"/api/inventory/9999/status", token,
		map[string]string{"status": "expired"})
	if status := doJSON(t, req, nil); status != http.StatusNotFound {
		t.Errorf("expected 404 for unknown medicine, got %d", status)
	}
}

func TestRoleBasedAccess(t *testing.T) {
	server, database, _ := setupTestServer(t)
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	pharmacist, _ := store.CreateUser(ctx, database, "pharm1", string(hash), model.RolePharmacy)
	doctor, _ := store.CreateUser(ctx, database, "doc1", string(hash), model.RoleDoctor)

	pharmToken, _ := auth.GenerateToken(testJWTSecret, pharmacist.ID, pharmacist.Username, pharmacist.Role)
	docToken, _ := auth.GenerateToken(testJWTSecret, doctor.ID, doctor.Username, doctor.Role)

	// Pharmacy staff cannot work the bed lifecycle.
	bed, _ := store.GetBedByNumber(ctx, database, "ICU-003")
	req, _ := authRequest("POST", server.URL+"/api/beds/"+itoa(bed.ID)+"/discharge", pharmToken, nil)
	if status := doJSON(t, req, nil); status != http.StatusForbidden {
		t.Errorf("expected 403 for pharmacy discharging, got %d", status)
	}

	// Doctors cannot add medicines.
	req, _ = authRequest("POST", server.URL+"/api/inventory", docToken, map[string]any{
		"name": "Ibuprofen 200mg", "category": "Analgesic", "expiry_date": "2027-01-01",
	})
	if status := doJSON(t, req, nil); status != http.StatusForbidden {
		t.Errorf("expected 403 for doctor adding medicine, got %d", status)
	}

	// Pharmacy staff can.
	req, _ = authRequest("POST", server.URL+"/api/inventory", pharmToken, map[string]any{
		"name": "Ibuprofen 200mg", "category": "Analgesic", "expiry_date": "2027-01-01",
		"quantity": 50, "min_stock": 20,
	})
	if status := doJSON(t, req, nil); status != http.StatusCreated {
		t.Errorf("expected 201 for pharmacy adding medicine, got %d", status)
	}

	// Neither can list users.
	req, _ = authRequest("GET", server.URL+"/api/users", docToken, nil)
	if status := doJSON(t, req, nil); status != http.StatusForbidden {
		t.Errorf("expected 403 for doctor listing users, got %d", status)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	server, _, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/auth/logout", token, nil)
	if status := doJSON(t, req, nil); status != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", status)
	}

	req, _ = authRequest("GET", server.URL+"/api/beds", token, nil)
	if status := doJSON(t, req, nil); status != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", status)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
