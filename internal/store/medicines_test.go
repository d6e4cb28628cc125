package store

import (
	"errors"
	"testing"
	"time"

	"github.com/medcarehq/medcare/internal/model"
)

func TestCreateMedicineDerivesStatus(t *testing.T) {
	ctx, tdb := seededDB(t)

	tests := []struct {
		name     string
		quantity int
		minStock int
		want     model.MedicineStatus
	}{
		{"above minimum", 100, 20, model.MedicineInStock},
		{"at minimum", 20, 20, model.MedicineLowStock},
		{"below minimum", 5, 20, model.MedicineLowStock},
		{"zero quantity", 0, 20, model.MedicineLowStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created, err := CreateMedicine(ctx, tdb, &model.Medicine{
				Name:       "Test " + tt.name,
				Category:   "Analgesics",
				Quantity:   tt.quantity,
				MinStock:   tt.minStock,
				UnitPrice:  1.50,
				ExpiryDate: "2027-06-30",
			})
			if err != nil {
				t.Fatalf("CreateMedicine: %v", err)
			}
			if created.Status != tt.want {
				t.Errorf("expected status %s, got %s", tt.want, created.Status)
			}
			if want := time.Now().Format(dateFormat); created.LastUpdated != want {
				t.Errorf("expected last updated %s, got %s", want, created.LastUpdated)
			}
		})
	}
}

func TestCreateMedicineValidation(t *testing.T) {
	ctx, tdb := seededDB(t)

	tests := []struct {
		name     string
		medicine model.Medicine
	}{
		{"negative quantity", model.Medicine{Name: "X", Category: "Analgesics", Quantity: -1, ExpiryDate: "2027-01-01"}},
		{"negative min stock", model.Medicine{Name: "X", Category: "Analgesics", MinStock: -1, ExpiryDate: "2027-01-01"}},
		{"negative price", model.Medicine{Name: "X", Category: "Analgesics", UnitPrice: -0.01, ExpiryDate: "2027-01-01"}},
		{"unparseable expiry", model.Medicine{Name: "X", Category: "Analgesics", ExpiryDate: "June 2027"}},
		{"empty expiry", model.Medicine{Name: "X", Category: "Analgesics"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CreateMedicine(ctx, tdb, &tt.medicine); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestListMedicinesSeed(t *testing.T) {
	ctx, tdb := seededDB(t)

	medicines, err := ListMedicines(ctx, tdb)
	if err != nil {
		t.Fatalf("ListMedicines: %v", err)
	}
	if len(medicines) != 6 {
		t.Fatalf("expected 6 seeded medicines, got %d", len(medicines))
	}

	// Seed keeps its literal statuses, including ones the creation
	// derivation never produces.
	byName := map[string]model.Medicine{}
	for _, m := range medicines {
		byName[m.Name] = m
	}
	if got := byName["Insulin Glargine"].Status; got != model.MedicineOutOfStock {
		t.Errorf("expected Insulin Glargine out-of-stock, got %s", got)
	}
	if got := byName["Aspirin 75mg"].Status; got != model.MedicineExpired {
		t.Errorf("expected Aspirin expired, got %s", got)
	}
	if got := byName["Insulin Glargine"].UseCases; len(got) == 0 || got[0] != "diabetes" {
		t.Errorf("expected use-case tags preserved, got %v", got)
	}
}

func TestUpdateMedicineStatus(t *testing.T) {
	ctx, tdb := seededDB(t)

	medicines, _ := ListMedicines(ctx, tdb)
	id := medicines[0].ID

	if err := UpdateMedicineStatus(ctx, tdb, id, model.MedicineExpired); err != nil {
		t.Fatalf("UpdateMedicineStatus: %v", err)
	}
	m, _ := GetMedicine(ctx, tdb, id)
	if m.Status != model.MedicineExpired {
		t.Errorf("expected expired, got %s", m.Status)
	}

	if err := UpdateMedicineStatus(ctx, tdb, id, "recalled"); err == nil {
		t.Error("expected error for unknown status")
	}
	if err := UpdateMedicineStatus(ctx, tdb, 9999, model.MedicineInStock); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteMedicine(t *testing.T) {
	ctx, tdb := seededDB(t)

	medicines, _ := ListMedicines(ctx, tdb)
	if err := DeleteMedicine(ctx, tdb, medicines[0].ID); err != nil {
		t.Fatalf("DeleteMedicine: %v", err)
	}

	after, err := ListMedicines(ctx, tdb)
	if err != nil {
		t.Fatalf("ListMedicines: %v", err)
	}
	if len(after) != len(medicines)-1 {
		t.Errorf("expected %d medicines after delete, got %d", len(medicines)-1, len(after))
	}
}
