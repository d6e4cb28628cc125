package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/medcarehq/medcare/internal/db"
	"github.com/medcarehq/medcare/internal/model"
)

func seededDB(t *testing.T) (context.Context, *sql.DB) {
	t.Helper()
	database := db.NewTestDB(t)
	ctx := context.Background()
	if err := SeedDemo(ctx, database); err != nil {
		t.Fatalf("seeding demo data: %v", err)
	}
	return ctx, database
}

func TestAssignPatientScenario(t *testing.T) {
	ctx, tdb := seededDB(t)

	bed, err := GetBedByNumber(ctx, tdb, "ICU-002")
	if err != nil || bed == nil {
		t.Fatalf("getting ICU-002: bed=%v err=%v", bed, err)
	}
	if bed.Status != model.BedAvailable {
		t.Fatalf("expected ICU-002 Available, got %s", bed.Status)
	}

	patient, err := GetPatientByCode(ctx, tdb, "P005")
	if err != nil || patient == nil {
		t.Fatalf("getting P005: patient=%v err=%v", patient, err)
	}

	updated, err := AssignPatient(ctx, tdb, bed.ID, patient.ID)
	if err != nil {
		t.Fatalf("AssignPatient: %v", err)
	}

	if updated.Status != model.BedOccupied {
		t.Errorf("expected status Occupied, got %s", updated.Status)
	}
	if updated.AssignedPatient == nil {
		t.Fatal("expected assigned patient snapshot")
	}
	if updated.AssignedPatient.Name != "Robert Wilson" {
		t.Errorf("expected assigned patient Robert Wilson, got %q", updated.AssignedPatient.Name)
	}
	if updated.AssignedPatient.Condition != "Post-operative care" {
		t.Errorf("expected snapshot condition, got %q", updated.AssignedPatient.Condition)
	}
	if want := time.Now().Format(dateFormat); updated.AssignedPatient.AdmissionDate != want {
		t.Errorf("expected admission date %s, got %s", want, updated.AssignedPatient.AdmissionDate)
	}
}

func TestAssignPatientUnresolvedIDs(t *testing.T) {
	ctx, tdb := seededDB(t)

	if _, err := AssignPatient(ctx, tdb, 9999, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown bed, got %v", err)
	}
	if _, err := AssignPatient(ctx, tdb, 1, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown patient, got %v", err)
	}
}

func TestUpdateStatusClearsPatient(t *testing.T) {
	ctx, tdb := seededDB(t)

	occupied, err := GetBedByNumber(ctx, tdb, "ICU-001")
	if err != nil || occupied == nil || occupied.AssignedPatient == nil {
		t.Fatalf("expected seeded ICU-001 to be occupied: bed=%v err=%v", occupied, err)
	}

	// Every transition away from Occupied clears the snapshot.
	for _, status := range []model.BedStatus{
		model.BedAvailable, model.BedCleaning, model.BedMaintenance, model.BedReserved,
	} {
		// Re-occupy first.
		patient, _ := GetPatientByCode(ctx, tdb, "P001")
		if _, err := AssignPatient(ctx, tdb, occupied.ID, patient.ID); err != nil {
			t.Fatalf("re-assigning: %v", err)
		}

		updated, err := UpdateBedStatus(ctx, tdb, occupied.ID, status, "")
		if err != nil {
			t.Fatalf("UpdateBedStatus(%s): %v", status, err)
		}
		if updated.Status != status {
			t.Errorf("expected status %s, got %s", status, updated.Status)
		}
		if updated.AssignedPatient != nil {
			t.Errorf("transition to %s left the patient snapshot in place", status)
		}
	}
}

func TestUpdateStatusKeepsPatientWhenOccupied(t *testing.T) {
	ctx, tdb := seededDB(t)

	bed, _ := GetBedByNumber(ctx, tdb, "ICU-001")
	updated, err := UpdateBedStatus(ctx, tdb, bed.ID, model.BedOccupied, "")
	if err != nil {
		t.Fatalf("UpdateBedStatus: %v", err)
	}
	if updated.AssignedPatient == nil || updated.AssignedPatient.Name != "John Smith" {
		t.Errorf("setting Occupied again should keep the snapshot, got %+v", updated.AssignedPatient)
	}
}

func TestUpdateStatusIdempotent(t *testing.T) {
	ctx, tdb := seededDB(t)

	bed, _ := GetBedByNumber(ctx, tdb, "GEN-201")

	once, err := UpdateBedStatus(ctx, tdb, bed.ID, model.BedMaintenance, "loose rail")
	if err != nil {
		t.Fatalf("first update: %v", err)
	}
	twice, err := UpdateBedStatus(ctx, tdb, bed.ID, model.BedMaintenance, "loose rail")
	if err != nil {
		t.Fatalf("second update: %v", err)
	}

	if once.Status != twice.Status ||
		once.MaintenanceNotes != twice.MaintenanceNotes ||
		(once.AssignedPatient == nil) != (twice.AssignedPatient == nil) {
		t.Errorf("repeated update diverged: %+v vs %+v", once, twice)
	}
}

func TestUpdateStatusNotes(t *testing.T) {
	ctx, tdb := seededDB(t)

	bed, _ := GetBedByNumber(ctx, tdb, "GEN-103")
	if bed.MaintenanceNotes != "Bed frame repair needed" {
		t.Fatalf("expected seeded maintenance note, got %q", bed.MaintenanceNotes)
	}

	// Empty notes preserve the existing note.
	updated, err := UpdateBedStatus(ctx, tdb, bed.ID, model.BedMaintenance, "")
	if err != nil {
		t.Fatalf("UpdateBedStatus: %v", err)
	}
	if updated.MaintenanceNotes != "Bed frame repair needed" {
		t.Errorf("empty notes should preserve existing note, got %q", updated.MaintenanceNotes)
	}

	// Non-empty notes overwrite.
	updated, err = UpdateBedStatus(ctx, tdb, bed.ID, model.BedMaintenance, "Frame replaced, awaiting inspection")
	if err != nil {
		t.Fatalf("UpdateBedStatus: %v", err)
	}
	if updated.MaintenanceNotes != "Frame replaced, awaiting inspection" {
		t.Errorf("expected overwritten note, got %q", updated.MaintenanceNotes)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	ctx, tdb := seededDB(t)

	bed, _ := GetBedByNumber(ctx, tdb, "ICU-002")
	if _, err := UpdateBedStatus(ctx, tdb, bed.ID, "Broken", ""); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestDischargePatient(t *testing.T) {
	ctx, tdb := seededDB(t)

	bed, _ := GetBedByNumber(ctx, tdb, "EMG-002")
	if bed.AssignedPatient == nil {
		t.Fatal("expected EMG-002 occupied in seed data")
	}
	before := bed.LastCleaned

	updated, err := DischargePatient(ctx, tdb, bed.ID)
	if err != nil {
		t.Fatalf("DischargePatient: %v", err)
	}
	if updated.Status != model.BedAvailable {
		t.Errorf("expected Available after discharge, got %s", updated.Status)
	}
	if updated.AssignedPatient != nil {
		t.Error("expected patient snapshot cleared after discharge")
	}
	if updated.MaintenanceNotes != "" {
		t.Errorf("expected notes cleared after discharge, got %q", updated.MaintenanceNotes)
	}
	if updated.LastCleaned == before || updated.LastCleaned == "" {
		t.Errorf("expected refreshed cleaning timestamp, got %q", updated.LastCleaned)
	}
}

func TestMarkCleaningComplete(t *testing.T) {
	ctx, tdb := seededDB(t)

	bed, _ := GetBedByNumber(ctx, tdb, "GEN-102")
	if bed.Status != model.BedCleaning {
		t.Fatalf("expected GEN-102 Cleaning in seed data, got %s", bed.Status)
	}

	updated, err := MarkCleaningComplete(ctx, tdb, bed.ID)
	if err != nil {
		t.Fatalf("MarkCleaningComplete: %v", err)
	}
	if updated.Status != model.BedAvailable {
		t.Errorf("expected Available, got %s", updated.Status)
	}

	// Only valid from Cleaning.
	available, _ := GetBedByNumber(ctx, tdb, "ICU-002")
	if _, err := MarkCleaningComplete(ctx, tdb, available.ID); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState for non-Cleaning bed, got %v", err)
	}

	if _, err := MarkCleaningComplete(ctx, tdb, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown bed, got %v", err)
	}
}

func TestListBedsFilters(t *testing.T) {
	ctx, tdb := seededDB(t)

	tests := []struct {
		name  string
		query BedQuery
		want  int
	}{
		{"all", BedQuery{}, 10},
		{"search by bed number", BedQuery{Search: "icu"}, 3},
		{"search by patient name", BedQuery{Search: "sarah"}, 1},
		{"ward filter", BedQuery{Ward: "General Ward A"}, 3},
		{"status filter", BedQuery{Status: "Occupied"}, 4},
		{"type filter", BedQuery{Type: "Emergency"}, 2},
		{"all sentinel", BedQuery{Ward: "all", Status: "all", Type: "all"}, 10},
		{"combined", BedQuery{Ward: "ICU", Status: "Available"}, 2},
		{"no matches", BedQuery{Search: "no-such-bed"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			beds, err := ListBeds(ctx, tdb, tt.query)
			if err != nil {
				t.Fatalf("ListBeds: %v", err)
			}
			if len(beds) != tt.want {
				t.Errorf("expected %d beds, got %d", tt.want, len(beds))
			}
		})
	}
}

func TestCreateBed(t *testing.T) {
	ctx, tdb := seededDB(t)

	bed, err := CreateBed(ctx, tdb, "PVT-202", "Private Wing", 2, model.BedTypePrivate)
	if err != nil {
		t.Fatalf("CreateBed: %v", err)
	}
	if bed.Status != model.BedAvailable {
		t.Errorf("expected new bed Available, got %s", bed.Status)
	}

	if _, err := CreateBed(ctx, tdb, "X-1", "W", 1, "Suite"); err == nil {
		t.Error("expected error for unknown bed type")
	}
}
