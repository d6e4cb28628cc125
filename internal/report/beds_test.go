package report

import (
	"testing"

	"github.com/medcarehq/medcare/internal/model"
)

func bed(number, ward string, floor int, bedType string, status model.BedStatus) model.Bed {
	return model.Bed{BedNumber: number, Ward: ward, Floor: floor, Type: bedType, Status: status}
}

func TestComputeBedStats(t *testing.T) {
	beds := []model.Bed{
		bed("ICU-001", "ICU", 3, model.BedTypeICU, model.BedOccupied),
		bed("ICU-002", "ICU", 3, model.BedTypeICU, model.BedAvailable),
		bed("ICU-003", "ICU", 3, model.BedTypeICU, model.BedAvailable),
		bed("GEN-101", "General Ward A", 1, model.BedTypeGeneral, model.BedOccupied),
		bed("GEN-102", "General Ward A", 1, model.BedTypeGeneral, model.BedCleaning),
		bed("GEN-103", "General Ward A", 1, model.BedTypeGeneral, model.BedMaintenance),
		bed("PVT-201", "Private Wing", 2, model.BedTypePrivate, model.BedReserved),
		bed("GEN-201", "General Ward B", 2, model.BedTypeGeneral, model.BedOccupied),
		bed("EMG-001", "Emergency Department", 1, model.BedTypeEmergency, model.BedAvailable),
		bed("EMG-002", "Emergency Department", 1, model.BedTypeEmergency, model.BedOccupied),
	}

	stats := ComputeBedStats(beds)

	if stats.Total != 10 {
		t.Errorf("expected total 10, got %d", stats.Total)
	}
	if stats.Occupied != 4 {
		t.Errorf("expected 4 occupied, got %d", stats.Occupied)
	}
	if stats.Available != 3 {
		t.Errorf("expected 3 available, got %d", stats.Available)
	}
	if stats.Cleaning != 1 || stats.Maintenance != 1 || stats.Reserved != 1 {
		t.Errorf("unexpected cleaning/maintenance/reserved: %d/%d/%d",
			stats.Cleaning, stats.Maintenance, stats.Reserved)
	}
	if stats.OccupancyRate != 40 {
		t.Errorf("expected occupancy rate 40, got %d", stats.OccupancyRate)
	}
	if stats.ICUBeds != 3 || stats.ICUOccupied != 1 {
		t.Errorf("expected 3 ICU beds with 1 occupied, got %d/%d", stats.ICUBeds, stats.ICUOccupied)
	}
	if stats.ICUOccupancyRate != 33 {
		t.Errorf("expected ICU occupancy rate 33, got %d", stats.ICUOccupancyRate)
	}
}

func TestOccupancyRateZeroDenominator(t *testing.T) {
	// No beds at all: every rate must be 0, never NaN or a panic.
	stats := ComputeBedStats(nil)
	if stats.OccupancyRate != 0 || stats.ICUOccupancyRate != 0 {
		t.Errorf("expected 0 rates for empty set, got %d/%d", stats.OccupancyRate, stats.ICUOccupancyRate)
	}

	// Beds but no ICU beds: ICU rate must still be 0.
	stats = ComputeBedStats([]model.Bed{
		bed("GEN-101", "General Ward A", 1, model.BedTypeGeneral, model.BedOccupied),
	})
	if stats.ICUOccupancyRate != 0 {
		t.Errorf("expected ICU occupancy rate 0 with no ICU beds, got %d", stats.ICUOccupancyRate)
	}
	if stats.OccupancyRate != 100 {
		t.Errorf("expected occupancy rate 100, got %d", stats.OccupancyRate)
	}
}

func TestOccupancyRateBounds(t *testing.T) {
	sets := [][]model.Bed{
		nil,
		{bed("A-1", "W", 1, model.BedTypeGeneral, model.BedOccupied)},
		{
			bed("A-1", "W", 1, model.BedTypeICU, model.BedOccupied),
			bed("A-2", "W", 1, model.BedTypeICU, model.BedOccupied),
			bed("A-3", "W", 1, model.BedTypeICU, model.BedAvailable),
		},
	}
	for _, beds := range sets {
		stats := ComputeBedStats(beds)
		for name, rate := range map[string]int{
			"occupancy": stats.OccupancyRate, "icu": stats.ICUOccupancyRate,
		} {
			if rate < 0 || rate > 100 {
				t.Errorf("%s rate %d out of [0, 100] for %d beds", name, rate, len(beds))
			}
		}
	}
}

func TestWardOccupancy(t *testing.T) {
	beds := []model.Bed{
		bed("ICU-001", "ICU", 3, model.BedTypeICU, model.BedOccupied),
		bed("ICU-002", "ICU", 3, model.BedTypeICU, model.BedAvailable),
		bed("ICU-003", "ICU", 3, model.BedTypeICU, model.BedAvailable),
		bed("GEN-101", "General Ward A", 1, model.BedTypeGeneral, model.BedOccupied),
		bed("GEN-102", "General Ward A", 1, model.BedTypeGeneral, model.BedOccupied),
	}

	wards := WardOccupancy(beds)
	if len(wards) != 2 {
		t.Fatalf("expected 2 wards, got %d", len(wards))
	}

	// Sorted by name: General Ward A before ICU.
	if wards[0].Ward != "General Ward A" || wards[1].Ward != "ICU" {
		t.Fatalf("unexpected ward order: %q, %q", wards[0].Ward, wards[1].Ward)
	}
	if wards[0].OccupancyRate != 100 {
		t.Errorf("expected General Ward A at 100%%, got %d", wards[0].OccupancyRate)
	}
	if wards[1].Total != 3 || wards[1].Occupied != 1 || wards[1].OccupancyRate != 33 {
		t.Errorf("unexpected ICU stats: %+v", wards[1])
	}
}

func TestGroupBedsByFloor(t *testing.T) {
	beds := []model.Bed{
		bed("ICU-001", "ICU", 3, model.BedTypeICU, model.BedOccupied),
		bed("GEN-102", "General Ward A", 1, model.BedTypeGeneral, model.BedCleaning),
		bed("EMG-001", "Emergency Department", 1, model.BedTypeEmergency, model.BedAvailable),
		bed("PVT-201", "Private Wing", 2, model.BedTypePrivate, model.BedReserved),
		bed("GEN-101", "General Ward A", 1, model.BedTypeGeneral, model.BedOccupied),
	}

	groups := GroupBedsByFloor(beds)
	if len(groups) != 3 {
		t.Fatalf("expected 3 floors, got %d", len(groups))
	}

	// Floors ascending.
	for i, floor := range []int{1, 2, 3} {
		if groups[i].Floor != floor {
			t.Errorf("expected floor %d at position %d, got %d", floor, i, groups[i].Floor)
		}
	}

	// Beds within a floor ordered by bed number.
	first := groups[0].Beds
	if len(first) != 3 {
		t.Fatalf("expected 3 beds on floor 1, got %d", len(first))
	}
	want := []string{"EMG-001", "GEN-101", "GEN-102"}
	for i, number := range want {
		if first[i].BedNumber != number {
			t.Errorf("floor 1 position %d: expected %s, got %s", i, number, first[i].BedNumber)
		}
	}
}
