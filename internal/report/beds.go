// Package report computes the derived views the dashboard renders: bed
// statistics, ward occupancy, floor groupings, and the filtered,
// sorted, and grouped pharmacy inventory. Everything here is a pure
// recomputation over in-memory slices; collections are tens of rows, so
// nothing is cached.
package report

import (
	"math"
	"sort"

	"github.com/medcarehq/medcare/internal/model"
)

// BedStats summarizes the bed set for the dashboard cards.
type BedStats struct {
	Total            int `json:"total"`
	Occupied         int `json:"occupied"`
	Available        int `json:"available"`
	Cleaning         int `json:"cleaning"`
	Maintenance      int `json:"maintenance"`
	Reserved         int `json:"reserved"`
	ICUBeds          int `json:"icu_beds"`
	ICUOccupied      int `json:"icu_occupied"`
	OccupancyRate    int `json:"occupancy_rate"`
	ICUOccupancyRate int `json:"icu_occupancy_rate"`
}

// ComputeBedStats derives the per-status counts and occupancy rates.
func ComputeBedStats(beds []model.Bed) BedStats {
	stats := BedStats{Total: len(beds)}

	for _, bed := range beds {
		switch bed.Status {
		case model.BedOccupied:
			stats.Occupied++
		case model.BedAvailable:
			stats.Available++
		case model.BedCleaning:
			stats.Cleaning++
		case model.BedMaintenance:
			stats.Maintenance++
		case model.BedReserved:
			stats.Reserved++
		}

		if bed.Type == model.BedTypeICU {
			stats.ICUBeds++
			if bed.Status == model.BedOccupied {
				stats.ICUOccupied++
			}
		}
	}

	stats.OccupancyRate = percent(stats.Occupied, stats.Total)
	stats.ICUOccupancyRate = percent(stats.ICUOccupied, stats.ICUBeds)
	return stats
}

// WardStats summarizes one ward's beds.
type WardStats struct {
	Ward          string `json:"ward"`
	Total         int    `json:"total"`
	Occupied      int    `json:"occupied"`
	Available     int    `json:"available"`
	Cleaning      int    `json:"cleaning"`
	Maintenance   int    `json:"maintenance"`
	Reserved      int    `json:"reserved"`
	OccupancyRate int    `json:"occupancy_rate"`
}

// WardOccupancy partitions beds by ward and derives each ward's counts
// and occupancy rate. Wards are ordered by name.
func WardOccupancy(beds []model.Bed) []WardStats {
	byWard := make(map[string]*WardStats)
	for _, bed := range beds {
		ws, ok := byWard[bed.Ward]
		if !ok {
			ws = &WardStats{Ward: bed.Ward}
			byWard[bed.Ward] = ws
		}
		ws.Total++
		switch bed.Status {
		case model.BedOccupied:
			ws.Occupied++
		case model.BedAvailable:
			ws.Available++
		case model.BedCleaning:
			ws.Cleaning++
		case model.BedMaintenance:
			ws.Maintenance++
		case model.BedReserved:
			ws.Reserved++
		}
	}

	wards := make([]WardStats, 0, len(byWard))
	for _, ws := range byWard {
		ws.OccupancyRate = percent(ws.Occupied, ws.Total)
		wards = append(wards, *ws)
	}
	sort.Slice(wards, func(i, j int) bool { return wards[i].Ward < wards[j].Ward })
	return wards
}

// FloorGroup holds one floor's beds for display.
type FloorGroup struct {
	Floor int         `json:"floor"`
	Beds  []model.Bed `json:"beds"`
}

// GroupBedsByFloor partitions beds by floor, floors ascending, beds
// within a floor ordered by bed number.
func GroupBedsByFloor(beds []model.Bed) []FloorGroup {
	byFloor := make(map[int][]model.Bed)
	for _, bed := range beds {
		byFloor[bed.Floor] = append(byFloor[bed.Floor], bed)
	}

	groups := make([]FloorGroup, 0, len(byFloor))
	for floor, beds := range byFloor {
		sort.Slice(beds, func(i, j int) bool { return beds[i].BedNumber < beds[j].BedNumber })
		groups = append(groups, FloorGroup{Floor: floor, Beds: beds})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Floor < groups[j].Floor })
	return groups
}

// percent returns part/total as a whole percentage, rounded to nearest.
// A zero total yields 0, never NaN.
func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
