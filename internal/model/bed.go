package model

import "time"

// BedStatus is the lifecycle status of a bed. It is a closed enumeration;
// every switch over it must handle all five values.
type BedStatus string

// Bed statuses.
const (
	BedAvailable   BedStatus = "Available"
	BedOccupied    BedStatus = "Occupied"
	BedCleaning    BedStatus = "Cleaning"
	BedMaintenance BedStatus = "Maintenance"
	BedReserved    BedStatus = "Reserved"
)

// Valid reports whether s is one of the five bed statuses.
func (s BedStatus) Valid() bool {
	switch s {
	case BedAvailable, BedOccupied, BedCleaning, BedMaintenance, BedReserved:
		return true
	}
	return false
}

// Bed types.
const (
	BedTypeICU       = "ICU"
	BedTypeGeneral   = "General"
	BedTypePrivate   = "Private"
	BedTypeEmergency = "Emergency"
)

// ValidBedType reports whether t is a known bed type.
func ValidBedType(t string) bool {
	switch t {
	case BedTypeICU, BedTypeGeneral, BedTypePrivate, BedTypeEmergency:
		return true
	}
	return false
}

// AssignedPatient is the snapshot copied into a bed when a patient is
// assigned. It is not kept consistent with the patients table afterwards.
type AssignedPatient struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	AdmissionDate string `json:"admission_date"`
	Condition     string `json:"condition"`
}

// Bed represents one physical hospital bed.
type Bed struct {
	ID               int64            `json:"id"`
	BedNumber        string           `json:"bed_number"`
	Ward             string           `json:"ward"`
	Floor            int              `json:"floor"`
	Type             string           `json:"type"`
	Status           BedStatus        `json:"status"`
	AssignedPatient  *AssignedPatient `json:"assigned_patient,omitempty"`
	LastCleaned      string           `json:"last_cleaned,omitempty"`
	MaintenanceNotes string           `json:"maintenance_notes,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}
