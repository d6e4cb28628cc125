package model

import "time"

// ShiftAvailability records which shifts a doctor works on one weekday.
type ShiftAvailability struct {
	Morning   bool `json:"morning"`
	Afternoon bool `json:"afternoon"`
	Evening   bool `json:"evening"`
}

// Availability maps lowercase weekday names to shift availability.
type Availability map[string]ShiftAvailability

// Doctor represents a member of the medical staff.
type Doctor struct {
	ID             int64        `json:"id"`
	Code           string       `json:"code"`
	Name           string       `json:"name"`
	Department     string       `json:"department"`
	Specialization string       `json:"specialization,omitempty"`
	Phone          string       `json:"phone,omitempty"`
	Email          string       `json:"email,omitempty"`
	Experience     int          `json:"experience"`
	Status         string       `json:"status"`
	Availability   Availability `json:"availability,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	DeletedAt      *time.Time   `json:"deleted_at,omitempty"`
}

// Doctor statuses.
const (
	DoctorActive   = "active"
	DoctorInactive = "inactive"
	DoctorOnLeave  = "on-leave"
)

// ValidDoctorStatus reports whether s is a known doctor status.
func ValidDoctorStatus(s string) bool {
	switch s {
	case DoctorActive, DoctorInactive, DoctorOnLeave:
		return true
	}
	return false
}
