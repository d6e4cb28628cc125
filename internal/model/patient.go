package model

import "time"

// Patient represents a registered patient.
type Patient struct {
	ID         int64      `json:"id"`
	Code       string     `json:"code"`
	Name       string     `json:"name"`
	Age        int        `json:"age"`
	Gender     string     `json:"gender"`
	Phone      string     `json:"phone,omitempty"`
	Email      string     `json:"email,omitempty"`
	BloodGroup string     `json:"blood_group,omitempty"`
	Condition  string     `json:"condition,omitempty"`
	Priority   string     `json:"priority"`
	Status     string     `json:"status"`
	PhotoMime  string     `json:"photo_mime,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

// Patient priorities.
const (
	PriorityLow      = "Low"
	PriorityMedium   = "Medium"
	PriorityHigh     = "High"
	PriorityCritical = "Critical"
)

// ValidPriority reports whether p is a known priority.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Patient statuses.
const (
	PatientActive   = "active"
	PatientInactive = "inactive"
	PatientCritical = "critical"
)

// ValidPatientStatus reports whether s is a known patient status.
func ValidPatientStatus(s string) bool {
	switch s {
	case PatientActive, PatientInactive, PatientCritical:
		return true
	}
	return false
}
