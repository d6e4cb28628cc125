package model

import "time"

// Appointment represents a scheduled patient-doctor encounter.
type Appointment struct {
	ID         int64     `json:"id"`
	Code       string    `json:"code"`
	PatientID  int64     `json:"patient_id"`
	DoctorID   int64     `json:"doctor_id"`
	Date       string    `json:"date"`
	Time       string    `json:"time"`
	Type       string    `json:"type"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes,omitempty"`
	Department string    `json:"department,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Joined fields (not always populated).
	PatientName string `json:"patient_name,omitempty"`
	DoctorName  string `json:"doctor_name,omitempty"`
}

// Appointment types.
const (
	AppointmentConsultation = "consultation"
	AppointmentFollowUp     = "follow-up"
	AppointmentCheckUp      = "check-up"
	AppointmentEmergency    = "emergency"
)

// ValidAppointmentType reports whether t is a known appointment type.
func ValidAppointmentType(t string) bool {
	switch t {
	case AppointmentConsultation, AppointmentFollowUp, AppointmentCheckUp, AppointmentEmergency:
		return true
	}
	return false
}

// Appointment statuses.
const (
	AppointmentScheduled  = "scheduled"
	AppointmentConfirmed  = "confirmed"
	AppointmentInProgress = "in-progress"
	AppointmentCompleted  = "completed"
	AppointmentCancelled  = "cancelled"
)

// ValidAppointmentStatus reports whether s is a known appointment status.
func ValidAppointmentStatus(s string) bool {
	switch s {
	case AppointmentScheduled, AppointmentConfirmed, AppointmentInProgress,
		AppointmentCompleted, AppointmentCancelled:
		return true
	}
	return false
}
