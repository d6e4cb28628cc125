package model

import (
	"fmt"
	"time"
)

// User represents a dashboard login account.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Roles.
const (
	RoleAdmin    = "admin"
	RoleDoctor   = "doctor"
	RolePharmacy = "pharmacy"
)

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleDoctor, RolePharmacy:
		return true
	}
	return false
}

// RoleAllowed checks whether role may use an endpoint restricted to the
// given roles. Admin is permitted everywhere; unknown roles fail-closed.
func RoleAllowed(role string, allowed ...string) bool {
	if !ValidRole(role) {
		return false
	}
	if role == RoleAdmin {
		return true
	}
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// ValidatePassword checks password strength requirements.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}
