package model

import (
	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleDoctor Role = "Doctor"
	RoleNurse  Role = "Nurse"

	// RoleAPIClient is carried by requests authenticated with an API key.
	// It is never stored on a user.
	RoleAPIClient Role = "ApiClient"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleNurse:
		return true
	}
	return false
}

// User is a staff account. PasswordHash is nil for OAuth-only accounts.
type User struct {
	Base
	Name           string     `json:"name" db:"name"`
	Email          string     `json:"email" db:"email"`
	PasswordHash   *string    `json:"-" db:"password_hash"`
	Role           Role       `json:"role" db:"role"`
	OAuthProvider  *string    `json:"oauth_provider,omitempty" db:"oauth_provider"`
	OAuthID        *string    `json:"-" db:"oauth_id"`
	FacilityID     *uuid.UUID `json:"facility_id,omitempty" db:"facility_id"`
	LicenseNumber  *string    `json:"license_number,omitempty" db:"license_number"`
	Specialization *string    `json:"specialization,omitempty" db:"specialization"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=Admin Doctor Nurse"`
}
