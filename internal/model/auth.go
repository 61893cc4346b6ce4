package model

import (
	"github.com/google/uuid"
)

// Session is the authenticated caller, decoded from the session token.
type Session struct {
	UserID uuid.UUID `json:"id"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
	Role   Role      `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Name            string `json:"name" validate:"required,min=2"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	Role            string `json:"role" validate:"required,oneof=Doctor Nurse"`
	FacilityName    string `json:"facility_name" validate:"required,min=2"`
	FacilityAddress string `json:"facility_address"`
	FacilityPhone   string `json:"facility_phone"`
	FacilityEmail   string `json:"facility_email" validate:"omitempty,email"`
	LicenseNumber   string `json:"license_number" validate:"required,min=2"`
	Specialization  string `json:"specialization"`
}

// OAuthProfile is the identity returned by an OAuth provider.
type OAuthProfile struct {
	Provider string
	ID       string
	Email    string
	Name     string
}

// AuthResult is returned by a successful sign-in.
type AuthResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
