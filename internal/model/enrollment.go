package model

import (
	"time"

	"github.com/google/uuid"
)

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentSuspended EnrollmentStatus = "suspended"
)

type Enrollment struct {
	Base
	ClientID            uuid.UUID        `json:"client_id" db:"client_id"`
	ProgramID           uuid.UUID        `json:"program_id" db:"program_id"`
	EnrollmentDate      time.Time        `json:"enrollment_date" db:"enrollment_date"`
	Status              EnrollmentStatus `json:"status" db:"status"`
	ProgramSpecificData JSONMap          `json:"program_specific_data" db:"program_specific_data"`
	Notes               *string          `json:"notes" db:"notes"`
	CreatedBy           *uuid.UUID       `json:"created_by,omitempty" db:"created_by"`
}

// EnrollmentWithProgram is an enrollment joined with its program.
type EnrollmentWithProgram struct {
	Enrollment
	ProgramName string `json:"program_name" db:"program_name"`
	ProgramCode string `json:"program_code" db:"program_code"`
}

// EnrollmentWithClient is an enrollment joined with its client.
type EnrollmentWithClient struct {
	Enrollment
	ClientFirstName string `json:"client_first_name" db:"client_first_name"`
	ClientLastName  string `json:"client_last_name" db:"client_last_name"`
}

type CreateEnrollmentRequest struct {
	ClientID            string                 `json:"client_id" validate:"required,uuid"`
	ProgramID           string                 `json:"program_id" validate:"required,uuid"`
	EnrollmentDate      string                 `json:"enrollment_date" validate:"required,date"`
	Status              string                 `json:"status" validate:"omitempty,oneof=active completed suspended"`
	ProgramSpecificData map[string]interface{} `json:"program_specific_data"`
	Notes               string                 `json:"notes"`
}

type EnrollmentListParams struct {
	Pagination
	ClientID  string `form:"client_id"`
	ProgramID string `form:"program_id"`
}
