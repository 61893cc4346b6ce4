package model

import (
	"github.com/lib/pq"
)

// HealthProgram defines a program clients can be enrolled in.
// RequiredFields lists the keys every enrollment must carry in its
// program specific data.
type HealthProgram struct {
	Base
	Name           string         `json:"name" db:"name"`
	Description    string         `json:"description" db:"description"`
	Code           string         `json:"code" db:"code"`
	Active         bool           `json:"active" db:"active"`
	RequiredFields pq.StringArray `json:"required_fields" db:"required_fields"`
}

type CreateProgramRequest struct {
	Name           string   `json:"name" validate:"required,min=1"`
	Description    string   `json:"description" validate:"required,min=1"`
	Code           string   `json:"code" validate:"required,min=1"`
	Active         *bool    `json:"active"`
	RequiredFields []string `json:"required_fields" validate:"omitempty,dive,required"`
}

type UpdateProgramRequest struct {
	Name           *string  `json:"name" validate:"omitempty,min=1"`
	Description    *string  `json:"description" validate:"omitempty,min=1"`
	Code           *string  `json:"code" validate:"omitempty,min=1"`
	Active         *bool    `json:"active"`
	RequiredFields []string `json:"required_fields" validate:"omitempty,dive,required"`
}
