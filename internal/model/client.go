package model

import (
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Client is a patient record.
type Client struct {
	Base
	FirstName                    string     `json:"first_name" db:"first_name"`
	LastName                     string     `json:"last_name" db:"last_name"`
	DateOfBirth                  time.Time  `json:"date_of_birth" db:"date_of_birth"`
	Gender                       Gender     `json:"gender" db:"gender"`
	NationalID                   *string    `json:"national_id" db:"national_id"`
	Phone                        *string    `json:"phone" db:"phone"`
	Email                        *string    `json:"email" db:"email"`
	Address                      *string    `json:"address" db:"address"`
	EmergencyContactName         *string    `json:"emergency_contact_name" db:"emergency_contact_name"`
	EmergencyContactRelationship *string    `json:"emergency_contact_relationship" db:"emergency_contact_relationship"`
	EmergencyContactPhone        *string    `json:"emergency_contact_phone" db:"emergency_contact_phone"`
	CreatedBy                    *uuid.UUID `json:"created_by,omitempty" db:"created_by"`
	Version                      int        `json:"version" db:"version"`
}

type CreateClientRequest struct {
	FirstName                    string `json:"first_name" validate:"required,min=1"`
	LastName                     string `json:"last_name" validate:"required,min=1"`
	DateOfBirth                  string `json:"date_of_birth" validate:"required,date"`
	Gender                       string `json:"gender" validate:"required,oneof=male female other"`
	NationalID                   string `json:"national_id"`
	Phone                        string `json:"phone"`
	Email                        string `json:"email" validate:"omitempty,email"`
	Address                      string `json:"address"`
	EmergencyContactName         string `json:"emergency_contact_name"`
	EmergencyContactRelationship string `json:"emergency_contact_relationship"`
	EmergencyContactPhone        string `json:"emergency_contact_phone"`
}

// UpdateClientRequest applies only the fields that are present.
type UpdateClientRequest struct {
	FirstName                    *string `json:"first_name" validate:"omitempty,min=1"`
	LastName                     *string `json:"last_name" validate:"omitempty,min=1"`
	DateOfBirth                  *string `json:"date_of_birth" validate:"omitempty,date"`
	Gender                       *string `json:"gender" validate:"omitempty,oneof=male female other"`
	NationalID                   *string `json:"national_id"`
	Phone                        *string `json:"phone"`
	Email                        *string `json:"email" validate:"omitempty,email"`
	Address                      *string `json:"address"`
	EmergencyContactName         *string `json:"emergency_contact_name"`
	EmergencyContactRelationship *string `json:"emergency_contact_relationship"`
	EmergencyContactPhone        *string `json:"emergency_contact_phone"`
}

// SearchTier names the strategy that answered a client search.
type SearchTier string

const (
	TierNone      SearchTier = ""
	TierNumeric   SearchTier = "numeric"
	TierName      SearchTier = "name"
	TierSubstring SearchTier = "substring"
	TierFuzzy     SearchTier = "fuzzy"
)

type ClientListParams struct {
	Pagination
	Search string `json:"search" form:"search"`
}

// ClientPage is one page of clients. Total and TotalPages are only set for
// plain listings; searches report the tier instead.
type ClientPage struct {
	Clients     []*Client  `json:"clients"`
	Page        int        `json:"page"`
	PageSize    int        `json:"page_size"`
	HasNextPage bool       `json:"has_next_page"`
	Total       *int       `json:"total,omitempty"`
	TotalPages  *int       `json:"total_pages,omitempty"`
	Tier        SearchTier `json:"tier,omitempty"`
}

// ClientDetail is a client with its enrollments.
type ClientDetail struct {
	Client      *Client                  `json:"client"`
	Enrollments []*EnrollmentWithProgram `json:"enrollments"`
}
