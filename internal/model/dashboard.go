package model

import (
	"time"

	"github.com/google/uuid"
)

type DashboardStats struct {
	TotalClients   int `json:"total_clients"`
	ActivePrograms int `json:"active_programs"`
	NewEnrollments int `json:"new_enrollments"`
}

type MonthlyRegistration struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
}

// MonthCount is a raw per-month aggregate keyed by the first day of the month.
type MonthCount struct {
	Month time.Time `db:"month"`
	Count int       `db:"count"`
}

// ProgramDistribution is the number of active enrollments in a program.
type ProgramDistribution struct {
	ID    uuid.UUID `json:"id" db:"id"`
	Name  string    `json:"name" db:"name"`
	Value int       `json:"value" db:"value"`
	Color string    `json:"color" db:"-"`
}

type ProgramRef struct {
	ID   uuid.UUID `json:"id" db:"program_id"`
	Name string    `json:"name" db:"program_name"`
}

type RecentClient struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Email       *string      `json:"email"`
	Programs    []ProgramRef `json:"programs"`
	Status      string       `json:"status"`
	LastUpdated time.Time    `json:"last_updated"`
}
