package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/his-api/internal/model"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// All repository interfaces in one file
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		GetByOAuth(ctx context.Context, provider, oauthID string) (*model.User, error)
		LinkOAuth(ctx context.Context, id uuid.UUID, provider, oauthID string) error
		UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error
	}

	FacilityRepository interface {
		Create(ctx context.Context, facility *model.Facility) error
		GetByName(ctx context.Context, name string) (*model.Facility, error)
	}

	// ClientRepository exposes one query per search tier so the fallback
	// order lives in the service.
	ClientRepository interface {
		Create(ctx context.Context, client *model.Client) error
		Get(ctx context.Context, id uuid.UUID) (*model.Client, error)
		Update(ctx context.Context, client *model.Client) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, limit, offset int) ([]*model.Client, error)
		Count(ctx context.Context) (int, error)

		SearchExactDigits(ctx context.Context, digits string, limit, offset int) ([]*model.Client, error)
		SearchNameTokens(ctx context.Context, first, second string, limit, offset int) ([]*model.Client, error)
		SearchSubstring(ctx context.Context, query string, limit, offset int) ([]*model.Client, error)
		SearchFuzzy(ctx context.Context, query string, limit, offset int) ([]*model.Client, error)
	}

	ProgramRepository interface {
		Create(ctx context.Context, program *model.HealthProgram) error
		Get(ctx context.Context, id uuid.UUID) (*model.HealthProgram, error)
		Update(ctx context.Context, program *model.HealthProgram) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, activeOnly bool) ([]*model.HealthProgram, error)
	}

	EnrollmentRepository interface {
		Create(ctx context.Context, enrollment *model.Enrollment) error
		HasActive(ctx context.Context, clientID, programID uuid.UUID) (bool, error)
		ListByClient(ctx context.Context, clientID uuid.UUID) ([]*model.EnrollmentWithProgram, error)
		ListByProgram(ctx context.Context, programID uuid.UUID, limit, offset int) ([]*model.EnrollmentWithClient, error)
	}

	ApiKeyRepository interface {
		Create(ctx context.Context, key *model.ApiKey) error
		GetActive(ctx context.Context, key string) (*model.ApiKey, error)
		TouchLastUsed(ctx context.Context, id uuid.UUID, at time.Time) error
		Revoke(ctx context.Context, key string) (bool, error)
		ListActive(ctx context.Context) ([]*model.ApiKey, error)
	}

	DashboardRepository interface {
		CountClients(ctx context.Context) (int, error)
		CountActivePrograms(ctx context.Context) (int, error)
		CountEnrollmentsSince(ctx context.Context, since time.Time) (int, error)
		ClientRegistrationsSince(ctx context.Context, since time.Time) ([]model.MonthCount, error)
		ActiveEnrollmentsByProgram(ctx context.Context) ([]*model.ProgramDistribution, error)
		RecentClients(ctx context.Context, limit int) ([]*model.Client, error)
		EnrolledPrograms(ctx context.Context, clientIDs []uuid.UUID) (map[uuid.UUID][]model.ProgramRef, error)
	}
)
