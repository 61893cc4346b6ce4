package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/his-api/internal/model"
	"github.com/jwalitptl/his-api/internal/repository"
)

type facilityRepository struct {
	BaseRepository
}

func NewFacilityRepository(base BaseRepository) repository.FacilityRepository {
	return &facilityRepository{base}
}

func (r *facilityRepository) Create(ctx context.Context, facility *model.Facility) (err error) {
	defer r.observe("facility.create", time.Now(), &err)

	query := `
		INSERT INTO facilities (id, name, address, phone, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if facility.ID == uuid.Nil {
		facility.ID = uuid.New()
	}
	now := time.Now().UTC()
	facility.CreatedAt = now
	facility.UpdatedAt = now

	_, err = r.db.ExecContext(ctx, query,
		facility.ID,
		facility.Name,
		facility.Address,
		facility.Phone,
		facility.Email,
		facility.CreatedAt,
		facility.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create facility: %w", err)
	}
	return nil
}

func (r *facilityRepository) GetByName(ctx context.Context, name string) (_ *model.Facility, err error) {
	defer r.observe("facility.get_by_name", time.Now(), &err)

	var facility model.Facility
	query := `
		SELECT id, name, address, phone, email, created_at, updated_at
		FROM facilities WHERE name = $1
		ORDER BY created_at
		LIMIT 1
	`
	if err = r.db.GetContext(ctx, &facility, query, name); err != nil {
		return nil, fmt.Errorf("failed to get facility: %w", notFound(err))
	}
	return &facility, nil
}
