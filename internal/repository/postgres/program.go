package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/his-api/internal/model"
	"github.com/jwalitptl/his-api/internal/repository"
)

const programColumns = `id, name, description, code, active, required_fields, created_at, updated_at`

type programRepository struct {
	BaseRepository
}

func NewProgramRepository(base BaseRepository) repository.ProgramRepository {
	return &programRepository{base}
}

func (r *programRepository) Create(ctx context.Context, program *model.HealthProgram) (err error) {
	defer r.observe("program.create", time.Now(), &err)

	query := `
		INSERT INTO health_programs (id, name, description, code, active, required_fields, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if program.ID == uuid.Nil {
		program.ID = uuid.New()
	}
	if program.RequiredFields == nil {
		program.RequiredFields = []string{}
	}
	now := time.Now().UTC()
	program.CreatedAt = now
	program.UpdatedAt = now

	_, err = r.db.ExecContext(ctx, query,
		program.ID,
		program.Name,
		program.Description,
		program.Code,
		program.Active,
		program.RequiredFields,
		program.CreatedAt,
		program.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create program: %w", err)
	}
	return nil
}

func (r *programRepository) Get(ctx context.Context, id uuid.UUID) (_ *model.HealthProgram, err error) {
	defer r.observe("program.get", time.Now(), &err)

	var program model.HealthProgram
	query := `SELECT ` + programColumns + ` FROM health_programs WHERE id = $1`
	if err = r.db.GetContext(ctx, &program, query, id); err != nil {
		return nil, fmt.Errorf("failed to get program: %w", notFound(err))
	}
	return &program, nil
}

func (r *programRepository) Update(ctx context.Context, program *model.HealthProgram) (err error) {
	defer r.observe("program.update", time.Now(), &err)

	query := `
		UPDATE health_programs SET
			name = $1, description = $2, code = $3, active = $4,
			required_fields = $5, updated_at = $6
		WHERE id = $7
	`

	program.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query,
		program.Name,
		program.Description,
		program.Code,
		program.Active,
		program.RequiredFields,
		program.UpdatedAt,
		program.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update program: %w", err)
	}
	return requireRow(res, "failed to update program")
}

func (r *programRepository) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer r.observe("program.delete", time.Now(), &err)

	res, err := r.db.ExecContext(ctx, `DELETE FROM health_programs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete program: %w", err)
	}
	return requireRow(res, "failed to delete program")
}

func (r *programRepository) List(ctx context.Context, activeOnly bool) (_ []*model.HealthProgram, err error) {
	defer r.observe("program.list", time.Now(), &err)

	query := `SELECT ` + programColumns + ` FROM health_programs`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY name, id`

	programs := []*model.HealthProgram{}
	if err = r.db.SelectContext(ctx, &programs, query); err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	return programs, nil
}
