package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/his-api/internal/model"
	"github.com/jwalitptl/his-api/internal/repository"
)

const enrollmentColumns = `e.id, e.client_id, e.program_id, e.enrollment_date, e.status,
	e.program_specific_data, e.notes, e.created_by, e.created_at, e.updated_at`

type enrollmentRepository struct {
	BaseRepository
}

func NewEnrollmentRepository(base BaseRepository) repository.EnrollmentRepository {
	return &enrollmentRepository{base}
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *model.Enrollment) (err error) {
	defer r.observe("enrollment.create", time.Now(), &err)

	query := `
		INSERT INTO program_enrollments (
			id, client_id, program_id, enrollment_date, status,
			program_specific_data, notes, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	if enrollment.ID == uuid.Nil {
		enrollment.ID = uuid.New()
	}
	if enrollment.ProgramSpecificData == nil {
		enrollment.ProgramSpecificData = model.JSONMap{}
	}
	now := time.Now().UTC()
	enrollment.CreatedAt = now
	enrollment.UpdatedAt = now

	_, err = r.db.ExecContext(ctx, query,
		enrollment.ID,
		enrollment.ClientID,
		enrollment.ProgramID,
		enrollment.EnrollmentDate,
		enrollment.Status,
		enrollment.ProgramSpecificData,
		enrollment.Notes,
		enrollment.CreatedBy,
		enrollment.CreatedAt,
		enrollment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create enrollment: %w", err)
	}
	return nil
}

func (r *enrollmentRepository) HasActive(ctx context.Context, clientID, programID uuid.UUID) (_ bool, err error) {
	defer r.observe("enrollment.has_active", time.Now(), &err)

	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM program_enrollments
			WHERE client_id = $1 AND program_id = $2 AND status = 'active'
		)
	`
	if err = r.db.GetContext(ctx, &exists, query, clientID, programID); err != nil {
		return false, fmt.Errorf("failed to check active enrollment: %w", err)
	}
	return exists, nil
}

func (r *enrollmentRepository) ListByClient(ctx context.Context, clientID uuid.UUID) (_ []*model.EnrollmentWithProgram, err error) {
	defer r.observe("enrollment.list_by_client", time.Now(), &err)

	query := `
		SELECT ` + enrollmentColumns + `, p.name AS program_name, p.code AS program_code
		FROM program_enrollments e
		JOIN health_programs p ON p.id = e.program_id
		WHERE e.client_id = $1
		ORDER BY e.enrollment_date DESC, e.id
	`

	enrollments := []*model.EnrollmentWithProgram{}
	if err = r.db.SelectContext(ctx, &enrollments, query, clientID); err != nil {
		return nil, fmt.Errorf("failed to list client enrollments: %w", err)
	}
	return enrollments, nil
}

func (r *enrollmentRepository) ListByProgram(ctx context.Context, programID uuid.UUID, limit, offset int) (_ []*model.EnrollmentWithClient, err error) {
	defer r.observe("enrollment.list_by_program", time.Now(), &err)

	query := `
		SELECT ` + enrollmentColumns + `, c.first_name AS client_first_name, c.last_name AS client_last_name
		FROM program_enrollments e
		JOIN clients c ON c.id = e.client_id
		WHERE e.program_id = $1
		ORDER BY e.enrollment_date DESC, e.id
		LIMIT $2 OFFSET $3
	`

	enrollments := []*model.EnrollmentWithClient{}
	if err = r.db.SelectContext(ctx, &enrollments, query, programID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list program enrollments: %w", err)
	}
	return enrollments, nil
}
