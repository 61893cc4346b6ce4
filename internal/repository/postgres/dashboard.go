package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/his-api/internal/model"
	"github.com/jwalitptl/his-api/internal/repository"
)

type dashboardRepository struct {
	BaseRepository
}

func NewDashboardRepository(base BaseRepository) repository.DashboardRepository {
	return &dashboardRepository{base}
}

func (r *dashboardRepository) count(ctx context.Context, op, query string, args ...interface{}) (n int, err error) {
	defer r.observe(op, time.Now(), &err)

	if err = r.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, fmt.Errorf("failed to run %s: %w", op, err)
	}
	return n, nil
}

func (r *dashboardRepository) CountClients(ctx context.Context) (int, error) {
	return r.count(ctx, "dashboard.count_clients", `SELECT count(*) FROM clients`)
}

func (r *dashboardRepository) CountActivePrograms(ctx context.Context) (int, error) {
	return r.count(ctx, "dashboard.count_programs", `SELECT count(*) FROM health_programs WHERE active`)
}

func (r *dashboardRepository) CountEnrollmentsSince(ctx context.Context, since time.Time) (int, error) {
	return r.count(ctx, "dashboard.count_enrollments",
		`SELECT count(*) FROM program_enrollments WHERE enrollment_date > $1`, since)
}

func (r *dashboardRepository) ClientRegistrationsSince(ctx context.Context, since time.Time) (_ []model.MonthCount, err error) {
	defer r.observe("dashboard.registrations", time.Now(), &err)

	query := `
		SELECT date_trunc('month', created_at) AS month, count(*) AS count
		FROM clients
		WHERE created_at >= $1
		GROUP BY 1
		ORDER BY 1
	`

	counts := []model.MonthCount{}
	if err = r.db.SelectContext(ctx, &counts, query, since); err != nil {
		return nil, fmt.Errorf("failed to aggregate client registrations: %w", err)
	}
	return counts, nil
}

func (r *dashboardRepository) ActiveEnrollmentsByProgram(ctx context.Context) (_ []*model.ProgramDistribution, err error) {
	defer r.observe("dashboard.distribution", time.Now(), &err)

	query := `
		SELECT p.id, p.name, count(e.id) AS value
		FROM health_programs p
		LEFT JOIN program_enrollments e ON e.program_id = p.id AND e.status = 'active'
		WHERE p.active
		GROUP BY p.id, p.name
		ORDER BY p.name, p.id
	`

	rows := []*model.ProgramDistribution{}
	if err = r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to aggregate program distribution: %w", err)
	}
	return rows, nil
}

func (r *dashboardRepository) RecentClients(ctx context.Context, limit int) (_ []*model.Client, err error) {
	defer r.observe("dashboard.recent_clients", time.Now(), &err)

	clients := []*model.Client{}
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY updated_at DESC, id LIMIT $1`
	if err = r.db.SelectContext(ctx, &clients, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list recent clients: %w", err)
	}
	return clients, nil
}

func (r *dashboardRepository) EnrolledPrograms(ctx context.Context, clientIDs []uuid.UUID) (_ map[uuid.UUID][]model.ProgramRef, err error) {
	defer r.observe("dashboard.enrolled_programs", time.Now(), &err)

	out := make(map[uuid.UUID][]model.ProgramRef, len(clientIDs))
	if len(clientIDs) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(`
		SELECT e.client_id, p.id AS program_id, p.name AS program_name
		FROM program_enrollments e
		JOIN health_programs p ON p.id = e.program_id
		WHERE e.client_id IN (?)
		ORDER BY e.enrollment_date DESC
	`, clientIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build enrolled programs query: %w", err)
	}

	var rows []struct {
		ClientID uuid.UUID `db:"client_id"`
		model.ProgramRef
	}
	if err = r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list enrolled programs: %w", err)
	}

	for _, row := range rows {
		out[row.ClientID] = append(out[row.ClientID], row.ProgramRef)
	}
	return out, nil
}
