package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jwalitptl/his-api/internal/access"
	"github.com/jwalitptl/his-api/internal/model"
	"github.com/jwalitptl/his-api/internal/repository"
	"github.com/jwalitptl/his-api/pkg/errors"
)

const (
	newEnrollmentWindow = 30 * 24 * time.Hour
	registrationMonths  = 6

	DefaultRecentLimit = 5
	maxRecentLimit     = 50
)

// ProgramColors is the chart palette, assigned to programs in order.
var ProgramColors = []string{
	"#0ea5e9",
	"#22c55e",
	"#f59e0b",
	"#8b5cf6",
	"#ec4899",
	"#f43f5e",
	"#06b6d4",
	"#14b8a6",
}

type Service struct {
	repo repository.DashboardRepository
	now  func() time.Time
}

func NewService(repo repository.DashboardRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Stats runs the three headline counts concurrently.
func (s *Service) Stats(ctx context.Context, sess *model.Session) (*model.DashboardStats, error) {
	if err := access.Require(sess, access.DashboardRead); err != nil {
		return nil, err
	}

	var stats model.DashboardStats
	since := s.now().UTC().Add(-newEnrollmentWindow)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalClients, err = s.repo.CountClients(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.ActivePrograms, err = s.repo.CountActivePrograms(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.NewEnrollments, err = s.repo.CountEnrollmentsSince(gctx, since)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errors.Internal(err)
	}

	return &stats, nil
}

// MonthlyRegistrations returns client registrations for the current month
// and the five before it, oldest first, with empty months included.
func (s *Service) MonthlyRegistrations(ctx context.Context, sess *model.Session) ([]model.MonthlyRegistration, error) {
	if err := access.Require(sess, access.DashboardRead); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(registrationMonths - 1), 0)

	counts, err := s.repo.ClientRegistrationsSince(ctx, first)
	if err != nil {
		return nil, errors.Internal(err)
	}

	byMonth := make(map[time.Time]int, len(counts))
	for _, c := range counts {
		m := c.Month.UTC()
		byMonth[time.Date(m.Year(), m.Month(), 1, 0, 0, 0, 0, time.UTC)] += c.Count
	}

	out := make([]model.MonthlyRegistration, 0, registrationMonths)
	for i := 0; i < registrationMonths; i++ {
		month := first.AddDate(0, i, 0)
		out = append(out, model.MonthlyRegistration{
			Name:  month.Format("Jan"),
			Total: byMonth[month],
		})
	}
	return out, nil
}

// ProgramDistribution counts active enrollments per active program.
func (s *Service) ProgramDistribution(ctx context.Context, sess *model.Session) ([]*model.ProgramDistribution, error) {
	if err := access.Require(sess, access.DashboardRead); err != nil {
		return nil, err
	}

	rows, err := s.repo.ActiveEnrollmentsByProgram(ctx)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if rows == nil {
		rows = []*model.ProgramDistribution{}
	}
	for i, row := range rows {
		row.Color = ProgramColors[i%len(ProgramColors)]
	}
	return rows, nil
}

// RecentClients returns the most recently updated clients with the names of
// the programs they are enrolled in.
func (s *Service) RecentClients(ctx context.Context, sess *model.Session, limit int) ([]*model.RecentClient, error) {
	if err := access.Require(sess, access.DashboardRead); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	clients, err := s.repo.RecentClients(ctx, limit)
	if err != nil {
		return nil, errors.Internal(err)
	}

	ids := make([]uuid.UUID, len(clients))
	for i, c := range clients {
		ids[i] = c.ID
	}
	programs, err := s.repo.EnrolledPrograms(ctx, ids)
	if err != nil {
		return nil, errors.Internal(err)
	}

	out := make([]*model.RecentClient, 0, len(clients))
	for _, c := range clients {
		refs := programs[c.ID]
		if refs == nil {
			refs = []model.ProgramRef{}
		}
		out = append(out, &model.RecentClient{
			ID:          c.ID,
			Name:        c.FirstName + " " + c.LastName,
			Email:       c.Email,
			Programs:    refs,
			Status:      "Active",
			LastUpdated: c.UpdatedAt,
		})
	}
	return out, nil
}
