package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/his-api/internal/model"
	"github.com/jwalitptl/his-api/internal/repository/mocks"
	apperrors "github.com/jwalitptl/his-api/pkg/errors"
)

var now = time.Date(2024, 2, 15, 10, 0, 0, 0, time.UTC)

func newService(repo *mocks.DashboardRepository) *Service {
	svc := NewService(repo)
	svc.now = func() time.Time { return now }
	return svc
}

func nurse() *model.Session {
	return &model.Session{UserID: uuid.New(), Role: model.RoleNurse}
}

func TestStats(t *testing.T) {
	repo := &mocks.DashboardRepository{}
	repo.On("CountClients", mock.Anything).Return(42, nil)
	repo.On("CountActivePrograms", mock.Anything).Return(3, nil)
	repo.On("CountEnrollmentsSince", mock.Anything, now.Add(-30*24*time.Hour)).Return(7, nil)

	stats, err := newService(repo).Stats(context.Background(), nurse())
	require.NoError(t, err)

	assert.Equal(t, &model.DashboardStats{TotalClients: 42, ActivePrograms: 3, NewEnrollments: 7}, stats)
}

func TestStatsFailure(t *testing.T) {
	repo := &mocks.DashboardRepository{}
	repo.On("CountClients", mock.Anything).Return(0, errors.New("db down"))
	repo.On("CountActivePrograms", mock.Anything).Return(3, nil)
	repo.On("CountEnrollmentsSince", mock.Anything, mock.Anything).Return(7, nil)

	_, err := newService(repo).Stats(context.Background(), nurse())
	assert.True(t, apperrors.Is(err, apperrors.ErrInternal))
}

func TestStatsRequiresSession(t *testing.T) {
	repo := &mocks.DashboardRepository{}

	_, err := newService(repo).Stats(context.Background(), nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
	repo.AssertNotCalled(t, "CountClients", mock.Anything)
}

func TestMonthlyRegistrationsSpansYearBoundary(t *testing.T) {
	repo := &mocks.DashboardRepository{}
	first := time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)
	repo.On("ClientRegistrationsSince", mock.Anything, first).Return([]model.MonthCount{
		{Month: time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC), Count: 4},
		{Month: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Count: 2},
	}, nil)

	out, err := newService(repo).MonthlyRegistrations(context.Background(), nurse())
	require.NoError(t, err)

	assert.Equal(t, []model.MonthlyRegistration{
		{Name: "Sep", Total: 0},
		{Name: "Oct", Total: 0},
		{Name: "Nov", Total: 4},
		{Name: "Dec", Total: 0},
		{Name: "Jan", Total: 0},
		{Name: "Feb", Total: 2},
	}, out)
}

func TestProgramDistributionColoursCycle(t *testing.T) {
	repo := &mocks.DashboardRepository{}
	rows := make([]*model.ProgramDistribution, len(ProgramColors)+1)
	for i := range rows {
		rows[i] = &model.ProgramDistribution{ID: uuid.New(), Value: i}
	}
	repo.On("ActiveEnrollmentsByProgram", mock.Anything).Return(rows, nil)

	out, err := newService(repo).ProgramDistribution(context.Background(), nurse())
	require.NoError(t, err)

	assert.Equal(t, ProgramColors[0], out[0].Color)
	assert.Equal(t, ProgramColors[0], out[len(ProgramColors)].Color)
}

func TestRecentClients(t *testing.T) {
	repo := &mocks.DashboardRepository{}
	a := &model.Client{Base: model.Base{ID: uuid.New(), UpdatedAt: now}, FirstName: "Jane", LastName: "Doe"}
	b := &model.Client{Base: model.Base{ID: uuid.New(), UpdatedAt: now}, FirstName: "John", LastName: "Roe"}
	programID := uuid.New()

	repo.On("RecentClients", mock.Anything, DefaultRecentLimit).Return([]*model.Client{a, b}, nil)
	repo.On("EnrolledPrograms", mock.Anything, []uuid.UUID{a.ID, b.ID}).Return(map[uuid.UUID][]model.ProgramRef{
		a.ID: {{ID: programID, Name: "HIV Care"}},
	}, nil)

	out, err := newService(repo).RecentClients(context.Background(), nurse(), 0)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "Jane Doe", out[0].Name)
	assert.Equal(t, "HIV Care", out[0].Programs[0].Name)
	assert.NotNil(t, out[1].Programs)
	assert.Empty(t, out[1].Programs)
}
