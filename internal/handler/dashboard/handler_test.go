package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/jwalitptl/his-api/internal/model"
	"github.com/jwalitptl/his-api/pkg/errors"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Stats(ctx context.Context, sess *model.Session) (*model.DashboardStats, error) {
	args := m.Called(ctx, sess)
	s, _ := args.Get(0).(*model.DashboardStats)
	return s, args.Error(1)
}

func (m *mockService) MonthlyRegistrations(ctx context.Context, sess *model.Session) ([]model.MonthlyRegistration, error) {
	args := m.Called(ctx, sess)
	r, _ := args.Get(0).([]model.MonthlyRegistration)
	return r, args.Error(1)
}

func (m *mockService) ProgramDistribution(ctx context.Context, sess *model.Session) ([]*model.ProgramDistribution, error) {
	args := m.Called(ctx, sess)
	d, _ := args.Get(0).([]*model.ProgramDistribution)
	return d, args.Error(1)
}

func (m *mockService) RecentClients(ctx context.Context, sess *model.Session, limit int) ([]*model.RecentClient, error) {
	args := m.Called(ctx, sess, limit)
	c, _ := args.Get(0).([]*model.RecentClient)
	return c, args.Error(1)
}

func serve(svc *mockService, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRecentClientsLimit(t *testing.T) {
	svc := new(mockService)
	svc.On("RecentClients", mock.Anything, mock.Anything, 5).Return([]*model.RecentClient{}, nil).Once()
	svc.On("RecentClients", mock.Anything, mock.Anything, 12).Return([]*model.RecentClient{}, nil).Once()

	assert.Equal(t, http.StatusOK, serve(svc, "/api/v1/dashboard/recent-clients").Code)
	assert.Equal(t, http.StatusOK, serve(svc, "/api/v1/dashboard/recent-clients?limit=12").Code)
	svc.AssertExpectations(t)
}

func TestStatsRequiresSession(t *testing.T) {
	svc := new(mockService)
	svc.On("Stats", mock.Anything, (*model.Session)(nil)).Return(nil, errors.Unauthorized("authentication required"))

	w := serve(svc, "/api/v1/dashboard/stats")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"authentication required"}`, w.Body.String())
}
