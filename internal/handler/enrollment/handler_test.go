package enrollment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/jwalitptl/his-api/internal/model"
	"github.com/jwalitptl/his-api/pkg/errors"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Create(ctx context.Context, sess *model.Session, req *model.CreateEnrollmentRequest) (*model.Enrollment, error) {
	args := m.Called(ctx, sess, req)
	e, _ := args.Get(0).(*model.Enrollment)
	return e, args.Error(1)
}

func (m *mockService) ListByClient(ctx context.Context, sess *model.Session, clientID uuid.UUID) ([]*model.EnrollmentWithProgram, error) {
	args := m.Called(ctx, sess, clientID)
	e, _ := args.Get(0).([]*model.EnrollmentWithProgram)
	return e, args.Error(1)
}

func (m *mockService) ListByProgram(ctx context.Context, sess *model.Session, programID uuid.UUID, page model.Pagination) ([]*model.EnrollmentWithClient, error) {
	args := m.Called(ctx, sess, programID, page)
	e, _ := args.Get(0).([]*model.EnrollmentWithClient)
	return e, args.Error(1)
}

func (m *mockService) List(ctx context.Context, sess *model.Session, params model.EnrollmentListParams) (interface{}, error) {
	args := m.Called(ctx, sess, params)
	return args.Get(0), args.Error(1)
}

func serve(svc *mockService, method, path, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))
	return w
}

func TestCreateEnrollmentConflict(t *testing.T) {
	svc := new(mockService)
	svc.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.Conflict("Client is already enrolled in this program"))

	w := serve(svc, http.MethodPost, "/api/v1/enrollments",
		`{"client_id":"`+uuid.NewString()+`","program_id":"`+uuid.NewString()+`","enrollment_date":"2024-01-01"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Client is already enrolled in this program"}`, w.Body.String())
}

func TestListEnrollmentsForwardsFilters(t *testing.T) {
	svc := new(mockService)
	clientID := uuid.NewString()
	svc.On("List", mock.Anything, mock.Anything, model.EnrollmentListParams{
		Pagination: model.Pagination{Page: 1, PageSize: model.DefaultPageSize},
		ClientID:   clientID,
	}).Return([]*model.EnrollmentWithProgram{}, nil)

	w := serve(svc, http.MethodGet, "/api/v1/enrollments?client_id="+clientID, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())
	svc.AssertExpectations(t)
}
