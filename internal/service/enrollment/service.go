package enrollment

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jwalitptl/his-api/internal/access"
	"github.com/jwalitptl/his-api/internal/cache"
	"github.com/jwalitptl/his-api/internal/model"
	"github.com/jwalitptl/his-api/internal/repository"
	"github.com/jwalitptl/his-api/pkg/errors"
	"github.com/jwalitptl/his-api/pkg/validator"
)

type EnrollmentService interface {
	Create(ctx context.Context, sess *model.Session, req *model.CreateEnrollmentRequest) (*model.Enrollment, error)
	ListByClient(ctx context.Context, sess *model.Session, clientID uuid.UUID) ([]*model.EnrollmentWithProgram, error)
	ListByProgram(ctx context.Context, sess *model.Session, programID uuid.UUID, page model.Pagination) ([]*model.EnrollmentWithClient, error)
	List(ctx context.Context, sess *model.Session, params model.EnrollmentListParams) (interface{}, error)
}

type Service struct {
	repo     repository.EnrollmentRepository
	clients  repository.ClientRepository
	programs repository.ProgramRepository
	cache    cache.Invalidator
}

func NewService(repo repository.EnrollmentRepository, clients repository.ClientRepository,
	programs repository.ProgramRepository, inv cache.Invalidator) *Service {
	if inv == nil {
		inv = cache.Nop{}
	}
	return &Service{
		repo:     repo,
		clients:  clients,
		programs: programs,
		cache:    inv,
	}
}

// Create enrolls a client in a program. The existence and duplicate checks
// run as separate queries ahead of the insert, so two concurrent requests
// for the same pair can both succeed.
func (s *Service) Create(ctx context.Context, sess *model.Session, req *model.CreateEnrollmentRequest) (*model.Enrollment, error) {
	if err := access.Require(sess, access.EnrollmentCreate); err != nil {
		return nil, err
	}
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	clientID := uuid.MustParse(req.ClientID)
	programID := uuid.MustParse(req.ProgramID)
	enrolledOn, err := validator.ParseDate(req.EnrollmentDate)
	if err != nil {
		return nil, errors.Validation(map[string]string{"enrollment_date": "must be a valid date"})
	}

	if _, err := s.clients.Get(ctx, clientID); err != nil {
		return nil, lookupError("client", err)
	}

	program, err := s.programs.Get(ctx, programID)
	if err != nil {
		return nil, lookupError("program", err)
	}

	active, err := s.repo.HasActive(ctx, clientID, programID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if active {
		return nil, errors.Conflict("Client is already enrolled in this program")
	}

	if details := missingRequired(program.RequiredFields, req.ProgramSpecificData); len(details) > 0 {
		return nil, errors.Validation(details)
	}

	status := model.EnrollmentStatus(req.Status)
	if status == "" {
		status = model.EnrollmentActive
	}

	createdBy := sess.UserID
	enrollment := &model.Enrollment{
		ClientID:            clientID,
		ProgramID:           programID,
		EnrollmentDate:      enrolledOn,
		Status:              status,
		ProgramSpecificData: model.JSONMap(req.ProgramSpecificData),
		CreatedBy:           &createdBy,
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		enrollment.Notes = &notes
	}
	if enrollment.ProgramSpecificData == nil {
		enrollment.ProgramSpecificData = model.JSONMap{}
	}

	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, errors.Internal(err)
	}

	s.cache.Invalidate(ctx, "/api/clients/"+clientID.String())
	return enrollment, nil
}

// List dispatches on the filter: a client id lists every enrollment of that
// client, a program id lists one page of the program's enrollments.
func (s *Service) List(ctx context.Context, sess *model.Session, params model.EnrollmentListParams) (interface{}, error) {
	if err := access.Require(sess, access.EnrollmentRead); err != nil {
		return nil, err
	}

	switch {
	case params.ClientID != "":
		id, err := uuid.Parse(params.ClientID)
		if err != nil {
			return nil, errors.Validation(map[string]string{"client_id": "must be a valid id"})
		}
		return s.ListByClient(ctx, sess, id)
	case params.ProgramID != "":
		id, err := uuid.Parse(params.ProgramID)
		if err != nil {
			return nil, errors.Validation(map[string]string{"program_id": "must be a valid id"})
		}
		return s.ListByProgram(ctx, sess, id, params.Pagination)
	default:
		return nil, errors.Validation(map[string]string{"client_id": "client_id or program_id is required"})
	}
}

func (s *Service) ListByClient(ctx context.Context, sess *model.Session, clientID uuid.UUID) ([]*model.EnrollmentWithProgram, error) {
	if err := access.Require(sess, access.EnrollmentRead); err != nil {
		return nil, err
	}

	enrollments, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if enrollments == nil {
		enrollments = []*model.EnrollmentWithProgram{}
	}
	return enrollments, nil
}

func (s *Service) ListByProgram(ctx context.Context, sess *model.Session, programID uuid.UUID, page model.Pagination) ([]*model.EnrollmentWithClient, error) {
	if err := access.Require(sess, access.EnrollmentRead); err != nil {
		return nil, err
	}

	p := page.Normalize()
	enrollments, err := s.repo.ListByProgram(ctx, programID, p.PageSize, p.Offset())
	if err != nil {
		return nil, errors.Internal(err)
	}
	if enrollments == nil {
		enrollments = []*model.EnrollmentWithClient{}
	}
	return enrollments, nil
}

// missingRequired reports each required key that is absent, null or blank.
func missingRequired(required []string, data map[string]interface{}) map[string]string {
	details := map[string]string{}
	for _, field := range required {
		v, ok := data[field]
		if !ok || v == nil {
			details[field] = "is required"
			continue
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			details[field] = "is required"
		}
	}
	return details
}

func lookupError(resource string, err error) error {
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NotFound(resource, err)
	}
	return errors.Internal(fmt.Errorf("failed to load %s: %w", resource, err))
}
