package program

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/jwalitptl/his-api/internal/access"
	"github.com/jwalitptl/his-api/internal/cache"
	"github.com/jwalitptl/his-api/internal/model"
	"github.com/jwalitptl/his-api/internal/repository"
	"github.com/jwalitptl/his-api/pkg/errors"
	"github.com/jwalitptl/his-api/pkg/validator"
)

// CachePrefix is the path prefix of cached program reads.
const CachePrefix = "/api/programs"

type ProgramService interface {
	Get(ctx context.Context, sess *model.Session, id uuid.UUID) (*model.HealthProgram, error)
	List(ctx context.Context, sess *model.Session, activeOnly bool) ([]*model.HealthProgram, error)
	Create(ctx context.Context, sess *model.Session, req *model.CreateProgramRequest) (*model.HealthProgram, error)
	Update(ctx context.Context, sess *model.Session, id uuid.UUID, req *model.UpdateProgramRequest) (*model.HealthProgram, error)
	Delete(ctx context.Context, sess *model.Session, id uuid.UUID) error
}

type Service struct {
	repo  repository.ProgramRepository
	cache cache.Invalidator
}

func NewService(repo repository.ProgramRepository, inv cache.Invalidator) *Service {
	if inv == nil {
		inv = cache.Nop{}
	}
	return &Service{repo: repo, cache: inv}
}

func (s *Service) Get(ctx context.Context, sess *model.Session, id uuid.UUID) (*model.HealthProgram, error) {
	if err := access.Require(sess, access.ProgramRead); err != nil {
		return nil, err
	}

	program, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, lookupError(err)
	}
	return program, nil
}

func (s *Service) List(ctx context.Context, sess *model.Session, activeOnly bool) ([]*model.HealthProgram, error) {
	if err := access.Require(sess, access.ProgramList); err != nil {
		return nil, err
	}

	programs, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if programs == nil {
		programs = []*model.HealthProgram{}
	}
	return programs, nil
}

func (s *Service) Create(ctx context.Context, sess *model.Session, req *model.CreateProgramRequest) (*model.HealthProgram, error) {
	if err := access.Require(sess, access.ProgramCreate); err != nil {
		return nil, err
	}
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	program := &model.HealthProgram{
		Name:           strings.TrimSpace(req.Name),
		Description:    strings.TrimSpace(req.Description),
		Code:           strings.TrimSpace(req.Code),
		Active:         true,
		RequiredFields: requiredFields(req.RequiredFields),
	}
	if req.Active != nil {
		program.Active = *req.Active
	}

	if err := s.repo.Create(ctx, program); err != nil {
		return nil, errors.Internal(err)
	}

	s.cache.Invalidate(ctx, CachePrefix)
	return program, nil
}

func (s *Service) Update(ctx context.Context, sess *model.Session, id uuid.UUID, req *model.UpdateProgramRequest) (*model.HealthProgram, error) {
	if err := access.Require(sess, access.ProgramUpdate); err != nil {
		return nil, err
	}
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	program, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, lookupError(err)
	}

	if req.Name != nil {
		program.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		program.Description = strings.TrimSpace(*req.Description)
	}
	if req.Code != nil {
		program.Code = strings.TrimSpace(*req.Code)
	}
	if req.Active != nil {
		program.Active = *req.Active
	}
	if req.RequiredFields != nil {
		program.RequiredFields = requiredFields(req.RequiredFields)
	}

	if err := s.repo.Update(ctx, program); err != nil {
		return nil, lookupError(err)
	}

	// Client details embed the program name.
	s.cache.Invalidate(ctx, CachePrefix, "/api/clients")
	return program, nil
}

func (s *Service) Delete(ctx context.Context, sess *model.Session, id uuid.UUID) error {
	if err := access.Require(sess, access.ProgramDelete); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err)
	}

	// Enrollments cascade, so cached client details are stale too.
	s.cache.Invalidate(ctx, CachePrefix, "/api/clients")
	return nil
}

func requiredFields(in []string) pq.StringArray {
	out := pq.StringArray{}
	for _, f := range in {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func lookupError(err error) error {
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NotFound("program", err)
	}
	return errors.Internal(err)
}
