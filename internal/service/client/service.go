package client

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jwalitptl/his-api/internal/access"
	"github.com/jwalitptl/his-api/internal/cache"
	"github.com/jwalitptl/his-api/internal/model"
	"github.com/jwalitptl/his-api/internal/repository"
	"github.com/jwalitptl/his-api/pkg/errors"
	"github.com/jwalitptl/his-api/pkg/metrics"
	"github.com/jwalitptl/his-api/pkg/validator"
)

// CachePrefix is the path prefix of cached client reads.
const CachePrefix = "/api/clients"

// MaxFuzzyQueryLength is the longest query the fuzzy tier will run.
const MaxFuzzyQueryLength = 255

type ClientService interface {
	Get(ctx context.Context, sess *model.Session, id uuid.UUID) (*model.ClientDetail, error)
	List(ctx context.Context, sess *model.Session, params model.ClientListParams) (*model.ClientPage, error)
	Search(ctx context.Context, sess *model.Session, query string, page model.Pagination) (*model.ClientPage, error)
	Create(ctx context.Context, sess *model.Session, req *model.CreateClientRequest) (*model.Client, error)
	Update(ctx context.Context, sess *model.Session, id uuid.UUID, req *model.UpdateClientRequest) (*model.Client, error)
	Delete(ctx context.Context, sess *model.Session, id uuid.UUID) error
}

type Service struct {
	repo        repository.ClientRepository
	enrollments repository.EnrollmentRepository
	cache       cache.Invalidator
	metrics     *metrics.Metrics
}

func NewService(repo repository.ClientRepository, enrollments repository.EnrollmentRepository, inv cache.Invalidator, m *metrics.Metrics) *Service {
	if inv == nil {
		inv = cache.Nop{}
	}
	return &Service{
		repo:        repo,
		enrollments: enrollments,
		cache:       inv,
		metrics:     m,
	}
}

// Get returns the client together with its enrollments.
func (s *Service) Get(ctx context.Context, sess *model.Session, id uuid.UUID) (*model.ClientDetail, error) {
	if err := access.Require(sess, access.ClientRead); err != nil {
		return nil, err
	}

	client, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, lookupError(err)
	}

	enrollments, err := s.enrollments.ListByClient(ctx, id)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to list client enrollments: %w", err))
	}
	if enrollments == nil {
		enrollments = []*model.EnrollmentWithProgram{}
	}

	return &model.ClientDetail{Client: client, Enrollments: enrollments}, nil
}

// List returns a page of clients. A non-blank search string is delegated to
// Search; otherwise the page carries an exact total.
func (s *Service) List(ctx context.Context, sess *model.Session, params model.ClientListParams) (*model.ClientPage, error) {
	if strings.TrimSpace(params.Search) != "" {
		return s.Search(ctx, sess, params.Search, params.Pagination)
	}
	if err := access.Require(sess, access.ClientList); err != nil {
		return nil, err
	}

	p := params.Pagination.Normalize()

	clients, err := s.repo.List(ctx, p.PageSize, p.Offset())
	if err != nil {
		return nil, errors.Internal(err)
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, errors.Internal(err)
	}

	totalPages := (total + p.PageSize - 1) / p.PageSize
	return &model.ClientPage{
		Clients:     nonNil(clients),
		Page:        p.Page,
		PageSize:    p.PageSize,
		HasNextPage: p.Offset()+len(clients) < total,
		Total:       &total,
		TotalPages:  &totalPages,
	}, nil
}

// Search runs the tiers in order and returns the first non-empty result.
// Each tier is paginated on its own; results are never merged.
func (s *Service) Search(ctx context.Context, sess *model.Session, query string, page model.Pagination) (*model.ClientPage, error) {
	if err := access.Require(sess, access.ClientList); err != nil {
		return nil, err
	}

	p := page.Normalize()
	clients, tier, err := s.search(ctx, query, p.PageSize, p.Offset())
	if err != nil {
		return nil, errors.Internal(err)
	}
	s.metrics.SearchTier(string(tier))

	return &model.ClientPage{
		Clients:     nonNil(clients),
		Page:        p.Page,
		PageSize:    p.PageSize,
		HasNextPage: len(clients) == p.PageSize,
		Tier:        tier,
	}, nil
}

func (s *Service) search(ctx context.Context, query string, limit, offset int) ([]*model.Client, model.SearchTier, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		clients, err := s.repo.List(ctx, limit, offset)
		return clients, model.TierNone, err
	}

	if isDigits(trimmed) {
		clients, err := s.repo.SearchExactDigits(ctx, trimmed, limit, offset)
		if err != nil || len(clients) > 0 {
			return clients, model.TierNumeric, err
		}
	}

	if tokens := strings.Fields(query); len(tokens) >= 2 {
		clients, err := s.repo.SearchNameTokens(ctx, tokens[0], tokens[1], limit, offset)
		if err != nil || len(clients) > 0 {
			return clients, model.TierName, err
		}
	}

	// The substring and fuzzy tiers match the query as given.
	clients, err := s.repo.SearchSubstring(ctx, query, limit, offset)
	if err != nil || len(clients) > 0 {
		return clients, model.TierSubstring, err
	}

	// levenshtein rejects arguments longer than MaxFuzzyQueryLength.
	if utf8.RuneCountInString(query) > MaxFuzzyQueryLength {
		return []*model.Client{}, model.TierFuzzy, nil
	}
	clients, err = s.repo.SearchFuzzy(ctx, query, limit, offset)
	return clients, model.TierFuzzy, err
}

func (s *Service) Create(ctx context.Context, sess *model.Session, req *model.CreateClientRequest) (*model.Client, error) {
	if err := access.Require(sess, access.ClientCreate); err != nil {
		return nil, err
	}
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	dob, err := validator.ParseDate(req.DateOfBirth)
	if err != nil {
		return nil, errors.Validation(map[string]string{"date_of_birth": "must be a valid date"})
	}

	createdBy := sess.UserID
	client := &model.Client{
		FirstName:                    strings.TrimSpace(req.FirstName),
		LastName:                     strings.TrimSpace(req.LastName),
		DateOfBirth:                  dob,
		Gender:                       model.Gender(req.Gender),
		NationalID:                   optional(req.NationalID),
		Phone:                        optional(req.Phone),
		Email:                        optional(req.Email),
		Address:                      optional(req.Address),
		EmergencyContactName:         optional(req.EmergencyContactName),
		EmergencyContactRelationship: optional(req.EmergencyContactRelationship),
		EmergencyContactPhone:        optional(req.EmergencyContactPhone),
		CreatedBy:                    &createdBy,
	}

	if err := s.repo.Create(ctx, client); err != nil {
		return nil, errors.Internal(err)
	}

	s.cache.Invalidate(ctx, CachePrefix)
	return client, nil
}

// Update applies the fields present in req to an existing client.
func (s *Service) Update(ctx context.Context, sess *model.Session, id uuid.UUID, req *model.UpdateClientRequest) (*model.Client, error) {
	if err := access.Require(sess, access.ClientUpdate); err != nil {
		return nil, err
	}
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	client, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, lookupError(err)
	}

	if req.FirstName != nil {
		client.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		client.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.DateOfBirth != nil {
		dob, err := validator.ParseDate(*req.DateOfBirth)
		if err != nil {
			return nil, errors.Validation(map[string]string{"date_of_birth": "must be a valid date"})
		}
		client.DateOfBirth = dob
	}
	if req.Gender != nil {
		client.Gender = model.Gender(*req.Gender)
	}
	assign(&client.NationalID, req.NationalID)
	assign(&client.Phone, req.Phone)
	assign(&client.Email, req.Email)
	assign(&client.Address, req.Address)
	assign(&client.EmergencyContactName, req.EmergencyContactName)
	assign(&client.EmergencyContactRelationship, req.EmergencyContactRelationship)
	assign(&client.EmergencyContactPhone, req.EmergencyContactPhone)

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, lookupError(err)
	}

	s.cache.Invalidate(ctx, CachePrefix)
	return client, nil
}

func (s *Service) Delete(ctx context.Context, sess *model.Session, id uuid.UUID) error {
	if err := access.Require(sess, access.ClientDelete); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err)
	}

	s.cache.Invalidate(ctx, CachePrefix)
	return nil
}

func lookupError(err error) error {
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NotFound("client", err)
	}
	return errors.Internal(err)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// assign sets *dst from a present field; an empty string clears it.
func assign(dst **string, v *string) {
	if v != nil {
		*dst = optional(*v)
	}
}

func nonNil(clients []*model.Client) []*model.Client {
	if clients == nil {
		return []*model.Client{}
	}
	return clients
}
