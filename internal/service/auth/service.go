package auth

import (
	"context"
	stderrors "errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/his-api/internal/email"
	"github.com/jwalitptl/his-api/internal/model"
	"github.com/jwalitptl/his-api/internal/repository"
	"github.com/jwalitptl/his-api/pkg/auth"
	"github.com/jwalitptl/his-api/pkg/errors"
	"github.com/jwalitptl/his-api/pkg/security"
	"github.com/jwalitptl/his-api/pkg/validator"
)

const (
	// ProviderGoogle is stored as the oauth provider of Google accounts.
	ProviderGoogle = "google"

	mailTimeout = 10 * time.Second
)

var (
	errInvalidCredentials = errors.Unauthorized("Invalid email or password")
	nonDigits             = regexp.MustCompile(`\D`)
)

type Service struct {
	users      repository.UserRepository
	facilities repository.FacilityRepository
	hasher     security.PasswordHasher
	tokens     auth.JWTService
	mail       email.Service
}

func NewService(users repository.UserRepository, facilities repository.FacilityRepository,
	hasher security.PasswordHasher, tokens auth.JWTService, mail email.Service) *Service {
	if mail == nil {
		mail = email.Noop{}
	}
	return &Service{
		users:      users,
		facilities: facilities,
		hasher:     hasher,
		tokens:     tokens,
		mail:       mail,
	}
}

// Register creates a staff account, reusing the facility with the same name
// when one exists. The email and facility lookups are not transactional;
// the unique index on users.email catches a concurrent duplicate.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	emailAddr := normalizeEmail(req.Email)
	if _, err := s.users.GetByEmail(ctx, emailAddr); err == nil {
		return nil, errors.Conflict("User with this email already exists")
	} else if !stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.Internal(err)
	}

	facility, err := s.findOrCreateFacility(ctx, req)
	if err != nil {
		return nil, errors.Internal(err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	user := &model.User{
		Name:           strings.TrimSpace(req.Name),
		Email:          emailAddr,
		PasswordHash:   &hash,
		Role:           model.Role(req.Role),
		FacilityID:     &facility.ID,
		LicenseNumber:  optional(req.LicenseNumber),
		Specialization: optional(req.Specialization),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.Conflict("User with this email already exists")
		}
		return nil, errors.Internal(err)
	}

	s.sendWelcome(ctx, user)
	return user, nil
}

func (s *Service) findOrCreateFacility(ctx context.Context, req *model.RegisterRequest) (*model.Facility, error) {
	name := strings.TrimSpace(req.FacilityName)

	facility, err := s.facilities.GetByName(ctx, name)
	if err == nil {
		return facility, nil
	}
	if !stderrors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up facility: %w", err)
	}

	facility = &model.Facility{
		Name:    name,
		Address: optional(req.FacilityAddress),
		Phone:   optional(nonDigits.ReplaceAllString(req.FacilityPhone, "")),
		Email:   optional(req.FacilityEmail),
	}
	if err := s.facilities.Create(ctx, facility); err != nil {
		return nil, fmt.Errorf("failed to create facility: %w", err)
	}
	return facility, nil
}

func (s *Service) sendWelcome(ctx context.Context, user *model.User) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), mailTimeout)
	defer cancel()

	if err := s.mail.SendWelcome(ctx, user.Email, user.Name); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("failed to send welcome email")
	}
}

// Login verifies a password and issues a session token. Unknown emails,
// wrong passwords and accounts without a password all fail the same way.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResult, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, errors.Internal(err)
	}

	if user.PasswordHash == nil {
		return nil, errInvalidCredentials
	}
	if err := s.hasher.Compare(*user.PasswordHash, req.Password); err != nil {
		return nil, errInvalidCredentials
	}

	return s.issue(user)
}

// OAuthLogin signs in the account behind an OAuth identity. Unknown emails
// get a new Doctor account; existing accounts are linked to the identity.
func (s *Service) OAuthLogin(ctx context.Context, profile *model.OAuthProfile) (*model.AuthResult, error) {
	if profile == nil || profile.Email == "" {
		return nil, errors.Unauthorized("OAuth profile has no email address")
	}

	user, err := s.users.GetByOAuth(ctx, profile.Provider, profile.ID)
	if err == nil {
		return s.issue(user)
	}
	if !stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.Internal(err)
	}

	user, err = s.users.GetByEmail(ctx, normalizeEmail(profile.Email))
	switch {
	case err == nil:
		if user.OAuthID == nil {
			if err := s.users.LinkOAuth(ctx, user.ID, profile.Provider, profile.ID); err != nil {
				return nil, errors.Internal(err)
			}
			user.OAuthProvider = &profile.Provider
			user.OAuthID = &profile.ID
		}
	case stderrors.Is(err, repository.ErrNotFound):
		name := strings.TrimSpace(profile.Name)
		if name == "" {
			name = profile.Email
		}
		user = &model.User{
			Name:          name,
			Email:         normalizeEmail(profile.Email),
			Role:          model.RoleDoctor,
			OAuthProvider: &profile.Provider,
			OAuthID:       &profile.ID,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, errors.Internal(err)
		}
		log.Info().Str("user_id", user.ID.String()).Str("provider", profile.Provider).Msg("created account from oauth sign-in")
	default:
		return nil, errors.Internal(err)
	}

	return s.issue(user)
}

// Authenticate resolves a session token into a session.
func (s *Service) Authenticate(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, errors.Unauthorized("authentication required")
	}
	sess, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, &errors.AppError{Code: errors.ErrUnauthorized, Message: "invalid or expired session", Err: err}
	}
	return sess, nil
}

func (s *Service) issue(user *model.User) (*model.AuthResult, error) {
	token, err := s.tokens.GenerateToken(&model.Session{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
	})
	if err != nil {
		return nil, errors.Internal(err)
	}
	return &model.AuthResult{User: user, Token: token}, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
