package user

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/his-api/internal/access"
	"github.com/jwalitptl/his-api/internal/model"
	"github.com/jwalitptl/his-api/internal/repository"
	"github.com/jwalitptl/his-api/pkg/errors"
	"github.com/jwalitptl/his-api/pkg/validator"
)

type Service struct {
	repo repository.UserRepository
}

func NewService(repo repository.UserRepository) *Service {
	return &Service{repo: repo}
}

// Me returns the profile of the signed-in user.
func (s *Service) Me(ctx context.Context, sess *model.Session) (*model.User, error) {
	if sess == nil {
		return nil, errors.Unauthorized("authentication required")
	}

	user, err := s.repo.Get(ctx, sess.UserID)
	if err != nil {
		return nil, lookupError(err)
	}
	return user, nil
}

func (s *Service) UpdateRole(ctx context.Context, sess *model.Session, id uuid.UUID, req *model.UpdateRoleRequest) (*model.User, error) {
	if err := access.Require(sess, access.UserRoleWrite); err != nil {
		return nil, err
	}
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	role := model.Role(req.Role)
	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		return nil, lookupError(err)
	}

	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, lookupError(err)
	}

	log.Info().
		Str("user_id", id.String()).
		Str("role", string(role)).
		Str("changed_by", sess.UserID.String()).
		Msg("user role updated")
	return user, nil
}

func lookupError(err error) error {
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NotFound("user", err)
	}
	return errors.Internal(err)
}
