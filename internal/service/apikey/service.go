package apikey

import (
	"context"
	"crypto/subtle"
	stderrors "errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/his-api/internal/access"
	"github.com/jwalitptl/his-api/internal/model"
	"github.com/jwalitptl/his-api/internal/repository"
	"github.com/jwalitptl/his-api/pkg/errors"
	"github.com/jwalitptl/his-api/pkg/metrics"
	"github.com/jwalitptl/his-api/pkg/security"
	"github.com/jwalitptl/his-api/pkg/validator"
)

const (
	// KeyPrefix marks keys issued by this service.
	KeyPrefix = "his_"
	keyBytes  = 24
)

type Service struct {
	repo      repository.ApiKeyRepository
	masterKey string
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewService(repo repository.ApiKeyRepository, masterKey string, m *metrics.Metrics) *Service {
	return &Service{
		repo:      repo,
		masterKey: masterKey,
		metrics:   m,
		now:       time.Now,
	}
}

// Generate issues a new key for owner, optionally expiring after the given
// number of days.
func (s *Service) Generate(ctx context.Context, sess *model.Session, req *model.CreateApiKeyRequest) (*model.ApiKey, error) {
	if err := access.Require(sess, access.ApiKeyManage); err != nil {
		return nil, err
	}
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	token, err := security.PrefixedToken(KeyPrefix, keyBytes)
	if err != nil {
		return nil, errors.Internal(err)
	}

	key := &model.ApiKey{
		Key:   token,
		Owner: strings.TrimSpace(req.Owner),
	}
	if req.ExpiresInDays != nil {
		expires := s.now().UTC().AddDate(0, 0, *req.ExpiresInDays)
		key.ExpiresAt = &expires
	}

	if err := s.repo.Create(ctx, key); err != nil {
		return nil, errors.Internal(err)
	}

	log.Info().Str("owner", key.Owner).Str("key_id", key.ID.String()).Msg("api key issued")
	return key, nil
}

// Validate reports whether key may call the REST read endpoints. The
// configured master key always passes. The last-used stamp is written after
// the check and its failure does not reject the key.
func (s *Service) Validate(ctx context.Context, key string) bool {
	if key == "" {
		s.metrics.APIKeyResult("missing")
		return false
	}
	if s.masterKey != "" && subtle.ConstantTimeCompare([]byte(key), []byte(s.masterKey)) == 1 {
		s.metrics.APIKeyResult("master")
		return true
	}

	record, err := s.repo.GetActive(ctx, key)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			s.metrics.APIKeyResult("unknown")
		} else {
			s.metrics.APIKeyResult("error")
			log.Error().Err(err).Msg("api key lookup failed")
		}
		return false
	}

	now := s.now().UTC()
	if record.ExpiresAt != nil && record.ExpiresAt.Before(now) {
		s.metrics.APIKeyResult("expired")
		return false
	}

	if err := s.repo.TouchLastUsed(ctx, record.ID, now); err != nil {
		log.Warn().Err(err).Str("key_id", record.ID.String()).Msg("failed to record api key use")
	}
	s.metrics.APIKeyResult("valid")
	return true
}

// Revoke soft-deletes an active key. Unknown or already revoked keys are NotFound.
func (s *Service) Revoke(ctx context.Context, sess *model.Session, req *model.RevokeApiKeyRequest) error {
	if err := access.Require(sess, access.ApiKeyManage); err != nil {
		return err
	}
	if err := validator.Validate(req); err != nil {
		return err
	}

	revoked, err := s.repo.Revoke(ctx, req.ApiKey)
	if err != nil {
		return errors.Internal(err)
	}
	if !revoked {
		return errors.NotFound("API key", nil)
	}
	return nil
}

func (s *Service) List(ctx context.Context, sess *model.Session) ([]*model.ApiKey, error) {
	if err := access.Require(sess, access.ApiKeyManage); err != nil {
		return nil, err
	}

	keys, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if keys == nil {
		keys = []*model.ApiKey{}
	}
	return keys, nil
}
