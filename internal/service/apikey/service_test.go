package apikey

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/his-api/internal/model"
	"github.com/jwalitptl/his-api/internal/repository"
	"github.com/jwalitptl/his-api/internal/repository/mocks"
	apperrors "github.com/jwalitptl/his-api/pkg/errors"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newService(repo *mocks.ApiKeyRepository) *Service {
	svc := NewService(repo, "master-key", nil)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func admin() *model.Session {
	return &model.Session{UserID: uuid.New(), Role: model.RoleAdmin}
}

func TestGenerate(t *testing.T) {
	repo := &mocks.ApiKeyRepository{}
	svc := newService(repo)
	ctx := context.Background()
	repo.On("Create", ctx, mock.AnythingOfType("*model.ApiKey")).Return(nil)

	days := 30
	key, err := svc.Generate(ctx, admin(), &model.CreateApiKeyRequest{Owner: "lab-sync", ExpiresInDays: &days})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key.Key, KeyPrefix))
	assert.Len(t, key.Key, len(KeyPrefix)+48)
	require.NotNil(t, key.ExpiresAt)
	assert.Equal(t, fixedNow.AddDate(0, 0, 30), *key.ExpiresAt)
}

func TestGenerateRequiresAdmin(t *testing.T) {
	repo := &mocks.ApiKeyRepository{}
	svc := newService(repo)

	_, err := svc.Generate(context.Background(), &model.Session{Role: model.RoleDoctor}, &model.CreateApiKeyRequest{Owner: "x"})
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	_, err = svc.Generate(context.Background(), admin(), &model.CreateApiKeyRequest{})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestValidate(t *testing.T) {
	ctx := context.Background()
	past := fixedNow.Add(-time.Hour)
	future := fixedNow.Add(time.Hour)
	validID := uuid.New()

	repo := &mocks.ApiKeyRepository{}
	repo.On("GetActive", ctx, "his_unknown").Return(nil, repository.ErrNotFound)
	repo.On("GetActive", ctx, "his_revoked").Return(nil, repository.ErrNotFound)
	repo.On("GetActive", ctx, "his_expired").Return(&model.ApiKey{ID: uuid.New(), ExpiresAt: &past}, nil)
	repo.On("GetActive", ctx, "his_valid").Return(&model.ApiKey{ID: validID, ExpiresAt: &future}, nil)
	repo.On("GetActive", ctx, "his_broken").Return(nil, errors.New("connection reset"))
	repo.On("TouchLastUsed", ctx, validID, fixedNow).Return(errors.New("write failed"))

	svc := newService(repo)

	assert.True(t, svc.Validate(ctx, "master-key"))
	assert.False(t, svc.Validate(ctx, ""))
	assert.False(t, svc.Validate(ctx, "his_unknown"))
	assert.False(t, svc.Validate(ctx, "his_revoked"))
	assert.False(t, svc.Validate(ctx, "his_expired"))
	assert.False(t, svc.Validate(ctx, "his_broken"))
	assert.True(t, svc.Validate(ctx, "his_valid"), "a failed last-used write does not reject the key")

	repo.AssertNotCalled(t, "GetActive", ctx, "master-key")
}

func TestRevoke(t *testing.T) {
	repo := &mocks.ApiKeyRepository{}
	svc := newService(repo)
	ctx := context.Background()
	repo.On("Revoke", ctx, "his_live").Return(true, nil)
	repo.On("Revoke", ctx, "his_gone").Return(false, nil)

	require.NoError(t, svc.Revoke(ctx, admin(), &model.RevokeApiKeyRequest{ApiKey: "his_live"}))

	err := svc.Revoke(ctx, admin(), &model.RevokeApiKeyRequest{ApiKey: "his_gone"})
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	err = svc.Revoke(ctx, admin(), &model.RevokeApiKeyRequest{})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	err = svc.Revoke(ctx, nil, &model.RevokeApiKeyRequest{ApiKey: "his_live"})
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
}
