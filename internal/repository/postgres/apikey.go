package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/his-api/internal/model"
	"github.com/jwalitptl/his-api/internal/repository"
)

const apiKeyColumns = `id, key, owner, created_at, last_used, expires_at, is_revoked`

type apiKeyRepository struct {
	BaseRepository
}

func NewApiKeyRepository(base BaseRepository) repository.ApiKeyRepository {
	return &apiKeyRepository{base}
}

func (r *apiKeyRepository) Create(ctx context.Context, key *model.ApiKey) (err error) {
	defer r.observe("apikey.create", time.Now(), &err)

	query := `
		INSERT INTO api_keys (id, key, owner, created_at, last_used, expires_at, is_revoked)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if key.ID == uuid.Nil {
		key.ID = uuid.New()
	}
	key.CreatedAt = time.Now().UTC()

	_, err = r.db.ExecContext(ctx, query,
		key.ID,
		key.Key,
		key.Owner,
		key.CreatedAt,
		key.LastUsed,
		key.ExpiresAt,
		key.IsRevoked,
	)
	if err != nil {
		return fmt.Errorf("failed to create api key: %w", uniqueViolation(err))
	}
	return nil
}

func (r *apiKeyRepository) GetActive(ctx context.Context, key string) (_ *model.ApiKey, err error) {
	defer r.observe("apikey.get_active", time.Now(), &err)

	var k model.ApiKey
	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE key = $1 AND NOT is_revoked`
	if err = r.db.GetContext(ctx, &k, query, key); err != nil {
		return nil, fmt.Errorf("failed to get api key: %w", notFound(err))
	}
	return &k, nil
}

func (r *apiKeyRepository) TouchLastUsed(ctx context.Context, id uuid.UUID, at time.Time) (err error) {
	defer r.observe("apikey.touch", time.Now(), &err)

	if _, err = r.db.ExecContext(ctx, `UPDATE api_keys SET last_used = $1 WHERE id = $2`, at, id); err != nil {
		return fmt.Errorf("failed to update api key last used: %w", err)
	}
	return nil
}

// Revoke soft-deletes a non-revoked key and reports whether one was found.
func (r *apiKeyRepository) Revoke(ctx context.Context, key string) (_ bool, err error) {
	defer r.observe("apikey.revoke", time.Now(), &err)

	res, err := r.db.ExecContext(ctx, `UPDATE api_keys SET is_revoked = TRUE WHERE key = $1 AND NOT is_revoked`, key)
	if err != nil {
		return false, fmt.Errorf("failed to revoke api key: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to revoke api key: %w", err)
	}
	return n > 0, nil
}

func (r *apiKeyRepository) ListActive(ctx context.Context) (_ []*model.ApiKey, err error) {
	defer r.observe("apikey.list", time.Now(), &err)

	keys := []*model.ApiKey{}
	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE NOT is_revoked ORDER BY created_at DESC`
	if err = r.db.SelectContext(ctx, &keys, query); err != nil {
		return nil, fmt.Errorf("failed to list api keys: %w", err)
	}
	return keys, nil
}
