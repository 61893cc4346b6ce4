package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/his-api/internal/model"
	"github.com/jwalitptl/his-api/internal/repository"
)

const userColumns = `id, name, email, password_hash, role, oauth_provider, oauth_id,
	facility_id, license_number, specialization, created_at, updated_at`

type userRepository struct {
	BaseRepository
}

func NewUserRepository(base BaseRepository) repository.UserRepository {
	return &userRepository{base}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) (err error) {
	defer r.observe("user.create", time.Now(), &err)

	query := `
		INSERT INTO users (
			id, name, email, password_hash, role, oauth_provider, oauth_id,
			facility_id, license_number, specialization, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err = r.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.OAuthProvider,
		user.OAuthID,
		user.FacilityID,
		user.LicenseNumber,
		user.Specialization,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", uniqueViolation(err))
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (_ *model.User, err error) {
	defer r.observe("user.get", time.Now(), &err)

	var user model.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err = r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", notFound(err))
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (_ *model.User, err error) {
	defer r.observe("user.get_by_email", time.Now(), &err)

	var user model.User
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	if err = r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", notFound(err))
	}
	return &user, nil
}

func (r *userRepository) GetByOAuth(ctx context.Context, provider, oauthID string) (_ *model.User, err error) {
	defer r.observe("user.get_by_oauth", time.Now(), &err)

	var user model.User
	query := `SELECT ` + userColumns + ` FROM users WHERE oauth_provider = $1 AND oauth_id = $2`
	if err = r.db.GetContext(ctx, &user, query, provider, oauthID); err != nil {
		return nil, fmt.Errorf("failed to get user by oauth id: %w", notFound(err))
	}
	return &user, nil
}

func (r *userRepository) LinkOAuth(ctx context.Context, id uuid.UUID, provider, oauthID string) (err error) {
	defer r.observe("user.link_oauth", time.Now(), &err)

	query := `UPDATE users SET oauth_provider = $1, oauth_id = $2, updated_at = $3 WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, provider, oauthID, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to link oauth account: %w", err)
	}
	return requireRow(res, "failed to link oauth account")
}

func (r *userRepository) UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) (err error) {
	defer r.observe("user.update_role", time.Now(), &err)

	query := `UPDATE users SET role = $1, updated_at = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, role, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}
	return requireRow(res, "failed to update user role")
}
