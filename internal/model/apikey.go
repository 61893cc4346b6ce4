package model

import (
	"time"

	"github.com/google/uuid"
)

// ApiKey is a bearer credential for machine clients. Revocation is a soft delete.
type ApiKey struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Key       string     `json:"key" db:"key"`
	Owner     string     `json:"owner" db:"owner"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	LastUsed  *time.Time `json:"last_used" db:"last_used"`
	ExpiresAt *time.Time `json:"expires_at" db:"expires_at"`
	IsRevoked bool       `json:"is_revoked" db:"is_revoked"`
}

type CreateApiKeyRequest struct {
	Owner         string `json:"owner" validate:"required"`
	ExpiresInDays *int   `json:"expiresInDays" validate:"omitempty,min=1"`
}

type RevokeApiKeyRequest struct {
	ApiKey string `json:"apiKey" validate:"required"`
}
