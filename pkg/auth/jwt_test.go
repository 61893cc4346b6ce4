package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/his-api/internal/model"
)

func TestRoundTrip(t *testing.T) {
	svc := NewJWTService("secret", 0)
	sess := &model.Session{UserID: uuid.New(), Email: "a@b.c", Name: "Dr A", Role: model.RoleDoctor}

	token, err := svc.GenerateToken(sess)
	require.NoError(t, err)

	got, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, sess, got)
}

func TestExpiry(t *testing.T) {
	svc := NewJWTService("secret", time.Hour).(*jwtService)
	issued := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issued }

	token, err := svc.GenerateToken(&model.Session{UserID: uuid.New(), Role: model.RoleNurse})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestRejectsForeignTokens(t *testing.T) {
	svc := NewJWTService("secret", 0)
	other := NewJWTService("other", 0)

	token, err := other.GenerateToken(&model.Session{UserID: uuid.New(), Role: model.RoleAdmin})
	require.NoError(t, err)
	_, err = svc.ValidateToken(token)
	assert.Error(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{ID: uuid.NewString(), Role: "Admin"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateToken(unsigned)
	assert.Error(t, err)

	badRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{ID: uuid.NewString(), Role: "Janitor"}).
		SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(badRole)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}
