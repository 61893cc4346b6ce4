package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jwalitptl/his-api/internal/model"
)

// SessionTTL is the lifetime of a session token and its cookie.
const SessionTTL = 30 * 24 * time.Hour

var ErrInvalidToken = errors.New("invalid session token")

// JWTService signs and verifies session tokens.
type JWTService interface {
	GenerateToken(sess *model.Session) (string, error)
	ValidateToken(token string) (*model.Session, error)
}

// Claims is the session payload: the user's id, email, name and role.
type Claims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type jwtService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTService(secret string, ttl time.Duration) JWTService {
	if ttl <= 0 {
		ttl = SessionTTL
	}
	return &jwtService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *jwtService) GenerateToken(sess *model.Session) (string, error) {
	now := s.now()
	claims := Claims{
		ID:    sess.UserID.String(),
		Email: sess.Email,
		Name:  sess.Name,
		Role:  string(sess.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, nil
}

func (s *jwtService) ValidateToken(tokenString string) (*model.Session, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	role := model.Role(claims.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
	}

	return &model.Session{
		UserID: id,
		Email:  claims.Email,
		Name:   claims.Name,
		Role:   role,
	}, nil
}
