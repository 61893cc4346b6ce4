package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/his-api/internal/access"
	"github.com/jwalitptl/his-api/internal/model"
	"github.com/jwalitptl/his-api/pkg/errors"
	"github.com/jwalitptl/his-api/pkg/httputil"
)

const (
	HeaderAPIKey = "X-API-Key"

	ContextSession    = "session"
	ContextCredential = "credential"

	CredentialSession = "session"
	CredentialAPIKey  = "apikey"
)

// Authenticator resolves a session token.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.Session, error)
}

// KeyValidator checks an API key.
type KeyValidator interface {
	Validate(ctx context.Context, key string) bool
}

type AuthMiddleware struct {
	auth       Authenticator
	keys       KeyValidator
	cookieName string
}

func NewAuthMiddleware(auth Authenticator, keys KeyValidator, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		auth:       auth,
		keys:       keys,
		cookieName: cookieName,
	}
}

// Session attaches the caller's session when the cookie or a bearer token
// holds a valid one. It never rejects a request.
func (m *AuthMiddleware) Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := m.token(c); token != "" {
			if sess, err := m.auth.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(ContextSession, sess)
			}
		}
		c.Next()
	}
}

func (m *AuthMiddleware) token(c *gin.Context) string {
	if cookie, err := c.Cookie(m.cookieName); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}

// RequireSession rejects requests without a session.
func (m *AuthMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if SessionFrom(c) == nil {
			httputil.RespondWithError(c, errors.Unauthorized("authentication required"))
			return
		}
		c.Set(ContextCredential, CredentialSession)
		c.Next()
	}
}

// RequireAPIKeyOrSession guards the REST read endpoints. A request carrying
// an API key header is judged by the key alone, even when it also has a
// session, and runs as the read-only API key principal.
func (m *AuthMiddleware) RequireAPIKeyOrSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := c.GetHeader(HeaderAPIKey); key != "" {
			if !m.keys.Validate(c.Request.Context(), key) {
				httputil.RespondWithAPIError(c, errors.Unauthorized("Invalid API key"))
				return
			}
			c.Set(ContextSession, access.APIKeySession())
			c.Set(ContextCredential, CredentialAPIKey)
			c.Next()
			return
		}

		if SessionFrom(c) == nil {
			httputil.RespondWithAPIError(c, errors.Unauthorized("API key or authentication required"))
			return
		}
		c.Set(ContextCredential, CredentialSession)
		c.Next()
	}
}

// RequireRole rejects every caller whose session role is not listed,
// anonymous callers included, with 403.
func (m *AuthMiddleware) RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFrom(c)
		if sess == nil || !hasRole(sess.Role, roles) {
			httputil.RespondWithAPIError(c, errors.Forbidden("Admin access required"))
			return
		}
		c.Set(ContextCredential, CredentialSession)
		c.Next()
	}
}

func hasRole(role model.Role, roles []model.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// SessionFrom returns the session attached by Session, or nil.
func SessionFrom(c *gin.Context) *model.Session {
	v, ok := c.Get(ContextSession)
	if !ok {
		return nil
	}
	sess, _ := v.(*model.Session)
	return sess
}
