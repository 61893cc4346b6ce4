package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/his-api/internal/cache"
	"github.com/jwalitptl/his-api/internal/model"
	"github.com/jwalitptl/his-api/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuth map[string]*model.Session

func (s stubAuth) Authenticate(_ context.Context, token string) (*model.Session, error) {
	if sess, ok := s[token]; ok {
		return sess, nil
	}
	return nil, errors.Unauthorized("bad token")
}

type stubKeys map[string]bool

func (s stubKeys) Validate(_ context.Context, key string) bool { return s[key] }

var (
	doctor = &model.Session{UserID: uuid.New(), Role: model.RoleDoctor}
	admin  = &model.Session{UserID: uuid.New(), Role: model.RoleAdmin}
)

func newAuth() *AuthMiddleware {
	return NewAuthMiddleware(
		stubAuth{"doctor-token": doctor, "admin-token": admin},
		stubKeys{"his_good": true},
		"his_session",
	)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAPIKeyOrSession(t *testing.T) {
	m := newAuth()
	r := gin.New()
	r.Use(m.Session())
	r.GET("/api/clients", m.RequireAPIKeyOrSession(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextCredential))
	})

	tests := []struct {
		name   string
		setup  func(*http.Request)
		status int
		body   string
	}{
		{"anonymous", func(*http.Request) {}, http.StatusUnauthorized, ""},
		{"cookie session", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "his_session", Value: "doctor-token"})
		}, http.StatusOK, CredentialSession},
		{"bearer session", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer doctor-token")
		}, http.StatusOK, CredentialSession},
		{"valid key", func(r *http.Request) {
			r.Header.Set(HeaderAPIKey, "his_good")
		}, http.StatusOK, CredentialAPIKey},
		{"bad key with session", func(r *http.Request) {
			r.Header.Set(HeaderAPIKey, "his_bad")
			r.Header.Set("Authorization", "Bearer doctor-token")
		}, http.StatusUnauthorized, ""},
		{"bad token", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer forged")
		}, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
			tt.setup(req)
			w := serve(r, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestAPIKeyReplacesSession(t *testing.T) {
	m := newAuth()
	r := gin.New()
	r.Use(m.Session())
	r.GET("/api/clients", m.RequireAPIKeyOrSession(), func(c *gin.Context) {
		c.String(http.StatusOK, string(SessionFrom(c).Role))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
	req.Header.Set(HeaderAPIKey, "his_good")
	req.Header.Set("Authorization", "Bearer admin-token")
	w := serve(r, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(model.RoleAPIClient), w.Body.String())
}

func TestRequireRoleAnswersForbiddenForAnonymous(t *testing.T) {
	m := newAuth()
	r := gin.New()
	r.Use(m.Session())
	r.GET("/api/keys", m.RequireRole(model.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/keys", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/keys", nil)
	req.Header.Set("Authorization", "Bearer doctor-token")
	assert.Equal(t, http.StatusForbidden, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/api/keys", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	assert.Equal(t, http.StatusOK, serve(r, req).Code)
}

func TestResponseCache(t *testing.T) {
	pc := cache.New(cache.Options{TTL: time.Minute})
	calls := 0

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(ContextCredential, CredentialAPIKey) })
	r.Use(ResponseCache(pc))
	r.GET("/api/programs", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"calls": calls})
	})

	first := serve(r, httptest.NewRequest(http.MethodGet, "/api/programs", nil))
	second := serve(r, httptest.NewRequest(http.MethodGet, "/api/programs", nil))

	assert.Equal(t, "MISS", first.Header().Get(HeaderXCache))
	assert.Equal(t, "HIT", second.Header().Get(HeaderXCache))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls)

	pc.Invalidate(context.Background(), "/api/programs")
	third := serve(r, httptest.NewRequest(http.MethodGet, "/api/programs", nil))
	assert.Equal(t, "MISS", third.Header().Get(HeaderXCache))
	assert.Equal(t, 2, calls)
}

func TestRateLimit(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 0.001, Burst: 2})
	r := gin.New()
	r.Use(rl.RateLimit())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := func(ip string) int {
		rq := httptest.NewRequest(http.MethodGet, "/", nil)
		rq.RemoteAddr = ip + ":1234"
		return serve(r, rq).Code
	}

	assert.Equal(t, http.StatusOK, req("10.0.0.1"))
	assert.Equal(t, http.StatusOK, req("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, req("10.0.0.1"))
	assert.Equal(t, http.StatusOK, req("10.0.0.2"))
}

func TestRequestIDAndRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set(HeaderXRequestID, "abc-123")
	w := serve(r, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "abc-123", w.Header().Get(HeaderXRequestID))
	assert.JSONEq(t, `{"success":false,"error":"internal server error"}`, w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"https://clinic.example"}
	r := gin.New()
	r.Use(CORS(cfg))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://clinic.example")
	w := serve(r, req)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://clinic.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))

	req = httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	assert.Equal(t, http.StatusForbidden, serve(r, req).Code)
}

func TestTimeoutSetsDeadline(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(time.Second))
	r.GET("/", func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		assert.True(t, ok)
		c.Status(http.StatusOK)
	})
	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}

func TestSizeLimit(t *testing.T) {
	r := gin.New()
	r.Use(SizeLimit(SizeLimitConfig{MaxBodySize: 16, MaxHeaderSize: 256}))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 17))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Padding", strings.Repeat("p", 300))
	assert.Equal(t, http.StatusRequestEntityTooLarge, serve(r, req).Code)
}
