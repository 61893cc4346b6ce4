package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/his-api/internal/handler"
	"github.com/jwalitptl/his-api/internal/model"
	"github.com/jwalitptl/his-api/internal/service/auth"
	"github.com/jwalitptl/his-api/pkg/errors"
	"github.com/jwalitptl/his-api/pkg/httputil"
	"github.com/jwalitptl/his-api/pkg/security"
)

const (
	stateCookie = "oauth_state"
	stateTTL    = 10 * time.Minute
)

type Service interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResult, error)
	OAuthLogin(ctx context.Context, profile *model.OAuthProfile) (*model.AuthResult, error)
}

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

type Handler struct {
	svc             Service
	google          auth.OAuthProvider
	cookie          CookieConfig
	successRedirect string
}

func NewHandler(svc Service, google auth.OAuthProvider, cookie CookieConfig, successRedirect string) *Handler {
	return &Handler{
		svc:             svc,
		google:          google,
		cookie:          cookie,
		successRedirect: successRedirect,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	a := r.Group("/auth")
	{
		a.POST("/register", h.Register)
		a.POST("/login", h.Login)
		a.POST("/logout", h.Logout)
		a.GET("/google/login", h.GoogleLogin)
		a.GET("/google/callback", h.GoogleCallback)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := handler.BindJSON(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	user, err := h.svc.Register(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, user)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := handler.BindJSON(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	result, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.setSession(c, result.Token)
	httputil.RespondWithSuccess(c, result)
}

func (h *Handler) Logout(c *gin.Context) {
	h.clearCookie(c, h.cookie.Name)
	httputil.RespondWithSuccess(c, gin.H{"message": "logged out"})
}

// GoogleLogin redirects to Google's consent screen. The state value is kept
// in a short lived cookie and checked on the callback.
func (h *Handler) GoogleLogin(c *gin.Context) {
	state, err := security.RandomHex(16)
	if err != nil {
		httputil.RespondWithError(c, errors.Internal(err))
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, int(stateTTL.Seconds()), "/", "", h.cookie.Secure, true)
	c.Redirect(http.StatusTemporaryRedirect, h.google.AuthCodeURL(state))
}

func (h *Handler) GoogleCallback(c *gin.Context) {
	expected, err := c.Cookie(stateCookie)
	h.clearCookie(c, stateCookie)
	if err != nil || expected == "" || c.Query("state") != expected {
		httputil.RespondWithError(c, errors.BadRequest("invalid oauth state", err))
		return
	}

	if reason := c.Query("error"); reason != "" {
		httputil.RespondWithError(c, errors.Unauthorized("google sign-in was cancelled"))
		return
	}

	code := c.Query("code")
	if code == "" {
		httputil.RespondWithError(c, errors.BadRequest("missing authorization code", nil))
		return
	}

	profile, err := h.google.Exchange(c.Request.Context(), code)
	if err != nil {
		log.Warn().Err(err).Msg("google code exchange failed")
		httputil.RespondWithError(c, errors.Unauthorized("google sign-in failed"))
		return
	}

	result, err := h.svc.OAuthLogin(c.Request.Context(), profile)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.setSession(c, result.Token)
	c.Redirect(http.StatusFound, h.successRedirect)
}

func (h *Handler) setSession(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, int(h.cookie.MaxAge.Seconds()), "/", "", h.cookie.Secure, true)
}

func (h *Handler) clearCookie(c *gin.Context, name string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, "", -1, "/", "", h.cookie.Secure, true)
}
