package apikey

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/his-api/internal/handler"
	"github.com/jwalitptl/his-api/internal/model"
	"github.com/jwalitptl/his-api/pkg/errors"
	"github.com/jwalitptl/his-api/pkg/httputil"
)

type Service interface {
	Generate(ctx context.Context, sess *model.Session, req *model.CreateApiKeyRequest) (*model.ApiKey, error)
	Revoke(ctx context.Context, sess *model.Session, req *model.RevokeApiKeyRequest) error
	List(ctx context.Context, sess *model.Session) ([]*model.ApiKey, error)
}

// KeyView is the REST projection of an API key.
type KeyView struct {
	ID        uuid.UUID  `json:"id"`
	Key       string     `json:"key"`
	Owner     string     `json:"owner"`
	CreatedAt time.Time  `json:"createdAt"`
	LastUsed  *time.Time `json:"lastUsed"`
	ExpiresAt *time.Time `json:"expiresAt"`
	IsRevoked bool       `json:"isRevoked"`
}

func newKeyView(k *model.ApiKey) KeyView {
	return KeyView{
		ID:        k.ID,
		Key:       k.Key,
		Owner:     k.Owner,
		CreatedAt: k.CreatedAt,
		LastUsed:  k.LastUsed,
		ExpiresAt: k.ExpiresAt,
		IsRevoked: k.IsRevoked,
	}
}

// Handler serves /api/keys. Callers are expected to be admins; the router
// puts RequireRole in front of it.
type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/keys", h.ListKeys)
	r.POST("/keys", h.GenerateKey)
	r.DELETE("/keys", h.RevokeKey)
}

func (h *Handler) ListKeys(c *gin.Context) {
	keys, err := h.service.List(c.Request.Context(), handler.Session(c))
	if err != nil {
		httputil.RespondWithAPIError(c, err)
		return
	}

	views := make([]KeyView, 0, len(keys))
	for _, k := range keys {
		views = append(views, newKeyView(k))
	}
	c.JSON(http.StatusOK, gin.H{"keys": views})
}

func (h *Handler) GenerateKey(c *gin.Context) {
	var req model.CreateApiKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Owner) == "" {
		httputil.RespondWithAPIError(c, errors.BadRequest("Owner name is required", err))
		return
	}

	key, err := h.service.Generate(c.Request.Context(), handler.Session(c), &req)
	if err != nil {
		httputil.RespondWithAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "API key generated successfully",
		"apiKey":  newKeyView(key),
	})
}

func (h *Handler) RevokeKey(c *gin.Context) {
	var req model.RevokeApiKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ApiKey) == "" {
		httputil.RespondWithAPIError(c, errors.BadRequest("API key is required", err))
		return
	}

	if err := h.service.Revoke(c.Request.Context(), handler.Session(c), &req); err != nil {
		httputil.RespondWithAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "API key revoked successfully"})
}
