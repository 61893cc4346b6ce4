package dashboard

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/his-api/internal/handler"
	"github.com/jwalitptl/his-api/internal/model"
	"github.com/jwalitptl/his-api/internal/service/dashboard"
	"github.com/jwalitptl/his-api/pkg/httputil"
)

type Service interface {
	Stats(ctx context.Context, sess *model.Session) (*model.DashboardStats, error)
	MonthlyRegistrations(ctx context.Context, sess *model.Session) ([]model.MonthlyRegistration, error)
	ProgramDistribution(ctx context.Context, sess *model.Session) ([]*model.ProgramDistribution, error)
	RecentClients(ctx context.Context, sess *model.Session, limit int) ([]*model.RecentClient, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	d := r.Group("/dashboard")
	{
		d.GET("/stats", h.Stats)
		d.GET("/registrations", h.Registrations)
		d.GET("/distribution", h.Distribution)
		d.GET("/recent-clients", h.RecentClients)
	}
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), handler.Session(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, stats)
}

func (h *Handler) Registrations(c *gin.Context) {
	months, err := h.service.MonthlyRegistrations(c.Request.Context(), handler.Session(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, months)
}

func (h *Handler) Distribution(c *gin.Context) {
	dist, err := h.service.ProgramDistribution(c.Request.Context(), handler.Session(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, dist)
}

func (h *Handler) RecentClients(c *gin.Context) {
	limit := handler.QueryInt(c, "limit", dashboard.DefaultRecentLimit)

	clients, err := h.service.RecentClients(c.Request.Context(), handler.Session(c), limit)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, clients)
}
