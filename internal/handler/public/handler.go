// Package public serves the camelCase read API used by external consumers.
// Every route accepts either an API key or a session and is page cached.
package public

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/his-api/internal/handler"
	"github.com/jwalitptl/his-api/internal/model"
	"github.com/jwalitptl/his-api/pkg/errors"
	"github.com/jwalitptl/his-api/pkg/httputil"
)

type ClientReader interface {
	Get(ctx context.Context, sess *model.Session, id uuid.UUID) (*model.ClientDetail, error)
	List(ctx context.Context, sess *model.Session, params model.ClientListParams) (*model.ClientPage, error)
}

type ProgramReader interface {
	Get(ctx context.Context, sess *model.Session, id uuid.UUID) (*model.HealthProgram, error)
	List(ctx context.Context, sess *model.Session, activeOnly bool) ([]*model.HealthProgram, error)
}

type Handler struct {
	clients  ClientReader
	programs ProgramReader
}

func NewHandler(clients ClientReader, programs ProgramReader) *Handler {
	return &Handler{clients: clients, programs: programs}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/clients", h.ListClients)
	r.GET("/clients/:id", h.GetClient)
	r.GET("/programs", h.ListPrograms)
	r.GET("/programs/:id", h.GetProgram)
}

func (h *Handler) ListClients(c *gin.Context) {
	params := model.ClientListParams{
		Pagination: handler.PaginationFrom(c),
		Search:     c.Query("search"),
	}

	page, err := h.clients.List(c.Request.Context(), handler.Session(c), params)
	if err != nil {
		httputil.RespondWithAPIError(c, err)
		return
	}

	clients := make([]ClientSummary, 0, len(page.Clients))
	for _, client := range page.Clients {
		clients = append(clients, newClientSummary(client))
	}

	// Searches carry no count; the page length stands in for it.
	total := len(clients)
	if page.Total != nil {
		total = *page.Total
	}

	c.JSON(http.StatusOK, gin.H{
		"clients": clients,
		"pagination": Pagination{
			Page:         page.Page,
			PageSize:     page.PageSize,
			HasNextPage:  page.HasNextPage,
			TotalRecords: total,
		},
	})
}

func (h *Handler) GetClient(c *gin.Context) {
	id, ok := h.parseID(c, "Client")
	if !ok {
		return
	}

	detail, err := h.clients.Get(c.Request.Context(), handler.Session(c), id)
	if err != nil {
		httputil.RespondWithAPIError(c, err)
		return
	}

	enrollments := make([]EnrollmentView, 0, len(detail.Enrollments))
	for _, e := range detail.Enrollments {
		enrollments = append(enrollments, newEnrollmentView(e))
	}

	c.JSON(http.StatusOK, gin.H{
		"client":      newClientView(detail.Client),
		"enrollments": enrollments,
	})
}

// ListPrograms only returns active programs.
func (h *Handler) ListPrograms(c *gin.Context) {
	programs, err := h.programs.List(c.Request.Context(), handler.Session(c), true)
	if err != nil {
		httputil.RespondWithAPIError(c, err)
		return
	}

	views := make([]ProgramView, 0, len(programs))
	for _, p := range programs {
		views = append(views, newProgramView(p))
	}
	c.JSON(http.StatusOK, gin.H{"programs": views})
}

func (h *Handler) GetProgram(c *gin.Context) {
	id, ok := h.parseID(c, "Program")
	if !ok {
		return
	}

	program, err := h.programs.Get(c.Request.Context(), handler.Session(c), id)
	if err != nil {
		httputil.RespondWithAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProgramView(program))
}

// parseID answers 404 for an id that cannot name any record.
func (h *Handler) parseID(c *gin.Context, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithAPIError(c, errors.NotFound(resource, err))
		return uuid.Nil, false
	}
	return id, true
}
