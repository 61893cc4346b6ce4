package client

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/his-api/internal/handler"
	"github.com/jwalitptl/his-api/internal/model"
	"github.com/jwalitptl/his-api/internal/service/client"
	"github.com/jwalitptl/his-api/pkg/httputil"
)

type Handler struct {
	service client.ClientService
}

func NewHandler(service client.ClientService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	clients := r.Group("/clients")
	{
		clients.POST("", h.CreateClient)
		clients.GET("", h.ListClients)
		clients.GET("/:id", h.GetClient)
		clients.PUT("/:id", h.UpdateClient)
		clients.DELETE("/:id", h.DeleteClient)
	}
}

func (h *Handler) CreateClient(c *gin.Context) {
	var req model.CreateClientRequest
	if err := handler.BindJSON(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	client, err := h.service.Create(c.Request.Context(), handler.Session(c), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, client)
}

// ListClients lists clients, or searches them when ?search is given.
func (h *Handler) ListClients(c *gin.Context) {
	params := model.ClientListParams{
		Pagination: handler.PaginationFrom(c),
		Search:     c.Query("search"),
	}

	page, err := h.service.List(c.Request.Context(), handler.Session(c), params)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithPagination(c, page.Clients, httputil.Pagination{
		Page:        page.Page,
		PageSize:    page.PageSize,
		HasNextPage: page.HasNextPage,
		Total:       page.Total,
		TotalPages:  page.TotalPages,
		Tier:        string(page.Tier),
	})
}

func (h *Handler) GetClient(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	detail, err := h.service.Get(c.Request.Context(), handler.Session(c), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, detail)
}

func (h *Handler) UpdateClient(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.UpdateClientRequest
	if err := handler.BindJSON(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	client, err := h.service.Update(c.Request.Context(), handler.Session(c), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, client)
}

func (h *Handler) DeleteClient(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), handler.Session(c), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"id": id})
}
