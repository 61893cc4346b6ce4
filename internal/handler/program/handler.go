package program

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/his-api/internal/handler"
	"github.com/jwalitptl/his-api/internal/model"
	"github.com/jwalitptl/his-api/internal/service/program"
	"github.com/jwalitptl/his-api/pkg/httputil"
)

type Handler struct {
	service program.ProgramService
}

func NewHandler(service program.ProgramService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	programs := r.Group("/programs")
	{
		programs.POST("", h.CreateProgram)
		programs.GET("", h.ListPrograms)
		programs.GET("/:id", h.GetProgram)
		programs.PUT("/:id", h.UpdateProgram)
		programs.DELETE("/:id", h.DeleteProgram)
	}
}

func (h *Handler) CreateProgram(c *gin.Context) {
	var req model.CreateProgramRequest
	if err := handler.BindJSON(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	program, err := h.service.Create(c.Request.Context(), handler.Session(c), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, program)
}

// ListPrograms returns every program; ?active=true limits it to active ones.
func (h *Handler) ListPrograms(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	programs, err := h.service.List(c.Request.Context(), handler.Session(c), activeOnly)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, programs)
}

func (h *Handler) GetProgram(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	program, err := h.service.Get(c.Request.Context(), handler.Session(c), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, program)
}

func (h *Handler) UpdateProgram(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.UpdateProgramRequest
	if err := handler.BindJSON(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	program, err := h.service.Update(c.Request.Context(), handler.Session(c), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, program)
}

func (h *Handler) DeleteProgram(c *gin.Context) {
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
