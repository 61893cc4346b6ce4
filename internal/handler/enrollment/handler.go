package enrollment

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/his-api/internal/handler"
	"github.com/jwalitptl/his-api/internal/model"
	"github.com/jwalitptl/his-api/internal/service/enrollment"
	"github.com/jwalitptl/his-api/pkg/httputil"
)

type Handler struct {
	service enrollment.EnrollmentService
}

func NewHandler(service enrollment.EnrollmentService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	enrollments := r.Group("/enrollments")
	{
		enrollments.POST("", h.CreateEnrollment)
		enrollments.GET("", h.ListEnrollments)
	}
}

func (h *Handler) CreateEnrollment(c *gin.Context) {
	var req model.CreateEnrollmentRequest
	if err := handler.BindJSON(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	enrollment, err := h.service.Create(c.Request.Context(), handler.Session(c), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, enrollment)
}

// ListEnrollments requires ?client_id or ?program_id.
func (h *Handler) ListEnrollments(c *gin.Context) {
	params := model.EnrollmentListParams{
		Pagination: handler.PaginationFrom(c),
		ClientID:   c.Query("client_id"),
		ProgramID:  c.Query("program_id"),
	}

	enrollments, err := h.service.List(c.Request.Context(), handler.Session(c), params)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, enrollments)
}
