package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/his-api/pkg/errors"
)

// Response wraps all action responses
type Response struct {
	Success bool              `json:"success"`
	Data    interface{}       `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Details map[string]string `json:"details,omitempty"`
	Meta    interface{}       `json:"meta,omitempty"`
}

// Pagination represents pagination metadata
type Pagination struct {
	Page        int    `json:"page"`
	PageSize    int    `json:"page_size"`
	HasNextPage bool   `json:"has_next_page"`
	Total       *int   `json:"total,omitempty"`
	TotalPages  *int   `json:"total_pages,omitempty"`
	Tier        string `json:"tier,omitempty"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithCreated sends a 201 success response
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithPagination sends a paginated response
func RespondWithPagination(c *gin.Context, data interface{}, meta Pagination) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

// RespondWithError sends an error response. Internal errors are logged and
// reported to the caller with a generic message.
func RespondWithError(c *gin.Context, err error) {
	appErr := errors.From(err)
	status := appErr.StatusCode()

	if status >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
	}

	c.AbortWithStatusJSON(status, Response{
		Success: false,
		Error:   appErr.Message,
		Details: appErr.Details,
	})
}

// APIError is the error body of the REST read API.
type APIError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RespondWithAPIError renders err in the REST error shape.
func RespondWithAPIError(c *gin.Context, err error) {
	appErr := errors.From(err)
	status := appErr.StatusCode()

	message := appErr.Message
	if status >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
		message = "An unexpected error occurred"
	}

	c.AbortWithStatusJSON(status, APIError{
		Error:   http.StatusText(status),
		Message: message,
	})
}
