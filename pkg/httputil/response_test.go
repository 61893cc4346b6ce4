package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/his-api/pkg/errors"
)

func render(fn func(*gin.Context)) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	fn(c)
	return w
}

func TestRespondWithError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"validation", errors.Validation(map[string]string{"email": "is required"}), http.StatusBadRequest,
			`{"success":false,"error":"validation failed","details":{"email":"is required"}}`},
		{"not found", errors.NotFound("client", nil), http.StatusNotFound,
			`{"success":false,"error":"client not found"}`},
		{"plain error is internal", assert.AnError, http.StatusInternalServerError,
			`{"success":false,"error":"internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := render(func(c *gin.Context) { RespondWithError(c, tt.err) })
			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}

func TestRespondWithAPIError(t *testing.T) {
	w := render(func(c *gin.Context) { RespondWithAPIError(c, errors.Unauthorized("Invalid API key")) })
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized","message":"Invalid API key"}`, w.Body.String())

	w = render(func(c *gin.Context) { RespondWithAPIError(c, errors.Internal(assert.AnError)) })
	assert.JSONEq(t, `{"error":"Internal Server Error","message":"An unexpected error occurred"}`, w.Body.String())
}

func TestRespondWithPagination(t *testing.T) {
	total := 3
	w := render(func(c *gin.Context) {
		RespondWithPagination(c, []int{1, 2}, Pagination{Page: 1, PageSize: 2, HasNextPage: true, Total: &total})
	})
	assert.JSONEq(t, `{"success":true,"data":[1,2],"meta":{"page":1,"page_size":2,"has_next_page":true,"total":3}}`, w.Body.String())
}
