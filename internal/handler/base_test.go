package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/his-api/internal/model"
)

func paginationFor(target string) model.Pagination {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return PaginationFrom(c)
}

func TestPaginationFrom(t *testing.T) {
	p := paginationFor("/api/clients?page=3&pageSize=20")
	assert.Equal(t, model.Pagination{Page: 3, PageSize: 20}, p)

	p = paginationFor("/api/v1/clients?page=abc&page_size=-1")
	assert.Equal(t, model.Pagination{Page: 1, PageSize: model.DefaultPageSize}, p)
}

func TestPaginationFromHugePageKeepsOffsetPositive(t *testing.T) {
	p := paginationFor("/api/clients?page=9223372036854775807&pageSize=10")

	assert.Equal(t, model.MaxPage, p.Page)
	assert.Greater(t, p.Offset(), 0)
}
