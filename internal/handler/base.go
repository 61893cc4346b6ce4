package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/his-api/internal/middleware"
	"github.com/jwalitptl/his-api/internal/model"
	"github.com/jwalitptl/his-api/pkg/errors"
)

// Session returns the caller's session, or nil.
func Session(c *gin.Context) *model.Session {
	return middleware.SessionFrom(c)
}

// ParseID reads a UUID path parameter.
func ParseID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, errors.Validation(map[string]string{name: "must be a valid id"})
	}
	return id, nil
}

// BindJSON decodes the request body into dst. Field rules are checked by
// the services, not here.
func BindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return errors.BadRequest("invalid request body", err)
	}
	return nil
}

// QueryInt reads an integer query parameter, falling back to def when it is
// absent or malformed.
func QueryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return v
}

// PaginationFrom reads page and page size. Both the snake and camel case
// spellings of the size parameter are accepted.
func PaginationFrom(c *gin.Context) model.Pagination {
	size := QueryInt(c, "page_size", 0)
	if size == 0 {
		size = QueryInt(c, "pageSize", 0)
	}
	return model.Pagination{
		Page:     QueryInt(c, "page", 1),
		PageSize: size,
	}.Normalize()
}
