package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationNormalize(t *testing.T) {
	tests := []struct {
		name       string
		in         Pagination
		wantPage   int
		wantSize   int
		wantOffset int
	}{
		{"defaults", Pagination{}, 1, DefaultPageSize, 0},
		{"second page", Pagination{Page: 2, PageSize: 25}, 2, 25, 25},
		{"size capped", Pagination{Page: 1, PageSize: 1000}, 1, MaxPageSize, 0},
		{"huge page", Pagination{Page: math.MaxInt, PageSize: 10}, MaxPage, 10, (MaxPage - 1) * 10},
		{"huge page max size", Pagination{Page: math.MaxInt, PageSize: MaxPageSize}, MaxPage, MaxPageSize, (MaxPage - 1) * MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in.Normalize()
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantSize, p.PageSize)
			assert.Equal(t, tt.wantOffset, p.Offset())
			assert.GreaterOrEqual(t, p.Offset(), 0)
		})
	}
}
