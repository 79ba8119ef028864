package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationParams(t *testing.T) {
	tests := []struct {
		name       string
		p          PaginationParams
		wantLimit  int
		wantOffset int
		wantPages  int
	}{
		{"zero value", PaginationParams{}, DefaultPageSize, 0, 3},
		{"third page", PaginationParams{Page: 3, PageSize: 10}, 10, 20, 5},
		{"oversized page", PaginationParams{Page: 2, PageSize: 1000}, MaxPageSize, MaxPageSize, 1},
		{"negative page", PaginationParams{Page: -4, PageSize: 5}, 5, 0, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantLimit, tt.p.Limit())
			assert.Equal(t, tt.wantOffset, tt.p.Offset())
			assert.Equal(t, tt.wantPages, tt.p.TotalPages(41))
		})
	}
	assert.Zero(t, PaginationParams{Page: 1, PageSize: 10}.TotalPages(0))
}
