package helpers

import (
	"fmt"
	"net/http"
	"strconv"

	"churchevents/internal/domain"
)

// ParsePagination reads page and page_size from the query string.
// Absent values take the defaults, page_size above domain.MaxPageSize is clamped,
// and anything that is not a positive integer is rejected with domain.ErrInvalidInput.
func ParsePagination(r *http.Request) (domain.PaginationParams, error) {
	q := r.URL.Query()
	p := domain.PaginationParams{Page: 1, PageSize: domain.DefaultPageSize}
	for _, field := range []struct {
		name string
		dst  *int
	}{{"page", &p.Page}, {"page_size", &p.PageSize}} {
		raw := q.Get(field.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return domain.PaginationParams{}, fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, field.name)
		}
		*field.dst = v
	}
	p.PageSize = p.Limit()
	return p, nil
}

// PaginationMeta accompanies every paginated list response.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func NewPaginationMeta(p domain.PaginationParams, total int) PaginationMeta {
	return PaginationMeta{
		Page:       p.Page,
		PageSize:   p.Limit(),
		Total:      total,
		TotalPages: p.TotalPages(total),
	}
}
