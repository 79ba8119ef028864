package domain

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PaginationParams selects one window of a list. Page is 1-based.
// Zero or negative values fall back to the first page at DefaultPageSize.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Limit is the clamped page size used in LIMIT clauses.
func (p PaginationParams) Limit() int {
	switch {
	case p.PageSize < 1:
		return DefaultPageSize
	case p.PageSize > MaxPageSize:
		return MaxPageSize
	}
	return p.PageSize
}

func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}

// TotalPages is ceil(total / Limit()).
func (p PaginationParams) TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + p.Limit() - 1) / p.Limit()
}
