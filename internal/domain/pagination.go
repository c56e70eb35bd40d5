package domain

// PaginationParams selects one page of a list query. Page is 1-based.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Limit returns the LIMIT value for the query, never less than 1.
func (p PaginationParams) Limit() int {
	if p.PageSize < 1 {
		return 1
	}
	return p.PageSize
}

// Offset returns the 0-based row offset for the current page.
func (p PaginationParams) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}
