package helpers

import (
	"net/http"
	"strconv"

	"eventhubconnect/internal/domain"
)

// Pagination query parameter defaults and limits.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func intQuery(r *http.Request, key, fallback string) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		s = fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

// ParsePagination reads ?page and ?page_size, clamping both to sane ranges.
// Garbage values fall back to the defaults rather than erroring.
func ParsePagination(r *http.Request) domain.PaginationParams {
	page := intQuery(r, "page", "1")
	if page < 1 {
		page = DefaultPage
	}
	size := intQuery(r, "page_size", strconv.Itoa(DefaultPageSize))
	switch {
	case size < 1:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}
	return domain.PaginationParams{Page: page, PageSize: size}
}

// PaginationMeta is the paging block attached to list responses.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPaginationMeta computes TotalPages as ceil(total/pageSize).
func NewPaginationMeta(page, pageSize, total int) PaginationMeta {
	meta := PaginationMeta{Page: page, PageSize: pageSize, Total: total}
	if pageSize > 0 {
		meta.TotalPages = (total + pageSize - 1) / pageSize
	}
	return meta
}
