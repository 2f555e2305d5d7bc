package helpers

import (
	"net/http"
	"strconv"

	"eventhub/internal/domain"
)

// Pagination query parameter defaults and limits.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ParsePagination reads page and page_size from the request query string
// and returns domain.PaginationParams. Missing or invalid values fall
// back to the defaults; page_size is capped at MaxPageSize.
func ParsePagination(r *http.Request) domain.PaginationParams {
	page := queryInt(r, "page", DefaultPage)
	size := queryInt(r, "page_size", DefaultPageSize)
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return domain.PaginationParams{Page: page, PageSize: size}
}

// queryInt parses a positive integer query parameter, returning def on
// absent, malformed, or non-positive input.
func queryInt(r *http.Request, key string, def int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return def
	}
	return v
}

// PaginationMeta is the pagination metadata included in paginated list responses.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPaginationMeta builds PaginationMeta from the current page, page
// size, and total count. TotalPages rounds up; a zero pageSize yields
// zero TotalPages.
func NewPaginationMeta(page, pageSize, total int) PaginationMeta {
	meta := PaginationMeta{Page: page, PageSize: pageSize, Total: total}
	if pageSize > 0 {
		meta.TotalPages = (total + pageSize - 1) / pageSize
	}
	return meta
}
