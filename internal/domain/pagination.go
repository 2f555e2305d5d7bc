package domain

// PaginationParams selects a page of a listing. Page is 1-based.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset returns the row offset for the page. Pages below 1 map to
// offset 0.
func (p PaginationParams) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}
