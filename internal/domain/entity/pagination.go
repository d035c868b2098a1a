package entity

// PageRequest selects a 1-based page of a listing.
type PageRequest struct {
	Page     int
	PageSize int
}

// Normalize fills in a sane page and the given default size.
func (p PageRequest) Normalize(defaultSize int) PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultSize
	}

	return p
}

// Offset returns the number of rows to skip.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Page is one page of results plus the total row count.
type Page[T any] struct {
	Items    []T
	Total    int64
	Page     int
	PageSize int
}

// TotalPages returns the number of pages needed for Total rows.
func (p Page[T]) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}

	return int((p.Total + int64(p.PageSize) - 1) / int64(p.PageSize))
}
