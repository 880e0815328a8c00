// internal/data/pagination.go
package data

import "math"

// Page size limits applied when normalising client-supplied filters.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Filters holds pagination parameters extracted from URL query strings.
type Filters struct {
	Page     int // Current page number (1-indexed)
	PageSize int // Number of records per page
}

// Normalize clamps raw client values into the accepted range:
// page < 1 becomes 1, pageSize < 1 becomes DefaultPageSize and
// pageSize > MaxPageSize becomes MaxPageSize.
func (f Filters) Normalize() Filters {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	return f
}

// Page is one window over an ordered result set plus the metadata that
// describes the whole set.
type Page[T any] struct {
	Page            int  `json:"page"`
	PageSize        int  `json:"pageSize"`
	TotalCount      int  `json:"totalCount"`
	TotalPages      int  `json:"totalPages"`
	HasPreviousPage bool `json:"hasPreviousPage"`
	HasNextPage     bool `json:"hasNextPage"`
	Items           []T  `json:"items"`
}

// Paginate slices items according to f, which must already be normalised.
// Counts are taken from the full set; a page past the end yields no items
// but still reports the totals.
func Paginate[T any](items []T, f Filters) Page[T] {
	total := len(items)
	totalPages := int(math.Ceil(float64(total) / float64(f.PageSize)))

	window := []T{}
	// (f.Page-1) is compared before multiplying so huge page numbers cannot overflow.
	if f.Page-1 <= total/f.PageSize {
		skip := (f.Page - 1) * f.PageSize
		if skip < total {
			end := min(skip+f.PageSize, total)
			window = items[skip:end]
		}
	}

	return Page[T]{
		Page:            f.Page,
		PageSize:        f.PageSize,
		TotalCount:      total,
		TotalPages:      totalPages,
		HasPreviousPage: f.Page > 1,
		HasNextPage:     f.Page < totalPages,
		Items:           window,
	}
}
