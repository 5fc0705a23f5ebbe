package pagination

import "math"

const (
	// DefaultPageSize matches the dashboard tables.
	DefaultPageSize = 20
	// MaxPageSize caps how many rows a single page may carry.
	MaxPageSize = 100
)

// Params holds page-number pagination inputs from controllers or services.
type Params struct {
	Page     int
	PageSize int
}

// Page is one slice of a listing plus the numbers a table needs to render pagers.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// NormalizePageSize enforces the default and maximum page sizes.
func NormalizePageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// TotalPages returns the number of pages needed for total items, never less than one.
func TotalPages(total, size int) int {
	size = NormalizePageSize(size)
	if total <= 0 {
		return 1
	}
	return int(math.Ceil(float64(total) / float64(size)))
}

// Paginate returns the requested page of items. Out-of-range pages clamp to
// the nearest valid page.
func Paginate[T any](items []T, params Params) Page[T] {
	size := NormalizePageSize(params.PageSize)
	pages := TotalPages(len(items), size)

	page := params.Page
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * size
	end := start + size
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	out := make([]T, end-start)
	copy(out, items[start:end])
	return Page[T]{
		Items:      out,
		Page:       page,
		PageSize:   size,
		TotalItems: len(items),
		TotalPages: pages,
	}
}
