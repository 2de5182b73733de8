// Package pagination windows ordered collections into pages.
package pagination

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 50

	// MaxPage keeps Offset well inside int range on every platform.
	MaxPage = 1_000_000
)

// Params is a 1-based page request.
type Params struct {
	Page     int
	PageSize int
}

// Clamp normalises raw query values: page to [1, MaxPage] and pageSize to
// [1, MaxPageSize]. Zero values fall back to the defaults.
func Clamp(page, pageSize int) Params {
	if page == 0 {
		page = DefaultPage
	}
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Params{Page: page, PageSize: pageSize}
}

// Offset is the number of items skipped before the page starts.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func (p Params) Limit() int {
	return p.PageSize
}

// TotalPages returns ceil(totalCount / pageSize), and 0 for an empty collection.
func TotalPages(totalCount, pageSize int) int {
	if totalCount <= 0 || pageSize <= 0 {
		return 0
	}
	return (totalCount + pageSize - 1) / pageSize
}

// Page is one window of a filtered, ordered collection.
type Page[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

// NewPage wraps a window that was already cut by the store.
func NewPage[T any](items []T, totalCount int, p Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		TotalCount: totalCount,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: TotalPages(totalCount, p.PageSize),
	}
}

// Paginate cuts the requested window out of items, which must already be
// filtered and ordered. Params are used as given.
func Paginate[T any](items []T, p Params) Page[T] {
	total := len(items)
	start := p.Offset()
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := start + p.Limit()
	if end > total || end < start {
		end = total
	}

	window := make([]T, end-start)
	copy(window, items[start:end])
	return NewPage(window, total, p)
}

// Map converts the items of a page, keeping its metadata.
func Map[T, U any](page Page[T], fn func(T) U) Page[U] {
	out := make([]U, len(page.Items))
	for i, item := range page.Items {
		out[i] = fn(item)
	}
	return Page[U]{
		Items:      out,
		TotalCount: page.TotalCount,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}
