// Package pagination slices an ordered sequence into fixed-size pages.
package pagination

// DefaultPageSize is the number of cards shown per page.
const DefaultPageSize = 3

// Page is one page of an ordered sequence plus its position metadata.
type Page[T any] struct {
	Items      []T  `json:"items" msgpack:"items"`
	Page       int  `json:"page" msgpack:"page"`
	PageSize   int  `json:"pageSize" msgpack:"pageSize"`
	Total      int  `json:"total" msgpack:"total"`
	TotalPages int  `json:"totalPages" msgpack:"totalPages"`
	HasPrev    bool `json:"hasPrev" msgpack:"hasPrev"`
	HasNext    bool `json:"hasNext" msgpack:"hasNext"`
}

// TotalPages returns ceil(total/pageSize), never less than 1.
func TotalPages(total, pageSize int) int {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// Clamp limits page to [1, TotalPages(total, pageSize)].
func Clamp(page, total, pageSize int) int {
	if page < 1 {
		return 1
	}
	if last := TotalPages(total, pageSize); page > last {
		return last
	}
	return page
}

// Paginate returns items[(page-1)*pageSize : page*pageSize]. The page is
// clamped first so a page invalidated by a shrinking sequence renders the last
// page instead of nothing. A pageSize below 1 uses DefaultPageSize.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	total := len(items)
	page = Clamp(page, total, pageSize)
	pages := TotalPages(total, pageSize)

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	out := make([]T, end-start)
	copy(out, items[start:end])

	return Page[T]{
		Items:      out,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: pages,
		HasPrev:    page > 1,
		HasNext:    page < pages,
	}
}

// All returns every page of items in order.
func All[T any](items []T, pageSize int) []Page[T] {
	pages := TotalPages(len(items), pageSize)
	out := make([]Page[T], 0, pages)
	for p := 1; p <= pages; p++ {
		out = append(out, Paginate(items, p, pageSize))
	}
	return out
}
