package search

// Page is one slice of a ranked list.
type Page[T any] struct {
	Items   []T `json:"items"`
	Page    int `json:"page"`
	Pages   int `json:"pages"`
	Total   int `json:"total"`
	PerPage int `json:"perPage"`
}

// Paginate returns the requested page of items. Out-of-range pages resolve to
// the nearest valid page and perPage <= 0 is treated as 1.
func Paginate[T any](items []T, page, perPage int) Page[T] {
	if perPage <= 0 {
		perPage = 1
	}
	total := len(items)
	pages := max(1, (total+perPage-1)/perPage)
	page = min(max(page, 1), pages)

	start := (page - 1) * perPage
	end := min(start+perPage, total)

	out := make([]T, end-start)
	copy(out, items[start:end])

	return Page[T]{
		Items:   out,
		Page:    page,
		Pages:   pages,
		Total:   total,
		PerPage: perPage,
	}
}
