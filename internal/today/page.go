package today

// PageSize is the number of tasks shown per section page.
const PageSize = 5

// Page is a window over a section. Number is 1-based.
type Page[T any] struct {
	Items   []T
	Number  int
	Pages   int
	HasPrev bool
	HasNext bool
}

// PageCount returns how many pages total items span; at least one.
func PageCount(total, size int) int {
	if size <= 0 {
		size = PageSize
	}
	if total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Paginate returns page number of items, clamping out-of-range numbers.
func Paginate[T any](items []T, number, size int) Page[T] {
	if size <= 0 {
		size = PageSize
	}
	pages := PageCount(len(items), size)
	if number < 1 {
		number = 1
	}
	if number > pages {
		number = pages
	}
	start := (number - 1) * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return Page[T]{
		Items:   items[start:end],
		Number:  number,
		Pages:   pages,
		HasPrev: number > 1,
		HasNext: end < len(items),
	}
}
