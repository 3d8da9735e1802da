package listing

import "fmt"

// PageSizes are the sizes offered by the page-size selector.
var PageSizes = []int{5, 10, 20, 50}

const (
	// DefaultPageSize is used when no valid size is requested.
	DefaultPageSize = 10
	maxVisiblePages = 5
)

// Page describes one page of a filtered collection. Number is 1-based; First
// and Last are the 1-based positions of the displayed items.
type Page struct {
	Number     int
	Size       int
	Total      int
	TotalPages int
	First      int
	Last       int
}

// NormalizePageSize maps anything outside PageSizes to DefaultPageSize.
func NormalizePageSize(size int) int {
	for _, s := range PageSizes {
		if size == s {
			return size
		}
	}
	return DefaultPageSize
}

// Paginate computes page number of size over total items. Out of range page
// numbers are clamped.
func Paginate(total, number, size int) Page {
	size = NormalizePageSize(size)
	totalPages := (total + size - 1) / size

	if number > totalPages {
		number = totalPages
	}
	if number < 1 {
		number = 1
	}

	p := Page{Number: number, Size: size, Total: total, TotalPages: totalPages}
	if total > 0 {
		p.First = (number-1)*size + 1
		p.Last = min(number*size, total)
	}
	return p
}

// Bounds returns the slice bounds of the page.
func (p Page) Bounds() (start, end int) {
	if p.Total == 0 {
		return 0, 0
	}
	return p.First - 1, p.Last
}

// Summary is the range line shown above the table.
func (p Page) Summary() string {
	return fmt.Sprintf("Mostrando %d-%d de %d", p.First, p.Last, p.Total)
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a next page exists.
func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// Window returns up to five page numbers centred on the current page.
func (p Page) Window() []int {
	if p.TotalPages == 0 {
		return nil
	}
	start := max(1, p.Number-maxVisiblePages/2)
	end := min(p.TotalPages, start+maxVisiblePages-1)
	if end-start+1 < maxVisiblePages {
		start = max(1, end-maxVisiblePages+1)
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// Slice returns the items of page p.
func Slice[T any](items []T, p Page) []T {
	start, end := p.Bounds()
	if end > len(items) {
		end = len(items)
	}
	if start > end {
		start = end
	}
	return items[start:end]
}
