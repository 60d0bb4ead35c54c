package util

import "strconv"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page describes one slice of a listing, 1-based.
type Page struct {
	Number int
	Size   int
	Total  int64
}

// ParsePage reads page and size query values, falling back to defaults on anything unusable.
func ParsePage(page, size string) Page {
	n, err := strconv.Atoi(page)
	if err != nil || n < 1 {
		n = 1
	}
	s, err := strconv.Atoi(size)
	if err != nil || s <= 0 || s > MaxPageSize {
		s = DefaultPageSize
	}
	return Page{Number: n, Size: s}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

func (p Page) Pages() int {
	if p.Total <= 0 {
		return 1
	}
	return int((p.Total + int64(p.Size) - 1) / int64(p.Size))
}

func (p Page) HasPrev() bool { return p.Number > 1 }

func (p Page) HasNext() bool { return p.Number < p.Pages() }

func (p Page) Prev() int { return p.Number - 1 }

func (p Page) Next() int { return p.Number + 1 }
