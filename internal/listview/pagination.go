package listview

import (
	"strconv"
	"strings"
)

// DefaultPageSize is used when no page size is configured.
const DefaultPageSize = 10

// Pagination is the page window of a list as last reported by the server.
type Pagination struct {
	TotalCount int
	TotalPages int
	PageNumber int
	Limit      int
}

// NewPagination returns the state before the first fetch.
func NewPagination(limit int) Pagination {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return Pagination{PageNumber: 1, Limit: limit}
}

// InRange reports whether page can be navigated to.
func (p Pagination) InRange(page int) bool {
	return page >= 1 && page <= p.TotalPages
}

// HasPrev reports whether a previous page exists.
func (p Pagination) HasPrev() bool { return p.PageNumber > 1 }

// HasNext reports whether a next page exists.
func (p Pagination) HasNext() bool { return p.PageNumber < p.TotalPages }

// ParsePage parses manual page entry. It returns false when the input is not
// an integer or is out of range.
func (p Pagination) ParsePage(input string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || !p.InRange(n) {
		return 0, false
	}
	return n, true
}

// apply replaces the window from a server response, keeping the page
// number within [1, max(TotalPages,1)].
func (p *Pagination) apply(total, page, totalPages int) {
	p.TotalCount = total
	p.TotalPages = totalPages
	if page < 1 {
		page = 1
	}
	if upper := max(totalPages, 1); page > upper {
		page = upper
	}
	p.PageNumber = page
}

// TotalPagesFor derives a page count from a total and page size.
func TotalPagesFor(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
