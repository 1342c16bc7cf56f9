package listview

import (
	"context"
	"errors"
	"net/url"
	"slices"
	"strconv"
	"sync"

	"github.com/alexanderramin/estatedesk/internal/notify"
)

// FetchFailedMessage is shown when a list refresh fails.
const FetchFailedMessage = "Failed to fetch records. Please try again."

// ErrSuperseded is returned for a response that arrived after a newer
// request was issued. Its result was discarded.
var ErrSuperseded = errors.New("list response superseded by a newer request")

// Page is one normalized page of a list endpoint.
type Page[R any] struct {
	Data       []R
	Total      int
	Page       int
	TotalPages int
}

// Fetcher performs the list call for one entity.
type Fetcher[R any] interface {
	List(ctx context.Context, q url.Values) (Page[R], error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc[R any] func(ctx context.Context, q url.Values) (Page[R], error)

func (f FetcherFunc[R]) List(ctx context.Context, q url.Values) (Page[R], error) {
	return f(ctx, q)
}

// Snapshot is a consistent copy of a controller's visible state.
type Snapshot[R any] struct {
	Rows       []R
	Pagination Pagination
	Filters    FilterState
	Sort       Sort
	Loading    bool
	Err        error
	Loaded     bool
}

// CanPrev reports whether the previous page can be requested. Paging is
// disabled while a request is in flight.
func (s Snapshot[R]) CanPrev() bool { return !s.Loading && s.Pagination.HasPrev() }

// CanNext reports whether the next page can be requested.
func (s Snapshot[R]) CanNext() bool { return !s.Loading && s.Pagination.HasNext() }

// Controller drives one server-side list: applied filters, sort, page
// window, and the rows of the current page. It is safe for concurrent use.
// Only the response to the most recently issued request updates state.
type Controller[R any] struct {
	fetcher  Fetcher[R]
	schema   FilterSchema
	notifier notify.Notifier

	mu      sync.Mutex
	applied FilterState
	sort    Sort
	page    Pagination
	rows    []R
	loading bool
	loaded  bool
	err     error
	seq     uint64
}

// NewController returns a controller with empty filters and the default
// sort. Nothing is fetched until ApplyFilters or Reload is called.
func NewController[R any](fetcher Fetcher[R], schema FilterSchema, limit int, notifier notify.Notifier) *Controller[R] {
	return &Controller[R]{
		fetcher:  fetcher,
		schema:   schema,
		notifier: notify.OrDiscard(notifier),
		applied:  NewFilterState(schema),
		sort:     DefaultSort,
		page:     NewPagination(limit),
	}
}

// Schema returns the filter schema.
func (c *Controller[R]) Schema() FilterSchema { return c.schema }

// Snapshot returns a copy of the current state.
func (c *Controller[R]) Snapshot() Snapshot[R] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot[R]{
		Rows:       slices.Clone(c.rows),
		Pagination: c.page,
		Filters:    c.applied.Clone(),
		Sort:       c.sort,
		Loading:    c.loading,
		Err:        c.err,
		Loaded:     c.loaded,
	}
}

// Loading reports whether a request is in flight.
func (c *Controller[R]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// ApplyFilters fetches page 1 with filters, which become the applied
// filters once the fetch succeeds.
func (c *Controller[R]) ApplyFilters(ctx context.Context, filters FilterState) error {
	c.mu.Lock()
	limit, sort := c.page.Limit, c.sort
	c.mu.Unlock()
	return c.fetch(ctx, filters.Clone(), 1, limit, sort)
}

// GoTo fetches page with the applied filters. Out-of-range pages are a
// no-op and return false.
func (c *Controller[R]) GoTo(ctx context.Context, page int) (bool, error) {
	c.mu.Lock()
	if !c.page.InRange(page) {
		c.mu.Unlock()
		return false, nil
	}
	filters, limit, sort := c.applied.Clone(), c.page.Limit, c.sort
	c.mu.Unlock()
	return true, c.fetch(ctx, filters, page, limit, sort)
}

// Next moves one page forward when possible.
func (c *Controller[R]) Next(ctx context.Context) (bool, error) {
	c.mu.Lock()
	target := c.page.PageNumber + 1
	c.mu.Unlock()
	return c.GoTo(ctx, target)
}

// Prev moves one page back when possible.
func (c *Controller[R]) Prev(ctx context.Context) (bool, error) {
	c.mu.Lock()
	target := c.page.PageNumber - 1
	c.mu.Unlock()
	return c.GoTo(ctx, target)
}

// SubmitManualPage handles a typed page number. It returns the text the
// page input should show afterwards: the current page when the input is
// rejected, otherwise the requested page.
func (c *Controller[R]) SubmitManualPage(ctx context.Context, input string) (string, bool, error) {
	c.mu.Lock()
	p := c.page
	c.mu.Unlock()
	n, ok := p.ParsePage(input)
	if !ok {
		return strconv.Itoa(p.PageNumber), false, nil
	}
	fetched, err := c.GoTo(ctx, n)
	return strconv.Itoa(n), fetched, err
}

// SetLimit changes the page size and refetches from page 1.
func (c *Controller[R]) SetLimit(ctx context.Context, limit int) error {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	c.mu.Lock()
	filters, sort := c.applied.Clone(), c.sort
	c.mu.Unlock()
	return c.fetch(ctx, filters, 1, limit, sort)
}

// SetSort changes the sort and refetches from page 1.
func (c *Controller[R]) SetSort(ctx context.Context, sort Sort) error {
	c.mu.Lock()
	filters, limit := c.applied.Clone(), c.page.Limit
	c.mu.Unlock()
	return c.fetch(ctx, filters, 1, limit, sort)
}

// Reload refetches the current page with the applied filters.
func (c *Controller[R]) Reload(ctx context.Context) error {
	c.mu.Lock()
	filters, page, limit, sort := c.applied.Clone(), c.page.PageNumber, c.page.Limit, c.sort
	c.mu.Unlock()
	return c.fetch(ctx, filters, page, limit, sort)
}

func (c *Controller[R]) fetch(ctx context.Context, filters FilterState, page, limit int, sort Sort) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.loading = true
	q := BuildQuery(c.schema, filters, PageRequest{Page: page, Limit: limit}, sort)
	c.mu.Unlock()

	res, err := c.fetcher.List(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		return ErrSuperseded
	}
	c.loading = false
	if err != nil {
		c.err = err
		if !errors.Is(err, context.Canceled) {
			notify.Error(c.notifier, FetchFailedMessage)
		}
		return err
	}

	c.err = nil
	c.loaded = true
	c.rows = slices.Clone(res.Data)
	c.applied = filters
	c.sort = sort
	c.page.Limit = limit
	serverPage := res.Page
	if serverPage == 0 {
		serverPage = page
	}
	totalPages := res.TotalPages
	if totalPages == 0 {
		totalPages = TotalPagesFor(res.Total, limit)
	}
	c.page.apply(res.Total, serverPage, totalPages)
	return nil
}
