package listview

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/estatedesk/internal/notify"
)

type row struct {
	ID      string
	Segment string
}

// memFetcher serves rows from memory, honoring page, limit and an exact
// match on "segment".
type memFetcher struct {
	mu    sync.Mutex
	rows  []row
	calls []url.Values
	err   error
}

func newMemFetcher(n int) *memFetcher {
	f := &memFetcher{}
	for i := 1; i <= n; i++ {
		seg := "Customer"
		if i%5 == 0 {
			seg = "Investor"
		}
		f.rows = append(f.rows, row{ID: strconv.Itoa(i), Segment: seg})
	}
	return f
}

func (f *memFetcher) List(_ context.Context, q url.Values) (Page[row], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, q)
	if f.err != nil {
		return Page[row]{}, f.err
	}
	var matched []row
	for _, r := range f.rows {
		if seg := q.Get("segment"); seg != "" && r.Segment != seg {
			continue
		}
		matched = append(matched, r)
	}
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	lo := min((page-1)*limit, len(matched))
	hi := min(lo+limit, len(matched))
	return Page[row]{Data: matched[lo:hi], Total: len(matched), Page: page}, nil
}

func (f *memFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

var segmentSchema = FilterSchema{
	{Key: "segment", Label: "Segment", Kind: FieldSelect, Options: []string{"Customer", "Investor"}},
}

func ids(rows []row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func TestController_ApplyFiltersThenPaginate(t *testing.T) {
	f := newMemFetcher(25)
	c := NewController[row](f, segmentSchema, 10, nil)
	ctx := context.Background()

	fs := NewFilterState(segmentSchema)
	fs.SetText("segment", "Customer")
	require.NoError(t, c.ApplyFilters(ctx, fs))

	snap := c.Snapshot()
	assert.Equal(t, 1, snap.Pagination.PageNumber)
	assert.Equal(t, 20, snap.Pagination.TotalCount)
	assert.Equal(t, 2, snap.Pagination.TotalPages)
	for _, r := range snap.Rows {
		assert.Equal(t, "Customer", r.Segment)
	}

	moved, err := c.GoTo(ctx, 2)
	require.NoError(t, err)
	assert.True(t, moved)

	snap = c.Snapshot()
	assert.Equal(t, 2, snap.Pagination.PageNumber)
	// Records 11-20 of the filtered set; every fifth id is an Investor.
	assert.Equal(t, []string{"13", "14", "16", "17", "18", "19", "21", "22", "23", "24"}, ids(snap.Rows))
	assert.Equal(t, "Customer", f.calls[len(f.calls)-1].Get("segment"))
}

func TestController_GoToOutOfRangeIsNoop(t *testing.T) {
	f := newMemFetcher(25)
	c := NewController[row](f, segmentSchema, 10, nil)
	ctx := context.Background()
	require.NoError(t, c.ApplyFilters(ctx, NewFilterState(segmentSchema)))

	before := c.Snapshot()
	calls := f.callCount()

	for _, p := range []int{0, -1, before.Pagination.TotalPages + 1} {
		moved, err := c.GoTo(ctx, p)
		require.NoError(t, err)
		assert.False(t, moved, "page %d", p)
	}

	assert.Equal(t, calls, f.callCount())
	assert.Equal(t, before, c.Snapshot())
}

func TestController_NextPrev(t *testing.T) {
	f := newMemFetcher(25)
	c := NewController[row](f, segmentSchema, 10, nil)
	ctx := context.Background()
	require.NoError(t, c.ApplyFilters(ctx, NewFilterState(segmentSchema)))

	moved, err := c.Prev(ctx)
	require.NoError(t, err)
	assert.False(t, moved)

	for range 2 {
		moved, err = c.Next(ctx)
		require.NoError(t, err)
		assert.True(t, moved)
	}
	moved, _ = c.Next(ctx)
	assert.False(t, moved)
	assert.Equal(t, 3, c.Snapshot().Pagination.PageNumber)
	assert.Len(t, c.Snapshot().Rows, 5)
}

func TestSnapshot_PagingDisabledWhileLoading(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	inner := newMemFetcher(25)
	var block bool
	fetch := FetcherFunc[row](func(ctx context.Context, q url.Values) (Page[row], error) {
		if block {
			started <- struct{}{}
			<-release
		}
		return inner.List(ctx, q)
	})
	c := NewController[row](fetch, segmentSchema, 10, nil)
	ctx := context.Background()
	require.NoError(t, c.Reload(ctx))

	snap := c.Snapshot()
	assert.False(t, snap.CanPrev())
	assert.True(t, snap.CanNext())

	_, err := c.Next(ctx)
	require.NoError(t, err)
	snap = c.Snapshot()
	assert.True(t, snap.CanPrev())
	assert.True(t, snap.CanNext())

	block = true
	done := make(chan error, 1)
	go func() { _, err := c.Next(ctx); done <- err }()
	<-started

	snap = c.Snapshot()
	assert.True(t, snap.Loading)
	assert.True(t, snap.Pagination.HasPrev())
	assert.False(t, snap.CanPrev())
	assert.False(t, snap.CanNext())

	close(release)
	require.NoError(t, <-done)
	snap = c.Snapshot()
	assert.Equal(t, 3, snap.Pagination.PageNumber)
	assert.True(t, snap.CanPrev())
	assert.False(t, snap.CanNext())
}

func TestController_SubmitManualPage(t *testing.T) {
	f := newMemFetcher(25)
	c := NewController[row](f, segmentSchema, 10, nil)
	ctx := context.Background()
	require.NoError(t, c.ApplyFilters(ctx, NewFilterState(segmentSchema)))
	calls := f.callCount()

	shown, fetched, err := c.SubmitManualPage(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "1", shown)
	assert.False(t, fetched)

	shown, fetched, _ = c.SubmitManualPage(ctx, "9")
	assert.Equal(t, "1", shown)
	assert.False(t, fetched)
	assert.Equal(t, calls, f.callCount())

	shown, fetched, err = c.SubmitManualPage(ctx, " 3 ")
	require.NoError(t, err)
	assert.Equal(t, "3", shown)
	assert.True(t, fetched)
	assert.Equal(t, 3, c.Snapshot().Pagination.PageNumber)
}

func TestController_SetLimitResetsToFirstPage(t *testing.T) {
	f := newMemFetcher(25)
	c := NewController[row](f, segmentSchema, 10, nil)
	ctx := context.Background()
	require.NoError(t, c.ApplyFilters(ctx, NewFilterState(segmentSchema)))
	_, err := c.GoTo(ctx, 3)
	require.NoError(t, err)

	require.NoError(t, c.SetLimit(ctx, 25))
	snap := c.Snapshot()
	assert.Equal(t, 1, snap.Pagination.PageNumber)
	assert.Equal(t, 25, snap.Pagination.Limit)
	assert.Equal(t, 1, snap.Pagination.TotalPages)
	assert.Len(t, snap.Rows, 25)
}

func TestController_FailureKeepsRowsAndNotifies(t *testing.T) {
	f := newMemFetcher(25)
	rec := &notify.Recorder{}
	c := NewController[row](f, segmentSchema, 10, rec)
	ctx := context.Background()
	require.NoError(t, c.ApplyFilters(ctx, NewFilterState(segmentSchema)))
	before := c.Snapshot().Rows

	f.err = errors.New("boom")
	err := c.Reload(ctx)
	require.Error(t, err)

	snap := c.Snapshot()
	assert.Equal(t, before, snap.Rows)
	assert.False(t, snap.Loading)
	assert.Error(t, snap.Err)
	assert.Equal(t, []string{FetchFailedMessage}, rec.Messages(notify.KindError))
}

func TestController_CanceledFetchIsNotAnnounced(t *testing.T) {
	rec := &notify.Recorder{}
	fetch := FetcherFunc[row](func(ctx context.Context, _ url.Values) (Page[row], error) {
		return Page[row]{}, ctx.Err()
	})
	c := NewController[row](fetch, segmentSchema, 10, rec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := c.Reload(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rec.All())
}

func TestController_StaleResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	fetch := FetcherFunc[row](func(_ context.Context, q url.Values) (Page[row], error) {
		if q.Get("segment") == "Investor" {
			close(started)
			<-release
			return Page[row]{Data: []row{{ID: "slow"}}, Total: 1, Page: 1}, nil
		}
		return Page[row]{Data: []row{{ID: "fast"}}, Total: 1, Page: 1}, nil
	})
	c := NewController[row](fetch, segmentSchema, 10, nil)
	ctx := context.Background()

	slow := NewFilterState(segmentSchema)
	slow.SetText("segment", "Investor")
	done := make(chan error, 1)
	go func() { done <- c.ApplyFilters(ctx, slow) }()
	<-started

	require.NoError(t, c.ApplyFilters(ctx, NewFilterState(segmentSchema)))
	close(release)
	assert.ErrorIs(t, <-done, ErrSuperseded)

	snap := c.Snapshot()
	assert.Equal(t, []string{"fast"}, ids(snap.Rows))
	assert.False(t, snap.Filters.Active(segmentSchema[0]))
}

func TestController_DerivesTotalPagesWhenAbsent(t *testing.T) {
	fetch := FetcherFunc[row](func(_ context.Context, _ url.Values) (Page[row], error) {
		return Page[row]{Data: []row{{ID: "a"}}, Total: 31}, nil
	})
	c := NewController[row](fetch, nil, 10, nil)
	require.NoError(t, c.Reload(context.Background()))

	p := c.Snapshot().Pagination
	assert.Equal(t, 4, p.TotalPages)
	assert.Equal(t, 1, p.PageNumber)
}

func TestPagination_PageClampedToWindow(t *testing.T) {
	p := NewPagination(0)
	assert.Equal(t, DefaultPageSize, p.Limit)

	p.apply(0, 3, 0)
	assert.Equal(t, 1, p.PageNumber)
	assert.False(t, p.HasNext())
	assert.False(t, p.HasPrev())

	p.apply(50, 9, 5)
	assert.Equal(t, 5, p.PageNumber)
	assert.True(t, p.HasPrev())
}
