package importer

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/alexanderramin/estatedesk/internal/cms"
	"github.com/alexanderramin/estatedesk/internal/notify"
)

type fakeEndpoint struct {
	calls  int
	result cms.ImportResult
	err    error
	delay  time.Duration
}

func (e *fakeEndpoint) Import(_ context.Context, _, _ string, r io.Reader) (cms.ImportResult, error) {
	e.calls++
	_, _ = io.ReadAll(r)
	time.Sleep(e.delay)
	return e.result, e.err
}

func intp(n int) *int { return &n }

func TestAccept(t *testing.T) {
	tests := []struct {
		name  string
		files []File
		err   error
	}{
		{"none", nil, ErrNoFile},
		{"two", []File{{Name: "a.csv"}, {Name: "b.csv"}}, ErrMultipleFiles},
		{"text", []File{{Name: "notes.txt", ContentType: "text/plain"}}, ErrNotAccepted},
		{"csv with wrong mime", []File{{Name: "a.csv", ContentType: "image/png"}}, ErrNotAccepted},
		{"csv", []File{{Name: "a.CSV", ContentType: "text/csv; charset=utf-8"}}, nil},
		{"xlsx", []File{{Name: "a.xlsx"}}, nil},
		{"xls", []File{{Name: "a.xls", ContentType: "application/vnd.ms-excel"}}, nil},
		{"unknown mime", []File{{Name: "a.xlsx", ContentType: "application/octet-stream"}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Accept(tt.files)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, f.ContentType)
		})
	}
}

func TestUpload_RejectedFileNeverReachesEndpoint(t *testing.T) {
	ep := &fakeEndpoint{}
	refreshed := false
	c := NewController(ep, "customer", nil)
	c.Refresh = func(context.Context) error { refreshed = true; return nil }

	_, err := c.Upload(context.Background(), []File{{Name: "notes.txt", Data: []byte("x")}})
	assert.ErrorIs(t, err, ErrNotAccepted)
	assert.Zero(t, ep.calls)
	assert.False(t, refreshed)
}

func TestUpload_ServerRejectionShowsMessageWithoutRefresh(t *testing.T) {
	ep := &fakeEndpoint{err: &cms.HTTPError{Status: 400, Message: "Invalid headers"}}
	rec := &notify.Recorder{}
	refreshed := false
	c := NewController(ep, "customer", rec)
	c.Refresh = func(context.Context) error { refreshed = true; return nil }

	_, err := c.Upload(context.Background(), []File{{Name: "customers.csv", ContentType: "text/csv", Data: []byte("a\n")}})
	require.Error(t, err)
	assert.Equal(t, 1, ep.calls)
	assert.Equal(t, []string{"Invalid headers"}, rec.Messages(notify.KindError))
	assert.False(t, refreshed)
}

func TestUpload_UnsuccessfulResultWithoutMessageFails(t *testing.T) {
	ep := &fakeEndpoint{result: cms.ImportResult{Success: false}}
	rec := &notify.Recorder{}
	refreshed := false
	var seen []int
	c := NewController(ep, "customer", rec)
	c.Refresh = func(context.Context) error { refreshed = true; return nil }
	c.OnProgress = func(p int) { seen = append(seen, p) }

	res, err := c.Upload(context.Background(), []File{{Name: "customers.csv", ContentType: "text/csv", Data: []byte("a\n")}})
	require.Error(t, err)
	assert.Empty(t, res.Summary)
	assert.Equal(t, []string{"Failed to import customer records. Please try again."}, rec.Messages(notify.KindError))
	assert.Empty(t, rec.Messages(notify.KindSuccess))
	assert.False(t, refreshed)
	assert.NotContains(t, seen, ProgressDone)
}

func TestUpload_UnsuccessfulResultShowsServerMessage(t *testing.T) {
	ep := &fakeEndpoint{result: cms.ImportResult{Success: false, Message: "Duplicate header row"}}
	rec := &notify.Recorder{}

	_, err := NewController(ep, "property", rec).Upload(context.Background(), []File{{Name: "units.csv"}})
	require.Error(t, err)
	assert.Equal(t, []string{"Duplicate header row"}, rec.Messages(notify.KindError))
}

func TestUpload_SuccessRefreshesAndReportsCounts(t *testing.T) {
	ep := &fakeEndpoint{
		result: cms.ImportResult{Success: true, Inserted: intp(8), SkippedDuplicates: intp(2), Total: intp(10)},
		delay:  30 * time.Millisecond,
	}
	rec := &notify.Recorder{}
	refreshes := 0

	var mu sync.Mutex
	var seen []int
	c := NewController(ep, "property", rec)
	c.Tick = 5 * time.Millisecond
	c.OnProgress = func(p int) {
		mu.Lock()
		seen = append(seen, p)
		mu.Unlock()
	}
	c.Refresh = func(context.Context) error { refreshes++; return nil }

	res, err := c.Upload(context.Background(), []File{{Name: "units.xlsx", Data: []byte("zip")}})
	require.NoError(t, err)
	assert.Equal(t, 1, refreshes)
	assert.Equal(t, "Imported 8 of 10 entries (2 duplicates skipped).", res.Summary)
	assert.Equal(t, []string{res.Summary}, rec.Messages(notify.KindSuccess))

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, seen)
	assert.Equal(t, ProgressDone, seen[len(seen)-1])
	for i := 1; i < len(seen); i++ {
		assert.GreaterOrEqual(t, seen[i], seen[i-1])
	}
	for _, p := range seen[:len(seen)-1] {
		assert.LessOrEqual(t, p, ProgressCeiling)
	}
}

func TestUpload_SuccessWithoutCounts(t *testing.T) {
	ep := &fakeEndpoint{result: cms.ImportResult{Success: true}}
	res, err := NewController(ep, "customer", nil).Upload(context.Background(), []File{{Name: "a.csv"}})
	require.NoError(t, err)
	assert.Equal(t, "Import completed successfully.", res.Summary)
}

func TestProgress_CapsBelowDone(t *testing.T) {
	var p Progress
	last := 0
	for range 20 {
		v := p.Advance()
		assert.GreaterOrEqual(t, v, last)
		last = v
	}
	assert.Equal(t, ProgressCeiling, last)
	assert.Equal(t, ProgressDone, p.Complete())
}

func TestPreviewFile(t *testing.T) {
	prev, err := PreviewFile(File{Name: "a.csv", Data: []byte("name,segment\nAcme,Customer\nBeta,Investor\n")})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "segment"}, prev.Headers)
	assert.Equal(t, 2, prev.Rows)

	book := excelize.NewFile()
	sheet := book.GetSheetName(0)
	require.NoError(t, book.SetSheetRow(sheet, "A1", &[]any{"projectName", "unitNumber"}))
	require.NoError(t, book.SetSheetRow(sheet, "A2", &[]any{"Marina", "1204"}))
	var buf bytes.Buffer
	require.NoError(t, book.Write(&buf))

	prev, err = PreviewFile(File{Name: "units.xlsx", Data: buf.Bytes()})
	require.NoError(t, err)
	assert.Equal(t, []string{"projectName", "unitNumber"}, prev.Headers)
	assert.Equal(t, 1, prev.Rows)
}
