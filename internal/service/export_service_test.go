package service

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/estatedesk/internal/cms"
	"github.com/alexanderramin/estatedesk/internal/domain"
	"github.com/alexanderramin/estatedesk/internal/listview"
	"github.com/alexanderramin/estatedesk/internal/testutil"
)

func TestExportService_ExportWritesFileAndHistory(t *testing.T) {
	fake := newFakeCMS(t)
	for _, c := range testutil.Customers(12) {
		fake.Seed("customers", c)
	}
	_, exports, _ := setupStore(t)
	history := NewExportLogService(exports)
	dir := t.TempDir()

	exporter := &listview.Exporter[domain.Customer]{
		Entity:  domain.CustomersEntity.Name,
		Fetcher: customerService(fake),
		Schema:  domain.CustomerFilters,
		Fields:  domain.CustomerExportFields,
		Format:  listview.FormatCSV,
		Dir:     dir,
		Now:     func() time.Time { return time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC) },
	}
	svc := NewExportService(exporter, domain.CustomersEntity, history)
	ctx := context.Background()

	res, err := svc.Export(ctx, listview.ExportRequest{WithFilters: true, Filters: investorState(), Cap: 50})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "customers_export_2024-07-01.csv"), res.Path)
	assert.Equal(t, 2, res.Count)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Customer Name,"))

	calls := fake.Requests(http.MethodGet, "/customers")
	require.Len(t, calls, 1)
	assert.Equal(t, "1", calls[0].Query.Get("page"))
	assert.Equal(t, "50", calls[0].Query.Get("limit"))

	log, err := history.History(ctx, "customers", 10)
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.Equal(t, res.Path, log[0].Path)
	assert.Equal(t, 2, log[0].Count)
	assert.True(t, log[0].WithFilters)
}

func TestExportService_FailureRecordsNothing(t *testing.T) {
	fake := newFakeCMS(t)
	fake.FailNext(http.MethodGet, "/customers", http.StatusInternalServerError, map[string]string{"message": "boom"})
	_, exports, _ := setupStore(t)
	history := NewExportLogService(exports)
	obs := &recordingObserver{}

	exporter := &listview.Exporter[domain.Customer]{
		Entity:  "customers",
		Fetcher: customerService(fake),
		Fields:  domain.CustomerExportFields,
		Dir:     t.TempDir(),
	}
	_, err := NewExportService(exporter, domain.CustomersEntity, history, obs).Export(context.Background(), listview.ExportRequest{})
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, cms.StatusOf(err))

	log, err := history.History(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Empty(t, log)
	assert.False(t, obs.last().Success)
}
