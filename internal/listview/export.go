package listview

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"github.com/xuri/excelize/v2"

	"github.com/alexanderramin/estatedesk/internal/notify"
)

// MaxExportRecords is the hard ceiling on records fetched for one export.
const MaxExportRecords = 1000

// Export notification texts.
const (
	ExportPreparingMessage = "Preparing export..."
	ExportFailedMessage    = "Failed to export records. Please try again."
)

// ErrNothingSelected is returned by ExportSelection when no row is selected.
var ErrNothingSelected = errors.New("no rows selected")

// Format is the file format of an export.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ExportField is one output column: a header label and the scalar
// representation of a record for it.
type ExportField[R any] struct {
	Key   string
	Label string
	Value func(R) string
}

// ExportRequest selects what is exported.
type ExportRequest struct {
	// WithFilters reuses Filters and Sort. Otherwise the export covers every
	// record under the default sort.
	WithFilters bool
	Cap         int
	Filters     FilterState
	Sort        Sort
}

// ExportResult describes a written export file.
type ExportResult struct {
	Path        string
	Count       int
	WithFilters bool
	Format      Format
}

// Exporter re-fetches a list up to a cap and writes it to a file.
type Exporter[R any] struct {
	Entity   string
	Fetcher  Fetcher[R]
	Schema   FilterSchema
	Fields   []ExportField[R]
	Format   Format
	Dir      string
	Notifier notify.Notifier

	// Now is the clock used for the filename. Defaults to time.Now.
	Now func() time.Time
}

// Export fetches at most the clamped cap of records in one request,
// serializes them, and writes the file. Nothing is written when the fetch
// or the encoding fails.
func (e *Exporter[R]) Export(ctx context.Context, req ExportRequest) (ExportResult, error) {
	n := notify.OrDiscard(e.Notifier)
	id := notify.NewID()
	n.Notify(notify.Notification{ID: id, Kind: notify.KindLoading, Message: ExportPreparingMessage})

	res, err := e.export(ctx, req)
	if err != nil {
		n.Notify(notify.Notification{ID: id, Kind: notify.KindError, Message: ExportFailedMessage})
		return ExportResult{}, err
	}
	n.Notify(notify.Notification{
		ID:      id,
		Kind:    notify.KindSuccess,
		Message: fmt.Sprintf("Exported %d records to %s", res.Count, res.Path),
	})
	return res, nil
}

func (e *Exporter[R]) export(ctx context.Context, req ExportRequest) (ExportResult, error) {
	limit := ClampCap(req.Cap)
	filters, sort := FilterState{}, DefaultSort
	if req.WithFilters {
		filters = req.Filters.Clean(e.Schema)
		if req.Sort.Field != "" {
			sort = req.Sort
		}
	}
	q := BuildQuery(e.Schema.WithDayBounds(), filters, PageRequest{Page: 1, Limit: limit}, sort)
	page, err := e.Fetcher.List(ctx, q)
	if err != nil {
		return ExportResult{}, fmt.Errorf("fetch %s export: %w", e.Entity, err)
	}
	rows := page.Data
	if len(rows) > limit {
		rows = rows[:limit]
	}

	path, err := e.write(rows, e.Fields)
	if err != nil {
		return ExportResult{}, err
	}
	return ExportResult{Path: path, Count: len(rows), WithFilters: req.WithFilters, Format: e.format()}, nil
}

// ExportSelection writes the given rows restricted to the selected column
// keys. With no column keys every field is written.
func (e *Exporter[R]) ExportSelection(rows []R, columnKeys []string) (ExportResult, error) {
	n := notify.OrDiscard(e.Notifier)
	if len(rows) == 0 {
		notify.Info(n, "Select at least one row to export.")
		return ExportResult{}, ErrNothingSelected
	}
	fields := e.Fields
	if len(columnKeys) > 0 {
		fields = nil
		for _, f := range e.Fields {
			if slices.Contains(columnKeys, f.Key) {
				fields = append(fields, f)
			}
		}
	}
	path, err := e.write(rows, fields)
	if err != nil {
		notify.Error(n, ExportFailedMessage)
		return ExportResult{}, err
	}
	notify.Success(n, fmt.Sprintf("Exported %d records to %s", len(rows), path))
	return ExportResult{Path: path, Count: len(rows), WithFilters: true, Format: e.format()}, nil
}

func (e *Exporter[R]) write(rows []R, fields []ExportField[R]) (string, error) {
	data, err := Encode(e.format(), fields, rows)
	if err != nil {
		return "", fmt.Errorf("encode %s export: %w", e.Entity, err)
	}
	path, err := freePath(filepath.Join(e.Dir, e.Filename()))
	if err != nil {
		return "", err
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// Filename returns <entity>_export_<YYYY-MM-DD>.<ext> for today. The file
// actually written gets a numeric suffix when that name is taken.
func (e *Exporter[R]) Filename() string {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	return fmt.Sprintf("%s_export_%s.%s", e.Entity, now().Format(time.DateOnly), e.format())
}

// freePath returns path, or path with a _2, _3, ... suffix before the
// extension when an earlier export already took the name.
func freePath(path string) (string, error) {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for n := 1; ; n++ {
		candidate := path
		if n > 1 {
			candidate = fmt.Sprintf("%s_%d%s", base, n, ext)
		}
		_, err := os.Stat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", candidate, err)
		}
	}
}

func (e *Exporter[R]) format() Format {
	if e.Format == "" {
		return FormatCSV
	}
	return e.Format
}

// ClampCap bounds a requested record cap to [1, MaxExportRecords]. Zero or
// negative means the maximum.
func ClampCap(n int) int {
	if n <= 0 || n > MaxExportRecords {
		return MaxExportRecords
	}
	return n
}

// Encode serializes rows as a header row of labels followed by one row per
// record.
func Encode[R any](format Format, fields []ExportField[R], rows []R) ([]byte, error) {
	table := make([][]string, 0, len(rows)+1)
	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = f.Label
	}
	table = append(table, header)
	for _, r := range rows {
		line := make([]string, len(fields))
		for i, f := range fields {
			line[i] = f.Value(r)
		}
		table = append(table, line)
	}

	switch format {
	case FormatCSV, "":
		return encodeCSV(table)
	case FormatXLSX:
		return encodeXLSX(table)
	}
	return nil, fmt.Errorf("unsupported export format %q", format)
}

func encodeCSV(table [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(table); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeXLSX(table [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, line := range table {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		values := make([]any, len(line))
		for j, v := range line {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, err
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
