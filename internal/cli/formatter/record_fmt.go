package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/estatedesk/internal/domain"
	"github.com/alexanderramin/estatedesk/internal/listview"
)

// Field is one label/value line of a record detail.
type Field struct {
	Label string
	Value string
}

// RenderRecord renders a record as aligned "Label  value" lines.
func RenderRecord(fields []Field) string {
	width := 0
	for _, f := range fields {
		width = max(width, lipgloss.Width(f.Label))
	}
	var b strings.Builder
	for _, f := range fields {
		pad := strings.Repeat(" ", width-lipgloss.Width(f.Label))
		value := f.Value
		if value == "" {
			value = Dim("-")
		}
		fmt.Fprintf(&b, "%s%s  %s\n", StyleDim.Render(f.Label), pad, value)
	}
	return b.String()
}

// RenderSavedFilters lists saved filter sets with their active fields.
func RenderSavedFilters(sets []*domain.SavedFilter, schema listview.FilterSchema, now time.Time) string {
	if len(sets) == 0 {
		return Dim("No saved filters.") + "\n"
	}
	rows := make([][]string, len(sets))
	for i, s := range sets {
		summary := FilterSummary(schema, s.Filters)
		if summary == "" {
			summary = Dim("(no filters)")
		}
		rows[i] = []string{
			StyleBold.Render(s.Name),
			summary,
			s.Sort.Field + " " + string(s.Sort.Order),
			HumanTimestamp(s.UpdatedAt, now),
		}
	}
	return RenderTable([]string{"Name", "Filters", "Sort", "Updated"}, rows)
}

// RenderExportHistory lists export log entries, newest first.
func RenderExportHistory(records []*domain.ExportRecord, now time.Time) string {
	if len(records) == 0 {
		return Dim("No exports yet.") + "\n"
	}
	rows := make([][]string, len(records))
	for i, r := range records {
		scope := "all records"
		if r.WithFilters {
			scope = "filtered"
		}
		rows[i] = []string{
			HumanTimestamp(r.CreatedAt, now),
			r.Entity,
			strings.ToUpper(r.Format),
			strconv.Itoa(r.Count),
			scope,
			Dim(r.Path),
		}
	}
	return RenderTable([]string{"When", "Entity", "Format", "Records", "Scope", "File"}, rows)
}
