package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/estatedesk/internal/listview"
)

// HumanTimestamp renders t relative to now for recent times and as a date
// otherwise.
func HumanTimestamp(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < 0:
		return t.Local().Format("Jan 2, 2006 15:04")
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	}
	return t.Local().Format("Jan 2, 2006 15:04")
}

// PageSummary renders "Page 2 of 3 · 25 records · 10 per page".
func PageSummary(p listview.Pagination) string {
	pages := max(p.TotalPages, 1)
	noun := "records"
	if p.TotalCount == 1 {
		noun = "record"
	}
	return fmt.Sprintf("Page %d of %d · %d %s · %d per page", p.PageNumber, pages, p.TotalCount, noun, p.Limit)
}

// FilterSummary renders the filtering fields of fs as "Label: value"
// pairs in schema order. It returns "" when nothing filters.
func FilterSummary(schema listview.FilterSchema, fs listview.FilterState) string {
	var parts []string
	for _, f := range schema {
		if !fs.Active(f) {
			continue
		}
		parts = append(parts, f.Label+": "+FilterValue(f, fs[f.Key]))
	}
	return strings.Join(parts, "  ")
}

// FilterValue renders one filter value for display.
func FilterValue(f listview.FilterField, v listview.FilterValue) string {
	switch f.Kind {
	case listview.FieldMulti:
		return strings.Join(v.Multi, ", ")
	case listview.FieldNumberRange:
		lo, hi := "", ""
		if v.Range.Min != nil {
			lo = trimFloat(*v.Range.Min)
		}
		if v.Range.Max != nil {
			hi = trimFloat(*v.Range.Max)
		}
		switch {
		case lo != "" && hi != "":
			return lo + "–" + hi
		case lo != "":
			return "≥ " + lo
		case hi != "":
			return "≤ " + hi
		}
		return ""
	case listview.FieldDateRange:
		lo, hi := "…", "…"
		if v.Dates.Start != nil {
			lo = v.Dates.Start.Format(time.DateOnly)
		}
		if v.Dates.End != nil {
			hi = v.Dates.End.Format(time.DateOnly)
		}
		return lo + " → " + hi
	}
	return strings.TrimSpace(v.Text)
}

func trimFloat(f float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".")
}
