package listview

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// SortOrder is the direction of a list sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Sort names the field and direction the list endpoint sorts by.
type Sort struct {
	Field string
	Order SortOrder
}

// DefaultSort is newest first.
var DefaultSort = Sort{Field: "createdAt", Order: SortDesc}

// Toggle returns the sort with its direction reversed.
func (s Sort) Toggle() Sort {
	if s.Order == SortAsc {
		s.Order = SortDesc
	} else {
		s.Order = SortAsc
	}
	return s
}

// PageRequest is the page window asked of the list endpoint.
type PageRequest struct {
	Page  int
	Limit int
}

// DateRangeKey is the filter key serialized as startDate/endDate.
const DateRangeKey = "date"

// Query parameter names shared by every list endpoint.
const (
	ParamPage      = "page"
	ParamLimit     = "limit"
	ParamSortBy    = "sortBy"
	ParamSortOrder = "sortOrder"
)

// timestampLayout is ISO-8601 with milliseconds.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// BuildQuery turns filters plus page and sort state into list query
// parameters. Fields that do not filter are omitted.
func BuildQuery(schema FilterSchema, filters FilterState, page PageRequest, sort Sort) url.Values {
	q := url.Values{}
	for _, f := range schema {
		if !filters.Active(f) {
			continue
		}
		v := filters[f.Key]
		switch f.Kind {
		case FieldText, FieldSelect:
			q.Set(f.Key, strings.TrimSpace(v.Text))
		case FieldMulti:
			for _, item := range nonEmpty(v.Multi) {
				q.Add(f.Key, item)
			}
		case FieldDateRange:
			startKey, endKey := dateKeys(f)
			start, end := v.Dates.Start, v.Dates.End
			if f.DayBounds {
				start, end = dayBounds(start, end)
			}
			if start != nil {
				q.Set(startKey, formatTimestamp(*start))
			}
			if end != nil {
				q.Set(endKey, formatTimestamp(*end))
			}
		case FieldNumberRange:
			lo, hi := effectiveBounds(f, v.Range)
			if lo != nil {
				q.Set(f.Key+"Min", formatNumber(*lo))
			}
			if hi != nil {
				q.Set(f.Key+"Max", formatNumber(*hi))
			}
		}
	}

	if page.Page < 1 {
		page.Page = 1
	}
	q.Set(ParamPage, strconv.Itoa(page.Page))
	if page.Limit > 0 {
		q.Set(ParamLimit, strconv.Itoa(page.Limit))
	}
	if sort.Field == "" {
		sort.Field = DefaultSort.Field
	}
	if sort.Order == "" {
		sort.Order = DefaultSort.Order
	}
	q.Set(ParamSortBy, sort.Field)
	q.Set(ParamSortOrder, string(sort.Order))
	return q
}

// WithDayBounds returns a schema copy where every date range is normalized
// to whole days. Exports always filter on whole days.
func (s FilterSchema) WithDayBounds() FilterSchema {
	out := make(FilterSchema, len(s))
	copy(out, s)
	for i := range out {
		if out[i].Kind == FieldDateRange {
			out[i].DayBounds = true
		}
	}
	return out
}

func dateKeys(f FilterField) (string, string) {
	if f.Key == DateRangeKey {
		return "startDate", "endDate"
	}
	return f.Key + "Start", f.Key + "End"
}

// dayBounds moves start to 00:00:00.000 and end to 23:59:59.999 of their
// own days.
func dayBounds(start, end *time.Time) (*time.Time, *time.Time) {
	if start != nil {
		s := *start
		t := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, s.Location())
		start = &t
	}
	if end != nil {
		e := *end
		t := time.Date(e.Year(), e.Month(), e.Day(), 23, 59, 59, int(999*time.Millisecond), e.Location())
		end = &t
	}
	return start, end
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
