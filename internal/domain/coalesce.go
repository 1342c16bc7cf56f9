package domain

import (
	"strconv"
	"strings"
	"time"
)

// Empty is what a table cell shows for a missing value.
const Empty = "-"

// Dash returns s, or Empty when s is blank.
func Dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return Empty
	}
	return s
}

// Join renders a list as a comma separated cell.
func Join(values []string) string {
	return Dash(strings.Join(values, ", "))
}

// Number renders a float without trailing zeros. Zero renders as Empty.
func Number(f float64) string {
	if f == 0 {
		return Empty
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Count renders a list length, used where exports summarize arrays.
func Count[T any](values []T) string {
	return strconv.Itoa(len(values))
}

// Day renders a timestamp as a calendar date.
func Day(t *time.Time) string {
	if t == nil || t.IsZero() {
		return Empty
	}
	return t.Format(time.DateOnly)
}
