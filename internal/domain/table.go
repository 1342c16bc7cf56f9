package domain

import (
	"strings"
	"time"

	"github.com/alexanderramin/estatedesk/internal/listview"
)

func col[R any](key, label string, value func(R) string) listview.Column[R] {
	return listview.Column[R]{ColumnDescriptor: listview.ColumnDescriptor{Key: key, Label: label}, Value: value}
}

func field[R any](key, label string, value func(R) string) listview.ExportField[R] {
	return listview.ExportField[R]{Key: key, Label: label, Value: value}
}

func joinPlain(values []string) string { return strings.Join(values, "; ") }

func timestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func number(f float64) string {
	if f == 0 {
		return "0"
	}
	return Number(f)
}
