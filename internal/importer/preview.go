package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Preview summarizes a file before upload.
type Preview struct {
	Headers []string
	Rows    int
}

// PreviewFile reads the header row and counts data rows. Legacy .xls files
// cannot be parsed locally and return an empty preview.
func PreviewFile(f File) (Preview, error) {
	switch f.Ext() {
	case ".csv":
		r := csv.NewReader(bytes.NewReader(f.Data))
		r.FieldsPerRecord = -1
		records, err := r.ReadAll()
		if err != nil {
			return Preview{}, fmt.Errorf("reading %s: %w", f.Name, err)
		}
		return previewOf(records), nil
	case ".xlsx":
		book, err := excelize.OpenReader(bytes.NewReader(f.Data))
		if err != nil {
			return Preview{}, fmt.Errorf("opening %s: %w", f.Name, err)
		}
		defer book.Close()
		rows, err := book.GetRows(book.GetSheetName(0))
		if err != nil {
			return Preview{}, fmt.Errorf("reading %s: %w", f.Name, err)
		}
		return previewOf(rows), nil
	}
	return Preview{}, nil
}

func previewOf(records [][]string) Preview {
	if len(records) == 0 {
		return Preview{}
	}
	return Preview{Headers: records[0], Rows: len(records) - 1}
}
