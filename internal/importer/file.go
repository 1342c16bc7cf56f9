// Package importer uploads spreadsheet and CSV files to a collection's
// import endpoint.
package importer

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var (
	// ErrNoFile indicates nothing was dropped.
	ErrNoFile = errors.New("no file selected")

	// ErrMultipleFiles indicates more than one file was dropped.
	ErrMultipleFiles = errors.New("only one file can be imported at a time")

	// ErrNotAccepted indicates a file type other than CSV or spreadsheet.
	ErrNotAccepted = errors.New("only .csv, .xlsx and .xls files can be imported")
)

// acceptedTypes maps each accepted extension to the MIME types it may
// arrive with.
var acceptedTypes = map[string][]string{
	".csv":  {"text/csv", "application/csv", "text/comma-separated-values", "application/vnd.ms-excel"},
	".xlsx": {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
	".xls":  {"application/vnd.ms-excel"},
}

// File is one candidate upload.
type File struct {
	Name string
	// ContentType is the declared MIME type. Empty means unknown.
	ContentType string
	Data        []byte
}

// Ext returns the lower-cased extension.
func (f File) Ext() string { return strings.ToLower(filepath.Ext(f.Name)) }

// LoadFile reads a file from disk, deriving its content type from the
// extension.
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	f := File{Name: filepath.Base(path), Data: data}
	f.ContentType = contentTypeFor(f.Ext())
	return f, nil
}

// Accept checks that exactly one acceptable file was given and returns it.
func Accept(files []File) (File, error) {
	switch len(files) {
	case 0:
		return File{}, ErrNoFile
	case 1:
	default:
		return File{}, ErrMultipleFiles
	}
	f := files[0]
	types, ok := acceptedTypes[f.Ext()]
	if !ok {
		return File{}, fmt.Errorf("%w: %s", ErrNotAccepted, f.Name)
	}
	if ct := baseType(f.ContentType); ct != "" && ct != "application/octet-stream" && !slices.Contains(types, ct) {
		return File{}, fmt.Errorf("%w: %s has type %s", ErrNotAccepted, f.Name, ct)
	}
	if f.ContentType == "" {
		f.ContentType = types[0]
	}
	return f, nil
}

func contentTypeFor(ext string) string {
	if types, ok := acceptedTypes[ext]; ok {
		return types[0]
	}
	return mime.TypeByExtension(ext)
}

func baseType(ct string) string {
	if ct == "" {
		return ""
	}
	t, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.ToLower(ct)
	}
	return t
}
