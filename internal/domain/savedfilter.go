package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/estatedesk/internal/listview"
)

// ErrSavedFilterName is returned for a blank saved filter name.
var ErrSavedFilterName = errors.New("saved filter name is required")

// SavedFilter is a named filter set a staff member can re-apply to an
// entity's list. Names are unique per entity.
type SavedFilter struct {
	ID        string
	Entity    string
	Name      string
	Filters   listview.FilterState
	Sort      listview.Sort
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSavedFilter stores only the filtering entries of fs.
func NewSavedFilter(entity Entity, name string, schema listview.FilterSchema, fs listview.FilterState, sort listview.Sort) (*SavedFilter, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrSavedFilterName
	}
	now := time.Now().UTC()
	return &SavedFilter{
		ID:        uuid.New().String(),
		Entity:    entity.Name,
		Name:      name,
		Filters:   fs.Clean(schema),
		Sort:      sort,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Apply returns the saved values laid over the schema's defaults.
func (f *SavedFilter) Apply(schema listview.FilterSchema) listview.FilterState {
	fs := listview.NewFilterState(schema)
	for key, v := range f.Filters.Clone() {
		if _, ok := schema.Field(key); ok {
			fs[key] = v
		}
	}
	return fs
}

// ExportRecord is one entry of the local export history.
type ExportRecord struct {
	ID          string
	Entity      string
	Path        string
	Format      string
	Count       int
	WithFilters bool
	CreatedAt   time.Time
}

// NewExportRecord stamps an export result.
func NewExportRecord(entity Entity, res listview.ExportResult) *ExportRecord {
	return &ExportRecord{
		ID:          uuid.New().String(),
		Entity:      entity.Name,
		Path:        res.Path,
		Format:      string(res.Format),
		Count:       res.Count,
		WithFilters: res.WithFilters,
		CreatedAt:   time.Now().UTC(),
	}
}
