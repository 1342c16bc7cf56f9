package service

import (
	"context"
	"io"
	"net/url"

	"github.com/alexanderramin/estatedesk/internal/cms"
	"github.com/alexanderramin/estatedesk/internal/domain"
	"github.com/alexanderramin/estatedesk/internal/listview"
)

// RecordService is the use-case surface of one CMS collection.
type RecordService[R any] interface {
	Entity() domain.Entity
	List(ctx context.Context, q url.Values) (listview.Page[R], error)
	Get(ctx context.Context, id string) (R, error)
	Create(ctx context.Context, payload map[string]any) (R, error)
	Update(ctx context.Context, id string, diff map[string]any) (R, error)
	Delete(ctx context.Context, id string) error
	Import(ctx context.Context, filename, contentType string, content io.Reader) (cms.ImportResult, error)
}

type SavedFilterService interface {
	// Save stores the filtering entries of fs under name, replacing an
	// existing set with the same name.
	Save(ctx context.Context, entity domain.Entity, name string, schema listview.FilterSchema, fs listview.FilterState, sort listview.Sort) (*domain.SavedFilter, error)
	Get(ctx context.Context, entity domain.Entity, name string) (*domain.SavedFilter, error)
	List(ctx context.Context, entity domain.Entity) ([]*domain.SavedFilter, error)
	Delete(ctx context.Context, entity domain.Entity, name string) error
}

type ExportLogService interface {
	Record(ctx context.Context, entity domain.Entity, res listview.ExportResult) error
	History(ctx context.Context, entity string, limit int) ([]*domain.ExportRecord, error)
}

// SubDevelopmentCustomers edits the customers assigned to a
// sub-development. The bool result reports whether a PATCH was sent.
type SubDevelopmentCustomers interface {
	Add(ctx context.Context, subDevelopmentID, customerID string) (domain.SubDevelopment, bool, error)
	Remove(ctx context.Context, subDevelopmentID, customerID string) (domain.SubDevelopment, bool, error)
}
