package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/estatedesk/internal/domain"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type SavedFilterRepo interface {
	Create(ctx context.Context, f *domain.SavedFilter) error
	GetByName(ctx context.Context, entity, name string) (*domain.SavedFilter, error)
	ListByEntity(ctx context.Context, entity string) ([]*domain.SavedFilter, error)
	Update(ctx context.Context, f *domain.SavedFilter) error
	Delete(ctx context.Context, id string) error
}

type ExportLogRepo interface {
	Append(ctx context.Context, rec *domain.ExportRecord) error
	// List returns the newest records first. An empty entity lists all.
	List(ctx context.Context, entity string, limit int) ([]*domain.ExportRecord, error)
}
