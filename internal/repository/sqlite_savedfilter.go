package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/estatedesk/internal/db"
	"github.com/alexanderramin/estatedesk/internal/domain"
	"github.com/alexanderramin/estatedesk/internal/listview"
)

// SQLiteSavedFilterRepo implements SavedFilterRepo. Filter values are
// stored as a JSON document.
type SQLiteSavedFilterRepo struct {
	db db.DBTX
}

func NewSQLiteSavedFilterRepo(db db.DBTX) *SQLiteSavedFilterRepo {
	return &SQLiteSavedFilterRepo{db: db}
}

const savedFilterColumns = `id, entity, name, filters, sort_by, sort_order, created_at, updated_at`

func (r *SQLiteSavedFilterRepo) Create(ctx context.Context, f *domain.SavedFilter) error {
	filters, err := encodeFilters(f.Filters)
	if err != nil {
		return err
	}
	sortBy, sortOrder := sortColumns(f.Sort)
	query := `INSERT INTO saved_filters (` + savedFilterColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		f.ID, f.Entity, f.Name, filters, sortBy, sortOrder,
		formatTime(f.CreatedAt), formatTime(f.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting saved filter: %w", err)
	}
	return nil
}

func (r *SQLiteSavedFilterRepo) GetByName(ctx context.Context, entity, name string) (*domain.SavedFilter, error) {
	query := `SELECT ` + savedFilterColumns + ` FROM saved_filters WHERE entity = ? AND name = ? COLLATE NOCASE`
	f, err := scanSavedFilter(r.db.QueryRowContext(ctx, query, entity, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("saved filter %q: %w", name, ErrNotFound)
	}
	return f, err
}

func (r *SQLiteSavedFilterRepo) ListByEntity(ctx context.Context, entity string) ([]*domain.SavedFilter, error) {
	query := `SELECT ` + savedFilterColumns + ` FROM saved_filters WHERE entity = ? ORDER BY name COLLATE NOCASE`
	rows, err := r.db.QueryContext(ctx, query, entity)
	if err != nil {
		return nil, fmt.Errorf("listing saved filters: %w", err)
	}
	defer rows.Close()

	var out []*domain.SavedFilter
	for rows.Next() {
		f, err := scanSavedFilter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating saved filters: %w", err)
	}
	return out, nil
}

func (r *SQLiteSavedFilterRepo) Update(ctx context.Context, f *domain.SavedFilter) error {
	filters, err := encodeFilters(f.Filters)
	if err != nil {
		return err
	}
	sortBy, sortOrder := sortColumns(f.Sort)
	res, err := r.db.ExecContext(ctx,
		`UPDATE saved_filters SET name = ?, filters = ?, sort_by = ?, sort_order = ?, updated_at = ? WHERE id = ?`,
		f.Name, filters, sortBy, sortOrder, formatTime(f.UpdatedAt), f.ID,
	)
	if err != nil {
		return fmt.Errorf("updating saved filter: %w", err)
	}
	return expectOne(res, "saved filter", f.ID)
}

func (r *SQLiteSavedFilterRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM saved_filters WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting saved filter: %w", err)
	}
	return expectOne(res, "saved filter", id)
}

func scanSavedFilter(row rowScanner) (*domain.SavedFilter, error) {
	var (
		f                          domain.SavedFilter
		filters, sortBy, sortOrder string
		createdAtStr, updatedAtStr string
	)
	err := row.Scan(&f.ID, &f.Entity, &f.Name, &filters, &sortBy, &sortOrder, &createdAtStr, &updatedAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning saved filter: %w", err)
	}
	if err := json.Unmarshal([]byte(filters), &f.Filters); err != nil {
		return nil, fmt.Errorf("decoding saved filter %s: %w", f.ID, err)
	}
	f.Sort = listview.Sort{Field: sortBy, Order: listview.SortOrder(sortOrder)}
	if f.CreatedAt, err = parseTime("created_at", createdAtStr); err != nil {
		return nil, err
	}
	if f.UpdatedAt, err = parseTime("updated_at", updatedAtStr); err != nil {
		return nil, err
	}
	return &f, nil
}

func encodeFilters(fs listview.FilterState) (string, error) {
	if fs == nil {
		fs = listview.FilterState{}
	}
	b, err := json.Marshal(fs)
	if err != nil {
		return "", fmt.Errorf("encoding filters: %w", err)
	}
	return string(b), nil
}

func sortColumns(s listview.Sort) (string, string) {
	if s.Field == "" {
		s = listview.DefaultSort
	}
	if s.Order == "" {
		s.Order = listview.SortDesc
	}
	return s.Field, string(s.Order)
}

func expectOne(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking %s rows: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return nil
}
