package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/estatedesk/internal/db"
	"github.com/alexanderramin/estatedesk/internal/domain"
)

// SQLiteExportLogRepo implements ExportLogRepo.
type SQLiteExportLogRepo struct {
	db db.DBTX
}

func NewSQLiteExportLogRepo(db db.DBTX) *SQLiteExportLogRepo {
	return &SQLiteExportLogRepo{db: db}
}

func (r *SQLiteExportLogRepo) Append(ctx context.Context, rec *domain.ExportRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO export_log (id, entity, path, format, record_count, with_filters, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Entity, rec.Path, rec.Format, rec.Count, boolToInt(rec.WithFilters), formatTime(rec.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting export record: %w", err)
	}
	return nil
}

func (r *SQLiteExportLogRepo) List(ctx context.Context, entity string, limit int) ([]*domain.ExportRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT id, entity, path, format, record_count, with_filters, created_at FROM export_log
		WHERE (? = '' OR entity = ?) ORDER BY created_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, entity, entity, limit)
	if err != nil {
		return nil, fmt.Errorf("listing export log: %w", err)
	}
	defer rows.Close()

	var out []*domain.ExportRecord
	for rows.Next() {
		var (
			rec          domain.ExportRecord
			withFilters  int
			createdAtStr string
		)
		if err := rows.Scan(&rec.ID, &rec.Entity, &rec.Path, &rec.Format, &rec.Count, &withFilters, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning export record: %w", err)
		}
		rec.WithFilters = withFilters != 0
		if rec.CreatedAt, err = parseTime("created_at", createdAtStr); err != nil {
			return nil, err
		}
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating export log: %w", err)
	}
	return out, nil
}
