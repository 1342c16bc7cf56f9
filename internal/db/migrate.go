package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent, so the
// whole set is re-run on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS saved_filters (
		id          TEXT PRIMARY KEY,
		entity      TEXT NOT NULL
		            CHECK(entity IN ('customers','master-developments','sub-developments','properties')),
		name        TEXT NOT NULL,
		filters     TEXT NOT NULL DEFAULT '{}',
		sort_by     TEXT NOT NULL DEFAULT 'createdAt',
		sort_order  TEXT NOT NULL DEFAULT 'desc'
		            CHECK(sort_order IN ('asc','desc')),
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_saved_filters_entity_name
		ON saved_filters(entity, name COLLATE NOCASE)`,

	`CREATE TABLE IF NOT EXISTS export_log (
		id           TEXT PRIMARY KEY,
		entity       TEXT NOT NULL,
		path         TEXT NOT NULL,
		format       TEXT NOT NULL CHECK(format IN ('csv','xlsx')),
		record_count INTEGER NOT NULL DEFAULT 0 CHECK(record_count >= 0),
		created_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_export_log_created ON export_log(created_at)`,

	// Added after the first release; older databases get the column here.
	`ALTER TABLE export_log ADD COLUMN with_filters INTEGER NOT NULL DEFAULT 0`,
}
