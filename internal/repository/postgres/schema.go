package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the prefixed tables and indexes if they do not exist.
// seq columns keep insertion order, which the in-memory stores rely on after a reload.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				seq         BIGSERIAL,
				id          TEXT PRIMARY KEY,
				name        TEXT NOT NULL CHECK (length(trim(name)) > 0),
				parent_id   TEXT REFERENCES %s(id),
				is_expanded BOOLEAN NOT NULL DEFAULT FALSE,
				created_at  TIMESTAMPTZ NOT NULL,
				updated_at  TIMESTAMPTZ NOT NULL
			)`, tables.Folders, tables.Folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_parent ON %s(parent_id)`, tables.Folders, tables.Folders),

		// folder_id is a weak reference: no foreign key
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				seq         BIGSERIAL,
				id          TEXT PRIMARY KEY,
				name        TEXT NOT NULL,
				size        BIGINT NOT NULL CHECK (size >= 0),
				type        TEXT NOT NULL,
				status      TEXT NOT NULL CHECK (status IN ('uploading', 'completed', 'failed')),
				progress    INTEGER NOT NULL CHECK (progress BETWEEN 0 AND 100),
				folder_id   TEXT,
				url         TEXT NOT NULL DEFAULT '',
				uploaded_at TIMESTAMPTZ NOT NULL
			)`, tables.Items),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_folder ON %s(folder_id)`, tables.Items, tables.Items),

		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				seq        BIGSERIAL,
				id         TEXT PRIMARY KEY,
				folder_id  TEXT,
				start_time TIMESTAMPTZ NOT NULL,
				end_time   TIMESTAMPTZ,
				completed  BOOLEAN NOT NULL DEFAULT FALSE,
				total      INTEGER NOT NULL DEFAULT 0,
				stored     INTEGER NOT NULL DEFAULT 0,
				rejected   INTEGER NOT NULL DEFAULT 0,
				failed     INTEGER NOT NULL DEFAULT 0
			)`, tables.UploadSessions),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// DropAll drops every prefixed table
func DropAll(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	all := tables.All()
	for i := len(all) - 1; i >= 0; i-- {
		if _, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", all[i])); err != nil {
			return fmt.Errorf("drop %s: %w", all[i], err)
		}
	}
	return nil
}
