// Package repository persists applications, their stored document files, and
// scan jobs in SQLite. modernc.org/sqlite is pure Go, so the binary
// cross-compiles without CGO; WAL mode keeps the single-writer model safe
// under the scan worker pool.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS application (
	id           TEXT PRIMARY KEY,
	full_name    TEXT NOT NULL,
	email        TEXT NOT NULL,
	institution  TEXT NOT NULL,
	course       TEXT NOT NULL,
	intake_year  INTEGER NOT NULL,
	submitted_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS application_document (
	application_id TEXT NOT NULL REFERENCES application(id) ON DELETE CASCADE,
	slot           TEXT NOT NULL,
	file_name      TEXT NOT NULL,
	path           TEXT NOT NULL,
	size_bytes     INTEGER NOT NULL,
	uploaded_at    TIMESTAMP NOT NULL,
	PRIMARY KEY (application_id, slot)
);

CREATE TABLE IF NOT EXISTS scan_job (
	id             TEXT PRIMARY KEY,
	application_id TEXT NOT NULL REFERENCES application(id) ON DELETE CASCADE,
	status         TEXT NOT NULL,
	report         TEXT NOT NULL DEFAULT '',
	score          INTEGER NOT NULL DEFAULT 0,
	criteria_met   INTEGER NOT NULL DEFAULT 0,
	max_score      INTEGER NOT NULL DEFAULT 0,
	total_slots    INTEGER NOT NULL DEFAULT 0,
	error          TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMP NOT NULL,
	finished_at    TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_scan_job_application ON scan_job(application_id, created_at);
`

// Open opens (creating if necessary) the database at path and applies the
// schema.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)",
		url.PathEscape(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}
