// Package db opens the optional SQL backend of the token store and keeps it tidy.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/atinyakov/frus/internal/client/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS client_storage (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at BIGINT NOT NULL
);
`

// ParseDSN maps a token DSN to a database/sql driver name and source.
// postgres:// and postgresql:// DSNs go to lib/pq as-is; sqlite://<path>
// and file:<path> go to go-sqlite3.
func ParseDSN(dsn string) (driver, source string, dialect storage.Dialect, err error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres", dsn, storage.Postgres, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return "sqlite3", strings.TrimPrefix(dsn, "sqlite://"), storage.SQLite, nil
	case strings.HasPrefix(dsn, "file:"):
		return "sqlite3", dsn, storage.SQLite, nil
	}
	return "", "", 0, fmt.Errorf("unsupported token DSN %q", dsn)
}

// Open connects to the database named by dsn and creates the schema.
func Open(dsn string) (*sql.DB, storage.Dialect, error) {
	driver, source, dialect, err := ParseDSN(dsn)
	if err != nil {
		return nil, 0, err
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, 0, fmt.Errorf("open %s: %w", driver, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, 0, fmt.Errorf("ping %s: %w", driver, err)
	}

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, 0, err
	}

	return db, dialect, nil
}

// InitSchema creates the client_storage table when missing.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
