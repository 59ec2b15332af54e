package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Dialect selects placeholder syntax for SQLTokenStore.
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

// SQLTokenStore keeps the token in the client_storage table.
type SQLTokenStore struct {
	// DB is the database handle for executing queries.
	DB      *sql.DB
	dialect Dialect
}

// NewSQLTokenStore creates a store over db. The schema is created by db.Open.
func NewSQLTokenStore(db *sql.DB, dialect Dialect) *SQLTokenStore {
	return &SQLTokenStore{DB: db, dialect: dialect}
}

func (s *SQLTokenStore) selectQuery() string {
	if s.dialect == SQLite {
		return `SELECT value FROM client_storage WHERE key = ?`
	}
	return `SELECT value FROM client_storage WHERE key = $1`
}

func (s *SQLTokenStore) upsertQuery() string {
	if s.dialect == SQLite {
		return `INSERT INTO client_storage (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	}
	return `INSERT INTO client_storage (key, value, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
}

func (s *SQLTokenStore) deleteQuery() string {
	if s.dialect == SQLite {
		return `DELETE FROM client_storage WHERE key = ?`
	}
	return `DELETE FROM client_storage WHERE key = $1`
}

// Token returns the stored token or ErrNoToken.
func (s *SQLTokenStore) Token(ctx context.Context) (string, error) {
	var token string
	err := s.DB.QueryRowContext(ctx, s.selectQuery(), TokenKey).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("select token: %w", err)
	}
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// SetToken inserts the token or replaces the stored one.
func (s *SQLTokenStore) SetToken(ctx context.Context, token string) error {
	if _, err := s.DB.ExecContext(ctx, s.upsertQuery(), TokenKey, token, time.Now().Unix()); err != nil {
		return fmt.Errorf("upsert token: %w", err)
	}
	return nil
}

// RemoveToken deletes the stored token.
func (s *SQLTokenStore) RemoveToken(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, s.deleteQuery(), TokenKey); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}
