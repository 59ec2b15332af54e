package db_test

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/atinyakov/frus/internal/client/storage"
	"github.com/atinyakov/frus/internal/db"
)

func TestParseDSN(t *testing.T) {
	cases := []struct {
		dsn         string
		wantDriver  string
		wantSource  string
		wantDialect storage.Dialect
	}{
		{"postgres://u:p@localhost/frus", "postgres", "postgres://u:p@localhost/frus", storage.Postgres},
		{"postgresql://localhost/frus", "postgres", "postgresql://localhost/frus", storage.Postgres},
		{"sqlite:///tmp/frus.db", "sqlite3", "/tmp/frus.db", storage.SQLite},
		{"file:frus.db?cache=shared", "sqlite3", "file:frus.db?cache=shared", storage.SQLite},
	}
	for _, tc := range cases {
		driver, source, dialect, err := db.ParseDSN(tc.dsn)
		if err != nil {
			t.Fatalf("ParseDSN(%q) error: %v", tc.dsn, err)
		}
		if driver != tc.wantDriver || source != tc.wantSource || dialect != tc.wantDialect {
			t.Errorf("ParseDSN(%q) = %q, %q, %v; want %q, %q, %v",
				tc.dsn, driver, source, dialect, tc.wantDriver, tc.wantSource, tc.wantDialect)
		}
	}
}

func TestOpen_ErrorPaths(t *testing.T) {
	cases := []struct {
		name       string
		dsn        string
		wantSubstr string
	}{
		{"unsupported scheme", "mysql://localhost/frus", "unsupported token DSN"},
		{"empty DSN", "", "unsupported token DSN"},
		{"unreachable postgres", "postgres://u@127.0.0.1:1/frus?sslmode=disable&connect_timeout=1", "ping postgres"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := db.Open(tc.dsn)
			if err == nil {
				t.Fatalf("Open(%q) did not return error", tc.dsn)
			}
			if !strings.Contains(err.Error(), tc.wantSubstr) {
				t.Errorf("Open(%q) error = %q; want substring %q", tc.dsn, err.Error(), tc.wantSubstr)
			}
		})
	}
}

func TestInitSchema(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer dbMock.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS client_storage")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := db.InitSchema(context.Background(), dbMock); err != nil {
		t.Fatalf("InitSchema error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestInitSchema_Error(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer dbMock.Close()

	mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("denied"))

	err = db.InitSchema(context.Background(), dbMock)
	if err == nil || !strings.Contains(err.Error(), "create schema") {
		t.Errorf("InitSchema error = %v; want create schema error", err)
	}
}
