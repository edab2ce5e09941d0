package db

import (
	"database/sql"
	"testing"

	"github.com/erazemk/assetinv/internal/config"
)

// NewTestDB creates a fresh in-memory SQLite database with the schema applied.
// The pool is pinned to one connection because every new connection to
// ":memory:" would see its own empty database.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if err := EnsureSchema(db, config.DriverSQLite); err != nil {
		db.Close()
		t.Fatalf("creating test database schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}
