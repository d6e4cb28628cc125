package db

import (
	"database/sql"
	"testing"
)

// NewTestDB opens an in-memory database with the full hospital schema
// applied, closed automatically when the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening in-memory database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := EnsureSchema(conn); err != nil {
		t.Fatalf("applying schema: %v", err)
	}

	return conn
}
