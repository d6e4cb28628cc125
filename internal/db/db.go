package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open opens the hospital database at path, creating the file if it does
// not exist, and applies the connection pragmas. WAL keeps dashboard
// reads from blocking behind ward writes.
func Open(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	for _, pragma := range []string{
		"journal_mode=WAL",
		"busy_timeout=5000",
		"foreign_keys=ON",
		"synchronous=NORMAL",
	} {
		if _, err := conn.Exec("PRAGMA " + pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("applying pragma %s: %w", pragma, err)
		}
	}

	return conn, nil
}
