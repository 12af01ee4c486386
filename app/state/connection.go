package state

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite handle holding the cross-run sync state.
type DB struct {
	*sql.DB
}

// Open opens (or creates) the state database at path and verifies the
// connection. The state file is the cross-run memory that lets repeated runs
// skip unchanged records and reuse discovered identity mappings.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	// SQLite handles one writer at a time; the run is strictly sequential
	// anyway, so a single connection avoids lock contention entirely.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping state database: %w", err)
	}

	return &DB{DB: db}, nil
}
