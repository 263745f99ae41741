// Package sqlite implements repository.Store on top of SQLite.
//
// It is the development and test backend: selected with a "sqlite:" database
// URL, and used with ":memory:" by the test suites. Unlike the Postgres store
// it creates the example table itself.
//
// modernc.org/sqlite is a pure Go driver, so no C toolchain is needed.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a database/sql handle limited to a single connection.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath and creates the schema.
//
// dbPath examples:
//   - "data/snippets.db"  → file-based database
//   - ":memory:"          → in-memory database, lost on Close
//
// The pool is capped at one connection: the service shares one connection
// across all requests, and with ":memory:" every extra connection would see
// its own empty database.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets readers proceed while a write is in progress on file databases.
	// In-memory databases report "memory" and ignore it.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// PingContext checks that the connection is usable, dialing a new one if needed.
func (db *DB) PingContext(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// migrate creates the example table. It mirrors the Postgres schema closely
// enough for the service: integer id assigned by the store, name and code
// NOT NULL, everything else nullable.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS example (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			name        TEXT NOT NULL,
			description TEXT,
			author      TEXT,
			language    TEXT,
			code        TEXT NOT NULL,
			tags        TEXT
		);
	`)
	if err != nil {
		return fmt.Errorf("creating example table: %w", err)
	}

	return nil
}
