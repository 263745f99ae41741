// Package postgres implements repository.Store against PostgreSQL using lib/pq.
//
// The example table is expected to exist already:
//
//	CREATE TABLE example (
//		id          SERIAL PRIMARY KEY,
//		name        TEXT NOT NULL,
//		description TEXT,
//		author      TEXT,
//		language    TEXT,
//		code        TEXT NOT NULL,
//		tags        TEXT
//	);
//
// The service talks to the database over a single long-lived connection.
// database/sql replaces that connection transparently when the driver reports
// it broken; internal/connwatch decides how hard to try when it stays down.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/lib/pq"
)

// DB wraps a single-connection database/sql handle backed by a pq.Connector.
type DB struct {
	conn   *sql.DB
	logger *slog.Logger
}

// New connects to the database at dbURL and verifies the connection with a ping.
// An error here means the store was unreachable at startup.
func New(ctx context.Context, dbURL string, ssl bool, logger *slog.Logger) (*DB, error) {
	dsn, err := WithSSLMode(dbURL, ssl)
	if err != nil {
		return nil, fmt.Errorf("postgres: parsing database URL: %w", err)
	}

	connector, err := pq.NewConnector(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: creating connector: %w", err)
	}

	conn := sql.OpenDB(connector)
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("postgres: connecting: %w", err)
	}

	return &DB{conn: conn, logger: logger}, nil
}

// Close closes the connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// PingContext checks the connection, redialing if the previous one was dropped.
func (db *DB) PingContext(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// WithSSLMode sets sslmode on a postgres:// URL from the SSL switch unless the
// URL already chooses one. ssl=false maps to "disable", ssl=true to "require".
func WithSSLMode(dbURL string, ssl bool) (string, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	if q.Get("sslmode") == "" {
		if ssl {
			q.Set("sslmode", "require")
		} else {
			q.Set("sslmode", "disable")
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// Redact hides the password of a database URL for logging.
func Redact(dbURL string) string {
	u, err := url.Parse(dbURL)
	if err != nil {
		return "<unparseable database URL>"
	}
	return u.Redacted()
}

// IsPostgresURL reports whether dbURL should be served by this package.
func IsPostgresURL(dbURL string) bool {
	return strings.HasPrefix(dbURL, "postgres://") || strings.HasPrefix(dbURL, "postgresql://")
}
