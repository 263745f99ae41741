// Package store opens the repository.Store named by a database URL.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/snippets/internal/repository"
	"github.com/sakif/snippets/internal/repository/postgres"
	"github.com/sakif/snippets/internal/repository/sqlite"
)

// Open connects to the database at dbURL.
//
//   - postgres://… and postgresql://… use the Postgres store; ssl picks sslmode.
//   - sqlite:<path>, sqlite://<path>, file:<path> and :memory: use the SQLite store.
//
// The returned error is a startup failure; callers are expected to exit on it.
func Open(ctx context.Context, dbURL string, ssl bool, logger *slog.Logger) (repository.Store, error) {
	switch {
	case postgres.IsPostgresURL(dbURL):
		logger.Info("using database", slog.String("url", postgres.Redact(dbURL)), slog.Bool("ssl", ssl))
		db, err := postgres.New(ctx, dbURL, ssl, logger)
		if err != nil {
			return nil, err
		}
		return db, nil

	case strings.HasPrefix(dbURL, "sqlite:"), strings.HasPrefix(dbURL, "file:"), dbURL == ":memory:":
		path := SQLitePath(dbURL)
		logger.Info("using database", slog.String("url", "sqlite:"+path))
		db, err := sqlite.New(path)
		if err != nil {
			return nil, err
		}
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported database URL scheme in %q", postgres.Redact(dbURL))
	}
}

// SQLitePath strips the sqlite: / sqlite:// prefix; file: URIs are passed to the driver unchanged.
func SQLitePath(dbURL string) string {
	if strings.HasPrefix(dbURL, "sqlite://") {
		return strings.TrimPrefix(dbURL, "sqlite://")
	}
	return strings.TrimPrefix(dbURL, "sqlite:")
}
