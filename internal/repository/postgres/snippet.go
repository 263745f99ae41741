package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"github.com/sakif/snippets/internal/apperror"
	"github.com/sakif/snippets/internal/model"
	"github.com/sakif/snippets/internal/repository"
)

var _ repository.Store = (*DB)(nil)

func (db *DB) query(ctx context.Context, op, stmt string, args ...any) (*repository.Result, error) {
	rows, err := db.conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, db.fail(op, err)
	}
	res, err := repository.ScanRows(rows)
	if err != nil {
		return nil, db.fail(op, err)
	}
	return res, nil
}

// fail logs server-side details of a pq error and wraps it as a storage error.
func (db *DB) fail(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		db.logger.Debug("postgres error",
			slog.String("op", op),
			slog.String("code", string(pqErr.Code)),
			slog.String("condition", pqErr.Code.Name()),
			slog.String("constraint", pqErr.Constraint),
			slog.String("column", pqErr.Column),
		)
	}
	return apperror.StorageFailure("postgres: "+op, err)
}

func (db *DB) GetByID(ctx context.Context, id string) (*repository.Result, error) {
	return db.query(ctx, fmt.Sprintf("getting snippet %s", id),
		`SELECT `+repository.Columns+` FROM example WHERE id = $1`,
		id,
	)
}

func (db *DB) GetAll(ctx context.Context) (*repository.Result, error) {
	return db.query(ctx, "listing snippets",
		`SELECT `+repository.Columns+` FROM example`,
	)
}

func (db *DB) Add(ctx context.Context, in model.SnippetInput) (*repository.Result, error) {
	return db.query(ctx, "adding snippet",
		`INSERT INTO example (name, description, author, language, code, tags)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+repository.Columns,
		repository.InputArgs(in)...,
	)
}

func (db *DB) Delete(ctx context.Context, id string) (*repository.Result, error) {
	return db.query(ctx, fmt.Sprintf("deleting snippet %s", id),
		`DELETE FROM example WHERE id = $1 RETURNING `+repository.Columns,
		id,
	)
}

func (db *DB) Update(ctx context.Context, id string, in model.SnippetInput) (*repository.Result, error) {
	args := append(repository.InputArgs(in), id)
	return db.query(ctx, fmt.Sprintf("updating snippet %s", id),
		`UPDATE example
		 SET name = $1, description = $2, author = $3, language = $4, code = $5, tags = $6
		 WHERE id = $7
		 RETURNING `+repository.Columns,
		args...,
	)
}

// Search matches term case-insensitively against name or description.
func (db *DB) Search(ctx context.Context, term string) (*repository.Result, error) {
	return db.query(ctx, "searching snippets",
		`SELECT `+repository.Columns+` FROM example
		 WHERE name ILIKE $1 ESCAPE '\' OR description ILIKE $1 ESCAPE '\'`,
		repository.LikePattern(term),
	)
}

func (db *DB) FindByName(ctx context.Context, name string) (*repository.Result, error) {
	return db.query(ctx, "finding snippets by name",
		`SELECT `+repository.Columns+` FROM example WHERE name = $1`,
		name,
	)
}
