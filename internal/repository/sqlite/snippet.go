package sqlite

import (
	"context"
	"fmt"

	"github.com/sakif/snippets/internal/apperror"
	"github.com/sakif/snippets/internal/model"
	"github.com/sakif/snippets/internal/repository"
)

var _ repository.Store = (*DB)(nil)

// query runs a statement that returns records and wraps any failure as a storage error.
func (db *DB) query(ctx context.Context, op, stmt string, args ...any) (*repository.Result, error) {
	rows, err := db.conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, apperror.StorageFailure("sqlite: "+op, err)
	}
	res, err := repository.ScanRows(rows)
	if err != nil {
		return nil, apperror.StorageFailure("sqlite: "+op, err)
	}
	return res, nil
}

// GetByID returns the record with the given id, or an empty result.
func (db *DB) GetByID(ctx context.Context, id string) (*repository.Result, error) {
	return db.query(ctx, fmt.Sprintf("getting snippet %s", id),
		`SELECT `+repository.Columns+` FROM example WHERE id = ?`,
		id,
	)
}

// GetAll returns every record. No ORDER BY: callers must not rely on the order.
func (db *DB) GetAll(ctx context.Context) (*repository.Result, error) {
	return db.query(ctx, "listing snippets",
		`SELECT `+repository.Columns+` FROM example`,
	)
}

// Add inserts one record and returns it with the id the store assigned.
func (db *DB) Add(ctx context.Context, in model.SnippetInput) (*repository.Result, error) {
	return db.query(ctx, "adding snippet",
		`INSERT INTO example (name, description, author, language, code, tags)
		 VALUES (?, ?, ?, ?, ?, ?)
		 RETURNING `+repository.Columns,
		repository.InputArgs(in)...,
	)
}

// Delete removes the record with the given id and returns it. RowCount is 0
// when nothing matched.
func (db *DB) Delete(ctx context.Context, id string) (*repository.Result, error) {
	return db.query(ctx, fmt.Sprintf("deleting snippet %s", id),
		`DELETE FROM example WHERE id = ? RETURNING `+repository.Columns,
		id,
	)
}

// Update replaces every column of the record with the given id.
func (db *DB) Update(ctx context.Context, id string, in model.SnippetInput) (*repository.Result, error) {
	args := append(repository.InputArgs(in), id)
	return db.query(ctx, fmt.Sprintf("updating snippet %s", id),
		`UPDATE example
		 SET name = ?, description = ?, author = ?, language = ?, code = ?, tags = ?
		 WHERE id = ?
		 RETURNING `+repository.Columns,
		args...,
	)
}

// Search matches term as a substring of name or description.
// SQLite's LIKE is case-insensitive for ASCII.
func (db *DB) Search(ctx context.Context, term string) (*repository.Result, error) {
	pattern := repository.LikePattern(term)
	return db.query(ctx, "searching snippets",
		`SELECT `+repository.Columns+` FROM example
		 WHERE name LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\'`,
		pattern, pattern,
	)
}

// FindByName returns the records whose name equals name exactly.
func (db *DB) FindByName(ctx context.Context, name string) (*repository.Result, error) {
	return db.query(ctx, "finding snippets by name",
		`SELECT `+repository.Columns+` FROM example WHERE name = ?`,
		name,
	)
}
