// Package repository declares the Data Access contract implemented by the
// postgres and sqlite stores.
package repository

import (
	"context"

	"github.com/sakif/snippets/internal/model"
)

// Result is the outcome of one statement: the rows it returned and how many
// rows it touched. For SELECT the two agree; for DELETE/UPDATE RowCount is
// the number of rows affected.
type Result struct {
	Rows     []model.Row
	RowCount int64
}

// Empty reports whether the statement matched nothing.
func (r *Result) Empty() bool {
	return r == nil || r.RowCount == 0
}

// SnippetRepository runs one parameterized statement per call. Every failure
// is returned as an apperror wrapping apperror.ErrStorage; "nothing matched"
// is not an error and shows up as an empty Result.
//
// ids are passed through as received from the client and bound as query
// parameters; a malformed id is reported by the store, not checked here.
type SnippetRepository interface {
	GetByID(ctx context.Context, id string) (*Result, error)
	GetAll(ctx context.Context) (*Result, error)
	Add(ctx context.Context, in model.SnippetInput) (*Result, error)
	Delete(ctx context.Context, id string) (*Result, error)
	Update(ctx context.Context, id string, in model.SnippetInput) (*Result, error)
	Search(ctx context.Context, term string) (*Result, error)
	FindByName(ctx context.Context, name string) (*Result, error)
}

// Pinger is the part of a store the connection watcher needs.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Store is a repository backed by a live connection.
type Store interface {
	SnippetRepository
	Pinger
	Close() error
}
