package repository

import (
	"database/sql"
	"strings"

	"github.com/sakif/snippets/internal/model"
)

// Columns is the select list shared by every statement that returns records.
const Columns = "id, name, description, author, language, code, tags"

// ScanRows drains rows into model.Row values and closes them.
func ScanRows(rows *sql.Rows) (*Result, error) {
	defer rows.Close()

	out := make([]model.Row, 0)
	for rows.Next() {
		var (
			r    model.Row
			tags sql.NullString
		)
		if err := rows.Scan(
			&r.ID, &r.Name, &r.Description, &r.Author,
			&r.Language, &r.Code, &tags,
		); err != nil {
			return nil, err
		}
		r.Tags = tags.String
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &Result{Rows: out, RowCount: int64(len(out))}, nil
}

// InputArgs returns the bind values for name, description, author, language,
// code and tags, in that order. nil pointers become SQL NULL.
func InputArgs(in model.SnippetInput) []any {
	return []any{
		nullable(in.Name),
		nullable(in.Description),
		nullable(in.Author),
		nullable(in.Language),
		nullable(in.Code),
		model.JoinTags(in.Tags),
	}
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// LikePattern turns a search term into a substring pattern for LIKE/ILIKE
// with '\' as the escape character.
func LikePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}
