// Package model defines the data structures used throughout the application.
//
// A snippet exists in two shapes:
//
//   - Row is what the database stores: tags are one comma-joined string.
//   - Snippet is what the API sends: tags are a JSON list.
//
// Conversion between the two lives in tags.go.
package model

// Row is one record of the example table exactly as the store returns it.
// Nullable columns are pointers so a NULL survives the round trip as JSON null.
type Row struct {
	ID          int64
	Name        string
	Description *string
	Author      *string
	Language    *string
	Code        string
	Tags        string
}

// Snippet is the wire representation of a Row.
type Snippet struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Author      *string  `json:"author"`
	Language    *string  `json:"language"`
	Code        string   `json:"code"`
	Tags        []string `json:"tags"`
}

// SnippetInput is the request body for add and update.
//
// Name and Code are pointers on purpose: an absent field is bound as NULL and
// rejected by the NOT NULL constraint in the store, which is the only place
// "required" is enforced.
type SnippetInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Author      *string  `json:"author"`
	Language    *string  `json:"language"`
	Code        *string  `json:"code"`
	Tags        []string `json:"tags"`
}

// ToSnippet converts a stored row into its wire form.
func (r Row) ToSnippet() Snippet {
	return Snippet{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Author:      r.Author,
		Language:    r.Language,
		Code:        r.Code,
		Tags:        SplitTags(r.Tags),
	}
}

// ToSnippets converts every row; the result is never nil so it encodes as [].
func ToSnippets(rows []Row) []Snippet {
	snippets := make([]Snippet, 0, len(rows))
	for _, r := range rows {
		snippets = append(snippets, r.ToSnippet())
	}
	return snippets
}
