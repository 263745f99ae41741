// Package handler contains the HTTP handlers of the snippets API.
//
// Each handler pulls its parameters from the path, query string or JSON body,
// runs exactly one repository call, converts the stored rows to their wire
// form (tags string → list) and writes JSON. Every failure is handled here;
// nothing propagates past the HTTP boundary.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/snippets/internal/apperror"
	"github.com/sakif/snippets/internal/model"
	"github.com/sakif/snippets/internal/repository"
)

// Query parameters understood by HandleList.
const (
	QuerySearchTerm = "searchterm"
	QueryName       = "name"
)

// SnippetHandler serves the CRUD routes for the example table.
type SnippetHandler struct {
	repo   repository.SnippetRepository
	logger *slog.Logger

	// onStorageError, when set, is told about every failed query so the
	// connection watcher can check the database right away.
	onStorageError func()
}

// NewSnippetHandler creates a SnippetHandler. onStorageError may be nil.
func NewSnippetHandler(repo repository.SnippetRepository, logger *slog.Logger, onStorageError func()) *SnippetHandler {
	return &SnippetHandler{
		repo:           repo,
		logger:         logger,
		onStorageError: onStorageError,
	}
}

// HandleGetByID returns one snippet.
//
// HTTP: GET {prefix}/{id}
// 200 → snippet, 404 → {"error":"id not found"}
func (h *SnippetHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, "get snippet", err)
		return
	}
	if res.Empty() {
		writeError(w, apperror.NotFound("snippet", id))
		return
	}

	writeJSON(w, http.StatusOK, res.Rows[0].ToSnippet())
}

// HandleList returns a list of snippets.
//
// HTTP: GET {prefix}                    → every snippet
// HTTP: GET {prefix}?searchterm=<term>  → name or description contains term
// HTTP: GET {prefix}?name=<name>        → name equals name
//
// The result is always a JSON array, possibly empty. Order is unspecified.
func (h *SnippetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		res *repository.Result
		err error
		op  string
	)
	switch {
	case q.Has(QuerySearchTerm):
		op = "search snippets"
		res, err = h.repo.Search(r.Context(), q.Get(QuerySearchTerm))
	case q.Has(QueryName):
		op = "find snippets by name"
		res, err = h.repo.FindByName(r.Context(), q.Get(QueryName))
	default:
		op = "list snippets"
		res, err = h.repo.GetAll(r.Context())
	}
	if err != nil {
		h.fail(w, op, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ToSnippets(res.Rows))
}

// HandleCreate adds a snippet and returns it with the id the store assigned.
//
// HTTP: POST {prefix}
// BODY: {"name":"hello","code":"print(1)","tags":["demo","go"], ...}
func (h *SnippetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decode(w, r)
	if !ok {
		return
	}

	res, err := h.repo.Add(r.Context(), in)
	if err != nil {
		h.fail(w, "add snippet", err)
		return
	}
	if res.Empty() {
		h.logger.Error("insert returned no row")
		writeError(w, apperror.StorageFailure("add snippet", nil))
		return
	}

	created := res.Rows[0].ToSnippet()
	h.logger.Info("snippet added", slog.Int64("id", created.ID), slog.String("name", created.Name))
	writeJSON(w, http.StatusOK, created)
}

// HandleUpdate replaces every field of a snippet.
//
// HTTP: PUT {prefix}/{id}
// 200 → updated snippet, 404 → {"error":"id not found"}
func (h *SnippetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	in, ok := h.decode(w, r)
	if !ok {
		return
	}

	res, err := h.repo.Update(r.Context(), id, in)
	if err != nil {
		h.fail(w, "update snippet", err)
		return
	}
	if res.Empty() {
		writeError(w, apperror.NotFound("snippet", id))
		return
	}

	h.logger.Info("snippet updated", slog.String("id", id))
	writeJSON(w, http.StatusOK, res.Rows[0].ToSnippet())
}

// HandleDelete removes a snippet and returns what was removed.
//
// HTTP: DELETE {prefix}/{id}
// 200 → deleted snippet, 404 → {"error":"id not found"}
func (h *SnippetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		h.fail(w, "delete snippet", err)
		return
	}
	if res.Empty() {
		writeError(w, apperror.NotFound("snippet", id))
		return
	}

	h.logger.Info("snippet deleted", slog.String("id", id))
	writeJSON(w, http.StatusOK, res.Rows[0].ToSnippet())
}

// decode reads a SnippetInput body. Only malformed JSON is rejected; missing
// fields are left for the database to refuse.
func (h *SnippetHandler) decode(w http.ResponseWriter, r *http.Request) (model.SnippetInput, bool) {
	var in model.SnippetInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Warn("invalid snippet JSON", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("body", msgInvalidBody))
		return in, false
	}
	return in, true
}

// fail logs a repository error and answers 500.
func (h *SnippetHandler) fail(w http.ResponseWriter, op string, err error) {
	h.logger.Error("database access failed",
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
	if h.onStorageError != nil {
		h.onStorageError()
	}
	writeError(w, err)
}
