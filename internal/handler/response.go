package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/snippets/internal/apperror"
)

// Fixed client-facing messages. Storage details stay in the logs.
const (
	msgNotFound      = "id not found"
	msgStorage       = "database error"
	msgInvalidBody   = "invalid request body"
	msgInternalError = "internal error"
)

// ErrorResponse is the body of every non-2xx response from the snippet routes.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON sends data as JSON with the given status code.
// Headers and status must be written before the body.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all that is left is to log it.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps an apperror to its status code and fixed message.
//
//	ErrNotFound   → 404 {"error":"id not found"}
//	ErrValidation → 400 {"error":<message>}
//	ErrStorage    → 500 {"error":"database error"}
//	anything else → 500 {"error":"internal error"}
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: msgNotFound})

	case errors.Is(err, apperror.ErrValidation):
		msg := msgInvalidBody
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Message != "" {
			msg = appErr.Message
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msg})

	case errors.Is(err, apperror.ErrStorage):
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: msgStorage})

	default:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: msgInternalError})
	}
}
