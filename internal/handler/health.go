package handler

import (
	"log/slog"
	"net/http"
)

// HealthChecker reports the state of the database connection.
type HealthChecker interface {
	Healthy() bool
	LastError() error
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// HealthHandler exposes the connection watcher's verdict.
type HealthHandler struct {
	checker HealthChecker
	logger  *slog.Logger
}

func NewHealthHandler(checker HealthChecker, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{checker: checker, logger: logger}
}

// HandleHealth answers 200 {"status":"ok"} while the database is reachable and
// 503 {"status":"degraded"} while the watcher is failing to reconnect.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if h.checker.Healthy() {
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
		return
	}

	if err := h.checker.LastError(); err != nil {
		h.logger.Debug("health check reporting degraded", slog.String("error", err.Error()))
	}
	writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "degraded"})
}
