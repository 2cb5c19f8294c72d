package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"newsfeed/internal/httputil"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness and database reachability
type HealthHandler struct {
	db     Pinger
	logger *slog.Logger
}

// NewHealthHandler creates a health handler. db may be nil.
func NewHealthHandler(db Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

// Check is a simple health check endpoint
// GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"status": "ok",
		"time":   time.Now().UTC(),
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			h.logger.Warn("health check: database unreachable", "error", err)
			body["status"] = "degraded"
			body["database"] = "unreachable"
			httputil.RespondJSON(w, http.StatusServiceUnavailable, body)
			return
		}
		body["database"] = "ok"
	}

	httputil.RespondJSON(w, http.StatusOK, body)
}
