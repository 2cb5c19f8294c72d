package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"newsfeed/internal/config"
	"newsfeed/internal/domain/services"
	"newsfeed/internal/httputil"
)

// DigestHandler emails the personalised feed
type DigestHandler struct {
	service services.DigestService
	logger  *slog.Logger
}

// NewDigestHandler creates a new digest handler
func NewDigestHandler(service services.DigestService, logger *slog.Logger) *DigestHandler {
	return &DigestHandler{service: service, logger: logger}
}

// Send emails a digest to the authenticated user
// POST /api/email/send?max=10&language=en
func (h *DigestHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	maxItems := config.DefaultDigestItems
	if raw := r.URL.Query().Get("max"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(w, "email/max", "max must be an integer")
			return
		}
		maxItems = n
	}

	result, err := h.service.Send(r.Context(), userID, maxItems, r.URL.Query().Get("language"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
