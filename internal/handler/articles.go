package handler

import (
	"log/slog"
	"net/http"

	"newsfeed/internal/domain/services"
	"newsfeed/internal/httputil"
)

// ArticleHandler records and lists user reactions to articles
type ArticleHandler struct {
	service services.ArticleService
	logger  *slog.Logger
}

// NewArticleHandler creates a new article handler
func NewArticleHandler(service services.ArticleService, logger *slog.Logger) *ArticleHandler {
	return &ArticleHandler{service: service, logger: logger}
}

// RecordAction stores a reaction to a served article
// POST /api/articles/{id}/actions
func (h *ArticleHandler) RecordAction(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req services.RecordActionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, h.logger, err)
		return
	}

	action, err := h.service.RecordAction(r.Context(), userID, r.PathValue("id"), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, action)
}

// ListActions returns the user's reactions, newest first
// GET /api/articles/actions
func (h *ArticleHandler) ListActions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	actions, err := h.service.ListActions(r.Context(), userID, r.URL.Query().Get("action"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, actions)
}
