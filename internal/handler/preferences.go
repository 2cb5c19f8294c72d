package handler

import (
	"log/slog"
	"net/http"

	"newsfeed/internal/domain/services"
	"newsfeed/internal/httputil"
)

// PreferencesHandler handles keyword preference requests
type PreferencesHandler struct {
	service services.PreferencesService
	logger  *slog.Logger
}

// NewPreferencesHandler creates a new preferences handler
func NewPreferencesHandler(service services.PreferencesService, logger *slog.Logger) *PreferencesHandler {
	return &PreferencesHandler{service: service, logger: logger}
}

type addKeywordRequest struct {
	Keyword string `json:"keyword"`
}

type naturalLanguageRequest struct {
	Query string `json:"query"`
}

// List returns the user's keywords, sorted
// GET /api/preferences
func (h *PreferencesHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	keywords, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, keywords)
}

// Add stores one keyword (or several, for compound input) and returns
// the full list
// POST /api/preferences
func (h *PreferencesHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req addKeywordRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, h.logger, err)
		return
	}

	keywords, err := h.service.Add(r.Context(), userID, req.Keyword)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, keywords)
}

// Remove deletes one keyword
// DELETE /api/preferences/{keyword}
func (h *PreferencesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.service.Remove(r.Context(), userID, r.PathValue("keyword")); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// FromNaturalLanguage extracts keywords from free text and saves them
// POST /api/preferences/natural-language
func (h *PreferencesHandler) FromNaturalLanguage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req naturalLanguageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, h.logger, err)
		return
	}

	result, err := h.service.FromNaturalLanguage(r.Context(), userID, req.Query)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
