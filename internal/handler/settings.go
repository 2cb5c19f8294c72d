package handler

import (
	"log/slog"
	"net/http"

	"newsfeed/internal/domain/models"
	"newsfeed/internal/domain/services"
	"newsfeed/internal/httputil"
)

// SettingsHandler handles per-user query defaults
type SettingsHandler struct {
	service services.SettingsService
	logger  *slog.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(service services.SettingsService, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{service: service, logger: logger}
}

// updateSettingsBody keeps absent, null and set apart per field.
type updateSettingsBody struct {
	PreferredLanguage httputil.OptionalString `json:"preferredLanguage"`
	PreferredCountry  httputil.OptionalString `json:"preferredCountry"`
	DefaultCategory   httputil.OptionalString `json:"defaultCategory"`
	DefaultTimeWindow httputil.OptionalString `json:"defaultTimeWindow"`
}

// Get returns the user's settings
// GET /api/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	settings, err := h.service.Get(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, settings)
}

// Update applies a partial update
// PATCH /api/settings
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var body updateSettingsBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		handleError(w, h.logger, err)
		return
	}

	settings, err := h.service.Update(r.Context(), userID, &models.UpdateSettingsRequest{
		PreferredLanguage: body.PreferredLanguage.ToOptional(),
		PreferredCountry:  body.PreferredCountry.ToOptional(),
		DefaultCategory:   body.DefaultCategory.ToOptional(),
		DefaultTimeWindow: body.DefaultTimeWindow.ToOptional(),
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, settings)
}
