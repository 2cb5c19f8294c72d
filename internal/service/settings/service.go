package settings

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"newsfeed/internal/config"
	"newsfeed/internal/domain"
	"newsfeed/internal/domain/models"
	"newsfeed/internal/domain/repositories"
	"newsfeed/internal/domain/services"
)

// settingsService implements services.SettingsService
type settingsService struct {
	repo   repositories.SettingsRepository
	now    func() time.Time
	logger *slog.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(repo repositories.SettingsRepository, logger *slog.Logger) services.SettingsService {
	return &settingsService{
		repo:   repo,
		now:    time.Now,
		logger: logger,
	}
}

// Get returns stored settings or empty defaults
func (s *settingsService) Get(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error) {
	settings, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	if settings == nil {
		s.logger.Debug("no settings found, returning defaults", "user_id", userID)
		now := s.now().UTC()
		settings = &models.UserSettings{UserID: userID, CreatedAt: now, UpdatedAt: now}
	}

	return settings, nil
}

// Update applies a partial update and upserts the row
func (s *settingsService) Update(ctx context.Context, userID uuid.UUID, req *models.UpdateSettingsRequest) (*models.UserSettings, error) {
	language, err := normalizeCode("preferredLanguage", req.PreferredLanguage)
	if err != nil {
		return nil, err
	}
	country, err := normalizeCode("preferredCountry", req.PreferredCountry)
	if err != nil {
		return nil, err
	}
	category, err := normalizeVocabulary(req.DefaultCategory, "settings/category", "defaultCategory",
		func(v string) (string, bool) { return models.NormalizeCategory(v) })
	if err != nil {
		return nil, err
	}
	window, err := normalizeVocabulary(req.DefaultTimeWindow, "settings/time-window", "defaultTimeWindow",
		func(v string) (string, bool) {
			tw, ok := models.ParseTimeWindow(v)
			return string(tw), ok
		})
	if err != nil {
		return nil, err
	}

	existing, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	apply(&existing.PreferredLanguage, language)
	apply(&existing.PreferredCountry, country)
	apply(&existing.DefaultCategory, category)
	apply(&existing.DefaultTimeWindow, window)
	existing.UpdatedAt = s.now().UTC()

	if err := s.repo.Upsert(ctx, existing); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}

	s.logger.Info("settings updated", "user_id", userID)
	return existing, nil
}

// apply writes an Optional into dst when the field was present.
// Empty strings clear the field like null does.
func apply(dst **string, o models.Optional) {
	if !o.Present {
		return
	}
	if o.Value == nil || *o.Value == "" {
		*dst = nil
		return
	}
	v := *o.Value
	*dst = &v
}

// normalizeCode lowercases a language or country code and bounds its length.
func normalizeCode(field string, o models.Optional) (models.Optional, error) {
	if !o.Present || o.Value == nil {
		return o, nil
	}
	v := strings.ToLower(strings.TrimSpace(*o.Value))
	if err := validation.Validate(v, validation.RuneLength(0, config.MaxSettingCodeLength)); err != nil {
		return o, domain.NewValidationError("settings/code-length", fmt.Sprintf("%s: %s", field, err.Error()))
	}
	return models.Optional{Present: true, Value: &v}, nil
}

// normalizeVocabulary maps a value through a controlled vocabulary.
func normalizeVocabulary(o models.Optional, code, field string, lookup func(string) (string, bool)) (models.Optional, error) {
	if !o.Present || o.Value == nil || strings.TrimSpace(*o.Value) == "" {
		return o, nil
	}
	v, ok := lookup(*o.Value)
	if !ok {
		return o, domain.NewValidationError(code, fmt.Sprintf("%s: unrecognized value %q", field, *o.Value))
	}
	return models.Optional{Present: true, Value: &v}, nil
}
