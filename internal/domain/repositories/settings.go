package repositories

import (
	"context"

	"github.com/google/uuid"
	"newsfeed/internal/domain/models"
)

// SettingsRepository defines the interface for user settings data access
type SettingsRepository interface {
	// GetByUserID returns nil, nil when the user has not saved settings yet.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error)

	// Upsert creates or replaces the user's settings row.
	Upsert(ctx context.Context, settings *models.UserSettings) error
}
