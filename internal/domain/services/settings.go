package services

import (
	"context"

	"github.com/google/uuid"
	"newsfeed/internal/domain/models"
)

// SettingsService defines the business logic for user settings
type SettingsService interface {
	// Get returns stored settings, or empty defaults when none exist yet.
	Get(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error)

	// Update applies a partial update and creates the row when missing.
	Update(ctx context.Context, userID uuid.UUID, req *models.UpdateSettingsRequest) (*models.UserSettings, error)
}
