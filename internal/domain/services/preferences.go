package services

import (
	"context"

	"github.com/google/uuid"
	"newsfeed/internal/domain/models"
)

// PreferencesService manages a user's keyword preferences.
type PreferencesService interface {
	// List returns the user's keywords sorted ascending.
	List(ctx context.Context, userID uuid.UUID) ([]string, error)

	// Add normalizes raw (splitting compound input) and stores each piece
	// within the per-user cap. Returns the full updated list.
	Add(ctx context.Context, userID uuid.UUID, raw string) ([]string, error)

	// Remove deletes one keyword. Removing a missing keyword succeeds.
	Remove(ctx context.Context, userID uuid.UUID, keyword string) error

	// FromNaturalLanguage extracts a filter spec from query and stores its
	// include keywords within the per-user cap.
	FromNaturalLanguage(ctx context.Context, userID uuid.UUID, query string) (*models.NaturalLanguageResult, error)
}
