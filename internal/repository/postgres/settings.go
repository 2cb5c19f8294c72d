package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"newsfeed/internal/domain"
	"newsfeed/internal/domain/models"
	"newsfeed/internal/domain/repositories"
)

// PostgresSettingsRepository implements the SettingsRepository interface
type PostgresSettingsRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewSettingsRepository creates a new PostgresSettingsRepository
func NewSettingsRepository(config *RepositoryConfig) repositories.SettingsRepository {
	return &PostgresSettingsRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// GetByUserID retrieves settings for a specific user
func (r *PostgresSettingsRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error) {
	query := fmt.Sprintf(`
		SELECT user_id, preferred_language, preferred_country, default_category,
		       default_time_window, created_at, updated_at
		FROM %s
		WHERE user_id = $1
	`, r.tables.UserSettings)

	var s models.UserSettings
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, userID).Scan(
		&s.UserID,
		&s.PreferredLanguage,
		&s.PreferredCountry,
		&s.DefaultCategory,
		&s.DefaultTimeWindow,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			// No settings saved yet
			return nil, nil
		}
		return nil, storageErr("get user settings", err)
	}

	return &s, nil
}

// Upsert creates or replaces user settings
func (r *PostgresSettingsRepository) Upsert(ctx context.Context, s *models.UserSettings) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, preferred_language, preferred_country, default_category,
		                default_time_window, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			preferred_language = EXCLUDED.preferred_language,
			preferred_country = EXCLUDED.preferred_country,
			default_category = EXCLUDED.default_category,
			default_time_window = EXCLUDED.default_time_window,
			updated_at = EXCLUDED.updated_at
		RETURNING created_at, updated_at
	`, r.tables.UserSettings)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		s.UserID,
		s.PreferredLanguage,
		s.PreferredCountry,
		s.DefaultCategory,
		s.DefaultTimeWindow,
		s.CreatedAt,
		s.UpdatedAt,
	).Scan(&s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return &domain.NotFoundError{Message: "user not found", ErrCode: "user/not-found"}
		}
		return storageErr("upsert user settings", err)
	}

	return nil
}
