package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"newsfeed/internal/domain/repositories"
)

// PostgresKeywordRepository implements the KeywordRepository interface
type PostgresKeywordRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewKeywordRepository creates a new PostgresKeywordRepository
func NewKeywordRepository(config *RepositoryConfig) repositories.KeywordRepository {
	return &PostgresKeywordRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// ListKeywords returns the user's keywords sorted ascending
func (r *PostgresKeywordRepository) ListKeywords(ctx context.Context, userID uuid.UUID) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT keyword
		FROM %s
		WHERE user_id = $1
		ORDER BY keyword ASC
	`, r.tables.UserPreferences)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, storageErr("list keywords", err)
	}
	defer rows.Close()

	keywords := []string{}
	for rows.Next() {
		var kw string
		if err := rows.Scan(&kw); err != nil {
			return nil, storageErr("scan keyword", err)
		}
		keywords = append(keywords, kw)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate keywords", err)
	}

	return keywords, nil
}

// CountKeywords returns how many keywords the user has stored
func (r *PostgresKeywordRepository) CountKeywords(ctx context.Context, userID uuid.UUID) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE user_id = $1`, r.tables.UserPreferences)

	var count int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, storageErr("count keywords", err)
	}
	return count, nil
}

// InsertKeyword stores a keyword; an existing pair is left untouched
func (r *PostgresKeywordRepository) InsertKeyword(ctx context.Context, userID uuid.UUID, keyword string) (bool, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, keyword)
		VALUES ($1, $2)
		ON CONFLICT (user_id, keyword) DO NOTHING
	`, r.tables.UserPreferences)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, userID, keyword)
	if err != nil {
		return false, storageErr("insert keyword", err)
	}
	return tag.RowsAffected() == 1, nil
}

// DeleteKeyword removes a keyword
func (r *PostgresKeywordRepository) DeleteKeyword(ctx context.Context, userID uuid.UUID, keyword string) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1 AND keyword = $2`, r.tables.UserPreferences)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, userID, keyword)
	if err != nil {
		return false, storageErr("delete keyword", err)
	}
	return tag.RowsAffected() > 0, nil
}

// LockUserKeywords takes a transaction-scoped advisory lock keyed on the
// user, serializing concurrent capacity checks for that user only.
func (r *PostgresKeywordRepository) LockUserKeywords(ctx context.Context, userID uuid.UUID) error {
	if !repositories.InTx(ctx) {
		return fmt.Errorf("lock user keywords: must run inside a transaction")
	}

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`, userID.String()); err != nil {
		return storageErr("lock user keywords", err)
	}
	return nil
}
