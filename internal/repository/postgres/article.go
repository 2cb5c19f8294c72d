package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"newsfeed/internal/domain"
	"newsfeed/internal/domain/models"
	"newsfeed/internal/domain/repositories"
)

// PostgresArticleRepository implements the ArticleRepository interface
type PostgresArticleRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewArticleRepository creates a new PostgresArticleRepository
func NewArticleRepository(config *RepositoryConfig) repositories.ArticleRepository {
	return &PostgresArticleRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const articleColumns = "id, url, url_hash, title, source, language, category, published_at, fetched_at, summary"

// UpsertArticles inserts articles in one batch, refreshing rows that exist
func (r *PostgresArticleRepository) UpsertArticles(ctx context.Context, articles []*models.Article) error {
	if len(articles) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			summary = EXCLUDED.summary,
			fetched_at = EXCLUDED.fetched_at
	`, r.tables.ExternalArticles, articleColumns)

	batch := &pgx.Batch{}
	for _, a := range articles {
		batch.Queue(query,
			a.ID, a.URL, a.URLHash, a.Title, a.Source, a.Language,
			a.Category, a.PublishedAt, a.FetchedAt, a.Summary,
		)
	}

	executor := GetExecutor(ctx, r.pool)
	results := sendBatch(ctx, executor, r.pool, batch)
	defer func() { _ = results.Close() }()

	for range articles {
		if _, err := results.Exec(); err != nil {
			return storageErr("upsert articles", err)
		}
	}

	r.logger.Debug("articles upserted", "count", len(articles))
	return nil
}

// sendBatch routes the batch through the context transaction when present.
func sendBatch(ctx context.Context, executor repositories.DBTX, pool *pgxpool.Pool, batch *pgx.Batch) pgx.BatchResults {
	if tx, ok := executor.(pgx.Tx); ok {
		return tx.SendBatch(ctx, batch)
	}
	return pool.SendBatch(ctx, batch)
}

// GetArticle retrieves an article by ID
func (r *PostgresArticleRepository) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, articleColumns, r.tables.ExternalArticles)

	var a models.Article
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.URL, &a.URLHash, &a.Title, &a.Source, &a.Language,
		&a.Category, &a.PublishedAt, &a.FetchedAt, &a.Summary,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: "article not found", ErrCode: "article/not-found"}
		}
		return nil, storageErr("get article", err)
	}
	return &a, nil
}

// RecordAction stores a user action; repeating it refreshes occurred_at
func (r *PostgresArticleRepository) RecordAction(ctx context.Context, action *models.ArticleAction) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, article_id, action, occurred_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, article_id, action) DO UPDATE SET
			occurred_at = EXCLUDED.occurred_at
	`, r.tables.UserArticleActions)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query, action.UserID, action.ArticleID, string(action.Action), action.OccurredAt)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return &domain.NotFoundError{Message: "article not found", ErrCode: "article/not-found"}
		}
		return storageErr("record article action", err)
	}
	return nil
}

// ListActions returns actions newest first with their articles attached
func (r *PostgresArticleRepository) ListActions(ctx context.Context, userID uuid.UUID, action models.ActionType, limit int) ([]models.ArticleAction, error) {
	query := fmt.Sprintf(`
		SELECT act.user_id, act.article_id, act.action, act.occurred_at,
		       a.id, a.url, a.url_hash, a.title, a.source, a.language,
		       a.category, a.published_at, a.fetched_at, a.summary
		FROM %s act
		JOIN %s a ON a.id = act.article_id
		WHERE act.user_id = $1
		  AND ($2 = '' OR act.action = $2)
		ORDER BY act.occurred_at DESC
		LIMIT $3
	`, r.tables.UserArticleActions, r.tables.ExternalArticles)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID, string(action), limit)
	if err != nil {
		return nil, storageErr("list article actions", err)
	}
	defer rows.Close()

	actions := []models.ArticleAction{}
	for rows.Next() {
		var (
			act  models.ArticleAction
			a    models.Article
			kind string
		)
		if err := rows.Scan(
			&act.UserID, &act.ArticleID, &kind, &act.OccurredAt,
			&a.ID, &a.URL, &a.URLHash, &a.Title, &a.Source, &a.Language,
			&a.Category, &a.PublishedAt, &a.FetchedAt, &a.Summary,
		); err != nil {
			return nil, storageErr("scan article action", err)
		}
		act.Action = models.ActionType(kind)
		act.Article = &a
		actions = append(actions, act)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate article actions", err)
	}

	return actions, nil
}

// ArticleIDsWithAction returns IDs of articles the user acted on with action
func (r *PostgresArticleRepository) ArticleIDsWithAction(ctx context.Context, userID uuid.UUID, action models.ActionType) (map[string]struct{}, error) {
	query := fmt.Sprintf(`
		SELECT article_id FROM %s WHERE user_id = $1 AND action = $2
	`, r.tables.UserArticleActions)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID, string(action))
	if err != nil {
		return nil, storageErr("list acted article ids", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, storageErr("scan article id", err)
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate article ids", err)
	}
	return ids, nil
}
