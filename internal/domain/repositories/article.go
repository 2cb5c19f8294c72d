package repositories

import (
	"context"

	"github.com/google/uuid"
	"newsfeed/internal/domain/models"
)

// ArticleRepository records served articles and user reactions to them.
type ArticleRepository interface {
	// UpsertArticles inserts or refreshes articles by ID.
	UpsertArticles(ctx context.Context, articles []*models.Article) error

	// GetArticle returns domain.ErrNotFound for unknown IDs.
	GetArticle(ctx context.Context, id string) (*models.Article, error)

	// RecordAction stores one action; repeating an action refreshes its time.
	RecordAction(ctx context.Context, action *models.ArticleAction) error

	// ListActions returns the user's actions newest first, optionally
	// filtered by type (empty = all), with the article attached.
	ListActions(ctx context.Context, userID uuid.UUID, action models.ActionType, limit int) ([]models.ArticleAction, error)

	// ArticleIDsWithAction returns the set of article IDs the user has
	// acted on with the given type.
	ArticleIDsWithAction(ctx context.Context, userID uuid.UUID, action models.ActionType) (map[string]struct{}, error)
}
