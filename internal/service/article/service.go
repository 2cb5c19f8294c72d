package article

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"newsfeed/internal/domain"
	"newsfeed/internal/domain/models"
	"newsfeed/internal/domain/repositories"
	"newsfeed/internal/domain/services"
)

// listLimit caps ListActions results.
const listLimit = 100

// articleService implements services.ArticleService
type articleService struct {
	repo   repositories.ArticleRepository
	now    func() time.Time
	logger *slog.Logger
}

// NewArticleService creates a new article service
func NewArticleService(repo repositories.ArticleRepository, logger *slog.Logger) services.ArticleService {
	return &articleService{repo: repo, now: time.Now, logger: logger}
}

// Remember upserts the articles a user was served. Items without a link
// are skipped.
func (s *articleService) Remember(ctx context.Context, items []models.NewsItem) error {
	fetchedAt := s.now().UTC()
	articles := make([]*models.Article, 0, len(items))
	seen := make(map[string]struct{}, len(items))

	for i := range items {
		if strings.TrimSpace(items[i].Link) == "" {
			continue
		}
		a := models.ArticleFromItem(&items[i], fetchedAt)
		if _, dup := seen[a.ID]; dup {
			continue
		}
		seen[a.ID] = struct{}{}
		articles = append(articles, a)
	}

	if err := s.repo.UpsertArticles(ctx, articles); err != nil {
		return fmt.Errorf("remember articles: %w", err)
	}
	return nil
}

// RecordAction stores a reaction to a known article
func (s *articleService) RecordAction(ctx context.Context, userID uuid.UUID, articleID string, req *services.RecordActionRequest) (*models.ArticleAction, error) {
	action, ok := models.ParseActionType(req.Action)
	if !ok {
		return nil, domain.NewValidationError("article/action",
			fmt.Sprintf("action must be one of viewed, saved, liked, disliked, dismissed; got %q", req.Action))
	}

	articleID = strings.TrimSpace(articleID)
	if articleID == "" {
		return nil, domain.NewValidationError("article/id-required", "article id is required")
	}

	article, err := s.repo.GetArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}

	record := &models.ArticleAction{
		UserID:     userID,
		ArticleID:  article.ID,
		Action:     action,
		OccurredAt: s.now().UTC(),
		Article:    article,
	}
	if err := s.repo.RecordAction(ctx, record); err != nil {
		return nil, fmt.Errorf("record action: %w", err)
	}

	s.logger.Info("article action recorded", "user_id", userID, "article_id", article.ID, "action", action)
	return record, nil
}

// ListActions returns the user's recent actions; an empty filter means all
func (s *articleService) ListActions(ctx context.Context, userID uuid.UUID, action string) ([]models.ArticleAction, error) {
	var filter models.ActionType
	if strings.TrimSpace(action) != "" {
		parsed, ok := models.ParseActionType(action)
		if !ok {
			return nil, domain.NewValidationError("article/action", fmt.Sprintf("unknown action %q", action))
		}
		filter = parsed
	}

	actions, err := s.repo.ListActions(ctx, userID, filter, listLimit)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	return actions, nil
}

// Hidden returns IDs of articles the user dismissed
func (s *articleService) Hidden(ctx context.Context, userID uuid.UUID) (map[string]struct{}, error) {
	return s.repo.ArticleIDsWithAction(ctx, userID, models.ActionDismissed)
}
