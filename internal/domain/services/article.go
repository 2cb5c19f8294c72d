package services

import (
	"context"

	"github.com/google/uuid"
	"newsfeed/internal/domain/models"
)

// RecordActionRequest is the body of POST /api/articles/{id}/actions
type RecordActionRequest struct {
	Action string `json:"action"`
}

// ArticleService tracks served articles and user reactions.
type ArticleService interface {
	// Remember stores the articles a user was shown.
	Remember(ctx context.Context, items []models.NewsItem) error

	RecordAction(ctx context.Context, userID uuid.UUID, articleID string, req *RecordActionRequest) (*models.ArticleAction, error)

	// ListActions returns the user's actions, optionally of one type.
	ListActions(ctx context.Context, userID uuid.UUID, action string) ([]models.ArticleAction, error)

	// Hidden returns article IDs the user dismissed.
	Hidden(ctx context.Context, userID uuid.UUID) (map[string]struct{}, error)
}
