package services

import (
	"context"

	"newsfeed/internal/domain/models"
)

// Reranker orders articles by semantic similarity to an intent.
type Reranker interface {
	// Rerank returns items most relevant first. On failure the input
	// order is kept.
	Rerank(ctx context.Context, intent string, items []models.NewsItem) []models.NewsItem
}
