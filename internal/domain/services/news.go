package services

import (
	"context"

	"github.com/google/uuid"
	"newsfeed/internal/domain/models"
)

// NewsClient talks to the upstream news API.
type NewsClient interface {
	// Fetch performs one upstream request and returns the raw response.
	// Non-2xx responses are returned, not converted to errors.
	Fetch(ctx context.Context, q models.NewsQuery) (*models.ProxyResult, error)
}

// NewsService serves proxied and personalised news.
type NewsService interface {
	// Raw proxies a query with defaults applied.
	Raw(ctx context.Context, q models.NewsQuery) (*models.ProxyResult, error)

	// Search proxies a keyword search; q.Query is required.
	Search(ctx context.Context, q models.NewsQuery) (*models.ProxyResult, error)

	// ForUser builds a query from the user's keywords and settings.
	ForUser(ctx context.Context, userID uuid.UUID, q models.NewsQuery) (*models.Feed, error)
}
