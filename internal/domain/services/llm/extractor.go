package llm

import (
	"context"

	"newsfeed/internal/domain/models"
)

// FilterExtractor turns a free-text news request into a NewsFilterSpec.
type FilterExtractor interface {
	// Extract fails with domain.ErrValidation for a blank query and
	// domain.ErrUpstreamContract when the model output has no usable spec.
	Extract(ctx context.Context, query string) (*models.NewsFilterSpec, error)
}

// Deduper collapses articles that report the same story.
type Deduper interface {
	// Dedupe returns the items to keep, in input order. Failures degrade
	// to returning the input unchanged.
	Dedupe(ctx context.Context, items []models.NewsItem) []models.NewsItem
}
