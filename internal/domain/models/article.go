package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Article is an upstream article recorded when it is served to a user.
type Article struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	URLHash     string    `json:"urlHash"`
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	Language    string    `json:"language"`
	Category    string    `json:"category"`
	PublishedAt time.Time `json:"publishedAt"`
	FetchedAt   time.Time `json:"fetchedAt"`
	Summary     string    `json:"summary"`
}

// ArticleFromItem converts a newsdata item into a storable article.
func ArticleFromItem(item *NewsItem, fetchedAt time.Time) *Article {
	category := ""
	if len(item.Category) > 0 {
		category = item.Category[0]
	}
	published := item.PublishedAt()
	if published.IsZero() {
		published = fetchedAt
	}
	return &Article{
		ID:          item.StableID(),
		URL:         item.Link,
		URLHash:     URLHash(item.Link),
		Title:       item.Title,
		Source:      item.SourceID,
		Language:    item.Language,
		Category:    category,
		PublishedAt: published,
		FetchedAt:   fetchedAt,
		Summary:     item.Description,
	}
}

// ActionType is a user reaction to an article.
type ActionType string

const (
	ActionViewed    ActionType = "viewed"
	ActionSaved     ActionType = "saved"
	ActionLiked     ActionType = "liked"
	ActionDisliked  ActionType = "disliked"
	ActionDismissed ActionType = "dismissed"
)

// ParseActionType accepts any casing of a known action.
func ParseActionType(s string) (ActionType, bool) {
	switch a := ActionType(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionViewed, ActionSaved, ActionLiked, ActionDisliked, ActionDismissed:
		return a, true
	}
	return "", false
}

// ArticleAction records one user action on an article.
type ArticleAction struct {
	UserID     uuid.UUID  `json:"userId"`
	ArticleID  string     `json:"articleId"`
	Action     ActionType `json:"action"`
	OccurredAt time.Time  `json:"occurredAt"`
	Article    *Article   `json:"article,omitempty"`
}

// DigestResult is returned after a digest email is sent.
type DigestResult struct {
	SentTo string `json:"sentTo"`
	Count  int    `json:"count"`
}
