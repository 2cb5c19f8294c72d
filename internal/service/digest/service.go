package digest

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"newsfeed/internal/config"
	"newsfeed/internal/domain"
	"newsfeed/internal/domain/models"
	"newsfeed/internal/domain/repositories"
	"newsfeed/internal/domain/services"
	"newsfeed/internal/observability"
)

// Subject is the digest email subject line.
const Subject = "Your news digest"

//go:embed digest.html
var digestHTML string

var digestTemplate = template.Must(template.New("digest").Parse(digestHTML))

type digestView struct {
	Keywords string
	Items    []*models.NewsItem
	SentTo   string
}

// digestService implements services.DigestService
type digestService struct {
	users   repositories.UserRepository
	news    services.NewsService
	mailer  services.Mailer
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewDigestService creates a digest service
func NewDigestService(
	users repositories.UserRepository,
	news services.NewsService,
	mailer services.Mailer,
	metrics *observability.Metrics,
	logger *slog.Logger,
) services.DigestService {
	return &digestService{
		users:   users,
		news:    news,
		mailer:  mailer,
		metrics: metrics,
		logger:  logger,
	}
}

// ClampItems bounds a requested digest size.
func ClampItems(n int) int {
	return min(max(n, config.MinDigestItems), config.MaxDigestItems)
}

// Send emails the user's personalised feed
func (s *digestService) Send(ctx context.Context, userID uuid.UUID, maxItems int, language string) (*models.DigestResult, error) {
	maxItems = ClampItems(maxItems)
	s.logger.Info("digest send started", "user_id", userID, "max", maxItems, "language", language)

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.UnauthorizedError{Message: "User not found.", ErrCode: "email/user-missing"}
		}
		return nil, err
	}

	feed, err := s.news.ForUser(ctx, userID, models.NewsQuery{
		Language:         language,
		FallbackToLatest: true,
	})
	if err != nil {
		var ue *domain.UpstreamError
		if errors.As(err, &ue) && ue.ErrCode == "news/upstream-error" {
			remapped := *ue
			remapped.ErrCode = "email/upstream-error"
			s.logger.Warn("digest upstream error", "user_id", userID, "status", ue.Status)
			return nil, &remapped
		}
		return nil, err
	}

	items := feed.Results
	if len(items) > maxItems {
		items = items[:maxItems]
	}

	html, err := Render(user.Email, feed.Keywords, items)
	if err != nil {
		return nil, err
	}

	if err := s.mailer.SendHTML(ctx, user.Email, Subject, html); err != nil {
		return nil, err
	}
	s.metrics.IncDigestsSent()

	s.logger.Info("digest sent", "user_id", userID, "to", user.Email, "count", len(items))
	return &models.DigestResult{SentTo: user.Email, Count: len(items)}, nil
}

// Render builds the digest HTML. All values are escaped.
func Render(sentTo string, keywords []string, items []models.NewsItem) (string, error) {
	view := digestView{
		Keywords: "default feed",
		Items:    make([]*models.NewsItem, len(items)),
		SentTo:   sentTo,
	}
	if len(keywords) > 0 {
		view.Keywords = strings.Join(keywords, ", ")
	}
	for i := range items {
		view.Items[i] = &items[i]
	}

	var buf bytes.Buffer
	if err := digestTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render digest: %w", err)
	}
	return buf.String(), nil
}
