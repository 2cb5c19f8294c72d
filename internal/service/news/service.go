package news

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"newsfeed/internal/domain"
	"newsfeed/internal/domain/models"
	"newsfeed/internal/domain/repositories"
	"newsfeed/internal/domain/services"
	llmSvc "newsfeed/internal/domain/services/llm"
)

// timeNow is replaced in tests.
var timeNow = time.Now

// rawFallbackQuery is used by Raw when neither the caller nor config
// supplies a query.
const rawFallbackQuery = "tech"

// NoPreferencesMessage accompanies an empty personalised feed.
const NoPreferencesMessage = "No preferences set."

// maxErrorBody bounds the upstream body quoted in error messages.
const maxErrorBody = 512

// Defaults are server-wide query defaults from configuration.
type Defaults struct {
	Language string
	Query    string
	Country  string
	Category string
}

// newsService implements services.NewsService
type newsService struct {
	client   services.NewsClient
	keywords repositories.KeywordRepository
	settings repositories.SettingsRepository
	articles services.ArticleService
	deduper  llmSvc.Deduper
	reranker services.Reranker
	defaults Defaults
	logger   *slog.Logger
}

// NewNewsService creates a news service. articles, deduper and reranker
// are optional.
func NewNewsService(
	client services.NewsClient,
	keywords repositories.KeywordRepository,
	settings repositories.SettingsRepository,
	articles services.ArticleService,
	deduper llmSvc.Deduper,
	reranker services.Reranker,
	defaults Defaults,
	logger *slog.Logger,
) services.NewsService {
	if defaults.Language == "" {
		defaults.Language = "en"
	}
	return &newsService{
		client:   client,
		keywords: keywords,
		settings: settings,
		articles: articles,
		deduper:  deduper,
		reranker: reranker,
		defaults: defaults,
		logger:   logger,
	}
}

// Raw proxies a query, filling gaps from configuration
func (s *newsService) Raw(ctx context.Context, q models.NewsQuery) (*models.ProxyResult, error) {
	q.Query = firstNonBlank(q.Query, s.defaults.Query, rawFallbackQuery)
	q.Language = firstNonBlank(q.Language, s.defaults.Language)
	q.Country = firstNonBlank(q.Country, s.defaults.Country)
	q.Category = firstNonBlank(q.Category, s.defaults.Category)

	return s.client.Fetch(ctx, q)
}

// Search proxies a keyword search
func (s *newsService) Search(ctx context.Context, q models.NewsQuery) (*models.ProxyResult, error) {
	if strings.TrimSpace(q.Query) == "" {
		return nil, domain.NewValidationError("news/q-required", "q required")
	}

	return s.client.Fetch(ctx, models.NewsQuery{
		Query:      q.Query,
		Language:   firstNonBlank(q.Language, s.defaults.Language),
		TimeWindow: q.TimeWindow,
	})
}

// ForUser fetches news matching the user's keywords
func (s *newsService) ForUser(ctx context.Context, userID uuid.UUID, q models.NewsQuery) (*models.Feed, error) {
	keywords, err := s.keywords.ListKeywords(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load keywords: %w", err)
	}

	settings, err := s.settings.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if settings == nil {
		settings = &models.UserSettings{}
	}

	upstream := models.NewsQuery{
		Language:   firstNonBlank(q.Language, settings.Language(), s.defaults.Language),
		Category:   firstNonBlank(q.Category, settings.Category(), s.defaults.Category),
		TimeWindow: firstNonBlank(q.TimeWindow, settings.TimeWindow()),
		Country:    settings.Country(),
	}

	if len(keywords) > 0 {
		upstream.Query = KeywordQuery(keywords)
	} else {
		upstream.Query = s.defaults.Query
		upstream.Country = firstNonBlank(upstream.Country, s.defaults.Country)
		if upstream.Query == "" && !q.FallbackToLatest {
			s.logger.Debug("no keywords and no default query", "user_id", userID)
			return &models.Feed{
				Status:  "success",
				Results: []models.NewsItem{},
				Message: NoPreferencesMessage,
			}, nil
		}
	}

	result, err := s.client.Fetch(ctx, upstream)
	if err != nil {
		return nil, err
	}
	if result.StatusCode < 200 || result.StatusCode > 299 {
		return nil, UpstreamStatusError("news/upstream-error", result)
	}

	var parsed models.NewsResponse
	if err := json.Unmarshal(result.Body, &parsed); err != nil {
		return nil, domain.NewContractError(Upstream, "news API response is not valid JSON")
	}

	cleanItems(parsed.Results)
	items := s.dropHidden(ctx, userID, parsed.Results)
	if s.deduper != nil {
		items = s.deduper.Dedupe(ctx, items)
	}
	if s.reranker != nil && len(keywords) > 0 {
		items = s.reranker.Rerank(ctx, strings.Join(keywords, ", "), items)
	}
	if s.articles != nil {
		if err := s.articles.Remember(ctx, items); err != nil {
			s.logger.Warn("failed to record served articles", "user_id", userID, "error", err)
		}
	}

	if items == nil {
		items = []models.NewsItem{}
	}

	s.logger.Info("personalised feed served",
		"user_id", userID,
		"keywords", len(keywords),
		"upstream_results", len(parsed.Results),
		"results", len(items),
	)

	return &models.Feed{
		Status:       firstNonBlank(parsed.Status, "success"),
		TotalResults: parsed.TotalResults,
		Results:      items,
		Keywords:     keywords,
	}, nil
}

// dropHidden removes articles the user dismissed. Lookup failures keep
// every article.
func (s *newsService) dropHidden(ctx context.Context, userID uuid.UUID, items []models.NewsItem) []models.NewsItem {
	if s.articles == nil || len(items) == 0 {
		return items
	}
	hidden, err := s.articles.Hidden(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load dismissed articles", "user_id", userID, "error", err)
		return items
	}
	if len(hidden) == 0 {
		return items
	}

	kept := make([]models.NewsItem, 0, len(items))
	for _, it := range items {
		if _, ok := hidden[it.StableID()]; !ok {
			kept = append(kept, it)
		}
	}
	return kept
}

// KeywordQuery joins keywords as quoted OR terms: "a" OR "b".
func KeywordQuery(keywords []string) string {
	quoted := make([]string, len(keywords))
	for i, k := range keywords {
		quoted[i] = `"` + k + `"`
	}
	return strings.Join(quoted, " OR ")
}

// UpstreamStatusError reports a non-2xx news API response under code.
func UpstreamStatusError(code string, result *models.ProxyResult) error {
	body := string(result.Body)
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &domain.UpstreamError{
		Kind:     domain.ErrUpstreamTransport,
		Upstream: Upstream,
		ErrCode:  code,
		Message:  fmt.Sprintf("News API error %d: %s", result.StatusCode, body),
		Status:   result.StatusCode,
	}
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
