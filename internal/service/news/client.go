package news

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"newsfeed/internal/domain"
	"newsfeed/internal/domain/models"
	"newsfeed/internal/domain/services"
	"newsfeed/internal/observability"
	"newsfeed/internal/resilience"
)

// Upstream names the news API in errors and metrics.
const Upstream = "newsdata"

// maxBodyBytes bounds how much of an upstream response is read.
const maxBodyBytes = 8 << 20

// client calls the newsdata.io /news endpoint.
type client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *resilience.Breaker
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a newsdata.io client. httpClient should carry the
// upstream timeout and logging transport.
func NewClient(
	baseURL, apiKey string,
	httpClient *http.Client,
	breaker *resilience.Breaker,
	metrics *observability.Metrics,
	logger *slog.Logger,
) services.NewsClient {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
		breaker:    breaker,
		metrics:    metrics,
		logger:     logger,
	}
}

// buildURL renders the request URL. Empty parameters are omitted.
func (c *client) buildURL(q models.NewsQuery, fromDate string) string {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	setIf(params, "language", q.Language)
	setIf(params, "country", q.Country)
	setIf(params, "category", q.Category)
	setIf(params, "q", q.Query)
	setIf(params, "from_date", fromDate)
	return c.baseURL + "news?" + params.Encode()
}

func setIf(v url.Values, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		v.Set(key, value)
	}
}

// Fetch performs one GET. Non-2xx responses are returned as results.
func (c *client) Fetch(ctx context.Context, q models.NewsQuery) (*models.ProxyResult, error) {
	if c.apiKey == "" {
		return nil, &domain.UpstreamError{
			Kind:     domain.ErrUpstreamTransport,
			Upstream: Upstream,
			Message:  "news API key not configured",
		}
	}

	// An unknown time window adds no from_date
	var fromDate string
	if tw, ok := models.ParseTimeWindow(q.TimeWindow); ok {
		fromDate = tw.FromDate(timeNow())
	}
	target := c.buildURL(q, fromDate)

	result, err := resilience.Run(c.breaker, func() (*models.ProxyResult, error) {
		return c.do(ctx, target)
	})
	c.metrics.ObserveUpstream(Upstream, err)
	if err != nil {
		return nil, err
	}

	if result.StatusCode < 200 || result.StatusCode > 299 {
		c.logger.Warn("news API returned non-success status",
			"status", result.StatusCode,
			"body_len", len(result.Body),
		)
	}
	return result, nil
}

func (c *client) do(ctx context.Context, target string) (*models.ProxyResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build news request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.ClassifyUpstream(Upstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, domain.ClassifyUpstream(Upstream, fmt.Errorf("read body: %w", err))
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}

	return &models.ProxyResult{
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        body,
	}, nil
}
