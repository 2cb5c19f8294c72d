package llm

import (
	"context"
	"log/slog"
	"net/http"

	"newsfeed/internal/config"
	"newsfeed/internal/domain"
	llmSvc "newsfeed/internal/domain/services/llm"
	"newsfeed/internal/observability"
	"newsfeed/internal/resilience"
)

// Services holds the language-model backed components
type Services struct {
	Client    llmSvc.CompletionClient
	Prompts   llmSvc.PromptSource
	Extractor llmSvc.FilterExtractor
	Deduper   llmSvc.Deduper
}

// SetupServices builds the completion client for cfg.LLMModel and the
// components that use it. A missing API key does not fail startup: the
// client then reports every call as an upstream transport error.
func SetupServices(cfg *config.Config, httpClient *http.Client, metrics *observability.Metrics, logger *slog.Logger) *Services {
	prompts := NewPromptSource(cfg.PromptsDir)
	if cfg.PromptsDir != "" {
		logger.Info("prompts loaded from directory", "dir", cfg.PromptsDir)
	}

	var client llmSvc.CompletionClient
	base, err := NewProviderFactory(cfg, httpClient).CreateClient(cfg.LLMModel)
	if err != nil {
		logger.Warn("completion provider not available", "model", cfg.LLMModel, "error", err)
		client = &unavailableClient{reason: err.Error()}
	} else {
		breaker := resilience.NewBreaker("llm", resilience.BreakerSettings{}, logger)
		client = NewBreakerClient(base, breaker, metrics)
		logger.Info("provider available", "name", base.Name(), "model", cfg.LLMModel)
	}

	var dedupeClient llmSvc.CompletionClient
	if cfg.LLMDedupe && err == nil {
		dedupeClient = client
	}

	return &Services{
		Client:    client,
		Prompts:   prompts,
		Extractor: NewFilterExtractor(client, prompts, logger),
		Deduper:   NewDeduper(dedupeClient, prompts, logger),
	}
}

// unavailableClient stands in when no provider could be configured.
type unavailableClient struct {
	reason string
}

func (c *unavailableClient) Name() string { return "unavailable" }

func (c *unavailableClient) Complete(ctx context.Context, req *llmSvc.CompletionRequest) (*llmSvc.CompletionResponse, error) {
	return nil, &domain.UpstreamError{
		Kind:     domain.ErrUpstreamTransport,
		Upstream: "llm",
		Message:  "completion provider not configured: " + c.reason,
	}
}
