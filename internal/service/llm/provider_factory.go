package llm

import (
	"fmt"
	"net/http"

	"newsfeed/internal/config"
	llmSvc "newsfeed/internal/domain/services/llm"
	"newsfeed/internal/service/llm/providers/anthropic"
	"newsfeed/internal/service/llm/providers/openrouter"
)

// ProviderFactory creates completion clients from configuration
type ProviderFactory struct {
	config     *config.Config
	httpClient *http.Client
}

// NewProviderFactory creates a new provider factory. httpClient is shared
// by every provider (timeouts, request logging).
func NewProviderFactory(cfg *config.Config, httpClient *http.Client) *ProviderFactory {
	return &ProviderFactory{
		config:     cfg,
		httpClient: httpClient,
	}
}

// CreateClient returns a client for a model string such as
// "claude-haiku-4-5" or "openrouter/openai/gpt-4o-mini".
//
// Supported providers:
//   - "anthropic" - Claude models via Anthropic API
//   - "openrouter" - Any model via OpenRouter
func (f *ProviderFactory) CreateClient(modelStr string) (llmSvc.CompletionClient, error) {
	info, err := ParseModel(modelStr)
	if err != nil {
		return nil, err
	}

	switch info.Provider {
	case ProviderAnthropic:
		if f.config.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
		return anthropic.NewClient(f.config.AnthropicAPIKey, info.Model, f.httpClient)

	case ProviderOpenRouter:
		if f.config.OpenRouterAPIKey == "" {
			return nil, fmt.Errorf("OPENROUTER_API_KEY environment variable not set")
		}
		return openrouter.NewClient(f.config.OpenRouterAPIKey, info.Model, f.config.OpenRouterBaseURL, f.httpClient)

	default:
		return nil, fmt.Errorf("unsupported provider: %s", info.Provider)
	}
}
