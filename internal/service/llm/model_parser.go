package llm

import (
	"fmt"
	"strings"
)

// Supported completion providers.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenRouter = "openrouter"
)

// ModelInfo contains parsed provider and model information
type ModelInfo struct {
	Provider string // "anthropic" or "openrouter"
	Model    string // Model identifier for that provider
}

// ParseModel extracts provider information from LLM_MODEL.
//
// Supported formats:
//   - "claude-haiku-4-5" → {anthropic, claude-haiku-4-5}
//   - "anthropic/claude-haiku-4-5" → {anthropic, claude-haiku-4-5}
//   - "openrouter/openai/gpt-4o-mini" → {openrouter, openai/gpt-4o-mini}
//   - "gpt-4o-mini" → {openrouter, openai/gpt-4o-mini}
//   - "gemini-2.0-flash" → {openrouter, google/gemini-2.0-flash}
//
// Models without a direct client are routed through OpenRouter using its
// vendor/model naming.
func ParseModel(modelStr string) (*ModelInfo, error) {
	modelStr = strings.TrimSpace(modelStr)
	if modelStr == "" {
		return nil, fmt.Errorf("model string cannot be empty")
	}

	if strings.Contains(modelStr, "/") {
		provider, model, _ := strings.Cut(modelStr, "/")
		if provider == "" {
			return nil, fmt.Errorf("provider cannot be empty in model string: %s", modelStr)
		}
		if model == "" {
			return nil, fmt.Errorf("model cannot be empty in model string: %s", modelStr)
		}

		provider = strings.ToLower(provider)
		switch provider {
		case ProviderAnthropic, ProviderOpenRouter:
			return &ModelInfo{Provider: provider, Model: model}, nil
		default:
			return nil, fmt.Errorf("unsupported provider %q in model string: %s", provider, modelStr)
		}
	}

	provider, vendor := inferProvider(modelStr)
	if provider == "" {
		return nil, fmt.Errorf("unable to infer provider from model: %s", modelStr)
	}

	model := modelStr
	if vendor != "" {
		model = vendor + "/" + modelStr
	}
	return &ModelInfo{Provider: provider, Model: model}, nil
}

// inferProvider infers the provider (and OpenRouter vendor prefix) from
// a bare model name.
func inferProvider(model string) (provider, vendor string) {
	modelLower := strings.ToLower(model)

	switch {
	case strings.HasPrefix(modelLower, "claude-"):
		return ProviderAnthropic, ""
	case strings.HasPrefix(modelLower, "gpt-"), strings.HasPrefix(modelLower, "o1-"),
		strings.HasPrefix(modelLower, "o3-"), strings.HasPrefix(modelLower, "o4-"):
		return ProviderOpenRouter, "openai"
	case strings.HasPrefix(modelLower, "gemini-"):
		return ProviderOpenRouter, "google"
	case strings.HasPrefix(modelLower, "llama-"):
		return ProviderOpenRouter, "meta-llama"
	case strings.HasPrefix(modelLower, "mistral-"):
		return ProviderOpenRouter, "mistralai"
	default:
		return "", ""
	}
}
