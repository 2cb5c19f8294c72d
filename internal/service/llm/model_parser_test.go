package llm

import (
	"testing"
)

func TestParseModel(t *testing.T) {
	tests := []struct {
		name         string
		modelStr     string
		wantProvider string
		wantModel    string
		wantErr      bool
	}{
		{
			name:         "claude-haiku with version",
			modelStr:     "claude-haiku-4-5",
			wantProvider: "anthropic",
			wantModel:    "claude-haiku-4-5",
		},
		{
			name:         "claude-sonnet with full version",
			modelStr:     "claude-sonnet-4-5-20250929",
			wantProvider: "anthropic",
			wantModel:    "claude-sonnet-4-5-20250929",
		},
		{
			name:         "explicit anthropic",
			modelStr:     "anthropic/claude-haiku-4-5",
			wantProvider: "anthropic",
			wantModel:    "claude-haiku-4-5",
		},
		{
			name:         "openrouter with full path",
			modelStr:     "openrouter/openai/gpt-4o-mini",
			wantProvider: "openrouter",
			wantModel:    "openai/gpt-4o-mini",
		},
		{
			name:         "provider is case-insensitive",
			modelStr:     "OpenRouter/anthropic/claude-haiku-4-5",
			wantProvider: "openrouter",
			wantModel:    "anthropic/claude-haiku-4-5",
		},
		{
			name:         "bare gpt routed through openrouter",
			modelStr:     "gpt-4o-mini",
			wantProvider: "openrouter",
			wantModel:    "openai/gpt-4o-mini",
		},
		{
			name:         "bare gemini routed through openrouter",
			modelStr:     "gemini-2.0-flash",
			wantProvider: "openrouter",
			wantModel:    "google/gemini-2.0-flash",
		},
		{
			name:     "unsupported explicit provider",
			modelStr: "bedrock/claude-haiku-4-5",
			wantErr:  true,
		},
		{
			name:     "empty string",
			modelStr: "  ",
			wantErr:  true,
		},
		{
			name:     "unknown model prefix",
			modelStr: "unknown-model-123",
			wantErr:  true,
		},
		{
			name:     "provider without model",
			modelStr: "anthropic/",
			wantErr:  true,
		},
		{
			name:     "model without provider",
			modelStr: "/claude-haiku-4-5",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseModel(tt.modelStr)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseModel() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("ParseModel() unexpected error: %v", err)
				return
			}

			if got.Provider != tt.wantProvider {
				t.Errorf("ParseModel() provider = %v, want %v", got.Provider, tt.wantProvider)
			}

			if got.Model != tt.wantModel {
				t.Errorf("ParseModel() model = %v, want %v", got.Model, tt.wantModel)
			}
		})
	}
}

func TestInferProvider(t *testing.T) {
	tests := []struct {
		name         string
		model        string
		wantProvider string
		wantVendor   string
	}{
		{"claude lowercase", "claude-haiku-4-5", "anthropic", ""},
		{"CLAUDE uppercase", "CLAUDE-HAIKU-4-5", "anthropic", ""},
		{"gpt lowercase", "gpt-4", "openrouter", "openai"},
		{"GPT uppercase", "GPT-4", "openrouter", "openai"},
		{"o1 model", "o1-preview", "openrouter", "openai"},
		{"gemini model", "gemini-pro", "openrouter", "google"},
		{"llama model", "llama-3.1-8b-instruct", "openrouter", "meta-llama"},
		{"unknown", "unknown-123", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, vendor := inferProvider(tt.model)
			if provider != tt.wantProvider || vendor != tt.wantVendor {
				t.Errorf("inferProvider() = %v, %v; want %v, %v", provider, vendor, tt.wantProvider, tt.wantVendor)
			}
		})
	}
}
