package llm

import "context"

// CompletionClient is a single-turn, non-streaming language model call.
// Implementations hold no conversation state between calls.
type CompletionClient interface {
	// Complete sends a system instruction plus one user message and
	// returns the model's text.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name (e.g., "anthropic", "openrouter")
	Name() string
}

// CompletionRequest contains the parameters for one completion.
type CompletionRequest struct {
	System string
	User   string

	// Model overrides the client's default model when set.
	Model string

	Temperature *float64
	TopP        *float64
	MaxTokens   int
	Stop        []string

	// JSON asks providers that support it for a JSON object response.
	JSON bool
}

// CompletionResponse contains the provider's answer.
type CompletionResponse struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
	StopReason   string
}
