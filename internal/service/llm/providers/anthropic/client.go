package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"newsfeed/internal/domain"
	llmSvc "newsfeed/internal/domain/services/llm"
)

// Client implements llmSvc.CompletionClient for Anthropic (Claude) models.
type Client struct {
	client *anthropic.Client
	model  string
}

// NewClient creates an Anthropic completion client. The SDK's own retries
// are disabled; failures surface to the caller. extra is applied last
// (e.g. option.WithBaseURL).
func NewClient(apiKey, model string, httpClient *http.Client, extra ...option.RequestOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("anthropic model is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	opts = append(opts, extra...)
	client := anthropic.NewClient(opts...)

	return &Client{client: &client, model: model}, nil
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "anthropic"
}

// Complete sends one user message with a system instruction.
func (c *Client) Complete(ctx context.Context, req *llmSvc.CompletionRequest) (*llmSvc.CompletionResponse, error) {
	model := c.model
	if req.Model != "" {
		model = req.Model
	}

	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = llmSvc.DefaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.User)),
		},
	}

	if req.System != "" {
		params.System = []anthropic.TextBlockParam{
			{
				Type: "text",
				Text: req.System,
			},
		}
	}

	// The API rejects temperature and top_p together on newer models;
	// temperature wins when both are set.
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	} else if req.TopP != nil {
		params.TopP = anthropic.Float(*req.TopP)
	}

	if len(req.Stop) > 0 {
		params.StopSequences = req.Stop
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, domain.ClassifyUpstream("llm", fmt.Errorf("anthropic API call failed: %w", err))
	}

	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return &llmSvc.CompletionResponse{
		Text:         text.String(),
		Model:        string(message.Model),
		InputTokens:  int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
		StopReason:   string(message.StopReason),
	}, nil
}
