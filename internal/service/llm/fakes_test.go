package llm

import (
	"context"
	"io"
	"log/slog"

	llmSvc "newsfeed/internal/domain/services/llm"
)

// scriptedClient returns a fixed answer and records the last request.
type scriptedClient struct {
	text  string
	err   error
	calls int
	last  *llmSvc.CompletionRequest
}

func (c *scriptedClient) Name() string { return "scripted" }

func (c *scriptedClient) Complete(ctx context.Context, req *llmSvc.CompletionRequest) (*llmSvc.CompletionResponse, error) {
	c.calls++
	c.last = req
	if c.err != nil {
		return nil, c.err
	}
	return &llmSvc.CompletionResponse{Text: c.text, Model: "scripted-1"}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
