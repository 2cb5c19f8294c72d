package llm

import (
	"context"

	llmSvc "newsfeed/internal/domain/services/llm"
	"newsfeed/internal/observability"
	"newsfeed/internal/resilience"
)

// BreakerClient guards a CompletionClient with a circuit breaker and
// counts every call.
type BreakerClient struct {
	next    llmSvc.CompletionClient
	breaker *resilience.Breaker
	metrics *observability.Metrics
}

// NewBreakerClient wraps next
func NewBreakerClient(next llmSvc.CompletionClient, breaker *resilience.Breaker, metrics *observability.Metrics) *BreakerClient {
	return &BreakerClient{next: next, breaker: breaker, metrics: metrics}
}

// Name returns the wrapped provider's name.
func (c *BreakerClient) Name() string {
	return c.next.Name()
}

// Complete calls the wrapped client unless the breaker is open.
func (c *BreakerClient) Complete(ctx context.Context, req *llmSvc.CompletionRequest) (*llmSvc.CompletionResponse, error) {
	resp, err := resilience.Run(c.breaker, func() (*llmSvc.CompletionResponse, error) {
		return c.next.Complete(ctx, req)
	})
	c.metrics.ObserveUpstream("llm", err)
	return resp, err
}
