package rerank

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
	"github.com/patrickmn/go-cache"

	"newsfeed/internal/domain"
	"newsfeed/internal/observability"
	"newsfeed/internal/resilience"
)

// Upstream names the embeddings API in errors and metrics.
const Upstream = "cohere"

// Embedder turns texts into vectors, one per input, in order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Model() string
}

// CohereEmbedder implements Embedder with the Cohere v2 embed API.
type CohereEmbedder struct {
	client  *cohereclient.Client
	model   string
	breaker *resilience.Breaker
	metrics *observability.Metrics
}

// NewCohereEmbedder creates an embedder. httpClient should carry the
// upstream timeout and logging transport.
func NewCohereEmbedder(apiKey, model string, httpClient *http.Client, breaker *resilience.Breaker, metrics *observability.Metrics) (*CohereEmbedder, error) {
	if apiKey == "" {
		return nil, errors.New("cohere API key is required")
	}
	if model == "" {
		model = "embed-english-v3.0"
	}
	client := cohereclient.NewClient(
		cohereclient.WithToken(apiKey),
		cohereclient.WithHTTPClient(httpClient),
	)
	return &CohereEmbedder{client: client, model: model, breaker: breaker, metrics: metrics}, nil
}

// Model returns the embedding model name.
func (c *CohereEmbedder) Model() string {
	return c.model
}

// Embed requests float embeddings for texts in one call.
func (c *CohereEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	out, err := resilience.Run(c.breaker, func() ([][]float32, error) {
		return c.embed(ctx, texts)
	})
	c.metrics.ObserveUpstream(Upstream, err)
	return out, err
}

func (c *CohereEmbedder) embed(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := c.client.V2.Embed(ctx, &cohere.V2EmbedRequest{
		Texts:          texts,
		Model:          c.model,
		InputType:      cohere.EmbedInputTypeSearchDocument,
		EmbeddingTypes: []cohere.EmbeddingType{cohere.EmbeddingTypeFloat},
	})
	if err != nil {
		return nil, domain.ClassifyUpstream(Upstream, fmt.Errorf("cohere embed: %w", err))
	}
	if resp == nil || resp.Embeddings == nil || resp.Embeddings.Float == nil {
		return nil, domain.NewContractError(Upstream, "no float embeddings in response")
	}

	floats := resp.Embeddings.Float
	if len(floats) != len(texts) {
		return nil, domain.NewContractError(Upstream,
			fmt.Sprintf("embedding count mismatch: got %d, want %d", len(floats), len(texts)))
	}

	out := make([][]float32, len(floats))
	for i, vec := range floats {
		fv := make([]float32, len(vec))
		for j, v := range vec {
			fv[j] = float32(v)
		}
		out[i] = fv
	}
	return out, nil
}

// CachedEmbedder memoizes vectors per (model, text) and only sends
// misses upstream.
type CachedEmbedder struct {
	next    Embedder
	cache   *cache.Cache
	metrics *observability.Metrics
}

// NewCachedEmbedder wraps next with an in-process cache of the given TTL.
func NewCachedEmbedder(next Embedder, ttl time.Duration, metrics *observability.Metrics) *CachedEmbedder {
	return &CachedEmbedder{
		next:    next,
		cache:   cache.New(ttl, 2*ttl),
		metrics: metrics,
	}
}

// Model returns the wrapped model name.
func (c *CachedEmbedder) Model() string {
	return c.next.Model()
}

// Embed serves cached vectors and embeds the rest in one call.
func (c *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var missTexts []string
	var missIdx []int

	for i, t := range texts {
		if v, ok := c.cache.Get(c.key(t)); ok {
			out[i] = v.([]float32)
			c.metrics.ObserveEmbeddingCache(true)
			continue
		}
		c.metrics.ObserveEmbeddingCache(false)
		missTexts = append(missTexts, t)
		missIdx = append(missIdx, i)
	}

	if len(missTexts) == 0 {
		return out, nil
	}

	vecs, err := c.next.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	for j, v := range vecs {
		out[missIdx[j]] = v
		c.cache.SetDefault(c.key(missTexts[j]), v)
	}
	return out, nil
}

func (c *CachedEmbedder) key(text string) string {
	sum := sha256.Sum256([]byte(c.next.Model() + "|" + text))
	return hex.EncodeToString(sum[:])
}
