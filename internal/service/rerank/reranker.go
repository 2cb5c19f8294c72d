package rerank

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strings"

	"newsfeed/internal/domain/models"
	"newsfeed/internal/domain/services"
)

// reranker orders articles by cosine similarity to an intent.
type reranker struct {
	embedder Embedder
	logger   *slog.Logger
}

// NewReranker creates a reranker backed by embedder
func NewReranker(embedder Embedder, logger *slog.Logger) services.Reranker {
	return &reranker{embedder: embedder, logger: logger}
}

// Rerank sorts items by similarity, most similar first. Ties keep input
// order. Any embedding failure returns items unchanged.
func (r *reranker) Rerank(ctx context.Context, intent string, items []models.NewsItem) []models.NewsItem {
	intent = strings.TrimSpace(intent)
	if intent == "" || len(items) < 2 {
		return items
	}

	texts := make([]string, 0, len(items)+1)
	texts = append(texts, intent)
	for i := range items {
		texts = append(texts, items[i].Text())
	}

	vecs, err := r.embedder.Embed(ctx, texts)
	if err != nil {
		r.logger.Warn("rerank skipped", "error", err, "items", len(items))
		return items
	}

	type scored struct {
		item  models.NewsItem
		score float64
	}
	ranked := make([]scored, len(items))
	for i := range items {
		ranked[i] = scored{item: items[i], score: Cosine(vecs[0], vecs[i+1])}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	out := make([]models.NewsItem, len(ranked))
	for i, s := range ranked {
		out[i] = s.item
	}

	r.logger.Debug("articles reranked", "items", len(out), "top_score", ranked[0].score)
	return out
}

// Cosine returns the cosine similarity of u and v over their common
// length. Zero vectors score 0.
func Cosine(u, v []float32) float64 {
	n := min(len(u), len(v))
	var dot, nu, nv float64
	for i := 0; i < n; i++ {
		a, b := float64(u[i]), float64(v[i])
		dot += a * b
		nu += a * a
		nv += b * b
	}
	return dot / (math.Sqrt(nu)*math.Sqrt(nv) + 1e-9)
}
