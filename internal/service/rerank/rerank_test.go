package rerank

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"testing"

	"newsfeed/internal/domain"
	"newsfeed/internal/domain/models"
	"newsfeed/internal/resilience"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// tableEmbedder returns fixed vectors per text and counts calls.
type tableEmbedder struct {
	vectors map[string][]float32
	err     error
	calls   int
	seen    []string
}

func (e *tableEmbedder) Model() string { return "test-model" }

func (e *tableEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	e.calls++
	e.seen = append(e.seen, texts...)
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.vectors[t]
	}
	return out, nil
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		u, v []float32
		want float64
	}{
		{"identical", []float32{1, 2}, []float32{1, 2}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cosine(tt.u, tt.v); math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("Cosine = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestRerank(t *testing.T) {
	items := []models.NewsItem{
		{ArticleID: "sports", Title: "Match report"},
		{ArticleID: "ai", Title: "New model released"},
		{ArticleID: "mixed", Title: "AI at the stadium"},
		{ArticleID: "tie", Title: "Another match"},
	}
	emb := &tableEmbedder{vectors: map[string][]float32{
		"ai, ml":             {1, 0},
		"Match report":       {0, 1},
		"New model released": {1, 0.1},
		"AI at the stadium":  {1, 1},
		"Another match":      {0, 1},
	}}

	got := NewReranker(emb, discardLogger()).Rerank(context.Background(), "ai, ml", items)

	var ids []string
	for _, it := range got {
		ids = append(ids, it.ArticleID)
	}
	if want := []string{"ai", "mixed", "sports", "tie"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("order = %v, want %v", ids, want)
	}
}

func TestRerankKeepsOrderOnFailure(t *testing.T) {
	items := []models.NewsItem{{ArticleID: "1", Title: "a"}, {ArticleID: "2", Title: "b"}}
	emb := &tableEmbedder{err: errors.New("boom")}

	got := NewReranker(emb, discardLogger()).Rerank(context.Background(), "x", items)
	if !reflect.DeepEqual(got, items) {
		t.Errorf("order changed on failure: %v", got)
	}

	if got := NewReranker(emb, discardLogger()).Rerank(context.Background(), "  ", items); !reflect.DeepEqual(got, items) {
		t.Error("blank intent should not rerank")
	}
}

func TestCachedEmbedder(t *testing.T) {
	inner := &tableEmbedder{vectors: map[string][]float32{"a": {1}, "b": {2}, "c": {3}}}
	cached := NewCachedEmbedder(inner, 0, nil)

	first, err := cached.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := cached.Embed(context.Background(), []string{"b", "c", "a"})
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(first, [][]float32{{1}, {2}}) || !reflect.DeepEqual(second, [][]float32{{2}, {3}, {1}}) {
		t.Errorf("vectors = %v / %v", first, second)
	}
	if inner.calls != 2 || !reflect.DeepEqual(inner.seen, []string{"a", "b", "c"}) {
		t.Errorf("upstream saw %v in %d calls, want only misses", inner.seen, inner.calls)
	}
}

// redirectTransport sends every request to a test server.
type redirectTransport struct {
	target *url.URL
}

func (rt redirectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = rt.target.Scheme
	req.URL.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func TestCohereEmbedder(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/embed" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"e1","embeddings":{"float":[[0.5,1.5],[2,3]]},"texts":["a","b"],"meta":{}}`))
	}))
	defer srv.Close()

	target, _ := url.Parse(srv.URL)
	breaker := resilience.NewBreaker(Upstream, resilience.BreakerSettings{}, discardLogger())
	emb, err := NewCohereEmbedder("co-key", "", &http.Client{Transport: redirectTransport{target: target}}, breaker, nil)
	if err != nil {
		t.Fatal(err)
	}

	vecs, err := emb.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if !reflect.DeepEqual(vecs, [][]float32{{0.5, 1.5}, {2, 3}}) {
		t.Errorf("vectors = %v", vecs)
	}
	if got["model"] != "embed-english-v3.0" || got["input_type"] != "search_document" {
		t.Errorf("request = %v", got)
	}
}

func TestCohereEmbedderCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"e1","embeddings":{"float":[[1]]},"meta":{}}`))
	}))
	defer srv.Close()

	target, _ := url.Parse(srv.URL)
	breaker := resilience.NewBreaker(Upstream, resilience.BreakerSettings{}, discardLogger())
	emb, _ := NewCohereEmbedder("k", "embed-multilingual-v3.0", &http.Client{Transport: redirectTransport{target: target}}, breaker, nil)

	_, err := emb.Embed(context.Background(), []string{"a", "b"})
	if !errors.Is(err, domain.ErrUpstreamContract) {
		t.Errorf("error = %v, want contract", err)
	}
}
