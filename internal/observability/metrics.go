package observability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"newsfeed/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	keywordsSaved  prometheus.Counter
	extractions    *prometheus.CounterVec
	upstream       *prometheus.CounterVec
	digestsSent    prometheus.Counter
	embeddingCache *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors under namespace.
func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		keywordsSaved: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "keywords_saved_total",
				Help:      "Keywords inserted into user preferences",
			},
		),
		extractions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "filter_extractions_total",
				Help:      "Natural language filter extractions by outcome",
			},
			[]string{"outcome"},
		),
		upstream: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_requests_total",
				Help:      "Calls to external services by outcome",
			},
			[]string{"upstream", "outcome"},
		),
		digestsSent: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "digests_sent_total",
				Help:      "Digest emails delivered",
			},
		),
		embeddingCache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "embedding_cache_total",
				Help:      "Embedding cache lookups by result",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.keywordsSaved,
		m.extractions,
		m.upstream,
		m.digestsSent,
		m.embeddingCache,
	)

	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// AddKeywordsSaved counts newly inserted keywords.
func (m *Metrics) AddKeywordsSaved(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.keywordsSaved.Add(float64(n))
}

// ObserveExtraction counts a filter extraction by its error class.
func (m *Metrics) ObserveExtraction(err error) {
	if m == nil {
		return
	}
	m.extractions.WithLabelValues(Outcome(err)).Inc()
}

// ObserveUpstream counts a call to an external service.
func (m *Metrics) ObserveUpstream(upstream string, err error) {
	if m == nil {
		return
	}
	m.upstream.WithLabelValues(upstream, Outcome(err)).Inc()
}

// IncDigestsSent counts one delivered digest.
func (m *Metrics) IncDigestsSent() {
	if m == nil {
		return
	}
	m.digestsSent.Inc()
}

// ObserveEmbeddingCache records a cache hit or miss.
func (m *Metrics) ObserveEmbeddingCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.embeddingCache.WithLabelValues(result).Inc()
}

// Outcome maps an error onto a low-cardinality label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrUpstreamContract):
		return "contract"
	case errors.Is(err, domain.ErrUpstreamTimeout):
		return "timeout"
	case errors.Is(err, domain.ErrUpstreamTransport):
		return "transport"
	default:
		return "error"
	}
}
