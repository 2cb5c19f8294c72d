package middleware

import (
	"net/http"
	"time"

	"newsfeed/internal/observability"
)

// Metrics records request count and latency per route pattern. It must
// wrap the mux directly so the matched pattern is visible.
func Metrics(m *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)
			m.ObserveHTTP(r.Method, routeOf(r), rec.status, time.Since(start))
		})
	}
}
