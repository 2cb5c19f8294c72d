package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"newsfeed/internal/httputil"
	"newsfeed/internal/ratelimit"
)

// KeyFunc picks the identity a request is limited by. An empty key skips
// limiting.
type KeyFunc func(r *http.Request) string

// ByUser keys on the authenticated user; use behind RequireAuth.
func ByUser(r *http.Request) string {
	if id, ok := httputil.GetUserID(r); ok {
		return "user:" + id.String()
	}
	return ""
}

// ByIP keys on the client address.
func ByIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

// RateLimit rejects requests over the limiter's budget with 429. Limiter
// errors let the request through.
func RateLimit(limiter ratelimit.Limiter, key KeyFunc, retryAfterSeconds int, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if k == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowed, err := limiter.Allow(r.Context(), k)
			if err != nil {
				logger.Warn("rate limiter unavailable, allowing request", "key", k, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				logger.Info("rate limited", "key", k, "path", r.URL.Path)
				if retryAfterSeconds > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
				}
				httputil.RespondErrorWithExtras(w, http.StatusTooManyRequests, "too many requests",
					map[string]any{"code": "rate/limited"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
