package httputil

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// redactedParams are query parameters never written to logs.
var redactedParams = []string{"apikey", "api_key", "key", "token"}

// LoggingTransport logs every outbound request with its status and
// duration. Credentials in the query string are redacted.
type LoggingTransport struct {
	Base   http.RoundTripper
	Logger *slog.Logger
}

// NewLoggingClient returns an http.Client with a LoggingTransport and the
// given overall timeout.
func NewLoggingClient(timeout time.Duration, logger *slog.Logger) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &LoggingTransport{Base: http.DefaultTransport, Logger: logger},
	}
}

// RoundTrip implements http.RoundTripper
func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	start := time.Now()
	resp, err := base.RoundTrip(req)
	elapsed := time.Since(start)

	attrs := []any{
		"method", req.Method,
		"host", req.URL.Host,
		"path", req.URL.Path,
		"query", RedactQuery(req.URL),
		"duration_ms", elapsed.Milliseconds(),
	}

	if err != nil {
		t.Logger.Error("outbound request failed", append(attrs, "error", err.Error())...)
		return nil, err
	}

	t.Logger.Info("outbound request", append(attrs, "status", resp.StatusCode)...)
	return resp, nil
}

// RedactQuery returns the encoded query with credential values masked.
func RedactQuery(u *url.URL) string {
	q := u.Query()
	for _, p := range redactedParams {
		if q.Has(p) {
			q.Set(p, "REDACTED")
		}
	}
	return q.Encode()
}
