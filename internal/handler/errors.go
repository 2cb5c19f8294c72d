package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"newsfeed/internal/domain"
	"newsfeed/internal/httputil"
)

// handleError converts domain errors to RFC 7807 responses. The stable
// error code is sent as the "code" member.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.StatusCode()
	}

	code := "internal"
	var coded domain.CodedError
	if errors.As(err, &coded) && coded.Code() != "" {
		code = coded.Code()
	}

	extras := map[string]any{"code": code}
	detail := err.Error()

	var upstreamErr *domain.UpstreamError
	switch {
	case errors.As(err, &upstreamErr):
		detail = upstreamErr.Message
		if upstreamErr.Status != 0 {
			extras["upstreamStatus"] = upstreamErr.Status
		}
		logger.Warn("upstream failure",
			"upstream", upstreamErr.Upstream,
			"code", code,
			"error", err,
		)
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "code", code, "error", err)
		detail = "internal server error"
	}

	httputil.RespondErrorWithExtras(w, status, detail, extras)
}

// badRequest reports malformed input that never reached a service.
func badRequest(w http.ResponseWriter, code, detail string) {
	httputil.RespondErrorWithExtras(w, http.StatusBadRequest, detail, map[string]any{"code": code})
}

// requireUser returns the authenticated user or writes a 401.
func requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := httputil.GetUserID(r)
	if !ok {
		httputil.RespondErrorWithExtras(w, http.StatusUnauthorized, "authentication required",
			map[string]any{"code": "auth/required"})
		return id, false
	}
	return id, true
}
