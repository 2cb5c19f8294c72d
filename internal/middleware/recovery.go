package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"newsfeed/internal/httputil"
)

// Recovery turns a handler panic into a 500 problem response. When the
// handler already started writing, the response is left as is and only
// the panic is logged. http.ErrAbortHandler is re-raised for net/http.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := newStatusRecorder(w)

			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}

				requestID := RequestIDFrom(r.Context())
				if requestID == "" {
					requestID = rec.Header().Get(RequestIDHeader)
				}
				logger.Error("panic recovered",
					"panic", fmt.Sprint(v),
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", requestID,
					"response_started", rec.wroteHeader,
					"stack", string(debug.Stack()),
				)
				if rec.wroteHeader {
					return
				}

				extras := map[string]any{"code": "internal"}
				if requestID != "" {
					extras["requestId"] = requestID
				}
				httputil.RespondErrorWithExtras(rec, http.StatusInternalServerError, "internal server error", extras)
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
