package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"newsfeed/internal/auth"
	"newsfeed/internal/httputil"
)

// RequireAuth validates the bearer token and stores the user id in the
// request context.
func RequireAuth(verifier auth.JWTVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("authentication failed", "path", r.URL.Path, "request_id", RequestIDFrom(r.Context()))
				unauthorized(w, "invalid or expired token")
				return
			}

			userID, err := uuid.Parse(claims.GetUserID())
			if err != nil {
				unauthorized(w, "invalid token subject")
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, userID))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="newsfeed"`)
	httputil.RespondErrorWithExtras(w, http.StatusUnauthorized, detail, map[string]any{"code": "auth/required"})
}
