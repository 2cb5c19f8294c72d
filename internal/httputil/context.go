package httputil

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type userIDKey struct{}

// WithUserID returns a shallow copy of r whose context carries the
// authenticated user's id.
func WithUserID(r *http.Request, userID uuid.UUID) *http.Request {
	return r.WithContext(ContextWithUserID(r.Context(), userID))
}

// ContextWithUserID stores the user id in ctx.
func ContextWithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFromContext returns the stored user id. ok is false for
// anonymous requests and for uuid.Nil.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey{}).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// GetUserID is UserIDFromContext for a request.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	return UserIDFromContext(r.Context())
}
