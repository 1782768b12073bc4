package middleware

import (
	"context"
	"net/http"
	"strings"
)

const (
	UserIDHeader    = "X-User-ID"
	maxUserIDLength = 128
)

const UserIDKey contextKey = "user_id"

// Identity copies the already-authenticated caller id set by the gateway into
// the request context. It never rejects a request; handlers that need a
// caller decide that themselves.
func Identity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
			if userID != "" && len(userID) <= maxUserIDLength {
				r = r.WithContext(WithUserID(r.Context(), userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}
