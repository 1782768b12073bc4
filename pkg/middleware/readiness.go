package middleware

import (
	"net/http"
	apperrors "staybook/pkg/errors"
)

// ReadinessGate answers 503 until ready reports true. Bookings accepted before
// the availability index is warm could double-book persisted dates.
func ReadinessGate(ready func() bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !ready() {
				w.Header().Set("Retry-After", "5")
				writeJSONError(w, http.StatusServiceUnavailable, apperrors.CodeUnavailable, "Service is starting up")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
