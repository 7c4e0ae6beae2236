package middleware

import (
	"net/http"

	"github.com/angelmondragon/footballzones-backend/api/responses"
)

// ErrorDetail toggles stack and validation details in error bodies.
func ErrorDetail(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(responses.WithErrorDetail(r.Context(), enabled)))
		})
	}
}
