package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/mealroute/hospital-meal-service/internal/auth"
)

// AuthMiddleware parses and verifies the request token and stores the
// resulting principal in the request context. Requests without a valid
// token are rejected with 401 before any handler runs. The token may
// arrive as a Bearer header or, for EventSource clients that cannot set
// headers, as a token query parameter.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := auth.ParseFromRequest(r, secret)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "authentication required",
				})
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
		})
	}
}
