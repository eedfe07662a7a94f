package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/render"
)

// BearerAuth returns middleware that validates the Authorization header
// against the configured API token. If the token is missing or invalid, it
// responds 401 and never calls the next handler.
func BearerAuth(validToken string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				unauthorized(w, r, "missing authorization header")
				return
			}

			token := strings.TrimPrefix(auth, "Bearer ")
			if token != validToken {
				unauthorized(w, r, "invalid token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, map[string]string{"error": msg})
}
