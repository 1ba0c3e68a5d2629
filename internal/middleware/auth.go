package middleware

import (
	"net/http"
	"strings"

	"questcms/internal/auth"
	"questcms/internal/httputil"
)

// Auth validates the Bearer token on every request except the health check
// and stores the authenticated reviewer identity in the request context.
func Auth(verifier auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			tokenString, found := strings.CutPrefix(header, "Bearer ")
			if !found || tokenString == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(tokenString)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			reviewer := claims.Email
			if reviewer == "" {
				reviewer = claims.Subject
			}

			next.ServeHTTP(w, httputil.WithReviewer(r, reviewer))
		})
	}
}
