package chi

import (
	"crypto/subtle"
	"net/http"
	"slices"
	"strings"
)

// Probes and scrapes stay reachable without a key.
var publicPaths = []string{"/health", "/metrics"}

// BearerAuthMiddleware rejects requests whose "Authorization: Bearer <key>"
// header does not carry one of apiKeys. Blank keys are ignored; with none
// left the middleware is a no-op.
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	var keys [][]byte
	for _, k := range apiKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, []byte(k))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(publicPaths, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			header := r.Header.Get("Authorization")
			if header == "" {
				writeError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				writeError(w, http.StatusUnauthorized, "authorization header must use Bearer scheme")
				return
			}
			if !matchesAny(keys, []byte(token)) {
				writeError(w, http.StatusUnauthorized, "invalid api key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// matchesAny compares token against every key in constant time.
func matchesAny(keys [][]byte, token []byte) bool {
	hit := 0
	for _, k := range keys {
		hit |= subtle.ConstantTimeCompare(k, token)
	}
	return hit == 1
}
