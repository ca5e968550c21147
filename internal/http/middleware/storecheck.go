package middleware

import (
	"net/http"

	"babelbox/internal/db"
)

// StoreCheckScope lets every store check within one request share a single ping.
func StoreCheckScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(db.WithCheckScope(r.Context())))
	})
}
