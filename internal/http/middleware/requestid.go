package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// EchoRequestID returns the request id assigned by chimw.RequestID to the
// caller. It must run after RequestID.
func EchoRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimw.GetReqID(r.Context()); id != "" {
			w.Header().Set(chimw.RequestIDHeader, id)
		}
		next.ServeHTTP(w, r)
	})
}
