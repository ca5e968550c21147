package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// CORS opens the item, category and validate endpoints to the front end.
// A caller-supplied X-Request-Id is kept by chi's RequestID and echoed by
// EchoRequestID, so the header is both allowed and exposed.
func CORS(allowedOrigins []string, allowCredentials bool) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", chimw.RequestIDHeader},
		ExposedHeaders:   []string{chimw.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           300,
	})
}
