package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORSMiddleware allows the configured origins. A single "*" allows any
// origin, in which case credentials are not advertised.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	allowAll := len(allowedOrigins) == 1 && allowedOrigins[0] == "*"

	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		AllowCredentials: !allowAll,
		MaxAge:           86400,
	})
}
