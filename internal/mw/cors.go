package mw

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS is the outermost pipeline stage: permissive defaults, short-circuits
// OPTIONS preflights before auth or rate limiting can see them.
func CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowOriginFunc:  func(r *http.Request, origin string) bool { return true },
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
