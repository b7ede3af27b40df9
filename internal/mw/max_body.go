package mw

import (
	"net/http"

	"github.com/cloudsound/gateway/internal/httpx"
)

// MaxBody caps inbound request bodies. Declared lengths fail fast; chunked
// bodies are capped by MaxBytesReader and surface during forwarding.
func MaxBody(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				httpx.Error(w, http.StatusRequestEntityTooLarge, "Request body too large")
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
