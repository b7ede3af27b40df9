package mw

import (
	"log/slog"
	"net/http"

	"github.com/cloudsound/gateway/internal/httpx"
	"github.com/cloudsound/gateway/internal/pipeline"
)

// Recover is the outer error handler: nothing below it may escape the
// pipeline. Panics become a JSON 500.
func Recover(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("panic_recovered",
						slog.String("correlation_id", pipeline.CorrelationID(r.Context())),
						slog.String("path", r.URL.Path),
						slog.Any("panic", rec),
					)
					httpx.Error(w, http.StatusInternalServerError, "Internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
