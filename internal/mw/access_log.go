package mw

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cloudsound/gateway/internal/httpx"
	"github.com/cloudsound/gateway/internal/pipeline"
)

// AccessLog emits one structured event per request, tagged with the
// correlation ID so a request's log lines can be joined across services.
func AccessLog(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &httpx.StatusWriter{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(sw, r)

			status := sw.Status
			if status == 0 {
				status = http.StatusOK
			}
			log.Info("http_request",
				slog.String("correlation_id", pipeline.CorrelationID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("client_ip", pipeline.ClientIP(r)),
				slog.Int("status", status),
				slog.Int("bytes", sw.Bytes),
				slog.String("duration", time.Since(start).String()),
			)
		})
	}
}
