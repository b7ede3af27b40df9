package mw

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/cloudsound/gateway/internal/httpx"
	"github.com/cloudsound/gateway/internal/metrics"
	"github.com/cloudsound/gateway/internal/pipeline"
	"github.com/cloudsound/gateway/internal/ratelimit"
)

// RateLimit admits or denies requests per client key. Exempt prefixes
// bypass the limiter entirely. Denials are 429 with the standard limit
// headers; admissions still expose the remaining budget.
func RateLimit(l ratelimit.Limiter, m *metrics.Metrics, log *slog.Logger, exemptPrefixes []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hasPrefix(r.URL.Path, exemptPrefixes) {
				next.ServeHTTP(w, r)
				return
			}

			key := pipeline.ClientKey(r)
			dec, err := l.Check(r.Context(), key)
			if err != nil {
				// Fail open: a limiter backend outage must not take the
				// gateway down with it.
				log.Warn("rate_limit_backend_error", slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(dec.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(dec.Remaining))

			if !dec.Allowed {
				m.RecordRateLimitHit(clientType(key))
				log.Warn("rate_limit_exceeded",
					slog.String("correlation_id", pipeline.CorrelationID(r.Context())),
					slog.String("client_id", key),
					slog.Int("remaining", dec.Remaining),
				)
				h.Set("X-RateLimit-Reset", strconv.Itoa(dec.Reset))
				h.Set("Retry-After", strconv.Itoa(dec.Reset))
				httpx.Error(w, http.StatusTooManyRequests, "Rate limit exceeded. Try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientType(key string) string {
	t, _, found := strings.Cut(key, ":")
	if !found {
		return "unknown"
	}
	return t
}
