package mw

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/cloudsound/gateway/internal/auth"
	"github.com/cloudsound/gateway/internal/metrics"
	"github.com/cloudsound/gateway/internal/pipeline"
)

// Auth is the non-fatal authentication stage. A valid bearer token stamps
// the principal into pipeline state; any failure leaves the request
// unauthenticated and lets downstream guards decide. Public prefixes skip
// even the attempt.
func Auth(v *auth.Verifier, m *metrics.Metrics, log *slog.Logger, publicPrefixes []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hasPrefix(r.URL.Path, publicPrefixes) {
				next.ServeHTTP(w, r)
				return
			}

			authz := r.Header.Get("Authorization")
			if authz == "" {
				next.ServeHTTP(w, r)
				return
			}

			state := pipeline.FromContext(r.Context())
			p, err := v.Verify(authz)
			if err != nil {
				state.AuthErr = err
				m.RecordAuthAttempt(false)
				log.Debug("auth_attempt_failed",
					slog.String("correlation_id", state.CorrelationID),
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			}

			state.Principal = p
			state.Authenticated = true
			m.RecordAuthAttempt(true)
			next.ServeHTTP(w, r)
		})
	}
}

func hasPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
