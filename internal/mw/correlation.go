package mw

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/cloudsound/gateway/internal/pipeline"
)

const correlationHeader = "X-Correlation-ID"

// Correlation ensures every request carries a correlation ID: the inbound
// header when present, else a fresh UUID. The ID is reflected back to the
// client and seeds the per-request pipeline state.
func Correlation() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid := r.Header.Get(correlationHeader)
			if cid == "" {
				cid = uuid.New().String()
			}
			w.Header().Set(correlationHeader, cid)

			ctx := pipeline.WithState(r.Context(), &pipeline.State{CorrelationID: cid})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
