package mw

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cloudsound/gateway/internal/httpx"
	"github.com/cloudsound/gateway/internal/metrics"
)

// timingWriter stamps X-Response-Time just before the status line goes out;
// headers cannot be added after the first write.
type timingWriter struct {
	*httpx.StatusWriter
	start time.Time
}

func (w *timingWriter) WriteHeader(code int) {
	if w.Status == 0 {
		w.Header().Set("X-Response-Time", fmt.Sprintf("%.3fs", time.Since(w.start).Seconds()))
	}
	w.StatusWriter.WriteHeader(code)
}

func (w *timingWriter) Write(p []byte) (int, error) {
	if w.Status == 0 {
		w.WriteHeader(http.StatusOK)
	}
	return w.StatusWriter.Write(p)
}

// Timing wraps the whole chain: it tracks active connections, adds the
// response-time header, and reports every request to the metrics facade.
func Timing(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.ActiveConnections.Inc()
			defer m.ActiveConnections.Dec()

			tw := &timingWriter{
				StatusWriter: &httpx.StatusWriter{ResponseWriter: w},
				start:        time.Now(),
			}
			next.ServeHTTP(tw, r)

			status := tw.Status
			if status == 0 {
				status = http.StatusOK
			}
			m.RecordRequest(r.Method, r.URL.Path, status, time.Since(tw.start))
		})
	}
}
