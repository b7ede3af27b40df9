// Package proxy implements the downstream forwarding engine: it rewrites
// the inbound request for a resolved backend, streams the exchange over a
// shared pooled client, and maps transport failures onto gateway statuses.
package proxy

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cloudsound/gateway/internal/httpx"
	"github.com/cloudsound/gateway/internal/metrics"
	"github.com/cloudsound/gateway/internal/pipeline"
)

// hopByHopHeaders must not be relayed across the proxy in either direction.
var hopByHopHeaders = []string{
	"Transfer-Encoding",
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Upgrade",
}

type Forwarder struct {
	log     *slog.Logger
	metrics *metrics.Metrics
	timeout time.Duration

	transport http.RoundTripper
	once      sync.Once
	client    *http.Client
}

func NewForwarder(log *slog.Logger, m *metrics.Metrics, transport http.RoundTripper, timeout time.Duration) *Forwarder {
	return &Forwarder{
		log:       log,
		metrics:   m,
		timeout:   timeout,
		transport: transport,
	}
}

// httpClient lazily builds the shared client on first use. Redirects are
// followed; the total deadline rides on the request context.
func (f *Forwarder) httpClient() *http.Client {
	f.once.Do(func() {
		f.client = &http.Client{Transport: f.transport}
	})
	return f.client
}

// Forward relays r to the backend at baseURL and writes the backend's
// response (or a synthetic failure) to w.
func (f *Forwarder) Forward(w http.ResponseWriter, r *http.Request, service, baseURL string) {
	start := time.Now()
	cid := pipeline.CorrelationID(r.Context())

	target := joinURL(baseURL, r.URL.Path)
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	ctx, cancel := context.WithTimeout(r.Context(), f.timeout)
	defer cancel()

	out, err := http.NewRequestWithContext(ctx, r.Method, target, r.Body)
	if err != nil {
		f.fail(w, r, service, http.StatusBadGateway, "Internal gateway error", start, err)
		return
	}
	out.ContentLength = r.ContentLength

	copyHeaders(out.Header, r.Header)
	out.Header.Del("Host") // the client sets Host from the target URL
	out.Header.Set("X-Forwarded-For", pipeline.ClientIP(r))
	out.Header.Set("X-Forwarded-Host", r.Host)
	out.Header.Set("X-Forwarded-Proto", scheme(r))
	if cid != "" {
		out.Header.Set("X-Correlation-ID", cid)
	}

	f.log.Debug("proxy_request",
		slog.String("correlation_id", cid),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("service", service),
		slog.String("target", target),
	)

	resp, err := f.httpClient().Do(out)
	if err != nil {
		status, detail := classify(err)
		f.fail(w, r, service, status, detail, start, err)
		return
	}
	defer resp.Body.Close()

	h := w.Header()
	copyHeaders(h, resp.Header)
	for _, name := range hopByHopHeaders {
		h.Del(name)
	}

	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		f.log.Warn("proxy_body_copy_failed",
			slog.String("correlation_id", cid),
			slog.String("service", service),
			slog.String("error", err.Error()),
		)
	}

	f.metrics.RecordProxy(service, resp.StatusCode, time.Since(start))
}

// classify maps a forwarding failure onto the gateway's status taxonomy:
// timeouts are 504, connect failures 503, everything else 502.
func classify(err error) (int, string) {
	if isTimeout(err) {
		return http.StatusGatewayTimeout, "Service timeout"
	}
	if isConnectFailure(err) {
		return http.StatusServiceUnavailable, "Service unavailable"
	}
	return http.StatusBadGateway, "Internal gateway error"
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func isConnectFailure(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	return false
}

func (f *Forwarder) fail(w http.ResponseWriter, r *http.Request, service string, status int, detail string, start time.Time, err error) {
	f.log.Error("proxy_error",
		slog.String("correlation_id", pipeline.CorrelationID(r.Context())),
		slog.String("path", r.URL.Path),
		slog.String("service", service),
		slog.Int("status", status),
		slog.String("error", err.Error()),
	)
	f.metrics.RecordProxy(service, status, time.Since(start))
	httpx.Error(w, status, detail)
}

func copyHeaders(dst, src http.Header) {
	for name, values := range src {
		for _, v := range values {
			dst.Add(name, v)
		}
	}
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + path
}

func scheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
