// Package metrics is the gateway's Prometheus facade. All instruments live
// on a private registry; path labels are normalized before recording so that
// IDs and UUIDs cannot blow up cardinality.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var durationBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	proxyRequests   *prometheus.CounterVec
	proxyDuration   *prometheus.HistogramVec
	rateLimitHits   *prometheus.CounterVec
	authAttempts    *prometheus.CounterVec

	ActiveConnections prometheus.Gauge
}

func New(version string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_gateway_requests_total",
			Help: "Total requests processed",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "api_gateway_request_duration_seconds",
			Help:    "Request duration in seconds",
			Buckets: durationBuckets,
		}, []string{"method", "path"}),
		proxyRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_gateway_proxy_requests_total",
			Help: "Total proxied requests",
		}, []string{"service", "status"}),
		proxyDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "api_gateway_proxy_duration_seconds",
			Help:    "Proxy request duration",
			Buckets: durationBuckets,
		}, []string{"service"}),
		rateLimitHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_gateway_rate_limit_hits_total",
			Help: "Total rate limit hits",
		}, []string{"client_type"}),
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_gateway_auth_attempts_total",
			Help: "Total authentication attempts",
		}, []string{"status"}),
		ActiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "api_gateway_active_connections",
			Help: "Current active connections",
		}),
	}

	info := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "api_gateway_service_info",
		Help: "API Gateway service information",
		ConstLabels: prometheus.Labels{
			"version": version,
			"service": "api-gateway",
		},
	})
	info.Set(1)

	m.registry.MustRegister(
		m.requests, m.requestDuration,
		m.proxyRequests, m.proxyDuration,
		m.rateLimitHits, m.authAttempts,
		m.ActiveConnections, info,
	)
	return m
}

// Handler serves the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for test assertions.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) RecordRequest(method, path string, status int, d time.Duration) {
	p := NormalizePath(path)
	m.requests.WithLabelValues(method, p, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, p).Observe(d.Seconds())
}

func (m *Metrics) RecordProxy(service string, status int, d time.Duration) {
	m.proxyRequests.WithLabelValues(service, strconv.Itoa(status)).Inc()
	m.proxyDuration.WithLabelValues(service).Observe(d.Seconds())
}

func (m *Metrics) RecordRateLimitHit(clientType string) {
	m.rateLimitHits.WithLabelValues(clientType).Inc()
}

func (m *Metrics) RecordAuthAttempt(success bool) {
	status := "failure"
	if success {
		status = "success"
	}
	m.authAttempts.WithLabelValues(status).Inc()
}
