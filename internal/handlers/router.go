package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cloudsound/gateway/internal/auth"
	"github.com/cloudsound/gateway/internal/config"
	"github.com/cloudsound/gateway/internal/metrics"
	"github.com/cloudsound/gateway/internal/mw"
	"github.com/cloudsound/gateway/internal/proxy"
	"github.com/cloudsound/gateway/internal/ratelimit"
	"github.com/cloudsound/gateway/internal/registry"
)

// PublicPrefixes never have authentication attempted.
var PublicPrefixes = []string{
	"/health",
	"/metrics",
	"/docs",
	"/openapi.json",
	"/api/v1/auth/login",
	"/api/v1/auth/register",
	"/api/v1/auth/refresh",
	"/api/v1/radio/stations",
	"/api/v1/concerts",
	"/api/v1/search",
}

// RateLimitExemptPrefixes bypass the rate limiter.
var RateLimitExemptPrefixes = []string{
	"/health",
	"/metrics",
	"/docs",
	"/openapi.json",
}

// localPaths are served in-process even though they sit under a prefix that
// otherwise proxies to a backend.
var localPaths = []string{
	"/api/v1/admin/overview",
}

// Deps bundles everything the router needs.
type Deps struct {
	Config    *config.Config
	Log       *slog.Logger
	Metrics   *metrics.Metrics
	Verifier  *auth.Verifier
	Limiter   ratelimit.Limiter
	Registry  *registry.Registry
	Forwarder *proxy.Forwarder
	Handlers  *Handlers
}

// Router assembles the middleware pipeline and the in-process routes.
// Stage order, outermost first: CORS, timing, correlation, recover, access
// log, auth attempt, rate limit, proxy dispatch, local routes.
func Router(d Deps) http.Handler {
	h := d.Handlers

	r := chi.NewRouter()
	r.Use(mw.CORS())
	r.Use(mw.Timing(d.Metrics))
	r.Use(mw.Correlation())
	r.Use(mw.Recover(d.Log))
	r.Use(mw.AccessLog(d.Log))
	r.Use(mw.MaxBody(d.Config.Server.MaxBodyBytes))
	r.Use(mw.Auth(d.Verifier, d.Metrics, d.Log, PublicPrefixes))
	r.Use(mw.RateLimit(d.Limiter, d.Metrics, d.Log, RateLimitExemptPrefixes))
	r.Use(mw.Dispatch(d.Registry, d.Forwarder, localPaths))

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	r.Get("/", h.Root)
	r.Get("/api", h.APIInfo)
	r.Get("/health", h.Health)
	r.Get("/health/ready", h.Ready)
	r.Get("/docs", h.Docs)
	r.Get("/openapi.json", h.OpenAPI)
	r.Handle("/metrics", d.Metrics.Handler())

	r.Get("/api/v1/home", h.Home)
	r.Get("/api/v1/gateway/services", h.GatewayServices)
	r.Get("/api/v1/gateway/health", h.GatewayHealth)

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireUser)
		r.Get("/api/v1/dashboard", h.Dashboard)
		r.Get("/api/v1/gateway/user", h.GatewayUser)
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAdmin)
		r.Get("/api/v1/admin/overview", h.AdminOverview)
	})

	return r
}
