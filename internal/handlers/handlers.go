// Package handlers serves the gateway's in-process HTTP surface: the
// operational endpoints and the composite endpoints that aggregate data
// from several backends.
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/cloudsound/gateway/internal/aggregate"
	"github.com/cloudsound/gateway/internal/config"
	"github.com/cloudsound/gateway/internal/httpx"
	"github.com/cloudsound/gateway/internal/pipeline"
	"github.com/cloudsound/gateway/internal/registry"
)

type Handlers struct {
	cfg *config.Config
	reg *registry.Registry
	agg *aggregate.Client
	log *slog.Logger
}

func New(cfg *config.Config, reg *registry.Registry, agg *aggregate.Client, log *slog.Logger) *Handlers {
	return &Handlers{cfg: cfg, reg: reg, agg: agg, log: log}
}

func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{
		"service": "CloudSound API Gateway",
		"version": h.cfg.App.Version,
		"docs":    "/docs",
		"health":  "/health",
	})
}

func (h *Handlers) APIInfo(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{
		"version":  "v1",
		"base_url": "/api/v1",
		"endpoints": map[string]string{
			"radio":    "/api/v1/radio",
			"concerts": "/api/v1/concerts",
			"search":   "/api/v1/search",
			"auth":     "/api/v1/auth",
			"discover": "/api/v1/discover",
			"events":   "/api/v1/events",
			"admin":    "/api/v1/admin",
		},
	})
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{
		"status":      "healthy",
		"service":     "api-gateway",
		"version":     h.cfg.App.Version,
		"environment": h.cfg.App.Environment,
	})
}

func (h *Handlers) Ready(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

// Home aggregates the public landing-page data: featured stations and
// upcoming concerts, fetched in parallel, each capped at 6.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	radioURL, _ := h.reg.URL("radio")
	concertsURL, _ := h.reg.URL("concerts")

	results := h.agg.FetchAll(r.Context(),
		aggregate.Call{
			Name:  "stations",
			URL:   radioURL + "/api/v1/radio/stations",
			Query: url.Values{"limit": {"6"}},
		},
		aggregate.Call{
			Name:  "concerts",
			URL:   concertsURL + "/api/v1/concerts",
			Query: url.Values{"limit": {"6"}, "upcoming": {"true"}},
		},
	)

	httpx.JSON(w, http.StatusOK, map[string]any{
		"featured_stations": aggregate.List(results["stations"], 6),
		"upcoming_concerts": aggregate.List(results["concerts"], 6),
	})
}

// Dashboard aggregates per-user data; the route is guarded by RequireUser.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	p, _ := pipeline.Principal(r.Context())

	analyticsURL, _ := h.reg.URL("analytics")
	radioURL, _ := h.reg.URL("radio")

	results := h.agg.FetchAll(r.Context(),
		aggregate.Call{
			Name:  "history",
			URL:   analyticsURL + "/api/v1/analytics/history",
			Query: url.Values{"user_id": {p.Subject}, "limit": {"10"}},
		},
		aggregate.Call{
			Name:  "recommendations",
			URL:   radioURL + "/api/v1/radio/stations",
			Query: url.Values{"limit": {"4"}},
		},
	)

	httpx.JSON(w, http.StatusOK, map[string]any{
		"user_id":              p.Subject,
		"listening_history":    aggregate.List(results["history"], 0),
		"recommended_stations": aggregate.List(results["recommendations"], 0),
	})
}

// AdminOverview fans out to four stats endpoints; guarded by RequireAdmin.
func (h *Handlers) AdminOverview(w http.ResponseWriter, r *http.Request) {
	p, _ := pipeline.Principal(r.Context())

	radioURL, _ := h.reg.URL("radio")
	concertsURL, _ := h.reg.URL("concerts")
	analyticsURL, _ := h.reg.URL("analytics")
	discoveryURL, _ := h.reg.URL("discovery")

	results := h.agg.FetchAll(r.Context(),
		aggregate.Call{Name: "radio", URL: radioURL + "/api/v1/radio/stats"},
		aggregate.Call{Name: "concerts", URL: concertsURL + "/api/v1/concerts/stats"},
		aggregate.Call{Name: "analytics", URL: analyticsURL + "/api/v1/analytics/stats"},
		aggregate.Call{Name: "storage", URL: discoveryURL + "/api/v1/discover/storage/stats"},
	)

	httpx.JSON(w, http.StatusOK, map[string]any{
		"admin_id":        p.Subject,
		"radio_stats":     aggregate.Object(results["radio"]),
		"concert_stats":   aggregate.Object(results["concerts"]),
		"analytics_stats": aggregate.Object(results["analytics"]),
		"storage_stats":   aggregate.Object(results["storage"]),
	})
}

func (h *Handlers) GatewayServices(w http.ResponseWriter, r *http.Request) {
	names := h.reg.Names()
	httpx.JSON(w, http.StatusOK, map[string]any{
		"services": names,
		"count":    len(names),
	})
}

func (h *Handlers) GatewayHealth(w http.ResponseWriter, r *http.Request) {
	rollup := h.agg.HealthRollup(r.Context(), h.reg.All())
	httpx.JSON(w, http.StatusOK, rollup)
}

// GatewayUser reports the authenticated caller; guarded by RequireUser.
func (h *Handlers) GatewayUser(w http.ResponseWriter, r *http.Request) {
	p, _ := pipeline.Principal(r.Context())
	httpx.JSON(w, http.StatusOK, map[string]any{
		"user_id":       p.Subject,
		"email":         p.Email,
		"role":          p.Role,
		"authenticated": true,
	})
}

func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	httpx.Error(w, http.StatusNotFound, "Not Found")
}

func (h *Handlers) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	httpx.Error(w, http.StatusMethodNotAllowed, "Method Not Allowed")
}

// Docs is a minimal HTML page pointing at the OpenAPI document.
func (h *Handlers) Docs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>CloudSound API Gateway %s</title></head>
<body>
<h1>CloudSound API Gateway</h1>
<p>Version %s. The OpenAPI document is served at
<a href="/openapi.json">/openapi.json</a>.</p>
</body>
</html>
`, h.cfg.App.Version, h.cfg.App.Version)
}

func (h *Handlers) OpenAPI(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, openAPIDocument(h.cfg.App.Version))
}

func openAPIDocument(version string) map[string]any {
	get := func(summary string, tags ...string) map[string]any {
		op := map[string]any{
			"summary":   summary,
			"responses": map[string]any{"200": map[string]any{"description": "Successful Response"}},
		}
		if len(tags) > 0 {
			op["tags"] = tags
		}
		return map[string]any{"get": op}
	}

	return map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":       "CloudSound API Gateway",
			"description": "Central API Gateway for CloudSound platform",
			"version":     version,
		},
		"paths": map[string]any{
			"/":                      get("API Gateway root endpoint"),
			"/api":                   get("API information"),
			"/health":                get("Service health"),
			"/health/ready":          get("Readiness probe"),
			"/metrics":               get("Prometheus metrics"),
			"/api/v1/home":           get("Aggregated home page data", "Gateway"),
			"/api/v1/dashboard":      get("Aggregated dashboard data", "Gateway"),
			"/api/v1/admin/overview": get("Admin overview", "Gateway"),
			"/api/v1/gateway/services": get("List registered backend services", "Gateway"),
			"/api/v1/gateway/health":   get("Backend service health rollup", "Gateway"),
			"/api/v1/gateway/user":     get("Current authenticated user", "Gateway"),
		},
	}
}
