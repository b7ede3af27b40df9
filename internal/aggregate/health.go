package aggregate

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"sync"
)

// Health probe outcomes: healthy iff the service answered 200, unhealthy for
// any other HTTP status, unavailable when the probe could not complete.
const (
	StatusHealthy     = "healthy"
	StatusUnhealthy   = "unhealthy"
	StatusUnavailable = "unavailable"
	StatusDegraded    = "degraded"
)

type ServiceHealth struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Code   int    `json:"code,omitempty"`
	Error  string `json:"error,omitempty"`
}

type Rollup struct {
	Services []ServiceHealth `json:"services"`
	Total    int             `json:"total"`
	Healthy  int             `json:"healthy"`
	Status   string          `json:"status"`
}

// HealthRollup probes every service's /health endpoint concurrently and
// summarizes the fleet. The rollup itself always succeeds.
func (c *Client) HealthRollup(ctx context.Context, services map[string]string) Rollup {
	names := make([]string, 0, len(services))
	for name := range services {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]ServiceHealth, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name, baseURL string) {
			defer wg.Done()
			results[i] = c.probe(ctx, name, baseURL)
		}(i, name, services[name])
	}
	wg.Wait()

	healthy := 0
	for _, r := range results {
		if r.Status == StatusHealthy {
			healthy++
		}
	}

	overall := StatusHealthy
	if healthy != len(results) {
		overall = StatusDegraded
	}
	return Rollup{
		Services: results,
		Total:    len(results),
		Healthy:  healthy,
		Status:   overall,
	}
}

func (c *Client) probe(ctx context.Context, name, baseURL string) ServiceHealth {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return ServiceHealth{Name: name, Status: StatusUnavailable, Error: err.Error()}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("service_health_probe_failed",
			slog.String("service", name),
			slog.String("error", err.Error()),
		)
		return ServiceHealth{Name: name, Status: StatusUnavailable, Error: err.Error()}
	}
	defer resp.Body.Close()

	status := StatusUnhealthy
	if resp.StatusCode == http.StatusOK {
		status = StatusHealthy
	}
	return ServiceHealth{Name: name, Status: status, Code: resp.StatusCode}
}
