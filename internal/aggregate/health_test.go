package aggregate

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func healthBackend(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("probe hit %q, want /health", r.URL.Path)
		}
		w.WriteHeader(status)
		fmt.Fprint(w, `{"status":"whatever"}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthRollupAllHealthy(t *testing.T) {
	radio := healthBackend(t, http.StatusOK)
	events := healthBackend(t, http.StatusOK)

	c := testClient(time.Second)
	rollup := c.HealthRollup(context.Background(), map[string]string{
		"radio":  radio.URL,
		"events": events.URL,
	})

	if rollup.Status != StatusHealthy {
		t.Fatalf("expected overall healthy, got %q", rollup.Status)
	}
	if rollup.Total != 2 || rollup.Healthy != 2 {
		t.Fatalf("expected 2/2 healthy, got %d/%d", rollup.Healthy, rollup.Total)
	}
}

func TestHealthRollupMixedStates(t *testing.T) {
	up := healthBackend(t, http.StatusOK)
	sick := healthBackend(t, http.StatusServiceUnavailable)
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	downURL := down.URL
	down.Close()

	c := testClient(time.Second)
	rollup := c.HealthRollup(context.Background(), map[string]string{
		"radio":     up.URL,
		"concerts":  sick.URL,
		"analytics": downURL,
	})

	if rollup.Status != StatusDegraded {
		t.Fatalf("expected degraded overall, got %q", rollup.Status)
	}
	if rollup.Healthy != 1 || rollup.Total != 3 {
		t.Fatalf("expected 1/3 healthy, got %d/%d", rollup.Healthy, rollup.Total)
	}

	byName := map[string]ServiceHealth{}
	for _, s := range rollup.Services {
		byName[s.Name] = s
	}
	if got := byName["radio"]; got.Status != StatusHealthy || got.Code != 200 {
		t.Fatalf("radio: %+v", got)
	}
	if got := byName["concerts"]; got.Status != StatusUnhealthy || got.Code != 503 {
		t.Fatalf("concerts: %+v", got)
	}
	if got := byName["analytics"]; got.Status != StatusUnavailable || got.Error == "" {
		t.Fatalf("analytics: %+v", got)
	}
}

func TestHealthRollupServicesSortedByName(t *testing.T) {
	up := healthBackend(t, http.StatusOK)

	c := testClient(time.Second)
	rollup := c.HealthRollup(context.Background(), map[string]string{
		"radio":    up.URL,
		"admin":    up.URL,
		"concerts": up.URL,
	})

	want := []string{"admin", "concerts", "radio"}
	for i, s := range rollup.Services {
		if s.Name != want[i] {
			t.Fatalf("expected stable name order %v, got %+v", want, rollup.Services)
		}
	}
}
