package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRequestNormalizesPathLabel(t *testing.T) {
	m := New("test")
	m.RecordRequest("GET", "/api/v1/concerts/123", 200, 50*time.Millisecond)

	got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/v1/concerts/{id}", "200"))
	if got != 1 {
		t.Fatalf("expected 1 recorded request under the normalized label, got %f", got)
	}
}

func TestRecordAuthAttempt(t *testing.T) {
	m := New("test")
	m.RecordAuthAttempt(true)
	m.RecordAuthAttempt(false)
	m.RecordAuthAttempt(false)

	if got := testutil.ToFloat64(m.authAttempts.WithLabelValues("success")); got != 1 {
		t.Fatalf("expected 1 success, got %f", got)
	}
	if got := testutil.ToFloat64(m.authAttempts.WithLabelValues("failure")); got != 2 {
		t.Fatalf("expected 2 failures, got %f", got)
	}
}

func TestHandlerExposesServiceInfo(t *testing.T) {
	m := New("1.2.3")
	m.RecordProxy("radio", 200, 10*time.Millisecond)
	m.RecordRateLimitHit("ip")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		`api_gateway_service_info{service="api-gateway",version="1.2.3"} 1`,
		`api_gateway_proxy_requests_total{service="radio",status="200"} 1`,
		`api_gateway_rate_limit_hits_total{client_type="ip"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("exposition missing %q\n%s", want, body)
		}
	}
}
