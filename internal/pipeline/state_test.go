package pipeline

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/cloudsound/gateway/internal/auth"
)

func TestClientKeyPrefersAuthenticatedSubject(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/events", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.9")
	r = r.WithContext(WithState(r.Context(), &State{
		Principal:     &auth.Principal{Subject: "user_7"},
		Authenticated: true,
	}))

	if got := ClientKey(r); got != "user:user_7" {
		t.Fatalf("expected user key, got %q", got)
	}
}

func TestClientKeyUsesFirstForwardedHop(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/events", nil)
	r.Header.Set("X-Forwarded-For", " 203.0.113.9 , 10.0.0.1")

	if got := ClientKey(r); got != "ip:203.0.113.9" {
		t.Fatalf("expected first forwarded hop, got %q", got)
	}
}

func TestClientKeyFallsBackToPeerAddress(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/events", nil)
	r.RemoteAddr = "192.168.1.5:4711"

	if got := ClientKey(r); got != "ip:192.168.1.5" {
		t.Fatalf("expected peer address key, got %q", got)
	}
}

func TestClientKeyUnknownWithoutAnySource(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/events", nil)
	r.RemoteAddr = ""

	if got := ClientKey(r); got != "unknown" {
		t.Fatalf("expected unknown key, got %q", got)
	}
}

func TestFromContextWithoutStateIsEmpty(t *testing.T) {
	s := FromContext(context.Background())
	if s.Authenticated || s.Principal != nil || s.CorrelationID != "" {
		t.Fatalf("expected empty state, got %+v", s)
	}
}
