// Package pipeline carries per-request state through the middleware chain:
// the correlation ID, the authenticated principal (if any), and helpers to
// derive the client identity used for rate limiting and forwarding.
package pipeline

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/cloudsound/gateway/internal/auth"
)

type ctxKey struct{}

// State is the mutable per-request side channel. The correlation stage
// creates it; the auth stage fills in the principal.
type State struct {
	CorrelationID string
	Principal     *auth.Principal
	Authenticated bool
	AuthErr       error
}

func WithState(ctx context.Context, s *State) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the request state, or an empty one when the request
// never passed through the correlation stage (tests, bare handlers).
func FromContext(ctx context.Context) *State {
	if s, ok := ctx.Value(ctxKey{}).(*State); ok {
		return s
	}
	return &State{}
}

func CorrelationID(ctx context.Context) string {
	return FromContext(ctx).CorrelationID
}

func Principal(ctx context.Context) (*auth.Principal, bool) {
	s := FromContext(ctx)
	return s.Principal, s.Authenticated
}

// ClientIP derives the originating client address: the first hop of
// X-Forwarded-For when present, else the peer address.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}

// ClientKey derives the rate-limit partition key for a request:
// "user:<subject>" for authenticated callers, else "ip:<client-ip>".
func ClientKey(r *http.Request) string {
	if p, ok := Principal(r.Context()); ok && p.Subject != "" {
		return "user:" + p.Subject
	}
	ip := ClientIP(r)
	if ip == "unknown" {
		return "unknown"
	}
	return "ip:" + ip
}
