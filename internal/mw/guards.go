package mw

import (
	"errors"
	"net/http"

	"github.com/cloudsound/gateway/internal/auth"
	"github.com/cloudsound/gateway/internal/httpx"
	"github.com/cloudsound/gateway/internal/pipeline"
)

// RequireUser hard-rejects unauthenticated requests: unlike the pipeline
// auth stage, a missing or bad token here is a 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state := pipeline.FromContext(r.Context())
		if !state.Authenticated {
			w.Header().Set("WWW-Authenticate", "Bearer")
			httpx.Error(w, http.StatusUnauthorized, authDetail(state.AuthErr))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin additionally demands the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, _ := pipeline.Principal(r.Context()); !p.IsAdmin() {
			httpx.Error(w, http.StatusForbidden, "Admin privileges required")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func authDetail(err error) string {
	switch {
	case err == nil, errors.Is(err, auth.ErrMalformedAuth):
		return "Missing or invalid Authorization header"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	default:
		return "Invalid or expired token"
	}
}
