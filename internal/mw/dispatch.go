package mw

import (
	"net/http"

	"github.com/cloudsound/gateway/internal/proxy"
	"github.com/cloudsound/gateway/internal/registry"
)

// Dispatch forwards any request whose path resolves to a backend service;
// everything else continues to the in-process route handlers. Paths in
// localPaths are composite endpoints served by the gateway itself even when
// they sit under a proxied prefix (e.g. /api/v1/admin/overview).
func Dispatch(reg *registry.Registry, f *proxy.Forwarder, localPaths []string) func(http.Handler) http.Handler {
	local := make(map[string]struct{}, len(localPaths))
	for _, p := range localPaths {
		local[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := local[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}
			if service, baseURL, ok := reg.Resolve(r.URL.Path); ok {
				f.Forward(w, r, service, baseURL)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
