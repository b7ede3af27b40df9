// Package registry maps URL path prefixes to backend services. Both maps are
// immutable after construction.
package registry

import (
	"sort"
	"strings"
)

// defaultPrefixes is the gateway's routing table: path prefix -> service.
var defaultPrefixes = map[string]string{
	"/api/v1/radio":     "radio",
	"/api/v1/stream":    "radio",
	"/api/v1/search":    "radio",
	"/api/v1/concerts":  "concerts",
	"/api/v1/auth":      "auth",
	"/api/v1/analytics": "analytics",
	"/api/v1/discover":  "discovery",
	"/api/v1/events":    "events",
	"/api/v1/admin":     "admin",
}

type prefixRoute struct {
	prefix  string
	service string
}

type Registry struct {
	services map[string]string // name -> base URL
	prefixes []prefixRoute     // sorted longest prefix first
}

// New builds a registry over the given service base URLs using the default
// prefix table. Prefixes are sorted longest-first so that overlapping
// prefixes resolve deterministically to the longer match.
func New(services map[string]string) *Registry {
	r := &Registry{services: make(map[string]string, len(services))}
	for name, url := range services {
		r.services[name] = url
	}
	for prefix, service := range defaultPrefixes {
		r.prefixes = append(r.prefixes, prefixRoute{prefix: prefix, service: service})
	}
	sort.Slice(r.prefixes, func(i, j int) bool {
		if len(r.prefixes[i].prefix) != len(r.prefixes[j].prefix) {
			return len(r.prefixes[i].prefix) > len(r.prefixes[j].prefix)
		}
		return r.prefixes[i].prefix < r.prefixes[j].prefix
	})
	return r
}

// Resolve finds the backend for a path by longest matching prefix.
func (r *Registry) Resolve(path string) (service, baseURL string, ok bool) {
	for _, pr := range r.prefixes {
		if strings.HasPrefix(path, pr.prefix) {
			url, found := r.services[pr.service]
			if !found || url == "" {
				return "", "", false
			}
			return pr.service, url, true
		}
	}
	return "", "", false
}

// ForwardPath is the path sent to the backend. The gateway does not strip
// its prefix; backends receive the full original path.
func (r *Registry) ForwardPath(path string) string { return path }

// URL returns the base URL for a service name.
func (r *Registry) URL(name string) (string, bool) {
	u, ok := r.services[name]
	return u, ok
}

// Names lists registered service names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.services))
	for name := range r.services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns a copy of the service name -> base URL map.
func (r *Registry) All() map[string]string {
	out := make(map[string]string, len(r.services))
	for name, url := range r.services {
		out[name] = url
	}
	return out
}
