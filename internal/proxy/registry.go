// Package proxy resolves URL prefixes to backend services and forwards
// requests to them, normalizing transport failures into the gateway's
// synthetic error taxonomy.
package proxy

import "sort"

// Registry maps URL-path prefixes to backend base URLs. Both maps are
// immutable after construction.
type Registry struct {
	serviceURLs map[string]string
	prefixes    []prefixEntry
	reserved    map[string]struct{}
}

type prefixEntry struct {
	prefix  string
	service string
}

// NewRegistry builds a Registry from a service-name → base-URL map and a
// prefix → service-name map. Prefixes are pre-sorted longest-first so
// Resolve can return on the first match.
//
// reservedPaths lists exact paths owned by locally-registered routes (the
// gateway's own composite/operational endpoints). A path in this set never
// resolves to a backend even when it falls under a registered prefix, so
// those routes take precedence over the proxy — e.g. /api/v1/admin/overview
// is handled locally instead of being forwarded under /api/v1/admin.
func NewRegistry(serviceURLs map[string]string, prefixToService map[string]string, reservedPaths ...string) *Registry {
	entries := make([]prefixEntry, 0, len(prefixToService))
	for prefix, service := range prefixToService {
		entries = append(entries, prefixEntry{prefix: prefix, service: service})
	}
	sort.Slice(entries, func(i, j int) bool {
		if len(entries[i].prefix) != len(entries[j].prefix) {
			return len(entries[i].prefix) > len(entries[j].prefix)
		}
		return entries[i].prefix < entries[j].prefix // deterministic tie-break
	})

	urls := make(map[string]string, len(serviceURLs))
	for k, v := range serviceURLs {
		urls[k] = v
	}

	reserved := make(map[string]struct{}, len(reservedPaths))
	for _, p := range reservedPaths {
		reserved[p] = struct{}{}
	}

	return &Registry{serviceURLs: urls, prefixes: entries, reserved: reserved}
}

// Resolve returns the backend base URL for the longest matching prefix of
// path, or ("", false) if nothing matches or path is reserved for a local
// route.
func (r *Registry) Resolve(path string) (baseURL string, ok bool) {
	if _, claimed := r.reserved[path]; claimed {
		return "", false
	}
	for _, e := range r.prefixes {
		if hasPrefix(path, e.prefix) {
			url, found := r.serviceURLs[e.service]
			if !found || url == "" {
				return "", false
			}
			return url, true
		}
	}
	return "", false
}

// ForwardPath is identity: the gateway never strips its own prefix before
// forwarding. Kept as a named operation so the no-rewrite decision is
// explicit and future path-rewriting policy has a single place to live.
func ForwardPath(path string) string {
	return path
}

// Services returns a copy of the service-name → base-URL map, for the
// service-discovery and health-rollup endpoints.
func (r *Registry) Services() map[string]string {
	out := make(map[string]string, len(r.serviceURLs))
	for k, v := range r.serviceURLs {
		out[k] = v
	}
	return out
}

func hasPrefix(path, prefix string) bool {
	return len(path) >= len(prefix) && path[:len(prefix)] == prefix
}
