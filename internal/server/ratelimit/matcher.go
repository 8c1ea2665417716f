package ratelimit

import (
	"strings"
)

// unlimited marks an endpoint that is never throttled.
var unlimited = EndpointConfig{}

// MatchEndpoint resolves the endpoint configuration for a request. Exact
// path matches win over prefix matches, so "POST /api/resumes" (create) and
// the "/api/resumes/" prefix (per-resume operations, exports included) land
// in different tiers. A config path ending in "/" matches as a prefix.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	// Probes and load balancer checks bypass limiting entirely.
	if path == "/health" && method == "GET" {
		u := unlimited
		return &u
	}

	var prefixMatch *EndpointConfig
	for i := range configs {
		config := &configs[i]
		if config.Method != method {
			continue
		}
		if config.Path == path {
			return config
		}
		if prefixMatch == nil && strings.HasSuffix(config.Path, "/") && strings.HasPrefix(path, config.Path) {
			prefixMatch = config
		}
	}
	return prefixMatch
}
