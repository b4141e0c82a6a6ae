package middleware

import "strings"

// PublicPrefixes bypass even the attempt at authentication: the auth stage
// never runs the verifier for these.
var PublicPrefixes = []string{
	"/health",
	"/health/ready",
	"/metrics",
	"/docs",
	"/openapi.json",
	"/api/v1/auth/login",
	"/api/v1/auth/register",
	"/api/v1/auth/refresh",
	"/api/v1/radio/stations",
	"/api/v1/concerts",
	"/api/v1/search",
}

// ExemptPrefixes bypass rate limiting entirely.
var ExemptPrefixes = []string{
	"/health",
	"/metrics",
	"/docs",
	"/openapi.json",
}

// MatchesAny reports whether path starts with any of prefixes.
func MatchesAny(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
