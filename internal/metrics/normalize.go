package metrics

import (
	"regexp"
	"strings"
)

var uuidPattern = regexp.MustCompile(`(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

// NormalizePath replaces UUID and integer path segments with placeholders
// so per-path metric labels stay low-cardinality. Integer segments are
// matched by splitting on "/" rather than a consuming regex, so adjacent
// numeric segments (/x/123/456) each get their own {id} instead of the
// first match's trailing slash swallowing the second segment.
func NormalizePath(path string) string {
	path = uuidPattern.ReplaceAllString(path, "{uuid}")
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if isDigits(seg) {
			segments[i] = "{id}"
		}
	}
	return strings.Join(segments, "/")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
