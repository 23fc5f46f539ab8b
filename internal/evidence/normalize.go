// Package evidence holds the pure, deterministic extractor
// functions that scan display names, bios, messages, and feature vectors
// against the ordered pattern tables in internal/patterns and return
// weighted Hits. Extractors never throw on malformed input — a nil or
// empty field simply yields zero hits.
package evidence

import (
	"regexp"
	"strings"
)

var (
	collapseWhitespace   = regexp.MustCompile(`\s+`)
	leadingTrailingPunct = regexp.MustCompile(`^[\p{P}\s]+|[\p{P}\s]+$`)
)

// NormalizeOrgName lowercases, collapses whitespace, and strips leading
// and trailing punctuation — the equality key used to deduplicate
// affiliation hits across sources.
func NormalizeOrgName(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = leadingTrailingPunct.ReplaceAllString(s, "")
	s = collapseWhitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
