package emoji

import (
	"regexp"
	"strings"
)

var (
	apostrophes = regexp.MustCompile(`['’]+`)
	nonTermRuns = regexp.MustCompile(`[^a-z0-9+\-_ ]+`)
	whitespace  = regexp.MustCompile(`\s+`)
)

func lower(s string) string { return strings.ToLower(s) }

// Slug turns an annotation into a shortcode-style name: "thumbs up" → "thumbs_up".
func Slug(s string) string {
	s = apostrophes.ReplaceAllString(lower(s), "")
	s = strings.TrimSpace(nonTermRuns.ReplaceAllString(s, " "))
	return whitespace.ReplaceAllString(s, "_")
}

// SplitTerms lowercases s and splits it into search words.
func SplitTerms(s string) []string {
	return strings.Fields(nonTermRuns.ReplaceAllString(lower(s), " "))
}
