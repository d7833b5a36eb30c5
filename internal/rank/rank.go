// Package rank scores and orders emoji entries for a typed query.
package rank

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/nhath/ezmoji/internal/emoji"
)

// MaxResults is how many candidates the popup shows.
const MaxResults = 12

// Tier scores. Each tier sits strictly above the next even after the longest
// plausible length penalty.
const (
	primaryExact  = 1e9
	primaryPrefix = 1e8
	aliasExact    = 1e7
	aliasPrefix   = 9e6
	aliasSub      = 3e6
	termExact     = 2e6
	termPrefix    = 1e6
	termSub       = 2e5

	// orderWeight keeps the insertion-order tie-break below one length step for
	// any dataset under a million entries.
	orderWeight = 1e-6
)

// Score rates how well entry e matches query. Comparisons ignore case.
func Score(query string, e emoji.Entry) float64 {
	q := strings.ToLower(query)
	p := strings.ToLower(e.Primary)

	var s float64
	switch {
	case p == q:
		s = primaryExact
	case strings.HasPrefix(p, q):
		s = primaryPrefix - diff(p, q)
	default:
		s = max(
			best(q, e.Aliases, aliasExact, aliasPrefix, aliasSub),
			best(q, e.Terms, termExact, termPrefix, termSub),
		)
	}
	return s - float64(e.Order)*orderWeight
}

func best(q string, keys []string, exact, prefix, sub float64) float64 {
	var b float64
	for _, k := range keys {
		k = strings.ToLower(k)
		switch {
		case k == q:
			b = max(b, exact)
		case strings.HasPrefix(k, q):
			b = max(b, prefix-diff(k, q))
		case strings.Contains(k, q):
			b = max(b, sub-diff(k, q))
		}
	}
	return b
}

func diff(key, q string) float64 {
	return float64(utf8.RuneCountInString(key) - utf8.RuneCountInString(q))
}

// Matches reports whether query is a substring of the primary key, an alias or a
// search term.
func Matches(query string, e emoji.Entry) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(e.Primary), q) {
		return true
	}
	for _, a := range e.Aliases {
		if strings.Contains(strings.ToLower(a), q) {
			return true
		}
	}
	for _, t := range e.Terms {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

type scored struct {
	entry emoji.Entry
	score float64
}

// Rank filters entries to those matching query and orders them by descending
// score, then ascending insertion order. It has no state: identical inputs give
// identical output.
func Rank(query string, entries []emoji.Entry) []emoji.Entry {
	if query == "" {
		return nil
	}
	var hits []scored
	for _, e := range entries {
		if Matches(query, e) {
			hits = append(hits, scored{entry: e, score: Score(query, e)})
		}
	}
	slices.SortStableFunc(hits, func(a, b scored) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return cmp.Compare(a.entry.Order, b.entry.Order)
	})

	out := make([]emoji.Entry, len(hits))
	for i, h := range hits {
		out[i] = h.entry
	}
	return out
}

// Top ranks and truncates to n results.
func Top(query string, entries []emoji.Entry, n int) []emoji.Entry {
	out := Rank(query, entries)
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
