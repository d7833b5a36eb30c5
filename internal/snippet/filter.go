package snippet

import "github.com/sahilm/fuzzy"

type titles []Snippet

func (t titles) String(i int) string { return t[i].Title }
func (t titles) Len() int            { return len(t) }

// Filter returns snippets whose title fuzzily matches query, best first. An empty
// query returns all of them in order.
func Filter(query string, snippets []Snippet) []Snippet {
	if query == "" {
		return snippets
	}
	matches := fuzzy.FindFrom(query, titles(snippets))
	out := make([]Snippet, len(matches))
	for i, m := range matches {
		out[i] = snippets[m.Index]
	}
	return out
}
