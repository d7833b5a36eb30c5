package emoji

import "strings"

type builder struct {
	shortcodes map[string][]string
	byKey      map[string]string
	entries    []Entry
	order      int
}

// buildIndex turns parsed records into a ready index. Aliases come from the
// shortcode dataset plus the slugged annotation; terms add annotation and tag words.
func buildIndex(items []item, shortcodes map[string][]string) *Index {
	b := &builder{shortcodes: shortcodes, byKey: make(map[string]string)}
	for _, it := range items {
		if it.Emoji != "" && it.Hex != "" {
			b.push(it.Emoji, it.Hex, it.Annotation, it.Tags)
		}
		for _, s := range it.Skins {
			if s.Emoji == "" || s.Hex == "" {
				continue
			}
			ann := s.Annotation
			if ann == "" {
				ann = it.Annotation
			}
			tags := s.Tags
			if tags == nil {
				tags = it.Tags
			}
			b.push(s.Emoji, s.Hex, ann, tags)
		}
	}

	for _, f := range fallbackTable {
		if _, ok := b.byKey[f.key]; ok {
			continue
		}
		b.byKey[f.key] = f.value
		b.entries = append(b.entries, Entry{
			Value:   f.value,
			Primary: f.key,
			Aliases: []string{f.key},
			Terms:   []string{f.key},
			Order:   b.next(),
		})
	}

	return &Index{state: StateReady, byKey: b.byKey, entries: dedupe(b.entries)}
}

func (b *builder) next() int {
	o := b.order
	b.order++
	return o
}

func (b *builder) push(value, hex, annotation string, tags []string) {
	var names []string
	for _, n := range b.shortcodes[hex] {
		names = append(names, strings.ToLower(n))
	}
	cldr := Slug(annotation)

	aliases := newOrderedSet()
	for _, n := range names {
		aliases.add(n)
	}
	aliases.add(cldr)

	terms := newOrderedSet()
	for _, a := range aliases.items {
		terms.add(a)
	}
	if annotation != "" {
		terms.add(cldr)
		for _, w := range SplitTerms(annotation) {
			terms.add(w)
		}
	}
	for _, tag := range tags {
		terms.add(Slug(tag))
		for _, w := range SplitTerms(tag) {
			terms.add(w)
		}
	}

	primary := cldr
	if len(names) > 0 && names[0] != "" {
		primary = names[0]
	}
	for _, a := range aliases.items {
		b.byKey[a] = value
	}
	b.entries = append(b.entries, Entry{
		Value:   value,
		Primary: primary,
		Aliases: aliases.items,
		Terms:   terms.items,
		Order:   b.next(),
	})
}

// dedupe keeps the first entry for each (value, primary) pair.
func dedupe(entries []Entry) []Entry {
	seen := make(map[string]bool, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		k := e.Value + "|" + e.Primary
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, e)
	}
	return out
}

type orderedSet struct {
	seen  map[string]bool
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool)}
}

func (s *orderedSet) add(v string) {
	if v == "" || s.seen[v] {
		return
	}
	s.seen[v] = true
	s.items = append(s.items, v)
}
