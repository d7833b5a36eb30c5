// Package emoji owns the shortcode dataset: entries, the built-in fallback table,
// dataset parsing, loading from mirrors and the durable cache.
package emoji

// Entry is one candidate symbol. Entries are never modified after a load builds them.
type Entry struct {
	Value   string   `json:"emoji"`
	Primary string   `json:"primary"`
	Aliases []string `json:"names"`
	Terms   []string `json:"terms"`
	Order   int      `json:"order"`
}

// State is the lifecycle of the catalog.
type State string

const (
	StateEmpty    State = "empty"
	StateLoading  State = "loading"
	StateReady    State = "ready"
	StateDegraded State = "degraded"
)

// Index is an immutable snapshot of loaded entries plus the exact-key map.
type Index struct {
	state   State
	byKey   map[string]string
	entries []Entry
	cause   error
}

// NewIndex wraps prepared data. Used by tests and the cache decoder.
func NewIndex(state State, byKey map[string]string, entries []Entry) *Index {
	if byKey == nil {
		byKey = make(map[string]string)
	}
	return &Index{state: state, byKey: byKey, entries: entries}
}

// State returns StateReady or StateDegraded for loaded indexes.
func (ix *Index) State() State {
	if ix == nil {
		return StateEmpty
	}
	return ix.state
}

// Cause is the load error behind a degraded index.
func (ix *Index) Cause() error {
	if ix == nil {
		return nil
	}
	return ix.cause
}

// Entries returns the entry list in load order. Callers must not modify it.
func (ix *Index) Entries() []Entry {
	if ix == nil {
		return nil
	}
	return ix.entries
}

// Len is the number of entries.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.entries)
}

// Keys returns the size of the exact-key map.
func (ix *Index) Keys() int {
	if ix == nil {
		return 0
	}
	return len(ix.byKey)
}

// Lookup resolves an exact key, case-insensitively, against the loaded map and
// then the fallback table.
func (ix *Index) Lookup(key string) (string, bool) {
	key = lower(key)
	if key == "" {
		return "", false
	}
	if ix != nil {
		if v, ok := ix.byKey[key]; ok && v != "" {
			return v, true
		}
	}
	return FallbackLookup(key)
}
