package emoji

type fallbackEntry struct {
	key   string
	value string
}

// fallbackTable is ordered so degraded indexes are built deterministically.
var fallbackTable = []fallbackEntry{
	{"smile", "😄"}, {"grinning", "😀"}, {"smiley", "😃"}, {"slight_smile", "🙂"},
	{"wink", "😉"}, {"blush", "😊"}, {"stuck_out_tongue", "😛"},
	{"stuck_out_tongue_winking_eye", "😜"}, {"sunglasses", "😎"}, {"thinking", "🤔"},
	{"joy", "😂"}, {"sob", "😭"}, {"cry", "😢"}, {"eyes", "👀"}, {"poop", "💩"},
	{"heart", "❤️"}, {"orange_heart", "🧡"}, {"yellow_heart", "💛"}, {"green_heart", "💚"},
	{"blue_heart", "💙"}, {"purple_heart", "💜"}, {"black_heart", "🖤"}, {"broken_heart", "💔"},
	{"tada", "🎉"}, {"fire", "🔥"}, {"rocket", "🚀"}, {"sparkles", "✨"}, {"star", "⭐"},
	{"white_check_mark", "✅"}, {"heavy_check_mark", "✔️"}, {"x", "❌"}, {"question", "❓"},
	{"exclamation", "❗"},
	{"ok_hand", "👌"}, {"clap", "👏"}, {"wave", "👋"}, {"thumbsup", "👍"}, {"+1", "👍"},
	{"thumbs_up", "👍"}, {"thumbsdown", "👎"}, {"-1", "👎"},
}

var fallbackMap = func() map[string]string {
	m := make(map[string]string, len(fallbackTable))
	for _, f := range fallbackTable {
		m[f.key] = f.value
	}
	return m
}()

// FallbackLookup resolves a key against the built-in table only.
func FallbackLookup(key string) (string, bool) {
	v, ok := fallbackMap[lower(key)]
	return v, ok
}

// FallbackKeys lists the built-in keys in table order.
func FallbackKeys() []string {
	keys := make([]string, len(fallbackTable))
	for i, f := range fallbackTable {
		keys[i] = f.key
	}
	return keys
}

// FallbackIndex builds a degraded index from the built-in table alone.
func FallbackIndex(cause error) *Index {
	byKey := make(map[string]string, len(fallbackTable))
	entries := make([]Entry, 0, len(fallbackTable))
	for i, f := range fallbackTable {
		byKey[f.key] = f.value
		entries = append(entries, Entry{
			Value:   f.value,
			Primary: f.key,
			Aliases: []string{f.key},
			Terms:   []string{f.key},
			Order:   i,
		})
	}
	return &Index{state: StateDegraded, byKey: byKey, entries: entries, cause: cause}
}
