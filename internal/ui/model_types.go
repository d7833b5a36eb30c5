// internal/ui/model_types.go
package ui

// Tab is a side panel page.
type Tab string

const (
	TabEmoji    Tab = "emoji"
	TabSnippets Tab = "snippets"
)

var tabs = []Tab{TabEmoji, TabSnippets}

func parseTab(s string) Tab {
	for _, t := range tabs {
		if string(t) == s {
			return t
		}
	}
	return TabEmoji
}
