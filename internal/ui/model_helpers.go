// internal/ui/model_helpers.go
// Small helper functions used across the UI layer
package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/ezmoji/internal/emoji"
)

// matchKey returns true if the key message matches any of the provided key strings
func matchKey(msg tea.KeyMsg, keys []string) bool {
	keyStr := msg.String()
	for _, k := range keys {
		if k == keyStr {
			return true
		}
	}
	return false
}

// limitString truncates s to maxLen by replacing the middle with "..."
func limitString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	half := (maxLen - 3) / 2
	return string(r[:half]) + "..." + string(r[len(r)-half:])
}

// indexSummary describes the catalog state in a few words.
func indexSummary(c *emoji.Catalog) string {
	switch c.State() {
	case emoji.StateLoading:
		return "loading"
	case emoji.StateReady:
		return fmt.Sprintf("ready (%d)", c.Index().Len())
	case emoji.StateDegraded:
		cause := "unavailable"
		if err := c.Index().Cause(); err != nil {
			cause = limitString(err.Error(), 32)
		}
		return "fallback: " + cause
	default:
		return "not loaded"
	}
}
