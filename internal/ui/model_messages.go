// internal/ui/model_messages.go
// Message types for the Bubble Tea Update cycle
package ui

import (
	"github.com/nhath/ezmoji/internal/config"
	"github.com/nhath/ezmoji/internal/emoji"
)

// IndexLoadedMsg is sent when an index load finishes. Started is false when
// another load was already running.
type IndexLoadedMsg struct {
	Result  emoji.Result
	Started bool
}

// ClipboardCopiedMsg is sent when clipboard copy completes
type ClipboardCopiedMsg struct {
	Text string
	Err  error
}

// DocSavedMsg is sent when the document has been written
type DocSavedMsg struct {
	Path string
	Err  error
}

// ConfigReloadedMsg carries a config changed on disk
type ConfigReloadedMsg struct {
	Config *config.Config
}
