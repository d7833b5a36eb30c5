package ui

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"

	"github.com/nhath/ezmoji/internal/emoji"
)

// loadIndexCmd runs an index load off the update loop. retry reloads from any
// state; otherwise only an empty catalog is loaded.
func loadIndexCmd(c *emoji.Catalog, retry bool, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		var (
			res     emoji.Result
			started bool
		)
		if retry {
			res, started = c.Retry(ctx)
		} else {
			res, started = c.Ensure(ctx)
		}
		return IndexLoadedMsg{Result: res, Started: started}
	}
}

// copyToClipboardCmd copies text to the system clipboard
func copyToClipboardCmd(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return ClipboardCopiedMsg{Err: errors.Wrap(err, "copy to clipboard")}
		}
		return ClipboardCopiedMsg{Text: text}
	}
}

// saveDocCmd serialises the document now and writes it off the update loop.
func (m Model) saveDocCmd() tea.Cmd {
	if m.path == "" {
		return func() tea.Msg { return DocSavedMsg{Err: errors.New("no file to save to")} }
	}
	var buf bytes.Buffer
	if err := m.doc.WriteHTML(&buf); err != nil {
		return func() tea.Msg { return DocSavedMsg{Err: err} }
	}
	path := m.path
	return func() tea.Msg {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return DocSavedMsg{Err: errors.Wrap(err, "create directory")}
		}
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return DocSavedMsg{Err: errors.Wrapf(err, "write %s", path)}
		}
		return DocSavedMsg{Path: path}
	}
}

func (m Model) indexTimeout() time.Duration {
	if m.config.Dataset.TimeoutSec > 0 {
		return time.Duration(m.config.Dataset.TimeoutSec) * time.Second
	}
	return 15 * time.Second
}
