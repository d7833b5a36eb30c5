// Package popup is the candidate dropdown: open/closed state, the highlighted row,
// key handling and placement next to the caret.
package popup

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/ezmoji/internal/emoji"
	"github.com/nhath/ezmoji/internal/trigger"
)

// Action is the outcome of a key press.
type Action int

const (
	ActionNone Action = iota
	ActionMove
	ActionCommit
	ActionDismiss
)

// KeyMap lists key names, as produced by the host, for each popup action.
type KeyMap struct {
	Up      []string
	Down    []string
	Commit  []string
	Dismiss []string
}

// DefaultKeyMap mirrors the usual dropdown keys.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:      []string{"up", "ctrl+p"},
		Down:    []string{"down", "ctrl+n"},
		Commit:  []string{"enter", "tab"},
		Dismiss: []string{"esc"},
	}
}

// Styles for the dropdown
type Styles struct {
	Box      lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
	Name     lipgloss.Style
	Footer   lipgloss.Style
}

// DefaultStyles returns default styling
func DefaultStyles() Styles {
	return Styles{
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4C566A")).
			Padding(0, 1),
		Item: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D8DEE9")),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2E3440")).
			Background(lipgloss.Color("#88C0D0")),
		Name: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#81A1C1")),
		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4C566A")).
			Italic(true),
	}
}

// Model is the popup state. Methods return a new Model; the old one is left as is.
type Model struct {
	items    []emoji.Entry
	selected int
	visible  bool
	pending  trigger.Pending
	maxShow  int
	keys     KeyMap
	styles   Styles
}

// New creates a closed popup.
func New() Model {
	return Model{
		maxShow: 6,
		keys:    DefaultKeyMap(),
		styles:  DefaultStyles(),
	}
}

// SetStyles sets custom styles
func (m Model) SetStyles(s Styles) Model {
	m.styles = s
	return m
}

// SetKeyMap replaces the key bindings.
func (m Model) SetKeyMap(k KeyMap) Model {
	m.keys = k
	return m
}

// SetMaxShow sets how many rows are visible at once.
func (m Model) SetMaxShow(n int) Model {
	if n > 0 {
		m.maxShow = n
	}
	return m
}

// Open shows candidates for a pending query with the first row highlighted. An
// empty list closes the popup instead.
func (m Model) Open(p trigger.Pending, items []emoji.Entry) Model {
	if len(items) == 0 || !p.Valid() {
		return m.Close()
	}
	m.items = items
	m.pending = p
	m.selected = 0
	m.visible = true
	return m
}

// Close hides the popup and forgets the bound query.
func (m Model) Close() Model {
	m.visible = false
	m.items = nil
	m.selected = 0
	m.pending = trigger.Pending{}
	return m
}

// Visible returns visibility state
func (m Model) Visible() bool { return m.visible }

// Pending is the query the popup was opened for.
func (m Model) Pending() trigger.Pending { return m.pending }

// Selected returns the highlighted index
func (m Model) Selected() int { return m.selected }

// Items returns the shown candidates.
func (m Model) Items() []emoji.Entry { return m.items }

// Len returns number of items
func (m Model) Len() int { return len(m.items) }

// Highlighted returns the highlighted candidate.
func (m Model) Highlighted() (emoji.Entry, bool) {
	if !m.visible || m.selected < 0 || m.selected >= len(m.items) {
		return emoji.Entry{}, false
	}
	return m.items[m.selected], true
}

// MoveUp moves selection up, stopping at the first row.
func (m Model) MoveUp() Model {
	if m.selected > 0 {
		m.selected--
	}
	return m
}

// MoveDown moves selection down, stopping at the last row.
func (m Model) MoveDown() Model {
	if m.selected < len(m.items)-1 {
		m.selected++
	}
	return m
}

// HandleKey maps a key to an action. Keys are only consumed while visible.
// Commit and dismiss do not change the model; the caller applies them.
func (m Model) HandleKey(key string) (Model, Action) {
	if !m.visible {
		return m, ActionNone
	}
	switch {
	case matches(m.keys.Up, key):
		return m.MoveUp(), ActionMove
	case matches(m.keys.Down, key):
		return m.MoveDown(), ActionMove
	case matches(m.keys.Commit, key):
		return m, ActionCommit
	case matches(m.keys.Dismiss, key):
		return m, ActionDismiss
	}
	return m, ActionNone
}

func matches(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

// window returns the visible slice bounds, keeping the highlight in view.
func (m Model) window() (int, int) {
	start := 0
	if m.selected > m.maxShow/2 {
		start = m.selected - m.maxShow/2
	}
	end := start + m.maxShow
	if end > len(m.items) {
		end = len(m.items)
		start = max(0, end-m.maxShow)
	}
	return start, end
}

// View renders the dropdown
func (m Model) View() string {
	if !m.visible || len(m.items) == 0 {
		return ""
	}

	start, end := m.window()
	var rows []string
	for i := start; i < end; i++ {
		it := m.items[i]
		style := m.styles.Item
		prefix := "  "
		if i == m.selected {
			style = m.styles.Selected
			prefix = "> "
		}
		name := ":" + it.Primary + ":"
		if i != m.selected {
			name = m.styles.Name.Render(name)
		}
		rows = append(rows, style.Render(prefix+it.Value+" ")+name)
	}
	footer := m.styles.Footer.Render(fmt.Sprintf("%d/%d  ↑↓ enter esc", m.selected+1, len(m.items)))
	rows = append(rows, footer)
	return m.styles.Box.Render(strings.Join(rows, "\n"))
}
