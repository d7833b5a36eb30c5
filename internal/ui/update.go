package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/ezmoji/internal/config"
	"github.com/nhath/ezmoji/internal/doc"
	"github.com/nhath/ezmoji/internal/emoji"
	"github.com/nhath/ezmoji/internal/engine"
)

// Update handles messages and updates model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case IndexLoadedMsg:
		return m.handleIndexLoaded(msg), nil

	case ClipboardCopiedMsg:
		if msg.Err != nil {
			m.errorMsg = msg.Err.Error()
		} else {
			m.statusMsg = "copied " + msg.Text
		}
		return m, nil

	case DocSavedMsg:
		if msg.Err != nil {
			m.errorMsg = msg.Err.Error()
			m.log.Warnw("save failed", "error", msg.Err)
		} else {
			m.statusMsg = "saved " + msg.Path
		}
		return m, nil

	case ConfigReloadedMsg:
		return m.applyConfig(msg.Config), nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleIndexLoaded(msg IndexLoadedMsg) Model {
	if !msg.Started {
		return m
	}
	m.loading = false
	res := msg.Result
	switch res.Outcome {
	case emoji.Ready:
		src := "fetched"
		if res.Cached {
			src = "cached"
		}
		m.statusMsg = fmt.Sprintf("index ready: %d entries (%s)", res.Index.Len(), src)
	case emoji.Degraded:
		m.errorMsg = "index degraded, using built-in table"
	default:
		m.errorMsg = "index load failed"
	}
	m.log.Infow("index load finished", "outcome", res.Outcome.String(), "cached", res.Cached,
		"duration", res.Duration, "error", res.Err)

	// a trigger typed while loading gets its popup now
	if target := m.caretTarget(); target != nil {
		m.session.Rescan(target)
	}
	return m
}

func (m Model) applyConfig(cfg *config.Config) Model {
	if cfg == nil {
		return m
	}
	m.config = cfg
	InitStyles(cfg.Theme)
	m.session.SetPopupStyles(PopupStyles())
	m.session.SetKeys(PopupKeys(cfg.Keys), cfg.Keys.Toggle)
	m.statusMsg = "config reloaded"
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	keys := m.config.Keys
	m.statusMsg, m.errorMsg = "", ""

	if matchKey(msg, keys.Quit) {
		if m.snippets != nil {
			if err := m.snippets.Flush(context.Background()); err != nil {
				m.log.Warnw("snippet flush on quit failed", "error", err)
			}
		}
		return m, tea.Quit
	}

	if m.showHelp {
		if matchKey(msg, keys.Dismiss) || matchKey(msg, keys.Help) {
			m.showHelp = false
		}
		return m, nil
	}

	// the popup sees keys before anything else
	if handled, err := m.session.HandleKey(key); handled {
		if err != nil {
			m.errorMsg = "suggestion dropped: text changed"
			m.log.Debugw("commit rejected", "error", err)
		}
		return m, nil
	}

	if m.session.IsToggleKey(key) {
		if engine.ToggleAllowed(m.doc.ActiveElement()) {
			return m.togglePanel()
		}
		return m, nil
	}

	if m.panelOpen {
		return m.handlePanelKey(msg)
	}

	switch {
	case matchKey(msg, keys.Help):
		m.showHelp = true
		return m, nil
	case matchKey(msg, keys.NextFocus):
		return m.setFocus(nextFocus(m.doc.Root, m.focus)), nil
	case matchKey(msg, keys.Dismiss):
		return m.setFocus(nil), nil
	case matchKey(msg, keys.Save):
		return m, m.saveDocCmd()
	case matchKey(msg, keys.Retry):
		return m.retryIndex()
	case matchKey(msg, keys.Enable):
		return m.toggleEnabled(), nil
	}
	return m.editKey(msg)
}

// editKey applies a key to the focused surface and runs the engine on the result.
func (m Model) editKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.focus == nil {
		return m, nil
	}
	var target *doc.Node
	ev := doc.EventInput
	switch msg.Type {
	case tea.KeyRunes:
		target = insertText(m.doc, m.focus, string(msg.Runes))
	case tea.KeySpace:
		target = insertText(m.doc, m.focus, " ")
	case tea.KeyBackspace:
		target = deleteBackward(m.doc, m.focus)
	case tea.KeyEnter:
		target = newline(m.doc, m.focus)
	case tea.KeyLeft:
		target, ev = moveCaret(m.doc, m.focus, -1), doc.EventSelectionChange
	case tea.KeyRight:
		target, ev = moveCaret(m.doc, m.focus, 1), doc.EventSelectionChange
	case tea.KeyHome:
		target, ev = moveEdge(m.doc, m.focus, false), doc.EventSelectionChange
	case tea.KeyEnd:
		target, ev = moveEdge(m.doc, m.focus, true), doc.EventSelectionChange
	}
	if target == nil {
		return m, nil
	}

	res := m.session.HandleEvent(doc.Event{Type: ev, Target: target})
	if res.NeedIndex && !m.loading {
		m.loading = true
		return m, loadIndexCmd(m.session.Catalog(), false, m.indexTimeout())
	}
	return m, nil
}

// setFocus moves keyboard focus to a surface root, or away from all surfaces.
func (m Model) setFocus(n *doc.Node) Model {
	if n == m.focus {
		return m
	}
	if m.focus != nil {
		m.session.HandleEvent(doc.Event{Type: doc.EventFocusOut, Target: m.focus})
	}
	m.focus = n
	if n == nil {
		m.doc.Focus(m.doc.Root)
		return m
	}
	m.doc.Focus(n)
	placeCaret(m.doc, n)
	m.lastSurface = n
	return m
}

// caretTarget is the node events for the focused surface are attributed to.
func (m Model) caretTarget() *doc.Node {
	if m.focus == nil {
		return nil
	}
	if isRich(m.focus) {
		if a := m.doc.Selection().Anchor; a.Node != nil && m.focus.Contains(a.Node) {
			return a.Node
		}
	}
	return m.focus
}

func (m Model) retryIndex() (tea.Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	m.loading = true
	m.statusMsg = "reloading index"
	return m, loadIndexCmd(m.session.Catalog(), true, m.indexTimeout())
}

func (m Model) toggleEnabled() Model {
	on := !m.session.Enabled()
	if err := m.session.SetEnabled(context.Background(), on); err != nil {
		m.errorMsg = "could not save setting"
		m.log.Warnw("persist enabled flag failed", "error", err)
		return m
	}
	if on {
		m.statusMsg = "shortcodes on"
	} else {
		m.statusMsg = "shortcodes off"
	}
	return m
}
