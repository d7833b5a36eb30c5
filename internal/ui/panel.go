package ui

import (
	"context"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/ezmoji/internal/emoji"
	"github.com/nhath/ezmoji/internal/rank"
	"github.com/nhath/ezmoji/internal/snippet"
	eztable "github.com/nhath/ezmoji/internal/ui/components/table"
	"github.com/nhath/ezmoji/internal/ui/highlight"
	"github.com/nhath/ezmoji/internal/ui/icons"
)

const (
	panelResults = 40
	panelPage    = 8
	previewLines = 6
)

func (m Model) togglePanel() (tea.Model, tea.Cmd) {
	m.panelOpen = !m.panelOpen
	if !m.panelOpen {
		return m, nil
	}
	m.filter.SetValue("")
	m.panelIdx = 0
	if m.session.Catalog().State() == emoji.StateEmpty && !m.loading {
		m.loading = true
		return m, loadIndexCmd(m.session.Catalog(), false, m.indexTimeout())
	}
	return m, nil
}

func (m Model) setTab(t Tab) Model {
	m.tab = t
	m.panelIdx = 0
	if err := snippet.SetActiveTab(context.Background(), m.kv, string(t)); err != nil {
		m.log.Warnw("persist active tab failed", "error", err)
	}
	return m
}

func (m Model) handlePanelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.config.Keys
	switch {
	case msg.Type == tea.KeyEsc:
		m.panelOpen = false
		return m, nil
	case msg.Type == tea.KeyTab || matchKey(msg, keys.Snippets):
		next := TabSnippets
		if m.tab == TabSnippets {
			next = TabEmoji
		}
		return m.setTab(next), nil
	case msg.Type == tea.KeyUp:
		m.panelIdx = max(0, m.panelIdx-1)
		return m, nil
	case msg.Type == tea.KeyDown:
		m.panelIdx = min(m.panelIdx+1, max(0, m.panelLen()-1))
		return m, nil
	case msg.Type == tea.KeyEnter:
		return m.activate()
	case matchKey(msg, keys.Enable):
		return m.toggleEnabled(), nil
	case matchKey(msg, keys.Retry):
		return m.retryIndex()
	case m.tab == TabSnippets && msg.String() == "ctrl+x":
		return m.clearInjected(), nil
	case m.tab == TabSnippets && msg.String() == "ctrl+a":
		return m.toggleAutoRun(), nil
	}

	var cmd tea.Cmd
	before := m.filter.Value()
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != before {
		m.panelIdx = 0
	}
	return m, cmd
}

func (m Model) panelLen() int {
	if m.tab == TabSnippets {
		return len(m.snippetResults())
	}
	return len(m.emojiResults())
}

func (m Model) emojiResults() []emoji.Entry {
	q := strings.Trim(strings.TrimSpace(m.filter.Value()), ":")
	idx := m.session.Catalog().Index()
	if q == "" || idx == nil {
		return nil
	}
	return rank.Top(q, idx.Entries(), panelResults)
}

func (m Model) snippetResults() []snippet.Snippet {
	if m.snippets == nil {
		return nil
	}
	return snippet.Filter(strings.TrimSpace(m.filter.Value()), m.snippets.List())
}

func (m Model) activate() (tea.Model, tea.Cmd) {
	if m.tab == TabEmoji {
		res := m.emojiResults()
		if m.panelIdx >= len(res) {
			return m, nil
		}
		return m, copyToClipboardCmd(res[m.panelIdx].Value)
	}

	res := m.snippetResults()
	if m.panelIdx >= len(res) {
		return m, nil
	}
	s := res[m.panelIdx]
	if m.lastSurface == nil {
		m.errorMsg = "focus a field first"
		return m, nil
	}
	if err := m.insertSnippet(m.lastSurface, s); err != nil {
		m.errorMsg = err.Error()
		return m, nil
	}
	m.statusMsg = "inserted " + s.Title
	return m, nil
}

func (m Model) clearInjected() Model {
	if m.lastSurface == nil || !isRich(m.lastSurface) {
		m.errorMsg = "no rich region to clear"
		return m
	}
	id := ""
	if res := m.snippetResults(); m.panelIdx < len(res) && m.filter.Value() != "" {
		id = res[m.panelIdx].ID
	}
	n := snippet.ClearInjected(m.lastSurface, id)
	if a := m.doc.Selection().Anchor; a.Node != nil && !m.doc.Root.Contains(a.Node) {
		placeCaret(m.doc, m.lastSurface)
	}
	m.statusMsg = pluralize(n, "block") + " removed"
	return m
}

func (m Model) toggleAutoRun() Model {
	res := m.snippetResults()
	if m.panelIdx >= len(res) {
		return m
	}
	s := res[m.panelIdx]
	s.AutoRun = !s.AutoRun
	if err := m.snippets.Update(s); err != nil {
		m.errorMsg = err.Error()
	}
	return m
}

func pluralize(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}

func (m Model) renderPanel(height int) string {
	width := min(64, max(36, m.width/2))

	var tabRow []string
	for _, t := range tabs {
		style := TabInactiveStyle
		if t == m.tab {
			style = TabActiveStyle
		}
		tabRow = append(tabRow, style.Render(string(t)))
	}

	parts := []string{lipgloss.JoinHorizontal(lipgloss.Bottom, tabRow...)}
	if m.tab == TabSnippets {
		parts = append(parts, m.renderSnippetsTab()...)
	} else {
		parts = append(parts, m.renderEmojiTab()...)
	}

	return PanelStyle.
		Width(width).
		MaxHeight(height).
		Background(BgPrimary()).
		Render(strings.Join(parts, "\n"))
}

func (m Model) renderEmojiTab() []string {
	state := "on"
	if !m.session.Enabled() {
		state = "off"
	}
	sep := " " + icons.IconBullet + " "
	info := MetaStyle.Render("shortcodes " + state + sep + "index " + indexSummary(m.session.Catalog()) +
		sep + "data " + m.config.Dataset.Version)

	out := []string{info, m.filter.View()}
	if res := m.emojiResults(); len(res) > 0 || m.filter.Value() != "" {
		out = append(out, eztable.FromEntries(res, m.panelIdx, panelPage).View())
	}
	out = append(out, MetaStyle.Render("enter copy • tab snippets • ctrl+e on/off • ctrl+r reload • esc close"))
	return out
}

func (m Model) renderSnippetsTab() []string {
	res := m.snippetResults()
	out := []string{m.filter.View(), eztable.FromSnippets(res, m.panelIdx, panelPage).View()}
	if m.panelIdx < len(res) {
		s := res[m.panelIdx]
		preview := strings.Split(highlight.Snippet(s.Code, string(s.Mode)), "\n")
		if len(preview) > previewLines {
			preview = append(preview[:previewLines], "…")
		}
		out = append(out, strings.Join(preview, "\n"))
	}
	out = append(out, MetaStyle.Render("enter insert • ctrl+a auto-run • ctrl+x clear inserted • esc close"))
	return out
}
