package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/ezmoji/internal/store"
	"github.com/nhath/ezmoji/internal/ui/icons"
)

func (m Model) renderStatusBar() string {
	var parts []string

	// 1. Shortcode switch
	if m.session.Enabled() {
		parts = append(parts, EnabledStyle.Render(" ON "))
	} else {
		parts = append(parts, DisabledStyle.Render(" OFF "))
	}

	// 2. Store and focus
	where := "no focus (ctrl+o)"
	if m.focus != nil {
		where = limitString(label(m.focus), 24)
	}
	parts = append(parts, ConnectionStyle.Render(" "+icons.GetStoreIcon(m.storeType())+" "+where+" "))

	// 3. Index
	idx := lipgloss.NewStyle().Background(CardBg()).Foreground(TextPrimary()).Padding(0, 1)
	if m.loading {
		parts = append(parts, idx.Foreground(AccentColor()).Render(m.spinner.View()+" loading index"))
	} else {
		parts = append(parts, idx.Render(indexSummary(m.session.Catalog())))
	}

	// 4. Status message
	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().Background(SuccessColor()).Foreground(BgPrimary()).Padding(0, 1)
		parts = append(parts, statusStyle.Render(icons.IconSuccess+" "+limitString(m.statusMsg, 40)))
	}

	// 5. Error indicator
	if m.errorMsg != "" {
		errorStyle := lipgloss.NewStyle().Background(ErrorColor()).Foreground(TextPrimary()).Padding(0, 1)
		parts = append(parts, errorStyle.Render(icons.IconError+" "+limitString(m.errorMsg, 40)))
	}

	hint := "f8 panel • ctrl+s save • ctrl+c quit"
	if m.path == "" {
		hint = "f8 panel • ctrl+c quit"
	}
	parts = append(parts, MetaStyle.Padding(0, 1).Render(hint))

	content := lipgloss.JoinHorizontal(lipgloss.Left, parts...)
	return StatusBarStyle.Width(m.width).Render(content)
}

// storeType names the durable store backend, "memory" for ephemeral runs.
func (m Model) storeType() string {
	if _, ok := m.kv.(*store.Memory); ok {
		return "memory"
	}
	return m.config.Store.Type
}
