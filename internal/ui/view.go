package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/nhath/ezmoji/internal/popup"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	bodyH := max(1, m.height-1)

	v := renderDoc(m.doc, m.focus)
	top := 0
	if v.caret.ok && v.caret.Y >= bodyH {
		top = v.caret.Y - bodyH + 1
	}
	lines := v.lines
	if top < len(lines) {
		lines = lines[top:]
	} else {
		lines = nil
	}
	if len(lines) > bodyH {
		lines = lines[:bodyH]
	}
	for len(lines) < bodyH {
		lines = append(lines, "")
	}
	body := lipgloss.NewStyle().Width(m.width).Render(strings.Join(lines, "\n"))

	if pop := m.session.Popup(); pop.Visible() && v.caret.ok {
		view := pop.View()
		pl := popup.Placement{
			Margin:      m.config.Popup.Margin,
			OffsetBelow: m.config.Popup.OffsetBelow,
		}
		size := popup.Size{W: lipgloss.Width(view), H: lipgloss.Height(view)}
		pt, _ := popup.Position(pl.CaretAnchor(v.caret.X, v.caret.Y-top), size, popup.Size{W: m.width, H: bodyH}, pl.Margin)
		body = overlay.Composite(view, body, overlay.Left, overlay.Top, pt.X, pt.Y)
	}

	if m.panelOpen {
		body = overlay.Composite(m.renderPanel(bodyH), body, overlay.Right, overlay.Top, 0, 0)
	}

	if m.showHelp {
		body = m.renderHelpPopup(body)
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatusBar())
}
