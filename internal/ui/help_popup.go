package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

func (m Model) renderHelpPopup(main string) string {
	var content strings.Builder

	title := lipgloss.NewStyle().Bold(true).Foreground(AccentColor()).Render("⌨️  Keyboard Shortcuts")
	content.WriteString(title)
	content.WriteString("\n\n")

	keys := m.config.Keys

	section := func(name string, bindings []struct{ key, desc string }) {
		header := lipgloss.NewStyle().Bold(true).Foreground(HighlightColor()).Render(name)
		content.WriteString(header + "\n")
		for _, b := range bindings {
			keyStyle := lipgloss.NewStyle().Foreground(SuccessColor()).Width(15)
			descStyle := lipgloss.NewStyle().Foreground(TextSecondary())
			content.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render(b.key), descStyle.Render(b.desc)))
		}
		content.WriteString("\n")
	}

	section("Suggestions", []struct{ key, desc string }{
		{strings.Join(keys.Up, "/"), "Previous suggestion"},
		{strings.Join(keys.Down, "/"), "Next suggestion"},
		{strings.Join(keys.Commit, "/"), "Insert emoji"},
		{strings.Join(keys.Dismiss, "/"), "Close list / leave field"},
	})

	section("Editing", []struct{ key, desc string }{
		{strings.Join(keys.NextFocus, "/"), "Next field"},
		{strings.Join(keys.Save, "/"), "Save document"},
		{strings.Join(keys.Enable, "/"), "Shortcodes on/off"},
		{strings.Join(keys.Retry, "/"), "Reload emoji index"},
	})

	section("Panel", []struct{ key, desc string }{
		{strings.Join(keys.Toggle, "/"), "Toggle panel (outside fields)"},
		{"tab/" + strings.Join(keys.Snippets, "/"), "Switch emoji/snippets"},
		{"enter", "Copy emoji / insert snippet"},
		{"ctrl+a", "Toggle snippet auto-run"},
		{"ctrl+x", "Remove inserted snippets"},
	})

	section("Other", []struct{ key, desc string }{
		{strings.Join(keys.Help, "/"), "Show this help"},
		{strings.Join(keys.Quit, "/"), "Quit"},
	})

	content.WriteString(lipgloss.NewStyle().Faint(true).Render("Press Esc to close"))

	popupBox := PanelStyle.
		Width(50).
		MaxHeight(max(4, m.height-4)).
		Background(BgSecondary()).
		Render(content.String())

	return overlay.Composite(popupBox, main, overlay.Center, overlay.Center, 0, 0)
}
