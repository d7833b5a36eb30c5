// internal/ui/styles.go
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/ezmoji/internal/config"
	"github.com/nhath/ezmoji/internal/popup"
)

var (
	// Colors (exported via getter functions below)
	textPrimary   lipgloss.Color
	textSecondary lipgloss.Color
	textFaint     lipgloss.Color

	accentColor    lipgloss.Color
	successColor   lipgloss.Color
	errorColor     lipgloss.Color
	highlightColor lipgloss.Color
	warningColor   lipgloss.Color

	bgPrimary   lipgloss.Color
	bgSecondary lipgloss.Color
	cardBg      lipgloss.Color

	// Styles
	StatusBarStyle    lipgloss.Style
	EnabledStyle      lipgloss.Style
	DisabledStyle     lipgloss.Style
	ConnectionStyle   lipgloss.Style
	LabelStyle        lipgloss.Style
	LabelFocusedStyle lipgloss.Style
	GutterStyle       lipgloss.Style
	GutterFocused     lipgloss.Style
	StaticTextStyle   lipgloss.Style
	CaretStyle        lipgloss.Style
	MetaStyle         lipgloss.Style
	ErrorStyle        lipgloss.Style
	PanelStyle        lipgloss.Style
	TabActiveStyle    lipgloss.Style
	TabInactiveStyle  lipgloss.Style
)

// Color getter functions for use in components
func TextPrimary() lipgloss.Color    { return textPrimary }
func TextSecondary() lipgloss.Color  { return textSecondary }
func TextFaint() lipgloss.Color      { return textFaint }
func AccentColor() lipgloss.Color    { return accentColor }
func SuccessColor() lipgloss.Color   { return successColor }
func ErrorColor() lipgloss.Color     { return errorColor }
func HighlightColor() lipgloss.Color { return highlightColor }
func WarningColor() lipgloss.Color   { return warningColor }
func BgPrimary() lipgloss.Color      { return bgPrimary }
func BgSecondary() lipgloss.Color    { return bgSecondary }
func CardBg() lipgloss.Color         { return cardBg }

// InitStyles initializes the global styles based on the provided configuration theme
func InitStyles(theme config.Theme) {
	textPrimary = lipgloss.Color(theme.TextPrimary)
	textSecondary = lipgloss.Color(theme.TextSecondary)
	textFaint = lipgloss.Color(theme.TextFaint)

	accentColor = lipgloss.Color(theme.Accent)
	successColor = lipgloss.Color(theme.Success)
	errorColor = lipgloss.Color(theme.Error)
	highlightColor = lipgloss.Color(theme.Highlight)
	warningColor = lipgloss.Color(theme.Warning)

	bgPrimary = lipgloss.Color(theme.BgPrimary)
	bgSecondary = lipgloss.Color(theme.BgSecondary)
	cardBg = lipgloss.Color(theme.CardBg)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(textPrimary).
		Background(bgSecondary)

	EnabledStyle = lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Background(successColor).
		Foreground(bgPrimary)

	DisabledStyle = lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Background(warningColor).
		Foreground(bgPrimary)

	ConnectionStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(cardBg).
		Foreground(textPrimary)

	LabelStyle = lipgloss.NewStyle().
		Foreground(textSecondary)

	LabelFocusedStyle = lipgloss.NewStyle().
		Foreground(accentColor).
		Bold(true)

	GutterStyle = lipgloss.NewStyle().
		Foreground(textFaint)

	GutterFocused = lipgloss.NewStyle().
		Foreground(accentColor)

	StaticTextStyle = lipgloss.NewStyle().
		Foreground(textFaint).
		Italic(true)

	CaretStyle = lipgloss.NewStyle().
		Reverse(true)

	MetaStyle = lipgloss.NewStyle().
		Foreground(textFaint).
		Italic(true)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(errorColor).
		Bold(true)

	PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(highlightColor).
		Padding(0, 1)

	TabActiveStyle = lipgloss.NewStyle().
		Foreground(successColor).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(successColor).
		Padding(0, 1)

	TabInactiveStyle = lipgloss.NewStyle().
		Foreground(textFaint).
		Padding(0, 1)
}

// PopupStyles derives suggestion list styles from the current theme.
func PopupStyles() popup.Styles {
	return popup.Styles{
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(textFaint).
			Background(bgPrimary).
			Padding(0, 1),
		Item: lipgloss.NewStyle().
			Foreground(textPrimary),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(highlightColor).
			Bold(true),
		Name: lipgloss.NewStyle().
			Foreground(textSecondary),
		Footer: lipgloss.NewStyle().
			Foreground(textFaint).
			Italic(true),
	}
}

// PopupKeys converts configured bindings into popup navigation keys.
func PopupKeys(k config.KeyMap) popup.KeyMap {
	return popup.KeyMap{
		Up:      k.Up,
		Down:    k.Down,
		Commit:  k.Commit,
		Dismiss: k.Dismiss,
	}
}
