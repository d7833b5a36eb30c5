package table

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	bbtable "github.com/evertras/bubble-table/table"
	"github.com/mattn/go-runewidth"

	"github.com/nhath/ezmoji/internal/emoji"
	"github.com/nhath/ezmoji/internal/snippet"
)

// Nord colors
const (
	ColorForeground = "#D8DEE9" // Nord4: Light gray
	ColorComment    = "#4C566A" // Nord3: Dark gray
	ColorCyan       = "#88C0D0" // Nord8: Cyan blue
	ColorGreen      = "#A3BE8C" // Nord14: Green
	ColorOrange     = "#D08770" // Nord12: Orange
	ColorPurple     = "#B48EAD" // Nord15: Purple
	ColorYellow     = "#EBCB8B" // Nord13: Yellow
	ColorTeal       = "#8FBCBB" // Nord7: Teal
)

// Row data keys
const (
	KeyID      = "id"
	KeyTitle   = "Title"
	KeyMode    = "Mode"
	KeyAutoRun = "Auto"
	KeyGlyph   = "Glyph"
	KeyName    = "Name"
	KeyAliases = "Aliases"
)

// New creates a new bubble-table with Nord theme (no background)
func New(cols []bbtable.Column) bbtable.Model {
	return bbtable.New(cols).
		WithBaseStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorForeground))).
		HeaderStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorTeal)).
			Bold(true)).
		HighlightStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorGreen)).
			Bold(true)).
		Focused(true).
		BorderRounded()
}

// FromSnippets builds the snippet list shown in the side panel.
func FromSnippets(list []snippet.Snippet, highlighted, pageSize int) bbtable.Model {
	headers := []string{KeyTitle, KeyMode, KeyAutoRun}
	rowsData := make([][]string, 0, len(list))
	for _, s := range list {
		auto := ""
		if s.AutoRun {
			auto = "●"
		}
		rowsData = append(rowsData, []string{s.Title, string(s.Mode), auto})
	}
	widths := calculateColumnWidths(headers, rowsData)

	cols := make([]bbtable.Column, 0, len(headers))
	for _, h := range headers {
		cols = append(cols, bbtable.NewColumn(h, h, min(widths[h], 30)))
	}

	rows := make([]bbtable.Row, 0, len(list))
	for i, s := range list {
		rows = append(rows, bbtable.NewRow(bbtable.RowData{
			KeyID:      s.ID,
			KeyTitle:   rowsData[i][0],
			KeyMode:    bbtable.NewStyledCell(rowsData[i][1], ModeStyle(s.Mode)),
			KeyAutoRun: bbtable.NewStyledCell(rowsData[i][2], lipgloss.NewStyle().Foreground(lipgloss.Color(ColorOrange))),
		}))
	}

	return withPaging(New(cols).WithRows(rows), len(rows), highlighted, pageSize)
}

// FromEntries builds the emoji search results shown in the side panel.
func FromEntries(entries []emoji.Entry, highlighted, pageSize int) bbtable.Model {
	headers := []string{KeyGlyph, KeyName, KeyAliases}
	rowsData := make([][]string, 0, len(entries))
	for _, e := range entries {
		var aliases []string
		for _, a := range e.Aliases {
			if a != e.Primary {
				aliases = append(aliases, ":"+a+":")
			}
		}
		rowsData = append(rowsData, []string{e.Value, ":" + e.Primary + ":", strings.Join(aliases, " ")})
	}
	widths := calculateColumnWidths(headers, rowsData)

	cols := []bbtable.Column{
		bbtable.NewColumn(KeyGlyph, KeyGlyph, widths[KeyGlyph]),
		bbtable.NewColumn(KeyName, KeyName, min(widths[KeyName], 28)),
		bbtable.NewColumn(KeyAliases, KeyAliases, min(widths[KeyAliases], 28)),
	}
	rows := make([]bbtable.Row, 0, len(entries))
	for _, rd := range rowsData {
		rows = append(rows, bbtable.NewRow(bbtable.RowData{
			KeyGlyph:   rd[0],
			KeyName:    bbtable.NewStyledCell(rd[1], lipgloss.NewStyle().Foreground(lipgloss.Color(ColorCyan))),
			KeyAliases: bbtable.NewStyledCell(rd[2], lipgloss.NewStyle().Foreground(lipgloss.Color(ColorComment))),
		}))
	}
	return withPaging(New(cols).WithRows(rows), len(rows), highlighted, pageSize)
}

func withPaging(t bbtable.Model, n, highlighted, pageSize int) bbtable.Model {
	if n == 0 {
		return t.WithStaticFooter("no matches")
	}
	if pageSize > 0 {
		t = t.WithPageSize(pageSize)
	}
	return t.WithHighlightedRow(max(0, min(highlighted, n-1)))
}

// ModeStyle colours a snippet mode.
func ModeStyle(m snippet.Mode) lipgloss.Style {
	if m == snippet.ModeTemplate {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPurple))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow))
}

func calculateColumnWidths(headers []string, rows [][]string) map[string]int {
	widths := make(map[string]int)
	for _, h := range headers {
		widths[h] = runewidth.StringWidth(h)
	}

	for _, row := range rows {
		for i, val := range row {
			if i < len(headers) {
				if w := runewidth.StringWidth(val); w > widths[headers[i]] {
					widths[headers[i]] = w
				}
			}
		}
	}

	// Add padding
	for h := range widths {
		widths[h] += 2
	}

	return widths
}
