package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/nhath/ezmoji/internal/doc"
	"github.com/nhath/ezmoji/internal/surface"
)

const gutter = "│ "

// caretPos is a screen cell relative to the document view.
type caretPos struct {
	X, Y int
	ok   bool
}

// docView renders the document as plain styled lines and records where the
// caret of the focused surface lands.
type docView struct {
	d     *doc.Document
	focus *doc.Node
	lines []string
	caret caretPos
}

func renderDoc(d *doc.Document, focus *doc.Node) docView {
	v := docView{d: d, focus: focus}
	v.walk(d.Root)
	return v
}

func (v *docView) walk(n *doc.Node) {
	if n.IsText() {
		if t := strings.TrimSpace(n.Data()); t != "" {
			for _, line := range strings.Split(t, "\n") {
				v.lines = append(v.lines, StaticTextStyle.Render(line))
			}
		}
		return
	}
	if sf, ok := surface.Classify(n, nil); ok && sf.Root() == n {
		v.surface(n, sf.Kind())
		return
	}
	for _, c := range n.Children {
		v.walk(c)
	}
}

func label(n *doc.Node) string {
	for _, a := range []string{"aria-label", "name", "id", "placeholder"} {
		if s, ok := n.Attr(a); ok && s != "" {
			return s
		}
	}
	if n.Tag == "input" {
		return "input[" + n.InputType() + "]"
	}
	return n.Tag
}

func (v *docView) surface(n *doc.Node, kind surface.Kind) {
	focused := n == v.focus
	lbl, gut := LabelStyle, GutterStyle
	if focused {
		lbl, gut = LabelFocusedStyle, GutterFocused
	}
	if len(v.lines) > 0 {
		v.lines = append(v.lines, "")
	}
	v.lines = append(v.lines, lbl.Render(label(n)+" ("+string(kind)+")"))

	var rows []string
	row, col := -1, 0
	if kind == surface.KindField {
		rows = strings.Split(n.Value(), "\n")
		if start, _, ok := n.SelectionRange(); ok && focused {
			row, col = locate(rows, start)
		}
	} else {
		rows, row, col = v.richRows(n, focused)
	}

	for i, r := range rows {
		text := r
		if i == row {
			text = withCaret(r, col)
			v.caret = caretPos{
				X:  runewidth.StringWidth(gutter) + runewidth.StringWidth(string([]rune(r)[:col])),
				Y:  len(v.lines),
				ok: true,
			}
		}
		v.lines = append(v.lines, gut.Render(gutter)+text)
	}
}

// richRows flattens a region into one row per block and finds the caret.
func (v *docView) richRows(root *doc.Node, focused bool) (rows []string, row, col int) {
	row = -1
	sel := v.d.Selection().Anchor
	for _, block := range root.Children {
		var b strings.Builder
		offset := 0
		for _, t := range block.TextNodes() {
			if focused && sel.Node == t {
				row, col = len(rows), offset+sel.Offset
			}
			b.WriteString(t.Data())
			offset += t.Len()
		}
		parts := strings.Split(b.String(), "\n")
		if row == len(rows) && len(parts) > 1 {
			// caret inside a multi-line block
			r, c := locate(parts, col)
			row, col = len(rows)+r, c
		}
		rows = append(rows, parts...)
	}
	if len(rows) == 0 {
		rows = []string{""}
		if focused {
			row, col = 0, 0
		}
	}
	return rows, row, col
}

// locate turns a rune offset into (row, col) over lines joined by "\n".
func locate(lines []string, offset int) (int, int) {
	for i, l := range lines {
		n := len([]rune(l))
		if offset <= n {
			return i, offset
		}
		offset -= n + 1
	}
	last := len(lines) - 1
	return last, len([]rune(lines[last]))
}

func withCaret(line string, col int) string {
	r := []rune(line)
	if col >= len(r) {
		return line + CaretStyle.Render(" ")
	}
	return string(r[:col]) + CaretStyle.Render(string(r[col])) + string(r[col+1:])
}
