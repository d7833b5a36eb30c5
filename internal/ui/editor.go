package ui

import (
	"github.com/nhath/ezmoji/internal/doc"
	"github.com/nhath/ezmoji/internal/surface"
)

// focusables lists surface roots in document order: text fields and the
// outermost element of each editable region.
func focusables(root *doc.Node) []*doc.Node {
	var out []*doc.Node
	root.Walk(func(n *doc.Node) bool {
		if !n.IsElement() {
			return true
		}
		if sf, ok := surface.Classify(n, nil); ok && sf.Root() == n {
			out = append(out, n)
		}
		return true
	})
	return out
}

// nextFocus cycles through the surfaces and then back to no focus (nil).
func nextFocus(root, current *doc.Node) *doc.Node {
	list := focusables(root)
	if len(list) == 0 {
		return nil
	}
	for i, n := range list {
		if n == current {
			if i+1 < len(list) {
				return list[i+1]
			}
			return nil
		}
	}
	return list[0]
}

// isRich reports whether n is an editable region rather than a field.
func isRich(n *doc.Node) bool {
	return n != nil && !n.IsField() && n.IsContentEditable()
}

// richCaret returns the text node and offset of the caret inside root, placing
// the caret at the end of the region first when it is elsewhere.
func richCaret(d *doc.Document, root *doc.Node) (*doc.Node, int) {
	sel := d.Selection().Anchor
	if sel.Node != nil && sel.Node.IsText() && root.Contains(sel.Node) {
		return sel.Node, sel.Offset
	}
	texts := root.TextNodes()
	var t *doc.Node
	if len(texts) == 0 {
		// reuse an empty trailing block, else start a paragraph
		var host *doc.Node
		if n := len(root.Children); n > 0 && root.Children[n-1].IsElement() {
			host = root.Children[n-1]
		} else {
			host = root.AppendChild(d.CreateElement("p"))
		}
		t = host.AppendChild(d.CreateText(""))
	} else {
		t = texts[len(texts)-1]
	}
	off := t.Len()
	_ = d.SetCaret(t, off)
	return t, off
}

// placeCaret puts the caret at the end of a surface when it gains focus.
func placeCaret(d *doc.Document, n *doc.Node) {
	if n == nil {
		return
	}
	if n.IsField() {
		if _, _, ok := n.SelectionRange(); ok {
			l := doc.RuneLen(n.Value())
			_ = n.SetSelectionRange(l, l)
		}
		return
	}
	t, _ := richCaret(d, n)
	_ = d.SetCaret(t, t.Len())
}

// insertText types s at the caret of the focused surface and returns the event
// target, or nil when nothing changed.
func insertText(d *doc.Document, focus *doc.Node, s string) *doc.Node {
	if focus == nil || s == "" {
		return nil
	}
	if focus.IsField() {
		start, end, ok := focus.SelectionRange()
		if !ok {
			return nil
		}
		focus.SetValue(doc.SpliceRunes(focus.Value(), start, end, s))
		c := start + doc.RuneLen(s)
		_ = focus.SetSelectionRange(c, c)
		return focus
	}
	t, off := richCaret(d, focus)
	t.SetData(doc.SpliceRunes(t.Data(), off, off, s))
	_ = d.SetCaret(t, off+doc.RuneLen(s))
	return t
}

// deleteBackward removes the selection or the rune before the caret.
func deleteBackward(d *doc.Document, focus *doc.Node) *doc.Node {
	if focus == nil {
		return nil
	}
	if focus.IsField() {
		start, end, ok := focus.SelectionRange()
		if !ok {
			return nil
		}
		if start == end {
			if start == 0 {
				return nil
			}
			start--
		}
		focus.SetValue(doc.SpliceRunes(focus.Value(), start, end, ""))
		_ = focus.SetSelectionRange(start, start)
		return focus
	}

	t, off := richCaret(d, focus)
	if off > 0 {
		t.SetData(doc.SpliceRunes(t.Data(), off-1, off, ""))
		_ = d.SetCaret(t, off-1)
		return t
	}
	prev := neighbourText(focus, t, -1)
	if prev == nil {
		return nil
	}
	if block := blockOf(focus, t); block != blockOf(focus, prev) {
		// join with the previous line
		n := prev.Len()
		prev.SetData(prev.Data() + block.TextContent())
		block.Remove()
		_ = d.SetCaret(prev, n)
		return prev
	}
	n := prev.Len()
	if n == 0 {
		return nil
	}
	prev.SetData(doc.SliceRunes(prev.Data(), 0, n-1))
	_ = d.SetCaret(t, 0)
	return prev
}

// moveCaret shifts the caret by delta runes. It returns the node the caret is in.
func moveCaret(d *doc.Document, focus *doc.Node, delta int) *doc.Node {
	if focus == nil {
		return nil
	}
	if focus.IsField() {
		start, end, ok := focus.SelectionRange()
		if !ok {
			return nil
		}
		c := start
		if delta > 0 {
			c = end
		}
		c += delta
		_ = focus.SetSelectionRange(c, c)
		return focus
	}

	t, off := richCaret(d, focus)
	off += delta
	for off < 0 {
		prev := neighbourText(focus, t, -1)
		if prev == nil {
			off = 0
			break
		}
		t = prev
		off += t.Len() + 1
	}
	for off > t.Len() {
		next := neighbourText(focus, t, 1)
		if next == nil {
			off = t.Len()
			break
		}
		off -= t.Len() + 1
		t = next
	}
	_ = d.SetCaret(t, off)
	return t
}

// moveEdge puts the caret at the start (end=false) or end of the current line.
func moveEdge(d *doc.Document, focus *doc.Node, end bool) *doc.Node {
	if focus == nil {
		return nil
	}
	if focus.IsField() {
		start, _, ok := focus.SelectionRange()
		if !ok {
			return nil
		}
		value := []rune(focus.Value())
		c := start
		if end {
			for c < len(value) && value[c] != '\n' {
				c++
			}
		} else {
			for c > 0 && value[c-1] != '\n' {
				c--
			}
		}
		_ = focus.SetSelectionRange(c, c)
		return focus
	}
	t, _ := richCaret(d, focus)
	off := 0
	if end {
		off = t.Len()
	}
	_ = d.SetCaret(t, off)
	return t
}

// newline breaks the line. Text inputs are single line and ignore it; a rich
// region gets a new paragraph holding the text after the caret.
func newline(d *doc.Document, focus *doc.Node) *doc.Node {
	if focus == nil {
		return nil
	}
	if focus.IsField() {
		if focus.Tag != "textarea" {
			return nil
		}
		return insertText(d, focus, "\n")
	}

	t, off := richCaret(d, focus)
	head := doc.SliceRunes(t.Data(), 0, off)
	tail := doc.SliceRunes(t.Data(), off, t.Len())
	t.SetData(head)

	block := blockOf(focus, t)
	p := d.CreateElement("p")
	nt := p.AppendChild(d.CreateText(tail))
	if block == t {
		// bare text directly under the root
		focus.InsertBefore(p, nextSibling(t))
	} else {
		focus.InsertBefore(p, nextSibling(block))
	}
	_ = d.SetCaret(nt, 0)
	return nt
}

// blockOf returns the child of root that contains n.
func blockOf(root, n *doc.Node) *doc.Node {
	for p := n; p != nil; p = p.Parent {
		if p.Parent == root {
			return p
		}
	}
	return n
}

func nextSibling(n *doc.Node) *doc.Node {
	if n.Parent == nil {
		return nil
	}
	i := n.Index()
	if i+1 < len(n.Parent.Children) {
		return n.Parent.Children[i+1]
	}
	return nil
}

// neighbourText finds the text node before (dir<0) or after t inside root.
func neighbourText(root, t *doc.Node, dir int) *doc.Node {
	texts := root.TextNodes()
	for i, x := range texts {
		if x != t {
			continue
		}
		j := i + dir
		if j >= 0 && j < len(texts) {
			return texts[j]
		}
		return nil
	}
	return nil
}
