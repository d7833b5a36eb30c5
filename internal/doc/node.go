// Package doc is a small DOM-like document model: element and text nodes, form
// field values with selection ranges, a document selection, focus and change
// listeners. It is what editable surfaces are read from and written to.
package doc

import (
	"strings"
)

// NodeType distinguishes elements from text.
type NodeType int

const (
	ElementNode NodeType = iota + 1
	TextNode
)

// Node is an element or a text node.
type Node struct {
	Type     NodeType
	Tag      string
	Attrs    map[string]string
	Parent   *Node
	Children []*Node

	data string

	// form field state, only meaningful for input and textarea
	value    string
	selStart int
	selEnd   int

	doc *Document
}

// IsElement reports whether n is an element.
func (n *Node) IsElement() bool { return n != nil && n.Type == ElementNode }

// IsText reports whether n is a text node.
func (n *Node) IsText() bool { return n != nil && n.Type == TextNode }

// Document returns the owning document.
func (n *Node) Document() *Document { return n.doc }

// Attr returns an attribute value and whether it is present.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil || n.Attrs == nil {
		return "", false
	}
	v, ok := n.Attrs[strings.ToLower(name)]
	return v, ok
}

// HasAttr reports whether the attribute is present.
func (n *Node) HasAttr(name string) bool {
	_, ok := n.Attr(name)
	return ok
}

// SetAttr sets an attribute.
func (n *Node) SetAttr(name, value string) {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[strings.ToLower(name)] = value
}

// RemoveAttr deletes an attribute.
func (n *Node) RemoveAttr(name string) {
	delete(n.Attrs, strings.ToLower(name))
}

// Data returns the content of a text node.
func (n *Node) Data() string { return n.data }

// SetData replaces the content of a text node. A document caret inside the node is
// clamped to the new length.
func (n *Node) SetData(s string) {
	n.data = s
	if n.doc == nil {
		return
	}
	sel := &n.doc.selection
	l := RuneLen(s)
	if sel.Anchor.Node == n && sel.Anchor.Offset > l {
		sel.Anchor.Offset = l
	}
	if sel.Focus.Node == n && sel.Focus.Offset > l {
		sel.Focus.Offset = l
	}
}

// Len is the rune length of a text node, or the child count of an element.
func (n *Node) Len() int {
	if n.IsText() {
		return RuneLen(n.data)
	}
	return len(n.Children)
}

// Index returns the position of n among its siblings, or -1 when detached.
func (n *Node) Index() int {
	if n.Parent == nil {
		return -1
	}
	for i, c := range n.Parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}

// AppendChild attaches c as the last child of n, detaching it first if needed.
func (n *Node) AppendChild(c *Node) *Node {
	if c.Parent != nil {
		c.Parent.RemoveChild(c)
	}
	c.Parent = n
	n.Children = append(n.Children, c)
	return c
}

// InsertBefore attaches c before ref. A nil ref appends.
func (n *Node) InsertBefore(c, ref *Node) *Node {
	if ref == nil {
		return n.AppendChild(c)
	}
	if c.Parent != nil {
		c.Parent.RemoveChild(c)
	}
	i := ref.Index()
	if i < 0 || ref.Parent != n {
		return n.AppendChild(c)
	}
	c.Parent = n
	n.Children = append(n.Children, nil)
	copy(n.Children[i+1:], n.Children[i:])
	n.Children[i] = c
	return c
}

// RemoveChild detaches c from n.
func (n *Node) RemoveChild(c *Node) {
	for i, child := range n.Children {
		if child == c {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			c.Parent = nil
			return
		}
	}
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.Parent {
		if p == n {
			return true
		}
	}
	return false
}

// ComposedPath returns n followed by its ancestors up to the root.
func (n *Node) ComposedPath() []*Node {
	var path []*Node
	for p := n; p != nil; p = p.Parent {
		path = append(path, p)
	}
	return path
}

// Walk visits n and its descendants in document order. Returning false from fn
// stops the walk.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// TextNodes lists the text nodes under n in document order.
func (n *Node) TextNodes() []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if c.IsText() {
			out = append(out, c)
		}
		return true
	})
	return out
}

// TextContent concatenates all text under n.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.data
	}
	var b strings.Builder
	for _, t := range n.TextNodes() {
		b.WriteString(t.data)
	}
	return b.String()
}

// IsContentEditable resolves the contenteditable attribute with inheritance.
func (n *Node) IsContentEditable() bool {
	for p := n; p != nil; p = p.Parent {
		if !p.IsElement() {
			continue
		}
		v, ok := p.Attr("contenteditable")
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "true", "plaintext-only":
			return true
		case "false":
			return false
		}
	}
	return false
}

// Closest returns the nearest element (n included) matching fn.
func (n *Node) Closest(fn func(*Node) bool) *Node {
	for p := n; p != nil; p = p.Parent {
		if p.IsElement() && fn(p) {
			return p
		}
	}
	return nil
}
