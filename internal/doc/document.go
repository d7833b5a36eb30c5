package doc

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Position is a DOM-style boundary point: a text node and a rune offset, or an
// element and a child index.
type Position struct {
	Node   *Node
	Offset int
}

// Selection is the document selection.
type Selection struct {
	Anchor Position
	Focus  Position
}

// Collapsed reports whether anchor and focus coincide.
func (s Selection) Collapsed() bool {
	return s.Anchor == s.Focus
}

// EventType names a document event.
type EventType string

const (
	EventInput            EventType = "input"
	EventSelectionChange  EventType = "selectionchange"
	EventKeyUp            EventType = "keyup"
	EventClick            EventType = "click"
	EventFocusIn          EventType = "focusin"
	EventFocusOut         EventType = "focusout"
	EventCompositionStart EventType = "compositionstart"
	EventCompositionEnd   EventType = "compositionend"
)

// Event is dispatched to document listeners.
type Event struct {
	Type   EventType
	Target *Node
}

// Listener observes dispatched events.
type Listener func(Event)

// Document owns a node tree plus selection, focus and listeners.
type Document struct {
	Root *Node

	selection Selection
	focus     *Node
	listeners map[int]Listener
	nextID    int
}

// New creates an empty document with a <body> root.
func New() *Document {
	d := &Document{listeners: make(map[int]Listener)}
	d.Root = d.CreateElement("body")
	return d
}

// CreateElement makes a detached element owned by d.
func (d *Document) CreateElement(tag string) *Node {
	return &Node{Type: ElementNode, Tag: strings.ToLower(tag), doc: d}
}

// CreateText makes a detached text node owned by d.
func (d *Document) CreateText(s string) *Node {
	return &Node{Type: TextNode, data: s, doc: d}
}

// Selection returns the current document selection.
func (d *Document) Selection() Selection { return d.selection }

// SetCaret collapses the selection at (node, offset).
func (d *Document) SetCaret(node *Node, offset int) error {
	return d.Select(Position{node, offset}, Position{node, offset})
}

// Select sets the document selection. Points outside the tree are rejected.
func (d *Document) Select(anchor, focus Position) error {
	for _, p := range []Position{anchor, focus} {
		if p.Node == nil || !d.Root.Contains(p.Node) {
			return errors.Wrap(ErrSelectionRejected, "position is not attached to the document")
		}
		if p.Offset < 0 || p.Offset > p.Node.Len() {
			return errors.Wrapf(ErrSelectionRejected, "offset %d out of range", p.Offset)
		}
	}
	d.selection = Selection{Anchor: anchor, Focus: focus}
	return nil
}

// ActiveElement returns the focused node, or the root.
func (d *Document) ActiveElement() *Node {
	if d.focus == nil || !d.Root.Contains(d.focus) {
		return d.Root
	}
	return d.focus
}

// Focus moves focus to n and dispatches focusout/focusin.
func (d *Document) Focus(n *Node) {
	prev := d.ActiveElement()
	if prev == n {
		return
	}
	d.focus = n
	if prev != nil {
		d.Dispatch(Event{Type: EventFocusOut, Target: prev})
	}
	d.Dispatch(Event{Type: EventFocusIn, Target: n})
}

// AddListener registers l and returns a function that removes it.
func (d *Document) AddListener(l Listener) func() {
	id := d.nextID
	d.nextID++
	d.listeners[id] = l
	return func() { delete(d.listeners, id) }
}

// Dispatch delivers ev to every listener in registration order.
func (d *Document) Dispatch(ev Event) {
	for id := 0; id < d.nextID; id++ {
		if l, ok := d.listeners[id]; ok {
			l(ev)
		}
	}
}

// Compare orders two boundary points in document order: -1, 0 or 1.
func Compare(a, b Position) int {
	ka, kb := pointKey(a), pointKey(b)
	for i := 0; i < len(ka) && i < len(kb); i++ {
		switch {
		case ka[i] < kb[i]:
			return -1
		case ka[i] > kb[i]:
			return 1
		}
	}
	switch {
	case len(ka) < len(kb):
		return -1
	case len(ka) > len(kb):
		return 1
	}
	return 0
}

// pointKey encodes a boundary point so keys compare lexicographically in document
// order. Child steps are odd (2i+1) and element boundaries even (2k), so a boundary
// before child k sorts ahead of everything inside that child.
func pointKey(p Position) []int {
	var steps []int
	for n := p.Node; n != nil && n.Parent != nil; n = n.Parent {
		steps = append(steps, 2*n.Index()+1)
	}
	key := make([]int, 0, len(steps)+1)
	for i := len(steps) - 1; i >= 0; i-- {
		key = append(key, steps[i])
	}
	if p.Node.IsText() {
		return append(key, p.Offset)
	}
	return append(key, 2*p.Offset)
}

// EndOf returns the boundary point right after n.
func EndOf(n *Node) Position {
	if n.Parent == nil {
		return Position{n, n.Len()}
	}
	return Position{n.Parent, n.Index() + 1}
}
