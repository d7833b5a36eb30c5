package doc

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrSelectionRejected is returned when a node refuses a caret or selection change.
var ErrSelectionRejected = errors.New("selection rejected")

// input types that hold a value but do not expose a selection range
var noSelectionTypes = map[string]bool{
	"email":  true,
	"number": true,
	"date":   true,
	"color":  true,
	"range":  true,
}

// IsField reports whether n is a form control with a text value.
func (n *Node) IsField() bool {
	return n.IsElement() && (n.Tag == "input" || n.Tag == "textarea")
}

// InputType returns the lowercased type of an input, defaulting to "text".
func (n *Node) InputType() string {
	if n.Tag != "input" {
		return ""
	}
	t, ok := n.Attr("type")
	if !ok || strings.TrimSpace(t) == "" {
		return "text"
	}
	return strings.ToLower(strings.TrimSpace(t))
}

// Value returns the current value of a form field.
func (n *Node) Value() string { return n.value }

// SetValue replaces the value and clamps the selection to it.
func (n *Node) SetValue(v string) {
	n.value = v
	l := RuneLen(v)
	if n.selStart > l {
		n.selStart = l
	}
	if n.selEnd > l {
		n.selEnd = l
	}
}

// SelectionRange returns the field selection. ok is false for nodes without one.
func (n *Node) SelectionRange() (start, end int, ok bool) {
	if !n.IsField() || noSelectionTypes[n.InputType()] {
		return 0, 0, false
	}
	return n.selStart, n.selEnd, true
}

// SetSelectionRange moves the field selection, clamped to the value.
func (n *Node) SetSelectionRange(start, end int) error {
	if !n.IsField() || noSelectionTypes[n.InputType()] {
		return errors.Wrapf(ErrSelectionRejected, "<%s> has no selection range", n.Tag)
	}
	l := RuneLen(n.value)
	start = clamp(start, 0, l)
	end = clamp(end, 0, l)
	if end < start {
		start = end
	}
	n.selStart, n.selEnd = start, end
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
