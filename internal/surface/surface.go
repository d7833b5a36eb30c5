// Package surface recognises editable surfaces in a document and gives uniform
// read and replace access to them.
//
// There are exactly two kinds: form fields (input, textarea) with a linear value
// and rich regions (contenteditable) whose text lives in nested text nodes.
package surface

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/nhath/ezmoji/internal/doc"
)

// Kind names a surface variant.
type Kind string

const (
	KindField Kind = "field"
	KindRich  Kind = "rich"
)

// ErrNoSurface is returned when an operation needs a focused editable surface.
var ErrNoSurface = errors.New("no editable surface")

// ErrStaleSpan is returned when a span no longer fits the surface text.
var ErrStaleSpan = errors.New("span no longer matches surface")

// Window is the caret-relative text of a surface. For a rich surface Node is the
// text node the text came from; for a field it is the field itself.
type Window struct {
	Text  string
	Caret int
	Node  *doc.Node
}

// Span is a rune range inside a window node.
type Span struct {
	Node  *doc.Node
	Start int
	End   int
}

// Surface is implemented by *Field and *Rich only.
type Surface interface {
	Kind() Kind
	// Root is the element events are attributed to.
	Root() *doc.Node
	// Read returns the caret window. ok is false when the selection is a range or
	// there is no text before the caret.
	Read() (Window, bool)
	// Text returns the current text of the span's node.
	Text(span Span) (string, error)
	// Replace swaps span for text, puts the caret right after it and fires an
	// input event. It returns the new caret offset.
	Replace(span Span, text string) (int, error)

	sealed()
}

// excluded input types: no free text
var excludedInputTypes = map[string]bool{
	"button":         true,
	"submit":         true,
	"reset":          true,
	"checkbox":       true,
	"radio":          true,
	"file":           true,
	"image":          true,
	"color":          true,
	"range":          true,
	"hidden":         true,
	"date":           true,
	"datetime-local": true,
	"month":          true,
	"time":           true,
	"week":           true,
	"number":         true,
	"password":       true,
}

// Classify walks the composed path of target and returns the first editable
// surface found.
func Classify(target *doc.Node, log *zap.SugaredLogger) (Surface, bool) {
	if target == nil {
		return nil, false
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	for _, n := range target.ComposedPath() {
		if !n.IsElement() {
			continue
		}
		if isTextField(n) {
			return &Field{el: n, log: log}, true
		}
		if n.IsContentEditable() {
			return &Rich{root: richRoot(n), log: log}, true
		}
	}
	return nil, false
}

// IsEditable reports whether n sits inside anything a user types into, including
// selects and non-text inputs. Used to keep global hotkeys out of the way.
func IsEditable(n *doc.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if !p.IsElement() {
			continue
		}
		switch p.Tag {
		case "input", "textarea", "select":
			return true
		}
		if p.IsContentEditable() {
			return true
		}
	}
	return false
}

func isTextField(n *doc.Node) bool {
	switch n.Tag {
	case "textarea":
	case "input":
		if excludedInputTypes[n.InputType()] {
			return false
		}
	default:
		return false
	}
	return !n.HasAttr("readonly") && !n.HasAttr("disabled")
}

// richRoot climbs to the outermost element of a contiguous editable chain.
func richRoot(n *doc.Node) *doc.Node {
	root := n
	for p := n.Parent; p != nil && p.IsElement() && p.IsContentEditable(); p = p.Parent {
		root = p
	}
	return root
}

func fireInput(n *doc.Node) {
	if d := n.Document(); d != nil {
		d.Dispatch(doc.Event{Type: doc.EventInput, Target: n})
	}
}
