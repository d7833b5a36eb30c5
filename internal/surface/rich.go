package surface

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/nhath/ezmoji/internal/doc"
)

// Rich is the topmost element of a contenteditable region.
type Rich struct {
	root *doc.Node
	log  *zap.SugaredLogger
}

func (*Rich) sealed() {}

func (r *Rich) Kind() Kind { return KindRich }

func (r *Rich) Root() *doc.Node { return r.root }

func (r *Rich) Read() (Window, bool) {
	d := r.root.Document()
	if d == nil {
		return Window{}, false
	}
	sel := d.Selection()
	if !sel.Collapsed() || sel.Anchor.Node == nil || !r.root.Contains(sel.Anchor.Node) {
		return Window{}, false
	}
	caret := sel.Anchor
	if caret.Node.IsText() {
		return Window{Text: caret.Node.Data(), Caret: caret.Offset, Node: caret.Node}, true
	}

	var last *doc.Node
	for _, t := range r.root.TextNodes() {
		if doc.Compare(doc.EndOf(t), caret) > 0 {
			break
		}
		last = t
	}
	if last == nil {
		return Window{}, false
	}
	return Window{Text: last.Data(), Caret: last.Len(), Node: last}, true
}

// CaretInText reports whether the collapsed caret sits directly in a text node.
func (r *Rich) CaretInText() bool {
	d := r.root.Document()
	if d == nil {
		return false
	}
	sel := d.Selection()
	return sel.Collapsed() && sel.Anchor.Node.IsText() && r.root.Contains(sel.Anchor.Node)
}

func (r *Rich) Text(span Span) (string, error) {
	if span.Node == nil || !span.Node.IsText() || !r.root.Contains(span.Node) {
		return "", errors.Wrap(ErrStaleSpan, "text node left the surface")
	}
	return span.Node.Data(), nil
}

func (r *Rich) Replace(span Span, text string) (int, error) {
	if _, err := r.Text(span); err != nil {
		return 0, err
	}
	data := span.Node.Data()
	if span.Start < 0 || span.End < span.Start || span.End > doc.RuneLen(data) {
		return 0, errors.Wrapf(ErrStaleSpan, "span [%d,%d) outside text node", span.Start, span.End)
	}
	span.Node.SetData(doc.SpliceRunes(data, span.Start, span.End, text))
	caret := span.Start + doc.RuneLen(text)
	if err := r.root.Document().SetCaret(span.Node, caret); err != nil {
		r.log.Debugw("caret restore rejected", "error", err)
	}
	fireInput(r.root)
	return caret, nil
}
