package surface

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/nhath/ezmoji/internal/doc"
)

// Field is an input or textarea.
type Field struct {
	el  *doc.Node
	log *zap.SugaredLogger
}

func (*Field) sealed() {}

func (f *Field) Kind() Kind { return KindField }

func (f *Field) Root() *doc.Node { return f.el }

func (f *Field) Read() (Window, bool) {
	start, end, ok := f.el.SelectionRange()
	if !ok || start != end {
		return Window{}, false
	}
	return Window{Text: f.el.Value(), Caret: start, Node: f.el}, true
}

func (f *Field) Text(span Span) (string, error) {
	if span.Node != nil && span.Node != f.el {
		return "", errors.Wrap(ErrStaleSpan, "span belongs to another node")
	}
	return f.el.Value(), nil
}

func (f *Field) Replace(span Span, text string) (int, error) {
	value := f.el.Value()
	if span.Start < 0 || span.End < span.Start || span.End > doc.RuneLen(value) {
		return 0, errors.Wrapf(ErrStaleSpan, "span [%d,%d) outside field value", span.Start, span.End)
	}
	f.el.SetValue(doc.SpliceRunes(value, span.Start, span.End, text))
	caret := span.Start + doc.RuneLen(text)
	if err := f.el.SetSelectionRange(caret, caret); err != nil {
		f.log.Debugw("caret restore rejected", "error", err)
	}
	fireInput(f.el)
	return caret, nil
}
