package engine

import (
	"github.com/cockroachdb/errors"

	"github.com/nhath/ezmoji/internal/doc"
	"github.com/nhath/ezmoji/internal/emoji"
	"github.com/nhath/ezmoji/internal/surface"
	"github.com/nhath/ezmoji/internal/trigger"
)

// Commit writes the highlighted candidate over the pending span and closes the
// popup. The span is checked first: if the surface no longer holds ":query" there,
// nothing is written and ErrStale is returned.
func (s *Session) Commit() (emoji.Entry, error) {
	e, ok := s.popup.Highlighted()
	p := s.popup.Pending()
	s.popup = s.popup.Close()
	if !ok || !p.Valid() {
		return emoji.Entry{}, nil
	}
	if err := s.apply(p, e.Value); err != nil {
		s.log.Debugw("commit discarded", "query", p.Query, "error", err)
		return emoji.Entry{}, err
	}
	s.log.Debugw("committed", "query", p.Query, "value", e.Value, "surface", p.Surface.Kind())
	return e, nil
}

// CommitEntry writes a specific entry for a pending query, bypassing the popup.
func (s *Session) CommitEntry(p trigger.Pending, e emoji.Entry) error {
	s.popup = s.popup.Close()
	return s.apply(p, e.Value)
}

func (s *Session) apply(p trigger.Pending, value string) error {
	text, err := p.Surface.Text(p.Span)
	if err != nil {
		return errors.Mark(err, ErrStale)
	}
	if got := doc.SliceRunes(text, p.Span.Start, p.Span.End); got != p.Expected() {
		return errors.Wrapf(ErrStale, "span holds %q, want %q", got, p.Expected())
	}
	return s.replace(p.Surface, p.Span, value)
}

// AutoExpand replaces a complete :name: right before the caret with its symbol.
// Only exact keys expand. Rich surfaces need the caret inside a text node.
func (s *Session) AutoExpand(sf surface.Surface) bool {
	if !s.enabled || s.scanner.Composing() || sf == nil {
		return false
	}
	if r, ok := sf.(*surface.Rich); ok && !r.CaretInText() {
		return false
	}
	w, ok := sf.Read()
	if !ok {
		return false
	}
	tok, ok := s.scanner.Closed(w)
	if !ok {
		return false
	}
	value, ok := s.catalog.Lookup(tok.Query)
	if !ok {
		return false
	}
	if err := s.replace(sf, tok.Span(w.Node), value); err != nil {
		s.log.Debugw("auto-expand failed", "query", tok.Query, "error", err)
		return false
	}
	s.log.Debugw("auto-expanded", "query", tok.Query, "value", value)
	return true
}

// ExpandAll expands every closed trigger in a field-like string, left to right,
// exactly as typing each one would. Used by the CLI.
func (s *Session) ExpandAll(text string) string {
	d := doc.New()
	in := d.Root.AppendChild(d.CreateElement("textarea"))
	in.SetValue(text)
	sf, _ := surface.Classify(in, s.log)

	for caret := 1; caret <= doc.RuneLen(in.Value()); caret++ {
		if doc.SliceRunes(in.Value(), caret-1, caret) != ":" {
			continue
		}
		_ = in.SetSelectionRange(caret, caret)
		if s.AutoExpand(sf) {
			caret, _, _ = in.SelectionRange()
		}
	}
	return in.Value()
}

func (s *Session) replace(sf surface.Surface, span surface.Span, value string) error {
	s.applying = true
	defer func() { s.applying = false }()
	_, err := sf.Replace(span, value)
	return err
}
