package snippet

import (
	"github.com/cockroachdb/errors"

	"github.com/nhath/ezmoji/internal/doc"
	"github.com/nhath/ezmoji/internal/surface"
)

// AttrSnippet marks blocks inserted into rich surfaces.
const AttrSnippet = "data-snippet"

// Insert puts text into sf. A field gets it over its selection; a rich surface gets
// a new block element tagged with the snippet ID, appended to the surface root.
func Insert(sf surface.Surface, id, text string) error {
	if sf == nil {
		return surface.ErrNoSurface
	}
	switch sf.Kind() {
	case surface.KindField:
		el := sf.Root()
		start, end, ok := el.SelectionRange()
		if !ok {
			start = doc.RuneLen(el.Value())
			end = start
		}
		_, err := sf.Replace(surface.Span{Node: el, Start: start, End: end}, text)
		return err
	case surface.KindRich:
		root := sf.Root()
		d := root.Document()
		if d == nil {
			return errors.Wrap(surface.ErrNoSurface, "surface is detached")
		}
		block := d.CreateElement("div")
		block.SetAttr(AttrSnippet, id)
		t := block.AppendChild(d.CreateText(text))
		root.AppendChild(block)
		if err := d.SetCaret(t, doc.RuneLen(text)); err != nil {
			return errors.Wrap(err, "place caret after snippet")
		}
		d.Dispatch(doc.Event{Type: doc.EventInput, Target: root})
		return nil
	}
	return errors.Newf("unsupported surface kind %q", sf.Kind())
}

// ClearInjected removes inserted snippet blocks under root. An empty id removes
// all of them. It returns how many were removed.
func ClearInjected(root *doc.Node, id string) int {
	var found []*doc.Node
	root.Walk(func(n *doc.Node) bool {
		if v, ok := n.Attr(AttrSnippet); ok && (id == "" || v == id) {
			found = append(found, n)
		}
		return true
	})
	for _, n := range found {
		n.Remove()
	}
	return len(found)
}
