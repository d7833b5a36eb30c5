package doc

import (
	"html"
	"io"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"
)

var skippedTags = map[string]bool{
	"script": true,
	"style":  true,
	"head":   true,
	"title":  true,
	"meta":   true,
	"link":   true,
}

var voidTags = map[string]bool{
	"input": true,
	"br":    true,
	"hr":    true,
	"img":   true,
}

// ParseHTML reads an HTML document and converts its <body> into a Document.
// Whitespace-only text between elements is dropped.
func ParseHTML(r io.Reader) (*Document, error) {
	gq, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "parse html")
	}

	d := New()
	body := gq.Find("body").First()
	if body.Length() == 0 {
		return d, nil
	}
	copyAttrs(d.Root, body)
	body.Contents().Each(func(_ int, s *goquery.Selection) {
		convert(d, d.Root, s)
	})
	return d, nil
}

func convert(d *Document, parent *Node, s *goquery.Selection) {
	name := goquery.NodeName(s)
	switch {
	case name == "#text":
		text := s.Text()
		if strings.TrimSpace(text) == "" {
			return
		}
		parent.AppendChild(d.CreateText(text))
	case strings.HasPrefix(name, "#"), skippedTags[name]:
		return
	default:
		el := d.CreateElement(name)
		copyAttrs(el, s)
		parent.AppendChild(el)
		switch name {
		case "input":
			v, _ := el.Attr("value")
			el.SetValue(v)
		case "textarea":
			el.SetValue(s.Text())
			return
		}
		s.Contents().Each(func(_ int, c *goquery.Selection) {
			convert(d, el, c)
		})
	}
}

func copyAttrs(el *Node, s *goquery.Selection) {
	if len(s.Nodes) == 0 {
		return
	}
	for _, a := range s.Nodes[0].Attr {
		el.SetAttr(a.Key, a.Val)
	}
}

// WriteHTML serialises the document body, with current field values written back.
func (d *Document) WriteHTML(w io.Writer) error {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n")
	writeNode(&b, d.Root)
	b.WriteString("\n</html>\n")
	_, err := io.WriteString(w, b.String())
	return errors.Wrap(err, "write html")
}

func writeNode(b *strings.Builder, n *Node) {
	if n.IsText() {
		b.WriteString(html.EscapeString(n.data))
		return
	}
	attrs := make(map[string]string, len(n.Attrs))
	for k, v := range n.Attrs {
		attrs[k] = v
	}
	if n.Tag == "input" {
		attrs["value"] = n.value
	}
	b.WriteString("<" + n.Tag)
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(" " + k + `="` + html.EscapeString(attrs[k]) + `"`)
	}
	b.WriteString(">")
	if voidTags[n.Tag] {
		return
	}
	if n.Tag == "textarea" {
		b.WriteString(html.EscapeString(n.value))
	} else {
		for _, c := range n.Children {
			writeNode(b, c)
		}
	}
	b.WriteString("</" + n.Tag + ">")
}
