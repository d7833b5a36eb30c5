// Package trigger finds :shortcode triggers right before the caret.
package trigger

import (
	"regexp"
	"unicode/utf8"

	"github.com/nhath/ezmoji/internal/doc"
	"github.com/nhath/ezmoji/internal/surface"
)

// MaxQueryLen bounds an open trigger.
const MaxQueryLen = 48

var (
	openPattern   = regexp.MustCompile(`:([A-Za-z0-9_+\-]{1,48})$`)
	closedPattern = regexp.MustCompile(`:([A-Za-z0-9_+\-]+):$`)
)

// Token is a trigger found in a window. Start and End are rune offsets into the
// window text and cover the delimiters.
type Token struct {
	Query string
	Start int
	End   int
}

// Span converts the token into a surface span on node.
func (t Token) Span(node *doc.Node) surface.Span {
	return surface.Span{Node: node, Start: t.Start, End: t.End}
}

// Scanner scans windows for triggers. While an IME composition is active it
// reports nothing.
type Scanner struct {
	composing bool
}

// CompositionStart opens the composition gate.
func (s *Scanner) CompositionStart() { s.composing = true }

// CompositionEnd closes the composition gate.
func (s *Scanner) CompositionEnd() { s.composing = false }

// Composing reports whether the gate is open.
func (s *Scanner) Composing() bool { return s.composing }

// Open finds an unterminated trigger ending at the caret.
func (s *Scanner) Open(w surface.Window) (Token, bool) {
	if s.composing {
		return Token{}, false
	}
	return match(openPattern, w)
}

// Closed finds a complete :name: token ending at the caret.
func (s *Scanner) Closed(w surface.Window) (Token, bool) {
	if s.composing {
		return Token{}, false
	}
	return match(closedPattern, w)
}

// ScanSurface reads the surface window and looks for an open trigger.
func (s *Scanner) ScanSurface(sf surface.Surface) (surface.Window, Token, bool) {
	if sf == nil || s.composing {
		return surface.Window{}, Token{}, false
	}
	w, ok := sf.Read()
	if !ok {
		return surface.Window{}, Token{}, false
	}
	tok, ok := s.Open(w)
	return w, tok, ok
}

func match(re *regexp.Regexp, w surface.Window) (Token, bool) {
	left := doc.SliceRunes(w.Text, 0, w.Caret)
	m := re.FindStringSubmatch(left)
	if m == nil {
		return Token{}, false
	}
	return Token{Query: m[1], Start: w.Caret - utf8.RuneCountInString(m[0]), End: w.Caret}, true
}

// Pending is an in-flight open trigger bound to the surface it was read from.
// A new one is built on every scan; an old one is never updated.
type Pending struct {
	Surface surface.Surface
	Query   string
	Span    surface.Span
}

// Valid reports whether p refers to a surface.
func (p Pending) Valid() bool { return p.Surface != nil }

// Expected is the text the span held when p was captured.
func (p Pending) Expected() string { return ":" + p.Query }
