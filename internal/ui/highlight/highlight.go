package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// ANSI foreground color codes (no background, no reset issues)
const (
	fgCyan   = "\x1b[38;5;110m" // Keywords - light cyan
	fgPurple = "\x1b[38;5;183m" // Numbers - purple
	fgGreen  = "\x1b[38;5;150m" // Strings - green
	fgOrange = "\x1b[38;5;209m" // Template actions - orange
	fgGray   = "\x1b[38;5;245m" // Comments - gray
	fgReset  = "\x1b[39m"       // Reset foreground only (not all attributes)
)

// lexerFor picks a lexer for a snippet mode: Go templates for "template",
// markdown for plain text.
func lexerFor(mode string) chroma.Lexer {
	name := "markdown"
	if mode == "template" {
		name = "go-text-template"
	}
	l := lexers.Get(name)
	if l == nil {
		l = lexers.Fallback
	}
	return chroma.Coalesce(l)
}

// Snippet returns code with foreground-only ANSI colouring for the given mode.
// On a lexer error the code comes back unchanged.
func Snippet(code, mode string) string {
	it, err := lexerFor(mode).Tokenise(nil, code)
	if err != nil {
		return code
	}
	var b strings.Builder
	for _, tok := range it.Tokens() {
		color := colorFor(tok.Type)
		if color == "" {
			b.WriteString(tok.Value)
			continue
		}
		// colour per line so callers can split the result
		for i, line := range strings.Split(tok.Value, "\n") {
			if i > 0 {
				b.WriteByte('\n')
			}
			if line == "" {
				continue
			}
			b.WriteString(color)
			b.WriteString(line)
			b.WriteString(fgReset)
		}
	}
	return b.String()
}

func colorFor(t chroma.TokenType) string {
	switch {
	case t == chroma.CommentPreproc, t.InCategory(chroma.Keyword), t == chroma.GenericHeading, t == chroma.GenericSubheading:
		return fgCyan
	case t.InCategory(chroma.LiteralString):
		return fgGreen
	case t.InCategory(chroma.LiteralNumber):
		return fgPurple
	case t.InCategory(chroma.Comment):
		return fgGray
	case t.InCategory(chroma.Name), t == chroma.Punctuation, t == chroma.Operator:
		return fgOrange
	}
	return ""
}
