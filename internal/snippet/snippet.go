// Package snippet keeps user text snippets in the durable store and inserts them
// into editable surfaces. Snippets are text only; nothing is ever executed.
package snippet

import (
	"strings"
	"text/template"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// Mode selects how Code is turned into inserted text.
type Mode string

const (
	// ModeText inserts Code verbatim.
	ModeText Mode = "text"
	// ModeTemplate renders Code as a text/template first.
	ModeTemplate Mode = "template"
)

// ParseMode accepts "text", "template" or empty (text).
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeText:
		return ModeText, nil
	case ModeTemplate:
		return ModeTemplate, nil
	}
	return "", errors.Newf("unknown snippet mode %q", s)
}

// Snippet is one user-defined block of text.
type Snippet struct {
	ID      string `json:"id" yaml:"id"`
	Title   string `json:"title" yaml:"title"`
	Mode    Mode   `json:"mode" yaml:"mode"`
	AutoRun bool   `json:"auto_run" yaml:"auto_run"`
	Code    string `json:"code" yaml:"code"`
}

// New returns a snippet with a fresh ID. An empty title becomes "untitled".
func New(title string, mode Mode, code string) Snippet {
	if strings.TrimSpace(title) == "" {
		title = "untitled"
	}
	if mode == "" {
		mode = ModeText
	}
	return Snippet{ID: uuid.NewString(), Title: title, Mode: mode, Code: code}
}

// TemplateData is what template-mode snippets see.
type TemplateData struct {
	Now   time.Time
	Title string
}

// Render returns the text to insert.
func (s Snippet) Render(now time.Time) (string, error) {
	if s.Mode != ModeTemplate {
		return s.Code, nil
	}
	tmpl, err := template.New(s.Title).Option("missingkey=error").Parse(s.Code)
	if err != nil {
		return "", errors.Wrapf(err, "parse snippet %q", s.Title)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, TemplateData{Now: now, Title: s.Title}); err != nil {
		return "", errors.Wrapf(err, "render snippet %q", s.Title)
	}
	return b.String(), nil
}
