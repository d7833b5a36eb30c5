package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/nhath/ezmoji/internal/doc"
	"github.com/nhath/ezmoji/internal/emoji"
	"github.com/nhath/ezmoji/internal/engine"
	"github.com/nhath/ezmoji/internal/snippet"
	"github.com/nhath/ezmoji/internal/store"
)

func fallbackSession(t *testing.T) *engine.Session {
	t.Helper()
	kv := store.NewMemory()
	cat := emoji.NewCatalog(&emoji.Loader{Store: kv, Log: zaptest.NewLogger(t).Sugar()})
	s, err := engine.New(context.Background(), engine.Options{Store: kv, Catalog: cat, AutoExpand: true})
	require.NoError(t, err)
	return s
}

func TestExpandPage(t *testing.T) {
	page := `<html><body>
<p>static :fire: stays</p>
<input name="a" value="go :rocket:">
<input type="password" name="pw" value=":fire:">
<div contenteditable="true"><p>hi :wave: there</p></div>
</body></html>`
	d, err := doc.ParseHTML(strings.NewReader(page))
	require.NoError(t, err)

	expandPage(fallbackSession(t), d)

	var buf bytes.Buffer
	require.NoError(t, d.WriteHTML(&buf))
	out := buf.String()
	assert.Contains(t, out, "static :fire: stays")
	assert.Contains(t, out, `value="go 🚀"`)
	assert.Contains(t, out, `value=":fire:"`)
	assert.Contains(t, out, "hi 👋 there")
}

func TestFindSnippet(t *testing.T) {
	r, err := snippet.Open(context.Background(), snippet.Options{Store: store.NewMemory()})
	require.NoError(t, err)
	a := r.Add(snippet.Snippet{ID: "abc123", Title: "one", Mode: snippet.ModeText})
	r.Add(snippet.Snippet{ID: "abd456", Title: "two", Mode: snippet.ModeText})

	got, err := findSnippet(r, "abc")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = findSnippet(r, "ab")
	assert.ErrorContains(t, err, "matches 2 snippets")

	_, err = findSnippet(r, "zz")
	assert.ErrorIs(t, err, snippet.ErrUnknown)
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "hello", firstLine("\n hello\nworld"))
	assert.Equal(t, strings.Repeat("x", 37)+"...", firstLine(strings.Repeat("x", 50)))
	assert.Equal(t, "abc", shortID("abc"))
	assert.Equal(t, "12345678", shortID("1234567890"))
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "ezmoji dev\n", out.String())
}
