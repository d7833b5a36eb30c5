package snippet

import (
	"bytes"
	"context"
	"crypto/rand"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/nhath/ezmoji/internal/config"
	"github.com/nhath/ezmoji/internal/doc"
	"github.com/nhath/ezmoji/internal/store"
	"github.com/nhath/ezmoji/internal/surface"
)

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeText, m)
	m, err = ParseMode(" Template ")
	require.NoError(t, err)
	assert.Equal(t, ModeTemplate, m)
	_, err = ParseMode("js")
	assert.Error(t, err)
}

func TestNewDefaults(t *testing.T) {
	s := New("  ", "", "x")
	assert.Equal(t, "untitled", s.Title)
	assert.Equal(t, ModeText, s.Mode)
	assert.Len(t, s.ID, 36)
	assert.NotEqual(t, s.ID, New("a", ModeText, "").ID)
}

func TestRender(t *testing.T) {
	now := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)

	text := New("sig", ModeText, "{{.Title}} stays")
	out, err := text.Render(now)
	require.NoError(t, err)
	assert.Equal(t, "{{.Title}} stays", out)

	tmpl := New("sig", ModeTemplate, `{{.Title}} on {{.Now.Format "2006-01-02"}}`)
	out, err = tmpl.Render(now)
	require.NoError(t, err)
	assert.Equal(t, "sig on 2024-03-09", out)

	_, err = New("bad", ModeTemplate, "{{.Nope").Render(now)
	assert.Error(t, err)
	_, err = New("bad", ModeTemplate, "{{.Missing}}").Render(now)
	assert.Error(t, err)
}

func newRepo(t *testing.T, kv store.KV, c Cipher) *Repository {
	t.Helper()
	r, err := Open(context.Background(), Options{
		Store:     kv,
		Cipher:    c,
		SaveDelay: 10 * time.Millisecond,
		Log:       zaptest.NewLogger(t).Sugar(),
	})
	require.NoError(t, err)
	return r
}

func testCipher(t *testing.T) config.KeyCipher {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return config.KeyCipher{Key: key}
}

func TestRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	c := testCipher(t)

	r := newRepo(t, kv, c)
	assert.Equal(t, 0, r.Len())

	a := r.Add(Snippet{Title: "greeting", Code: "hello :wave:", AutoRun: true})
	b := r.Add(New("sig", ModeTemplate, "{{.Title}}"))
	require.NotEmpty(t, a.ID)
	require.NoError(t, r.Flush(ctx))

	raw, err := kv.Get(ctx, store.KeySnippets)
	require.NoError(t, err)
	assert.NotContains(t, raw, "hello", "code is sealed at rest")
	assert.Contains(t, raw, "greeting")

	again := newRepo(t, kv, c)
	list := again.List()
	require.Len(t, list, 2)
	assert.Equal(t, a, list[0])
	assert.Equal(t, b, list[1])
	assert.Equal(t, []Snippet{a}, again.AutoRun())

	got, ok := again.Get(b.ID)
	require.True(t, ok)
	assert.Equal(t, "{{.Title}}", got.Code)
}

func TestRepositoryDebouncedSave(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	r := newRepo(t, kv, nil)

	s := r.Add(New("one", ModeText, "1"))
	s.Code = "2"
	require.NoError(t, r.Update(s))

	require.Eventually(t, func() bool {
		raw, err := kv.Get(ctx, store.KeySnippets)
		return err == nil && strings.Contains(raw, `"code":"2"`)
	}, 2*time.Second, 5*time.Millisecond)
}

func TestRepositoryUpdateRemove(t *testing.T) {
	r := newRepo(t, store.NewMemory(), nil)
	s := r.Add(New("one", ModeText, "1"))

	assert.True(t, errors.Is(r.Update(Snippet{ID: "nope"}), ErrUnknown))
	assert.True(t, errors.Is(r.Remove("nope"), ErrUnknown))

	require.NoError(t, r.Remove(s.ID))
	assert.Equal(t, 0, r.Len())
	_, ok := r.Get(s.ID)
	assert.False(t, ok)
	require.NoError(t, r.Flush(context.Background()))
}

func TestRepositoryKeepsUndecryptable(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()

	r := newRepo(t, kv, testCipher(t))
	r.Add(New("secret", ModeText, "s3cret"))
	require.NoError(t, r.Flush(ctx))
	before, err := kv.Get(ctx, store.KeySnippets)
	require.NoError(t, err)

	other := newRepo(t, kv, testCipher(t))
	assert.Equal(t, 0, other.Len())
	require.NoError(t, other.Flush(ctx))

	after, err := kv.Get(ctx, store.KeySnippets)
	require.NoError(t, err)
	assert.JSONEq(t, before, after)
}

func TestRepositoryBrokenList(t *testing.T) {
	kv := store.NewMemory()
	require.NoError(t, kv.Set(context.Background(), store.KeySnippets, "{not json"))
	r := newRepo(t, kv, nil)
	assert.Equal(t, 0, r.Len())
}

func TestActiveTab(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	assert.Equal(t, "emoji", ActiveTab(ctx, kv, "emoji"))
	require.NoError(t, SetActiveTab(ctx, kv, "snippets"))
	assert.Equal(t, "snippets", ActiveTab(ctx, kv, "emoji"))
}

func TestYAMLExportImport(t *testing.T) {
	in := []Snippet{
		{ID: "a1", Title: "greeting", Mode: ModeText, Code: "hi\nthere", AutoRun: true},
		{ID: "b2", Title: "date", Mode: ModeTemplate, Code: "{{.Now}}"},
	}
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, in))
	assert.Contains(t, buf.String(), "snippets:")

	out, err := Import(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestImportGeneratesIDsAndValidates(t *testing.T) {
	out, err := Import(strings.NewReader("snippets:\n  - title: x\n    code: y\n"))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.NotEmpty(t, out[0].ID)
	assert.Equal(t, ModeText, out[0].Mode)

	_, err = Import(strings.NewReader("snippets:\n  - title: x\n    mode: css\n"))
	assert.Error(t, err)

	out, err = Import(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestFilter(t *testing.T) {
	list := []Snippet{{Title: "greeting"}, {Title: "signature"}, {Title: "git log"}}
	assert.Equal(t, list, Filter("", list))

	got := Filter("sig", list)
	require.NotEmpty(t, got)
	assert.Equal(t, "signature", got[0].Title)
	assert.Empty(t, Filter("zzz", list))
}

func TestInsertField(t *testing.T) {
	d := doc.New()
	in := d.Root.AppendChild(d.CreateElement("input"))
	in.SetValue("ab")
	require.NoError(t, in.SetSelectionRange(1, 1))
	sf, ok := surface.Classify(in, nil)
	require.True(t, ok)

	var events int
	d.AddListener(func(ev doc.Event) {
		if ev.Type == doc.EventInput {
			events++
		}
	})

	require.NoError(t, Insert(sf, "id", "XY"))
	assert.Equal(t, "aXYb", in.Value())
	start, _, _ := in.SelectionRange()
	assert.Equal(t, 3, start)
	assert.Equal(t, 1, events)
}

func TestInsertRichAndClear(t *testing.T) {
	d := doc.New()
	root := d.Root.AppendChild(d.CreateElement("div"))
	root.SetAttr("contenteditable", "")
	p := root.AppendChild(d.CreateElement("p"))
	p.AppendChild(d.CreateText("body"))
	sf, ok := surface.Classify(p, nil)
	require.True(t, ok)

	require.NoError(t, Insert(sf, "s1", "first"))
	require.NoError(t, Insert(sf, "s2", "second"))
	assert.Equal(t, "bodyfirstsecond", root.TextContent())

	sel := d.Selection().Anchor
	assert.Equal(t, "second", sel.Node.Data())
	assert.Equal(t, 6, sel.Offset)

	assert.Equal(t, 1, ClearInjected(root, "s1"))
	assert.Equal(t, "bodysecond", root.TextContent())
	assert.Equal(t, 1, ClearInjected(root, ""))
	assert.Equal(t, "body", root.TextContent())
	assert.Equal(t, 0, ClearInjected(root, ""))
}

func TestInsertWithoutSurface(t *testing.T) {
	assert.True(t, errors.Is(Insert(nil, "id", "x"), surface.ErrNoSurface))
}
