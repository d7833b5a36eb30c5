package engine

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/nhath/ezmoji/internal/doc"
	"github.com/nhath/ezmoji/internal/emoji"
	"github.com/nhath/ezmoji/internal/store"
)

type fetchFunc func(url string) ([]byte, error)

func (f fetchFunc) Fetch(_ context.Context, url string) ([]byte, error) { return f(url) }

const dataset = `[
 {"annotation": "grinning squinting face", "emoji": "😆", "hexcode": "1F606", "tags": ["laugh", "satisfied"]},
 {"annotation": "smiling face with smiling eyes", "emoji": "😊", "hexcode": "1F60A", "tags": ["blush", "smile"]},
 {"annotation": "grinning face with smiling eyes", "emoji": "😄", "hexcode": "1F604", "tags": ["smile", "happy"]}
]`

const shortcodes = `{"1F606": ["laughing", "satisfied"], "1F60A": "blush", "1F604": "smile"}`

func newSession(t *testing.T, load bool) (*Session, store.KV) {
	t.Helper()
	src, err := emoji.NewSources("15.3.0", []string{"data"}, []string{"sc"})
	require.NoError(t, err)
	f := fetchFunc(func(url string) ([]byte, error) {
		if url == "data" {
			return []byte(dataset), nil
		}
		return []byte(shortcodes), nil
	})
	kv := store.NewMemory()
	cat := emoji.NewCatalog(&emoji.Loader{Store: kv, Fetcher: f, Sources: src})
	if load {
		res, started := cat.Ensure(context.Background())
		require.True(t, started)
		require.Equal(t, emoji.Ready, res.Outcome)
	}
	s, err := New(context.Background(), Options{
		Store:      kv,
		Catalog:    cat,
		AutoExpand: true,
		Log:        zaptest.NewLogger(t).Sugar(),
	})
	require.NoError(t, err)
	return s, kv
}

// page builds a document with one text input and one rich region and wires its
// events into the session.
type page struct {
	d     *doc.Document
	input *doc.Node
	rich  *doc.Node
	text  *doc.Node
}

func newPage(s *Session) *page {
	d := doc.New()
	p := &page{d: d}
	p.input = d.Root.AppendChild(d.CreateElement("input"))
	p.rich = d.Root.AppendChild(d.CreateElement("div"))
	p.rich.SetAttr("contenteditable", "true")
	para := p.rich.AppendChild(d.CreateElement("p"))
	p.text = para.AppendChild(d.CreateText(""))
	d.AddListener(func(ev doc.Event) { s.HandleEvent(ev) })
	return p
}

// typeField simulates the host writing value + caret, then firing input.
func (p *page) typeField(value string, caret int) {
	p.input.SetValue(value)
	_ = p.input.SetSelectionRange(caret, caret)
	p.d.Dispatch(doc.Event{Type: doc.EventInput, Target: p.input})
}

func (p *page) typeRich(value string, caret int) {
	p.text.SetData(value)
	_ = p.d.SetCaret(p.text, caret)
	p.d.Dispatch(doc.Event{Type: doc.EventInput, Target: p.text})
}

func TestAutoExpandRoundTrip(t *testing.T) {
	s, _ := newSession(t, true)
	p := newPage(s)

	p.typeField("hi :smile: there", 10)
	assert.Equal(t, "hi 😄 there", p.input.Value())
	start, end, _ := p.input.SelectionRange()
	assert.Equal(t, 4, start)
	assert.Equal(t, 4, end)

	// nothing left to expand
	sf := mustSurface(t, p.input)
	assert.False(t, s.AutoExpand(sf))
	assert.Equal(t, "hi 😄 there", p.input.Value())
}

func TestAutoExpandUsesExactKeysOnly(t *testing.T) {
	s, _ := newSession(t, true)
	p := newPage(s)

	p.typeField(":smil:", 6)
	assert.Equal(t, ":smil:", p.input.Value())

	p.typeField(":Satisfied:", 11)
	assert.Equal(t, "😆", p.input.Value(), "aliases and case-insensitive keys expand")
}

func TestAutoExpandWorksBeforeIndexLoads(t *testing.T) {
	s, _ := newSession(t, false)
	p := newPage(s)
	p.typeField("go :rocket:", 11)
	assert.Equal(t, "go 🚀", p.input.Value(), "fallback table covers the empty state")
}

func TestAutoExpandRich(t *testing.T) {
	s, _ := newSession(t, true)
	p := newPage(s)

	p.typeRich("so :blush: ok", 10)
	assert.Equal(t, "so 😊 ok", p.text.Data())
	assert.Equal(t, doc.Position{Node: p.text, Offset: 4}, p.d.Selection().Anchor)
}

func TestAutoExpandRichNeedsTextCaret(t *testing.T) {
	s, _ := newSession(t, true)
	p := newPage(s)
	p.text.SetData(":smile:")
	require.NoError(t, p.d.SetCaret(p.text.Parent, 1))

	assert.False(t, s.AutoExpand(mustSurface(t, p.text)))
	assert.Equal(t, ":smile:", p.text.Data())
}

func TestOpenTriggerOpensPopup(t *testing.T) {
	s, _ := newSession(t, true)
	p := newPage(s)

	p.typeField("hey :smi", 8)
	m := s.Popup()
	require.True(t, m.Visible())
	assert.Equal(t, "smi", m.Pending().Query)
	first, _ := m.Highlighted()
	assert.Equal(t, "smile", first.Primary)

	// caret moves off the trigger
	_ = p.input.SetSelectionRange(2, 2)
	p.d.Dispatch(doc.Event{Type: doc.EventSelectionChange, Target: p.input})
	assert.False(t, s.Popup().Visible())
}

func TestNoMatchesKeepsPopupClosed(t *testing.T) {
	s, _ := newSession(t, true)
	p := newPage(s)
	p.typeField(":qqqq", 5)
	assert.False(t, s.Popup().Visible())
}

func TestLazyLoadRequest(t *testing.T) {
	s, _ := newSession(t, false)
	p := newPage(s)
	p.input.SetValue(":smi")
	_ = p.input.SetSelectionRange(4, 4)

	res := s.HandleEvent(doc.Event{Type: doc.EventInput, Target: p.input})
	assert.True(t, res.NeedIndex)
	assert.False(t, res.PopupOpen)

	res = s.HandleEvent(doc.Event{Type: doc.EventInput, Target: p.d.Root})
	assert.False(t, res.NeedIndex, "no trigger, no load")
}

func TestCommitWithKeys(t *testing.T) {
	s, _ := newSession(t, true)
	p := newPage(s)

	p.typeField("x :s y", 4)
	require.True(t, s.Popup().Visible())
	n := s.Popup().Len()
	require.Greater(t, n, 1)

	for i := 0; i < 10; i++ {
		handled, err := s.HandleKey("down")
		require.NoError(t, err)
		assert.True(t, handled)
	}
	assert.Equal(t, n-1, s.Popup().Selected())
	for i := 0; i < 10; i++ {
		_, _ = s.HandleKey("up")
	}
	assert.Equal(t, 0, s.Popup().Selected())

	want, _ := s.Popup().Highlighted()
	handled, err := s.HandleKey("enter")
	require.NoError(t, err)
	assert.True(t, handled)
	assert.False(t, s.Popup().Visible())
	assert.Equal(t, "x "+want.Value+" y", p.input.Value())
	start, _, _ := p.input.SelectionRange()
	assert.Equal(t, 2+doc.RuneLen(want.Value), start)
}

func TestCommitRichWithTab(t *testing.T) {
	s, _ := newSession(t, true)
	p := newPage(s)

	p.typeRich("a :laug", 7)
	require.True(t, s.Popup().Visible())
	handled, err := s.HandleKey("tab")
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, "a 😆", p.text.Data())
}

func TestEscapeDismisses(t *testing.T) {
	s, _ := newSession(t, true)
	p := newPage(s)
	p.typeField(":smi", 4)

	handled, _ := s.HandleKey("esc")
	assert.True(t, handled)
	assert.False(t, s.Popup().Visible())
	assert.Equal(t, ":smi", p.input.Value())

	handled, _ = s.HandleKey("enter")
	assert.False(t, handled, "keys pass through when closed")
}

func TestCommitDiscardsStaleQuery(t *testing.T) {
	s, _ := newSession(t, true)
	p := newPage(s)
	p.typeField("ab :smi", 7)
	require.True(t, s.Popup().Visible())

	// programmatic change without an event: the span now holds other text
	p.input.SetValue("xyz ab :smi")

	_, err := s.Commit()
	assert.True(t, errors.Is(err, ErrStale))
	assert.Equal(t, "xyz ab :smi", p.input.Value())
	assert.False(t, s.Popup().Visible())
}

func TestCommitAfterUnrelatedEditElsewhere(t *testing.T) {
	s, _ := newSession(t, true)
	p := newPage(s)
	p.typeField(":smi", 4)
	require.True(t, s.Popup().Visible())

	// another surface changes in between
	p.text.SetData("unrelated")

	entry, err := s.Commit()
	require.NoError(t, err)
	assert.Equal(t, entry.Value, p.input.Value())
}

func TestCompositionSuppresses(t *testing.T) {
	s, _ := newSession(t, true)
	p := newPage(s)

	p.d.Dispatch(doc.Event{Type: doc.EventCompositionStart, Target: p.input})
	assert.True(t, s.Composing())
	p.typeField(":smile:", 7)
	assert.Equal(t, ":smile:", p.input.Value())
	p.typeField(":smi", 4)
	assert.False(t, s.Popup().Visible())

	p.d.Dispatch(doc.Event{Type: doc.EventCompositionEnd, Target: p.input})
	p.typeField(":smile:", 7)
	assert.Equal(t, "😄", p.input.Value())
}

func TestDisabledSession(t *testing.T) {
	s, kv := newSession(t, true)
	p := newPage(s)

	p.typeField(":smi", 4)
	require.True(t, s.Popup().Visible())

	require.NoError(t, s.SetEnabled(context.Background(), false))
	assert.False(t, s.Popup().Visible())
	v, _ := kv.Get(context.Background(), store.KeyEnabled)
	assert.Equal(t, "0", v)

	p.typeField(":smile:", 7)
	assert.Equal(t, ":smile:", p.input.Value())

	// a new session sees the persisted flag
	s2, err := New(context.Background(), Options{Store: kv, Catalog: s.Catalog()})
	require.NoError(t, err)
	assert.False(t, s2.Enabled())
}

func TestFocusOutCloses(t *testing.T) {
	s, _ := newSession(t, true)
	p := newPage(s)
	p.typeField(":smi", 4)
	require.True(t, s.Popup().Visible())

	p.d.Focus(p.rich)
	assert.False(t, s.Popup().Visible())
}

func TestToggleAllowed(t *testing.T) {
	s, _ := newSession(t, false)
	p := newPage(s)
	assert.True(t, s.IsToggleKey("f8"))
	assert.False(t, s.IsToggleKey("f9"))
	assert.True(t, ToggleAllowed(p.d.Root))
	assert.False(t, ToggleAllowed(p.input))
	assert.False(t, ToggleAllowed(p.text))
}

func TestExpandAll(t *testing.T) {
	s, _ := newSession(t, true)
	got := s.ExpandAll("a :smile::blush: b :nope: :fire:")
	assert.Equal(t, "a 😄😊 b :nope: 🔥", got)
}

func TestExpandKeepsTextBeforeNonASCIILookalikes(t *testing.T) {
	s, _ := newSession(t, true)
	kelvin := "hi :o\u212a_hand:"
	assert.Equal(t, kelvin, s.ExpandAll(kelvin))
	assert.Equal(t, "ñé 🔥", s.ExpandAll("ñé :fire:"))

	p := newPage(s)
	p.typeField("ab :\u212a", 5)
	assert.Equal(t, "ab :\u212a", p.input.Value())
	assert.False(t, s.Popup().Visible())
}
