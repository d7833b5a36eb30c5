package ui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/nhath/ezmoji/internal/config"
	"github.com/nhath/ezmoji/internal/doc"
	"github.com/nhath/ezmoji/internal/emoji"
	"github.com/nhath/ezmoji/internal/engine"
	"github.com/nhath/ezmoji/internal/snippet"
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

const testPage = `<html><body>
<h1>Title</h1>
<input name="subject">
<textarea name="notes"></textarea>
<div contenteditable="true" aria-label="message"><p></p></div>
</body></html>`

type fixture struct {
	m        Model
	kv       store.KV
	snippets *snippet.Repository
}

func newFixture(t *testing.T, load bool) *fixture {
	t.Helper()
	log := zaptest.NewLogger(t).Sugar()
	src, err := emoji.NewSources("15.3.0", []string{"data"}, []string{"sc"})
	require.NoError(t, err)
	f := fetchFunc(func(url string) ([]byte, error) {
		if url == "data" {
			return []byte(dataset), nil
		}
		return []byte(shortcodes), nil
	})
	kv := store.NewMemory()
	cat := emoji.NewCatalog(&emoji.Loader{Store: kv, Fetcher: f, Sources: src, Log: log})
	if load {
		res, _ := cat.Ensure(context.Background())
		require.Equal(t, emoji.Ready, res.Outcome)
	}

	cfg := config.DefaultConfig()
	s, err := engine.New(context.Background(), engine.Options{
		Store:      kv,
		Catalog:    cat,
		Keys:       PopupKeys(cfg.Keys),
		ToggleKeys: cfg.Keys.Toggle,
		AutoExpand: true,
		Log:        log,
	})
	require.NoError(t, err)

	repo, err := snippet.Open(context.Background(), snippet.Options{Store: kv, Log: log})
	require.NoError(t, err)

	d, err := doc.ParseHTML(strings.NewReader(testPage))
	require.NoError(t, err)

	m := NewModel(Options{Config: cfg, Doc: d, Session: s, Snippets: repo, Store: kv, Log: log})
	fx := &fixture{m: m, kv: kv, snippets: repo}
	fx.send(t, tea.WindowSizeMsg{Width: 100, Height: 30})
	return fx
}

func (fx *fixture) send(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := fx.m.Update(msg)
	m, ok := next.(Model)
	require.True(t, ok)
	fx.m = m
	return cmd
}

func (fx *fixture) key(t *testing.T, k tea.KeyType) tea.Cmd {
	return fx.send(t, tea.KeyMsg{Type: k})
}

// typeText sends s one rune at a time and returns the first command produced.
func (fx *fixture) typeText(t *testing.T, s string) tea.Cmd {
	var first tea.Cmd
	for _, r := range s {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
		if r == ' ' {
			msg = tea.KeyMsg{Type: tea.KeySpace}
		}
		if cmd := fx.send(t, msg); first == nil {
			first = cmd
		}
	}
	return first
}

func (fx *fixture) node(name string) *doc.Node {
	var found *doc.Node
	fx.m.doc.Root.Walk(func(n *doc.Node) bool {
		if v, _ := n.Attr("name"); v == name {
			found = n
		}
		if v, _ := n.Attr("aria-label"); v == name {
			found = n
		}
		return found == nil
	})
	return found
}

func TestFocusCycle(t *testing.T) {
	fx := newFixture(t, true)
	subject, notes, msg := fx.node("subject"), fx.node("notes"), fx.node("message")

	list := focusables(fx.m.doc.Root)
	assert.Equal(t, []*doc.Node{subject, notes, msg}, list)

	fx.key(t, tea.KeyCtrlO)
	assert.Equal(t, subject, fx.m.Focused())
	fx.key(t, tea.KeyCtrlO)
	fx.key(t, tea.KeyCtrlO)
	assert.Equal(t, msg, fx.m.Focused())
	assert.Equal(t, msg, fx.m.doc.ActiveElement())
	fx.key(t, tea.KeyCtrlO)
	assert.Nil(t, fx.m.Focused())
}

func TestTypingAutoExpands(t *testing.T) {
	fx := newFixture(t, true)
	fx.key(t, tea.KeyCtrlO)
	fx.typeText(t, "hi :smile: ok")

	subject := fx.node("subject")
	assert.Equal(t, "hi 😄 ok", subject.Value())
	start, _, _ := subject.SelectionRange()
	assert.Equal(t, doc.RuneLen("hi 😄 ok"), start)
}

func TestTypingInRichRegion(t *testing.T) {
	fx := newFixture(t, true)
	for i := 0; i < 3; i++ {
		fx.key(t, tea.KeyCtrlO)
	}
	fx.typeText(t, "one :blush:")
	fx.key(t, tea.KeyEnter)
	fx.typeText(t, "two")

	msg := fx.node("message")
	require.Len(t, msg.Children, 2)
	assert.Equal(t, "one 😊", msg.Children[0].TextContent())
	assert.Equal(t, "two", msg.Children[1].TextContent())

	// backspace at the start of a line joins it with the one above
	for i := 0; i < 3; i++ {
		fx.key(t, tea.KeyBackspace)
	}
	fx.key(t, tea.KeyBackspace)
	require.Len(t, msg.Children, 1)
	assert.Equal(t, "one 😊", msg.TextContent())
}

func TestPopupCommitWithEnter(t *testing.T) {
	fx := newFixture(t, true)
	fx.key(t, tea.KeyCtrlO)
	fx.typeText(t, "x :smi")

	pop := fx.m.session.Popup()
	require.True(t, pop.Visible())
	fx.key(t, tea.KeyDown)
	fx.key(t, tea.KeyUp)
	want, ok := fx.m.session.Popup().Highlighted()
	require.True(t, ok)

	fx.key(t, tea.KeyEnter)
	assert.False(t, fx.m.session.Popup().Visible())
	assert.Equal(t, "x "+want.Value, fx.node("subject").Value())
}

func TestEscapeClosesPopupThenLeavesField(t *testing.T) {
	fx := newFixture(t, true)
	fx.key(t, tea.KeyCtrlO)
	fx.typeText(t, ":sm")
	require.True(t, fx.m.session.Popup().Visible())

	fx.key(t, tea.KeyEsc)
	assert.False(t, fx.m.session.Popup().Visible())
	assert.NotNil(t, fx.m.Focused())

	fx.key(t, tea.KeyEsc)
	assert.Nil(t, fx.m.Focused())
}

func TestToggleIgnoredInsideFields(t *testing.T) {
	fx := newFixture(t, true)
	fx.key(t, tea.KeyCtrlO)
	fx.key(t, tea.KeyF8)
	assert.False(t, fx.m.PanelOpen())

	fx.key(t, tea.KeyEsc)
	fx.key(t, tea.KeyF8)
	assert.True(t, fx.m.PanelOpen())

	fx.key(t, tea.KeyF8)
	assert.False(t, fx.m.PanelOpen())
}

func TestLazyIndexLoad(t *testing.T) {
	fx := newFixture(t, false)
	fx.key(t, tea.KeyCtrlO)
	cmd := fx.typeText(t, ":smi")

	require.NotNil(t, cmd)
	assert.True(t, fx.m.loading)
	assert.False(t, fx.m.session.Popup().Visible())

	msg := cmd()
	loaded, ok := msg.(IndexLoadedMsg)
	require.True(t, ok)
	require.True(t, loaded.Started)

	fx.send(t, loaded)
	assert.False(t, fx.m.loading)
	assert.True(t, fx.m.session.Popup().Visible())
	status, _ := fx.m.Status()
	assert.Contains(t, status, "index ready")
}

func TestEnableToggle(t *testing.T) {
	fx := newFixture(t, true)
	fx.key(t, tea.KeyCtrlE)
	assert.False(t, fx.m.session.Enabled())
	v, err := fx.kv.Get(context.Background(), store.KeyEnabled)
	require.NoError(t, err)
	assert.Equal(t, "0", v)

	fx.key(t, tea.KeyCtrlO)
	fx.typeText(t, ":smile:")
	assert.Equal(t, ":smile:", fx.node("subject").Value())
}

func TestPanelInsertsSnippet(t *testing.T) {
	fx := newFixture(t, true)
	fx.snippets.Add(snippet.New("greeting", snippet.ModeText, "Hello there"))

	for i := 0; i < 3; i++ {
		fx.key(t, tea.KeyCtrlO)
	}
	fx.key(t, tea.KeyEsc)
	fx.key(t, tea.KeyF8)
	require.True(t, fx.m.PanelOpen())

	fx.key(t, tea.KeyTab)
	assert.Equal(t, TabSnippets, fx.m.ActiveTab())
	tab, err := fx.kv.Get(context.Background(), store.KeyActiveTab)
	require.NoError(t, err)
	assert.Equal(t, "snippets", tab)

	fx.key(t, tea.KeyEnter)
	msg := fx.node("message")
	assert.Contains(t, msg.TextContent(), "Hello there")

	fx.send(t, tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.NotContains(t, msg.TextContent(), "Hello there")
}

func TestPanelEmojiSearch(t *testing.T) {
	fx := newFixture(t, true)
	fx.key(t, tea.KeyF8)
	fx.typeText(t, "laugh")

	res := fx.m.emojiResults()
	require.NotEmpty(t, res)
	assert.Equal(t, "😆", res[0].Value)

	cmd := fx.key(t, tea.KeyEnter)
	assert.NotNil(t, cmd)
	assert.Contains(t, fx.m.View(), "laughing")
}

func TestRenderDocCaret(t *testing.T) {
	fx := newFixture(t, true)
	fx.key(t, tea.KeyCtrlO)
	fx.typeText(t, "abc")

	v := renderDoc(fx.m.doc, fx.m.Focused())
	require.True(t, v.caret.ok)
	assert.Equal(t, runewidth.StringWidth(gutter)+3, v.caret.X)
	assert.Contains(t, stripANSI(v.lines[v.caret.Y]), "abc")

	view := fx.m.View()
	assert.Contains(t, view, "subject (field)")
	assert.Contains(t, view, "Title")
}

func TestViewShowsPopup(t *testing.T) {
	fx := newFixture(t, true)
	fx.key(t, tea.KeyCtrlO)
	fx.typeText(t, ":laug")
	view := fx.m.View()
	assert.Contains(t, view, ":laughing:")
	assert.Contains(t, view, "😆")
}

func TestHelpOverlay(t *testing.T) {
	fx := newFixture(t, true)
	fx.key(t, tea.KeyF1)
	assert.Contains(t, fx.m.View(), "Keyboard Shortcuts")
	fx.key(t, tea.KeyEsc)
	assert.NotContains(t, fx.m.View(), "Keyboard Shortcuts")
}

func TestConfigReload(t *testing.T) {
	fx := newFixture(t, true)
	cfg := config.DefaultConfig()
	cfg.Keys.Toggle = []string{"f9"}
	fx.send(t, ConfigReloadedMsg{Config: cfg})

	fx.key(t, tea.KeyF8)
	assert.False(t, fx.m.PanelOpen())
	fx.key(t, tea.KeyF9)
	assert.True(t, fx.m.PanelOpen())
}

func stripANSI(s string) string {
	var b strings.Builder
	esc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			esc = true
		case esc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			esc = false
		case !esc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
