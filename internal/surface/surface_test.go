package surface

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/nhath/ezmoji/internal/doc"
)

func field(d *doc.Document, typ, value string, caret int) *doc.Node {
	in := d.Root.AppendChild(d.CreateElement("input"))
	if typ != "" {
		in.SetAttr("type", typ)
	}
	in.SetValue(value)
	_ = in.SetSelectionRange(caret, caret)
	return in
}

func TestClassifyFieldTypes(t *testing.T) {
	tests := []struct {
		typ  string
		want bool
	}{
		{"", true},
		{"text", true},
		{"search", true},
		{"email", true},
		{"url", true},
		{"password", false},
		{"checkbox", false},
		{"number", false},
		{"date", false},
		{"hidden", false},
		{"submit", false},
	}
	for _, tt := range tests {
		t.Run("type="+tt.typ, func(t *testing.T) {
			d := doc.New()
			in := field(d, tt.typ, "", 0)
			s, ok := Classify(in, zaptest.NewLogger(t).Sugar())
			assert.Equal(t, tt.want, ok)
			if ok {
				assert.Equal(t, KindField, s.Kind())
			}
		})
	}
}

func TestClassifySkipsReadonlyAndDisabled(t *testing.T) {
	d := doc.New()
	ro := field(d, "text", "", 0)
	ro.SetAttr("readonly", "")
	dis := d.Root.AppendChild(d.CreateElement("textarea"))
	dis.SetAttr("disabled", "")

	_, ok := Classify(ro, nil)
	assert.False(t, ok)
	_, ok = Classify(dis, nil)
	assert.False(t, ok)
}

func TestClassifyRichResolvesTopmostEditable(t *testing.T) {
	d := doc.New()
	outer := d.Root.AppendChild(d.CreateElement("div"))
	outer.SetAttr("contenteditable", "true")
	inner := outer.AppendChild(d.CreateElement("div"))
	inner.SetAttr("contenteditable", "true")
	text := inner.AppendChild(d.CreateText("hey"))

	s, ok := Classify(text, nil)
	require.True(t, ok)
	assert.Equal(t, KindRich, s.Kind())
	assert.Same(t, outer, s.Root())

	plain := d.Root.AppendChild(d.CreateElement("p"))
	_, ok = Classify(plain, nil)
	assert.False(t, ok)
}

func TestFieldReadRequiresCollapsedSelection(t *testing.T) {
	d := doc.New()
	in := field(d, "text", "hi :smi", 7)
	s, ok := Classify(in, nil)
	require.True(t, ok)

	w, ok := s.Read()
	require.True(t, ok)
	assert.Equal(t, "hi :smi", w.Text)
	assert.Equal(t, 7, w.Caret)

	require.NoError(t, in.SetSelectionRange(3, 7))
	_, ok = s.Read()
	assert.False(t, ok)
}

func TestFieldReplaceMovesCaretAndFiresInput(t *testing.T) {
	d := doc.New()
	in := field(d, "text", "hi :smile: there", 10)
	var events []doc.EventType
	d.AddListener(func(ev doc.Event) { events = append(events, ev.Type) })

	s, _ := Classify(in, nil)
	caret, err := s.Replace(Span{Node: in, Start: 3, End: 10}, "😄")
	require.NoError(t, err)

	assert.Equal(t, "hi 😄 there", in.Value())
	assert.Equal(t, 4, caret)
	start, end, _ := in.SelectionRange()
	assert.Equal(t, 4, start)
	assert.Equal(t, 4, end)
	assert.Equal(t, []doc.EventType{doc.EventInput}, events)
}

func TestFieldReplaceSwallowsCaretRejection(t *testing.T) {
	d := doc.New()
	in := field(d, "email", "a :x:", 0)
	s, ok := Classify(in, zaptest.NewLogger(t).Sugar())
	require.True(t, ok)

	caret, err := s.Replace(Span{Node: in, Start: 2, End: 5}, "❌")
	require.NoError(t, err)
	assert.Equal(t, 3, caret)
	assert.Equal(t, "a ❌", in.Value())
}

func TestFieldReplaceRejectsOutOfRangeSpan(t *testing.T) {
	d := doc.New()
	in := field(d, "text", "ab", 2)
	s, _ := Classify(in, nil)
	_, err := s.Replace(Span{Node: in, Start: 1, End: 9}, "x")
	assert.True(t, errors.Is(err, ErrStaleSpan))
	assert.Equal(t, "ab", in.Value())
}

func TestRichReadInTextNode(t *testing.T) {
	d := doc.New()
	ed := d.Root.AppendChild(d.CreateElement("div"))
	ed.SetAttr("contenteditable", "")
	p := ed.AppendChild(d.CreateElement("p"))
	text := p.AppendChild(d.CreateText("say :ta"))
	require.NoError(t, d.SetCaret(text, 7))

	s, ok := Classify(text, nil)
	require.True(t, ok)
	w, ok := s.Read()
	require.True(t, ok)
	assert.Equal(t, "say :ta", w.Text)
	assert.Equal(t, 7, w.Caret)
	assert.Same(t, text, w.Node)
	assert.True(t, s.(*Rich).CaretInText())
}

func TestRichReadFromElementCaretUsesPrecedingTextNode(t *testing.T) {
	d := doc.New()
	ed := d.Root.AppendChild(d.CreateElement("div"))
	ed.SetAttr("contenteditable", "")
	first := ed.AppendChild(d.CreateText("one :fi"))
	ed.AppendChild(d.CreateElement("br"))
	ed.AppendChild(d.CreateText("after"))

	// caret between the first text node and the <br>
	require.NoError(t, d.SetCaret(ed, 1))
	s, _ := Classify(ed, nil)
	w, ok := s.Read()
	require.True(t, ok)
	assert.Same(t, first, w.Node)
	assert.Equal(t, 7, w.Caret)
	assert.False(t, s.(*Rich).CaretInText())

	// caret before any text
	require.NoError(t, d.SetCaret(ed, 0))
	_, ok = s.Read()
	assert.False(t, ok)
}

func TestRichReplaceKeepsCaretAfterInsert(t *testing.T) {
	d := doc.New()
	ed := d.Root.AppendChild(d.CreateElement("div"))
	ed.SetAttr("contenteditable", "")
	text := ed.AppendChild(d.CreateText("go :rocket now"))
	require.NoError(t, d.SetCaret(text, 10))

	var fired int
	d.AddListener(func(ev doc.Event) {
		if ev.Type == doc.EventInput {
			fired++
		}
	})

	s, _ := Classify(text, nil)
	caret, err := s.Replace(Span{Node: text, Start: 3, End: 10}, "🚀")
	require.NoError(t, err)
	assert.Equal(t, "go 🚀 now", text.Data())
	assert.Equal(t, 4, caret)
	assert.Equal(t, doc.Position{Node: text, Offset: 4}, d.Selection().Anchor)
	assert.Equal(t, 1, fired)
}

func TestRichReplaceRejectsDetachedNode(t *testing.T) {
	d := doc.New()
	ed := d.Root.AppendChild(d.CreateElement("div"))
	ed.SetAttr("contenteditable", "")
	text := ed.AppendChild(d.CreateText(":x"))
	s, _ := Classify(text, nil)
	text.Remove()

	_, err := s.Replace(Span{Node: text, Start: 0, End: 2}, "❌")
	assert.True(t, errors.Is(err, ErrStaleSpan))
}

func TestIsEditable(t *testing.T) {
	d := doc.New()
	sel := d.Root.AppendChild(d.CreateElement("select"))
	p := d.Root.AppendChild(d.CreateElement("p"))
	pw := field(d, "password", "", 0)

	assert.True(t, IsEditable(sel))
	assert.True(t, IsEditable(pw))
	assert.False(t, IsEditable(p))
}
