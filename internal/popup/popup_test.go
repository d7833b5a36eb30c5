package popup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/ezmoji/internal/doc"
	"github.com/nhath/ezmoji/internal/emoji"
	"github.com/nhath/ezmoji/internal/surface"
	"github.com/nhath/ezmoji/internal/trigger"
)

func pending(t *testing.T) trigger.Pending {
	t.Helper()
	d := doc.New()
	in := d.Root.AppendChild(d.CreateElement("input"))
	s, ok := surface.Classify(in, nil)
	require.True(t, ok)
	return trigger.Pending{Surface: s, Query: "sm", Span: surface.Span{Node: in, Start: 0, End: 3}}
}

func items(n int) []emoji.Entry {
	out := make([]emoji.Entry, n)
	for i := range out {
		out[i] = emoji.Entry{Value: "😄", Primary: "smile", Order: i}
	}
	return out
}

func TestOpenAndClose(t *testing.T) {
	m := New()
	assert.False(t, m.Visible())

	m = m.Open(pending(t), items(3))
	assert.True(t, m.Visible())
	assert.Equal(t, 0, m.Selected())
	assert.Equal(t, "sm", m.Pending().Query)

	closed := m.Close()
	assert.False(t, closed.Visible())
	assert.False(t, closed.Pending().Valid())
	assert.True(t, m.Visible(), "close returns a new model")

	assert.False(t, New().Open(pending(t), nil).Visible(), "no candidates means closed")
}

func TestHighlightIsClamped(t *testing.T) {
	m := New().Open(pending(t), items(3))
	for i := 0; i < 10; i++ {
		m = m.MoveUp()
		assert.Equal(t, 0, m.Selected())
	}
	for i := 0; i < 10; i++ {
		m = m.MoveDown()
		assert.GreaterOrEqual(t, m.Selected(), 0)
		assert.LessOrEqual(t, m.Selected(), 2)
	}
	assert.Equal(t, 2, m.Selected())
	e, ok := m.Highlighted()
	require.True(t, ok)
	assert.Equal(t, 2, e.Order)
}

func TestReopenResetsHighlight(t *testing.T) {
	m := New().Open(pending(t), items(5)).MoveDown().MoveDown()
	m = m.Open(pending(t), items(2))
	assert.Equal(t, 0, m.Selected())
}

func TestHandleKey(t *testing.T) {
	m := New()
	_, act := m.HandleKey("down")
	assert.Equal(t, ActionNone, act, "closed popup ignores keys")

	m = m.Open(pending(t), items(4))
	tests := []struct {
		key  string
		want Action
	}{
		{"down", ActionMove},
		{"ctrl+n", ActionMove},
		{"up", ActionMove},
		{"enter", ActionCommit},
		{"tab", ActionCommit},
		{"esc", ActionDismiss},
		{"a", ActionNone},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			_, got := m.HandleKey(tt.key)
			assert.Equal(t, tt.want, got)
		})
	}

	m, _ = m.HandleKey("down")
	m, _ = m.HandleKey("down")
	assert.Equal(t, 2, m.Selected())
}

func TestViewWindowsRows(t *testing.T) {
	m := New().SetMaxShow(3).Open(pending(t), items(10))
	for i := 0; i < 7; i++ {
		m = m.MoveDown()
	}
	start, end := m.window()
	assert.Equal(t, 6, start)
	assert.Equal(t, 9, end)
	assert.Contains(t, m.View(), "8/10")
	assert.Empty(t, New().View())
}

func TestPosition(t *testing.T) {
	vp := Size{W: 80, H: 24}
	tests := []struct {
		name    string
		anchor  Anchor
		size    Size
		want    Point
		flipped bool
	}{
		{"below caret", Anchor{Left: 10, TopBelow: 5, TopAbove: 3, HasAbove: true}, Size{20, 8}, Point{10, 5}, false},
		{"flip above", Anchor{Left: 10, TopBelow: 20, TopAbove: 19, HasAbove: true}, Size{20, 8}, Point{10, 11}, true},
		{"clamp right edge", Anchor{Left: 75, TopBelow: 2, HasAbove: true}, Size{20, 4}, Point{59, 2}, false},
		{"clamp left margin", Anchor{Left: 0, TopBelow: 2, HasAbove: true}, Size{10, 4}, Point{1, 2}, false},
		{"flip clamps to margin", Anchor{Left: 5, TopBelow: 20, TopAbove: 3, HasAbove: true}, Size{10, 10}, Point{5, 1}, true},
		{"no room above falls back to bottom clamp", Anchor{Left: 5, TopBelow: 20}, Size{10, 8}, Point{5, 15}, false},
		{"taller than viewport", Anchor{Left: 5, TopBelow: 2, TopAbove: 1, HasAbove: true}, Size{10, 40}, Point{5, 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, flipped := Position(tt.anchor, tt.size, vp, 1)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.flipped, flipped)
		})
	}
}

func TestCaretAnchor(t *testing.T) {
	a := DefaultPlacement().CaretAnchor(12, 4)
	assert.Equal(t, Anchor{Left: 12, TopBelow: 5, TopAbove: 4, HasAbove: true}, a)
}
