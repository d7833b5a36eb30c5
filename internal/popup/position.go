package popup

// Anchor is a caret-relative rectangle in viewport cells: the popup hangs from
// TopBelow, or ends at TopAbove when flipped.
type Anchor struct {
	Left     int
	TopBelow int
	TopAbove int
	HasAbove bool
}

// Size is a width and height in cells.
type Size struct {
	W int
	H int
}

// Point is a top-left corner.
type Point struct {
	X int
	Y int
}

// Placement holds the tunables for anchoring.
type Placement struct {
	Margin      int
	OffsetBelow int
	OffsetAbove int
}

// DefaultPlacement suits a terminal: the row under the caret, one cell of margin.
func DefaultPlacement() Placement {
	return Placement{Margin: 1, OffsetBelow: 1, OffsetAbove: 0}
}

// CaretAnchor builds an anchor for a caret at column x, row y.
func (p Placement) CaretAnchor(x, y int) Anchor {
	return Anchor{Left: x, TopBelow: y + p.OffsetBelow, TopAbove: y - p.OffsetAbove, HasAbove: true}
}

// Position places a popup of the given size. It opens below the anchor, flips
// above when the bottom would overflow, and is finally clamped inside the
// viewport with the margin on every side. flipped reports the above placement.
func Position(a Anchor, size, viewport Size, margin int) (pt Point, flipped bool) {
	left := a.Left
	if left+size.W+margin > viewport.W {
		left = max(margin, viewport.W-size.W-margin)
	}
	if left < margin {
		left = margin
	}

	top := a.TopBelow
	if top+size.H+margin > viewport.H && a.HasAbove {
		top = a.TopAbove - size.H
		flipped = true
		if top < margin {
			top = margin
		}
	}
	if top+size.H+margin > viewport.H {
		top = max(margin, viewport.H-size.H-margin)
	}
	return Point{X: left, Y: top}, flipped
}
