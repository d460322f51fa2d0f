package battle

import "image"

// cardWidth and cardHeight are constant across hand sizes; only the starting
// x and per-slot x-delta vary with the card count (spec.md §4.5.1).
const (
	cardWidth  = 192
	cardHeight = 252
	cardY      = 883
)

// SkipIndex is the pseudo-index the fixed SKIP control occupies in do_cards
// bookkeeping; it is never one of the 1..5 real hand slots.
const SkipIndex = 10

// SkipRect is the fixed SKIP control's on-screen rectangle.
var SkipRect = image.Rect(576, 1150, 696, 1230)

// slotGeometry is the per-count formula: starting x and per-slot x-delta.
// Values are derived so that the group of n cards is horizontally centered
// in the 720-wide logical frame; n=1 reduces to the single centered card at
// (264, 883, 192, 252) spec.md's S1 scenario exercises directly.
var slotGeometry = map[int]struct{ startX, deltaX int }{
	1: {264, 0},
	2: {159, 210},
	3: {104, 160},
	4: {69, 130},
	5: {44, 110},
}

// CardRects returns the n fixed card-slot rectangles for a hand of size n
// (1..5), in left-to-right order with strictly increasing x. Returns nil for
// n outside 1..5.
func CardRects(n int) []image.Rectangle {
	g, ok := slotGeometry[n]
	if !ok {
		return nil
	}
	rects := make([]image.Rectangle, n)
	for i := 0; i < n; i++ {
		x := g.startX + i*g.deltaX
		rects[i] = image.Rect(x, cardY, x+cardWidth, cardY+cardHeight)
	}
	return rects
}

// CardCenter returns the center point of r.
func CardCenter(r image.Rectangle) image.Point {
	return image.Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}
