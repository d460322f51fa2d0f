package battle

import (
	"image"

	"github.com/harukaze/producecore/internal/vision"
)

// borderInset is how far outside a card's rectangle the detector looks for
// the recommended-card yellow glow.
const borderInset = 15

// CardResult is the recommended-card detector's report for one card slot.
type CardResult struct {
	Index     int
	Score     float64 // mean of Left, Right, Top, Bottom
	Left      float64
	Right     float64
	Top       float64
	Bottom    float64
	TypeIndex int
}

// DetectCard inflates r by borderInset on all sides, masks out r itself,
// thresholds the remaining ring to yellow, and reports the coverage of each
// of the four border strips plus their mean.
func DetectCard(shot vision.Screenshot, r image.Rectangle, index int) CardResult {
	outer := image.Rect(r.Min.X-borderInset, r.Min.Y-borderInset, r.Max.X+borderInset, r.Max.Y+borderInset)
	img := shot.Img
	if img == nil {
		return CardResult{Index: index}
	}
	bounds := img.Bounds()
	outer = outer.Intersect(bounds)

	left := image.Rect(outer.Min.X, outer.Min.Y, r.Min.X, outer.Max.Y)
	right := image.Rect(r.Max.X, outer.Min.Y, outer.Max.X, outer.Max.Y)
	top := image.Rect(outer.Min.X, outer.Min.Y, outer.Max.X, r.Min.Y)
	bottom := image.Rect(outer.Min.X, r.Max.Y, outer.Max.X, outer.Max.Y)

	cl := yellowCoverage(img, left)
	cr := yellowCoverage(img, right)
	ct := yellowCoverage(img, top)
	cb := yellowCoverage(img, bottom)

	return CardResult{
		Index:  index,
		Score:  (cl + cr + ct + cb) / 4,
		Left:   cl,
		Right:  cr,
		Top:    ct,
		Bottom: cb,
	}
}

// DetectAll runs DetectCard over every rect in rects, in order.
func DetectAll(shot vision.Screenshot, rects []image.Rectangle) []CardResult {
	out := make([]CardResult, len(rects))
	for i, r := range rects {
		out[i] = DetectCard(shot, r, i)
	}
	return out
}

func yellowCoverage(img image.Image, strip image.Rectangle) float64 {
	strip = strip.Canon()
	total := strip.Dx() * strip.Dy()
	if total <= 0 {
		return 0
	}
	hit := 0
	for y := strip.Min.Y; y < strip.Max.Y; y++ {
		for x := strip.Min.X; x < strip.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			c := vision.Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
			if vision.InYellowRing(c) {
				hit++
			}
		}
	}
	return float64(hit) / float64(total)
}
