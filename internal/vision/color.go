package vision

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an 8-bit RGB color, the unit the Vision contract and the
// disabled-letter / yellow-ring detectors are specified in terms of.
type Color struct {
	R, G, B uint8
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

// HSV converts c to hue (0-360), saturation (0-1), value (0-1).
func (c Color) HSV() (h, s, v float64) {
	return colorful.MakeColor(c).Hsv()
}

// Lab converts c to CIE L*a*b* (L in 0-1, a/b roughly -1..1 scaled by the
// library to the classic Lab range via LabWhiteRef).
func (c Color) Lab() (l, a, b float64) {
	return colorful.MakeColor(c).Lab()
}

// DisabledLetterColor is the fixed sample color the game draws inside a
// hand card's letter glyph when that card cannot be played.
var DisabledLetterColor = Color{R: 0x7a, G: 0x7d, B: 0x7d}

// ColorsClose reports whether a and b are within tolerance (0-1, fraction of
// the maximum per-channel distance) of each other.
func ColorsClose(a, b Color, tolerance float64) bool {
	dr := float64(int(a.R) - int(b.R))
	dg := float64(int(a.G) - int(b.G))
	db := float64(int(a.B) - int(b.B))
	dist := (dr*dr + dg*dg + db*db) / (3 * 255 * 255)
	return dist <= tolerance*tolerance
}

// InYellowRing reports whether c falls in the HSV band the recommended-card
// detector treats as "yellow glow". The detector's H in [20,30], S>=100,
// V>=100 thresholds are expressed on the OpenCV convention (H in 0..179,
// S/V in 0..255); go-colorful's Hsv() returns the standard H in 0..360,
// S/V in 0..1, so the hue band is doubled and S/V divided by 255 here.
func InYellowRing(c Color) bool {
	h, s, v := c.HSV()
	return h >= 40 && h <= 60 && s >= 100.0/255.0 && v >= 100.0/255.0
}
