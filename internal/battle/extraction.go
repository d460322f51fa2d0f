package battle

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/harukaze/producecore/internal/catalogue"
	"github.com/harukaze/producecore/internal/hand"
	"github.com/harukaze/producecore/internal/sprites"
	"github.com/harukaze/producecore/internal/vision"
)

// letterStrip is the fixed rectangle the letter overlays (A/M/T) are
// searched within to both count the hand and locate each slot.
var letterStrip = image.Rect(0, 1100, vision.LogicalWidth, 1160)

// letterTemplateKeys maps each overlay glyph to its template key.
var letterTemplateKeys = map[string]string{
	"A": "InPurodyuusu.CardLetter.A",
	"M": "InPurodyuusu.CardLetter.M",
	"T": "InPurodyuusu.CardLetter.T",
}

// cropRatio is the fixed resize ratio applied to a card crop before
// descriptor matching, relative to the source catalogue art.
const cropRatio = 168.0 / 256.0

// DetectHandCount counts occurrences of the three letter templates within
// the letter strip to determine how many cards (1..5) are in hand. Returns
// 0 if none are found.
func DetectHandCount(v vision.Vision, shot vision.Screenshot) int {
	n := 0
	for _, key := range letterTemplateKeys {
		n += len(vision.FindAll(v, shot, vision.Prefab{Key: key, Search: letterStrip, Threshold: 0.85}))
	}
	if n > 5 {
		n = 5
	}
	return n
}

// letterMatch is one located letter overlay.
type letterMatch struct {
	Rect   image.Rectangle
	Letter string
}

// detectLetterMatches locates every letter overlay in the strip, sorted
// left to right so they line up with CardRects(n).
func detectLetterMatches(v vision.Vision, shot vision.Screenshot) []letterMatch {
	var out []letterMatch
	for letter, key := range letterTemplateKeys {
		for _, m := range vision.FindAll(v, shot, vision.Prefab{Key: key, Search: letterStrip, Threshold: 0.85}) {
			out = append(out, letterMatch{Rect: m.Rect, Letter: letter})
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Rect.Min.X < out[j-1].Rect.Min.X; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// cardCropRect computes the catalogue-art crop region for a card whose
// letter overlay is at letterRect, per spec.md §4.5.3: from
// (card_center_x-57, letter_top-148) to (card_center_x, letter_top).
func cardCropRect(letterRect image.Rectangle) image.Rectangle {
	centerX := (letterRect.Min.X + letterRect.Max.X) / 2
	top := letterRect.Min.Y
	return image.Rect(centerX-57, top-148, centerX, top)
}

// isAvailable samples the disabled-letter color inside letterRect; the slot
// is playable iff that color is absent (spec.md invariant: available implies
// the letter is not greyed out).
func isAvailable(shot vision.Screenshot, letterRect image.Rectangle) bool {
	img := shot.Img
	if img == nil {
		return false
	}
	r := letterRect.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			c := vision.Color{R: uint8(cr >> 8), G: uint8(cg >> 8), B: uint8(cb >> 8)}
			if vision.ColorsClose(c, vision.DisabledLetterColor, 0.02) {
				return false
			}
		}
	}
	return true
}

// ExtractHand builds the current Hand: counts cards, locates each slot's
// geometry and letter, samples availability, crops each card's art and
// resolves it against the HOG index, attaching the matched SkillCard (or
// leaving it nil if unmatched).
func ExtractHand(v vision.Vision, shot vision.Screenshot, cat *catalogue.Catalogue, hog *sprites.HOGIndex) hand.Hand {
	matches := detectLetterMatches(v, shot)
	n := len(matches)
	if n == 0 {
		return hand.Hand{}
	}
	if n > 5 {
		n = 5
		matches = matches[:5]
	}
	rects := CardRects(n)

	slots := make([]hand.Slot, n)
	for i := 0; i < n; i++ {
		m := matches[i]
		slot := hand.Slot{
			Index:     i,
			Rect:      rects[i],
			Letter:    m.Letter,
			Available: isAvailable(shot, m.Rect),
		}

		crop := cardCropRect(m.Rect)
		if sub, ok := subImage(shot.Img, crop); ok {
			descriptor := v.Descriptor(resizeByCropRatio(sub))
			if assetID, _, found := hog.Nearest(descriptor); found {
				if card, err := cat.CardByAssetID(assetID); err == nil {
					slot.Card = &card
				}
			}
		}
		slots[i] = slot
	}
	return hand.Hand{Slots: slots}
}

// subImageLike is satisfied by any image.Image that can hand back a
// rectangular sub-image (image.RGBA, image.NRGBA, ...).
type subImageLike interface {
	SubImage(r image.Rectangle) image.Image
}

// resizeByCropRatio scales img by cropRatio (168/256), matching the catalogue
// art's stored resolution before descriptor matching.
func resizeByCropRatio(img image.Image) image.Image {
	b := img.Bounds()
	w := int(float64(b.Dx()) * cropRatio)
	h := int(float64(b.Dy()) * cropRatio)
	if w <= 0 || h <= 0 {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

func subImage(img image.Image, r image.Rectangle) (image.Image, bool) {
	if img == nil {
		return nil, false
	}
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return nil, false
	}
	if si, ok := img.(subImageLike); ok {
		return si.SubImage(r), true
	}
	return img, true
}
