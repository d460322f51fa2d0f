package strategy

import (
	"image"
	"time"

	"github.com/harukaze/producecore/internal/vision"
)

// fakeDevice records every click issued against it, the way a scripted
// test double stands in for the real device the spec.md §4.1 contract
// keeps external to this module.
type fakeDevice struct {
	clicks       []image.Point
	doubleClicks []image.Point
	screenshot   vision.Screenshot
	screenshotErr error
}

func (d *fakeDevice) Screenshot() (vision.Screenshot, error) { return d.screenshot, d.screenshotErr }
func (d *fakeDevice) Click(x, y int) error {
	d.clicks = append(d.clicks, image.Point{X: x, Y: y})
	return nil
}
func (d *fakeDevice) ClickRect(r image.Rectangle) error {
	return d.Click((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
}
func (d *fakeDevice) DoubleClick(x, y int) error {
	d.doubleClicks = append(d.doubleClicks, image.Point{X: x, Y: y})
	return nil
}
func (d *fakeDevice) Swipe(x1, y1, x2, y2 int, duration time.Duration) error { return nil }
func (d *fakeDevice) ScreenSize() (int, int)                                { return vision.LogicalWidth, vision.LogicalHeight }

var _ vision.Device = (*fakeDevice)(nil)

// fakeVision is a scripted test double keyed by prefab key, mirroring
// scene.fakeVision but local to this package (unexported test doubles are
// not shared across packages).
type fakeVision struct {
	found      map[string]bool
	allMatches map[string][]vision.MatchResult
	ocr        map[string][]vision.TextRun
	histogram  []int // scripted Histogram() result, regardless of rect/channel
}

func newFakeVision() *fakeVision {
	return &fakeVision{
		found:      make(map[string]bool),
		allMatches: make(map[string][]vision.MatchResult),
		ocr:        make(map[string][]vision.TextRun),
	}
}

func (f *fakeVision) Find(shot vision.Screenshot, key string, search image.Rectangle, threshold float64, filters ...vision.PixelFilter) vision.MatchResult {
	if f.found[key] {
		return vision.MatchResult{Found: true, Rect: search, Score: 1}
	}
	if ms := f.allMatches[key]; len(ms) > 0 {
		return ms[0]
	}
	return vision.MatchResult{}
}

func (f *fakeVision) FindAll(shot vision.Screenshot, key string, search image.Rectangle, threshold float64, filters ...vision.PixelFilter) []vision.MatchResult {
	return f.allMatches[key]
}

func (f *fakeVision) OCR(shot vision.Screenshot, search image.Rectangle) []vision.TextRun {
	return f.ocr[""]
}

func (f *fakeVision) FindColor(shot vision.Screenshot, search image.Rectangle, c vision.Color, tolerance float64) (image.Point, bool) {
	return image.Point{}, false
}

func (f *fakeVision) Histogram(shot vision.Screenshot, search image.Rectangle, channel vision.Channel, bins int) []int {
	return f.histogram
}

func (f *fakeVision) Descriptor(img image.Image) []float64 { return nil }

var _ vision.Vision = (*fakeVision)(nil)
