// Package vision defines the external Device/Vision contract consumed by the
// produce session core, plus the data types (Screenshot, Prefab, TextRun)
// those services exchange. Nothing in this package performs real screen
// capture or image recognition: it is the abstract boundary the rest of the
// core is written against, and production implementations live outside this
// module.
package vision

import (
	"image"
	"time"
)

// LogicalWidth and LogicalHeight are the normalized portrait frame every
// internal coordinate is expressed in, regardless of the device's actual
// screen resolution or orientation.
const (
	LogicalWidth  = 720
	LogicalHeight = 1280
)

// Screenshot is an immutable capture of the game screen at a point in time.
type Screenshot struct {
	Img       image.Image
	CapturedAt time.Time
	// Seq is a monotonically increasing tick sequence number, used by the
	// telemetry publisher and tick log to order frames without depending on
	// wall-clock time.
	Seq uint64
}

// Bounds returns the pixel rectangle of the screenshot's image.
func (s Screenshot) Bounds() image.Rectangle {
	if s.Img == nil {
		return image.Rectangle{}
	}
	return s.Img.Bounds()
}

// TextRun is a single piece of OCR output: recognized text plus the
// rectangle it was found in.
type TextRun struct {
	Text string
	Rect image.Rectangle
}

// MatchResult is the outcome of a template or color match.
type MatchResult struct {
	Found bool
	Rect  image.Rectangle
	Score float64
}

// Device abstracts the physical/emulated device the agent plays on. All
// coordinates passed to and returned from a Device are in the logical
// 720x1280 portrait frame; the device implementation is responsible for
// translating to and from actual screen/orientation coordinates.
type Device interface {
	Screenshot() (Screenshot, error)
	Click(x, y int) error
	ClickRect(r image.Rectangle) error
	DoubleClick(x, y int) error
	Swipe(x1, y1, x2, y2 int, duration time.Duration) error
	ScreenSize() (w, h int)
}

// Vision abstracts the image-recognition services (template matching, OCR,
// color search, histogram/HOG descriptors, nearest-neighbour image
// databases) the core relies on to interpret a Screenshot.
type Vision interface {
	// Find locates the best match of a template within a rectangle of a
	// screenshot, applying the given preprocessors first.
	Find(shot Screenshot, templateKey string, search image.Rectangle, threshold float64, filters ...PixelFilter) MatchResult
	// FindAll locates every match above threshold.
	FindAll(shot Screenshot, templateKey string, search image.Rectangle, threshold float64, filters ...PixelFilter) []MatchResult
	// OCR reads text runs out of a rectangle of a screenshot.
	OCR(shot Screenshot, search image.Rectangle) []TextRun
	// FindColor returns the first pixel within search matching color c
	// (within tolerance), or ok=false.
	FindColor(shot Screenshot, search image.Rectangle, c Color, tolerance float64) (pt image.Point, ok bool)
	// Histogram computes a channel histogram (e.g. red-channel bins) over a
	// rectangle, used by primary-button enabled/disabled detection.
	Histogram(shot Screenshot, search image.Rectangle, channel Channel, bins int) []int
	// Descriptor computes a HOG-style feature descriptor for an image
	// region, used for nearest-neighbour catalogue art matching.
	Descriptor(img image.Image) []float64
}

// Channel identifies a color channel for histogram sampling.
type Channel int

const (
	ChannelRed Channel = iota
	ChannelGreen
	ChannelBlue
)

// PixelFilter is a named preprocessing step applied to a screenshot region
// before matching (e.g. grayscale, color-key masking). Mirrors how
// dshills-dungo/pkg/carving composes small named transform steps over a
// tilemap rather than ad hoc inline image math.
type PixelFilter func(img image.Image) image.Image
