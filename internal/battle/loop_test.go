package battle

import (
	"image"
	"testing"
	"time"

	"github.com/harukaze/producecore/internal/vision"
)

// countingVision is a vision.Vision double that reports every call so Tick
// tests can assert how often a gated detector actually ran, without any
// matches so neither the letter strip nor any dialog prefab resolves.
type countingVision struct {
	findAllCalls int
}

func (v *countingVision) Find(shot vision.Screenshot, key string, search image.Rectangle, threshold float64, filters ...vision.PixelFilter) vision.MatchResult {
	return vision.MatchResult{}
}
func (v *countingVision) FindAll(shot vision.Screenshot, key string, search image.Rectangle, threshold float64, filters ...vision.PixelFilter) []vision.MatchResult {
	v.findAllCalls++
	return nil
}
func (v *countingVision) OCR(shot vision.Screenshot, search image.Rectangle) []vision.TextRun { return nil }
func (v *countingVision) FindColor(shot vision.Screenshot, search image.Rectangle, c vision.Color, tolerance float64) (image.Point, bool) {
	return image.Point{}, false
}
func (v *countingVision) Histogram(shot vision.Screenshot, search image.Rectangle, channel vision.Channel, bins int) []int {
	return nil
}
func (v *countingVision) Descriptor(img image.Image) []float64 { return nil }

var _ vision.Vision = (*countingVision)(nil)

type noopDevice struct{}

func (noopDevice) Screenshot() (vision.Screenshot, error)            { return vision.Screenshot{}, nil }
func (noopDevice) Click(x, y int) error                              { return nil }
func (noopDevice) ClickRect(r image.Rectangle) error                 { return nil }
func (noopDevice) DoubleClick(x, y int) error                        { return nil }
func (noopDevice) Swipe(x1, y1, x2, y2 int, dur time.Duration) error { return nil }
func (noopDevice) ScreenSize() (int, int)                           { return vision.LogicalWidth, vision.LogicalHeight }

var _ vision.Device = (noopDevice{})

// manualClock lets a test advance Now() deterministically.
type manualClock struct{ t time.Time }

func (c *manualClock) now() time.Time { return c.t }

func newTestLoop(v *countingVision, clock *manualClock) *Loop {
	return NewLoop(Deps{
		Device:     noopDevice{},
		Vision:     v,
		BattleType: BattlePractice,
		Mode:       ModeNormal,
		Config:     DefaultLoopConfig(),
		Now:        clock.now,
		Sleep:      func(time.Duration) {},
	})
}

// 3 letter template keys are probed per FindAll-based pass (extraction.go's
// letterTemplateKeys).
const findAllCallsPerPass = 3

func TestTickOnlyRecountsHandOnRefreshBoundary(t *testing.T) {
	clock := &manualClock{t: time.Unix(0, 0)}
	v := &countingVision{}
	l := newTestLoop(v, clock)

	l.Tick(vision.Screenshot{}) // first tick: always recounts (handCountValid starts false)
	afterFirst := v.findAllCalls
	if afterFirst != 2*findAllCallsPerPass {
		t.Fatalf("expected %d FindAll calls on the first tick (recount + extract), got %d", 2*findAllCallsPerPass, afterFirst)
	}

	l.Tick(vision.Screenshot{}) // same instant: refresh not due, should only extract
	afterSecond := v.findAllCalls
	if afterSecond != afterFirst+findAllCallsPerPass {
		t.Errorf("expected no extra recount before HandRefresh elapses, got %d new calls, want %d", afterSecond-afterFirst, findAllCallsPerPass)
	}

	clock.t = clock.t.Add(DefaultLoopConfig().HandRefresh)
	l.Tick(vision.Screenshot{}) // refresh period elapsed: recounts again
	afterThird := v.findAllCalls
	if afterThird != afterSecond+2*findAllCallsPerPass {
		t.Errorf("expected a recount once HandRefresh elapses, got %d new calls, want %d", afterThird-afterSecond, 2*findAllCallsPerPass)
	}
}

func TestTickSkipsDebugExportOnAnEmptyHandTick(t *testing.T) {
	clock := &manualClock{t: time.Unix(0, 0)}
	v := &countingVision{}
	l := newTestLoop(v, clock)

	calls := 0
	l.deps.DebugExport = func(rects []image.Rectangle, results []CardResult, recommendedIndex int, seq uint64) {
		calls++
	}

	// With an empty hand (no letter matches), n==0 short-circuits before the
	// decision branch that would call DebugExport.
	l.Tick(vision.Screenshot{Seq: 7})
	if calls != 0 {
		t.Fatalf("expected DebugExport not to run on an empty-hand tick, got %d calls", calls)
	}
}

func TestResetBreakClearsBreakingFlag(t *testing.T) {
	clock := &manualClock{t: time.Unix(0, 0)}
	v := &countingVision{}
	l := newTestLoop(v, clock)
	l.breaking = true

	l.resetBreak()

	if l.breaking {
		t.Error("expected resetBreak to clear the breaking flag")
	}
}
