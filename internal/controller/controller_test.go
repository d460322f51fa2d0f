package controller

import (
	"image"
	"testing"
	"time"

	"github.com/harukaze/producecore/internal/config"
	"github.com/harukaze/producecore/internal/scene"
	"github.com/harukaze/producecore/internal/vision"
)

// Literal prefab keys the recognizer itself consults (scene/prefabs.go);
// duplicated here since they are unexported in that package.
const (
	keyLoadingSpinner       = "InPurodyuusu.LoadingSpinner"
	keyReviewCriteriaMarker = "InPurodyuusu.ReviewCriteriaMarker"
	keyPracticeMarker       = "InPurodyuusu.PracticeClearUntilMarker"
)

type fakeDevice struct {
	screenshot    vision.Screenshot
	screenshotErr error
	clicks        int
}

func (d *fakeDevice) Screenshot() (vision.Screenshot, error) { return d.screenshot, d.screenshotErr }
func (d *fakeDevice) Click(x, y int) error                   { d.clicks++; return nil }
func (d *fakeDevice) ClickRect(r image.Rectangle) error      { d.clicks++; return nil }
func (d *fakeDevice) DoubleClick(x, y int) error             { d.clicks++; return nil }
func (d *fakeDevice) Swipe(x1, y1, x2, y2 int, dur time.Duration) error { return nil }
func (d *fakeDevice) ScreenSize() (int, int)                 { return vision.LogicalWidth, vision.LogicalHeight }

var _ vision.Device = (*fakeDevice)(nil)

type fakeVision struct {
	found map[string]bool
}

func newFakeVision() *fakeVision { return &fakeVision{found: make(map[string]bool)} }

func (f *fakeVision) Find(shot vision.Screenshot, key string, search image.Rectangle, threshold float64, filters ...vision.PixelFilter) vision.MatchResult {
	if f.found[key] {
		return vision.MatchResult{Found: true, Rect: search, Score: 1}
	}
	return vision.MatchResult{}
}
func (f *fakeVision) FindAll(shot vision.Screenshot, key string, search image.Rectangle, threshold float64, filters ...vision.PixelFilter) []vision.MatchResult {
	return nil
}
func (f *fakeVision) OCR(shot vision.Screenshot, search image.Rectangle) []vision.TextRun { return nil }
func (f *fakeVision) FindColor(shot vision.Screenshot, search image.Rectangle, c vision.Color, tolerance float64) (image.Point, bool) {
	return image.Point{}, false
}
func (f *fakeVision) Histogram(shot vision.Screenshot, search image.Rectangle, channel vision.Channel, bins int) []int {
	return nil
}
func (f *fakeVision) Descriptor(img image.Image) []float64 { return nil }

var _ vision.Vision = (*fakeVision)(nil)

// recordingStrategy implements controller.Strategy, counting invocations of
// each hook by name and optionally running a side-effect callback.
type recordingStrategy struct {
	calls     map[string]int
	onUnknown func(ctx *Context)
}

func newRecordingStrategy() *recordingStrategy {
	return &recordingStrategy{calls: make(map[string]int)}
}

func (s *recordingStrategy) record(name string) { s.calls[name]++ }

func (s *recordingStrategy) OnLoading(ctx *Context) error             { s.record("OnLoading"); return nil }
func (s *recordingStrategy) OnPDrinkMax(ctx *Context) error           { s.record("OnPDrinkMax"); return nil }
func (s *recordingStrategy) OnPDrinkMaxConfirm(ctx *Context) error    { s.record("OnPDrinkMaxConfirm"); return nil }
func (s *recordingStrategy) OnSelectDrink(ctx *Context) error         { s.record("OnSelectDrink"); return nil }
func (s *recordingStrategy) OnSelectCard(ctx *Context) error          { s.record("OnSelectCard"); return nil }
func (s *recordingStrategy) OnSelectPItem(ctx *Context) error         { s.record("OnSelectPItem"); return nil }
func (s *recordingStrategy) OnSkillCardEnhance(ctx *Context) error    { s.record("OnSkillCardEnhance"); return nil }
func (s *recordingStrategy) OnSkillCardRemoval(ctx *Context) error    { s.record("OnSkillCardRemoval"); return nil }
func (s *recordingStrategy) OnNetworkError(ctx *Context) error        { s.record("OnNetworkError"); return nil }
func (s *recordingStrategy) TrySkipCommu(ctx *Context) bool           { s.record("TrySkipCommu"); return false }
func (s *recordingStrategy) OnIdle(ctx *Context) error                { s.record("OnIdle"); return nil }
func (s *recordingStrategy) OnActionSelect(ctx *Context) error        { s.record("OnActionSelect"); return nil }
func (s *recordingStrategy) OnStudy(ctx *Context) error               { s.record("OnStudy"); return nil }
func (s *recordingStrategy) OnOuting(ctx *Context) error              { s.record("OnOuting"); return nil }
func (s *recordingStrategy) OnConsult(ctx *Context) error             { s.record("OnConsult"); return nil }
func (s *recordingStrategy) OnAllowance(ctx *Context) error           { s.record("OnAllowance"); return nil }
func (s *recordingStrategy) OnUnknown(ctx *Context) error {
	s.record("OnUnknown")
	if s.onUnknown != nil {
		s.onUnknown(ctx)
	}
	return nil
}
func (s *recordingStrategy) OnPractice(ctx *Context) error { s.record("OnPractice"); return nil }
func (s *recordingStrategy) OnExam(ctx *Context) error     { s.record("OnExam"); return nil }
func (s *recordingStrategy) OnBattleExit(ctx *Context, was scene.Type) error {
	s.record("OnBattleExit")
	return nil
}

var _ Strategy = (*recordingStrategy)(nil)

// stubFlow reports done after a fixed number of Step calls.
type stubFlow struct {
	stepsUntilDone int
	steps          int
}

func (f *stubFlow) Step(sc scene.Scene) bool {
	f.steps++
	return f.steps >= f.stepsUntilDone
}

func newTestController(dev *fakeDevice, v *fakeVision, strat Strategy) *Controller {
	sess := NewSession(config.Default())
	c := NewController(dev, v, strat, sess)
	c.Sleep = func(time.Duration) {}
	return c
}

func TestTickDispatchesUnknownSceneToOnUnknown(t *testing.T) {
	dev := &fakeDevice{}
	v := newFakeVision()
	strat := newRecordingStrategy()
	c := newTestController(dev, v, strat)

	if err := c.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if strat.calls["OnUnknown"] != 1 {
		t.Errorf("expected OnUnknown once, got %d", strat.calls["OnUnknown"])
	}
	if c.Session.LastScene() != scene.Unknown {
		t.Errorf("expected lastScene Unknown, got %v", c.Session.LastScene())
	}
}

func TestTickInterruptSkipsMainDispatch(t *testing.T) {
	dev := &fakeDevice{}
	v := newFakeVision()
	v.found[keyLoadingSpinner] = true
	strat := newRecordingStrategy()
	c := newTestController(dev, v, strat)

	if err := c.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if strat.calls["OnLoading"] != 1 {
		t.Errorf("expected OnLoading once, got %d", strat.calls["OnLoading"])
	}
	if strat.calls["OnUnknown"] != 0 {
		t.Error("expected main dispatch not to run on an interrupt tick")
	}
	if c.Session.LastScene() != scene.Loading {
		t.Errorf("expected lastScene Loading, got %v", c.Session.LastScene())
	}
}

func TestTickForwardsToActiveFlowInsteadOfDispatch(t *testing.T) {
	dev := &fakeDevice{}
	v := newFakeVision()
	strat := newRecordingStrategy()
	c := newTestController(dev, v, strat)
	flow := &stubFlow{stepsUntilDone: 2}
	c.Session.SetFlow(flow)

	if err := c.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if strat.calls["OnUnknown"] != 0 {
		t.Error("expected the active flow to intercept the tick instead of main dispatch")
	}
	if c.Session.ActiveFlow() == nil {
		t.Error("expected the flow to remain active before it reports done")
	}

	if err := c.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if c.Session.ActiveFlow() != nil {
		t.Error("expected the flow to be cleared once it reports done")
	}
}

func TestTickCheckStopReturnsStopSessionWithoutTouchingDevice(t *testing.T) {
	dev := &fakeDevice{}
	v := newFakeVision()
	strat := newRecordingStrategy()
	c := newTestController(dev, v, strat)
	c.Session.Interrupt.Store(true)

	err := c.Tick()
	if err == nil {
		t.Fatal("expected a StopSession error")
	}
	if _, ok := err.(*StopSession); !ok {
		t.Errorf("expected *StopSession, got %T", err)
	}
	if len(strat.calls) != 0 {
		t.Error("expected no strategy hooks to run once the session is stopping")
	}
}

func TestTickWaitWhilePausedUnblocksOnInterrupt(t *testing.T) {
	dev := &fakeDevice{}
	v := newFakeVision()
	strat := newRecordingStrategy()
	c := newTestController(dev, v, strat)
	c.Session.Pause.Store(true)

	sleeps := 0
	c.Sleep = func(time.Duration) {
		sleeps++
		if sleeps == 2 {
			c.Session.Interrupt.Store(true)
		}
	}

	err := c.Tick()
	if _, ok := err.(*StopSession); !ok {
		t.Errorf("expected *StopSession once interrupted while paused, got %v", err)
	}
	if sleeps < 2 {
		t.Errorf("expected at least 2 sleeps while paused, got %d", sleeps)
	}
}

func TestDispatchMainCallsOnBattleExitOnTransitionFromPractice(t *testing.T) {
	dev := &fakeDevice{}
	v := newFakeVision()
	v.found[keyPracticeMarker] = true
	strat := newRecordingStrategy()
	c := newTestController(dev, v, strat)

	if err := c.Tick(); err != nil { // classifies as Practice
		t.Fatalf("Tick: %v", err)
	}
	if strat.calls["OnPractice"] != 1 {
		t.Fatalf("expected OnPractice once, got %d", strat.calls["OnPractice"])
	}

	v.found[keyPracticeMarker] = false
	if err := c.Tick(); err != nil { // now Unknown: transition away from Practice
		t.Fatalf("Tick: %v", err)
	}
	if strat.calls["OnBattleExit"] != 1 {
		t.Errorf("expected OnBattleExit once on leaving Practice, got %d", strat.calls["OnBattleExit"])
	}
}

func TestRunStopsOnceInterruptIsSetAndReturnsOutcomeAborted(t *testing.T) {
	dev := &fakeDevice{}
	v := newFakeVision()
	strat := newRecordingStrategy()
	c := newTestController(dev, v, strat)
	strat.onUnknown = func(ctx *Context) { ctx.Session.Interrupt.Store(true) }

	outcome := c.Run()
	if outcome != OutcomeAborted {
		t.Errorf("expected OutcomeAborted, got %v", outcome)
	}
	if c.Session.Running() {
		t.Error("expected the session to be stopped after Run returns")
	}
}
