package strategy

import (
	"time"

	"github.com/harukaze/producecore/internal/controller"
	"github.com/harukaze/producecore/internal/scene"
	"github.com/harukaze/producecore/internal/vision"
)

// consultPhase is consultFlow's three-phase state machine (spec.md §4.3,
// scenario S6): start -> waitingPurchase -> waitingExit -> done.
type consultPhase int

const (
	consultStart consultPhase = iota
	consultWaitingPurchase
	consultWaitingExit
	consultDone
)

var (
	keyConsultFirstItem    = vision.Prefab{Key: "InPurodyuusu.Consult.FirstItemPoint", Search: fullFrame, Threshold: 0.85}
	keyConsultYesDialog    = vision.Prefab{Key: "InPurodyuusu.Consult.YesDialogButton", Search: fullFrame, Threshold: 0.85}
	keyConsultExchange     = vision.ButtonPrefab{Prefab: vision.Prefab{Key: "InPurodyuusu.Consult.ExchangeButton", Search: fullFrame, Threshold: 0.85}}
	keyConsultEndButton    = vision.Prefab{Key: "InPurodyuusu.Consult.EndConsultButton", Search: fullFrame, Threshold: 0.85}
)

// consultFlow drives the consult interaction across ticks, captured with
// its own Device/Vision so it can re-screenshot independent of the scene
// value the controller passes to Step.
type consultFlow struct {
	dev vision.Device
	v   vision.Vision

	phase         consultPhase
	exitCountdown time.Time
	countdownSet  bool
	exitHold      time.Duration
}

func newConsultFlow(dev vision.Device, v vision.Vision) *consultFlow {
	return &consultFlow{dev: dev, v: v, exitHold: 2 * time.Second}
}

// Step advances the consult flow by one tick, re-screenshotting through its
// own Device/Vision reference; sc is informational only.
func (f *consultFlow) Step(sc scene.Scene) bool {
	shot, err := f.dev.Screenshot()
	if err != nil {
		return false
	}

	switch f.phase {
	case consultStart:
		f.runStart(shot)
	case consultWaitingPurchase:
		f.runWaitingPurchase(shot)
	case consultWaitingExit:
		f.runWaitingExit(shot)
	}
	return f.phase == consultDone
}

func (f *consultFlow) runStart(shot vision.Screenshot) {
	if vision.TryClick(f.dev, f.v, shot, keyConsultFirstItem) {
		return
	}
	if vision.TryClick(f.dev, f.v, shot, keyConsultYesDialog) {
		f.phase = consultWaitingPurchase
	}
}

func (f *consultFlow) runWaitingPurchase(shot vision.Screenshot) {
	if keyConsultExchange.Enabled(f.v, shot) == vision.ButtonEnabled {
		vision.TryClick(f.dev, f.v, shot, keyConsultExchange.Prefab)
		return
	}
	if vision.TryClick(f.dev, f.v, shot, keyConsultYesDialog) {
		f.phase = consultWaitingExit
	}
}

func (f *consultFlow) runWaitingExit(shot vision.Screenshot) {
	if vision.TryClick(f.dev, f.v, shot, keyConsultEndButton) {
		return
	}
	if vision.TryClick(f.dev, f.v, shot, keyConsultYesDialog) {
		if !f.countdownSet {
			f.countdownSet = true
			f.exitCountdown = time.Now().Add(f.exitHold)
		}
		return
	}
	if f.countdownSet && time.Now().After(f.exitCountdown) {
		f.phase = consultDone
	}
}

var _ controller.Flow = (*consultFlow)(nil)

// OnConsult installs the consult Flow (spec.md §4.4, §9's sub-flow
// scheduler).
func (s *DefaultStrategy) OnConsult(ctx *controller.Context) error {
	ctx.Session.SetFlow(newConsultFlow(ctx.Device, ctx.Vision))
	return nil
}
