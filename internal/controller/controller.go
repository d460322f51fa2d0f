package controller

import (
	"log"
	"time"

	"github.com/harukaze/producecore/internal/scene"
	"github.com/harukaze/producecore/internal/vision"
)

// DefaultPumpInterval is the interrupt pump's default capture/classify/wait
// cadence (spec.md §5).
const DefaultPumpInterval = 200 * time.Millisecond

// Controller owns the perceive-classify-dispatch loop and its two auxiliary
// loops: the interrupt pump and the sub-flow scheduler (spec.md §4.3).
type Controller struct {
	Device     vision.Device
	Vision     vision.Vision
	Recognizer *scene.Recognizer
	Strategy   Strategy
	Session    *Session

	// Sleep is overridable in tests; defaults to time.Sleep.
	Sleep func(time.Duration)
	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

// NewController wires the pipeline together.
func NewController(dev vision.Device, v vision.Vision, strat Strategy, sess *Session) *Controller {
	return &Controller{
		Device:     dev,
		Vision:     v,
		Recognizer: scene.NewRecognizer(v),
		Strategy:   strat,
		Session:    sess,
		Sleep:      time.Sleep,
		Now:        time.Now,
	}
}

// Tick runs one iteration of the main loop: capture, classify, interrupt
// pass, sub-flow forwarding, then main dispatch (spec.md §4.3 step a-e).
func (c *Controller) Tick() error {
	if err := c.Session.CheckStop(); err != nil {
		return err
	}
	if err := c.Session.WaitWhilePaused(func() { c.Sleep(DefaultPumpInterval) }); err != nil {
		return err
	}

	shot, err := c.Device.Screenshot()
	if err != nil {
		log.Printf("[controller] screenshot failed: %v", err)
		return nil
	}

	sc := c.Recognizer.CheckScene(shot)
	ctx := NewContext(shot, sc, c.Vision, c.Device, c.Session)

	action := c.route(sc, ctx)

	c.Session.lastScene = sc.Type
	c.recordTick(shot, sc, action)
	return nil
}

// route dispatches the tick to the interrupt pump, the active sub-flow, or
// main dispatch, in that priority order (spec.md §4.3 step a-e), and
// reports which path it took for telemetry/tick-log purposes.
func (c *Controller) route(sc scene.Scene, ctx *Context) string {
	if c.handleInterrupts(sc, ctx) {
		return "interrupt"
	}

	if flow := c.Session.ActiveFlow(); flow != nil {
		if flow.Step(sc) {
			c.Session.ClearFlow()
		}
		return "flow"
	}

	c.dispatchMain(sc, ctx)
	return "main"
}

// handleInterrupts implements _handle_interrupts: it is mutually exclusive
// with dispatchMain on any given tick (spec.md §8 invariant 2) — if it
// returns true here, dispatchMain is never called this tick.
func (c *Controller) handleInterrupts(sc scene.Scene, ctx *Context) bool {
	if !sc.IsInterrupt() {
		return false
	}
	if err := c.runInterruptHandler(sc, ctx); err != nil {
		log.Printf("[controller] interrupt handler for %s failed: %v", sc.Type, err)
	}
	return true
}

func (c *Controller) runInterruptHandler(sc scene.Scene, ctx *Context) error {
	switch sc.Type {
	case scene.Loading:
		return c.Strategy.OnLoading(ctx)
	case scene.PDrinkMax:
		return c.Strategy.OnPDrinkMax(ctx)
	case scene.PDrinkMaxConfirm:
		return c.Strategy.OnPDrinkMaxConfirm(ctx)
	case scene.SelectDrink:
		return c.Strategy.OnSelectDrink(ctx)
	case scene.SelectCard:
		return c.Strategy.OnSelectCard(ctx)
	case scene.SelectPItem:
		return c.Strategy.OnSelectPItem(ctx)
	case scene.SkillCardEnhance:
		return c.Strategy.OnSkillCardEnhance(ctx)
	case scene.SkillCardRemoval:
		return c.Strategy.OnSkillCardRemoval(ctx)
	case scene.NetworkError:
		return c.Strategy.OnNetworkError(ctx)
	default:
		return nil
	}
}

// dispatchMain implements step (e): on a PRACTICE/EXAM -> non-battle
// transition it notifies the exit hook first, then dispatches the current
// scene to its matching hook.
func (c *Controller) dispatchMain(sc scene.Scene, ctx *Context) {
	was := c.Session.LastScene()
	if (was == scene.Practice || was == scene.Exam) && !sc.IsBattle() {
		if err := c.Strategy.OnBattleExit(ctx, was); err != nil {
			log.Printf("[controller] battle exit hook failed: %v", err)
		}
	}

	var err error
	switch sc.Type {
	case scene.Idle, scene.InitialDrinkOrCardSelect:
		err = c.Strategy.OnIdle(ctx)
	case scene.ActionSelect:
		err = c.Strategy.OnActionSelect(ctx)
	case scene.Study:
		err = c.Strategy.OnStudy(ctx)
	case scene.Outing:
		err = c.Strategy.OnOuting(ctx)
	case scene.Consult:
		err = c.Strategy.OnConsult(ctx)
	case scene.Allowance:
		err = c.Strategy.OnAllowance(ctx)
	case scene.Practice:
		err = c.Strategy.OnPractice(ctx)
	case scene.Exam:
		err = c.Strategy.OnExam(ctx)
	default:
		err = c.Strategy.OnUnknown(ctx)
	}
	if err != nil {
		log.Printf("[controller] dispatch for %s failed: %v", sc.Type, err)
	}
}

// Run drives Tick in a loop until the session stops or a fatal/stop error
// propagates, converting the result to a one-shot Outcome.
func (c *Controller) Run() Outcome {
	c.Session.Start()
	defer c.Session.Stop()

	for c.Session.Running() {
		err := c.Tick()
		if err == nil {
			continue
		}
		switch err.(type) {
		case *StopSession:
			return OutcomeAborted
		case *UserFriendlyError:
			log.Printf("[controller] session ended: %v", err)
			return OutcomeSuccess
		case *UnrecoverableError:
			log.Printf("[controller] session failed: %v", err)
			return OutcomeFailed
		default:
			log.Printf("[controller] tick error: %v", err)
			return OutcomeFailed
		}
	}
	return OutcomeSuccess
}
