package controller

import (
	"time"
)

// Predicate is the condition PumpInterruptsUntil waits for.
type Predicate func() bool

// PumpInterruptsUntil is the sole mechanism a Strategy uses to wait for a
// specific UI element to disappear while remaining robust to popups
// (spec.md §4.3): capture, check predicate, else check_interrupt_scene and
// handle, else try the skip-commu handler on the raw screenshot, else sleep
// interval. It is re-entrant and tracks nesting via Session.interruptDepth.
func (c *Controller) PumpInterruptsUntil(done Predicate, timeout, interval time.Duration) error {
	c.Session.interruptDepth++
	defer func() { c.Session.interruptDepth-- }()

	deadline := c.Now().Add(timeout)
	for {
		if err := c.Session.CheckStop(); err != nil {
			return err
		}
		if err := c.Session.WaitWhilePaused(func() { c.Sleep(interval) }); err != nil {
			return err
		}

		if done() {
			return nil
		}

		shot, err := c.Device.Screenshot()
		if err == nil {
			sc := c.Recognizer.CheckInterruptScene(shot)
			ctx := NewContext(shot, sc, c.Vision, c.Device, c.Session)
			if sc.IsInterrupt() {
				_ = c.runInterruptHandler(sc, ctx)
			} else if c.Strategy.TrySkipCommu(ctx) {
				// handled
			}
		}

		if c.Now().After(deadline) {
			return &TimeoutError{Timeout: timeout.String()}
		}
		c.Sleep(interval)
	}
}

// InterruptDepth reports the current pump nesting level.
func (s *Session) InterruptDepth() int { return s.interruptDepth }
