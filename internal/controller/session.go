package controller

import (
	"sync/atomic"

	"github.com/harukaze/producecore/internal/config"
	"github.com/harukaze/producecore/internal/scene"
	"github.com/harukaze/producecore/internal/ticklog"
)

// Publisher is the minimal interface Controller.Tick needs to fan a
// TickEvent out to dashboard clients; *telemetry.Hub satisfies it.
type Publisher interface {
	Publish(message []byte)
}

// Flow is a multi-tick sub-interaction (spec.md §4.3, §9): at most one is
// active at a time, and while active the main dispatcher forwards every
// tick to it instead of the Strategy. Any mechanism may realise Flow
// (explicit state machine, or a coroutine driven by an external step
// signal) provided Step is the only observable contract.
type Flow interface {
	// Step advances the flow by one tick and reports whether it is done.
	Step(s scene.Scene) bool
}

// Outcome is the one-shot result the session boundary reports once Run
// returns.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeAborted
	OutcomeFailed
)

// Session is the controller's per-run state (spec.md §3): it replaces the
// source's thread-local "vars" container with an explicit object threaded
// through every call (spec.md §9's resolution of that design note).
type Session struct {
	Solution config.ProduceSolution

	running        bool
	lastScene      scene.Type
	activeFlow     Flow
	interruptDepth int

	// Pause and Interrupt are the two process-wide flags a keyboard-hotkey
	// thread may set; the core only ever reads them, at the top of any
	// internal wait (spec.md §5).
	Pause     atomic.Bool
	Interrupt atomic.Bool

	// Publisher fans per-tick telemetry out to dashboard clients, and
	// TickLog appends the same ticks to an append-only replay log. Both
	// are nil by default (spec.md §9): a session with neither set pays no
	// publish/record cost.
	Publisher Publisher
	TickLog   *ticklog.Recorder
}

// NewSession builds a Session bound to solution.
func NewSession(solution config.ProduceSolution) *Session {
	return &Session{Solution: solution}
}

// SessionSnapshot is the subset of Session state telemetry.Hub subscribers
// and the tick log see, standing in for the source's "vars" dump (spec.md
// §3, §4.3).
type SessionSnapshot struct {
	Running   bool               `json:"running"`
	LastScene string             `json:"last_scene"`
	Mode      config.ProduceMode `json:"mode"`
	Paused    bool               `json:"paused"`
	HasFlow   bool               `json:"has_flow"`
}

// Snapshot captures the session's current state for publishing.
func (s *Session) Snapshot() SessionSnapshot {
	return SessionSnapshot{
		Running:   s.Running(),
		LastScene: s.LastScene().String(),
		Mode:      s.Solution.Mode,
		Paused:    s.Pause.Load(),
		HasFlow:   s.ActiveFlow() != nil,
	}
}

// Running reports whether the session's main loop should keep iterating.
func (s *Session) Running() bool { return s.running }

// Start marks the session as running.
func (s *Session) Start() { s.running = true }

// Stop marks the session as no longer running.
func (s *Session) Stop() { s.running = false }

// LastScene returns the scene type classified on the previous tick.
func (s *Session) LastScene() scene.Type { return s.lastScene }

// ActiveFlow returns the currently installed sub-flow, or nil.
func (s *Session) ActiveFlow() Flow { return s.activeFlow }

// SetFlow installs f as the active sub-flow.
func (s *Session) SetFlow(f Flow) { s.activeFlow = f }

// ClearFlow removes the active sub-flow.
func (s *Session) ClearFlow() { s.activeFlow = nil }

// CheckStop raises StopSession if the Interrupt flag has been set. Callers
// at any wait point should call this and propagate the error up to the
// session boundary without treating it as a failure.
func (s *Session) CheckStop() error {
	if s.Interrupt.Load() {
		return &StopSession{}
	}
	return nil
}

// WaitWhilePaused parks the calling goroutine, polling Pause, until it is
// cleared or Interrupt is set. sleep is injected for testability.
func (s *Session) WaitWhilePaused(sleep func()) error {
	for s.Pause.Load() {
		if err := s.CheckStop(); err != nil {
			return err
		}
		sleep()
	}
	return nil
}
