package controller

import "fmt"

// UserFriendlyError is a specific, anticipated condition (no selected
// produce solution, idol card not found, no available actions) that
// terminates the current session cleanly with a human-readable message.
type UserFriendlyError struct {
	Message string
}

func (e *UserFriendlyError) Error() string { return e.Message }

// UnrecoverableError is raised when a required element never appears within
// its retry budget, a catalogue lookup fails for a visually detected asset
// id, or another condition the session cannot proceed past. It aborts the
// session.
type UnrecoverableError struct {
	Reason string
}

func (e *UnrecoverableError) Error() string {
	return fmt.Sprintf("unrecoverable: %s", e.Reason)
}

// TimeoutError is raised by PumpInterruptsUntil when its predicate never
// becomes true within the given timeout.
type TimeoutError struct {
	Timeout string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out waiting for condition after %s", e.Timeout)
}

// StopSession is raised by cooperative cancellation (the hotkey thread's
// interrupt flag) at the next safe point. It is not an error: callers that
// see it must unwind to the session boundary silently, without logging it
// as a failure.
type StopSession struct{}

func (e *StopSession) Error() string { return "session stopped" }
