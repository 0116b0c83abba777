// Package statemach drives the badge UI as a tick-based cooperative
// state machine.
package statemach

import (
	"github.com/robotalks/badge.go/pkg/hw"
)

// Context carries the per-tick inputs into a state.
type Context struct {
	// Ticks is the current value of the monotonic tick counter.
	Ticks uint32
	// Keys is the keyboard snapshot taken when the tick started.
	Keys hw.KeyScan
}

// Outcome reports the result of one tick of a State.
type Outcome struct {
	// Err marks the tick failed. A failed tick never transitions.
	Err error
	// Next proposes the state to adopt. nil means stay.
	Next State
}

// Stay keeps the current state running.
func Stay() Outcome {
	return Outcome{}
}

// Transition proposes next as the new active state. next must be fully
// constructed before being proposed.
func Transition(next State) Outcome {
	return Outcome{Next: next}
}

// Failed reports a failed tick.
func Failed(err error) Outcome {
	return Outcome{Err: err}
}

// State is one unit of UI behavior, executed once per tick. Run must
// not block: anything slower than a tick has to be restructured as a
// poll, or it starves the whole device.
type State interface {
	Run(tc Context) Outcome
}

// RunFunc is the func form of State.
type RunFunc func(Context) Outcome

// Run implements State.
func (f RunFunc) Run(tc Context) Outcome { return f(tc) }
