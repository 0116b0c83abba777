package statemach

import (
	"github.com/golang/glog"

	"github.com/robotalks/badge.go/pkg/hw"
)

// Scheduler owns exactly one active UI state and advances it once per
// tick. It is the only mutator of the active-state slot, and a
// transition is applied only when the tick succeeded.
type Scheduler struct {
	keyboard hw.Keyboard
	display  hw.Display
	ticks    hw.TickSource

	active   State
	failures uint64
}

// NewScheduler creates a Scheduler with a fully constructed initial
// state.
func NewScheduler(initial State, keyboard hw.Keyboard, display hw.Display, ticks hw.TickSource) *Scheduler {
	return &Scheduler{
		keyboard: keyboard,
		display:  display,
		ticks:    ticks,
		active:   initial,
	}
}

// Active returns the active state.
func (s *Scheduler) Active() State {
	return s.active
}

// Failures returns the count of failed ticks since start.
func (s *Scheduler) Failures() uint64 {
	return s.failures
}

// Tick runs one scheduler iteration: snapshot the keyboard, run the
// active state, apply the transition if the tick succeeded, redraw.
// State errors are contained here and never propagate.
func (s *Scheduler) Tick() {
	tc := Context{Ticks: s.ticks.Ticks(), Keys: s.keyboard.Scan()}
	out := s.active.Run(tc)
	switch {
	case out.Err != nil:
		// the proposal, if any, is discarded
		s.failures++
		glog.Errorf("state tick failed: %v", out.Err)
	case out.Next != nil:
		s.active = out.Next
	}
	s.display.Draw()
}
