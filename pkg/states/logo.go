// Package states provides the badge UI states run by the scheduler.
package states

import (
	"github.com/robotalks/badge.go/pkg/hw"
	"github.com/robotalks/badge.go/pkg/statemach"
)

// Logo is the splash state shown right after boot. It advances on its
// TimeGate without user input.
type Logo struct {
	display hw.Display
	gate    *statemach.TimeGate
}

// NewLogo creates the splash state with an armed gate.
func NewLogo(display hw.Display, gate *statemach.TimeGate) *Logo {
	return &Logo{display: display, gate: gate}
}

// Gate returns the splash gate.
func (s *Logo) Gate() *statemach.TimeGate {
	return s.gate
}

// Run implements statemach.State.
func (s *Logo) Run(tc statemach.Context) statemach.Outcome {
	s.display.DrawText(34, 24, "BADGE")
	if next, fired := s.gate.Fire(tc.Ticks); fired {
		return statemach.Transition(next)
	}
	return statemach.Stay()
}
