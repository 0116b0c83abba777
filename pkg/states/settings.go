package states

import (
	"fmt"

	"github.com/robotalks/badge.go/pkg/flashstore"
	"github.com/robotalks/badge.go/pkg/hw"
	"github.com/robotalks/badge.go/pkg/statemach"
)

// Settings shows the stored screensaver configuration. Any key returns
// to the previous screen.
type Settings struct {
	display hw.Display
	back    statemach.State
	ident   *flashstore.Identity
}

// NewSettings creates the settings state.
func NewSettings(display hw.Display, back statemach.State, ident *flashstore.Identity) *Settings {
	return &Settings{display: display, back: back, ident: ident}
}

// Run implements statemach.State.
func (s *Settings) Run(tc statemach.Context) statemach.Outcome {
	if s.ident == nil {
		s.display.DrawText(0, 10, "NO SETTINGS")
	} else {
		s.display.DrawText(0, 10, fmt.Sprintf("SAVER TYPE: %d", s.ident.ScreenSaverType))
		s.display.DrawText(0, 20, fmt.Sprintf("SAVER TIME: %d", s.ident.ScreenSaverTime))
	}
	if tc.Keys.Pressed {
		return statemach.Transition(s.back)
	}
	return statemach.Stay()
}
