package states

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/badge.go/pkg/flashstore"
	"github.com/robotalks/badge.go/pkg/hw"
	"github.com/robotalks/badge.go/pkg/statemach"
)

// Home screen key assignments.
const (
	KeySettings uint8 = 1
	KeyBeacon   uint8 = 2
)

// IdentitySource reads the provisioned identity.
type IdentitySource interface {
	ReadIdentity() (*flashstore.Identity, error)
}

// Home is the default state showing the provisioned identity and
// dispatching to the other screens.
type Home struct {
	display hw.Display
	radio   hw.Radio
	ident   *flashstore.Identity
}

// NewHome creates the home state, reading the identity once. A badge
// without a valid identity still gets a home screen.
func NewHome(display hw.Display, radio hw.Radio, ids IdentitySource) *Home {
	ident, err := ids.ReadIdentity()
	if err != nil {
		glog.V(1).Infof("no identity: %v", err)
	}
	return &Home{display: display, radio: radio, ident: ident}
}

// Run implements statemach.State.
func (s *Home) Run(tc statemach.Context) statemach.Outcome {
	if s.ident == nil {
		s.display.DrawText(0, 10, "UNPROVISIONED")
	} else {
		s.display.DrawText(0, 10, fmt.Sprintf("UID: %08x", s.ident.RadioID))
		s.display.DrawText(0, 20, s.ident.AgentName)
	}
	if tc.Keys.Pressed {
		switch tc.Keys.Key {
		case KeySettings:
			return statemach.Transition(NewSettings(s.display, s, s.ident))
		case KeyBeacon:
			return statemach.Transition(NewBeacon(s.display, s.radio, s, tc.Ticks))
		}
	}
	return statemach.Stay()
}
