package states

import (
	"fmt"

	"github.com/robotalks/badge.go/pkg/hw"
	"github.com/robotalks/badge.go/pkg/link"
	"github.com/robotalks/badge.go/pkg/statemach"
)

// BeaconInterval is the tick distance between beacon transmissions.
const BeaconInterval uint32 = 1000

// Beacon periodically broadcasts a hello frame and shows whatever
// arrives. Send and receive are per-tick polls; a tick never waits on
// the radio.
type Beacon struct {
	display hw.Display
	radio   hw.Radio
	back    statemach.State

	seq      link.Seq
	nextSend uint32
	count    int
	lastRecv string
}

// NewBeacon creates the beacon state. The first transmission happens
// on the next tick.
func NewBeacon(display hw.Display, radio hw.Radio, back statemach.State, now uint32) *Beacon {
	return &Beacon{
		display:  display,
		radio:    radio,
		back:     back,
		seq:      link.NewSeq(),
		nextSend: now,
	}
}

// Run implements statemach.State.
func (s *Beacon) Run(tc statemach.Context) statemach.Outcome {
	if tc.Keys.Pressed {
		return statemach.Transition(s.back)
	}
	if int32(tc.Ticks-s.nextSend) >= 0 {
		s.nextSend = tc.Ticks + BeaconInterval
		f := &link.Frame{Seq: s.seq, Code: link.CodeBeacon, Data: []byte(fmt.Sprintf("hello %d", s.count))}
		payload, err := f.Bytes()
		if err != nil {
			return statemach.Failed(err)
		}
		if err := s.radio.Send(hw.BroadcastNode, payload); err != nil {
			return statemach.Failed(err)
		}
		s.seq = s.seq.Next()
		s.count++
		s.display.DrawText(0, 10, fmt.Sprintf("sent %d", s.count))
	}
	if payload, ok := s.radio.Receive(); ok {
		if f, err := link.Decode(payload); err == nil {
			s.lastRecv = string(f.Data)
		}
	}
	if s.lastRecv != "" {
		s.display.DrawText(0, 30, s.lastRecv)
	}
	return statemach.Stay()
}
