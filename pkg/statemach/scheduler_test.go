package statemach

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/badge.go/pkg/hw"
)

type fakeDisplay struct {
	draws int
}

func (d *fakeDisplay) Init() error                   { return nil }
func (d *fakeDisplay) SetList(*hw.ListScreen)        {}
func (d *fakeDisplay) DrawText(x, y uint8, s string) {}
func (d *fakeDisplay) Draw()                         { d.draws++ }

// script replays a fixed sequence of outcomes, one per tick.
type script struct {
	out  []Outcome
	runs int
	last Context
}

func (s *script) Run(tc Context) Outcome {
	s.last = tc
	o := s.out[s.runs]
	s.runs++
	return o
}

func newTestScheduler(initial State, disp *fakeDisplay) *Scheduler {
	var ticks uint32
	return NewScheduler(initial,
		hw.ScanFunc(func() hw.KeyScan { return hw.KeyScan{Key: hw.NoKey} }),
		disp,
		hw.TickFunc(func() uint32 { ticks++; return ticks }))
}

func TestTransitionGating(t *testing.T) {
	c := &script{}
	b := &script{out: []Outcome{{Err: errors.New("boom"), Next: c}, Stay()}}
	a := &script{out: []Outcome{Transition(b)}}
	disp := &fakeDisplay{}
	s := newTestScheduler(a, disp)

	s.Tick()
	require.Equal(t, State(b), s.Active())
	require.Equal(t, uint64(0), s.Failures())

	// a failed tick keeps the current state and discards the proposal
	s.Tick()
	require.Equal(t, State(b), s.Active())
	require.Equal(t, uint64(1), s.Failures())
	require.Equal(t, 0, c.runs)

	s.Tick()
	require.Equal(t, State(b), s.Active())
	require.Equal(t, 3, disp.draws)
}

func TestStayKeepsState(t *testing.T) {
	a := &script{out: []Outcome{Stay(), Stay()}}
	s := newTestScheduler(a, &fakeDisplay{})
	s.Tick()
	s.Tick()
	require.Equal(t, State(a), s.Active())
	require.Equal(t, 2, a.runs)
}

func TestTickInputs(t *testing.T) {
	a := &script{out: []Outcome{Stay()}}
	scan := hw.KeyScan{Key: 3, Pressed: true}
	s := NewScheduler(a,
		hw.ScanFunc(func() hw.KeyScan { return scan }),
		&fakeDisplay{},
		hw.TickFunc(func() uint32 { return 42 }))
	s.Tick()
	require.Equal(t, Context{Ticks: 42, Keys: scan}, a.last)
}
