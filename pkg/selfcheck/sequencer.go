// Package selfcheck runs the boot-time hardware checks and selects the
// initial UI state.
package selfcheck

import (
	"errors"

	"github.com/golang/glog"

	"github.com/robotalks/badge.go/pkg/hw"
	"github.com/robotalks/badge.go/pkg/statemach"
	"github.com/robotalks/badge.go/pkg/states"
)

// Component bits for subsystems that came up successfully.
type Component uint32

// Checked subsystems.
const (
	ComponentOLED Component = 1 << iota
	ComponentRadio
	ComponentFlashMem
)

// MaxStatusRows is the row capacity of the boot status screen.
// Declaring more checks than rows is a configuration error.
const MaxStatusRows = 4

// ErrTooManyChecks indicates the declared checks exceed MaxStatusRows.
var ErrTooManyChecks = errors.New("self checks exceed status screen capacity")

// Store is the persistent-store collaborator checked at boot.
type Store interface {
	states.IdentitySource
	Check() error
}

// Result aggregates the self check outcome.
type Result struct {
	// Mask is the OR of the components that passed.
	Mask Component
	// Rows lists one status row per check, in declared order.
	Rows []hw.ListItem
}

// Config holds the bring-up parameters.
type Config struct {
	Band       hw.RadioBand
	NodeID     uint8
	PowerLevel uint8
	// SplashTicks is the splash screen duration armed on the initial
	// state's gate.
	SplashTicks uint32
}

// Sequencer runs the ordered, independent hardware checks.
type Sequencer struct {
	Config

	display hw.Display
	radio   hw.Radio
	store   Store
	ticks   hw.TickSource
}

// New creates a Sequencer.
func New(cfg Config, display hw.Display, radio hw.Radio, store Store, ticks hw.TickSource) *Sequencer {
	return &Sequencer{Config: cfg, display: display, radio: radio, store: store, ticks: ticks}
}

type check struct {
	component Component
	okLabel   string
	failLabel string
	run       func() error
}

func (s *Sequencer) checks() []check {
	return []check{
		{ComponentOLED, "OLED INIT", "OLED FAILED", s.display.Init},
		{ComponentRadio, "RADIO INIT", "RADIO FAILED", s.checkRadio},
		{ComponentFlashMem, "FLASH MEM INIT", "FLASH MEM FAILED", s.store.Check},
	}
}

func (s *Sequencer) checkRadio() error {
	if err := s.radio.Init(s.Band, s.NodeID); err != nil {
		return err
	}
	s.radio.SetPowerLevel(s.PowerLevel)
	return nil
}

// Run executes the checks in order. Checks are independent: one
// failing never skips the others. It returns the aggregated result and
// the initial UI state, a splash armed with the configured gate.
func (s *Sequencer) Run() (*Result, statemach.State, error) {
	checks := s.checks()
	if len(checks) > MaxStatusRows {
		return nil, nil, ErrTooManyChecks
	}

	screen := &hw.ListScreen{
		Title:  "Self Check",
		Items:  make([]hw.ListItem, 0, MaxStatusRows),
		Width:  128,
		Height: 64,
	}
	res := &Result{Rows: make([]hw.ListItem, 0, len(checks))}
	attached := false
	for i, c := range checks {
		label := c.okLabel
		if err := c.run(); err != nil {
			glog.Errorf("self check %q: %v", c.okLabel, err)
			label = c.failLabel
		} else {
			res.Mask |= c.component
		}
		if c.component == ComponentOLED && res.Mask&ComponentOLED != 0 {
			s.display.SetList(screen)
			attached = true
		}
		row := hw.ListItem{Index: uint8(i), Label: label}
		res.Rows = append(res.Rows, row)
		screen.Items = append(screen.Items, row)
		screen.ItemCount++
		s.display.Draw()
	}
	if attached {
		s.display.SetList(nil)
	}

	home := states.NewHome(s.display, s.radio, s.store)
	gate := statemach.NewTimeGate(home, s.ticks.Ticks(), s.SplashTicks)
	return res, states.NewLogo(s.display, gate), nil
}
