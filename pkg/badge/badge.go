// Package badge wires the firmware core to its hardware collaborators
// and drives the scheduler loop.
package badge

import (
	"context"
	"errors"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/badge.go/pkg/flashstore"
	"github.com/robotalks/badge.go/pkg/hw"
	"github.com/robotalks/badge.go/pkg/selfcheck"
	"github.com/robotalks/badge.go/pkg/statemach"
)

// Config configures a Badge instance.
type Config struct {
	// FlashBase is the base address of the ConfigRegion.
	FlashBase uint32
	// Declared identity field lengths. These are part of the persisted
	// layout and must not change once a device is provisioned.
	PublicKeyLen  int
	PrivateKeyLen int
	AgentNameLen  int

	// ProvisionOnBoot guards first-boot provisioning. With it unset
	// the region is never written.
	ProvisionOnBoot bool
	// Defaults is the image written at first boot. nil derives one
	// from the host machine identity.
	Defaults  *flashstore.Defaults
	AgentName string

	Band        hw.RadioBand
	NodeID      uint8
	PowerLevel  uint8
	SplashTicks uint32

	// TickInterval is the wall-clock distance between scheduler ticks.
	TickInterval time.Duration
}

// DefaultConfig returns the factory configuration.
func DefaultConfig() Config {
	return Config{
		PublicKeyLen:    26,
		PrivateKeyLen:   24,
		AgentNameLen:    12,
		ProvisionOnBoot: true,
		AgentName:       "AGENT",
		Band:            hw.Band915MHz,
		NodeID:          1,
		PowerLevel:      31,
		SplashTicks:     3000,
		TickInterval:    10 * time.Millisecond,
	}
}

// ErrNoHardware indicates a missing hardware collaborator.
var ErrNoHardware = errors.New("badge hardware not fully wired")

// Badge is one firmware instance bound to its hardware.
type Badge struct {
	Config

	Flash      hw.Flash
	Display    hw.Display
	Radio      hw.Radio
	Keyboard   hw.Keyboard
	TickSource hw.TickSource

	store *flashstore.Store
	sched *statemach.Scheduler
	check *selfcheck.Result
}

// Start provisions the config region (first boot only) and runs the
// boot self check. Provisioning failures are never swallowed: a badge
// with a half-written identity does not come up.
func (b *Badge) Start() error {
	if b.Flash == nil || b.Display == nil || b.Radio == nil || b.Keyboard == nil {
		return ErrNoHardware
	}
	if b.TickSource == nil {
		b.TickSource = uptimeTicks()
	}
	layout, err := flashstore.NewLayout(b.PublicKeyLen, b.PrivateKeyLen, b.AgentNameLen)
	if err != nil {
		return err
	}
	b.store = flashstore.New(b.Flash, layout, b.FlashBase)

	if b.ProvisionOnBoot {
		defaults := b.Defaults
		if defaults == nil {
			defaults = DefaultIdentity(b.Config)
		}
		if err := b.store.Provision(defaults); err != nil {
			return err
		}
	}

	seq := selfcheck.New(selfcheck.Config{
		Band:        b.Band,
		NodeID:      b.NodeID,
		PowerLevel:  b.PowerLevel,
		SplashTicks: b.SplashTicks,
	}, b.Display, b.Radio, b.store, b.TickSource)
	res, initial, err := seq.Run()
	if err != nil {
		return err
	}
	b.check = res
	glog.V(1).Infof("self check mask %#x", res.Mask)

	b.sched = statemach.NewScheduler(initial, b.Keyboard, b.Display, b.TickSource)
	return nil
}

// SelfCheck returns the boot self check result, nil before Start.
func (b *Badge) SelfCheck() *selfcheck.Result {
	return b.check
}

// Scheduler returns the running scheduler, nil before Start.
func (b *Badge) Scheduler() *statemach.Scheduler {
	return b.sched
}

// Store returns the config store, nil before Start.
func (b *Badge) Store() *flashstore.Store {
	return b.store
}

// Run implements run.Runnable: one scheduler iteration per tick
// interval, for the device's operating lifetime.
func (b *Badge) Run(ctx context.Context) error {
	if b.sched == nil {
		if err := b.Start(); err != nil {
			return err
		}
	}
	interval := b.TickInterval
	if interval == 0 {
		interval = 10 * time.Millisecond
	}
	timer := time.Tick(interval)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer:
			b.sched.Tick()
		}
	}
}

// uptimeTicks counts milliseconds since the badge came up.
func uptimeTicks() hw.TickSource {
	start := time.Now()
	return hw.TickFunc(func() uint32 {
		return uint32(time.Since(start) / time.Millisecond)
	})
}
