package selfcheck

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/badge.go/pkg/flashstore"
	"github.com/robotalks/badge.go/pkg/hw"
	"github.com/robotalks/badge.go/pkg/states"
)

type fakeDisplay struct {
	initErr error
	list    *hw.ListScreen
	draws   int
}

func (d *fakeDisplay) Init() error                   { return d.initErr }
func (d *fakeDisplay) SetList(l *hw.ListScreen)      { d.list = l }
func (d *fakeDisplay) DrawText(x, y uint8, s string) {}
func (d *fakeDisplay) Draw()                         { d.draws++ }

type fakeRadio struct {
	initErr error
	band    hw.RadioBand
	nodeID  uint8
	power   uint8
}

func (r *fakeRadio) Init(band hw.RadioBand, nodeID uint8) error {
	r.band, r.nodeID = band, nodeID
	return r.initErr
}

func (r *fakeRadio) SetPowerLevel(level uint8) { r.power = level }
func (r *fakeRadio) Send(uint8, []byte) error  { return nil }
func (r *fakeRadio) Receive() ([]byte, bool)   { return nil, false }

type fakeStore struct {
	checkErr error
}

func (s *fakeStore) Check() error { return s.checkErr }

func (s *fakeStore) ReadIdentity() (*flashstore.Identity, error) {
	if s.checkErr != nil {
		return nil, s.checkErr
	}
	return &flashstore.Identity{AgentName: "AGENT"}, nil
}

func testConfig() Config {
	return Config{Band: hw.Band915MHz, NodeID: 1, PowerLevel: 31, SplashTicks: 3000}
}

func TestBitmaskCombinations(t *testing.T) {
	boom := errors.New("boom")
	for mask := 0; mask < 8; mask++ {
		disp := &fakeDisplay{}
		radio := &fakeRadio{}
		store := &fakeStore{}
		var want Component
		if mask&1 != 0 {
			want |= ComponentOLED
		} else {
			disp.initErr = boom
		}
		if mask&2 != 0 {
			want |= ComponentRadio
		} else {
			radio.initErr = boom
		}
		if mask&4 != 0 {
			want |= ComponentFlashMem
		} else {
			store.checkErr = boom
		}

		res, _, err := New(testConfig(), disp, radio, store, hw.TickFunc(func() uint32 { return 0 })).Run()
		require.NoError(t, err)
		require.Equal(t, want, res.Mask, "mask=%d", mask)
		require.Len(t, res.Rows, 3)
		for i, row := range res.Rows {
			require.Equal(t, uint8(i), row.Index)
		}
	}
}

func TestRadioBringUp(t *testing.T) {
	radio := &fakeRadio{}
	_, _, err := New(testConfig(), &fakeDisplay{}, radio, &fakeStore{}, hw.TickFunc(func() uint32 { return 0 })).Run()
	require.NoError(t, err)
	require.Equal(t, hw.Band915MHz, radio.band)
	require.Equal(t, uint8(1), radio.nodeID)
	require.Equal(t, uint8(31), radio.power)
}

func TestFailedRadioSkipsPowerLevel(t *testing.T) {
	radio := &fakeRadio{initErr: errors.New("no radio")}
	res, _, err := New(testConfig(), &fakeDisplay{}, radio, &fakeStore{}, hw.TickFunc(func() uint32 { return 0 })).Run()
	require.NoError(t, err)
	require.Zero(t, radio.power)
	require.Equal(t, "RADIO FAILED", res.Rows[1].Label)
}

func TestStatusScreen(t *testing.T) {
	disp := &fakeDisplay{}
	res, _, err := New(testConfig(), disp, &fakeRadio{}, &fakeStore{}, hw.TickFunc(func() uint32 { return 0 })).Run()
	require.NoError(t, err)
	require.Equal(t, 3, disp.draws)
	// the list is detached once the check screen is done
	require.Nil(t, disp.list)
	require.Equal(t, []hw.ListItem{
		{Index: 0, Label: "OLED INIT"},
		{Index: 1, Label: "RADIO INIT"},
		{Index: 2, Label: "FLASH MEM INIT"},
	}, res.Rows)
}

func TestInitialState(t *testing.T) {
	now := uint32(500)
	_, initial, err := New(testConfig(), &fakeDisplay{}, &fakeRadio{}, &fakeStore{},
		hw.TickFunc(func() uint32 { return now })).Run()
	require.NoError(t, err)
	logo, ok := initial.(*states.Logo)
	require.True(t, ok)
	require.Equal(t, now+3000, logo.Gate().Deadline())
	require.Equal(t, uint32(3000), logo.Gate().Duration())
}
