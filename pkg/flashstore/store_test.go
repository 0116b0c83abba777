package flashstore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/badge.go/pkg/hw/memflash"
)

func testDefaults(l *Layout) *Defaults {
	pub := make([]byte, l.Size(FieldPublicKey))
	priv := make([]byte, l.Size(FieldPrivateKey))
	for i := range pub {
		pub[i] = 1
	}
	for i := range priv {
		priv[i] = 2
	}
	return &Defaults{
		ScreenSaverType: 1,
		ScreenSaverTime: 2,
		RadioID:         0x04030201,
		PublicKey:       pub,
		PrivateKey:      priv,
		AgentName:       "AGENT",
	}
}

func newTestStore(t *testing.T, writeSize int) (*Store, *memflash.Flash) {
	l, err := NewLayout(26, 24, 12)
	require.NoError(t, err)
	dev := memflash.New(256, writeSize)
	return New(dev, l, 0), dev
}

func TestProvisionImage(t *testing.T) {
	s, dev := newTestStore(t, 2)
	l := s.Layout()
	require.NoError(t, s.Provision(testDefaults(l)))

	mem := dev.Bytes()
	require.Equal(t, []byte{0xdc, 0xdc}, mem[0:2])
	require.Equal(t, []byte{1, 2}, mem[l.Offset(FieldSettings):l.Offset(FieldSettings)+2])
	require.Equal(t, []byte{1, 2, 3, 4}, mem[l.Offset(FieldRadioID):l.Offset(FieldRadioID)+4])
	require.Equal(t, byte(1), mem[l.Offset(FieldPublicKey)])
	require.Equal(t, byte(2), mem[l.Offset(FieldPrivateKey)])
	require.Equal(t, byte('A'), mem[l.Offset(FieldAgentName)])
	// agent name zero padded to declared length
	require.Equal(t, byte(0), mem[l.Offset(FieldAgentName)+5])

	ok, err := s.Provisioned()
	require.NoError(t, err)
	require.True(t, ok)
}

func TestProvisionIdempotent(t *testing.T) {
	s, dev := newTestStore(t, 2)
	require.NoError(t, s.Provision(testDefaults(s.Layout())))
	snapshot := append([]byte(nil), dev.Bytes()...)

	// second invocation is a no-op, even with different defaults
	other := testDefaults(s.Layout())
	other.AgentName = "OTHER"
	other.RadioID = 0xdeadbeef
	require.NoError(t, s.Provision(other))
	require.Equal(t, snapshot, dev.Bytes())
}

func TestProvisionGranularity(t *testing.T) {
	// total size 10+3+4+4=21 is not a multiple of the write unit
	l, err := NewLayout(3, 4, 4)
	require.NoError(t, err)
	dev := memflash.New(64, 2)
	s := New(dev, l, 0)
	d := testDefaults(l)
	d.AgentName = "AB"
	require.NoError(t, s.Provision(d))
	ok, err := s.Provisioned()
	require.NoError(t, err)
	require.True(t, ok)
}

type failingFlash struct {
	*memflash.Flash
	failAt uint32
	err    error
}

func (f *failingFlash) Program(offset uint32, data []byte) error {
	if offset == f.failAt {
		return f.err
	}
	return f.Flash.Program(offset, data)
}

func TestProvisionAbortsOnWriteFailure(t *testing.T) {
	l, err := NewLayout(26, 24, 12)
	require.NoError(t, err)
	devErr := errors.New("program failed")
	dev := &failingFlash{Flash: memflash.New(256, 2), failAt: 12, err: devErr}
	s := New(dev, l, 0)

	err = s.Provision(testDefaults(l))
	require.Error(t, err)
	perr, ok := err.(*ProvisioningError)
	require.True(t, ok)
	require.Equal(t, uint32(12), perr.Offset)
	require.Equal(t, devErr, perr.Err)

	// the region is explicitly left unprovisioned
	ok, err = s.Provisioned()
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, []byte{0, 0}, dev.Bytes()[0:2])

	// and the device ends up locked again
	require.Equal(t, memflash.ErrLocked, dev.Flash.Program(0, []byte{1, 2}))
}

func TestProvisionDefaultsSize(t *testing.T) {
	s, _ := newTestStore(t, 2)
	d := testDefaults(s.Layout())
	d.PublicKey = d.PublicKey[:3]
	require.Equal(t, ErrDefaultsSize, s.Provision(d))
	d = testDefaults(s.Layout())
	d.AgentName = "NAME LONGER THAN FIELD"
	require.Equal(t, ErrDefaultsSize, s.Provision(d))
}

func TestReadIdentity(t *testing.T) {
	s, _ := newTestStore(t, 2)
	_, err := s.ReadIdentity()
	require.Equal(t, ErrNotProvisioned, err)
	require.Equal(t, ErrNotProvisioned, s.Check())

	d := testDefaults(s.Layout())
	require.NoError(t, s.Provision(d))
	require.NoError(t, s.Check())

	ident, err := s.ReadIdentity()
	require.NoError(t, err)
	require.Equal(t, d.RadioID, ident.RadioID)
	require.Equal(t, d.PublicKey, ident.PublicKey)
	require.Equal(t, "AGENT", ident.AgentName)
	require.Equal(t, uint8(1), ident.ScreenSaverType)
	require.Equal(t, uint8(2), ident.ScreenSaverTime)
}
