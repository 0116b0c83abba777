package flashstore

import (
	"encoding/binary"

	"github.com/golang/glog"

	"github.com/robotalks/badge.go/pkg/hw"
)

// Defaults is the configuration image written at first provisioning.
type Defaults struct {
	ReservedFlags    uint8
	ReservedContacts uint8
	ScreenSaverType  uint8
	ScreenSaverTime  uint8
	RadioID          uint32
	// PublicKey and PrivateKey must match the declared lengths exactly.
	PublicKey  []byte
	PrivateKey []byte
	// AgentName may be shorter than the declared length, the rest is
	// zero padded.
	AgentName string
}

// Identity is the provisioned identity reconstructed from the region.
type Identity struct {
	RadioID         uint32
	PublicKey       []byte
	AgentName       string
	ScreenSaverType uint8
	ScreenSaverTime uint8
}

// Store owns the ConfigRegion on a flash device. The region is written
// once, at first boot, and read thereafter.
type Store struct {
	dev    hw.Flash
	layout *Layout
	base   uint32
}

// New creates a Store over a region at base on dev.
func New(dev hw.Flash, layout *Layout, base uint32) *Store {
	return &Store{dev: dev, layout: layout, base: base}
}

// Layout returns the region layout.
func (s *Store) Layout() *Layout {
	return s.layout
}

// Provisioned reports whether the region carries the provisioning
// marker.
func (s *Store) Provisioned() (bool, error) {
	var buf [markerSize]byte
	if err := s.dev.Read(s.base+s.layout.Offset(FieldMarker), buf[:]); err != nil {
		return false, err
	}
	return binary.LittleEndian.Uint16(buf[:]) == ProvisionedMarker, nil
}

// Check verifies the region is readable and provisioned. Used by the
// boot self check.
func (s *Store) Check() error {
	ok, err := s.Provisioned()
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotProvisioned
	}
	return nil
}

// Provision writes the full ConfigRegion exactly once per device
// lifetime. Invoking it on an already provisioned region is a no-op.
// The image is programmed in increasing offset order, marker first, in
// MinWriteSize units, under a scoped flash unlock that is released on
// every exit path. The first failed write aborts the sequence and
// leaves the region explicitly marked unprovisioned.
func (s *Store) Provision(d *Defaults) error {
	if ok, err := s.Provisioned(); err != nil {
		return err
	} else if ok {
		glog.V(1).Info("config region already provisioned, skipping")
		return nil
	}
	image, err := s.pack(d)
	if err != nil {
		return err
	}
	return s.withUnlocked(func() error {
		step := s.dev.MinWriteSize()
		for off := 0; off < len(image); off += step {
			if err := s.dev.Program(s.base+uint32(off), image[off:off+step]); err != nil {
				s.markUnprovisioned(step)
				return &ProvisioningError{Offset: uint32(off), Err: err}
			}
		}
		glog.V(1).Infof("config region provisioned, %d bytes", s.layout.TotalSize())
		return nil
	})
}

// ReadIdentity reconstructs the identity from a provisioned region.
func (s *Store) ReadIdentity() (*Identity, error) {
	if err := s.Check(); err != nil {
		return nil, err
	}
	settings := make([]byte, settingsSize)
	if err := s.readField(FieldSettings, settings); err != nil {
		return nil, err
	}
	radioID := make([]byte, radioIDSize)
	if err := s.readField(FieldRadioID, radioID); err != nil {
		return nil, err
	}
	pubKey := make([]byte, s.layout.Size(FieldPublicKey))
	if err := s.readField(FieldPublicKey, pubKey); err != nil {
		return nil, err
	}
	name := make([]byte, s.layout.Size(FieldAgentName))
	if err := s.readField(FieldAgentName, name); err != nil {
		return nil, err
	}
	end := len(name)
	for i, b := range name {
		if b == 0 {
			end = i
			break
		}
	}
	return &Identity{
		RadioID:         binary.LittleEndian.Uint32(radioID),
		PublicKey:       pubKey,
		AgentName:       string(name[:end]),
		ScreenSaverType: settings[0],
		ScreenSaverTime: settings[1],
	}, nil
}

func (s *Store) readField(f Field, buf []byte) error {
	return s.dev.Read(s.base+s.layout.Offset(f), buf)
}

// pack builds the region image, padded to a MinWriteSize multiple.
func (s *Store) pack(d *Defaults) ([]byte, error) {
	l := s.layout
	if uint32(len(d.PublicKey)) != l.Size(FieldPublicKey) ||
		uint32(len(d.PrivateKey)) != l.Size(FieldPrivateKey) ||
		uint32(len(d.AgentName)) > l.Size(FieldAgentName) {
		return nil, ErrDefaultsSize
	}
	size := int(l.TotalSize())
	if step := s.dev.MinWriteSize(); size%step != 0 {
		size += step - size%step
	}
	image := make([]byte, size)
	binary.LittleEndian.PutUint16(image[l.Offset(FieldMarker):], ProvisionedMarker)
	image[l.Offset(FieldReserved)] = d.ReservedFlags
	image[l.Offset(FieldReserved)+1] = d.ReservedContacts
	image[l.Offset(FieldSettings)] = d.ScreenSaverType
	image[l.Offset(FieldSettings)+1] = d.ScreenSaverTime
	binary.LittleEndian.PutUint32(image[l.Offset(FieldRadioID):], d.RadioID)
	copy(image[l.Offset(FieldPublicKey):], d.PublicKey)
	copy(image[l.Offset(FieldPrivateKey):], d.PrivateKey)
	copy(image[l.Offset(FieldAgentName):], d.AgentName)
	return image, nil
}

// markUnprovisioned clears the provisioning marker after an aborted
// sequence. Called with the device still unlocked.
func (s *Store) markUnprovisioned(step int) {
	size := markerSize
	if size%step != 0 {
		size += step - size%step
	}
	if err := s.dev.Program(s.base+s.layout.Offset(FieldMarker), make([]byte, size)); err != nil {
		glog.Errorf("clearing provisioning marker: %v", err)
	}
}

func (s *Store) withUnlocked(fn func() error) error {
	if err := s.dev.Unlock(); err != nil {
		return err
	}
	defer s.dev.Lock()
	return fn()
}
