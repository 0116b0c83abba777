// Package memflash provides an in-memory hw.Flash used by the
// simulator and by tests.
package memflash

import (
	"errors"

	"github.com/golang/glog"
)

// Flash is an in-memory flash device honoring a minimum programmable
// unit. Erase semantics are out of scope: Program overwrites.
type Flash struct {
	mem       []byte
	writeSize int
	unlocked  bool
}

var (
	// ErrLocked indicates programming was attempted while locked.
	ErrLocked = errors.New("flash is locked")
	// ErrUnlocked indicates Unlock was called twice.
	ErrUnlocked = errors.New("flash is already unlocked")
	// ErrAlignment indicates offset or length violates MinWriteSize.
	ErrAlignment = errors.New("unaligned flash program")
	// ErrOutOfRange indicates access beyond the device size.
	ErrOutOfRange = errors.New("flash access out of range")
)

// New creates a device of size bytes with the given minimum
// programmable unit. Memory starts in the erased state.
func New(size, writeSize int) *Flash {
	mem := make([]byte, size)
	for i := range mem {
		mem[i] = 0xff
	}
	return &Flash{mem: mem, writeSize: writeSize}
}

// Unlock implements hw.Flash.
func (f *Flash) Unlock() error {
	if f.unlocked {
		return ErrUnlocked
	}
	f.unlocked = true
	return nil
}

// Lock implements hw.Flash.
func (f *Flash) Lock() {
	f.unlocked = false
}

// MinWriteSize implements hw.Flash.
func (f *Flash) MinWriteSize() int {
	return f.writeSize
}

// Program implements hw.Flash.
func (f *Flash) Program(offset uint32, data []byte) error {
	if !f.unlocked {
		return ErrLocked
	}
	if int(offset)%f.writeSize != 0 || len(data)%f.writeSize != 0 {
		return ErrAlignment
	}
	if int(offset)+len(data) > len(f.mem) {
		return ErrOutOfRange
	}
	copy(f.mem[offset:], data)
	glog.V(3).Infof("PROG %#x +%d", offset, len(data))
	return nil
}

// Read implements hw.Flash.
func (f *Flash) Read(offset uint32, buf []byte) error {
	if int(offset)+len(buf) > len(f.mem) {
		return ErrOutOfRange
	}
	copy(buf, f.mem[offset:])
	return nil
}

// Bytes exposes the raw memory for inspection.
func (f *Flash) Bytes() []byte {
	return f.mem
}
