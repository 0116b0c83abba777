// Package link defines the on-air payload framing for badge radios.
package link

import (
	"errors"
	"time"
)

// Seq defines the type of frame sequence number.
type Seq byte

// NewSeq creates a random frame sequence number.
func NewSeq() Seq {
	return Seq(byte(time.Now().UnixNano())).Next()
}

// Next calculates the next sequence number.
func (s Seq) Next() Seq {
	n := byte(s) + 1
	if n == 0 {
		n = 1
	}
	return Seq(n)
}

// IsValid checks if it's a valid sequence number.
func (s Seq) IsValid() bool {
	return byte(s) != 0
}

// Frame codes.
const (
	// CodeBeacon announces a badge to everyone in range.
	CodeBeacon byte = 0x01
	// CodeText carries a short text payload.
	CodeText byte = 0x02
)

// MaxData is the largest payload a single frame carries, bounded by
// the transceiver packet size.
const MaxData = 61

// ErrBadFrame indicates a payload that does not decode as a frame.
var ErrBadFrame = errors.New("malformed frame")

// ErrDataTooLong indicates data exceeding MaxData.
var ErrDataTooLong = errors.New("frame data too long")

// Frame is one on-air radio payload.
type Frame struct {
	Seq  Seq
	Code byte
	Data []byte
}

// Bytes returns encoded bytes for sending.
func (f *Frame) Bytes() ([]byte, error) {
	if len(f.Data) > MaxData {
		return nil, ErrDataTooLong
	}
	b := make([]byte, len(f.Data)+3)
	b[0], b[1], b[2] = byte(f.Seq), f.Code, byte(len(f.Data))
	copy(b[3:], f.Data)
	return b, nil
}

// Decode parses an on-air payload.
func Decode(b []byte) (*Frame, error) {
	if len(b) < 3 || int(b[2]) != len(b)-3 || b[2] > MaxData {
		return nil, ErrBadFrame
	}
	if !Seq(b[0]).IsValid() {
		return nil, ErrBadFrame
	}
	f := &Frame{Seq: Seq(b[0]), Code: b[1]}
	if b[2] > 0 {
		f.Data = append([]byte(nil), b[3:]...)
	}
	return f, nil
}
