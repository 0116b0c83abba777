// Package flashstore owns the byte layout of the persistent config
// region and its one-time provisioning.
package flashstore

// Field identifies one ConfigRegion field.
type Field int

// ConfigRegion fields, in layout order.
const (
	FieldMarker Field = iota
	FieldReserved
	FieldSettings
	FieldRadioID
	FieldPublicKey
	FieldPrivateKey
	FieldAgentName
	numFields
)

var fieldNames = [numFields]string{
	"marker", "reserved", "settings", "radio-id",
	"public-key", "private-key", "agent-name",
}

// String returns the field name.
func (f Field) String() string {
	if f < 0 || f >= numFields {
		return "invalid"
	}
	return fieldNames[f]
}

// Fixed field sizes in bytes.
const (
	markerSize   = 2
	reservedSize = 2
	settingsSize = 2
	radioIDSize  = 4
)

// ProvisionedMarker is the marker value identifying a provisioned
// region. Its absence means the region holds no valid identity.
const ProvisionedMarker uint16 = 0xdcdc

// Layout is the byte layout of the ConfigRegion. Offsets are strictly
// increasing and computed from the declared key/name lengths, so they
// stay stable across firmware revisions as long as the lengths do.
// Offsets are relative to the region base address.
type Layout struct {
	offsets [numFields]uint32
	sizes   [numFields]uint32
}

// NewLayout computes the layout for the declared public key, private
// key and agent name lengths. All lengths must be positive.
func NewLayout(publicKeyLen, privateKeyLen, agentNameLen int) (*Layout, error) {
	if publicKeyLen <= 0 || privateKeyLen <= 0 || agentNameLen <= 0 {
		return nil, ErrBadLength
	}
	sizes := [numFields]uint32{
		FieldMarker:     markerSize,
		FieldReserved:   reservedSize,
		FieldSettings:   settingsSize,
		FieldRadioID:    radioIDSize,
		FieldPublicKey:  uint32(publicKeyLen),
		FieldPrivateKey: uint32(privateKeyLen),
		FieldAgentName:  uint32(agentNameLen),
	}
	l := &Layout{sizes: sizes}
	var off uint32
	for f := FieldMarker; f < numFields; f++ {
		l.offsets[f] = off
		off += sizes[f]
	}
	return l, nil
}

// Offset returns the field offset relative to the region base.
func (l *Layout) Offset(f Field) uint32 {
	return l.offsets[f]
}

// Size returns the field size in bytes.
func (l *Layout) Size(f Field) uint32 {
	return l.sizes[f]
}

// TotalSize returns the region size in bytes.
func (l *Layout) TotalSize() uint32 {
	return l.offsets[numFields-1] + l.sizes[numFields-1]
}
