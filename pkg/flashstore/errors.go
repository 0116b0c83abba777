package flashstore

import (
	"errors"
	"fmt"
)

var (
	// ErrBadLength indicates a non-positive declared field length.
	ErrBadLength = errors.New("field lengths must be positive")
	// ErrNotProvisioned indicates the region holds no valid identity.
	ErrNotProvisioned = errors.New("config region not provisioned")
	// ErrDefaultsSize indicates a default value does not fit its field.
	ErrDefaultsSize = errors.New("default value does not fit field")
)

// ProvisioningError reports an aborted provisioning sequence. The
// region is left marked unprovisioned; a half-written identity is
// never treated as valid.
type ProvisioningError struct {
	// Offset is the region-relative offset of the failed write.
	Offset uint32
	// Err is the device error.
	Err error
}

// Error implements error.
func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("provisioning failed at offset %#x: %v", e.Offset, e.Err)
}
