package snap

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by every NotFoundError.
var ErrNotFound = errors.New("action not found")

// InvalidJobError reports a job descriptor that does not have the expected
// layout.
type InvalidJobError struct {
	Len      int
	Expected int
	Reason   string
}

func (e *InvalidJobError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid job: %s", e.Reason)
	}

	return fmt.Sprintf("invalid job: length %d, expected %d",
		e.Len, e.Expected)
}

// OutOfBoundsError reports a buffer that does not fit into the addressable
// memory.
type OutOfBoundsError struct {
	Address  uint64
	Len      uint64
	Capacity uint64
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf(
		"buffer [0x%x, 0x%x) out of bounds, capacity 0x%x",
		e.Address, e.Address+e.Len, e.Capacity)
}

// NotFoundError reports a registry lookup miss.
type NotFoundError struct {
	VendorID   uint16
	DeviceID   uint16
	ActionType uint32
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf(
		"action not found: vendor 0x%04x, device 0x%04x, type 0x%08x",
		e.VendorID, e.DeviceID, e.ActionType)
}

// Is makes errors.Is(err, ErrNotFound) hold for every NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
