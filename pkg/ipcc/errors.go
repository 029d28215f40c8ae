package ipcc

import (
	"errors"
	"fmt"
)

var (
	// ErrChannelBusy indicates a non-blocking send was rejected
	// because the direction is still occupied. The on-free
	// notification is armed before returning, so the caller can
	// retry once notified.
	ErrChannelBusy = errors.New("channel busy")
	// ErrPayloadTooLarge indicates the payload exceeds the
	// region size of the backend.
	ErrPayloadTooLarge = errors.New("payload too large")
)

// InvalidStateError indicates an operation was attempted against the
// wrong occupancy phase, e.g. finishing a receive on a free
// direction. The operation performs no mutation.
type InvalidStateError struct {
	Op        string
	Dir       Direction
	Occupancy Occupancy
}

// Error implements error.
func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: direction %s/ch%d is %s",
		e.Op, e.Dir.Core, e.Dir.Channel, e.Occupancy)
}

// IsInvalidState reports whether err is an InvalidStateError.
func IsInvalidState(err error) bool {
	_, ok := err.(*InvalidStateError)
	return ok
}
