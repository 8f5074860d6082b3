// Package manager implements the serial manager: the round-robin poll loop
// that drives a set of registered devices over a shared Bus, with per-device
// retries, truncated exponential backoff and health classification.
package manager

import (
	"errors"
	"fmt"

	"github.com/tigersecurity/galaxy-supervisor/protocol"
)

// Device is the capability contract the manager requires of any peripheral
// on the bus. A device picks its own next outbound command and is the final
// authority on how to react to the outcome of sending it; the manager only
// tracks aggregate health.
type Device interface {
	// NextMessage returns the command opcode and optional additional data
	// for the next outbound frame to this device. It may mutate internal
	// bookkeeping but must not block on I/O.
	NextMessage() (command byte, data []byte)

	// ReceiveUpdate delivers the outcome of the most recent poll: either the
	// parsed reply, or the error that prevented one being obtained. Exactly
	// one call happens per poll, and it completes before the manager's next
	// call to NextMessage for this device.
	ReceiveUpdate(reply protocol.Message, err error)
}

// Delivery error taxonomy. Timeout and CRCFailed are sentinels so callers
// can compare with errors.Is; DeserialisationError and BusError wrap the
// lower-level cause.
var (
	ErrTimeout   = errors.New("manager: delivery timed out")
	ErrCRCFailed = errors.New("manager: delivery CRC check failed")
)

// DeserialisationError wraps a protocol-level parse failure on an otherwise
// successfully received frame.
type DeserialisationError struct {
	Cause error
}

func (e *DeserialisationError) Error() string {
	return fmt.Sprintf("manager: deserialisation error: %v", e.Cause)
}

func (e *DeserialisationError) Unwrap() error { return e.Cause }

// BusError wraps a bus-level failure that isn't remapped to Timeout or
// CRCFailed: a genuine read timeout, an invalid reply recipient, or an I/O
// error.
type BusError struct {
	Cause error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("manager: bus error: %v", e.Cause)
}

func (e *BusError) Unwrap() error { return e.Cause }
