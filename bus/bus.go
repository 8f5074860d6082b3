package bus

import (
	"errors"
	"fmt"
	"time"

	"github.com/tigersecurity/galaxy-supervisor/protocol"
)

const (
	// interPacketGap is the minimum time the bus and a slave need to turn
	// around between a request and its reply.
	interPacketGap = 10 * time.Millisecond

	// busTimeout is how long SendReceive waits for a reply before giving up.
	busTimeout = 100 * time.Millisecond
)

// Sentinel errors returned by SendReceive. Timeout, NoData and
// InsufficientData are distinguished so the manager can remap them per its
// own retry/backoff rules; CRCCheckFailed and InvalidReplyRecipientError
// are likewise returned directly rather than wrapped in a generic failure.
var (
	ErrTimeout          = errors.New("bus: timed out waiting for reply")
	ErrNoData           = errors.New("bus: no data available")
	ErrInsufficientData = errors.New("bus: insufficient data in reply")
	ErrCRCCheckFailed   = errors.New("bus: CRC check failed")
)

// InvalidReplyRecipientError is returned when a reply is addressed to
// something other than the panel. This is likely indicative of a tamper or
// wiring fault, but the bus classifies it uniformly as a bus error.
type InvalidReplyRecipientError struct {
	Address byte
}

func (e *InvalidReplyRecipientError) Error() string {
	return fmt.Sprintf("bus: reply not addressed to panel, got %#02x", e.Address)
}

// Bus owns the serial port and implements one request/reply transaction of
// the Galaxy protocol: append the CRC, write the frame, wait out the
// inter-packet gap, then read a reply within the bus timeout.
type Bus struct {
	port Port
}

// New wraps an already-open Port in a Bus.
func New(port Port) *Bus {
	return &Bus{port: port}
}

// SendReceive transmits request (sans CRC, which SendReceive appends) and
// reads one reply frame into replyBuf, returning the number of valid bytes
// read with the CRC stripped. request must be at least 2 bytes (address and
// command).
func (b *Bus) SendReceive(request []byte, replyBuf []byte) (int, error) {
	if len(request) < 2 {
		panic("bus: insufficient data provided to send to Galaxy bus")
	}

	crc := protocol.CRC(request)
	frame := make([]byte, 0, len(request)+1)
	frame = append(frame, request...)
	frame = append(frame, crc)

	if _, err := b.port.Write(frame); err != nil {
		return 0, fmt.Errorf("bus: write: %w", err)
	}

	time.Sleep(interPacketGap + time.Duration(1+10*(1+len(frame)))*time.Millisecond)

	n, err := b.readWithDeadline(replyBuf)
	if err != nil {
		return 0, err
	}

	if n == 0 {
		return 0, ErrNoData
	}
	if n < protocol.MessageMinLength {
		return 0, ErrInsufficientData
	}

	if replyBuf[0] != protocol.PanelAddress {
		return 0, &InvalidReplyRecipientError{Address: replyBuf[0]}
	}

	gotCRC := replyBuf[n-1]
	if want := protocol.CRC(replyBuf[0 : n-1]); gotCRC != want {
		return 0, ErrCRCCheckFailed
	}

	return n - 1, nil
}

// readWithDeadline reads from the port, giving up after busTimeout. The
// Port interface exposes only blocking reads (the same contract gopper's
// host/serial.Port draws), so the deadline is enforced here by racing the
// blocking read against a timer rather than relying on port-level
// configuration.
func (b *Bus) readWithDeadline(buf []byte) (int, error) {
	type result struct {
		n   int
		err error
	}

	done := make(chan result, 1)
	go func() {
		n, err := b.port.Read(buf)
		done <- result{n: n, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return 0, fmt.Errorf("bus: read: %w", r.err)
		}
		return r.n, nil
	case <-time.After(busTimeout):
		return 0, ErrTimeout
	}
}
