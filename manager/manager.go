package manager

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tigersecurity/galaxy-supervisor/bus"
	"github.com/tigersecurity/galaxy-supervisor/internal/galaxylog"
	"github.com/tigersecurity/galaxy-supervisor/protocol"
)

// badChecksumReplyCommand is the command a device replies with when the last
// message it received was corrupted or not understood.
const badChecksumReplyCommand = 0xF2

const (
	pollAttempts  = 3
	retryDelay    = 10 * time.Millisecond
	cycleInterval = 100 * time.Millisecond
)

// DeviceStatus classifies a registered device's observed health.
type DeviceStatus int

const (
	StatusUnknown DeviceStatus = iota
	StatusOnlineOK
	StatusOnlineCorruptReplies
	StatusOffline
)

func (s DeviceStatus) String() string {
	switch s {
	case StatusUnknown:
		return "Unknown"
	case StatusOnlineOK:
		return "OnlineOK"
	case StatusOnlineCorruptReplies:
		return "OnlineCorruptReplies"
	case StatusOffline:
		return "Offline"
	default:
		return "invalid"
	}
}

type deviceEntry struct {
	device   Device
	status   DeviceStatus
	failures uint16
}

// Manager round-robin polls a registered set of devices over a single Bus,
// applying per-device retries and backoff. It owns the Bus exclusively;
// exactly one Manager should run per bus instance.
type Manager struct {
	bus *bus.Bus

	// order preserves registration order, which Run polls in each cycle.
	order   []byte
	devices map[byte]*deviceEntry

	backoff *backoffTable
}

// New creates a Manager driving devices over b.
func New(b *bus.Bus) *Manager {
	return &Manager{
		bus:     b,
		devices: make(map[byte]*deviceEntry),
		backoff: newBackoffTable(),
	}
}

// RegisterDevice adds device at bus address id. Registering the same id
// twice is a programming error in the device table construction, not a
// recoverable runtime condition, so it panics rather than returning an
// error.
func (m *Manager) RegisterDevice(id byte, device Device) {
	if _, exists := m.devices[id]; exists {
		panic(fmt.Sprintf("manager: attempting to register duplicate serial device %#02x", id))
	}

	m.devices[id] = &deviceEntry{device: device, status: StatusUnknown}
	m.order = append(m.order, id)
}

// Status returns the last-observed status and failure count for id. It is
// intended for diagnostics; ok is false if id was never registered.
func (m *Manager) Status(id byte) (status DeviceStatus, failures uint16, ok bool) {
	entry, exists := m.devices[id]
	if !exists {
		return StatusUnknown, 0, false
	}
	return entry.status, entry.failures, true
}

// Run polls every registered device once per 100ms cycle, in registration
// order, until ctx is cancelled. Cancellation is checked before each device
// poll and during the end-of-cycle sleep; a poll already under way (its bus
// I/O and inter-attempt sleeps) is not interrupted and runs to completion.
func (m *Manager) Run(ctx context.Context) error {
	replyBuf := make([]byte, 8)

	for {
		for _, id := range m.order {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			if _, inBackoff := m.backoff.visit(id); inBackoff {
				continue
			}

			galaxylog.Debugf("polling device %#02x", id)

			err := m.pollDevice(id, replyBuf)
			m.updateHealth(id, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(cycleInterval):
		}
	}
}

// updateHealth applies the outcome of one poll to the device's failure
// counter and status, marking the device into backoff the moment it is
// classified Offline.
func (m *Manager) updateHealth(id byte, err error) {
	entry := m.devices[id]
	oldStatus := entry.status

	var busErr *BusError
	var deserErr *DeserialisationError

	switch {
	case err == nil:
		entry.failures = 0
		entry.status = StatusOnlineOK
	case errors.Is(err, ErrTimeout), errors.As(err, &busErr):
		entry.failures++
		entry.status = StatusOffline
	case errors.Is(err, ErrCRCFailed), errors.As(err, &deserErr):
		entry.failures++
		entry.status = StatusOnlineCorruptReplies
	}

	if entry.failures == 3 || (entry.failures > 0 && entry.failures%10 == 0) {
		galaxylog.Warnf("device %#02x has exhibited %d communications failures", id, entry.failures)
	} else if entry.status != oldStatus {
		galaxylog.Debugf("device %#02x status changed from %s to %s", id, oldStatus, entry.status)
	}

	if entry.status == StatusOffline {
		m.backoff.markOffline(id)
	}
}

// pollDevice asks the device for its next outbound message, sends it over
// the bus in up to pollAttempts attempts, and delivers the final outcome
// back to the device before returning it to the caller.
func (m *Manager) pollDevice(id byte, replyBuf []byte) error {
	entry := m.devices[id]

	command, data := entry.device.NextMessage()
	request := protocol.Message{RecipientAddress: id, Command: command, AdditionalData: data}.SerialiseWithoutCRC()

	var (
		reply protocol.Message
		err   error
	)

	for attempt := 0; attempt < pollAttempts; attempt++ {
		reply, err = m.attempt(request, replyBuf)

		shouldRetry := false
		switch {
		case err != nil:
			galaxylog.Errorf("device %#02x failed message delivery: %v", id, err)
			shouldRetry = true
		case reply.Command == badChecksumReplyCommand:
			galaxylog.Errorf("device %#02x last outbound message failed checksum", id)
			shouldRetry = true
		}

		if !shouldRetry {
			break
		}
		if attempt < pollAttempts-1 {
			time.Sleep(retryDelay)
		}
	}

	entry.device.ReceiveUpdate(reply, err)

	if err != nil {
		galaxylog.Errorf("device %#02x had message delivery error: %v", id, err)
	} else {
		galaxylog.Debugf("device %#02x delivery result: %+v", id, reply)
	}

	return err
}

// attempt performs a single send/receive transaction and classifies any bus
// failure into the delivery error taxonomy.
func (m *Manager) attempt(request []byte, replyBuf []byte) (protocol.Message, error) {
	n, err := m.bus.SendReceive(request, replyBuf)
	if err != nil {
		return protocol.Message{}, classifyBusErr(err)
	}

	msg, err := protocol.DeserialiseUnchecked(replyBuf[:n])
	if err != nil {
		return protocol.Message{}, &DeserialisationError{Cause: err}
	}

	return msg, nil
}

// classifyBusErr remaps a bus-layer error onto the delivery error taxonomy
// the manager and devices share: a reply that never arrived at all becomes
// Timeout, a reply too short to trust (it could not be checked) or one whose
// CRC check failed becomes CRCFailed, and everything else is preserved as a
// BusError.
func classifyBusErr(err error) error {
	switch {
	case errors.Is(err, bus.ErrNoData):
		return ErrTimeout
	case errors.Is(err, bus.ErrCRCCheckFailed), errors.Is(err, bus.ErrInsufficientData):
		return ErrCRCFailed
	default:
		return &BusError{Cause: err}
	}
}
