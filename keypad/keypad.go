package keypad

import (
	"sync"

	"github.com/tigersecurity/galaxy-supervisor/internal/galaxylog"
	"github.com/tigersecurity/galaxy-supervisor/protocol"
)

// Event is published to subscribers on every fresh key press the keypad
// reports. Tamper conditions are not events; they are polled via IsTamper.
type Event struct {
	Key rune
}

// eventBufferSize is each subscriber's own outbound queue depth. A
// subscriber that falls behind misses the events that don't fit, rather
// than stalling the keypad or other subscribers, which is acceptable for
// ephemeral key presses.
const eventBufferSize = 10

// Keypad is a CP-037/CP-038 LCD keypad Device. The zero value is not
// usable; construct with New.
type Keypad struct {
	desiredMu sync.RWMutex
	desired   State

	// lastSent is nil while the device is considered offline/uninitialised:
	// only an Initialise command is emitted in that state.
	lastSentMu sync.RWMutex
	lastSent   *State
	// screenFresh is false for the one screen command following an
	// Initialised handshake: that emission always uses the full-redraw
	// strategy, since the device's actual on-screen content at that point
	// is whatever was left over from before it dropped offline, not
	// whatever lastSent.Screen happens to hold.
	screenFresh bool

	flagsMu sync.Mutex
	tamper  bool
	updates pendingUpdates

	// subsMu guards subs, the set of channels currently handed out by
	// SubscribeEvents. Every KeyPress is published to each of them.
	subsMu sync.Mutex
	subs   []chan Event
}

// New constructs a Keypad with the default desired state, offline until its
// first successful Initialised reply.
func New() *Keypad {
	return &Keypad{
		desired: DefaultState(),
		updates: newPendingUpdates(),
	}
}

// MutateState applies f to the desired state under an exclusive lock. f
// must not block or call back into the Keypad.
func (k *Keypad) MutateState(f func(*State)) {
	k.desiredMu.Lock()
	defer k.desiredMu.Unlock()
	f(&k.desired)
}

// IsTamper reports the most recently observed tamper condition.
func (k *Keypad) IsTamper() bool {
	k.flagsMu.Lock()
	defer k.flagsMu.Unlock()
	return k.tamper
}

// SubscribeEvents registers a new subscriber and returns the channel every
// KeyPress is published to from now on. Each call returns an independent
// channel, so two subscribers both see every event rather than splitting
// them.
func (k *Keypad) SubscribeEvents() <-chan Event {
	ch := make(chan Event, eventBufferSize)

	k.subsMu.Lock()
	k.subs = append(k.subs, ch)
	k.subsMu.Unlock()

	return ch
}

// publishEvent fans ev out to every current subscriber, dropping it for any
// subscriber whose queue is currently full rather than blocking on them.
func (k *Keypad) publishEvent(ev Event) {
	k.subsMu.Lock()
	subs := make([]chan Event, len(k.subs))
	copy(subs, k.subs)
	k.subsMu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- ev:
		default:
			galaxylog.Warnf("keypad: event subscriber lagging, dropping KeyPress(%c)", ev.Key)
		}
	}
}

// NextMessage selects the keypad's next outbound command: Initialise while
// offline, otherwise whichever equipment update or ack is due next.
func (k *Keypad) NextMessage() (byte, []byte) {
	k.lastSentMu.RLock()
	offline := k.lastSent == nil
	k.lastSentMu.RUnlock()

	if offline {
		return cmdInitialise, []byte{0x0E}
	}

	return k.nextOnlineCommand()
}

func (k *Keypad) nextOnlineCommand() (byte, []byte) {
	k.desiredMu.RLock()
	desired := k.desired
	k.desiredMu.RUnlock()

	k.lastSentMu.Lock()
	defer k.lastSentMu.Unlock()
	last := k.lastSent

	k.flagsMu.Lock()
	defer k.flagsMu.Unlock()

	switch {
	case k.updates.sendBacklight || desired.Backlight != last.Backlight:
		k.updates.sendBacklight = false
		last.Backlight = desired.Backlight
		return cmdBacklight, []byte{desired.Backlight.byte()}

	case k.updates.sendBeeper || desired.Beeper != last.Beeper:
		k.updates.sendBeeper = false
		last.Beeper = desired.Beeper
		return cmdBeeper, desired.Beeper.payload()

	case k.updates.sendKeyClicks || desired.KeyClicks != last.KeyClicks:
		k.updates.sendKeyClicks = false
		last.KeyClicks = desired.KeyClicks
		return cmdKeyClicks, []byte{desired.KeyClicks.byte()}

	case k.updates.sendScreen || desired.Blink != last.Blink || !displayStateEqual(desired.Screen, last.Screen):
		k.updates.sendScreen = false
		from := last.Screen
		last.Blink = desired.Blink
		last.Screen = desired.Screen
		return cmdScreen, k.buildScreenPayload(from, desired)

	case k.updates.sendKeyAck:
		k.updates.sendKeyAck = false
		return cmdButtonAck, []byte{k.updates.keyFlag.emit()}

	default:
		return cmdPing, nil
	}
}

// buildScreenPayload assembles the display-flags prefix, the diff body
// (from the screen last confirmed sent to the desired one), and the
// optional cursor postlude. Called with lastSentMu and flagsMu already
// held by the caller.
func (k *Keypad) buildScreenPayload(from DisplayState, desired State) []byte {
	// The screen freshness bit is only ever advanced here, at the point a
	// screen command is actually committed; the key-ack-piggyback flag and
	// key freshness bit are advanced here or by a standalone ButtonAck.
	displayFlags := byte(0x01) | k.updates.screenFlag.emit()
	if k.updates.sendKeyAck {
		k.updates.sendKeyAck = false
		displayFlags |= 0x10 | k.updates.keyFlag.emit()
	}
	if desired.Blink {
		displayFlags |= 0x08
	}

	var body []byte
	var finalCursor int
	if k.screenFresh {
		body, finalCursor = buildScreenBody(from, desired.Screen)
	} else {
		body, finalCursor = buildFullScreen(desired.Screen)
		k.screenFresh = true
	}

	if desired.Screen.CursorPosition != nil && int(*desired.Screen.CursorPosition) != finalCursor {
		body = append(body, cursorSeekByte, *desired.Screen.CursorPosition)
	}

	return append([]byte{displayFlags}, body...)
}

// ReceiveUpdate applies the outcome of one poll.
func (k *Keypad) ReceiveUpdate(reply protocol.Message, err error) {
	if err != nil {
		k.goOffline()
		return
	}

	switch reply.Command {
	case replyInitialised:
		k.handleInitialised(reply.AdditionalData)
	case replyAck:
		k.flagsMu.Lock()
		k.tamper = false
		k.flagsMu.Unlock()
	case replyAckWithKey:
		k.handleAckWithKey(reply.AdditionalData)
	case replyBadChecksum:
		galaxylog.Errorf("keypad: device reported bad checksum on last command")
		k.goOffline()
	default:
		galaxylog.Warnf("keypad: unknown reply command %#02x", reply.Command)
	}
}

func (k *Keypad) goOffline() {
	k.lastSentMu.Lock()
	k.lastSent = nil
	k.lastSentMu.Unlock()
}

func (k *Keypad) handleInitialised(data []byte) {
	k.lastSentMu.Lock()
	defer k.lastSentMu.Unlock()

	if k.lastSent != nil {
		galaxylog.Warnf("keypad: received Initialised while already online, ignoring")
		return
	}
	if len(data) != 3 {
		galaxylog.Errorf("keypad: Initialised reply carried %d bytes, want 3", len(data))
		return
	}
	if data[0] != initialisedMagic[0] || data[1] != initialisedMagic[1] || data[2] != initialisedMagic[2] {
		galaxylog.Warnf("keypad: Initialised reply carried unrecognised payload %v, ignoring", data)
		return
	}

	k.desiredMu.RLock()
	snapshot := k.desired
	k.desiredMu.RUnlock()

	k.lastSent = &snapshot
	k.screenFresh = false

	k.flagsMu.Lock()
	k.tamper = false
	k.updates.forceAll()
	k.flagsMu.Unlock()

	galaxylog.Infof("keypad: device initialised")
}

func (k *Keypad) handleAckWithKey(data []byte) {
	if len(data) != 1 {
		galaxylog.Errorf("keypad: AckWithKey reply carried %d bytes, want 1", len(data))
		return
	}
	b := data[0]

	k.flagsMu.Lock()
	defer k.flagsMu.Unlock()

	if b == 0x7F {
		k.tamper = true
		return
	}

	k.tamper = b&0x40 == 0x40
	if k.updates.sendKeyAck {
		// A key-ack is already pending; this report is a duplicate.
		return
	}

	k.updates.sendKeyAck = true
	k.publishEvent(Event{Key: keyToChar(b)})
}
