package keypad

// toggleFlag is a freshness bit: each time it is actually emitted on the
// wire it flips between 0x00 and its configured high value, so the device
// can tell a fresh event from a retransmission of the same one. It must
// only be advanced at the point a command is committed to the wire, never
// on a candidate that ends up not being sent.
type toggleFlag struct {
	high  byte
	state bool
}

func newToggleFlag(high byte) toggleFlag {
	return toggleFlag{high: high}
}

func (f *toggleFlag) emit() byte {
	f.state = !f.state
	if f.state {
		return 0x00
	}
	return f.high
}

// pendingUpdates tracks outstanding forced sends and the two freshness
// bits. It is guarded by Keypad.flagsMu, the same lock that guards tamper,
// and is never held across a suspension point.
type pendingUpdates struct {
	sendKeyAck    bool
	sendBacklight bool
	sendBeeper    bool
	sendKeyClicks bool
	sendScreen    bool

	screenFlag toggleFlag
	keyFlag    toggleFlag
}

func newPendingUpdates() pendingUpdates {
	return pendingUpdates{
		screenFlag: newToggleFlag(0x80),
		keyFlag:    newToggleFlag(0x02),
	}
}

func (u *pendingUpdates) forceAll() {
	u.sendBacklight = true
	u.sendBeeper = true
	u.sendKeyClicks = true
	u.sendScreen = true
}
