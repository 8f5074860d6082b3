package keypad

// Command opcodes, master to keypad.
const (
	cmdInitialise byte = 0x00
	cmdPing       byte = 0x06
	cmdScreen     byte = 0x07
	cmdButtonAck  byte = 0x0B
	cmdBeeper     byte = 0x0C
	cmdBacklight  byte = 0x0D
	cmdKeyClicks  byte = 0x19
)

// Reply command opcodes, keypad to master.
const (
	replyInitialised byte = 0xFF
	replyAck         byte = 0xFE
	replyAckWithKey  byte = 0xF4
	replyBadChecksum byte = 0xF2
)

// Screen update sub-opcodes. Only the subset the diff optimiser and full
// update path emit are named; the device accepts a much larger character
// and control-code set than this, observed but not modelled here.
const (
	cursorFirstLine      byte = 0x01
	cursorSecondLine     byte = 0x02
	cursorSeekByte       byte = 0x03
	cursorBlockStyle     byte = 0x06
	cursorHidden         byte = 0x07
	cursorUnderlineStyle byte = 0x10
	displayReset         byte = 0x17
)

// keys is the keypad's physical key layout, indexed by the low nibble of an
// AckWithKey payload byte.
const keys = "0123456789BAEX*#"

func keyToChar(idx byte) rune {
	i := int(idx & 0x0F)
	return rune(keys[i])
}

// initialisedMagic is the additional-data payload a keypad's Initialised
// reply carries once it has booted; any other payload is logged and
// ignored rather than treated as a completed handshake.
var initialisedMagic = [3]byte{0x08, 0x00, 0x64}
