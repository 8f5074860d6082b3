// Package keypad implements the CP-037/CP-038 LCD keypad as a Galaxy bus
// Device: it tracks a desired display/sounder state set by an external
// UI-policy collaborator, diffs it against the state last confirmed sent,
// and answers the Manager's next_message/receive_update contract.
package keypad

// Backlight controls the LCD backlight illumination.
type Backlight int

const (
	BacklightOff Backlight = iota
	BacklightOn
)

func (b Backlight) byte() byte {
	if b == BacklightOn {
		return 0x01
	}
	return 0x00
}

// KeyClicks controls the chirp the sounder makes on key press.
type KeyClicks int

const (
	KeyClicksOff KeyClicks = iota
	KeyClicksQuiet
	KeyClicksNormal
)

func (k KeyClicks) byte() byte {
	switch k {
	case KeyClicksQuiet:
		return 0x05
	case KeyClicksNormal:
		return 0x01
	default:
		return 0x03
	}
}

// Beeper controls the keypad's internal sounder. Intermittent carries on/off
// durations in deciseconds (1/10s units), matching the wire encoding.
type Beeper struct {
	mode    beeperMode
	onDsec  byte
	offDsec byte
}

type beeperMode int

const (
	beeperOff beeperMode = iota
	beeperOn
	beeperIntermittent
)

var (
	BeeperOff = Beeper{mode: beeperOff}
	BeeperOn  = Beeper{mode: beeperOn}
)

// NewIntermittentBeeper builds an intermittent beeper pattern from on/off
// durations expressed in deciseconds (hundreds of milliseconds), each
// bounded to a single byte.
func NewIntermittentBeeper(onDsec, offDsec byte) Beeper {
	return Beeper{mode: beeperIntermittent, onDsec: onDsec, offDsec: offDsec}
}

func (b Beeper) payload() []byte {
	switch b.mode {
	case beeperOn:
		return []byte{0x01, 0x00, 0x00}
	case beeperIntermittent:
		return []byte{0x03, b.onDsec, b.offDsec}
	default:
		return []byte{0x00, 0x00, 0x00}
	}
}

// CursorStyle selects how the on-device cursor is rendered.
type CursorStyle int

const (
	CursorStyleNone CursorStyle = iota
	CursorStyleBlock
	CursorStyleUnderline
)

func (c CursorStyle) opcode() (byte, bool) {
	switch c {
	case CursorStyleBlock:
		return cursorBlockStyle, true
	case CursorStyleUnderline:
		return cursorUnderlineStyle, true
	default:
		return 0, false
	}
}

// DisplayState is the contents of the two-line, 16-column LCD: the text of
// each line, an optional cursor position (nil means "leave floating"), and
// the cursor's rendering style.
type DisplayState struct {
	Lines          [2]string
	CursorPosition *byte
	CursorStyle    CursorStyle
}

func defaultDisplayState() DisplayState {
	return DisplayState{
		Lines:       [2]string{"    ********    ", "Panel booting up"},
		CursorStyle: CursorStyleNone,
	}
}

func displayStateEqual(a, b DisplayState) bool {
	if a.Lines != b.Lines {
		return false
	}
	if a.CursorStyle != b.CursorStyle {
		return false
	}
	return cursorEqual(a.CursorPosition, b.CursorPosition)
}

func cursorEqual(a, b *byte) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

// State is the full set of keypad-controlled attributes: sounder/backlight
// behaviour, the LED blink flag, and the display contents.
type State struct {
	Backlight Backlight
	Beeper    Beeper
	KeyClicks KeyClicks
	Blink     bool
	Screen    DisplayState
}

// DefaultState is the state a freshly constructed Keypad starts with.
func DefaultState() State {
	return State{
		Backlight: BacklightOff,
		Beeper:    BeeperOff,
		KeyClicks: KeyClicksOff,
		Screen:    defaultDisplayState(),
	}
}
