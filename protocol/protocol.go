// Package protocol implements the wire format of the Galaxy multi-drop serial
// bus: the panel ("master") exchanges framed messages with peripheral devices
// ("slaves") such as LCD keypads.
package protocol

// Protocol constants for the Galaxy bus.
const (
	// PanelAddress is the bus address of the panel (master). All reply frames
	// must be addressed to the panel; anything else is rejected by the bus.
	PanelAddress = 0x11

	// KeypadAddress is the canonical bus address of an LCD keypad device.
	KeypadAddress = 0x10

	// MessageMinLength is the minimum valid wire length of a frame: address,
	// command and CRC, with no additional data.
	MessageMinLength = 3
)

// Message is the parsed, CRC-stripped form of a Galaxy bus frame.
type Message struct {
	RecipientAddress byte
	Command          byte
	AdditionalData   []byte
}
