// Package bus owns the serial port and implements the Galaxy bus framing:
// one request transmitted, one reply read, with the inter-packet gap and
// response deadline the protocol requires.
package bus

import "io"

// Port is the blocking byte-level transport the Bus drives. It abstracts
// over the real serial device so tests can substitute an in-memory double,
// the same separation gopper's host/serial.Port draws between NativePort and
// its test doubles.
type Port interface {
	io.ReadWriteCloser
}

// Config holds the device path and line speed the Galaxy bus runs over.
// OpenPort fixes the remaining line settings at 8 data bits, 1 stop bit
// and no parity.
type Config struct {
	// Device is the path to the serial device, e.g. "/dev/ttyUSB0".
	Device string

	// Baud is the line speed. Galaxy panels run at 9600 baud.
	Baud int
}

// DefaultConfig returns the standard Galaxy bus line configuration for the
// given device path.
func DefaultConfig(device string) Config {
	return Config{
		Device: device,
		Baud:   9600,
	}
}
