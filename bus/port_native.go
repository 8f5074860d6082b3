package bus

import (
	"fmt"

	goserial "github.com/tarm/serial"
)

// nativePort wraps github.com/tarm/serial, the library both gopper's
// host/serial/serial_native.go and CK6170/Calrunrilla-web's serial/leo485.go
// use to talk to a real tty.
type nativePort struct {
	port *goserial.Port
}

// OpenPort opens the real serial device described by cfg. The port is
// opened in exclusive mode by the underlying termios configuration used by
// tarm/serial, so no other process can grab the line underneath it.
func OpenPort(cfg Config) (Port, error) {
	sc := &goserial.Config{
		Name:     cfg.Device,
		Baud:     cfg.Baud,
		Parity:   goserial.ParityNone,
		Size:     8,
		StopBits: goserial.Stop1,
	}

	p, err := goserial.OpenPort(sc)
	if err != nil {
		return nil, fmt.Errorf("bus: opening serial port %s: %w", cfg.Device, err)
	}

	return &nativePort{port: p}, nil
}

func (n *nativePort) Read(b []byte) (int, error) {
	return n.port.Read(b)
}

func (n *nativePort) Write(b []byte) (int, error) {
	return n.port.Write(b)
}

func (n *nativePort) Close() error {
	return n.port.Close()
}
