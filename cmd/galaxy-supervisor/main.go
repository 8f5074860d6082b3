// Command galaxy-supervisor drives a Galaxy bus panel: it polls the
// registered keypad over a serial port and exposes its state-mutation
// surface to whatever UI policy an operator wires up around it.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tigersecurity/galaxy-supervisor/bus"
	"github.com/tigersecurity/galaxy-supervisor/internal/galaxylog"
	"github.com/tigersecurity/galaxy-supervisor/keypad"
	"github.com/tigersecurity/galaxy-supervisor/manager"
	"github.com/tigersecurity/galaxy-supervisor/protocol"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s <serial-device>\n", os.Args[0])
}

func main() {
	if len(os.Args) != 2 {
		usage()
		os.Exit(1)
	}
	device := os.Args[1]

	port, err := bus.OpenPort(bus.DefaultConfig(device))
	if err != nil {
		fmt.Fprintf(os.Stderr, "galaxy-supervisor: failed to open %s: %v\n", device, err)
		os.Exit(1)
	}
	defer port.Close()

	pad := keypad.New()

	m := manager.New(bus.New(port))
	m.RegisterDevice(protocol.KeypadAddress, pad)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go runDemoUIPolicy(ctx, pad)

	galaxylog.Infof("galaxy-supervisor: polling %s", device)
	if err := m.Run(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "galaxy-supervisor: manager stopped: %v\n", err)
		os.Exit(1)
	}
}
