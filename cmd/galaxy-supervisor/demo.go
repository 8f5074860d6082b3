package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tigersecurity/galaxy-supervisor/keypad"
)

// systemOwner is the banner text an idle panel shows, mirroring the one
// fixed UI-policy screen this supervisor ships out of the box. A site
// deploying a real menu/alarm-state UI would replace this task entirely;
// it talks to the keypad only through its public mutate_state/is_tamper
// surface, never the bus.
const systemOwner = "TIGER SECURITY"

// runDemoUIPolicy renders an idle banner with a live clock, flipping the
// banner's last character to 'T' while the keypad reports tamper. It is a
// UI-policy collaborator in the sense the rest of this package expects:
// it never touches the bus, only the keypad's state-mutation surface.
func runDemoUIPolicy(ctx context.Context, pad *keypad.Keypad) {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			renderIdleBanner(pad)
		}
	}
}

func renderIdleBanner(pad *keypad.Keypad) {
	banner := fmt.Sprintf("%-16s", systemOwner)
	if pad.IsTamper() {
		banner = banner[:len(banner)-1] + "T"
	}

	clock := strings.ToUpper(time.Now().Format("Mon _2 Jan 15:04"))

	pad.MutateState(func(s *keypad.State) {
		s.Screen.Lines = [2]string{banner, clock}
	})
}
