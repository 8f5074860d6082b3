package keypad

import (
	"testing"

	"github.com/tigersecurity/galaxy-supervisor/protocol"
)

// TestUIPolicyContract exercises the keypad only through the surface an
// external UI-policy task is meant to use (MutateState/SubscribeEvents/
// IsTamper), the way a UI-policy layer outside this package would. It calls
// NextMessage/ReceiveUpdate only to play the Manager's part: bringing the
// device online, polling it, and delivering a key report.
func TestUIPolicyContract(t *testing.T) {
	k := New()
	mustInitialise(t, k)
	drainForcedUpdates(k)

	k.MutateState(func(s *State) {
		s.Screen.Lines = [2]string{"TIGER SECURITY  ", "MON  1 JAN 00:00"}
		s.Backlight = BacklightOn
	})

	// Two independent subscribers registered before the event fires must
	// both see it; SubscribeEvents fans out rather than splitting events
	// between callers.
	eventsA := k.SubscribeEvents()
	eventsB := k.SubscribeEvents()

	cmd, data := k.NextMessage()
	if cmd != cmdBacklight || len(data) != 1 || data[0] != 0x01 {
		t.Fatalf("NextMessage() after MutateState = (%#02x, %v), want Backlight On", cmd, data)
	}

	cmd, _ = k.NextMessage()
	if cmd != cmdScreen {
		t.Fatalf("NextMessage() = %#02x, want Screen after the mutated line content", cmd)
	}

	k.ReceiveUpdate(protocol.Message{Command: replyAckWithKey, AdditionalData: []byte{0x09}}, nil)

	for name, events := range map[string]<-chan Event{"A": eventsA, "B": eventsB} {
		select {
		case ev := <-events:
			if ev.Key != '9' {
				t.Fatalf("subscriber %s published event key = %q, want '9'", name, ev.Key)
			}
		default:
			t.Fatalf("subscriber %s: expected a KeyPress event surfaced through SubscribeEvents", name)
		}
	}

	if k.IsTamper() {
		t.Fatal("IsTamper() = true, want false for a plain key report")
	}
}
