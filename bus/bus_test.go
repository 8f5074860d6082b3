package bus

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/tigersecurity/galaxy-supervisor/protocol"
)

func reply(data ...byte) []byte {
	crc := protocol.CRC(data)
	return append(append([]byte{}, data...), crc)
}

func TestSendReceiveSuccess(t *testing.T) {
	port := NewFakePort(reply(protocol.PanelAddress, 0xFE))
	b := New(port)

	buf := make([]byte, 8)
	n, err := b.SendReceive([]byte{0x10, 0x06}, buf)
	if err != nil {
		t.Fatalf("SendReceive() error = %v", err)
	}

	if n != 2 {
		t.Fatalf("SendReceive() n = %d, want 2", n)
	}
	if !bytes.Equal(buf[:n], []byte{protocol.PanelAddress, 0xFE}) {
		t.Fatalf("SendReceive() buf = %#02x", buf[:n])
	}

	if len(port.Writes) != 1 {
		t.Fatalf("expected 1 write, got %d", len(port.Writes))
	}
	wantCRC := protocol.CRC([]byte{0x10, 0x06})
	if got := port.Writes[0]; !bytes.Equal(got, []byte{0x10, 0x06, wantCRC}) {
		t.Fatalf("written frame = %#02x, want address/command/crc", got)
	}
}

func TestSendReceiveTimeout(t *testing.T) {
	port := NewFakePort()
	port.ReadDelay = 200 * time.Millisecond
	b := New(port)

	_, err := b.SendReceive([]byte{0x10, 0x06}, make([]byte, 8))
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("SendReceive() error = %v, want ErrTimeout", err)
	}
}

func TestSendReceiveNoData(t *testing.T) {
	port := NewFakePort([]byte{})
	b := New(port)

	_, err := b.SendReceive([]byte{0x10, 0x06}, make([]byte, 8))
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("SendReceive() error = %v, want ErrNoData", err)
	}
}

func TestSendReceiveInsufficientData(t *testing.T) {
	port := NewFakePort([]byte{protocol.PanelAddress, 0xFE})
	b := New(port)

	_, err := b.SendReceive([]byte{0x10, 0x06}, make([]byte, 8))
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("SendReceive() error = %v, want ErrInsufficientData", err)
	}
}

func TestSendReceiveInvalidRecipient(t *testing.T) {
	port := NewFakePort(reply(0x12, 0xFE))
	b := New(port)

	_, err := b.SendReceive([]byte{0x10, 0x06}, make([]byte, 8))

	var recipientErr *InvalidReplyRecipientError
	if !errors.As(err, &recipientErr) {
		t.Fatalf("SendReceive() error = %v, want *InvalidReplyRecipientError", err)
	}
	if recipientErr.Address != 0x12 {
		t.Errorf("Address = %#02x, want 0x12", recipientErr.Address)
	}
}

func TestSendReceiveCRCCheckFailed(t *testing.T) {
	port := NewFakePort([]byte{protocol.PanelAddress, 0xFE, 0x00})
	b := New(port)

	_, err := b.SendReceive([]byte{0x10, 0x06}, make([]byte, 8))
	if !errors.Is(err, ErrCRCCheckFailed) {
		t.Fatalf("SendReceive() error = %v, want ErrCRCCheckFailed", err)
	}
}

func TestSendReceivePanicsOnShortRequest(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for request shorter than 2 bytes")
		}
	}()

	b := New(NewFakePort())
	_, _ = b.SendReceive([]byte{0x10}, make([]byte, 8))
}
