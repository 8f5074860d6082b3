package protocol

import (
	"bytes"
	"errors"
	"testing"
)

func TestSerialiseRoundTrip(t *testing.T) {
	cases := []Message{
		{RecipientAddress: 0x01, Command: 0x02},
		{RecipientAddress: 0x01, Command: 0x02, AdditionalData: []byte{0x03, 0x04}},
		{RecipientAddress: 0x10, Command: 0x00, AdditionalData: []byte{0x0E}},
	}

	for _, m := range cases {
		wire := m.Serialise()

		got, err := Deserialise(wire)
		if err != nil {
			t.Fatalf("Deserialise(%#02x) error: %v", wire, err)
		}

		if got.RecipientAddress != m.RecipientAddress || got.Command != m.Command {
			t.Fatalf("round trip mismatch: got %+v want %+v", got, m)
		}

		if len(m.AdditionalData) == 0 {
			if got.AdditionalData != nil {
				t.Fatalf("expected nil AdditionalData for no-payload message, got %#v", got.AdditionalData)
			}
		} else if !bytes.Equal(got.AdditionalData, m.AdditionalData) {
			t.Fatalf("AdditionalData mismatch: got %#02x want %#02x", got.AdditionalData, m.AdditionalData)
		}
	}
}

func TestSerialiseKnownVectors(t *testing.T) {
	m := Message{RecipientAddress: 0x01, Command: 0x02}
	if got, want := m.Serialise(), []byte{0x01, 0x02, 0xAD}; !bytes.Equal(got, want) {
		t.Errorf("Serialise() = %#02x, want %#02x", got, want)
	}

	m = Message{RecipientAddress: 0x01, Command: 0x02, AdditionalData: []byte{0x03, 0x04}}
	if got, want := m.Serialise(), []byte{0x01, 0x02, 0x03, 0x04, 0xB4}; !bytes.Equal(got, want) {
		t.Errorf("Serialise() = %#02x, want %#02x", got, want)
	}
}

func TestDeserialiseCRCFailure(t *testing.T) {
	_, err := Deserialise([]byte{0x10, 0x20, 0x30, 0x40, 0xAB})
	if !errors.Is(err, ErrCRCFailed) {
		t.Errorf("Deserialise() error = %v, want ErrCRCFailed", err)
	}
}

func TestDeserialiseMissingCRC(t *testing.T) {
	_, err := Deserialise([]byte{0x10, 0x20})
	if !errors.Is(err, ErrMissingCRC) {
		t.Errorf("Deserialise() error = %v, want ErrMissingCRC", err)
	}
}

func TestDeserialiseUncheckedNoAdditionalData(t *testing.T) {
	msg, err := DeserialiseUnchecked([]byte{0x01, 0x02})
	if err != nil {
		t.Fatalf("DeserialiseUnchecked() error: %v", err)
	}
	if msg.AdditionalData != nil {
		t.Errorf("AdditionalData = %#v, want nil", msg.AdditionalData)
	}
}

func TestDeserialiseUncheckedMissingCommand(t *testing.T) {
	_, err := DeserialiseUnchecked([]byte{0x01})
	if !errors.Is(err, ErrMissingCommand) {
		t.Errorf("DeserialiseUnchecked() error = %v, want ErrMissingCommand", err)
	}
}
