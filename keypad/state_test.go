package keypad

import "testing"

func TestBeeperIntermittentEncoding(t *testing.T) {
	b := NewIntermittentBeeper(0x02, 0xF0)

	got := b.payload()
	want := []byte{0x03, 0x02, 0xF0}

	if len(got) != len(want) {
		t.Fatalf("payload() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("payload() = %v, want %v", got, want)
		}
	}
}

func TestBeeperOffOnEncoding(t *testing.T) {
	if got := BeeperOff.payload(); got[0] != 0x00 {
		t.Fatalf("BeeperOff.payload()[0] = %#02x, want 0x00", got[0])
	}
	if got := BeeperOn.payload(); got[0] != 0x01 {
		t.Fatalf("BeeperOn.payload()[0] = %#02x, want 0x01", got[0])
	}
}

func TestKeyClicksEncoding(t *testing.T) {
	cases := map[KeyClicks]byte{
		KeyClicksOff:    0x03,
		KeyClicksQuiet:  0x05,
		KeyClicksNormal: 0x01,
	}
	for k, want := range cases {
		if got := k.byte(); got != want {
			t.Fatalf("%v.byte() = %#02x, want %#02x", k, got, want)
		}
	}
}

func TestToggleFlagAlternatesFromFalse(t *testing.T) {
	f := newToggleFlag(0xFF)

	seq := []byte{f.emit(), f.emit(), f.emit()}
	want := []byte{0x00, 0xFF, 0x00}

	for i := range want {
		if seq[i] != want[i] {
			t.Fatalf("emit() sequence = %v, want %v", seq, want)
		}
	}
}
