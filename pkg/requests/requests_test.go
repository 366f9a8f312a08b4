package requests

import "testing"

func TestValue(t *testing.T) {
	if got := Value(0x01); got != 0x0100 {
		t.Errorf("Value(0x01) = %#04x, want 0x0100", got)
	}
	if got := Value(0xff); got != 0xff00 {
		t.Errorf("Value(0xff) = %#04x, want 0xff00", got)
	}
}

func TestIndex(t *testing.T) {
	if got := Index(9, 0); got != 0x0900 {
		t.Errorf("Index(9, 0) = %#04x, want 0x0900", got)
	}
	if got := Index(5, 2); got != 0x0502 {
		t.Errorf("Index(5, 2) = %#04x, want 0x0502", got)
	}
}
