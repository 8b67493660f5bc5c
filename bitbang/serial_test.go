package bitbang

import "testing"

func TestExpandLength(t *testing.T) {
	for _, k := range []int{0, 1, 4, 20} {
		in := make([]byte, k)
		out := Expand(in, 2, 0)
		if len(out) != 16*k {
			t.Fatalf("expected %d levels for %d bytes, got %d", 16*k, k, len(out))
		}
	}
}

func TestExpandClockAlternates(t *testing.T) {
	out := Expand([]byte{0xA5, 0x00, 0xFF}, 3, 1)
	clk := byte(1 << 3)
	for i := 0; i < len(out); i += 2 {
		if out[i]&clk != 0 {
			t.Fatalf("level %d: clock should be low", i)
		}
		if out[i+1]&clk == 0 {
			t.Fatalf("level %d: clock should be high", i+1)
		}
		// The data line must be stable across the pair.
		if out[i]&^clk != out[i+1]&^clk {
			t.Fatalf("level %d: data changed under the rising edge", i)
		}
	}
}

func TestExpandMSBFirst(t *testing.T) {
	out := Expand([]byte{0x80}, 0, 1)
	if out[0] != 0b10 || out[1] != 0b11 {
		t.Fatalf("first bit should drive data high: got %#b %#b", out[0], out[1])
	}
	for i := 2; i < len(out); i += 2 {
		if out[i] != 0 || out[i+1] != 1 {
			t.Fatalf("bit %d should drive data low: got %#b %#b", i/2, out[i], out[i+1])
		}
	}
}

func TestExpandDataPattern(t *testing.T) {
	// 0xA5 = 10100101
	want := []byte{1, 0, 1, 0, 0, 1, 0, 1}
	out := Expand([]byte{0xA5}, 7, 0)
	for i, bit := range want {
		if got := out[2*i] & 1; got != bit {
			t.Fatalf("bit %d: expected data %d, got %d", i, bit, got)
		}
	}
}
