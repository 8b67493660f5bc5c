package model_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/coreman2200/funtimes-lumenati/gpio"
	. "github.com/coreman2200/funtimes-lumenati/model"
	"github.com/stretchr/testify/assert"
)

func manualOpts(n int) *Opts {
	return &Opts{NumLEDs: n, Brightness: MaxBrightness, Clk: -1, Dat: -1}
}

// wiredString builds an auto-updating string over a recording port using
// clock bit 2 and data bit 0.
func wiredString(n int) (*LEDString, *gpio.Record) {
	rec := &gpio.Record{}
	o := Opts{NumLEDs: n, Brightness: MaxBrightness, Clk: 2, Dat: 0}
	return NewString(rec, &o), rec
}

// levelsPerPush is the level count of one full resend of an n-LED string.
func levelsPerPush(n int) int {
	return 16 * FrameLength * (n + 2)
}

func TestPayloadLength(t *testing.T) {
	for _, n := range []int{0, 1, 3, 8, 26} {
		t.Run("Given "+strconv.Itoa(n)+" LEDs", func(t *testing.T) {
			s := NewString(nil, manualOpts(n))
			assert.Equal(t, FrameLength*(n+2), len(s.Payload()))
		},
		)
	}
}

func TestPayloadWireLayout(t *testing.T) {
	s := NewString(nil, manualOpts(3))
	want := []byte{
		0x00, 0x00, 0x00, 0x00,
		0xFF, 0x00, 0x00, 0x00,
		0xFF, 0x00, 0x00, 0x00,
		0xFF, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	}
	assert.Equal(t, want, s.Payload())
}

func colors(s *LEDString) []RGB {
	cs := make([]RGB, 0, s.Len())
	for _, ld := range s.LEDs() {
		cs = append(cs, ld.RGB())
	}
	return cs
}

func TestShiftRight(t *testing.T) {
	s := NewString(nil, manualOpts(3))
	s.LED(0).SetRGB(RGB{R: 1, G: 2, B: 3})
	s.LED(1).SetRGB(RGB{R: 4, G: 5, B: 6})
	s.LED(2).SetRGB(RGB{R: 7, G: 8, B: 9})

	if err := s.ShiftRight(RGB{R: 0xAA, G: 0x10, B: 0x05}); err != nil {
		t.Fatal(err)
	}
	want := []RGB{
		{R: 0xAA, G: 0x10, B: 0x05},
		{R: 1, G: 2, B: 3},
		{R: 4, G: 5, B: 6},
	}
	assert.Equal(t, want, colors(s), "tail value is discarded")
}

func TestShiftLeft(t *testing.T) {
	s := NewString(nil, manualOpts(3))
	s.LED(0).SetRGB(RGB{R: 1, G: 2, B: 3})
	s.LED(1).SetRGB(RGB{R: 4, G: 5, B: 6})
	s.LED(2).SetRGB(RGB{R: 7, G: 8, B: 9})

	if err := s.ShiftLeft(RGB{R: 0xAA, G: 0x10, B: 0x05}); err != nil {
		t.Fatal(err)
	}
	want := []RGB{
		{R: 4, G: 5, B: 6},
		{R: 7, G: 8, B: 9},
		{R: 0xAA, G: 0x10, B: 0x05},
	}
	assert.Equal(t, want, colors(s), "head value is discarded")
}

func TestShiftInversePair(t *testing.T) {
	s := NewString(nil, manualOpts(4))
	for i, ld := range s.LEDs() {
		ld.SetRGB(RGB{R: uint8(i + 1), G: uint8(10 * i), B: uint8(100 - i)})
	}
	orig := colors(s)

	displaced := s.LED(0).RGB()
	if err := s.ShiftLeft(RGB{R: 0xEE}); err != nil {
		t.Fatal(err)
	}
	if err := s.ShiftRight(displaced); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, orig, colors(s), "shift left then right with the displaced value restores the sequence")
}

func TestAutoUpdateSingleResend(t *testing.T) {
	s, rec := wiredString(3)
	assert.True(t, s.AutoUpdate())
	push := levelsPerPush(3)

	s.LED(1).SetRGB(RGB{R: 1, G: 2, B: 3})
	assert.Equal(t, push, len(rec.Levels), "composite write resends exactly once")

	rec.Reset()
	if err := s.SetAll(7); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, push, len(rec.Levels), "bulk set resends exactly once")

	rec.Reset()
	if err := s.SetAllBrightness(9); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, push, len(rec.Levels))

	rec.Reset()
	if err := s.ShiftRight(RGB{B: 0x40}); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, push, len(rec.Levels), "shift resends exactly once")
}

func TestManualModeDoesNotPush(t *testing.T) {
	rec := &gpio.Record{}
	s := NewString(rec, manualOpts(2))
	assert.False(t, s.AutoUpdate())

	s.LED(0).SetRGB(RGB{R: 5})
	assert.Empty(t, rec.Levels)

	// Lines unset: explicit update is a silent no-op.
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	assert.Empty(t, rec.Levels)
}

func TestUpdateWithoutPort(t *testing.T) {
	s := NewString(nil, &Opts{NumLEDs: 2, Clk: 2, Dat: 0})
	assert.False(t, s.AutoUpdate())
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateLevelStream(t *testing.T) {
	s, rec := wiredString(0)

	// Payload is all zero: data line never set, clock alternates low/high.
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, levelsPerPush(0), len(rec.Levels))
	for i := 0; i < len(rec.Levels); i += 2 {
		assert.Equal(t, byte(0), rec.Levels[i])
		assert.Equal(t, byte(1<<2), rec.Levels[i+1])
	}
}

func TestUpdateOnOverridesLines(t *testing.T) {
	rec := &gpio.Record{}
	s := NewString(rec, manualOpts(0))

	if err := s.UpdateOn(5, 3); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, levelsPerPush(0), len(rec.Levels))
	for i := 0; i < len(rec.Levels); i += 2 {
		assert.Equal(t, byte(0), rec.Levels[i])
		assert.Equal(t, byte(1<<5), rec.Levels[i+1])
	}

	// A degenerate assignment stays a no-op.
	rec.Reset()
	if err := s.UpdateOn(4, 4); err != nil {
		t.Fatal(err)
	}
	assert.Empty(t, rec.Levels)
}

func TestPortFailurePropagates(t *testing.T) {
	boom := errors.New("boom")
	rec := &gpio.Record{Err: boom, FailAt: 10}
	o := Opts{NumLEDs: 1, Brightness: MaxBrightness, Clk: 2, Dat: 0}
	s := NewString(rec, &o)

	before := s.Payload()
	err := s.Update()
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped port error, got %v", err)
	}
	assert.Equal(t, 10, len(rec.Levels), "remaining writes are aborted")
	assert.Equal(t, before, s.Payload(), "a failed push never touches the model")
}

func TestStrictRejectsOutOfRange(t *testing.T) {
	o := Opts{NumLEDs: 1, Brightness: 10, Clk: -1, Dat: -1, Strict: true}
	s := NewString(nil, &o)

	err := s.SetAllBrightness(40)
	if !errors.Is(err, ErrRange) {
		t.Fatalf("expected ErrRange, got %v", err)
	}
	assert.Equal(t, uint8(10), s.LED(0).Brightness(), "rejected write leaves state alone")

	if err := s.SetAllBrightness(MaxBrightness); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, MaxBrightness, s.LED(0).Brightness())
}

func TestImageSize(t *testing.T) {
	s := NewString(nil, manualOpts(5))
	im := s.Image()
	assert.Equal(t, 5, im.Rect.Max.X)
	assert.Equal(t, 1, im.Rect.Max.Y)
}
