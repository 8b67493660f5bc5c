package model

import (
	"errors"
	"fmt"
	"image"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-lumenati/bitbang"
	"github.com/coreman2200/funtimes-lumenati/gpio"
)

// ErrRange reports an intensity outside the range a channel can carry.
// Only returned when the string was built with Opts.Strict.
var ErrRange = errors.New("model: value out of range")

// Opts holds the construction configuration for an LED string.
type Opts struct {
	// NumLEDs is fixed for the string's lifetime.
	NumLEDs int
	// Brightness and Color seed every LED.
	Brightness uint8
	Color      RGB
	// Clk and Dat are the level bit positions handed to the serializer.
	// Both must be distinct and non-negative for Update to push anything;
	// together with a non-nil port they enable auto-update.
	Clk int
	Dat int
	// Strict rejects out-of-range intensities with ErrRange instead of
	// truncating them.
	Strict bool
}

// DefaultOpts drives the 8-LED Lumenati stick through level bits 2 (clock)
// and 0 (data), matching the stock adapter wiring.
var DefaultOpts = Opts{
	NumLEDs:    8,
	Brightness: MaxBrightness,
	Clk:        2,
	Dat:        0,
}

// LEDString owns one start frame, a fixed number of LEDs and a trailing
// terminator frame, and pushes their aggregate payload through a bit-banged
// two-wire bus.
//
// All operations are synchronous and single-threaded; the string is not
// safe for concurrent use.
type LEDString struct {
	start StartFrame
	leds  []*LED
	extra Frame

	port   gpio.Port
	clk    int
	dat    int
	auto   bool
	strict bool
}

var _ Notifier = (*LEDString)(nil)

// NewString builds a string of o.NumLEDs LEDs. The port is an explicit
// dependency constructed once by the caller; nil means no hardware output.
// Auto-update turns on when the port and both line assignments are usable.
func NewString(p gpio.Port, o *Opts) *LEDString {
	if o == nil {
		o = &DefaultOpts
	}
	s := &LEDString{
		start:  NewStartFrame(),
		leds:   make([]*LED, 0, o.NumLEDs),
		port:   p,
		clk:    o.Clk,
		dat:    o.Dat,
		strict: o.Strict,
	}
	for i := 0; i < o.NumLEDs; i++ {
		ld := NewLED(uint8(i), o.Brightness, o.Color)
		s.leds = append(s.leds, &ld)
	}
	// Attach after seeding so construction never pushes.
	for _, ld := range s.leds {
		ld.Attach(s)
	}
	s.auto = s.wired()
	return s
}

func (s *LEDString) wired() bool {
	return s.port != nil && s.clk >= 0 && s.dat >= 0 && s.clk != s.dat
}

func (s *LEDString) Len() int {
	return len(s.leds)
}

// LEDs returns the owned LEDs in index order.
func (s *LEDString) LEDs() []*LED {
	return s.leds
}

func (s *LEDString) LED(i int) *LED {
	return s.leds[i]
}

// AutoUpdate reports whether mutations push to hardware implicitly.
func (s *LEDString) AutoUpdate() bool {
	return s.auto
}

// ChildUpdated implements Notifier. In auto mode a mutation resends the
// whole string; push failures are logged, never surfaced to the setter.
func (s *LEDString) ChildUpdated() {
	if !s.auto {
		return
	}
	if err := s.Update(); err != nil {
		log.Error().Err(err).Msg("auto update failed")
	}
}

// Payload returns the full transmitted byte stream: start frame, every LED
// frame in index order, terminator frame. Always 4*(N+2) bytes.
func (s *LEDString) Payload() []byte {
	b := make([]byte, 0, FrameLength*(len(s.leds)+2))
	b = append(b, s.start.Payload()...)
	for _, ld := range s.leds {
		b = append(b, ld.Payload()...)
	}
	b = append(b, s.extra.Payload()...)
	return b
}

// bulk runs f with auto-update suppressed, then resends at most once.
func (s *LEDString) bulk(f func()) error {
	auto := s.auto
	s.auto = false
	f()
	s.auto = auto
	if auto {
		return s.Update()
	}
	return nil
}

// SetAll sets every color channel of every LED to the same intensity.
func (s *LEDString) SetAll(v uint8) error {
	return s.bulk(func() {
		for _, ld := range s.leds {
			ld.All(v)
		}
	})
}

// SetAllBrightness sets every LED's global brightness.
func (s *LEDString) SetAllBrightness(v uint8) error {
	if s.strict && v > MaxBrightness {
		return fmt.Errorf("%w: brightness %d > %d", ErrRange, v, MaxBrightness)
	}
	return s.bulk(func() {
		for _, ld := range s.leds {
			ld.SetBrightness(v)
		}
	})
}

// ShiftRight pushes c in at the head: every LED takes its lower-indexed
// neighbor's color and the tail value falls off.
func (s *LEDString) ShiftRight(c RGB) error {
	return s.bulk(func() {
		cols := make([]RGB, 0, len(s.leds)+1)
		cols = append(cols, c)
		for _, ld := range s.leds {
			cols = append(cols, ld.RGB())
		}
		for i, ld := range s.leds {
			ld.SetRGB(cols[i])
		}
	})
}

// ShiftLeft pulls every color one position toward the head and writes c
// into the tail LED.
func (s *LEDString) ShiftLeft(c RGB) error {
	return s.bulk(func() {
		for i := 1; i < len(s.leds); i++ {
			s.leds[i-1].SetRGB(s.leds[i].RGB())
		}
		if n := len(s.leds); n > 0 {
			s.leds[n-1].SetRGB(c)
		}
	})
}

// Update serializes the current payload and writes the resulting level
// sequence to the port in order, using the line assignment the string was
// built with. It is a no-op when no port or line assignment is configured.
// A port failure aborts the remaining writes and propagates; the in-memory
// state is untouched either way.
func (s *LEDString) Update() error {
	return s.UpdateOn(s.clk, s.dat)
}

// UpdateOn pushes the payload over an explicit line assignment, leaving
// the configured one alone. Silent no-op if either line is unset.
func (s *LEDString) UpdateOn(clk, dat int) error {
	if s.port == nil || clk < 0 || dat < 0 || clk == dat {
		return nil
	}
	levels := bitbang.Expand(s.Payload(), uint8(clk), uint8(dat))
	for _, lv := range levels {
		if err := s.port.Write(lv); err != nil {
			return fmt.Errorf("model: push to port: %w", err)
		}
	}
	return nil
}

// Image renders the string as a 1-pixel-tall image so any display.Drawer
// can present it.
func (s *LEDString) Image() *image.NRGBA {
	im := image.NewNRGBA(image.Rect(0, 0, len(s.leds), 1))
	for x, ld := range s.leds {
		im.SetNRGBA(x, 0, ld.NRGBA())
	}
	return im
}
