package gpio

import (
	"fmt"
	"sort"

	pgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Pins drives a bit-banged bus by fanning each level bitmask out to host
// GPIO pins. Construct one per wiring and share it; there is no implicit
// process-wide handle.
type Pins struct {
	lines []line
}

type line struct {
	bit uint8
	pin pgpio.PinIO
}

var _ Port = &Pins{}

// NewPins resolves named host pins for each bus line and drives them all
// low. The map keys are the level bit positions the serializer was given.
func NewPins(names map[uint8]string) (*Pins, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("gpio: host init: %w", err)
	}
	pins := make(map[uint8]pgpio.PinIO, len(names))
	for bit, name := range names {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("gpio: no pin named %q", name)
		}
		pins[bit] = p
	}
	return PinsFrom(pins)
}

// PinsFrom builds a port over already-resolved pins.
func PinsFrom(pins map[uint8]pgpio.PinIO) (*Pins, error) {
	v := &Pins{lines: make([]line, 0, len(pins))}
	for bit, p := range pins {
		if err := p.Out(pgpio.Low); err != nil {
			return nil, fmt.Errorf("gpio: init %s low: %w", p.Name(), err)
		}
		v.lines = append(v.lines, line{bit: bit, pin: p})
	}
	// Deterministic application order per level.
	sort.Slice(v.lines, func(i, j int) bool { return v.lines[i].bit < v.lines[j].bit })
	return v, nil
}

// Write applies one level bitmask to every mapped pin, lowest bit first.
func (p *Pins) Write(level byte) error {
	for _, l := range p.lines {
		lv := pgpio.Level(level&(1<<l.bit) != 0)
		if err := l.pin.Out(lv); err != nil {
			return fmt.Errorf("gpio: %s: %w", l.pin.Name(), err)
		}
	}
	return nil
}

// Halt returns every mapped line to low.
func (p *Pins) Halt() error {
	return p.Write(0)
}

func (p *Pins) String() string {
	s := "Pins{"
	for i, l := range p.lines {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%d:%s", l.bit, l.pin.Name())
	}
	return s + "}"
}
