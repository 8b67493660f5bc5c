package spi

import (
	"fmt"
	"image"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/apa102"
	"periph.io/x/extra/devices/screen"
	"periph.io/x/host/v3"

	"github.com/coreman2200/funtimes-lumenati/model"
)

// Renderer presents an LED string through a display.Drawer: a real APA102
// device when a hardware SPI port is available, the console otherwise.
// It covers the same strip the bit-bang path drives, for adapters that do
// have a serial peripheral.
type Renderer struct {
	String *model.LEDString
	drawer display.Drawer
	Spi    bool
}

// InitLedRenderer opens the first SPI port and attaches an APA102 device
// sized to the string. When no port is found it falls back to printing at
// the console.
func InitLedRenderer(s *model.LEDString) (*Renderer, error) {
	rr := &Renderer{
		String: s,
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("spi: host init: %w", err)
	}
	ss, err := spireg.Open("")
	if err != nil {
		fmt.Printf("Failed to find a SPI port, printing at the console:\n")
		rr.drawer = screen.New(s.Len())
		return rr, nil
	}

	o := apa102.DefaultOpts
	o.NumPixels = s.Len()

	d, err := apa102.New(ss, &o)
	if err != nil {
		return nil, fmt.Errorf("spi: apa102: %w", err)
	}
	if err := d.Halt(); err != nil {
		return nil, fmt.Errorf("spi: halt: %w", err)
	}
	rr.drawer = d
	rr.Spi = true
	return rr, nil
}

func (r *Renderer) Render() error {
	if err := r.drawer.Draw(r.drawer.Bounds(), r.String.Image(), image.Point{}); err != nil {
		return fmt.Errorf("spi: draw: %w", err)
	}
	return nil
}

func (r *Renderer) Clear() error {
	return r.drawer.Halt()
}
