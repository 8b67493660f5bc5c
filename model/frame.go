package model

import "image/color"

// FrameLength is the size of every protocol unit on the wire.
const FrameLength = 4

// Byte offsets within an LED frame. The chip wants blue before green
// before red, after the global brightness byte.
const (
	BRIGHT_OFFSET uint8 = 0
	BLUE_OFFSET   uint8 = 1
	GREEN_OFFSET  uint8 = 2
	RED_OFFSET    uint8 = 3
)

const (
	// BrightnessMarker is the fixed top-3-bit pattern every LED frame's
	// brightness byte carries.
	BrightnessMarker uint8 = 0b11100000
	// MaxBrightness is the largest intensity the low 5 bits can hold.
	MaxBrightness uint8 = 0x1F
)

// Notifier reacts to mutations of an owned frame. The owning aggregate
// implements it and injects itself into each child at construction; a nil
// notifier means the frame stands alone.
type Notifier interface {
	ChildUpdated()
}

// Frame is one fixed-size protocol unit, zero-initialized.
type Frame struct {
	bytes [FrameLength]byte
}

// Payload returns a copy of the frame's bytes.
func (f *Frame) Payload() []byte {
	b := make([]byte, FrameLength)
	copy(b, f.bytes[:])
	return b
}

// StartFrame marks the beginning of a transmission; its bytes stay zero.
type StartFrame struct {
	Frame
}

func NewStartFrame() StartFrame {
	return StartFrame{}
}

// RGB is a color triple as carried by a single LED frame.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// NewRGB unpacks a 0xRRGGBB value.
func NewRGB(v uint32) RGB {
	return RGB{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}
}

// LEDFrame is a frame holding one LED's brightness and color channels.
type LEDFrame struct {
	Frame
	notify Notifier
}

func NewLEDFrame(brightness uint8, c RGB) LEDFrame {
	v := LEDFrame{}
	v.SetBrightness(brightness)
	v.SetRGB(c)
	return v
}

// Attach injects the owning aggregate's notification hook.
func (f *LEDFrame) Attach(n Notifier) {
	f.notify = n
}

func (f *LEDFrame) notifyOwner() {
	if f.notify == nil {
		return
	}
	f.notify.ChildUpdated()
}

// Brightness returns the stored 5-bit intensity. The marker bits are
// never observable here.
func (f *LEDFrame) Brightness() uint8 {
	return f.bytes[BRIGHT_OFFSET] &^ BrightnessMarker
}

// SetBrightness stores the low five bits of v under the fixed marker
// pattern. Values above MaxBrightness truncate.
func (f *LEDFrame) SetBrightness(v uint8) {
	f.bytes[BRIGHT_OFFSET] = (v & MaxBrightness) | BrightnessMarker
	f.notifyOwner()
}

func (f *LEDFrame) Red() uint8 {
	return f.bytes[RED_OFFSET]
}

func (f *LEDFrame) SetRed(v uint8) {
	f.bytes[RED_OFFSET] = v
	f.notifyOwner()
}

func (f *LEDFrame) Green() uint8 {
	return f.bytes[GREEN_OFFSET]
}

func (f *LEDFrame) SetGreen(v uint8) {
	f.bytes[GREEN_OFFSET] = v
	f.notifyOwner()
}

func (f *LEDFrame) Blue() uint8 {
	return f.bytes[BLUE_OFFSET]
}

func (f *LEDFrame) SetBlue(v uint8) {
	f.bytes[BLUE_OFFSET] = v
	f.notifyOwner()
}

func (f *LEDFrame) RGB() RGB {
	return RGB{R: f.Red(), G: f.Green(), B: f.Blue()}
}

// SetRGB writes all three channels as one logical update; the owner is
// notified once, after the last channel lands.
func (f *LEDFrame) SetRGB(c RGB) {
	n := f.notify
	f.notify = nil
	f.SetRed(c.R)
	f.SetGreen(c.G)
	f.SetBlue(c.B)
	f.notify = n
	f.notifyOwner()
}

// NRGBA folds the 5-bit global brightness into the color channels for
// on-screen preview.
func (f *LEDFrame) NRGBA() color.NRGBA {
	bb := float64(f.Brightness()) / float64(MaxBrightness)
	return color.NRGBA{
		R: uint8(float64(f.Red()) * bb),
		G: uint8(float64(f.Green()) * bb),
		B: uint8(float64(f.Blue()) * bb),
		A: 255,
	}
}

// LED is an LEDFrame tagged with its position in the string. The index is
// diagnostic only; addressing on the wire is purely positional.
type LED struct {
	LEDFrame
	index uint8
}

func NewLED(i uint8, brightness uint8, c RGB) LED {
	v := LED{
		LEDFrame: NewLEDFrame(brightness, c),
		index:    i,
	}
	return v
}

func (l *LED) Index() uint8 {
	return l.index
}

// All sets every color channel to the same intensity.
func (l *LED) All(v uint8) {
	l.SetRGB(RGB{R: v, G: v, B: v})
}
