package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-lumenati/gpio"
	"github.com/coreman2200/funtimes-lumenati/internal/config"
	"github.com/coreman2200/funtimes-lumenati/model"
	"github.com/coreman2200/funtimes-lumenati/spi"
)

func main() {
	// ---- Flags (config.yaml can override most) ----
	var (
		numLeds    = flag.Int("leds", 8, "number of LEDs on the string")
		brightness = flag.Uint("brightness", 31, "global brightness 0..31")
		color      = flag.Uint("color", 0, "initial color as 0xRRGGBB")
		clkName    = flag.String("clk-pin", "", "clock line host pin name (e.g. GPIO11)")
		clkBit     = flag.Int("clk-bit", 2, "clock line level bit position")
		datName    = flag.String("dat-pin", "", "data line host pin name (e.g. GPIO10)")
		datBit     = flag.Int("dat-bit", 0, "data line level bit position")
		strict     = flag.Bool("strict", false, "reject out-of-range intensities instead of masking")
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	// ---- Effective params (config overrides flags where available) ----
	cfg := &config.Config{
		NumLeds:    *numLeds,
		Brightness: uint8(*brightness),
		Color:      uint32(*color),
		Strict:     *strict,
		Clk:        config.Pin{Name: *clkName, Bit: *clkBit},
		Dat:        config.Pin{Name: *datName, Bit: *datBit},
	}
	if c, err := config.Load(*configPath); err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
	} else {
		if c.NumLeds > 0 {
			cfg.NumLeds = c.NumLeds
		}
		if c.Brightness > 0 {
			cfg.Brightness = c.Brightness
		}
		if c.Color > 0 {
			cfg.Color = c.Color
		}
		if c.Wired() {
			cfg.Clk = c.Clk
			cfg.Dat = c.Dat
		}
		cfg.Strict = cfg.Strict || c.Strict
	}

	o := model.DefaultOpts
	o.NumLEDs = cfg.NumLeds
	o.Brightness = cfg.Brightness
	o.Color = model.NewRGB(cfg.Color)
	o.Strict = cfg.Strict
	o.Clk = cfg.Clk.Bit
	o.Dat = cfg.Dat.Bit

	// ---- Bit-banged bus when both lines are named ----
	if cfg.Wired() {
		port, err := gpio.NewPins(map[uint8]string{
			uint8(cfg.Clk.Bit): cfg.Clk.Name,
			uint8(cfg.Dat.Bit): cfg.Dat.Name,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("gpio port")
		}
		leds := model.NewString(port, &o)
		log.Info().Int("leds", leds.Len()).Str("port", port.String()).Msg("driving strip over bit-banged bus")
		if err := runDemo(leds); err != nil {
			log.Fatal().Err(err).Msg("demo failed")
		}
		if err := port.Halt(); err != nil {
			log.Warn().Err(err).Msg("halt failed")
		}
		return
	}

	// ---- Otherwise render via hardware SPI, or the console ----
	leds := model.NewString(nil, &o)
	looper, hw, err := spi.InitSPILooper(leds, chase)
	if err != nil {
		log.Fatal().Err(err).Msg("renderer")
	}
	log.Info().Bool("spi", hw).Int("leds", leds.Len()).Msg("no bus pins configured; rendering")
	looper.Start()
}

var chaseColors = []model.RGB{{R: 0x0F}, {G: 0x0F}, {B: 0x0F}}

// runDemo replays the bring-up choreography: per-LED colors, an intensity
// sweep, shift chases in both directions and a fade out.
func runDemo(s *model.LEDString) error {
	if err := s.SetAllBrightness(20); err != nil {
		return err
	}
	if s.Len() >= 3 {
		s.LED(0).SetRGB(model.RGB{R: 0xAA, G: 0x10, B: 0x05})
		s.LED(1).SetRGB(model.RGB{R: 0x10, G: 0x55, B: 0x10})
		s.LED(2).SetRGB(model.RGB{R: 0x10, G: 0x10, B: 0x55})
		s.LED(2).SetBlue(0x60)
	}
	time.Sleep(330 * time.Millisecond)

	if err := s.SetAll(0); err != nil {
		return err
	}
	if err := s.SetAllBrightness(30); err != nil {
		return err
	}
	for i := 0; i < 0x20; i++ {
		if err := s.SetAll(uint8(i)); err != nil {
			return err
		}
		time.Sleep(20 * time.Millisecond)
	}
	for loop := 0; loop < 25; loop++ {
		if err := s.ShiftLeft(chaseColors[(loop/2)%3]); err != nil {
			return err
		}
		time.Sleep(50 * time.Millisecond)
	}
	for loop := 0; loop < 60; loop++ {
		if err := s.ShiftRight(chaseColors[(loop/5)%3]); err != nil {
			return err
		}
		time.Sleep(20 * time.Millisecond)
	}
	for i := uint8(0); i < 32; i++ {
		if err := s.SetAllBrightness(31 - i); err != nil {
			return err
		}
	}
	if err := s.SetAll(0xFF); err != nil {
		return err
	}
	if err := s.SetAllBrightness(31); err != nil {
		return err
	}
	time.Sleep(700 * time.Millisecond)
	for i := uint8(0); i < 32; i++ {
		if err := s.SetAllBrightness(31 - i); err != nil {
			return err
		}
	}
	return nil
}

// chase rotates a three-color pattern through the string, one step per
// frame.
func chase(s *model.LEDString, d time.Duration) {
	step := int(d / (50 * time.Millisecond))
	if err := s.ShiftRight(chaseColors[(step/5)%3]); err != nil {
		log.Warn().Err(err).Msg("shift failed")
	}
}
