package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Pin struct {
	Name string `yaml:"name"` // host pin name, e.g. GPIO17
	Bit  int    `yaml:"bit"`  // level bit position given to the serializer
}

type Config struct {
	NumLeds    int    `yaml:"num_leds"`
	Brightness uint8  `yaml:"brightness"` // 0..31
	Color      uint32 `yaml:"color"`      // 0xRRGGBB seed for every LED
	Strict     bool   `yaml:"strict"`

	Clk Pin `yaml:"clk,omitempty"`
	Dat Pin `yaml:"dat,omitempty"`
}

// Wired reports whether both bus lines are named.
func (c *Config) Wired() bool {
	return c.Clk.Name != "" && c.Dat.Name != ""
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
