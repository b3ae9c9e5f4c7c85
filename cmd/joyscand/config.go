package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// configFile is the on-disk daemon configuration. Each device entry
// becomes one driver instance in the registry, keyed by name.
type configFile struct {
	Devices []deviceConfig `yaml:"devices"`
}

type deviceConfig struct {
	Name               string         `yaml:"name"`
	ADC                adcConfig      `yaml:"adc"`
	Center             int            `yaml:"center"`
	Deadzone           int            `yaml:"deadzone"`
	Hysteresis         int            `yaml:"hysteresis"`
	PollPeriodMS       int            `yaml:"poll_period_ms"`
	InvertX            bool           `yaml:"invert_x"`
	InvertY            bool           `yaml:"invert_y"`
	ButtonColumnOffset int            `yaml:"button_column_offset"`
	Buttons            []buttonConfig `yaml:"buttons"`
	Keymap             keymapConfig   `yaml:"keymap"`
}

func (c *deviceConfig) pollPeriod() time.Duration {
	return time.Duration(c.PollPeriodMS) * time.Millisecond
}

type adcConfig struct {
	// Driver selects the sampler, "mcp3008" or "serial".
	Driver string `yaml:"driver"`
	// SPI names the port for mcp3008, e.g. "SPI0.0".
	SPI string `yaml:"spi"`
	// Device is the serial device path; empty probes the defaults.
	Device string `yaml:"device"`
	// X and Y are the converter channels for the two axes.
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type buttonConfig struct {
	// GPIO names a host pin, e.g. "GPIO21".
	GPIO string `yaml:"gpio"`
	// I2C, Addr and Pin select a PCF8574 expander pin instead.
	I2C  string `yaml:"i2c"`
	Addr uint16 `yaml:"addr"`
	Pin  int    `yaml:"pin"`
}

type keymapConfig struct {
	Up      string   `yaml:"up"`
	Down    string   `yaml:"down"`
	Left    string   `yaml:"left"`
	Right   string   `yaml:"right"`
	Buttons []string `yaml:"buttons"`
}

func loadConfig(path string) (*configFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg configFile
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	seen := make(map[string]bool)
	for i := range cfg.Devices {
		d := &cfg.Devices[i]
		if d.Name == "" {
			return nil, fmt.Errorf("config: device %d has no name", i)
		}
		if seen[d.Name] {
			return nil, fmt.Errorf("config: duplicate device %q", d.Name)
		}
		seen[d.Name] = true
		switch d.ADC.Driver {
		case "mcp3008":
			if d.ADC.SPI == "" {
				return nil, fmt.Errorf("config: device %q: mcp3008 needs an spi port", d.Name)
			}
		case "serial":
		default:
			return nil, fmt.Errorf("config: device %q: unknown adc driver %q", d.Name, d.ADC.Driver)
		}
		for j, btn := range d.Buttons {
			if (btn.GPIO == "") == (btn.I2C == "") {
				return nil, fmt.Errorf("config: device %q: button %d needs either gpio or i2c", d.Name, j)
			}
		}
	}
	return &cfg, nil
}
