package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"joyscan.dev/joystick"
)

const exampleConfig = `
devices:
  - name: left-stick
    adc:
      driver: mcp3008
      spi: SPI0.0
      x: 0
      y: 1
    center: 2048
    deadzone: 300
    hysteresis: 50
    poll_period_ms: 10
    invert_y: true
    button_column_offset: 4
    buttons:
      - gpio: GPIO21
      - i2c: "1"
        addr: 0x20
        pin: 3
    keymap:
      up: KEY_UP
      down: KEY_DOWN
      left: KEY_LEFT
      right: KEY_RIGHT
      buttons: [KEY_ENTER, KEY_ESC]
  - name: aux-stick
    adc:
      driver: serial
      device: /dev/ttyACM0
      x: 0
      y: 1
    center: 2048
    deadzone: 400
    hysteresis: 40
    poll_period_ms: 20
    button_column_offset: 4
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "joyscand.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, exampleConfig))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Devices) != 2 {
		t.Fatalf("got %d devices, want 2", len(cfg.Devices))
	}
	d := cfg.Devices[0]
	if d.Name != "left-stick" || d.ADC.Driver != "mcp3008" || d.ADC.SPI != "SPI0.0" {
		t.Errorf("bad first device: %+v", d)
	}
	if d.Center != 2048 || d.Deadzone != 300 || d.Hysteresis != 50 || !d.InvertY || d.InvertX {
		t.Errorf("bad tuning: %+v", d)
	}
	if got, want := d.pollPeriod(), 10*time.Millisecond; got != want {
		t.Errorf("got poll period %v, want %v", got, want)
	}
	if len(d.Buttons) != 2 || d.Buttons[0].GPIO != "GPIO21" || d.Buttons[1].Addr != 0x20 || d.Buttons[1].Pin != 3 {
		t.Errorf("bad buttons: %+v", d.Buttons)
	}
	if cfg.Devices[1].ADC.Driver != "serial" || cfg.Devices[1].ADC.Device != "/dev/ttyACM0" {
		t.Errorf("bad second device: %+v", cfg.Devices[1])
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			"unnamed device",
			"devices:\n  - adc: {driver: serial}\n",
		},
		{
			"duplicate name",
			"devices:\n  - name: a\n    adc: {driver: serial}\n  - name: a\n    adc: {driver: serial}\n",
		},
		{
			"unknown driver",
			"devices:\n  - name: a\n    adc: {driver: ads1115}\n",
		},
		{
			"mcp3008 without port",
			"devices:\n  - name: a\n    adc: {driver: mcp3008}\n",
		},
		{
			"button with both sources",
			"devices:\n  - name: a\n    adc: {driver: serial}\n    buttons:\n      - {gpio: GPIO21, i2c: \"1\"}\n",
		},
		{
			"button with no source",
			"devices:\n  - name: a\n    adc: {driver: serial}\n    buttons:\n      - {pin: 1}\n",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := loadConfig(writeConfig(t, test.content)); err == nil {
				t.Error("invalid config loaded without error")
			}
		})
	}
}

func TestBindKeymap(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, exampleConfig))
	if err != nil {
		t.Fatal(err)
	}
	keys, err := bindKeymap(cfg.Devices[0])
	if err != nil {
		t.Fatal(err)
	}
	want := map[int]uint16{
		joystick.ColUp:    103,
		joystick.ColDown:  108,
		joystick.ColLeft:  105,
		joystick.ColRight: 106,
		4:                 28,
		5:                 1,
	}
	for col, code := range want {
		if keys[col] != code {
			t.Errorf("column %d: got key %d, want %d", col, keys[col], code)
		}
	}
	if len(keys) != len(want) {
		t.Errorf("got %d bound columns, want %d", len(keys), len(want))
	}

	bad := cfg.Devices[0]
	bad.Keymap.Up = "KEY_BOGUS"
	if _, err := bindKeymap(bad); err == nil {
		t.Error("unknown key name bound without error")
	}
}
