// Package pcf8574 implements a driver for the NXP PCF8574 8-bit
// quasi-bidirectional I2C I/O expander, used here as extra button
// inputs.
//
// Datasheet: https://www.nxp.com/docs/en/data-sheet/PCF8574_PCF8574A.pdf
package pcf8574

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
)

// DefaultAddr is the device address with A0-A2 grounded.
const DefaultAddr = 0x20

// NumPins is the number of I/O pins on the expander.
const NumPins = 8

type Device struct {
	dev i2c.Dev
	// latch mirrors the output register. A pin must be latched
	// high before its input level can be read.
	latch byte
}

func New(bus i2c.Bus, addr uint16) *Device {
	return &Device{
		dev: i2c.Dev{Bus: bus, Addr: addr},
		// Power-on state, all pins high.
		latch: 0xff,
	}
}

// Pin returns a button reader for expander pin n. The pin reads
// active low: a pressed button pulls the line to ground against the
// weak internal pull-up.
func (d *Device) Pin(n int) *Pin {
	if n < 0 || NumPins <= n {
		panic("pcf8574: pin out of range")
	}
	return &Pin{dev: d, mask: 1 << n}
}

type Pin struct {
	dev  *Device
	mask byte
}

// Configure latches the pin high so the external button can drive the
// line low.
func (p *Pin) Configure() error {
	d := p.dev
	latch := d.latch | p.mask
	if err := d.dev.Tx([]byte{latch}, nil); err != nil {
		return fmt.Errorf("pcf8574: configure pin: %w", err)
	}
	d.latch = latch
	return nil
}

// Pressed reads the port and reports whether the pin is driven low.
func (p *Pin) Pressed() (bool, error) {
	var buf [1]byte
	if err := p.dev.dev.Tx(nil, buf[:]); err != nil {
		return false, fmt.Errorf("pcf8574: read port: %w", err)
	}
	return buf[0]&p.mask == 0, nil
}
