// Package mcp3008 implements a driver for the Microchip MCP3008
// 8-channel 10-bit SPI analog-to-digital converter.
//
// Datasheet: https://ww1.microchip.com/downloads/en/DeviceDoc/21295d.pdf
package mcp3008

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// NumChannels is the number of single-ended input channels.
const NumChannels = 8

// maxFreq is the highest SPI clock the converter supports at 2.7V.
const maxFreq = 1350 * physic.KiloHertz

type Device struct {
	port spi.Port
	conn spi.Conn
}

func New(port spi.Port) *Device {
	return &Device{port: port}
}

// Channel returns a sampler for the single-ended input channel n.
func (d *Device) Channel(n int) *Channel {
	if n < 0 || NumChannels <= n {
		panic("mcp3008: channel out of range")
	}
	return &Channel{dev: d, num: byte(n)}
}

type Channel struct {
	dev *Device
	num byte
}

// Configure connects to the converter. The connection is shared
// between channels; only the first Configure opens it.
func (c *Channel) Configure() error {
	d := c.dev
	if d.conn != nil {
		return nil
	}
	conn, err := d.port.Connect(maxFreq, spi.Mode0, 8)
	if err != nil {
		return fmt.Errorf("mcp3008: connect: %w", err)
	}
	d.conn = conn
	return nil
}

// Read samples the channel once and returns the 10-bit conversion.
func (c *Channel) Read() (int32, error) {
	// Start bit, then single-ended mode and the channel number in
	// the high nibble of the second byte. The conversion arrives in
	// the low 10 bits of the response.
	w := [3]byte{0x01, 0x80 | c.num<<4, 0x00}
	var r [3]byte
	if err := c.dev.conn.Tx(w[:], r[:]); err != nil {
		return 0, fmt.Errorf("mcp3008: read channel %d: %w", c.num, err)
	}
	return int32(r[1]&0b11)<<8 | int32(r[2]), nil
}
