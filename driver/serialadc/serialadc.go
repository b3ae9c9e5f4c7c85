// Package serialadc implements a sampler for an auxiliary
// microcontroller that reports analog readings over a serial line.
//
// The wire protocol is a fixed-size exchange: the host sends a
// two-byte request naming a channel, the controller answers with a
// four-byte frame echoing the command and channel followed by the
// 12-bit reading, most significant byte first.
package serialadc

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/tarm/serial"
)

const (
	baudRate = 115200

	sampleCmd = 0x5a
)

// NumChannels is the number of channels the controller reports.
const NumChannels = 4

type Device struct {
	// mu serializes exchanges; channels share the line.
	mu sync.Mutex
	rw io.ReadWriter
}

func New(rw io.ReadWriter) *Device {
	return &Device{rw: rw}
}

// Open connects to the controller on dev, or probes the usual serial
// device names if dev is empty.
func Open(dev string) (*Device, error) {
	var devices []string
	if dev != "" {
		devices = append(devices, dev)
	} else {
		switch runtime.GOOS {
		case "windows":
			devices = append(devices, "COM3")
		case "linux":
			devices = append(devices, "/dev/ttyUSB0", "/dev/ttyACM0")
		}
	}
	if len(devices) == 0 {
		return nil, errors.New("serialadc: no device specified")
	}
	var firstErr error
	for _, dev := range devices {
		c := &serial.Config{Name: dev, Baud: baudRate}
		s, err := serial.OpenPort(c)
		if err == nil {
			return New(s), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

// Channel returns a sampler for controller channel n.
func (d *Device) Channel(n int) *Channel {
	if n < 0 || NumChannels <= n {
		panic("serialadc: channel out of range")
	}
	return &Channel{dev: d, num: byte(n)}
}

type Channel struct {
	dev *Device
	num byte
}

// Configure probes the channel with a throwaway sample to verify the
// controller responds.
func (c *Channel) Configure() error {
	_, err := c.Read()
	return err
}

// Read requests one sample from the controller.
func (c *Channel) Read() (int32, error) {
	d := c.dev
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.rw.Write([]byte{sampleCmd, c.num}); err != nil {
		return 0, fmt.Errorf("serialadc: request channel %d: %w", c.num, err)
	}
	var resp [4]byte
	if _, err := io.ReadFull(d.rw, resp[:]); err != nil {
		return 0, fmt.Errorf("serialadc: read channel %d: %w", c.num, err)
	}
	if resp[0] != sampleCmd || resp[1] != c.num {
		return 0, fmt.Errorf("serialadc: unexpected response %#x for channel %d", resp[:2], c.num)
	}
	return int32(resp[2])<<8 | int32(resp[3]), nil
}
