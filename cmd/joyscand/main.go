// Command joyscand turns analog thumbsticks and buttons into key
// events on a virtual keyboard, one scan matrix instance per
// configured stick.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"joyscan.dev/driver/mcp3008"
	"joyscan.dev/driver/pcf8574"
	"joyscan.dev/driver/serialadc"
	"joyscan.dev/driver/uinput"
	"joyscan.dev/joystick"
)

// keyEmitter is the sink for translated matrix events. On Linux it is
// a uinput keyboard.
type keyEmitter interface {
	Key(code uint16, pressed bool) error
	Close() error
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "joyscand: %v\n", err)
		os.Exit(2)
	}
}

func run() error {
	configPath := flag.String("config", "/etc/joyscand.yaml", "configuration file")
	flag.Parse()
	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if len(cfg.Devices) == 0 {
		return errors.New("config: no devices")
	}
	if _, err := host.Init(); err != nil {
		return err
	}
	b := newBinder()
	defer b.Close()

	type instance struct {
		name string
		dev  *joystick.Device
		keys map[int]uint16
	}
	registry := make(map[string]*joystick.Device)
	var instances []instance
	var allKeys []uint16
	for _, dc := range cfg.Devices {
		x, y, err := b.adc(dc.ADC)
		if err != nil {
			return fmt.Errorf("%s: %w", dc.Name, err)
		}
		var buttons []joystick.Button
		for _, bc := range dc.Buttons {
			btn, err := b.button(bc)
			if err != nil {
				return fmt.Errorf("%s: %w", dc.Name, err)
			}
			buttons = append(buttons, btn)
		}
		dev, err := joystick.New(joystick.Config{
			X:                  x,
			Y:                  y,
			Buttons:            buttons,
			Center:             dc.Center,
			Deadzone:           dc.Deadzone,
			Hysteresis:         dc.Hysteresis,
			InvertX:            dc.InvertX,
			InvertY:            dc.InvertY,
			ButtonColumnOffset: dc.ButtonColumnOffset,
			PollPeriod:         dc.pollPeriod(),
		})
		if err != nil {
			return fmt.Errorf("%s: %w", dc.Name, err)
		}
		keys, err := bindKeymap(dc)
		if err != nil {
			return fmt.Errorf("%s: %w", dc.Name, err)
		}
		registry[dc.Name] = dev
		instances = append(instances, instance{dc.Name, dev, keys})
		for _, code := range keys {
			allKeys = append(allKeys, code)
		}
	}

	kbd, err := openKeyboard("joyscand", allKeys)
	if err != nil {
		return err
	}
	for _, inst := range instances {
		err := inst.dev.Configure(func(row, col int, pressed bool) {
			code, ok := inst.keys[col]
			if !ok {
				return
			}
			if err := kbd.Key(code, pressed); err != nil {
				log.Error(err)
			}
		})
		if err != nil {
			return fmt.Errorf("%s: %w", inst.name, err)
		}
		if err := inst.dev.Enable(); err != nil {
			return fmt.Errorf("%s: %w", inst.name, err)
		}
		log.Infof("%s: scanning", inst.name)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	s := <-sig
	log.Infof("%s, shutting down", s)
	for name, dev := range registry {
		if err := dev.Disable(); err != nil {
			log.Errorf("disable %s: %v", name, err)
		}
	}
	return kbd.Close()
}

// bindKeymap maps the matrix columns of one device to key codes.
func bindKeymap(dc deviceConfig) (map[int]uint16, error) {
	keys := make(map[int]uint16)
	dirs := []struct {
		col  int
		name string
	}{
		{joystick.ColUp, dc.Keymap.Up},
		{joystick.ColDown, dc.Keymap.Down},
		{joystick.ColLeft, dc.Keymap.Left},
		{joystick.ColRight, dc.Keymap.Right},
	}
	for _, d := range dirs {
		if d.name == "" {
			continue
		}
		code, ok := uinput.Keycode(d.name)
		if !ok {
			return nil, fmt.Errorf("unknown key %q", d.name)
		}
		keys[d.col] = code
	}
	for i, name := range dc.Keymap.Buttons {
		if name == "" {
			continue
		}
		code, ok := uinput.Keycode(name)
		if !ok {
			return nil, fmt.Errorf("unknown key %q", name)
		}
		keys[dc.ButtonColumnOffset+i] = code
	}
	return keys, nil
}

// binder caches shared bus handles while the instances are
// constructed.
type binder struct {
	ports     map[string]spi.PortCloser
	buses     map[string]i2c.BusCloser
	adcs      map[string]*mcp3008.Device
	serials   map[string]*serialadc.Device
	expanders map[string]*pcf8574.Device
}

func newBinder() *binder {
	return &binder{
		ports:     make(map[string]spi.PortCloser),
		buses:     make(map[string]i2c.BusCloser),
		adcs:      make(map[string]*mcp3008.Device),
		serials:   make(map[string]*serialadc.Device),
		expanders: make(map[string]*pcf8574.Device),
	}
}

func (b *binder) adc(c adcConfig) (x, y joystick.ADC, err error) {
	switch c.Driver {
	case "mcp3008":
		if c.X < 0 || mcp3008.NumChannels <= c.X || c.Y < 0 || mcp3008.NumChannels <= c.Y {
			return nil, nil, fmt.Errorf("mcp3008 channels %d, %d out of range", c.X, c.Y)
		}
		dev, ok := b.adcs[c.SPI]
		if !ok {
			port, err := spireg.Open(c.SPI)
			if err != nil {
				return nil, nil, err
			}
			b.ports[c.SPI] = port
			dev = mcp3008.New(port)
			b.adcs[c.SPI] = dev
		}
		return dev.Channel(c.X), dev.Channel(c.Y), nil
	case "serial":
		if c.X < 0 || serialadc.NumChannels <= c.X || c.Y < 0 || serialadc.NumChannels <= c.Y {
			return nil, nil, fmt.Errorf("serial channels %d, %d out of range", c.X, c.Y)
		}
		dev, ok := b.serials[c.Device]
		if !ok {
			var err error
			dev, err = serialadc.Open(c.Device)
			if err != nil {
				return nil, nil, err
			}
			b.serials[c.Device] = dev
		}
		return dev.Channel(c.X), dev.Channel(c.Y), nil
	}
	return nil, nil, fmt.Errorf("unknown adc driver %q", c.Driver)
}

func (b *binder) button(c buttonConfig) (joystick.Button, error) {
	if c.GPIO != "" {
		pin := gpioreg.ByName(c.GPIO)
		if pin == nil {
			return nil, fmt.Errorf("no gpio pin %q", c.GPIO)
		}
		return gpioButton{pin}, nil
	}
	addr := c.Addr
	if addr == 0 {
		addr = pcf8574.DefaultAddr
	}
	if c.Pin < 0 || pcf8574.NumPins <= c.Pin {
		return nil, fmt.Errorf("expander pin %d out of range", c.Pin)
	}
	key := fmt.Sprintf("%s:%#x", c.I2C, addr)
	dev, ok := b.expanders[key]
	if !ok {
		bus, ok := b.buses[c.I2C]
		if !ok {
			var err error
			bus, err = i2creg.Open(c.I2C)
			if err != nil {
				return nil, err
			}
			b.buses[c.I2C] = bus
		}
		dev = pcf8574.New(bus, addr)
		b.expanders[key] = dev
	}
	return dev.Pin(c.Pin), nil
}

func (b *binder) Close() {
	for _, p := range b.ports {
		p.Close()
	}
	for _, bus := range b.buses {
		bus.Close()
	}
}
