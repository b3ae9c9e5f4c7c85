// Package joystick implements a key matrix driver for an analog
// thumbstick with auxiliary buttons. Two analog channels are polled on
// a fixed schedule, discretized into up/down/left/right through a
// hysteresis band around a center deadzone, merged with the button
// states into a column bitmask and delivered as per-column press and
// release events.
package joystick

import (
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// ADC samples a single analog channel.
type ADC interface {
	// Configure prepares the channel for single-shot sampling.
	Configure() error
	// Read samples the channel once, in raw converter units.
	Read() (int32, error)
}

// Button reads a single digital input.
type Button interface {
	// Configure sets the input up for reading.
	Configure() error
	// Pressed reports whether the input reads active.
	Pressed() (bool, error)
}

// Callback receives one event per changed matrix position. The driver
// synthesizes a single-row matrix; row is always 0. Events for one
// scan cycle arrive in ascending column order.
type Callback func(row, col int, pressed bool)

// Matrix columns 0 through 3 carry the stick directions. Buttons
// start at Config.ButtonColumnOffset.
const (
	ColUp = iota
	ColDown
	ColLeft
	ColRight

	numDirections
)

// MaxColumns is the width of the state bitmask.
const MaxColumns = 32

var (
	// ErrHardwareNotReady reports a missing sample source at
	// construction.
	ErrHardwareNotReady = errors.New("joystick: hardware not ready")
	// ErrChannelSetup reports an analog channel that failed setup.
	ErrChannelSetup = errors.New("joystick: channel setup failed")
	// ErrButtonConfigure reports a button input that could not be
	// configured.
	ErrButtonConfigure = errors.New("joystick: button configure failed")
	// ErrRead reports a failed analog read; it aborts the scan
	// cycle it occurred in and nothing else.
	ErrRead = errors.New("joystick: analog read failed")
	// ErrInvalidCallback is returned by Configure for a nil callback.
	ErrInvalidCallback = errors.New("joystick: nil callback")
)

// Config are the construction parameters for a driver instance. It is
// not modified after New.
type Config struct {
	// X and Y sample the two stick axes.
	X, Y ADC
	// Buttons are the wired auxiliary inputs. Button i maps to
	// matrix column ButtonColumnOffset + i.
	Buttons []Button

	// Center, Deadzone and Hysteresis are magnitudes in raw
	// converter units. Samples within Deadzone of Center are
	// neutral; Hysteresis widens the band on the way in and
	// narrows it on the way out.
	Center     int
	Deadzone   int
	Hysteresis int

	// InvertX and InvertY flip the axis polarity after
	// classification.
	InvertX bool
	InvertY bool

	// ButtonColumnOffset is the matrix column of the first button.
	// Columns 0-3 are reserved for the directions.
	ButtonColumnOffset int

	// PollPeriod is the delay between a completed scan cycle and
	// the next one.
	PollPeriod time.Duration
}

// Device is a single driver instance. Its scan state is only mutated
// from within a scan cycle, and cycles never overlap.
type Device struct {
	cfg     Config
	columns int

	mu       sync.Mutex
	callback Callback
	quit     chan struct{}

	// scanMu serializes scan cycles, including across a
	// disable/enable transition.
	scanMu sync.Mutex
	axisX  int8
	axisY  int8
	mask   uint32
}

// New validates cfg and configures the underlying hardware. Any
// failure leaves the hardware in an undefined state and no usable
// device.
func New(cfg Config) (*Device, error) {
	if cfg.ButtonColumnOffset < numDirections {
		return nil, fmt.Errorf("joystick: button column offset %d overlaps direction columns", cfg.ButtonColumnOffset)
	}
	columns := cfg.ButtonColumnOffset + len(cfg.Buttons)
	if columns > MaxColumns {
		return nil, fmt.Errorf("joystick: %d columns exceed the %d-bit state mask", columns, MaxColumns)
	}
	if cfg.PollPeriod <= 0 {
		return nil, errors.New("joystick: poll period must be positive")
	}
	if cfg.X == nil {
		return nil, fmt.Errorf("%w: no x axis channel", ErrHardwareNotReady)
	}
	if cfg.Y == nil {
		return nil, fmt.Errorf("%w: no y axis channel", ErrHardwareNotReady)
	}
	for i, b := range cfg.Buttons {
		if b == nil {
			return nil, fmt.Errorf("%w: no input for button %d", ErrHardwareNotReady, i)
		}
	}
	if err := cfg.X.Configure(); err != nil {
		return nil, fmt.Errorf("%w: x axis: %w", ErrChannelSetup, err)
	}
	if err := cfg.Y.Configure(); err != nil {
		return nil, fmt.Errorf("%w: y axis: %w", ErrChannelSetup, err)
	}
	for i, b := range cfg.Buttons {
		if err := b.Configure(); err != nil {
			return nil, fmt.Errorf("%w: button %d: %w", ErrButtonConfigure, i, err)
		}
	}
	return &Device{
		cfg:     cfg,
		columns: columns,
	}, nil
}

// Configure registers the callback that receives matrix events. It may
// be called while the device is enabled; the new callback takes effect
// on the next scan cycle. Without a registered callback scan cycles
// still run, they just emit nothing.
func (d *Device) Configure(cb Callback) error {
	if cb == nil {
		return ErrInvalidCallback
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.callback = cb
	return nil
}

// Enable starts periodic scanning, beginning with an immediate scan.
// It is idempotent.
func (d *Device) Enable() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.quit != nil {
		return nil
	}
	d.quit = make(chan struct{})
	go d.poll(d.quit)
	return nil
}

// Disable stops periodic scanning. A cycle already in progress
// completes, including its event emission; only future cycles are
// cancelled. It is idempotent.
func (d *Device) Disable() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.quit == nil {
		return nil
	}
	close(d.quit)
	d.quit = nil
	return nil
}

// poll runs scan cycles until quit is closed. The next cycle is only
// scheduled after the current one has finished, so a slow read delays
// the schedule rather than piling up cycles.
func (d *Device) poll(quit <-chan struct{}) {
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-quit:
			return
		case <-timer.C:
		}
		d.scanMu.Lock()
		err := d.scan()
		d.scanMu.Unlock()
		if err != nil {
			// The failure is local to this cycle; the next
			// tick is a fresh attempt.
			log.Error(err)
		}
		timer.Reset(d.cfg.PollPeriod)
	}
}

// scan performs one read, classify, aggregate, emit pass. An analog
// read failure aborts the cycle before any state change or emission.
func (d *Device) scan() error {
	xraw, err := d.cfg.X.Read()
	if err != nil {
		return fmt.Errorf("%w: x axis: %w", ErrRead, err)
	}
	yraw, err := d.cfg.Y.Read()
	if err != nil {
		return fmt.Errorf("%w: y axis: %w", ErrRead, err)
	}
	x := d.classify(xraw, d.axisX)
	y := d.classify(yraw, d.axisY)
	if d.cfg.InvertX {
		x = -x
	}
	if d.cfg.InvertY {
		y = -y
	}
	var mask uint32
	switch {
	case y < 0:
		mask |= 1 << ColUp
	case y > 0:
		mask |= 1 << ColDown
	}
	switch {
	case x < 0:
		mask |= 1 << ColLeft
	case x > 0:
		mask |= 1 << ColRight
	}
	for i, b := range d.cfg.Buttons {
		// A misread button counts as released rather than
		// stalling the whole pipeline.
		if pressed, err := b.Pressed(); err == nil && pressed {
			mask |= 1 << (d.cfg.ButtonColumnOffset + i)
		}
	}
	d.emit(d.mask, mask)
	d.mask = mask
	d.axisX = x
	d.axisY = y
	return nil
}

// classify discretizes a raw sample given the previous direction of
// the same axis. The on thresholds lie Hysteresis outside the
// deadzone, the off thresholds Hysteresis inside it, so a sample must
// travel back across the full margin before a deflected axis
// releases. A deflected axis always releases to neutral first; it
// never flips sign in a single step.
func (d *Device) classify(sample int32, prev int8) int8 {
	var (
		lowOn   = int32(d.cfg.Center - d.cfg.Deadzone - d.cfg.Hysteresis)
		lowOff  = int32(d.cfg.Center - d.cfg.Deadzone + d.cfg.Hysteresis)
		highOn  = int32(d.cfg.Center + d.cfg.Deadzone + d.cfg.Hysteresis)
		highOff = int32(d.cfg.Center + d.cfg.Deadzone - d.cfg.Hysteresis)
	)
	switch {
	case prev < 0:
		if sample < lowOff {
			return -1
		}
		return 0
	case prev > 0:
		if sample > highOff {
			return 1
		}
		return 0
	case sample < lowOn:
		return -1
	case sample > highOn:
		return 1
	}
	return 0
}

// emit diffs cur against old and invokes the callback once per
// changed column, in ascending column order.
func (d *Device) emit(old, cur uint32) {
	d.mu.Lock()
	cb := d.callback
	d.mu.Unlock()
	changed := old ^ cur
	if cb == nil || changed == 0 {
		return
	}
	for col := 0; col < d.columns; col++ {
		if changed&(1<<col) == 0 {
			continue
		}
		cb(0, col, cur&(1<<col) != 0)
	}
}
