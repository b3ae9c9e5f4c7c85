package main

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// gpioButton adapts a host GPIO pin to a button input, active low
// with the internal pull-up enabled.
type gpioButton struct {
	pin gpio.PinIn
}

func (b gpioButton) Configure() error {
	if err := b.pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return fmt.Errorf("button %s: %w", b.pin, err)
	}
	return nil
}

func (b gpioButton) Pressed() (bool, error) {
	return b.pin.Read() == gpio.Low, nil
}
