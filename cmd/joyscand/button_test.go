package main

import (
	"testing"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func TestGPIOButton(t *testing.T) {
	pin := &gpiotest.Pin{N: "GPIO21", Num: 21, L: gpio.Low}
	b := gpioButton{pin}
	if err := b.Configure(); err != nil {
		t.Fatal(err)
	}
	pressed, err := b.Pressed()
	if err != nil {
		t.Fatal(err)
	}
	if !pressed {
		t.Error("low pin not reported pressed")
	}
	pin.L = gpio.High
	pressed, err = b.Pressed()
	if err != nil {
		t.Fatal(err)
	}
	if pressed {
		t.Error("high pin reported pressed")
	}
}
