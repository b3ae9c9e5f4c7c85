package serialadc

import (
	"testing"
	"time"

	"joyscan.dev/joystick"
)

func TestSample(t *testing.T) {
	sim := NewSimulator()
	defer sim.Close()

	dev := New(sim)
	ch := dev.Channel(2)
	if err := ch.Configure(); err != nil {
		t.Fatal(err)
	}
	sim.Samples[2] = 0x029a
	got, err := ch.Read()
	if err != nil {
		t.Fatal(err)
	}
	if want := int32(0x029a); got != want {
		t.Errorf("got %d, want %d", got, want)
	}
}

func TestChannelRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("out of range channel did not panic")
		}
	}()
	New(NewSimulator()).Channel(NumChannels)
}

func TestJoystickSource(t *testing.T) {
	sim := NewSimulator()
	defer sim.Close()

	sim.Samples[0] = 1600
	sim.Samples[1] = 2048
	dev := New(sim)
	d, err := joystick.New(joystick.Config{
		X:                  dev.Channel(0),
		Y:                  dev.Channel(1),
		Center:             2048,
		Deadzone:           300,
		Hysteresis:         50,
		ButtonColumnOffset: 4,
		PollPeriod:         time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}
	type event struct {
		col     int
		pressed bool
	}
	events := make(chan event, 16)
	if err := d.Configure(func(row, col int, pressed bool) {
		events <- event{col, pressed}
	}); err != nil {
		t.Fatal(err)
	}
	if err := d.Enable(); err != nil {
		t.Fatal(err)
	}
	defer d.Disable()
	select {
	case e := <-events:
		if want := (event{joystick.ColLeft, true}); e != want {
			t.Errorf("got event %v, want %v", e, want)
		}
	case <-time.After(time.Second):
		t.Fatal("no event from serial-backed scan")
	}
}
