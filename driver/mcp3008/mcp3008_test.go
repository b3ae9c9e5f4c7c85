package mcp3008

import (
	"testing"

	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/spi/spitest"
)

func TestRead(t *testing.T) {
	port := &spitest.Playback{
		Playback: conntest.Playback{
			Ops: []conntest.IO{
				// Channel 5, mid-scale reading.
				{W: []byte{0x01, 0xd0, 0x00}, R: []byte{0x00, 0x02, 0x9a}},
				// Channel 0, full-scale reading.
				{W: []byte{0x01, 0x80, 0x00}, R: []byte{0x00, 0x03, 0xff}},
			},
		},
	}
	dev := New(port)
	ch5 := dev.Channel(5)
	ch0 := dev.Channel(0)
	if err := ch5.Configure(); err != nil {
		t.Fatal(err)
	}
	// The port connection is shared; a second Configure is a no-op.
	if err := ch0.Configure(); err != nil {
		t.Fatal(err)
	}
	got, err := ch5.Read()
	if err != nil {
		t.Fatal(err)
	}
	if want := int32(666); got != want {
		t.Errorf("got %d, want %d", got, want)
	}
	got, err = ch0.Read()
	if err != nil {
		t.Fatal(err)
	}
	if want := int32(1023); got != want {
		t.Errorf("got %d, want %d", got, want)
	}
	if err := port.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestChannelRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("out of range channel did not panic")
		}
	}()
	New(&spitest.Playback{}).Channel(NumChannels)
}
