//go:build linux

package main

import (
	"joyscan.dev/driver/uinput"
)

func openKeyboard(name string, keys []uint16) (keyEmitter, error) {
	return uinput.New(name, keys)
}
