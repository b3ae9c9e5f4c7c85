//go:build linux

// Package uinput creates a virtual keyboard through the Linux uinput
// interface and types key events into it.
package uinput

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Event types from linux/input-event-codes.h.
const (
	evSyn = 0x00
	evKey = 0x01

	synReport = 0x00
)

const busVirtual = 0x06

// ioctl request encoding, the _IOC macro from linux/ioctl.h.
const (
	iocNRShift   = 0
	iocTypeShift = 8
	iocSizeShift = 16
	iocDirShift  = 30

	iocWrite = 1
)

func ioc(dir, typ, nr, size uintptr) uintptr {
	return dir<<iocDirShift | typ<<iocTypeShift | nr<<iocNRShift | size<<iocSizeShift
}

// Requests from linux/uinput.h.
var (
	uiSetEvBit   = ioc(iocWrite, 'U', 100, 4)
	uiSetKeyBit  = ioc(iocWrite, 'U', 101, 4)
	uiDevCreate  = ioc(0, 'U', 1, 0)
	uiDevDestroy = ioc(0, 'U', 2, 0)
)

type inputID struct {
	BusType uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

// userDev is struct uinput_user_dev from linux/uinput.h.
type userDev struct {
	Name       [80]byte
	ID         inputID
	EffectsMax uint32
	AbsMax     [64]int32
	AbsMin     [64]int32
	AbsFuzz    [64]int32
	AbsFlat    [64]int32
}

// inputEvent is struct input_event on 64-bit kernels.
type inputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

type Keyboard struct {
	f *os.File
}

// New registers a virtual keyboard that can emit the given key codes.
func New(name string, keys []uint16) (*Keyboard, error) {
	f, err := os.OpenFile("/dev/uinput", os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("uinput: %w", err)
	}
	fd := f.Fd()
	if err := ioctlInt(fd, uiSetEvBit, evKey); err != nil {
		f.Close()
		return nil, fmt.Errorf("uinput: enable key events: %w", err)
	}
	for _, code := range keys {
		if err := ioctlInt(fd, uiSetKeyBit, int(code)); err != nil {
			f.Close()
			return nil, fmt.Errorf("uinput: enable key %d: %w", code, err)
		}
	}
	dev := userDev{
		ID: inputID{
			BusType: busVirtual,
			Vendor:  0x1209,
			Product: 0x5a01,
			Version: 1,
		},
	}
	copy(dev.Name[:len(dev.Name)-1], name)
	buf := (*[unsafe.Sizeof(dev)]byte)(unsafe.Pointer(&dev))[:]
	if _, err := f.Write(buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("uinput: register device: %w", err)
	}
	if err := ioctlInt(fd, uiDevCreate, 0); err != nil {
		f.Close()
		return nil, fmt.Errorf("uinput: create device: %w", err)
	}
	return &Keyboard{f: f}, nil
}

func ioctlInt(fd, req uintptr, v int) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, uintptr(v)); errno != 0 {
		return errno
	}
	return nil
}

// Key presses or releases a single key and flushes a report.
func (k *Keyboard) Key(code uint16, pressed bool) error {
	var v int32
	if pressed {
		v = 1
	}
	evs := [2]inputEvent{
		{Type: evKey, Code: code, Value: v},
		{Type: evSyn, Code: synReport},
	}
	buf := (*[unsafe.Sizeof(evs)]byte)(unsafe.Pointer(&evs))[:]
	if _, err := k.f.Write(buf); err != nil {
		return fmt.Errorf("uinput: emit key %d: %w", code, err)
	}
	return nil
}

func (k *Keyboard) Close() error {
	// Best effort; the kernel tears the device down with the fd
	// anyway.
	ioctlInt(k.f.Fd(), uiDevDestroy, 0)
	return k.f.Close()
}
