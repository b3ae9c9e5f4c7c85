//go:build !linux

package main

import (
	log "github.com/sirupsen/logrus"
)

// logKeyboard stands in for the virtual keyboard on hosts without
// uinput.
type logKeyboard struct{}

func openKeyboard(name string, keys []uint16) (keyEmitter, error) {
	log.Info("no uinput on this host, logging key events")
	return logKeyboard{}, nil
}

func (logKeyboard) Key(code uint16, pressed bool) error {
	log.WithFields(log.Fields{"code": code, "pressed": pressed}).Info("key")
	return nil
}

func (logKeyboard) Close() error {
	return nil
}
