// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Transport carries bytes and control signals to a panel controller.
//
// Each call completes before the next one is issued. Data written after a
// command belongs to that command until the next command.
type Transport interface {
	// WriteCommand sends a command byte.
	WriteCommand(cmd byte) error
	// WriteData sends parameter or RAM bytes for the last command.
	WriteData(data []byte) error
	// ReadData reads len(buf) bytes from the controller.
	ReadData(buf []byte) error
	// Reset drives the reset line to level, then to its inverse, then back to
	// level, holding each state for d.
	Reset(level gpio.Level, d time.Duration) error
	// WaitBusy blocks while the busy line reads busy, for at most timeout. It
	// returns false when the line was still busy at the deadline.
	WaitBusy(busy gpio.Level, timeout time.Duration) (bool, error)
	// FillRAM sends cmd followed by n copies of value.
	FillRAM(cmd, value byte, n int) error
}
