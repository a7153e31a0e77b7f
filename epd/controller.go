// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// delay is replaced in tests.
var delay = time.Sleep

// controller is the command session of a single operation. The first
// transport error is kept and turns all later calls into no-ops. Busy
// timeouts do not stop the sequence, they are collected and reported by
// result.
type controller struct {
	t     Transport
	m     *Model
	l     *layout
	log   *log.Logger
	state State

	err      error
	timeouts []string
}

// enter records that the panel reached s, unless the session already
// failed.
func (c *controller) enter(s State) {
	if c.err == nil {
		c.state = s
	}
}

func (c *controller) command(cmd byte) {
	if c.err != nil {
		return
	}
	if err := c.t.WriteCommand(cmd); err != nil {
		c.err = fmt.Errorf("epd: command 0x%02X: %w", cmd, err)
	}
}

func (c *controller) data(data ...byte) {
	if c.err != nil || len(data) == 0 {
		return
	}
	if err := c.t.WriteData(data); err != nil {
		c.err = fmt.Errorf("epd: data: %w", err)
	}
}

// write sends cmd with its parameters.
func (c *controller) write(cmd byte, data ...byte) {
	c.command(cmd)
	c.data(data...)
}

func (c *controller) read(buf []byte) {
	if c.err != nil {
		return
	}
	if err := c.t.ReadData(buf); err != nil {
		c.err = fmt.Errorf("epd: read: %w", err)
	}
}

func (c *controller) readByte() byte {
	var b [1]byte
	c.read(b[:])
	return b[0]
}

func (c *controller) fill(cmd, value byte, n int) {
	if c.err != nil {
		return
	}
	if err := c.t.FillRAM(cmd, value, n); err != nil {
		c.err = fmt.Errorf("epd: fill 0x%02X: %w", cmd, err)
	}
}

func (c *controller) reset(l gpio.Level, d time.Duration) {
	if c.err != nil {
		return
	}
	if err := c.t.Reset(l, d); err != nil {
		c.err = fmt.Errorf("epd: reset: %w", err)
	}
}

// waitBusy waits for the controller to release its busy line. what names
// the step in logs and errors.
func (c *controller) waitBusy(what string, timeout time.Duration) {
	if c.err != nil {
		return
	}
	ok, err := c.t.WaitBusy(c.l.busy, timeout)
	if err != nil {
		c.err = fmt.Errorf("epd: wait busy: %w", err)
		return
	}
	if !ok {
		c.log.Printf("epd: %s: busy timeout after %s", what, timeout)
		c.timeouts = append(c.timeouts, what)
	}
}

func (c *controller) delay(d time.Duration) {
	if c.err != nil {
		return
	}
	delay(d)
}

func (c *controller) dump(title string, b []byte) {
	if c.err != nil {
		return
	}
	c.log.Printf("epd: === %s BEGIN ===\n%s", title, hex.Dump(b))
	c.log.Printf("epd: === %s END ===", title)
}

// result returns the error of the operation.
func (c *controller) result() error {
	if c.err != nil {
		return c.err
	}
	if len(c.timeouts) != 0 {
		return fmt.Errorf("%w: %s", ErrBusyTimeout, strings.Join(c.timeouts, ", "))
	}
	return nil
}
