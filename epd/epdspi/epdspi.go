// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epdspi

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/host/v3/rpi"
)

// defaultTxSize is used when the bus does not report its limit.
const defaultTxSize = 4096

// Opts defines the bus configuration.
type Opts struct {
	// SPI clock.
	Frequency physic.Frequency
	// Interval between two reads of the busy line.
	PollInterval time.Duration
}

// DefaultOpts is a configuration every supported controller accepts.
var DefaultOpts = Opts{
	Frequency:    4 * physic.MegaHertz,
	PollInterval: 10 * time.Millisecond,
}

// Dev is a handle to the bus and control lines of a panel.
type Dev struct {
	c conn.Conn

	dc   gpio.PinOut
	cs   gpio.PinOut
	rst  gpio.PinOut
	busy gpio.PinIn

	maxTxSize int
	poll      time.Duration
}

// New connects to a panel. cs may be nil when the SPI port drives chip
// select itself.
func New(p spi.Port, dc, cs, rst gpio.PinOut, busy gpio.PinIn, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if dc == nil || rst == nil || busy == nil {
		return nil, errors.New("epdspi: dc, rst and busy pins are required")
	}
	if opts.Frequency <= 0 {
		return nil, fmt.Errorf("epdspi: invalid frequency %s", opts.Frequency)
	}
	c, err := p.Connect(opts.Frequency, spi.Mode0, 8)
	if err != nil {
		return nil, err
	}
	if err := busy.In(gpio.Float, gpio.NoEdge); err != nil {
		return nil, err
	}

	d := &Dev{
		c:         c,
		dc:        dc,
		cs:        cs,
		rst:       rst,
		busy:      busy,
		maxTxSize: defaultTxSize,
		poll:      opts.PollInterval,
	}
	if l, ok := c.(conn.Limits); ok && l.MaxTxSize() > 0 {
		d.maxTxSize = l.MaxTxSize()
	}
	if d.poll <= 0 {
		d.poll = DefaultOpts.PollInterval
	}
	return d, nil
}

// NewHat connects to a panel wired like the Waveshare e-Paper HAT.
func NewHat(p spi.Port, opts *Opts) (*Dev, error) {
	dc := rpi.P1_22
	cs := rpi.P1_24
	rst := rpi.P1_11
	busy := rpi.P1_18
	return New(p, dc, cs, rst, busy, opts)
}

func (d *Dev) String() string {
	return fmt.Sprintf("epdspi.Dev{%s, %s, %s}", d.c, d.dc, d.busy)
}

// WriteCommand implements epd.Transport.
func (d *Dev) WriteCommand(cmd byte) error {
	eh := errorHandler{d: d}
	eh.sendCommand(cmd)
	return eh.err
}

// WriteData implements epd.Transport.
func (d *Dev) WriteData(data []byte) error {
	eh := errorHandler{d: d}
	eh.sendData(data)
	return eh.err
}

// ReadData implements epd.Transport.
func (d *Dev) ReadData(buf []byte) error {
	eh := errorHandler{d: d}
	eh.readData(buf)
	return eh.err
}

// Reset implements epd.Transport.
func (d *Dev) Reset(l gpio.Level, dur time.Duration) error {
	eh := errorHandler{d: d}
	eh.rstOut(l)
	time.Sleep(dur)
	eh.rstOut(!l)
	time.Sleep(dur)
	eh.rstOut(l)
	time.Sleep(dur)
	return eh.err
}

// WaitBusy implements epd.Transport.
func (d *Dev) WaitBusy(busy gpio.Level, timeout time.Duration) (bool, error) {
	deadline := time.Now().Add(timeout)
	for d.busy.Read() == busy {
		if !time.Now().Before(deadline) {
			return false, nil
		}
		time.Sleep(d.poll)
	}
	return true, nil
}

// FillRAM implements epd.Transport.
func (d *Dev) FillRAM(cmd, value byte, n int) error {
	eh := errorHandler{d: d}
	eh.sendCommand(cmd)
	if n <= 0 {
		return eh.err
	}
	chunk := bytes.Repeat([]byte{value}, min(n, d.maxTxSize))
	for ; n > 0 && eh.err == nil; n -= len(chunk) {
		if n < len(chunk) {
			chunk = chunk[:n]
		}
		eh.sendData(chunk)
	}
	return eh.err
}
