// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log"
)

// driver is the command set of a controller family.
type driver interface {
	layout() *layout
	init(c *controller)
	clear(c *controller, refresh bool)
	writeImage(c *controller, black, color []byte, r window)
	refresh(c *controller)
	sleep(c *controller)
	readTemperature(c *controller) int8
	forceTemperature(c *controller, v int8)
}

// fastIniter is implemented by controllers with a fast waveform.
type fastIniter interface {
	initFast(c *controller)
}

// ramWriter is implemented by controllers that accept RAM data streamed in
// several pieces.
type ramWriter interface {
	writeRAM(c *controller, begin, black bool, data []byte)
}

// lutDumper is implemented by controllers that can read back their
// waveform tables.
type lutDumper interface {
	dumpLUT(c *controller) []byte
}

// State is the power state of a panel as last commanded.
type State uint8

// Possible State.
const (
	Uninitialized State = iota
	Initialized
	PowerOn
	PowerOff
	Sleeping
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Initialized:
		return "Initialized"
	case PowerOn:
		return "PowerOn"
	case PowerOff:
		return "PowerOff"
	case Sleeping:
		return "Sleeping"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// ready reports whether the panel accepts commands other than Init.
func (s State) ready() bool {
	return s != Uninitialized && s != Sleeping
}

// Opts holds the options of a Dev.
type Opts struct {
	// Logger receives refresh progress, temperatures, busy timeouts and
	// table dumps. Nothing is logged when nil.
	Logger *log.Logger
}

// Dev is an open panel.
//
// A Dev is not safe for concurrent use.
type Dev struct {
	t     Transport
	m     Model
	log   *log.Logger
	state State
}

// Open looks up id in the catalog and initializes the panel on t.
//
// When initialization only failed because of a busy timeout, the Dev is
// returned along with the error.
func Open(t Transport, id ModelID, opts *Opts) (*Dev, error) {
	m, err := Lookup(id)
	if err != nil {
		return nil, err
	}
	d := &Dev{t: t, m: m, log: log.New(io.Discard, "", 0)}
	if opts != nil && opts.Logger != nil {
		d.log = opts.Logger
	}
	if err := d.Init(); err != nil {
		if errors.Is(err, ErrBusyTimeout) {
			return d, err
		}
		return nil, err
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("epd.Dev{%s, %s}", d.m.Name, d.state)
}

// Model returns the panel description.
func (d *Dev) Model() Model {
	return d.m
}

// Bounds returns the panel area.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.m.Width, d.m.Height)
}

// State returns the last commanded power state.
func (d *Dev) State() State {
	return d.state
}

// session starts an operation.
func (d *Dev) session() *controller {
	return &controller{t: d.t, m: &d.m, l: d.m.drv.layout(), log: d.log, state: d.state}
}

// done ends an operation started by session.
func (d *Dev) done(c *controller) error {
	d.state = c.state
	return c.result()
}

func (d *Dev) checkReady() error {
	if !d.state.ready() {
		return fmt.Errorf("%w: %s is %s", ErrNotInitialized, d.m.Name, d.state)
	}
	return nil
}

// Init resets the panel and loads its full refresh configuration. It also
// wakes a sleeping panel.
func (d *Dev) Init() error {
	c := d.session()
	d.m.drv.init(c)
	c.enter(Initialized)
	return d.done(c)
}

// InitFast is like Init but selects the shorter waveform. Only the JD79668
// supports it; the panel is left powered off.
func (d *Dev) InitFast() error {
	f, ok := d.m.drv.(fastIniter)
	if !ok {
		return fmt.Errorf("%w: %s has no fast init", ErrUnsupported, d.m.Controller)
	}
	c := d.session()
	f.initFast(c)
	c.enter(PowerOff)
	return d.done(c)
}

// Clear fills the panel RAM with white and optionally refreshes the panel.
func (d *Dev) Clear(refresh bool) error {
	if err := d.checkReady(); err != nil {
		return err
	}
	c := d.session()
	d.m.drv.clear(c, refresh)
	return d.done(c)
}

// WriteImage loads packed planes into the panel RAM at (x, y). The panel is
// not refreshed.
//
// x is moved down to a multiple of 8 and w is padded to whole bytes; the
// buffers must have Model.StrideBytes(w) bytes per row. A nil black plane
// is sent as white; a nil color plane is sent as no color. color is ignored
// unless the panel is BWR.
//
// A window that does not fit on the panel once aligned is rejected whole
// with a *BoundsError.
func (d *Dev) WriteImage(black, color []byte, x, y, w, h int) error {
	if err := d.checkReady(); err != nil {
		return err
	}
	r, err := alignWindow(x, y, w, h, d.m.Width, d.m.Height)
	if err != nil {
		return err
	}
	if err := d.m.drv.layout().checkPlanes(d.m.Color, black, color, r); err != nil {
		return err
	}
	c := d.session()
	d.m.drv.writeImage(c, black, color, r)
	return d.done(c)
}

// Refresh shows the RAM content on the panel then powers it off. It blocks
// until the waveform completed.
func (d *Dev) Refresh() error {
	if err := d.checkReady(); err != nil {
		return err
	}
	c := d.session()
	d.m.drv.refresh(c)
	return d.done(c)
}

// Sleep powers the panel down into deep sleep. Init wakes it up.
func (d *Dev) Sleep() error {
	if err := d.checkReady(); err != nil {
		return err
	}
	c := d.session()
	d.m.drv.sleep(c)
	c.enter(Sleeping)
	return d.done(c)
}

// ReadTemperature returns the temperature measured by the controller, in
// °C. After a busy timeout the value read is returned with the error.
//
// It is also valid after a refresh, once the panel is powered off.
func (d *Dev) ReadTemperature() (int8, error) {
	if err := d.checkReady(); err != nil {
		return 0, err
	}
	c := d.session()
	v := d.m.drv.readTemperature(c)
	return v, d.done(c)
}

// ForceTemperature overrides the measured temperature, in °C. The
// controller selects its waveform from this value. Like ReadTemperature it
// is valid after a refresh.
func (d *Dev) ForceTemperature(v int8) error {
	if err := d.checkReady(); err != nil {
		return err
	}
	c := d.session()
	d.m.drv.forceTemperature(c, v)
	return d.done(c)
}

// WriteRAM streams data into the panel RAM at the current address. When
// begin is set, the write command of the black RAM, or of the color RAM when
// black is false, is sent first. BW panels always write the black RAM.
//
// Only the SSD1619 supports it.
func (d *Dev) WriteRAM(begin, black bool, data []byte) error {
	w, ok := d.m.drv.(ramWriter)
	if !ok {
		return fmt.Errorf("%w: %s has no RAM streaming", ErrUnsupported, d.m.Controller)
	}
	if err := d.checkReady(); err != nil {
		return err
	}
	c := d.session()
	w.writeRAM(c, begin, black, data)
	return d.done(c)
}

// DumpLUT reads back the waveform tables of the controller: the LUT
// register of the SSD1619 or the OTP content of the UC8176. The content is
// also logged.
func (d *Dev) DumpLUT() ([]byte, error) {
	l, ok := d.m.drv.(lutDumper)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no table read back", ErrUnsupported, d.m.Controller)
	}
	if err := d.checkReady(); err != nil {
		return nil, err
	}
	c := d.session()
	b := l.dumpLUT(c)
	return b, d.done(c)
}
