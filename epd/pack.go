// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"bytes"
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// layout describes how a controller addresses and streams its RAM.
type layout struct {
	// Busy line level while the controller is busy.
	busy gpio.Level
	// RAM write commands.
	ramBlack, ramColor byte
	// Background byte sent in place of a missing plane.
	filler byte
	// Number of window-width byte runs per pixel row: 1 for 1 bit per pixel
	// planes, 2 when a single plane carries 2 bits per pixel.
	rowPasses int
	// With a BW panel, only the color RAM command is streamed.
	bwColorOnly bool
}

// planeLen returns the minimum length of a plane buffer covering r.
func (l *layout) planeLen(r window) int {
	return r.bytes() * l.rowPasses * r.h
}

// checkPlanes validates the buffers the model needs for r before anything
// is sent.
func (l *layout) checkPlanes(color Color, black, colorPlane []byte, r window) error {
	n := l.planeLen(r)
	if black != nil && len(black) < n {
		return fmt.Errorf("%w: black plane has %d bytes, need %d", ErrShortBuffer, len(black), n)
	}
	if color == BWR && colorPlane != nil && len(colorPlane) < n {
		return fmt.Errorf("%w: color plane has %d bytes, need %d", ErrShortBuffer, len(colorPlane), n)
	}
	return nil
}

// writePlanes streams the planes for the window already selected on the
// controller.
//
// With one pass per row, the black plane goes to ramBlack and the color
// plane to ramColor; a BW panel gets the black plane for both, or only for
// ramColor when bwColorOnly is set. With two passes per row, the black
// plane is the only one and holds 2 bits per pixel.
func (l *layout) writePlanes(c *controller, black, colorPlane []byte, r window) {
	if l.rowPasses > 1 {
		l.writePlane(c, l.ramBlack, black, r)
		return
	}
	if c.m.Color == BWR {
		l.writePlane(c, l.ramBlack, black, r)
		l.writePlane(c, l.ramColor, colorPlane, r)
		return
	}
	if !l.bwColorOnly {
		l.writePlane(c, l.ramBlack, black, r)
	}
	l.writePlane(c, l.ramColor, black, r)
}

// writePlane sends cmd and the rows of src covering r, or filler rows when
// src is nil.
func (l *layout) writePlane(c *controller, cmd byte, src []byte, r window) {
	c.command(cmd)
	n := l.planeLen(r)
	if src != nil {
		c.data(src[:n]...)
		return
	}
	row := bytes.Repeat([]byte{l.filler}, r.bytes())
	for i := 0; i < r.h*l.rowPasses; i++ {
		c.data(row...)
	}
}
