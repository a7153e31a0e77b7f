// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bitmap

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/GermanBionicSystems/epaper/epd"
	"periph.io/x/conn/v3/display"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Panel is the part of *epd.Dev a Drawer uses.
type Panel interface {
	Model() epd.Model
	WriteImage(black, color []byte, x, y, w, h int) error
	Refresh() error
	Sleep() error
}

// Drawer draws images on a panel. Every Draw loads the area and refreshes
// the panel.
type Drawer struct {
	p    Panel
	m    epd.Model
	opts Opts
}

// NewDrawer returns a Drawer for p.
func NewDrawer(p Panel, opts *Opts) *Drawer {
	d := &Drawer{p: p, m: p.Model()}
	if opts != nil {
		d.opts = *opts
	}
	return d
}

func (d *Drawer) String() string {
	return fmt.Sprintf("bitmap.Drawer{%s}", d.m.Name)
}

// Halt puts the panel to sleep. The image stays visible.
func (d *Drawer) Halt() error {
	return d.p.Sleep()
}

// ColorModel implements display.Drawer.
func (d *Drawer) ColorModel() color.Model {
	if d.m.Color == epd.BW {
		return image1bit.BitModel
	}
	return Palette(d.m.Color)
}

// Bounds implements display.Drawer.
func (d *Drawer) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.m.Width, d.m.Height)
}

// Draw implements display.Drawer.
//
// The area is widened to whole bytes; the added columns are drawn white.
func (d *Drawer) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.Bounds())
	if r.Empty() {
		return nil
	}
	canvas := image.NewNRGBA(r)
	draw.Draw(canvas, r, src, sp, draw.Src)
	if err := Pack(canvas, d.m.Color, &d.opts).Write(d.p); err != nil {
		return err
	}
	return d.p.Refresh()
}

var _ display.Drawer = &Drawer{}
