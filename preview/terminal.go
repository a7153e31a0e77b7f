// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
)

// TerminalOpts configures a Terminal.
type TerminalOpts struct {
	Width, Height int
	// Scale is the number of pixels per character column. A character row
	// covers twice as many pixels. Defaults to 4.
	Scale   int
	Palette *ansi256.Palette
	// W defaults to a colorable stdout.
	W io.Writer
}

// Terminal is a display.Drawer printing every Draw with ANSI colors.
type Terminal struct {
	w       io.Writer
	scale   int
	palette ansi256.Palette
	img     *image.NRGBA
	buf     bytes.Buffer
}

var _ display.Drawer = (*Terminal)(nil)

// NewTerminal returns a white Terminal. A nil opts gives an empty picture
// printed on stdout.
func NewTerminal(opts *TerminalOpts) *Terminal {
	if opts == nil {
		opts = &TerminalOpts{}
	}
	t := &Terminal{
		w:       opts.W,
		scale:   opts.Scale,
		palette: *ansi256.Default,
		img:     image.NewNRGBA(image.Rect(0, 0, opts.Width, opts.Height)),
	}
	if t.w == nil {
		t.w = colorable.NewColorableStdout()
	}
	if t.scale <= 0 {
		t.scale = 4
	}
	if opts.Palette != nil {
		t.palette = *opts.Palette
	}
	draw.Draw(t.img, t.img.Bounds(), image.White, image.Point{}, draw.Src)
	return t
}

func (t *Terminal) String() string {
	return fmt.Sprintf("preview.Terminal{%dx%d}", t.img.Rect.Dx(), t.img.Rect.Dy())
}

// Halt implements conn.Resource. It resets the terminal colors.
func (t *Terminal) Halt() error {
	_, err := io.WriteString(t.w, "\033[0m\n")
	return err
}

// ColorModel implements display.Drawer.
func (t *Terminal) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer.
func (t *Terminal) Bounds() image.Rectangle {
	return t.img.Bounds()
}

// Draw implements display.Drawer.
func (t *Terminal) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	draw.Draw(t.img, r, src, sp, draw.Src)
	t.buf.Reset()
	b := t.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += 2 * t.scale {
		t.buf.WriteString("\033[0m")
		for x := b.Min.X; x < b.Max.X; x += t.scale {
			t.buf.WriteString(t.palette.Block(t.sample(x, y)))
		}
		t.buf.WriteString("\033[0m\n")
	}
	_, err := t.buf.WriteTo(t.w)
	return err
}

// sample returns the darkest pixel of the cell at (x, y) so that thin lines
// are not lost.
func (t *Terminal) sample(x, y int) color.NRGBA {
	cell := image.Rect(x, y, x+t.scale, y+2*t.scale).Intersect(t.img.Rect)
	best := t.img.NRGBAAt(x, y)
	bestY := -1
	for py := cell.Min.Y; py < cell.Max.Y; py++ {
		for px := cell.Min.X; px < cell.Max.X; px++ {
			c := t.img.NRGBAAt(px, py)
			if l := int(c.R)*299 + int(c.G)*587 + int(c.B)*114; bestY < 0 || l < bestY {
				best, bestY = c, l
			}
		}
	}
	return best
}
