// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"image"
	"image/draw"

	"github.com/GermanBionicSystems/epaper/bitmap"
	"github.com/GermanBionicSystems/epaper/epd"
)

var inkColors = [...]image.Uniform{
	bitmap.InkWhite:  {C: bitmap.White},
	bitmap.InkBlack:  {C: bitmap.Black},
	bitmap.InkRed:    {C: bitmap.Red},
	bitmap.InkYellow: {C: bitmap.Yellow},
}

// Canvas is the picture of a panel.
type Canvas struct {
	img   *image.NRGBA
	color epd.Color
}

// NewCanvas returns a white canvas of the size of m.
func NewCanvas(m epd.Model) *Canvas {
	c := &Canvas{img: image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height)), color: m.Color}
	c.Clear()
	return c
}

// Image returns the canvas content. It changes with later draws.
func (c *Canvas) Image() *image.NRGBA {
	return c.img
}

// Clear paints the canvas white.
func (c *Canvas) Clear() {
	draw.Draw(c.img, c.img.Bounds(), &inkColors[bitmap.InkWhite], image.Point{}, draw.Src)
}

// DrawBitmap composes packed planes at (x, y), clipped to the canvas.
//
// A 0 bit is ink. A color pixel wins over a black one. A nil black plane is
// white, a nil color plane has no color. Four color canvases decode black as
// 2 bits per pixel and ignore color.
func (c *Canvas) DrawBitmap(black, color []byte, x, y, w, h int) {
	wb := (w + 7) / 8
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			ink := bitmap.InkWhite
			if c.color == epd.BWRY {
				i := row*2*wb + col/4
				if black != nil && i < len(black) {
					ink = bitmap.Decode2bpp(black[i] >> (6 - 2*uint(col%4)))
				}
			} else {
				i := row*wb + col/8
				mask := byte(0x80 >> (col % 8))
				if black != nil && i < len(black) && black[i]&mask == 0 {
					ink = bitmap.InkBlack
				}
				if c.color == epd.BWR && color != nil && i < len(color) && color[i]&mask == 0 {
					ink = bitmap.InkRed
				}
			}
			p := image.Pt(x+col, y+row)
			if p.In(c.img.Rect) {
				c.img.Set(p.X, p.Y, inkColors[ink].C)
			}
		}
	}
}
