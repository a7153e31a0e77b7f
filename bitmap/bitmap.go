// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bitmap

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/GermanBionicSystems/epaper/epd"
	"github.com/MaxHalford/halfgone"
	"github.com/disintegration/imaging"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Colors shown by the panels.
var (
	White  = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	Black  = color.NRGBA{A: 0xFF}
	Red    = color.NRGBA{R: 0xFF, A: 0xFF}
	Yellow = color.NRGBA{R: 0xFF, G: 0xFF, A: 0xFF}
)

// Palette returns the colors a panel of color capability c can show.
func Palette(c epd.Color) color.Palette {
	switch c {
	case epd.BWR:
		return color.Palette{White, Black, Red}
	case epd.BWRY:
		return color.Palette{White, Black, Red, Yellow}
	default:
		return color.Palette{White, Black}
	}
}

// Ink is the color of a pixel on the panel.
type Ink uint8

// Possible Ink.
const (
	InkWhite Ink = iota
	InkBlack
	InkRed
	InkYellow
)

// 2 bit codes of the four color panels.
var inkCodes = [...]byte{
	InkWhite:  0x1,
	InkBlack:  0x0,
	InkRed:    0x3,
	InkYellow: 0x2,
}

// Decode2bpp returns the Ink of a 2 bit per pixel code.
func Decode2bpp(code byte) Ink {
	switch code & 3 {
	case 0x0:
		return InkBlack
	case 0x2:
		return InkYellow
	case 0x3:
		return InkRed
	default:
		return InkWhite
	}
}

// Classify decides the Ink of a pixel on a panel of color capability c.
//
// Transparent pixels are white. Dark pixels are black; on color panels,
// saturated red and yellow pixels go to the color, the rest is white. BW
// panels use the image1bit threshold.
func Classify(c color.Color, capability epd.Color) Ink {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A < 0x80 {
		return InkWhite
	}
	if capability != epd.BWR && capability != epd.BWRY {
		if image1bit.BitModel.Convert(n).(image1bit.Bit) == image1bit.On {
			return InkWhite
		}
		return InkBlack
	}
	r, g, b := int(n.R), int(n.G), int(n.B)
	luma := (299*r + 587*g + 114*b) / 1000
	if luma < 64 {
		return InkBlack
	}
	if capability == epd.BWRY && r > 128 && g > 128 && r-b > 64 && g-b > 64 {
		return InkYellow
	}
	if r > 128 && r-max(g, b) > 32 {
		return InkRed
	}
	return InkWhite
}

// Opts controls the conversion.
type Opts struct {
	// Dither spreads the quantization error of gray levels over black and
	// white pixels with Floyd-Steinberg.
	Dither bool
}

// Planes holds packed pixel buffers ready for epd.Dev.WriteImage.
type Planes struct {
	// Panel area covered. Min.X is a multiple of 8.
	Rect image.Rectangle
	// Bytes per row.
	Stride int
	Black  []byte
	// Nil unless the panel is BWR.
	Color []byte
}

// Write loads the planes into the panel RAM.
func (p *Planes) Write(d interface {
	WriteImage(black, color []byte, x, y, w, h int) error
}) error {
	return d.WriteImage(p.Black, p.Color, p.Rect.Min.X, p.Rect.Min.Y, p.Rect.Dx(), p.Rect.Dy())
}

// Pack converts the pixels of img for a panel of color capability c. The
// bounds of img are the panel coordinates; they are widened to whole bytes
// with white pixels.
func Pack(img image.Image, c epd.Color, opts *Opts) *Planes {
	b := img.Bounds()
	r := image.Rect(b.Min.X-b.Min.X%8, b.Min.Y, b.Max.X, b.Max.Y)
	wb := (r.Dx() + 7) / 8
	r.Max.X = r.Min.X + wb*8

	var dithered *image.Gray
	if opts != nil && opts.Dither {
		gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(gray, gray.Bounds(), image.White, image.Point{}, draw.Src)
		draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Over)
		dithered = halfgone.FloydSteinbergDitherer{}.Apply(gray)
	}
	ink := func(x, y int) Ink {
		if !image.Pt(x, y).In(b) {
			return InkWhite
		}
		i := Classify(img.At(x, y), c)
		if dithered != nil && (i == InkWhite || i == InkBlack) {
			if dithered.GrayAt(x-b.Min.X, y-b.Min.Y).Y < 0x80 {
				return InkBlack
			}
			return InkWhite
		}
		return i
	}

	if c == epd.BWRY {
		return pack2bpp(r, wb, ink)
	}
	p := &Planes{Rect: r, Stride: wb, Black: fill(wb*r.Dy(), 0xFF)}
	if c == epd.BWR {
		p.Color = fill(wb*r.Dy(), 0xFF)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := (y - r.Min.Y) * wb
		for x := r.Min.X; x < r.Max.X; x++ {
			px := x - r.Min.X
			mask := byte(0x80 >> (px & 7))
			switch ink(x, y) {
			case InkBlack:
				p.Black[row+px>>3] &^= mask
			case InkRed, InkYellow:
				p.Color[row+px>>3] &^= mask
			}
		}
	}
	return p
}

func pack2bpp(r image.Rectangle, wb int, ink func(x, y int) Ink) *Planes {
	stride := 2 * wb
	p := &Planes{Rect: r, Stride: stride, Black: fill(stride*r.Dy(), 0x55)}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := (y - r.Min.Y) * stride
		for x := r.Min.X; x < r.Max.X; x++ {
			px := x - r.Min.X
			shift := 6 - 2*uint(px&3)
			i := row + px>>2
			p.Black[i] = p.Black[i]&^(3<<shift) | inkCodes[ink(x, y)]<<shift
		}
	}
	return p
}

func fill(n int, v byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = v
	}
	return b
}

// Fit scales img to fit in w×h keeping its aspect ratio, centered on a
// white w×h canvas at the origin.
func Fit(img image.Image, w, h int) *image.NRGBA {
	scaled := imaging.Fit(img, w, h, imaging.Lanczos)
	return imaging.PasteCenter(imaging.New(w, h, White), scaled)
}
