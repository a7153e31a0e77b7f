// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import "image"

// window is a write rectangle aligned to whole RAM bytes: x and w are
// multiples of 8.
type window struct {
	x, y, w, h int
}

func fullWindow(m *Model) window {
	return window{w: (m.Width + 7) / 8 * 8, h: m.Height}
}

// alignWindow moves x down to a byte boundary and pads w to whole bytes. The
// aligned window is rejected when it does not fit on the panel; it is never
// clamped.
//
// The checks are ordered so that no sum can overflow. A w wider than the
// panel is reported unpadded.
func alignWindow(x, y, w, h, width, height int) (window, error) {
	r := window{x: x - x%8, y: y, w: w, h: h}
	if w > 0 && w <= width {
		r.w = (w + 7) / 8 * 8
	}
	if x < 0 || y < 0 || w <= 0 || h <= 0 || x >= width || w > width || h > height || y > height-h || r.x > width-r.w {
		return r, &BoundsError{Rect: r.rect(), Size: image.Pt(width, height)}
	}
	return r, nil
}

// Window returns the area WriteImage(x, y, w, h) loads once aligned to whole
// bytes, or a *BoundsError when it does not fit on the panel.
func (m *Model) Window(x, y, w, h int) (image.Rectangle, error) {
	r, err := alignWindow(x, y, w, h, m.Width, m.Height)
	if err != nil {
		return image.Rectangle{}, err
	}
	return r.rect(), nil
}

// bytes returns the number of RAM bytes of a row of the window.
func (r window) bytes() int {
	return r.w / 8
}

func (r window) rect() image.Rectangle {
	return image.Rect(r.x, r.y, r.x+r.w, r.y+r.h)
}

// be16 appends the big endian encodings of v.
func be16(b []byte, v ...int) []byte {
	for _, x := range v {
		b = append(b, byte(x>>8), byte(x))
	}
	return b
}

// le16 appends the little endian encodings of v.
func le16(b []byte, v ...int) []byte {
	for _, x := range v {
		b = append(b, byte(x), byte(x>>8))
	}
	return b
}
