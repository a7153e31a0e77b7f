// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAlignWindow(t *testing.T) {
	for _, tc := range []struct {
		name       string
		x, y, w, h int
		want       window
		wantErr    bool
	}{
		{name: "full", w: 400, h: 300, want: window{w: 400, h: 300}},
		{name: "unaligned x", x: 13, y: 10, w: 12, h: 2, want: window{x: 8, y: 10, w: 16, h: 2}},
		{name: "pad width", x: 0, y: 0, w: 1, h: 1, want: window{w: 8, h: 1}},
		{name: "last byte", x: 399, y: 299, w: 1, h: 1, want: window{x: 392, y: 299, w: 8, h: 1}},
		{name: "x=390 w=20", x: 390, w: 20, h: 1, want: window{x: 384, w: 24, h: 1}, wantErr: true},
		{name: "too tall", y: 299, w: 8, h: 2, want: window{y: 299, w: 8, h: 2}, wantErr: true},
		{name: "empty", w: 0, h: 1, want: window{h: 1}, wantErr: true},
		{name: "negative", x: -8, w: 8, h: 1, want: window{x: -8, w: 8, h: 1}, wantErr: true},
		{name: "huge width", w: math.MaxInt, h: 1, want: window{w: math.MaxInt, h: 1}, wantErr: true},
		{name: "huge x", x: math.MaxInt - 7, w: 16, h: 1, want: window{x: math.MaxInt - 7, w: 16, h: 1}, wantErr: true},
		{name: "huge y", y: math.MaxInt, w: 8, h: 1, want: window{y: math.MaxInt, w: 8, h: 1}, wantErr: true},
		{name: "huge height", y: 1, w: 8, h: math.MaxInt, want: window{y: 1, w: 8, h: math.MaxInt}, wantErr: true},
		{name: "min x", x: math.MinInt, w: 8, h: 1, want: window{x: math.MinInt, w: 8, h: 1}, wantErr: true},
		{name: "x past panel", x: 400, w: 8, h: 1, want: window{x: 400, w: 8, h: 1}, wantErr: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := alignWindow(tc.x, tc.y, tc.w, tc.h, 400, 300)
			if diff := cmp.Diff(got, tc.want, cmp.AllowUnexported(window{})); diff != "" {
				t.Errorf("alignWindow() difference (-got +want):\n%s", diff)
			}
			if (err != nil) != tc.wantErr {
				t.Fatalf("alignWindow() = %v", err)
			}
			if err == nil {
				return
			}
			var be *BoundsError
			if !errors.As(err, &be) || !errors.Is(err, ErrOutOfBounds) {
				t.Fatalf("alignWindow() = %v, want *BoundsError", err)
			}
			if be.Rect != got.rect() || be.Size != image.Pt(400, 300) {
				t.Errorf("BoundsError = %+v", be)
			}
		})
	}
}

// Every aligned window is either entirely on the panel, or rejected with its
// aligned size intact.
func TestAlignWindowNeverClamps(t *testing.T) {
	panel := image.Rect(0, 0, 400, 300)
	for x := 0; x < 420; x += 3 {
		for w := 1; w < 70; w += 5 {
			for _, y := range []int{0, 150, 290, 299} {
				for _, h := range []int{1, 10, 11} {
					r, err := alignWindow(x, y, w, h, 400, 300)
					if r.x%8 != 0 || r.w%8 != 0 || r.w != (w+7)/8*8 || r.x > x || x-r.x >= 8 {
						t.Fatalf("alignWindow(%d, %d, %d, %d) = %+v", x, y, w, h, r)
					}
					in := r.rect().In(panel)
					if in != (err == nil) {
						t.Fatalf("alignWindow(%d, %d, %d, %d) = %+v, %v", x, y, w, h, r, err)
					}
				}
			}
		}
	}
}

func TestModelWindow(t *testing.T) {
	m, err := Lookup(UC8176_420_BW)
	if err != nil {
		t.Fatal(err)
	}
	r, err := m.Window(13, 10, 12, 2)
	if err != nil {
		t.Fatal(err)
	}
	if want := image.Rect(8, 10, 24, 12); r != want {
		t.Errorf("Window() = %v, want %v", r, want)
	}
	for _, args := range [][4]int{
		{0, 0, math.MaxInt, 1},
		{math.MaxInt - 7, 0, 16, 1},
		{0, math.MaxInt, 8, 1},
		{0, 0, 8, math.MaxInt},
	} {
		if _, err := m.Window(args[0], args[1], args[2], args[3]); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Window(%v) = %v, want ErrOutOfBounds", args, err)
		}
	}
}

func TestEndian(t *testing.T) {
	if diff := cmp.Diff(be16(nil, 0x18F, 7), []byte{0x01, 0x8F, 0x00, 0x07}); diff != "" {
		t.Errorf("be16() difference (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(le16([]byte{9}, 0x12B), []byte{9, 0x2B, 0x01}); diff != "" {
		t.Errorf("le16() difference (-got +want):\n%s", diff)
	}
}
