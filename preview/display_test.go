// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"bytes"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/GermanBionicSystems/epaper/bitmap"
)

func readFrame(t *testing.T, mr *multipart.Reader, mediaType string) image.Image {
	t.Helper()
	part, err := mr.NextPart()
	if err != nil {
		t.Fatalf("NextPart() failed: %v", err)
	}
	defer part.Close()
	if got := part.Header.Get("Content-Type"); got != mediaType {
		t.Errorf("Content-Type = %q, want %q", got, mediaType)
	}
	b, err := io.ReadAll(part)
	if err != nil {
		t.Fatalf("ReadAll() failed: %v", err)
	}
	if n, _ := strconv.Atoi(part.Header.Get("Content-Length")); n != len(b) {
		t.Errorf("read %d bytes, Content-Length is %d", len(b), n)
	}
	dec := png.Decode
	if mediaType == "image/jpeg" {
		dec = jpeg.Decode
	}
	img, err := dec(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("decoding failed: %v", err)
	}
	return img
}

func connect(t *testing.T, url string) *multipart.Reader {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	mt, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || mt != "multipart/x-mixed-replace" {
		t.Fatalf("Content-Type = %q, %v", mt, err)
	}
	return multipart.NewReader(resp.Body, params["boundary"])
}

func TestDisplayStream(t *testing.T) {
	d := NewDisplay(&DisplayOpts{Width: 40, Height: 30})
	s := httptest.NewServer(d)
	defer s.Close()
	defer d.Halt()

	mr := connect(t, s.URL)
	img := readFrame(t, mr, "image/png")
	if got := img.Bounds().Size(); got != image.Pt(40, 30) {
		t.Errorf("size = %v", got)
	}
	if r, g, b, _ := img.At(3, 3).RGBA(); r != 0xFFFF || g != 0xFFFF || b != 0xFFFF {
		t.Errorf("initial pixel = %v", img.At(3, 3))
	}

	red := image.NewNRGBA(image.Rect(0, 0, 40, 30))
	draw.Draw(red, red.Bounds(), &image.Uniform{C: bitmap.Red}, image.Point{}, draw.Src)
	if err := d.Draw(d.Bounds(), red, image.Point{}); err != nil {
		t.Fatal(err)
	}
	img = readFrame(t, mr, "image/png")
	if r, g, b, _ := img.At(3, 3).RGBA(); r != 0xFFFF || g != 0 || b != 0 {
		t.Errorf("drawn pixel = %v", img.At(3, 3))
	}
}

func TestDisplayJPEG(t *testing.T) {
	d := NewDisplay(&DisplayOpts{Width: 16, Height: 16, Format: PNG})
	s := httptest.NewServer(d)
	defer s.Close()
	defer d.Halt()
	img := readFrame(t, connect(t, s.URL+"?format=jpeg"), "image/jpeg")
	if got := img.Bounds().Size(); got != image.Pt(16, 16) {
		t.Errorf("size = %v", got)
	}
}

func TestDisplayBadRequest(t *testing.T) {
	d := NewDisplay(&DisplayOpts{Width: 16, Height: 16})
	for _, tc := range []struct {
		method, target string
		want           int
	}{
		{http.MethodPost, "/", http.StatusMethodNotAllowed},
		{http.MethodGet, "/?format=gif", http.StatusBadRequest},
	} {
		rec := httptest.NewRecorder()
		d.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.target, nil))
		if rec.Code != tc.want {
			t.Errorf("%s %s = %d, want %d", tc.method, tc.target, rec.Code, tc.want)
		}
	}
}

func TestDisplayHalt(t *testing.T) {
	d := NewDisplay(&DisplayOpts{Width: 8, Height: 8})
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	rec := httptest.NewRecorder()
	d.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Body.Len() == 0 {
		t.Error("no frame before halt")
	}
}

func TestNilOpts(t *testing.T) {
	d := NewDisplay(nil)
	if got := d.Bounds(); !got.Empty() {
		t.Errorf("Display.Bounds() = %v", got)
	}
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	term := NewTerminal(nil)
	if got := term.Bounds(); !got.Empty() {
		t.Errorf("Terminal.Bounds() = %v", got)
	}
	if term.scale != 4 {
		t.Errorf("scale = %d", term.scale)
	}
}
