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
	"image/jpeg"
	"image/png"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"periph.io/x/conn/v3/display"
)

// DisplayOpts configures a Display.
type DisplayOpts struct {
	// Width and Height of the picture.
	Width, Height int
	// Format is used when the request has no "format" parameter.
	Format Format
	// JPEGQuality defaults to jpeg.DefaultQuality.
	JPEGQuality int
	// Keepalive resends the last frame when nothing was drawn for that long.
	// 0 disables it.
	Keepalive time.Duration
	// Logger defaults to discarding.
	Logger *log.Logger
}

// Display is a display.Drawer serving its content as an MJPEG stream.
//
// Every client gets the current frame on connection and a new one after each
// Draw.
type Display struct {
	opts DisplayOpts
	log  *log.Logger
	png  png.Encoder

	mu      sync.Mutex
	img     *image.NRGBA
	frames  map[Format][]byte
	clients map[chan struct{}]struct{}
	halted  chan struct{}
}

var (
	_ display.Drawer = (*Display)(nil)
	_ http.Handler   = (*Display)(nil)
)

// NewDisplay returns a white Display. A nil opts gives an empty picture.
func NewDisplay(opts *DisplayOpts) *Display {
	if opts == nil {
		opts = &DisplayOpts{}
	}
	d := &Display{
		opts:    *opts,
		log:     opts.Logger,
		png:     png.Encoder{CompressionLevel: png.BestSpeed},
		img:     image.NewNRGBA(image.Rect(0, 0, opts.Width, opts.Height)),
		frames:  map[Format][]byte{},
		clients: map[chan struct{}]struct{}{},
		halted:  make(chan struct{}),
	}
	if d.log == nil {
		d.log = log.New(io.Discard, "", 0)
	}
	if d.opts.JPEGQuality == 0 {
		d.opts.JPEGQuality = jpeg.DefaultQuality
	}
	draw.Draw(d.img, d.img.Bounds(), image.White, image.Point{}, draw.Src)
	return d
}

func (d *Display) String() string {
	return fmt.Sprintf("preview.Display{%dx%d}", d.opts.Width, d.opts.Height)
}

// Halt implements conn.Resource. It ends all streams.
func (d *Display) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	select {
	case <-d.halted:
	default:
		close(d.halted)
	}
	return nil
}

// ColorModel implements display.Drawer.
func (d *Display) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer.
func (d *Display) Bounds() image.Rectangle {
	return d.img.Bounds()
}

// Draw implements display.Drawer.
func (d *Display) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	draw.Draw(d.img, r, src, sp, draw.Src)
	clear(d.frames)
	for c := range d.clients {
		select {
		case c <- struct{}{}:
		default:
		}
	}
	return nil
}

// frame returns the current picture encoded as f.
func (d *Display) frame(f Format) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if b, ok := d.frames[f]; ok {
		return b, nil
	}
	var buf bytes.Buffer
	var err error
	if f == JPEG {
		err = jpeg.Encode(&buf, d.img, &jpeg.Options{Quality: d.opts.JPEGQuality})
	} else {
		err = d.png.Encode(&buf, d.img)
	}
	if err != nil {
		return nil, fmt.Errorf("preview: encoding %s: %w", f, err)
	}
	d.frames[f] = buf.Bytes()
	return buf.Bytes(), nil
}

func (d *Display) subscribe() chan struct{} {
	c := make(chan struct{}, 1)
	d.mu.Lock()
	d.clients[c] = struct{}{}
	d.mu.Unlock()
	return c
}

func (d *Display) unsubscribe(c chan struct{}) {
	d.mu.Lock()
	delete(d.clients, c)
	d.mu.Unlock()
}

// ServeHTTP streams the picture to a GET request. "?format=png" or
// "?format=jpeg" overrides the default format.
func (d *Display) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}
	f := d.opts.Format
	if v := r.URL.Query().Get("format"); v != "" {
		if err := f.Set(v); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	fw := newFrameWriter(w)
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+fw.boundary)

	c := d.subscribe()
	defer d.unsubscribe(c)

	var tick <-chan time.Time
	if d.opts.Keepalive > 0 {
		t := time.NewTicker(d.opts.Keepalive)
		defer t.Stop()
		tick = t.C
	}
	d.log.Printf("preview: %s connected (%s)", r.RemoteAddr, f)
	for {
		b, err := d.frame(f)
		if err != nil {
			d.log.Print(err)
			return
		}
		// There is no way to report an error inside the stream.
		if err := fw.write(f.mimeType(), b); err != nil {
			d.log.Printf("preview: %s: %v", r.RemoteAddr, err)
			return
		}
		if fl, ok := w.(http.Flusher); ok {
			fl.Flush()
		}
		select {
		case <-c:
		case <-tick:
		case <-d.halted:
			return
		case <-r.Context().Done():
			d.log.Printf("preview: %s disconnected", r.RemoteAddr)
			return
		}
	}
}
