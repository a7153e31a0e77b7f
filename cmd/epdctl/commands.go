// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/GermanBionicSystems/epaper/bitmap"
	"github.com/GermanBionicSystems/epaper/epd"
	"github.com/GermanBionicSystems/epaper/epd/epdspi"
	"github.com/GermanBionicSystems/epaper/preview"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

var errUsage = errors.New("invalid usage")

type app struct {
	cfg *Config
	out io.Writer
	// log reports progress, driver receives the epd logging.
	log      *log.Logger
	driver   *log.Logger
	fast     bool
	terminal bool
	format   preview.Format
	// open returns the transport of the panel. Nil uses the hardware.
	open func() (epd.Transport, func() error, error)
}

func (a *app) run(ctx context.Context, args []string) error {
	cmd, args := args[0], args[1:]
	want := map[string]int{"draw": 1, "force-temp": 1, "preview": 1}[cmd]
	if len(args) != want {
		return fmt.Errorf("%w: %s takes %d argument(s)", errUsage, cmd, want)
	}
	switch cmd {
	case "models":
		return a.models()
	case "preview":
		return a.preview(ctx, args[0])
	case "init", "clear", "draw", "pattern", "temp", "force-temp", "sleep", "dump-lut":
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}

	d, closer, err := a.openDev()
	if err != nil {
		return err
	}
	defer closer()
	switch cmd {
	case "init":
		if a.fast {
			return d.InitFast()
		}
		return nil
	case "clear":
		return d.Clear(true)
	case "draw":
		img, err := loadImage(args[0])
		if err != nil {
			return err
		}
		return a.show(d, bitmap.Fit(img, d.Model().Width, d.Model().Height))
	case "pattern":
		return a.show(d, testCard(d.Model()))
	case "temp":
		v, err := d.ReadTemperature()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(a.out, "%d°C\n", v)
		return err
	case "force-temp":
		v, err := strconv.ParseInt(args[0], 10, 8)
		if err != nil {
			return fmt.Errorf("%w: temperature: %v", errUsage, err)
		}
		return d.ForceTemperature(int8(v))
	case "sleep":
		return d.Sleep()
	default:
		b, err := d.DumpLUT()
		if err != nil {
			return err
		}
		_, err = io.WriteString(a.out, hex.Dump(b))
		return err
	}
}

func (a *app) models() error {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCONTROLLER\tCOLOR\tSIZE")
	for _, m := range epd.Models() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%dx%d\n", m.ID, m.Name, m.Controller, m.Color, m.Width, m.Height)
	}
	return w.Flush()
}

// openDev opens and initializes the configured panel. A busy timeout
// during init is reported and ignored, as the firmware does.
func (a *app) openDev() (*epd.Dev, func() error, error) {
	open := a.open
	if open == nil {
		open = a.openHardware
	}
	t, closer, err := open()
	if err != nil {
		return nil, nil, err
	}
	d, err := epd.Open(t, a.cfg.Model, &epd.Opts{Logger: a.driver})
	if errors.Is(err, epd.ErrBusyTimeout) {
		a.log.Printf("epdctl: %v", err)
		err = nil
	}
	if err != nil {
		closer()
		return nil, nil, err
	}
	a.log.Printf("epdctl: %s on %v", d, t)
	return d, closer, nil
}

func (a *app) openHardware() (epd.Transport, func() error, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, err
	}
	f, err := a.cfg.frequency()
	if err != nil {
		return nil, nil, err
	}
	p, err := spireg.Open(a.cfg.SPI)
	if err != nil {
		return nil, nil, err
	}
	opts := epdspi.DefaultOpts
	opts.Frequency = f
	var t *epdspi.Dev
	if pins := a.cfg.Pins; pins == nil {
		t, err = epdspi.NewHat(p, &opts)
	} else {
		t, err = openPins(p, pins, &opts)
	}
	if err != nil {
		p.Close()
		return nil, nil, err
	}
	return t, p.Close, nil
}

func openPins(p spi.Port, pins *Pins, opts *epdspi.Opts) (*epdspi.Dev, error) {
	var out [4]gpio.PinIO
	for i, name := range []string{pins.DC, pins.CS, pins.RST, pins.Busy} {
		if name == "" {
			continue
		}
		if out[i] = gpioreg.ByName(name); out[i] == nil {
			return nil, fmt.Errorf("config: unknown pin %q", name)
		}
	}
	var cs gpio.PinOut
	if out[1] != nil {
		cs = out[1]
	}
	return epdspi.New(p, out[0], cs, out[2], out[3], opts)
}

// show draws img on the whole panel and puts it to sleep.
func (a *app) show(p bitmap.Panel, img image.Image) error {
	d := bitmap.NewDrawer(p, &bitmap.Opts{Dither: a.cfg.Dither})
	start := time.Now()
	if err := d.Draw(d.Bounds(), img, img.Bounds().Min); err != nil {
		return err
	}
	a.log.Printf("epdctl: drawn in %s", time.Since(start).Round(time.Millisecond))
	return d.Halt()
}

func (a *app) preview(ctx context.Context, path string) error {
	m, err := epd.Lookup(a.cfg.Model)
	if err != nil {
		return err
	}
	img, err := loadImage(path)
	if err != nil {
		return err
	}
	if a.terminal {
		t := preview.NewTerminal(&preview.TerminalOpts{Width: m.Width, Height: m.Height, W: a.out})
		e, err := preview.NewEmulator(m.ID, t)
		if err != nil {
			return err
		}
		if err := a.show(e, bitmap.Fit(img, m.Width, m.Height)); err != nil {
			return err
		}
		return t.Halt()
	}

	disp := preview.NewDisplay(&preview.DisplayOpts{
		Width:     m.Width,
		Height:    m.Height,
		Format:    a.format,
		Keepalive: 10 * time.Second,
		Logger:    a.driver,
	})
	e, err := preview.NewEmulator(m.ID, disp)
	if err != nil {
		return err
	}
	if err := a.show(e, bitmap.Fit(img, m.Width, m.Height)); err != nil {
		return err
	}
	srv := &http.Server{Addr: a.cfg.Listen, Handler: disp}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	a.log.Printf("epdctl: serving %s on http://%s/", e, a.cfg.Listen)
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	disp.Halt()
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// testCard renders a frame, a grid and one swatch per ink of m.
func testCard(m epd.Model) image.Image {
	dc := gg.NewContext(m.Width, m.Height)
	dc.SetColor(bitmap.White)
	dc.Clear()
	dc.SetColor(bitmap.Black)
	dc.SetLineWidth(2)
	for x := 50; x < m.Width; x += 50 {
		dc.DrawLine(float64(x), 0, float64(x), float64(m.Height))
	}
	for y := 50; y < m.Height; y += 50 {
		dc.DrawLine(0, float64(y), float64(m.Width), float64(y))
	}
	dc.Stroke()
	dc.SetLineWidth(4)
	dc.DrawRectangle(2, 2, float64(m.Width-4), float64(m.Height-4))
	dc.Stroke()
	for i, c := range bitmap.Palette(m.Color)[1:] {
		dc.SetColor(c)
		dc.DrawRectangle(float64(60+110*i), 110, 80, 80)
		dc.Fill()
	}
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(bitmap.Black)
	dc.DrawStringAnchored(m.Name, float64(m.Width)/2, float64(m.Height)-30, 0.5, 0.5)
	return dc.Image()
}
