// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"fmt"
	"image"
	"sync"

	"github.com/GermanBionicSystems/epaper/epd"
	"periph.io/x/conn/v3/display"
)

// Emulator accepts the writes of a panel and shows the result on a
// display.Drawer when refreshed.
//
// It can be used with bitmap.NewDrawer in place of an *epd.Dev.
type Emulator struct {
	m   epd.Model
	out display.Drawer

	mu     sync.Mutex
	ram    *Canvas
	frames int
}

// NewEmulator returns an emulator of the panel id drawing to out.
func NewEmulator(id epd.ModelID, out display.Drawer) (*Emulator, error) {
	m, err := epd.Lookup(id)
	if err != nil {
		return nil, err
	}
	return &Emulator{m: m, out: out, ram: NewCanvas(m)}, nil
}

func (e *Emulator) String() string {
	return fmt.Sprintf("preview.Emulator{%s, %s}", e.m.Name, e.out)
}

// Model returns the emulated panel.
func (e *Emulator) Model() epd.Model {
	return e.m
}

// Frames returns the number of refreshes so far.
func (e *Emulator) Frames() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames
}

// Clear paints the panel white and optionally refreshes it.
func (e *Emulator) Clear(refresh bool) error {
	e.mu.Lock()
	e.ram.Clear()
	e.mu.Unlock()
	if refresh {
		return e.Refresh()
	}
	return nil
}

// WriteImage aligns and rejects windows like epd.Dev.WriteImage.
func (e *Emulator) WriteImage(black, color []byte, x, y, w, h int) error {
	r, err := e.m.Window(x, y, w, h)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.ram.DrawBitmap(black, color, r.Min.X, r.Min.Y, r.Dx(), r.Dy())
	e.mu.Unlock()
	return nil
}

// Refresh draws the panel content on the output.
func (e *Emulator) Refresh() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.frames++
	return e.out.Draw(e.out.Bounds(), e.ram.Image(), image.Point{})
}

// Sleep implements bitmap.Panel. The picture is kept.
func (e *Emulator) Sleep() error {
	return nil
}
