// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"fmt"
	"strings"
)

// Color is the color capability of a panel.
type Color uint8

// Supported Color.
const (
	// BW panels show black and white.
	BW Color = iota + 1
	// BWR panels have an additional red plane.
	BWR
	// BWRY panels encode black, white, red and yellow with 2 bits per pixel.
	BWRY
)

func (c Color) String() string {
	switch c {
	case BW:
		return "BW"
	case BWR:
		return "BWR"
	case BWRY:
		return "BWRY"
	default:
		return fmt.Sprintf("Color(%d)", uint8(c))
	}
}

// Set sets the Color to a value represented by the string s. Set implements
// the flag.Value interface.
func (c *Color) Set(s string) error {
	switch strings.ToUpper(s) {
	case "BW":
		*c = BW
	case "BWR":
		*c = BWR
	case "BWRY":
		*c = BWRY
	default:
		return fmt.Errorf("unknown color %q: expected BW, BWR or BWRY", s)
	}
	return nil
}

// Controller identifies a controller chip family.
type Controller uint8

// Supported Controller.
const (
	UC8176 Controller = iota + 1
	SSD1619
	JD79668
)

func (c Controller) String() string {
	switch c {
	case UC8176:
		return "UC8176"
	case SSD1619:
		return "SSD1619"
	case JD79668:
		return "JD79668"
	default:
		return fmt.Sprintf("Controller(%d)", uint8(c))
	}
}

// ModelID identifies an entry of the model catalog.
type ModelID uint8

// Supported ModelID. The numeric values are stable and match the model
// numbers stored in existing device configurations.
const (
	UC8176_420_BW    ModelID = 1
	SSD1619_420_BWR  ModelID = 2
	UC8176_420_BWR   ModelID = 3
	SSD1619_420_BW   ModelID = 4
	JD79668_420_BWRY ModelID = 5
)

func (id ModelID) String() string {
	if m, ok := modelByID(id); ok {
		return m.Name
	}
	return fmt.Sprintf("ModelID(%d)", uint8(id))
}

// Set sets the ModelID to a value represented by the string s, either a
// catalog name such as "UC8176_420_BWR" or its number. Set implements the
// flag.Value interface.
func (id *ModelID) Set(s string) error {
	for i := range catalog {
		if strings.EqualFold(catalog[i].Name, s) || fmt.Sprint(uint8(catalog[i].ID)) == s {
			*id = catalog[i].ID
			return nil
		}
	}
	return fmt.Errorf("%w %q: expected one of %s", ErrUnknownModel, s, strings.Join(modelNames(), ", "))
}

// MarshalText implements encoding.TextMarshaler.
func (id ModelID) MarshalText() ([]byte, error) {
	if _, ok := modelByID(id); !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownModel, uint8(id))
	}
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ModelID) UnmarshalText(text []byte) error {
	return id.Set(string(text))
}

// Model describes a supported panel. Models are immutable; Lookup and Models
// return copies of the catalog entries.
type Model struct {
	ID         ModelID
	Name       string
	Controller Controller
	Color      Color
	// Panel size in pixels.
	Width  int
	Height int

	drv driver
}

func (m *Model) String() string {
	return fmt.Sprintf("%s{%s, %s, %dx%d}", m.Name, m.Controller, m.Color, m.Width, m.Height)
}

// RAMCommands returns the commands that start a write into the black and
// color RAM of the controller. Controllers with a single 2-bit plane return
// the same command twice.
func (m *Model) RAMCommands() (black, color byte) {
	l := m.drv.layout()
	return l.ramBlack, l.ramColor
}

// StrideBytes returns the number of bytes per row of a pixel buffer covering
// w pixels on this model.
func (m *Model) StrideBytes(w int) int {
	return (w + 7) / 8 * m.drv.layout().rowPasses
}

var catalog = [...]Model{
	{
		ID:         UC8176_420_BW,
		Name:       "UC8176_420_BW",
		Controller: UC8176,
		Color:      BW,
		Width:      400,
		Height:     300,
		drv:        uc8176Driver{},
	},
	{
		ID:         SSD1619_420_BWR,
		Name:       "SSD1619_420_BWR",
		Controller: SSD1619,
		Color:      BWR,
		Width:      400,
		Height:     300,
		drv:        ssd1619Driver{},
	},
	{
		ID:         UC8176_420_BWR,
		Name:       "UC8176_420_BWR",
		Controller: UC8176,
		Color:      BWR,
		Width:      400,
		Height:     300,
		drv:        uc8176Driver{},
	},
	{
		ID:         SSD1619_420_BW,
		Name:       "SSD1619_420_BW",
		Controller: SSD1619,
		Color:      BW,
		Width:      400,
		Height:     300,
		drv:        ssd1619Driver{},
	},
	{
		ID:         JD79668_420_BWRY,
		Name:       "JD79668_420_BWRY",
		Controller: JD79668,
		Color:      BWRY,
		Width:      400,
		Height:     300,
		drv:        jd79668Driver{},
	},
}

func modelByID(id ModelID) (*Model, bool) {
	for i := range catalog {
		if catalog[i].ID == id {
			return &catalog[i], true
		}
	}
	return nil, false
}

func modelNames() []string {
	names := make([]string, len(catalog))
	for i := range catalog {
		names[i] = catalog[i].Name
	}
	return names
}

// Lookup returns the catalog entry for id.
func Lookup(id ModelID) (Model, error) {
	m, ok := modelByID(id)
	if !ok {
		return Model{}, fmt.Errorf("%w: %d", ErrUnknownModel, uint8(id))
	}
	return *m, nil
}

// Models returns all supported models ordered by ID.
func Models() []Model {
	out := make([]Model, 0, len(catalog))
	for id := ModelID(1); len(out) < len(catalog); id++ {
		if m, ok := modelByID(id); ok {
			out = append(out, *m)
		}
	}
	return out
}
