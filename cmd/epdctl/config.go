// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/GermanBionicSystems/epaper/epd"
	"github.com/GermanBionicSystems/epaper/epd/epdspi"
	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"
)

// Pins are gpioreg names. A config without pins uses the Waveshare HAT
// wiring.
type Pins struct {
	DC   string `yaml:"dc"`
	CS   string `yaml:"cs,omitempty"`
	RST  string `yaml:"rst"`
	Busy string `yaml:"busy"`
}

// Config is the content of the epdctl YAML file.
type Config struct {
	Model epd.ModelID `yaml:"model"`
	// SPI is a spireg port name; empty selects the first port.
	SPI       string `yaml:"spi"`
	Frequency string `yaml:"frequency"`
	Pins      *Pins  `yaml:"pins,omitempty"`
	Dither    bool   `yaml:"dither"`
	// Listen is the address of the preview HTTP server.
	Listen string `yaml:"listen"`
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() *Config {
	c := &Config{}
	c.Normalize()
	return c
}

// Normalize fills in zero values.
func (c *Config) Normalize() {
	if c.Model == 0 {
		c.Model = epd.UC8176_420_BWR
	}
	if c.Frequency == "" {
		c.Frequency = epdspi.DefaultOpts.Frequency.String()
	}
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
}

// Validate reports values Normalize cannot fix.
func (c *Config) Validate() error {
	if _, err := epd.Lookup(c.Model); err != nil {
		return err
	}
	if _, err := c.frequency(); err != nil {
		return err
	}
	if p := c.Pins; p != nil && (p.DC == "" || p.RST == "" || p.Busy == "") {
		return errors.New("config: pins: dc, rst and busy are required")
	}
	return nil
}

func (c *Config) frequency() (physic.Frequency, error) {
	var f physic.Frequency
	if err := f.Set(c.Frequency); err != nil {
		return 0, fmt.Errorf("config: frequency %q: %w", c.Frequency, err)
	}
	return f, nil
}

// Load reads the config at path. A missing file is created with the
// defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config: path is empty")
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		c := DefaultConfig()
		return c, Save(path, c)
	}
	if err != nil {
		return nil, err
	}
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	c.Normalize()
	return c, c.Validate()
}

// Save writes c to path atomically, readable only by the owner.
func Save(path string, c *Config) error {
	c.Normalize()
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".epdctl-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
