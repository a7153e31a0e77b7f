// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/GermanBionicSystems/epaper/epd"
	"github.com/google/go-cmp/cmp"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "epdctl.yaml")
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := &Config{Model: epd.UC8176_420_BWR, Frequency: "4MHz", Listen: "127.0.0.1:8080"}
	if diff := cmp.Diff(c, want); diff != "" {
		t.Errorf("Load() difference (-got +want):\n%s", diff)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := fi.Mode().Perm(); perm != 0o600 {
		t.Errorf("mode = %v", perm)
	}
	again, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(again, want); diff != "" {
		t.Errorf("Load() difference (-got +want):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	for _, tc := range []struct {
		name    string
		yaml    string
		want    *Config
		wantErr bool
	}{
		{
			name: "partial",
			yaml: "model: ssd1619_420_bw\ndither: true\n",
			want: &Config{Model: epd.SSD1619_420_BW, Frequency: "4MHz", Dither: true, Listen: "127.0.0.1:8080"},
		},
		{
			name: "numeric model and pins",
			yaml: "model: 5\nspi: SPI0.0\nfrequency: 2MHz\npins:\n  dc: GPIO25\n  rst: GPIO17\n  busy: GPIO24\n",
			want: &Config{
				Model:     epd.JD79668_420_BWRY,
				SPI:       "SPI0.0",
				Frequency: "2MHz",
				Pins:      &Pins{DC: "GPIO25", RST: "GPIO17", Busy: "GPIO24"},
				Listen:    "127.0.0.1:8080",
			},
		},
		{name: "unknown model", yaml: "model: EPD_42\n", wantErr: true},
		{name: "bad frequency", yaml: "frequency: fast\n", wantErr: true},
		{name: "missing pin", yaml: "pins:\n  dc: GPIO25\n", wantErr: true},
		{name: "not yaml", yaml: "model: [\n", wantErr: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.yaml")
			if err := os.WriteFile(path, []byte(tc.yaml), 0o600); err != nil {
				t.Fatal(err)
			}
			c, err := Load(path)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Load() error = %v", err)
			}
			if tc.wantErr {
				return
			}
			if diff := cmp.Diff(c, tc.want); diff != "" {
				t.Errorf("Load() difference (-got +want):\n%s", diff)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	want := &Config{
		Model:     epd.SSD1619_420_BWR,
		Frequency: "8MHz",
		Pins:      &Pins{DC: "GPIO25", CS: "GPIO8", RST: "GPIO17", Busy: "GPIO24"},
		Listen:    ":9000",
	}
	if err := Save(path, want); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Load() difference (-got +want):\n%s", diff)
	}
	if err := Save(path, &Config{Model: epd.ModelID(9)}); err == nil {
		t.Error("Save() accepted an unknown model")
	}
	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(path), ".epdctl-*"))
	if len(matches) != 0 {
		t.Errorf("temporary files left: %v", matches)
	}
}
