// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd_test

import (
	"fmt"
	"image"
	"log"

	"github.com/GermanBionicSystems/epaper/bitmap"
	"github.com/GermanBionicSystems/epaper/epd"
	"github.com/GermanBionicSystems/epaper/epd/epdspi"
	"github.com/GermanBionicSystems/epaper/epd/epdtest"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

func Example() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	p, err := spireg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()

	t, err := epdspi.NewHat(p, &epdspi.DefaultOpts)
	if err != nil {
		log.Fatal(err)
	}
	dev, err := epd.Open(t, epd.UC8176_420_BWR, nil)
	if err != nil {
		log.Fatal(err)
	}
	if err := dev.Clear(true); err != nil {
		log.Fatal(err)
	}

	img := image.NewNRGBA(image.Rect(0, 0, 100, 50))
	if err := bitmap.NewDrawer(dev, nil).Draw(image.Rect(8, 8, 108, 58), img, image.Point{}); err != nil {
		log.Fatal(err)
	}
	if err := dev.Sleep(); err != nil {
		log.Fatal(err)
	}
}

func ExampleLookup() {
	m, err := epd.Lookup(epd.SSD1619_420_BWR)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(&m)
	fmt.Println(m.StrideBytes(20))
	// Output:
	// SSD1619_420_BWR{SSD1619, BWR, 400x300}
	// 3
}

func ExampleDev_WriteImage() {
	rec := &epdtest.Record{}
	dev, err := epd.Open(rec, epd.SSD1619_420_BW, nil)
	if err != nil {
		log.Fatal(err)
	}
	rec.Clear()
	black := []byte{0x00, 0xFF}
	if err := dev.WriteImage(black, nil, 8, 0, 16, 1); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("% X\n", rec.Commands())
	// Output:
	// 11 44 45 4E 4F 24 26
}
