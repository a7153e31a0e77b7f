// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package epdspi connects e-paper controllers over a 4 wire SPI bus with
// data/command, chip select, reset and busy lines.
//
// Dev implements epd.Transport. NewHat uses the pinout of the Waveshare
// e-Paper HAT on the Raspberry Pi header.
package epdspi
