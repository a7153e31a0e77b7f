// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package preview shows what a panel would display, without the panel.
//
// Emulator takes the same packed planes as epd.Dev and composes them on a
// Canvas. On every refresh the canvas is drawn to a display.Drawer: Display
// streams it to HTTP clients as MJPEG
// (https://en.wikipedia.org/wiki/Motion_JPEG), Terminal prints it with ANSI
// colors.
package preview
