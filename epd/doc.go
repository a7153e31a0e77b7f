// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package epd drives 4.2" electrophoretic panels built on the UC8176,
// SSD1619 and JD79668 controllers.
//
// A panel is selected from a static catalog by ModelID and opened on a
// Transport, which carries commands, data, reset and busy signaling to the
// controller. The package epdspi implements Transport on top of periph.io SPI
// and GPIO; epdtest provides a recording implementation for tests.
//
// Pixel buffers are packed, row-major, 1 bit per pixel with the leftmost
// pixel in the most significant bit and 0 meaning ink. Rows are padded to
// whole bytes. The JD79668 takes a single buffer with 2 bits per pixel, see
// Model.StrideBytes.
//
// A Dev is not safe for concurrent use.
package epd
