// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bitmap converts images into the packed planes taken by package
// epd.
//
// Pixels are classified into the colors the panel can show. Black and
// white panels go through a 1 bit threshold, optionally after
// Floyd-Steinberg dithering. Black, white and red panels get a black and a
// red plane. Four color panels get a single plane with 2 bits per pixel.
package bitmap
