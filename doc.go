// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package epaper is a container for the e-paper panel packages.
//
// The controllers are driven by package epd over the epd/epdspi transport.
// Package bitmap converts images for them and package preview shows the
// result without a panel.
package epaper
