// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package epdtest implements fake panel transports for testing.
//
// Record implements epd.Transport and keeps every call so a test can
// compare the traffic of an operation against the expected command
// sequence.
package epdtest
