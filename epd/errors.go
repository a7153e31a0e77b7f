// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"errors"
	"fmt"
	"image"
)

// ErrConfiguration is matched by all errors caused by using the package with
// an invalid setup, as opposed to errors reported by the transport.
var ErrConfiguration = errors.New("epd: configuration error")

var (
	// ErrUnknownModel is returned when a ModelID is not in the catalog.
	ErrUnknownModel = &configError{"epd: unknown model"}
	// ErrNotInitialized is returned when an operation needs a panel that was
	// initialized and is not sleeping.
	ErrNotInitialized = &configError{"epd: panel not initialized"}

	// ErrOutOfBounds is wrapped by *BoundsError.
	ErrOutOfBounds = errors.New("epd: window out of bounds")
	// ErrUnsupported is returned for capabilities the controller lacks.
	ErrUnsupported = errors.New("epd: not supported by controller")
	// ErrShortBuffer is returned when a pixel buffer is smaller than the
	// window it has to cover.
	ErrShortBuffer = errors.New("epd: pixel buffer too short")
	// ErrBusyTimeout is returned after a sequence during which the controller
	// did not release its busy line in time. The sequence is still completed.
	ErrBusyTimeout = errors.New("epd: busy timeout")
)

type configError struct {
	msg string
}

func (e *configError) Error() string {
	return e.msg
}

func (e *configError) Is(target error) bool {
	return target == ErrConfiguration
}

// BoundsError reports a write window that, once aligned to whole bytes,
// does not fit on the panel.
type BoundsError struct {
	// Aligned window.
	Rect image.Rectangle
	// Panel size.
	Size image.Point
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("%s: %v does not fit in %dx%d", ErrOutOfBounds, e.Rect, e.Size.X, e.Size.Y)
}

func (e *BoundsError) Unwrap() error {
	return ErrOutOfBounds
}
