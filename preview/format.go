// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"fmt"
	"strings"
)

// Format is the encoding of the frames sent to HTTP clients.
type Format int

// Supported Format. The zero value is PNG, which looks best for the few
// colors of a panel.
const (
	PNG Format = iota
	JPEG
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Set sets the Format to a value represented by the string s. Set implements
// the flag.Value interface.
func (f *Format) Set(s string) error {
	switch strings.ToLower(s) {
	case "png":
		*f = PNG
	case "jpg", "jpeg":
		*f = JPEG
	default:
		return fmt.Errorf("unknown image format %q: expected png or jpeg", s)
	}
	return nil
}

func (f Format) mimeType() string {
	if f == JPEG {
		return "image/jpeg"
	}
	return "image/png"
}
