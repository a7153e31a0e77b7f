// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/textproto"
	"strconv"
)

// newBoundary returns a random RFC 2046 multipart boundary.
func newBoundary() string {
	var b [30]byte
	if _, err := io.ReadFull(rand.Reader, b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

// frameWriter writes an endless multipart/x-mixed-replace body.
//
// mime/multipart.Writer only closes a part when the next one starts, so a
// client would always be one frame behind.
type frameWriter struct {
	w        io.Writer
	boundary string
	started  bool
}

func newFrameWriter(w io.Writer) *frameWriter {
	return &frameWriter{w: w, boundary: newBoundary()}
}

// write sends one complete part, including its closing boundary.
func (f *frameWriter) write(mimeType string, body []byte) error {
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", mimeType)
	h.Set("Content-Length", strconv.Itoa(len(body)))
	var buf bytes.Buffer
	if !f.started {
		fmt.Fprintf(&buf, "--%s\r\n", f.boundary)
		f.started = true
	}
	for k, v := range h {
		fmt.Fprintf(&buf, "%s: %s\r\n", k, v[0])
	}
	buf.WriteString("\r\n")
	buf.Write(body)
	fmt.Fprintf(&buf, "\r\n--%s\r\n", f.boundary)
	_, err := buf.WriteTo(f.w)
	return err
}
