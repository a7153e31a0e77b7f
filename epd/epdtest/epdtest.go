// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epdtest

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// OpKind is the kind of a recorded call.
type OpKind uint8

// Possible OpKind.
const (
	OpCommand OpKind = iota + 1
	OpRead
	OpReset
	OpWait
	OpFill
)

func (k OpKind) String() string {
	switch k {
	case OpCommand:
		return "Command"
	case OpRead:
		return "Read"
	case OpReset:
		return "Reset"
	case OpWait:
		return "Wait"
	case OpFill:
		return "Fill"
	default:
		return fmt.Sprintf("OpKind(%d)", uint8(k))
	}
}

// Op is one recorded call. Data written after a command is appended to the
// command.
type Op struct {
	Kind OpKind
	Cmd  byte
	Data []byte
	// Bytes read, or bytes filled.
	N int
	// Fill value.
	Value byte
	// Reset level, or busy level waited on.
	Level    gpio.Level
	Duration time.Duration
}

func (o Op) String() string {
	switch o.Kind {
	case OpCommand:
		if len(o.Data) == 0 {
			return fmt.Sprintf("Command(0x%02X)", o.Cmd)
		}
		if len(o.Data) > 16 {
			return fmt.Sprintf("Command(0x%02X, %d bytes)", o.Cmd, len(o.Data))
		}
		return fmt.Sprintf("Command(0x%02X, % X)", o.Cmd, o.Data)
	case OpRead:
		return fmt.Sprintf("Read(%d)", o.N)
	case OpReset:
		return fmt.Sprintf("Reset(%s, %s)", o.Level, o.Duration)
	case OpWait:
		return fmt.Sprintf("Wait(%s, %s)", o.Level, o.Duration)
	case OpFill:
		return fmt.Sprintf("Fill(0x%02X, 0x%02X, %d)", o.Cmd, o.Value, o.N)
	default:
		return o.Kind.String()
	}
}

// Command returns the Op recorded for cmd followed by data.
func Command(cmd byte, data ...byte) Op {
	return Op{Kind: OpCommand, Cmd: cmd, Data: data}
}

// Read returns the Op recorded for a read of n bytes.
func Read(n int) Op {
	return Op{Kind: OpRead, N: n}
}

// Reset returns the Op recorded for a reset pulse.
func Reset(l gpio.Level, d time.Duration) Op {
	return Op{Kind: OpReset, Level: l, Duration: d}
}

// Wait returns the Op recorded for a busy wait.
func Wait(busy gpio.Level, timeout time.Duration) Op {
	return Op{Kind: OpWait, Level: busy, Duration: timeout}
}

// Fill returns the Op recorded for a RAM fill.
func Fill(cmd, value byte, n int) Op {
	return Op{Kind: OpFill, Cmd: cmd, Value: value, N: n}
}

// ErrNoCommand is returned by WriteData when no command was sent yet.
var ErrNoCommand = errors.New("epdtest: data without command")

// Record records all the calls it receives.
//
// The zero value is ready to use. Record is not safe for concurrent use.
type Record struct {
	Ops []Op

	// Reads holds the bytes returned by ReadData, in order.
	Reads []byte
	// Echo lists commands whose last data byte is returned by ReadData once
	// Reads is exhausted, emulating a register written then read back.
	Echo []byte
	// TimeOut makes WaitBusy report that the panel stayed busy.
	TimeOut bool
	// Err is returned by every call when set.
	Err error

	echo    byte
	hasEcho bool
}

// WriteCommand implements epd.Transport.
func (r *Record) WriteCommand(cmd byte) error {
	if r.Err != nil {
		return r.Err
	}
	r.Ops = append(r.Ops, Command(cmd))
	return nil
}

// WriteData implements epd.Transport.
func (r *Record) WriteData(data []byte) error {
	if r.Err != nil {
		return r.Err
	}
	if len(r.Ops) == 0 || r.Ops[len(r.Ops)-1].Kind != OpCommand {
		return ErrNoCommand
	}
	cur := &r.Ops[len(r.Ops)-1]
	cur.Data = append(cur.Data, data...)
	if len(data) != 0 && bytes.IndexByte(r.Echo, cur.Cmd) != -1 {
		r.echo = data[len(data)-1]
		r.hasEcho = true
	}
	return nil
}

// ReadData implements epd.Transport.
func (r *Record) ReadData(buf []byte) error {
	if r.Err != nil {
		return r.Err
	}
	r.Ops = append(r.Ops, Read(len(buf)))
	for i := range buf {
		switch {
		case len(r.Reads) != 0:
			buf[i] = r.Reads[0]
			r.Reads = r.Reads[1:]
		case r.hasEcho:
			buf[i] = r.echo
		default:
			buf[i] = 0
		}
	}
	return nil
}

// Reset implements epd.Transport.
func (r *Record) Reset(l gpio.Level, d time.Duration) error {
	if r.Err != nil {
		return r.Err
	}
	r.Ops = append(r.Ops, Reset(l, d))
	return nil
}

// WaitBusy implements epd.Transport.
func (r *Record) WaitBusy(busy gpio.Level, timeout time.Duration) (bool, error) {
	if r.Err != nil {
		return false, r.Err
	}
	r.Ops = append(r.Ops, Wait(busy, timeout))
	return !r.TimeOut, nil
}

// FillRAM implements epd.Transport.
func (r *Record) FillRAM(cmd, value byte, n int) error {
	if r.Err != nil {
		return r.Err
	}
	r.Ops = append(r.Ops, Fill(cmd, value, n))
	return nil
}

// Commands returns the command bytes in the order they were sent,
// including fills.
func (r *Record) Commands() []byte {
	var out []byte
	for _, o := range r.Ops {
		if o.Kind == OpCommand || o.Kind == OpFill {
			out = append(out, o.Cmd)
		}
	}
	return out
}

// Clear forgets the recorded calls.
func (r *Record) Clear() {
	r.Ops = nil
}

func (r *Record) String() string {
	s := make([]string, len(r.Ops))
	for i, o := range r.Ops {
		s[i] = o.String()
	}
	return strings.Join(s, "\n")
}
