// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epdtest

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"periph.io/x/conn/v3/gpio"
)

func TestRecord(t *testing.T) {
	var r Record
	if err := r.Reset(gpio.High, 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if err := r.WriteCommand(0x00); err != nil {
		t.Fatal(err)
	}
	if err := r.WriteData([]byte{0x0F}); err != nil {
		t.Fatal(err)
	}
	if err := r.WriteData([]byte{0x29}); err != nil {
		t.Fatal(err)
	}
	if err := r.FillRAM(0x10, 0xFF, 15000); err != nil {
		t.Fatal(err)
	}
	if ok, err := r.WaitBusy(gpio.Low, time.Second); !ok || err != nil {
		t.Fatalf("WaitBusy() = %t, %v", ok, err)
	}
	want := []Op{
		Reset(gpio.High, 10*time.Millisecond),
		Command(0x00, 0x0F, 0x29),
		Fill(0x10, 0xFF, 15000),
		Wait(gpio.Low, time.Second),
	}
	if diff := cmp.Diff(r.Ops, want, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Ops difference (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(r.Commands(), []byte{0x00, 0x10}); diff != "" {
		t.Errorf("Commands() difference (-got +want):\n%s", diff)
	}
	r.Clear()
	if len(r.Ops) != 0 {
		t.Errorf("Clear() left %d ops", len(r.Ops))
	}
}

func TestRecordReads(t *testing.T) {
	for _, tc := range []struct {
		name  string
		rec   Record
		write []byte
		want  []byte
	}{
		{
			name: "zero",
			want: []byte{0, 0},
		},
		{
			name: "reads",
			rec:  Record{Reads: []byte{1}},
			want: []byte{1, 0},
		},
		{
			name:  "echo",
			rec:   Record{Echo: []byte{0xE5}},
			write: []byte{0x01, 0xFB},
			want:  []byte{0xFB, 0xFB},
		},
		{
			name:  "reads then echo",
			rec:   Record{Reads: []byte{7}, Echo: []byte{0xE5}},
			write: []byte{0x19},
			want:  []byte{7, 0x19},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := tc.rec
			if tc.write != nil {
				if err := r.WriteCommand(0xE5); err != nil {
					t.Fatal(err)
				}
				if err := r.WriteData(tc.write); err != nil {
					t.Fatal(err)
				}
			}
			got := make([]byte, 2)
			if err := r.ReadData(got); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(got, tc.want); diff != "" {
				t.Errorf("ReadData() difference (-got +want):\n%s", diff)
			}
		})
	}
}

func TestRecordErrors(t *testing.T) {
	var r Record
	if err := r.WriteData([]byte{1}); !errors.Is(err, ErrNoCommand) {
		t.Errorf("WriteData() = %v, want %v", err, ErrNoCommand)
	}

	errFail := errors.New("fail")
	r.Err = errFail
	if err := r.WriteCommand(0x12); err != errFail {
		t.Errorf("WriteCommand() = %v", err)
	}
	if _, err := r.WaitBusy(gpio.High, time.Second); err != errFail {
		t.Errorf("WaitBusy() = %v", err)
	}
	if len(r.Ops) != 0 {
		t.Errorf("got %d ops while failing", len(r.Ops))
	}

	r = Record{TimeOut: true}
	if ok, err := r.WaitBusy(gpio.High, time.Second); ok || err != nil {
		t.Errorf("WaitBusy() = %t, %v", ok, err)
	}
}

func TestOpString(t *testing.T) {
	for _, tc := range []struct {
		op   Op
		want string
	}{
		{Command(0x12), "Command(0x12)"},
		{Command(0x00, 0x0F, 0x29), "Command(0x00, 0F 29)"},
		{Command(0x10, make([]byte, 100)...), "Command(0x10, 100 bytes)"},
		{Read(128), "Read(128)"},
		{Fill(0x13, 0xFF, 15000), "Fill(0x13, 0xFF, 15000)"},
		{Wait(gpio.Low, 100*time.Millisecond), "Wait(Low, 100ms)"},
		{Reset(gpio.High, 10*time.Millisecond), "Reset(High, 10ms)"},
	} {
		if got := tc.op.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}
