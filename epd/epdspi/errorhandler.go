// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epdspi

import (
	"periph.io/x/conn/v3/gpio"
)

// errorHandler is a wrapper for error management.
type errorHandler struct {
	d   *Dev
	err error
}

func (eh *errorHandler) rstOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.rst.Out(l)
}

func (eh *errorHandler) dcOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.dc.Out(l)
}

func (eh *errorHandler) csOut(l gpio.Level) {
	if eh.err != nil || eh.d.cs == nil {
		return
	}
	eh.err = eh.d.cs.Out(l)
}

// cTx splits w or r in transfers the bus accepts.
func (eh *errorHandler) cTx(w, r []byte) {
	for n := eh.d.maxTxSize; eh.err == nil && (len(w) != 0 || len(r) != 0); {
		var cw, cr []byte
		if len(w) != 0 {
			cw, w = w[:min(n, len(w))], w[min(n, len(w)):]
		}
		if len(r) != 0 {
			cr, r = r[:min(n, len(r))], r[min(n, len(r)):]
		}
		eh.err = eh.d.c.Tx(cw, cr)
	}
}

// transfer runs one chip select cycle with dc at l.
func (eh *errorHandler) transfer(l gpio.Level, w, r []byte) {
	eh.dcOut(l)
	eh.csOut(gpio.Low)
	eh.cTx(w, r)
	eh.csOut(gpio.High)
}

func (eh *errorHandler) sendCommand(cmd byte) {
	eh.transfer(gpio.Low, []byte{cmd}, nil)
}

func (eh *errorHandler) sendData(data []byte) {
	eh.transfer(gpio.High, data, nil)
}

func (eh *errorHandler) readData(buf []byte) {
	eh.transfer(gpio.High, nil, buf)
}
