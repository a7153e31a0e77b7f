// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"time"

	"periph.io/x/conn/v3/gpio"
)

// UC8176 commands
const (
	ucPanelSetting       byte = 0x00
	ucPowerOff           byte = 0x02
	ucPowerOn            byte = 0x04
	ucDeepSleep          byte = 0x07
	ucDataStart1         byte = 0x10
	ucDisplayRefresh     byte = 0x12
	ucDataStart2         byte = 0x13
	ucTempCalibration    byte = 0x40
	ucVCOMDataInterval   byte = 0x50
	ucPartialWindow      byte = 0x90
	ucPartialIn          byte = 0x91
	ucPartialOut         byte = 0x92
	ucReadOTP            byte = 0xA2
	ucCascadeSetting     byte = 0xE0
	ucForceTemperature   byte = 0xE5
	ucDeepSleepCheckCode byte = 0xA5
)

const (
	ucOTPSize  = 0xFFF
	ucOTPChunk = 128
)

var ucLayout = layout{
	busy:        gpio.Low,
	ramBlack:    ucDataStart1,
	ramColor:    ucDataStart2,
	filler:      0xFF,
	rowPasses:   1,
	bwColorOnly: true,
}

type uc8176Driver struct{}

func (uc8176Driver) layout() *layout {
	return &ucLayout
}

func (uc8176Driver) powerOn(c *controller) {
	c.command(ucPowerOn)
	c.enter(PowerOn)
	c.waitBusy("power on", 100*time.Millisecond)
}

func (uc8176Driver) powerOff(c *controller) {
	c.command(ucPowerOff)
	c.enter(PowerOff)
	c.waitBusy("power off", 100*time.Millisecond)
}

func (uc8176Driver) init(c *controller) {
	c.reset(gpio.High, 10*time.Millisecond)
	if c.m.Color == BWR {
		c.write(ucPanelSetting, 0x0F)
		c.write(ucVCOMDataInterval, 0x77)
	} else {
		c.write(ucPanelSetting, 0x1F)
		c.write(ucVCOMDataInterval, 0x97)
	}
}

func (d uc8176Driver) clear(c *controller, refresh bool) {
	n := (c.m.Width + 7) / 8 * c.m.Height
	c.fill(ucDataStart1, 0xFF, n)
	c.fill(ucDataStart2, 0xFF, n)
	if refresh {
		d.refresh(c)
	}
}

// setWindow selects r with the end column forced to the last pixel of its
// byte.
func (uc8176Driver) setWindow(c *controller, r window) {
	xe := (r.x + r.w - 1) | 7
	c.write(ucPartialWindow, append(be16(nil, r.x&^7, xe, r.y, r.y+r.h-1), 0x01)...)
}

func (d uc8176Driver) writeImage(c *controller, black, color []byte, r window) {
	c.command(ucPartialIn)
	d.setWindow(c, r)
	ucLayout.writePlanes(c, black, color, r)
	c.command(ucPartialOut)
}

func (d uc8176Driver) refresh(c *controller) {
	c.log.Printf("epd: refresh begin")
	d.powerOn(c)
	c.log.Printf("epd: temperature: %d", d.readTemperature(c))
	c.command(ucDisplayRefresh)
	c.delay(100 * time.Millisecond)
	c.waitBusy("refresh", 30*time.Second)
	d.powerOff(c)
	c.log.Printf("epd: refresh end")
}

func (d uc8176Driver) sleep(c *controller) {
	d.powerOff(c)
	c.write(ucDeepSleep, ucDeepSleepCheckCode)
}

func (uc8176Driver) readTemperature(c *controller) int8 {
	c.command(ucTempCalibration)
	c.waitBusy("temperature", 100*time.Millisecond)
	return int8(c.readByte())
}

// forceTemperature also makes the controller switch to the OTP waveform of
// that temperature.
func (uc8176Driver) forceTemperature(c *controller, v int8) {
	c.write(ucCascadeSetting, 0x02)
	c.write(ucForceTemperature, byte(v))
}

// dumpLUT reads the OTP memory, which holds the waveforms.
func (d uc8176Driver) dumpLUT(c *controller) []byte {
	d.powerOn(c)
	c.write(ucReadOTP, 0x00)
	var out []byte
	for i := 0; i < ucOTPSize; i += ucOTPChunk {
		buf := make([]byte, ucOTPChunk)
		c.read(buf)
		out = append(out, buf...)
	}
	c.dump("OTP", out)
	d.powerOff(c)
	if c.err != nil {
		return nil
	}
	return out
}

var _ lutDumper = uc8176Driver{}
