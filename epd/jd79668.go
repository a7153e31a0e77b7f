// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"time"

	"periph.io/x/conn/v3/gpio"
)

// JD79668 commands
const (
	jdPanelSetting       byte = 0x00
	jdPowerSetting       byte = 0x01
	jdPowerOff           byte = 0x02
	jdPowerOffSequence   byte = 0x03
	jdPowerOn            byte = 0x04
	jdBoosterSoftStart   byte = 0x06
	jdDeepSleep          byte = 0x07
	jdDataStart          byte = 0x10
	jdDisplayRefresh     byte = 0x12
	jdPLLControl         byte = 0x30
	jdTempCalibration    byte = 0x40
	jdVCOMDataInterval   byte = 0x50
	jdResolution         byte = 0x61
	jdPartialWindow      byte = 0x83
	jdCascadeSetting     byte = 0xE0
	jdPowerSaving        byte = 0xE3
	jdForceTemperature   byte = 0xE6
	jdDeepSleepCheckCode byte = 0xA5
)

var jdLayout = layout{
	busy:      gpio.Low,
	ramBlack:  jdDataStart,
	ramColor:  jdDataStart,
	filler:    0x55,
	rowPasses: 2,
}

type jd79668Driver struct{}

func (jd79668Driver) layout() *layout {
	return &jdLayout
}

func (jd79668Driver) powerOn(c *controller) {
	c.command(jdPowerOn)
	c.enter(PowerOn)
	c.waitBusy("power on", 200*time.Millisecond)
}

func (jd79668Driver) powerOff(c *controller) {
	c.command(jdPowerOff)
	c.enter(PowerOff)
	c.waitBusy("power off", 200*time.Millisecond)
}

func (jd79668Driver) resolution(c *controller) {
	c.write(jdResolution, be16(nil, c.m.Width, c.m.Height)...)
}

// init loads the full waveform, about 20s per refresh.
func (d jd79668Driver) init(c *controller) {
	c.reset(gpio.High, 50*time.Millisecond)
	c.write(0x4D, 0x78)
	c.write(jdPanelSetting, 0x0F, 0x29)
	c.write(jdBoosterSoftStart, 0x0D, 0x12, 0x24, 0x25, 0x12, 0x29, 0x10)
	c.write(jdPLLControl, 0x08)
	c.write(jdVCOMDataInterval, 0x37)
	d.resolution(c)
	c.write(0xAE, 0xCF)
	c.write(0xB0, 0x13)
	c.write(0xBD, 0x07)
	c.write(0xBE, 0xFE)
	c.write(0xE9, 0x01)
}

// initFast loads the fast waveform, about 12s per refresh, by forcing the
// temperature it is stored under.
func (d jd79668Driver) initFast(c *controller) {
	c.reset(gpio.High, 50*time.Millisecond)
	c.write(0x4D, 0x78)
	c.write(jdPanelSetting, 0x0F, 0x29)
	c.write(jdPowerSetting, 0x07, 0x00)
	c.write(jdPowerOffSequence, 0x10, 0x54, 0x44)
	c.write(jdBoosterSoftStart, 0x0F, 0x0A, 0x2F, 0x25, 0x22, 0x2E, 0x21)
	c.write(jdVCOMDataInterval, 0x37)
	d.resolution(c)
	c.write(jdPowerSaving, 0x22)
	c.write(0xB6, 0x6F)
	c.write(0xB4, 0xD0)
	c.write(0xE9, 0x01)
	c.write(jdPLLControl, 0x08)

	d.powerOn(c)
	c.write(jdCascadeSetting, 0x02)
	c.write(jdForceTemperature, 0x5A)
	c.write(0xA5, 0x00)
	c.waitBusy("load waveform", 200*time.Millisecond)
	d.powerOff(c)
}

func (jd79668Driver) setWindow(c *controller, r window) {
	c.write(jdPartialWindow, append(be16(nil, r.x, r.x+r.w-1, r.y, r.y+r.h-1), 0x01)...)
}

func (d jd79668Driver) clear(c *controller, refresh bool) {
	c.fill(jdDataStart, jdLayout.filler, (c.m.Width+3)/4*c.m.Height)
	if refresh {
		d.refresh(c)
	}
}

// writeImage ignores color, black holds all four colors.
func (d jd79668Driver) writeImage(c *controller, black, color []byte, r window) {
	d.setWindow(c, r)
	jdLayout.writePlanes(c, black, nil, r)
}

func (d jd79668Driver) refresh(c *controller) {
	c.log.Printf("epd: refresh begin")
	d.powerOn(c)
	d.setWindow(c, fullWindow(c.m))
	c.write(jdDisplayRefresh, 0x00)
	c.waitBusy("refresh", 30*time.Second)
	d.powerOff(c)
	c.log.Printf("epd: refresh end")
}

func (jd79668Driver) sleep(c *controller) {
	c.write(jdPowerOff, 0x00)
	c.enter(PowerOff)
	c.waitBusy("power off", 200*time.Millisecond)
	c.delay(100 * time.Millisecond)
	c.write(jdDeepSleep, jdDeepSleepCheckCode)
}

func (jd79668Driver) readTemperature(c *controller) int8 {
	c.command(jdTempCalibration)
	c.waitBusy("temperature", 100*time.Millisecond)
	return int8(c.readByte())
}

func (jd79668Driver) forceTemperature(c *controller, v int8) {
	c.write(jdCascadeSetting, 0x02)
	c.write(jdForceTemperature, byte(v))
}

var _ fastIniter = jd79668Driver{}
