// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"time"

	"periph.io/x/conn/v3/gpio"
)

// SSD1619 commands
const (
	ssdDeepSleepMode          byte = 0x10
	ssdDataEntryModeSetting   byte = 0x11
	ssdSWReset                byte = 0x12
	ssdTempSensorSelect       byte = 0x18
	ssdTempSensorRegWrite     byte = 0x1A
	ssdTempSensorRegRead      byte = 0x1B
	ssdMasterActivation       byte = 0x20
	ssdDisplayUpdateControl1  byte = 0x21
	ssdDisplayUpdateControl2  byte = 0x22
	ssdWriteRAMBW             byte = 0x24
	ssdWriteRAMRed            byte = 0x26
	ssdReadLUT                byte = 0x33
	ssdBorderWaveformControl  byte = 0x3C
	ssdSetRAMXStartEnd        byte = 0x44
	ssdSetRAMYStartEnd        byte = 0x45
	ssdSetRAMXAddressCounter  byte = 0x4E
	ssdSetRAMYAddressCounter  byte = 0x4F
	ssdInternalTempSensor     byte = 0x80
	ssdIncrementXIncrementY   byte = 0x03
	ssdDeepSleepRetainRAM     byte = 0x01
	ssdBorderFollowLUT        byte = 0x01
)

const ssdLUTSize = 128

// Sequences for ssdDisplayUpdateControl2.
const (
	ssdUpdateLoadTempLUT byte = 0xB1
	ssdUpdateDisplay     byte = 0xF7
	ssdUpdatePowerOff    byte = 0x83
)

var ssdLayout = layout{
	busy:      gpio.High,
	ramBlack:  ssdWriteRAMBW,
	ramColor:  ssdWriteRAMRed,
	filler:    0xFF,
	rowPasses: 1,
}

type ssd1619Driver struct{}

func (ssd1619Driver) layout() *layout {
	return &ssdLayout
}

func (ssd1619Driver) update(c *controller, seq byte) {
	c.write(ssdDisplayUpdateControl2, seq)
	c.command(ssdMasterActivation)
}

func (ssd1619Driver) setWindow(c *controller, r window) {
	ye := r.y + r.h - 1
	c.write(ssdDataEntryModeSetting, ssdIncrementXIncrementY)
	c.write(ssdSetRAMXStartEnd, byte(r.x/8), byte((r.x+r.w-1)/8))
	c.write(ssdSetRAMYStartEnd, le16(nil, r.y, ye)...)
	c.write(ssdSetRAMXAddressCounter, byte(r.x/8))
	c.write(ssdSetRAMYAddressCounter, le16(nil, r.y)...)
}

func (d ssd1619Driver) init(c *controller) {
	c.reset(gpio.High, 10*time.Millisecond)
	c.command(ssdSWReset)
	c.waitBusy("software reset", 200*time.Millisecond)
	c.write(ssdBorderWaveformControl, ssdBorderFollowLUT)
	c.write(ssdTempSensorSelect, ssdInternalTempSensor)
	d.setWindow(c, fullWindow(c.m))
}

func (d ssd1619Driver) clear(c *controller, refresh bool) {
	n := (c.m.Width + 7) / 8 * c.m.Height
	d.setWindow(c, fullWindow(c.m))
	c.fill(ssdWriteRAMBW, 0xFF, n)
	c.fill(ssdWriteRAMRed, 0xFF, n)
	if refresh {
		d.refresh(c)
	}
}

func (d ssd1619Driver) writeImage(c *controller, black, color []byte, r window) {
	d.setWindow(c, r)
	ssdLayout.writePlanes(c, black, color, r)
}

func (d ssd1619Driver) refresh(c *controller) {
	if c.m.Color == BWR {
		c.write(ssdDisplayUpdateControl1, 0x80, 0x00)
	} else {
		c.write(ssdDisplayUpdateControl1, 0x40, 0x00)
	}
	c.log.Printf("epd: refresh begin")
	c.log.Printf("epd: temperature: %d", d.readTemperature(c))
	d.update(c, ssdUpdateDisplay)
	c.enter(PowerOn)
	c.waitBusy("refresh", 30*time.Second)
	c.log.Printf("epd: refresh end")
	// The RAM address counters must be reset before powering off, otherwise
	// the next write lands at the wrong place.
	d.setWindow(c, fullWindow(c.m))
	d.update(c, ssdUpdatePowerOff)
	c.enter(PowerOff)
}

func (ssd1619Driver) sleep(c *controller) {
	c.write(ssdDeepSleepMode, ssdDeepSleepRetainRAM)
	c.delay(100 * time.Millisecond)
}

func (d ssd1619Driver) readTemperature(c *controller) int8 {
	d.update(c, ssdUpdateLoadTempLUT)
	c.waitBusy("temperature", 500*time.Millisecond)
	c.command(ssdTempSensorRegRead)
	return int8(c.readByte())
}

func (ssd1619Driver) forceTemperature(c *controller, v int8) {
	c.write(ssdTempSensorRegWrite, byte(v))
}

func (ssd1619Driver) writeRAM(c *controller, begin, black bool, data []byte) {
	if begin {
		if c.m.Color == BWR && !black {
			c.command(ssdWriteRAMRed)
		} else {
			c.command(ssdWriteRAMBW)
		}
	}
	c.data(data...)
}

// dumpLUT loads the waveform matching the current temperature and reads it
// back.
func (d ssd1619Driver) dumpLUT(c *controller) []byte {
	d.update(c, ssdUpdateLoadTempLUT)
	c.waitBusy("load LUT", 200*time.Millisecond)
	c.command(ssdReadLUT)
	lut := make([]byte, ssdLUTSize)
	c.read(lut)
	c.dump("LUT", lut)
	if c.err != nil {
		return nil
	}
	return lut
}

var (
	_ ramWriter = ssd1619Driver{}
	_ lutDumper = ssd1619Driver{}
)
