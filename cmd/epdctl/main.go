// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// epdctl drives an e-paper panel from the command line.
//
// Usage:
//
//	epdctl [flags] <command> [args]
//
// Commands:
//
//	models             list the supported panels
//	init               reset and initialize the panel
//	clear              paint the panel white
//	draw <image>       show an image, resized to the panel
//	pattern            show a test card
//	temp               print the controller temperature
//	force-temp <v>     override the temperature used for the waveform
//	sleep              put the panel in deep sleep
//	dump-lut           print the waveform table (SSD1619) or OTP (UC8176)
//	preview <image>    show an image without a panel, over HTTP or in the terminal
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/GermanBionicSystems/epaper/epd"
	"github.com/GermanBionicSystems/epaper/preview"
)

func mainImpl() error {
	cfgPath := flag.String("config", "epdctl.yaml", "YAML configuration, created if missing")
	var model epd.ModelID
	flag.Var(&model, "model", "panel model, overrides the config")
	spiName := flag.String("spi", "", "SPI port, overrides the config")
	listen := flag.String("listen", "", "preview HTTP address, overrides the config")
	dither := flag.Bool("dither", false, "dither gray levels")
	fast := flag.Bool("fast", false, "init: use the fast waveform when supported")
	terminal := flag.Bool("terminal", false, "preview: print in the terminal instead of serving HTTP")
	var format preview.Format
	flag.Var(&format, "format", "preview: default frame format, png or jpeg")
	verbose := flag.Bool("v", false, "log the driver activity")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <command> [args]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.SetOutput(os.Stderr)
	if flag.NArg() == 0 {
		flag.Usage()
		return errUsage
	}

	cfg, err := Load(*cfgPath)
	if err != nil {
		return err
	}
	if model != 0 {
		cfg.Model = model
	}
	if *spiName != "" {
		cfg.SPI = *spiName
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	cfg.Dither = cfg.Dither || *dither

	a := &app{
		cfg:      cfg,
		out:      os.Stdout,
		log:      log.Default(),
		driver:   log.New(io.Discard, "", 0),
		fast:     *fast,
		terminal: *terminal,
		format:   format,
	}
	if *verbose {
		a.driver = log.Default()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return a.run(ctx, flag.Args())
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "epdctl: %s.\n", err)
		os.Exit(1)
	}
}
