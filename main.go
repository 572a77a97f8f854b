// Copyright 2018-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"

	"github.com/beevik/go1541/cpu"
	"github.com/beevik/go1541/drive"
	"github.com/beevik/go1541/host"
	"github.com/beevik/go1541/iec"
	"github.com/beevik/term"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

const statsAddr = "localhost:12600"

var (
	romFile  string
	diskFile string
	unit     int
	model    string
	seed     uint64
	luaFile  string
	stats    bool
)

func init() {
	flag.StringVar(&romFile, "rom", "", "16 KiB drive ROM image")
	flag.StringVar(&diskFile, "disk", "", "raw GCR disk image to insert")
	flag.IntVar(&unit, "unit", 8, "drive unit number (8-11)")
	flag.StringVar(&model, "model", "6502", "CPU model (6502 or 6510)")
	flag.Uint64Var(&seed, "seed", 0, "seed for flux noise (0 picks a random seed)")
	flag.StringVar(&luaFile, "lua", "", "run a Lua script and exit")
	flag.BoolVar(&stats, "stats", false, "serve runtime statistics at "+statsAddr)
	flag.CommandLine.Usage = func() {
		fmt.Println("Usage: go1541 [script] ..\nOptions:")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	if stats {
		go func() {
			viewer.SetConfiguration(viewer.WithAddr(statsAddr))
			statsview.New().Start()
		}()
		fmt.Printf("Stats server available at %s/debug/statsview\n", statsAddr)
	}

	d, err := newDrive()
	if err != nil {
		exitOnError(err)
	}

	h := host.New(d)
	defer h.Close()

	if diskFile != "" {
		if err := h.InsertDisk(diskFile); err != nil {
			exitOnError(err)
		}
	}

	// A Lua script runs in place of the monitor.
	if luaFile != "" {
		if err := h.RunScript(luaFile); err != nil && !errors.Is(err, host.ErrQuit) {
			h.Close()
			exitOnError(err)
		}
		return
	}

	// Run commands contained in command-line files.
	for _, filename := range flag.Args() {
		file, err := os.Open(filename)
		if err != nil {
			exitOnError(err)
		}
		quit := h.RunCommands(file, os.Stdout, false)
		file.Close()
		if quit {
			return
		}
	}

	// Break on Ctrl-C.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go handleInterrupt(h, c)

	// Run commands interactively.
	h.RunCommands(os.Stdin, os.Stdout, term.IsTerminal(int(os.Stdin.Fd())))
}

func newDrive() (*drive.Drive, error) {
	if unit < 8 || unit > 11 {
		return nil, fmt.Errorf("invalid unit number %d", unit)
	}

	var m cpu.Model
	switch strings.ToLower(model) {
	case "6502":
		m = cpu.MOS6502
	case "6510":
		m = cpu.MOS6510
	default:
		return nil, fmt.Errorf("invalid CPU model '%s'", model)
	}

	var rnd *rand.Rand
	if seed != 0 {
		rnd = rand.New(rand.NewPCG(seed, seed))
	}

	d := drive.New(unit, m, iec.NewBus(), rnd)
	if romFile != "" {
		b, err := os.ReadFile(romFile)
		if err != nil {
			return nil, err
		}
		if err := d.LoadROM(b); err != nil {
			return nil, err
		}
	}
	d.PowerOn()
	return d, nil
}

func handleInterrupt(h *host.Host, c chan os.Signal) {
	for {
		<-c
		h.Break()
	}
}

func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	os.Exit(1)
}
