// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"os"

	"github.com/beevik/cmd"
	"github.com/beevik/go1541/cpu"
	"github.com/beevik/go1541/via"
	"github.com/bradleyjkemp/memviz"
)

type diskSnapshot struct {
	Name      string
	Tracks    int
	ReadOnly  bool
	Dirty     bool
	HalfTrack int
	SpeedZone int
	Motor     bool
	LED       bool
}

type snapshot struct {
	Status          string
	Time            int64
	Registers       cpu.Registers
	BusController   via.State
	DiskController  via.State
	Disk            *diskSnapshot
	Breakpoints     []*cpu.Breakpoint
	DataBreakpoints []*cpu.DataBreakpoint
}

func (h *Host) snapshot() *snapshot {
	d := h.drive
	s := &snapshot{
		Status:          d.Status().String(),
		Time:            d.Time(),
		Registers:       h.registers(),
		BusController:   d.BC.State(),
		DiskController:  d.DC.State(),
		Breakpoints:     h.debugger.GetBreakpoints(),
		DataBreakpoints: h.debugger.GetDataBreakpoints(),
	}
	if h.image != nil {
		s.Disk = &diskSnapshot{
			Name:      h.image.Name(),
			Tracks:    h.image.Tracks(),
			ReadOnly:  h.image.ReadOnly(),
			Dirty:     h.image.Dirty(),
			HalfTrack: d.DC.HalfTrack(),
			SpeedZone: d.DC.Rotation().SpeedZone(),
			Motor:     d.DC.MotorOn(),
			LED:       d.DC.LEDOn(),
		}
	}
	return s
}

func (h *Host) cmdMemviz(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c.Command)
		return nil
	}

	f, err := os.Create(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	defer f.Close()

	memviz.Map(f, h.snapshot())
	h.printf("Drive state written to '%s'.\n", c.Args[0])
	return nil
}
