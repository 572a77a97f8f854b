// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package drive assembles a complete 1541 disk drive: a 6502 CPU, 2 KiB
// of RAM, a 16 KiB ROM, the bus controller VIA and the disk controller
// VIA, all driven by a single event scheduler.
package drive

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/beevik/go1541/cpu"
	"github.com/beevik/go1541/disk"
	"github.com/beevik/go1541/event"
	"github.com/beevik/go1541/iec"
	"github.com/beevik/go1541/logger"
	"github.com/beevik/go1541/via"
)

// ErrROMSize is returned when a ROM image is not exactly 16 KiB.
var ErrROMSize = errors.New("drive: ROM image must be 16384 bytes")

// Status is the drive state shown on its front panel.
type Status byte

// Drive states
const (
	Off  Status = iota // power off
	On                 // power on, LED dark
	Load               // power on, LED lit
)

var statusNames = [...]string{"OFF", "ON", "LOAD"}

func (s Status) String() string {
	return statusNames[s]
}

// Drive is a single 1541 drive.
type Drive struct {
	ID    int                 // device number, 8 to 11
	CPU   *cpu.CPU            // drive CPU
	Sched *event.Scheduler    // drive time base
	BC    *via.BusController  // VIA 1, serial bus
	DC    *via.DiskController // VIA 2, disk mechanism

	ram      [RAMSize]byte
	rom      [ROMSize]byte
	exp      [ExpansionBanks][]byte
	irqCount int
	power    bool
	diskName string
}

// New creates a drive with device number id, connected to a serial bus.
// The random source drives the flux noise of the disk mechanism and may
// be nil. The drive is powered off until PowerOn is called.
func New(id int, model cpu.Model, bus *iec.Bus, rnd *rand.Rand) *Drive {
	d := &Drive{
		ID:    id,
		Sched: event.NewScheduler(),
	}
	d.CPU = cpu.NewCPU(model, (*memoryMap)(d), d.Sched)
	d.BC = via.NewBusController(id, d.Sched, bus, d.signalIRQ)
	d.BC.SetParallelCable(iec.DisconnectedCable{})
	d.DC = via.NewDiskController(id, d.Sched, d.CPU, rnd, d.signalIRQ)
	d.DC.OnDiskChange = d.onDiskChange

	// The byte-ready signal must be up to date whenever the CPU looks at
	// the overflow flag.
	d.CPU.OnOverflowAccess = d.DC.RotateDisk

	bus.AddDrive(id, d.BC)
	return d
}

// ConnectParallelCable attaches a parallel cable to the bus controller's
// port A.
func (d *Drive) ConnectParallelCable(c *iec.ParallelCable) {
	c.AddDrive(d.ID, d.BC)
	d.BC.SetParallelCable(c)
}

// Both VIAs share the CPU's IRQ line.
func (d *Drive) signalIRQ(asserted bool) {
	if asserted {
		if d.irqCount == 0 {
			d.CPU.TriggerIRQ()
		}
		d.irqCount++
	} else {
		d.irqCount--
		if d.irqCount == 0 {
			d.CPU.ClearIRQ()
		}
	}
}

func (d *Drive) onDiskChange(name string, attached bool) {
	if attached {
		d.diskName = name
	} else {
		d.diskName = ""
	}
}

// LoadROM replaces the drive's ROM.
func (d *Drive) LoadROM(b []byte) error {
	if len(b) != ROMSize {
		return fmt.Errorf("%w: got %d", ErrROMSize, len(b))
	}
	copy(d.rom[:], b)
	return nil
}

// SetRAMExpansion enables or disables one of the 8 KiB RAM expansion
// banks at $2000, $4000, $6000, $8000 and $A000.
func (d *Drive) SetRAMExpansion(bank int, enabled bool) {
	if bank < 0 || bank >= ExpansionBanks {
		panic(fmt.Sprintf("drive: RAM expansion bank out of range: %d", bank))
	}
	if enabled {
		if d.exp[bank] == nil {
			d.exp[bank] = make([]byte, ExpansionSize)
		}
	} else {
		d.exp[bank] = nil
	}
}

// RAMExpansion returns true if the expansion bank is enabled.
func (d *Drive) RAMExpansion(bank int) bool {
	return d.exp[bank] != nil
}

// Reset restarts the drive. Time returns to zero, pending events are
// discarded and RAM is cleared.
func (d *Drive) Reset() {
	d.Sched.Reset()
	d.CPU.Reset()
	d.BC.Reset()
	d.DC.Reset()
	d.irqCount = 0
	clear(d.ram[:])
	for _, e := range d.exp {
		clear(e)
	}
}

// PowerOn switches the drive on and resets it.
func (d *Drive) PowerOn() {
	if d.power {
		return
	}
	d.power = true
	d.Reset()
	logger.Logf(logger.Allow, "drive", "Unit %d: power on", d.ID)
}

// PowerOff switches the drive off. A powered-off drive does not advance.
// The track under the head is written back first.
func (d *Drive) PowerOff() {
	if !d.power {
		return
	}
	d.DC.Flush()
	d.power = false
	logger.Logf(logger.Allow, "drive", "Unit %d: power off", d.ID)
}

// Powered returns true while the drive is on.
func (d *Drive) Powered() bool {
	return d.power
}

// Status returns the front panel state.
func (d *Drive) Status() Status {
	switch {
	case !d.power:
		return Off
	case d.DC.LEDOn():
		return Load
	default:
		return On
	}
}

// Time returns the drive's current tick.
func (d *Drive) Time() int64 {
	return d.Sched.Time(event.PHI2)
}

// Advance runs the drive up to and including the target tick. It does
// nothing while the drive is off.
func (d *Drive) Advance(target int64) {
	if !d.power {
		return
	}
	d.Sched.RunUntil(target)
}

// Step runs the drive until the CPU fetches its next instruction and
// returns the number of ticks that elapsed. A jammed CPU never fetches
// again, so Step gives up after the longest possible instruction.
func (d *Drive) Step() int64 {
	if !d.power {
		return 0
	}
	start := d.Time()
	n := d.CPU.Instructions
	c := d.CPU.Cycles
	for d.CPU.Instructions == n && d.CPU.Cycles-c < maxStepCycles {
		if !d.Sched.Clock() {
			break
		}
	}
	return d.Time() - start
}

// An interrupt sequence plus the longest instruction.
const maxStepCycles = 16

// InsertDisk inserts a disk image, ejecting the current one.
func (d *Drive) InsertDisk(img disk.Image) {
	d.DC.InsertDisk(img)
}

// EjectDisk ejects the current disk image, writing back modified data.
func (d *Drive) EjectDisk() {
	d.DC.EjectDisk()
}

// DiskName returns the name of the inserted disk image, or "".
func (d *Drive) DiskName() string {
	return d.diskName
}

// Memory returns the drive's address space as seen by its CPU.
func (d *Drive) Memory() cpu.Memory {
	return d.CPU.Mem
}
