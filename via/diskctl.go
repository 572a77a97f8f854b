// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package via

import (
	"fmt"
	"math/rand/v2"

	"github.com/beevik/go1541/disk"
	"github.com/beevik/go1541/event"
	"github.com/beevik/go1541/logger"
	"github.com/beevik/go1541/rotation"
)

// Ticks during which the drive electronics see a disk change in
// progress.
const (
	attachDelay       = 3 * 600000
	detachDelay       = 3 * 200000
	attachDetachDelay = 3 * 400000
)

// byteReady bits
const (
	byteReadyEnable = 0x02 // CA2 output
	motorOn         = 0x04 // port B bit 2
)

// OverflowSignaler receives the byte-ready signal. The drive's CPU sets
// its overflow flag in response.
type OverflowSignaler interface {
	SignalOverflow()
}

// DiskController is the VIA that drives the disk mechanism. Port A
// carries the GCR data to and from the head. Port B drives the stepper
// motor, the spindle motor, the LED and the bit rate, and senses the
// sync and write-protect signals. CA2 enables byte-ready signalling and
// CB2 selects the head mode.
type DiskController struct {
	*VIA

	// OnDiskChange is called after a disk image is inserted or ejected.
	OnDiskChange func(name string, attached bool)

	id              int
	cpu             OverflowSignaler
	rot             *rotation.Rotation
	image           disk.Image
	attachClk       int64 // -1 when no change is in progress
	detachClk       int64
	attachDetachClk int64
	gcrRead         byte
	gcrWrite        byte
	mode            rotation.Mode
	byteReady       int
	dirty           bool
	halfTrack       int
}

// NewDiskController creates the disk controller of drive id. The random
// source drives the rotation engine's flux noise and may be nil.
func NewDiskController(id int, sched *event.Scheduler, cpu OverflowSignaler, rnd *rand.Rand,
	irq func(asserted bool)) *DiskController {

	dc := &DiskController{
		id:              id,
		cpu:             cpu,
		attachClk:       -1,
		detachClk:       -1,
		attachDetachClk: -1,
		halfTrack:       disk.DirTrack << 1,
	}
	dc.VIA = New(fmt.Sprintf("Drive%dDC", id), sched, (*diskPorts)(dc), irq)
	dc.rot = rotation.New((*headElectronics)(dc), rnd)
	return dc
}

// Reset resets the VIA and the disk mechanism. The head returns to the
// directory track.
func (dc *DiskController) Reset() {
	dc.attachClk = -1
	dc.detachClk = -1
	dc.attachDetachClk = -1
	dc.gcrRead = 0
	dc.gcrWrite = 0x55
	dc.byteReady = 0
	dc.mode = rotation.Read
	dc.dirty = false
	dc.halfTrack = 2
	dc.setHalfTrack(disk.DirTrack << 1)
	dc.VIA.Reset()
	dc.rot.Reset()
}

// Rotation returns the rotation engine.
func (dc *DiskController) Rotation() *rotation.Rotation {
	return dc.rot
}

// Image returns the inserted disk image, or nil.
func (dc *DiskController) Image() disk.Image {
	return dc.image
}

// HalfTrack returns the half-track under the head, from 2 to 84.
func (dc *DiskController) HalfTrack() int {
	return dc.halfTrack
}

// Mode returns the head mode selected by CB2.
func (dc *DiskController) Mode() rotation.Mode {
	return dc.mode
}

// LEDOn returns true while the drive LED is lit.
func (dc *DiskController) LEDOn() bool {
	return dc.oldpb&0x08 != 0
}

// MotorOn returns true while the spindle motor runs.
func (dc *DiskController) MotorOn() bool {
	return dc.byteReady&motorOn != 0
}

func (dc *DiskController) byteReadyActive() bool {
	return dc.byteReady&byteReadyEnable != 0
}

// RotateDisk brings the rotation up to the current tick. It does nothing
// while the motor is off.
func (dc *DiskController) RotateDisk() {
	if dc.MotorOn() {
		dc.rot.Advance()
	}
}

// InsertDisk ejects the current disk and inserts img. For a while after
// the insertion the drive reads zeros and senses write protection, as a
// real drive does while the disk slides in.
func (dc *DiskController) InsertDisk(img disk.Image) {
	dc.EjectDisk()

	now := dc.now()
	dc.attachClk = now
	if dc.detachClk >= 0 {
		dc.attachDetachClk = now
	}

	codec := dc.rot.Codec()
	for t := 1; t <= img.Tracks(); t++ {
		codec.SetTrackData(t, img.Track(t))
	}
	codec.Attach()
	dc.image = img

	logger.Logf(logger.Allow, "drive", "Unit %d: disk image attached: %s", dc.id, img.Name())
	if dc.OnDiskChange != nil {
		dc.OnDiskChange(img.Name(), true)
	}
}

// EjectDisk writes back the current track and removes the disk. It does
// nothing if no disk is inserted.
func (dc *DiskController) EjectDisk() {
	if dc.image == nil {
		return
	}
	dc.writeback()
	dc.detachClk = dc.now()
	dc.rot.Codec().Detach()

	name := dc.image.Name()
	dc.image = nil
	logger.Logf(logger.Allow, "drive", "Unit %d: disk image detached: %s", dc.id, name)
	if dc.OnDiskChange != nil {
		dc.OnDiskChange(name, false)
	}
}

// Flush writes the track under the head back to the image if it was
// modified.
func (dc *DiskController) Flush() {
	dc.writeback()
}

func (dc *DiskController) trackSize() int {
	track := dc.halfTrack >> 1
	if dc.image != nil {
		return dc.image.TrackSize(track)
	}
	return disk.RawTrackSize(track)
}

func (dc *DiskController) setHalfTrack(ht int) {
	oldSize := dc.trackSize()
	dc.halfTrack = ht
	dc.rot.Codec().SetHalfTrack(ht, oldSize, dc.trackSize())
}

func (dc *DiskController) moveHead(forward bool) {
	dc.writeback()
	switch {
	case forward && dc.halfTrack < disk.MaxTracks<<1:
		dc.setHalfTrack(dc.halfTrack + 1)
	case !forward && dc.halfTrack > 2:
		dc.setHalfTrack(dc.halfTrack - 1)
	}
}

func (dc *DiskController) writeback() {
	dirty := dc.dirty
	dc.dirty = false
	if dc.image == nil || !dirty {
		return
	}

	track := dc.halfTrack >> 1
	if dc.image.ReadOnly() {
		logger.Logf(logger.Allow, "drive", "Unit %d: attempt to write to read-only disk image", dc.id)
		return
	}
	data := dc.rot.Codec().Track(track)[:dc.trackSize()]
	if err := dc.image.Writeback(track, data); err != nil {
		logger.Logf(logger.Allow, "drive", "Unit %d: error writing track %d to disk image: %v", dc.id, track, err)
	}
}

// Reads of the GCR data see zeros while a disk change is in progress.
func (dc *DiskController) byteRead() {
	now := dc.now()
	switch {
	case dc.attachClk >= 0:
		if now-dc.attachClk < attachDelay {
			dc.gcrRead = 0
		} else {
			dc.attachClk = -1
		}
	case dc.attachDetachClk >= 0:
		if now-dc.attachDetachClk < attachDetachDelay {
			dc.gcrRead = 0
		} else {
			dc.attachDetachClk = -1
		}
	default:
		dc.RotateDisk()
	}
}

// The write-protect sensor is covered while a disk slides in or out.
func (dc *DiskController) writeProtectSense() byte {
	now := dc.now()
	if dc.detachClk >= 0 {
		if now-dc.detachClk < detachDelay {
			return 0x00
		}
		dc.detachClk = -1
	}
	if dc.attachDetachClk >= 0 {
		if now-dc.attachDetachClk < attachDetachDelay {
			return 0x10
		}
		dc.attachDetachClk = -1
	}
	if dc.attachClk >= 0 {
		if now-dc.attachClk < attachDelay {
			return 0x00
		}
		dc.attachClk = -1
	}
	if dc.image == nil || !dc.image.ReadOnly() {
		return 0x10
	}
	return 0x00
}

func (dc *DiskController) signalByteReady() {
	if dc.byteReadyActive() {
		dc.cpu.SignalOverflow()
		dc.Signal(CA1, Rise)
	}
}

// diskPorts wires the VIA ports to the disk mechanism.
type diskPorts DiskController

func (p *diskPorts) StorePortA(v byte) {
	dc := (*DiskController)(p)
	dc.RotateDisk()
	dc.gcrWrite = v
}

func (p *diskPorts) StorePortB(v byte) {
	dc := (*DiskController)(p)
	dc.RotateDisk()

	old := dc.oldpb
	if (old^v)&0x03 != 0 && v&0x04 != 0 {
		switch old & 0x03 {
		case (v + 1) & 0x03:
			dc.moveHead(false)
		case (v - 1) & 0x03:
			dc.moveHead(true)
		}
	}
	if (old^v)&0x60 != 0 {
		dc.rot.SetSpeedZone(int(v>>5) & 0x03)
	}
	if (old^v)&0x04 != 0 {
		dc.byteReady = dc.byteReady&^motorOn | int(v&motorOn)
		if dc.MotorOn() {
			dc.rot.RotationBegins()
		}
	}
}

func (p *diskPorts) ReadPortA() byte {
	dc := (*DiskController)(p)
	dc.byteRead()
	b := byte(0xff)
	if dc.mode == rotation.Read {
		b = dc.gcrRead
	}
	return b&^dc.regs[DDRA] | dc.regs[PRA]&dc.regs[DDRA]
}

func (p *diskPorts) ReadPortB() byte {
	dc := (*DiskController)(p)
	dc.RotateDisk()
	b := dc.writeProtectSense()
	if !dc.rot.SyncDetected() {
		b |= 0x80
	}
	return b&^dc.regs[DDRB] | dc.regs[PRB]&dc.regs[DDRB]
}

func (p *diskPorts) SetCA2(high bool) {
	dc := (*DiskController)(p)
	dc.RotateDisk()
	dc.byteReady &^= byteReadyEnable
	if high {
		dc.byteReady |= byteReadyEnable
	}
}

func (p *diskPorts) SetCB2(high bool) {
	dc := (*DiskController)(p)
	dc.RotateDisk()
	if high {
		dc.mode = rotation.Read
	} else {
		dc.mode = rotation.Write
	}
}

func (p *diskPorts) StoreACR(v byte)     {}
func (p *diskPorts) StoreSR(v byte)      {}
func (p *diskPorts) StoreT2Latch(v byte) {}

// headElectronics is the rotation engine's view of the controller.
type headElectronics DiskController

func (h *headElectronics) Clock() int64        { return h.now() }
func (h *headElectronics) Mode() rotation.Mode { return h.mode }
func (h *headElectronics) TrackSize() int      { return (*DiskController)(h).trackSize() }
func (h *headElectronics) MarkDirty()          { h.dirty = true }
func (h *headElectronics) DiskChanging() bool  { return h.attachClk >= 0 }

func (h *headElectronics) LatchRead(b byte) {
	h.gcrRead = b
	(*DiskController)(h).signalByteReady()
}

func (h *headElectronics) NextWrite() byte {
	b := h.gcrWrite
	(*DiskController)(h).signalByteReady()
	return b
}
