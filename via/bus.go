// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package via

import (
	"fmt"

	"github.com/beevik/go1541/event"
)

// SerialBus is the serial bus as seen from a drive's bus controller.
type SerialBus interface {
	// UpdateDrive reports a new port B output value of drive id.
	UpdateDrive(id int, b byte)

	// DeviceRead returns the bus lines as they appear on the drive's port B
	// inputs.
	DeviceRead() byte
}

// ParallelCable is an optional parallel cable attached to port A of the
// bus controller.
type ParallelCable interface {
	DriveWrite(v byte, handshake bool, id int)
	DriveRead(handshake bool) byte
}

// BusController is the VIA that connects a drive to the serial bus. Port
// B carries the bus lines and the device address jumpers, port A the
// parallel cable. ATN changes arrive on CA1.
type BusController struct {
	*VIA
	id    int
	bus   SerialBus
	cable ParallelCable
}

// NewBusController creates the bus controller of drive id.
func NewBusController(id int, sched *event.Scheduler, bus SerialBus, irq func(asserted bool)) *BusController {
	bc := &BusController{id: id, bus: bus}
	bc.VIA = New(fmt.Sprintf("Drive%dBC", id), sched, (*busPorts)(bc), irq)
	return bc
}

// SetParallelCable attaches a parallel cable. A nil cable disconnects it.
func (bc *BusController) SetParallelCable(c ParallelCable) {
	bc.cable = c
}

// ParallelCable returns the attached parallel cable, or nil.
func (bc *BusController) ParallelCable() ParallelCable {
	return bc.cable
}

func (bc *BusController) handshake() bool {
	return bc.regs[PCR]&0x0e == 0x0a
}

// busPorts wires the VIA ports to the bus and the cable.
type busPorts BusController

func (p *busPorts) StorePortA(v byte) {
	bc := (*BusController)(p)
	if bc.cable != nil {
		bc.cable.DriveWrite(v, bc.handshake(), bc.id)
	}
}

func (p *busPorts) StorePortB(v byte) {
	if v != p.oldpb {
		p.bus.UpdateDrive(p.id, v)
	}
}

func (p *busPorts) ReadPortA() byte {
	bc := (*BusController)(p)
	in := byte(0xff)
	if bc.cable != nil {
		in = bc.cable.DriveRead(bc.handshake())
	}
	return bc.regs[PRA]&bc.regs[DDRA] | in&^bc.regs[DDRA]
}

// Port B bits 5 and 6 are the device address jumpers.
func (p *busPorts) ReadPortB() byte {
	jumpers := byte((p.id &^ 0x08) << 5)
	return (p.regs[PRB]&0x1a | p.bus.DeviceRead()) ^ 0x85 | jumpers
}

func (p *busPorts) StoreACR(v byte)     {}
func (p *busPorts) StoreSR(v byte)      {}
func (p *busPorts) StoreT2Latch(v byte) {}
func (p *busPorts) SetCA2(high bool)    {}
func (p *busPorts) SetCB2(high bool)    {}
