// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package iec connects drives to a host computer. The Bus mixes the
// open-collector ATN, CLOCK and DATA lines of the serial bus. The
// ParallelCable joins the drives' port A to a host's 8-bit user port.
package iec

import "github.com/beevik/go1541/via"

// MaxDevices is the number of addresses on the serial bus.
const MaxDevices = 16

// A Signaler receives control line edges. Drives attach their bus
// controller.
type Signaler interface {
	Signal(line via.Line, edge via.Edge)
}

type attached struct {
	id int
	bc Signaler
}

// Bus is the serial bus. Every line is pulled low as soon as one
// participant pulls it low.
//
// The host side uses the bit layout of the C64's CIA port with active-high
// levels, so a set bit is a released line. Writes carry ATN in bit 3,
// CLOCK in bit 4 and DATA in bit 5. Reads return CLOCK in bit 6 and DATA
// in bit 7. The drive side uses the 1541's port B layout.
type Bus struct {
	// Sync, if set, is called before every host access so that the
	// drives can catch up with the host's time.
	Sync func()

	drvBus  [MaxDevices]byte
	drvData [MaxDevices]byte
	drvPort byte
	cpuBus  byte
	cpuPort byte
	drives  []attached
}

// NewBus creates a serial bus with all lines released.
func NewBus() *Bus {
	b := &Bus{}
	b.Reset()
	return b
}

// Reset releases all lines.
func (b *Bus) Reset() {
	for i := range b.drvBus {
		b.drvBus[i] = 0xff
		b.drvData[i] = 0xff
	}
	b.cpuBus = 0xff
	b.cpuPort = 0xff
	b.drvPort = 0x85
}

// AddDrive attaches the bus controller of drive id. ATN edges are
// signalled on its CA1 line.
func (b *Bus) AddDrive(id int, bc Signaler) {
	b.drives = append(b.drives, attached{id & (MaxDevices - 1), bc})
	b.updatePorts()
}

// RemoveDrive detaches drive id and releases its lines.
func (b *Bus) RemoveDrive(id int) {
	id &= MaxDevices - 1
	for i, d := range b.drives {
		if d.id == id {
			b.drives = append(b.drives[:i], b.drives[i+1:]...)
			break
		}
	}
	b.drvBus[id] = 0xff
	b.drvData[id] = 0xff
	b.updatePorts()
}

func (b *Bus) sync() {
	if b.Sync != nil {
		b.Sync()
	}
}

// HostWrite sets the host's output lines.
func (b *Bus) HostWrite(data byte) {
	b.sync()

	old := b.cpuBus
	b.cpuBus = data<<2&0x80 | data<<2&0x40 | data<<1&0x10
	if (old^b.cpuBus)&0x10 != 0 {
		edge := via.Rise
		if b.cpuBus&0x10 != 0 {
			edge = via.Fall
		}
		for _, d := range b.drives {
			d.bc.Signal(via.CA1, edge)
		}
	}
	for _, d := range b.drives {
		b.setDriveBus(d.id)
	}
	b.updatePorts()
}

// HostRead returns the lines as seen by the host.
func (b *Bus) HostRead() byte {
	b.sync()
	return b.cpuPort
}

// UpdateDrive sets the port B output of drive id.
func (b *Bus) UpdateDrive(id int, v byte) {
	id &= MaxDevices - 1
	b.drvData[id] = ^v
	b.setDriveBus(id)
	b.updatePorts()
}

// DeviceRead returns the lines as seen by the drives' port B.
func (b *Bus) DeviceRead() byte {
	return b.drvPort
}

// The drive pulls DATA low itself, or through the ATN acknowledge gate
// when ATN and ATNA disagree.
func (b *Bus) setDriveBus(id int) {
	d := b.drvData[id]
	b.drvBus[id] = d<<3&0x40 | d<<6&((^d^b.cpuBus)<<3)&0x80
}

func (b *Bus) updatePorts() {
	b.cpuPort = b.cpuBus
	for _, d := range b.drives {
		b.cpuPort &= b.drvBus[d.id]
	}
	b.drvPort = b.cpuPort>>4&0x04 | b.cpuPort>>7 | b.cpuBus<<3&0x80
}

// Lines returns the state of the ATN, CLOCK and DATA lines, true for
// released.
func (b *Bus) Lines() (atn, clock, data bool) {
	return b.cpuBus&0x10 != 0, b.cpuPort&0x40 != 0, b.cpuPort&0x80 != 0
}
