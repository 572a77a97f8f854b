// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iec

import "github.com/beevik/go1541/via"

// ParallelCable joins the host's user port to port A of the drives. The
// value on the cable is the AND of everything driven onto it.
type ParallelCable struct {
	// Sync, if set, is called before every host access.
	Sync func()

	// OnHandshake, if set, receives the drive's handshake output on every
	// drive access of the cable.
	OnHandshake func(handshake bool)

	host   byte
	drive  [4]byte
	drives []attached
}

// NewParallelCable creates a cable on which nothing is driven.
func NewParallelCable() *ParallelCable {
	return &ParallelCable{
		host:  0xff,
		drive: [4]byte{0xff, 0xff, 0xff, 0xff},
	}
}

// AddDrive attaches the bus controller of drive id. Host pulses are
// signalled on its CB1 line.
func (c *ParallelCable) AddDrive(id int, bc Signaler) {
	c.drives = append(c.drives, attached{id, bc})
}

func (c *ParallelCable) sync() {
	if c.Sync != nil {
		c.Sync()
	}
}

func (c *ParallelCable) handshake(hs bool) {
	if c.OnHandshake != nil {
		c.OnHandshake(hs)
	}
}

func (c *ParallelCable) value() byte {
	v := c.host
	for _, d := range c.drives {
		v &= c.drive[d.id&^0x08&3]
	}
	return v
}

// DriveWrite sets the value driven by drive id.
func (c *ParallelCable) DriveWrite(v byte, handshake bool, id int) {
	c.handshake(handshake)
	c.drive[id&^0x08&3] = v
}

// DriveRead returns the cable value as seen by a drive.
func (c *ParallelCable) DriveRead(handshake bool) byte {
	c.handshake(handshake)
	return c.value()
}

// HostWrite sets the value driven by the host.
func (c *ParallelCable) HostWrite(v byte) {
	c.sync()
	c.host = v
}

// HostRead returns the cable value as seen by the host.
func (c *ParallelCable) HostRead() byte {
	c.sync()
	return c.value()
}

// Pulse strobes the host's handshake line, signalling a falling edge on
// CB1 of every attached drive.
func (c *ParallelCable) Pulse() {
	c.sync()
	for _, d := range c.drives {
		d.bc.Signal(via.CB1, via.Fall)
	}
}

// DisconnectedCable is a port A with nothing attached. All lines read
// high.
type DisconnectedCable struct{}

// DriveWrite discards the value.
func (DisconnectedCable) DriveWrite(v byte, handshake bool, id int) {}

// DriveRead returns 0xff.
func (DisconnectedCable) DriveRead(handshake bool) byte {
	return 0xff
}
