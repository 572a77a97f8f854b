// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rotation simulates the spinning disk under the 1541 read/write
// head. Elapsed clock ticks are converted into the number of bits that
// passed the head, and every bit is fed through the drive's read or write
// electronics: sync detection, byte framing and the flux noise a real
// drive picks up from long runs of zero bits.
package rotation

import (
	"math/rand/v2"

	"github.com/beevik/go1541/gcr"
)

// Mode is the direction of the read/write head.
type Mode byte

// Head modes.
const (
	Read Mode = iota
	Write
)

func (m Mode) String() string {
	if m == Write {
		return "write"
	}
	return "read"
}

// Bits passing the head per million clock ticks in each speed zone.
var bitsPerMillion = [4]int64{250000, 266667, 285714, 307692}

const (
	syncPattern = 0x3ff
	historyMask = 0x3fe
)

// A Controller is the drive electronics the engine reports to. All of
// its methods are called synchronously from Advance.
type Controller interface {
	// Clock returns the current tick.
	Clock() int64

	// Mode returns the current head mode.
	Mode() Mode

	// LatchRead receives a completed byte read from the disk.
	LatchRead(b byte)

	// NextWrite returns the next byte to write to the disk.
	NextWrite() byte

	// TrackSize returns the size in bytes of the track under the head.
	TrackSize() int

	// MarkDirty is called whenever a bit is written to the track.
	MarkDirty()

	// DiskChanging returns true while a disk is being inserted.
	DiskChanging() bool
}

// Rotation is the rotation engine of a single drive. It owns the GCR
// codec holding the disk's data.
type Rotation struct {
	// Noise enables the simulation of random flux reversals in long runs
	// of zero bits.
	Noise bool

	ctl        Controller
	codec      *gcr.Codec
	rnd        *rand.Rand
	accum      int64 // fractional bits, scaled by one million
	lastClk    int64
	zone       int
	bitCounter int
	lastRead   int // last 10 bits read
	lastWrite  byte
	zeroCount  int
}

// New creates a rotation engine reporting to ctl. The random source
// drives the flux noise; if nil, a randomly seeded source is used.
func New(ctl Controller, rnd *rand.Rand) *Rotation {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Rotation{
		Noise: true,
		ctl:   ctl,
		codec: gcr.NewCodec(),
		rnd:   rnd,
	}
}

// Codec returns the GCR codec holding the disk's data.
func (r *Rotation) Codec() *gcr.Codec {
	return r.codec
}

// Reset returns the engine to speed zone 0 and moves the head to the
// start of the disk.
func (r *Rotation) Reset() {
	r.zone = 0
	r.accum = 0
	r.bitCounter = 0
	r.RotationBegins()
	r.codec.Reset()
}

// SetSpeedZone selects the bit rate. The new rate applies to all ticks
// passed from now on.
func (r *Rotation) SetSpeedZone(zone int) {
	r.zone = zone & 3
}

// SpeedZone returns the current speed zone.
func (r *Rotation) SpeedZone() int {
	return r.zone
}

// RotationBegins sets the reference tick of the rotation. It is called
// when the drive motor starts.
func (r *Rotation) RotationBegins() {
	r.lastClk = r.ctl.Clock()
}

// SyncDetected returns true while the last 10 bits read were all ones.
// Sync is never detected while writing or while a disk is being inserted.
func (r *Rotation) SyncDetected() bool {
	if r.ctl.Mode() == Write || r.ctl.DiskChanging() {
		return false
	}
	return r.lastRead == syncPattern
}

// Advance moves the disk by the number of bits that passed the head
// since the previous call. Calling it twice on the same tick has no
// further effect.
func (r *Rotation) Advance() {
	clk := r.ctl.Clock()
	r.accum += bitsPerMillion[r.zone] * (clk - r.lastClk)
	r.lastClk = clk
	bits := int(r.accum / 1000000)
	r.accum %= 1000000

	if r.ctl.Mode() == Read {
		for ; bits > 0; bits-- {
			r.readBit()
		}
	} else {
		for ; bits > 0; bits-- {
			r.writeBit()
		}
	}
}

func (r *Rotation) readBit() {
	bit := r.codec.ReadNextBit(r.ctl.TrackSize())
	r.lastRead = r.lastRead << 1 & historyMask
	if bit != 0 {
		r.zeroCount = 0
		r.lastRead |= 1
	}

	r.zeroCount++
	switch {
	case r.Noise && r.zeroCount > 8 && r.lastRead&0x3f == 0x08 && r.chance(1<<30):
		// Random flux reversal, sometimes shifting the bit cell phase.
		r.lastRead |= 1
		if r.bitCounter < 7 && r.chance(0) {
			r.bitCounter++
			r.lastRead = r.lastRead << 1 & historyMask
		}
	case r.lastRead&0x0f == 0:
		// Clock recovery never lets four zero bits pass.
		r.lastRead |= 1
	}

	r.lastWrite <<= 1
	if r.lastRead == syncPattern {
		r.bitCounter = 0
		return
	}
	r.bitCounter++
	if r.bitCounter == 8 {
		r.bitCounter = 0

		// The write register shares the bus and latches what was read.
		r.lastWrite = byte(r.lastRead)
		r.ctl.LatchRead(byte(r.lastRead))
	}
}

func (r *Rotation) writeBit() {
	r.lastRead = r.lastRead << 1 & historyMask
	if r.lastRead&0x0f == 0 {
		r.lastRead |= 1
	}

	r.ctl.MarkDirty()
	r.codec.WriteNextBit(r.lastWrite&0x80 != 0, r.ctl.TrackSize())
	r.lastWrite <<= 1
	r.bitCounter++
	if r.bitCounter == 8 {
		r.bitCounter = 0
		r.lastWrite = r.ctl.NextWrite()
	}
}

// Returns true if a signed 32-bit random value exceeds the threshold.
func (r *Rotation) chance(threshold int32) bool {
	return int32(r.rnd.Uint32()) > threshold
}
