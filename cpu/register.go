// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import "fmt"

// Registers contains the state of all 6502 registers.
type Registers struct {
	A                byte   // accumulator
	X                byte   // X indexing register
	Y                byte   // Y indexing register
	SP               byte   // stack pointer ($100 + SP = stack memory location)
	PC               uint16 // program counter
	Carry            bool   // PS: Carry bit
	Zero             bool   // PS: Zero bit
	InterruptDisable bool   // PS: Interrupt disable bit
	Decimal          bool   // PS: Decimal bit
	Overflow         bool   // PS: Overflow bit
	Sign             bool   // PS: Sign bit
}

// Bits assigned to the processor status byte
const (
	CarryBit            = 1 << 0
	ZeroBit             = 1 << 1
	InterruptDisableBit = 1 << 2
	DecimalBit          = 1 << 3
	BreakBit            = 1 << 4
	ReservedBit         = 1 << 5
	OverflowBit         = 1 << 6
	SignBit             = 1 << 7
)

// SavePS saves the CPU processor status into a byte value. The break bit
// is set if requested. The reserved bit always reads as set.
func (r *Registers) SavePS(brk bool) byte {
	var ps byte = ReservedBit
	if r.Carry {
		ps |= CarryBit
	}
	if r.Zero {
		ps |= ZeroBit
	}
	if r.InterruptDisable {
		ps |= InterruptDisableBit
	}
	if r.Decimal {
		ps |= DecimalBit
	}
	if brk {
		ps |= BreakBit
	}
	if r.Overflow {
		ps |= OverflowBit
	}
	if r.Sign {
		ps |= SignBit
	}
	return ps
}

// RestorePS restores the CPU processor status from a byte.
func (r *Registers) RestorePS(ps byte) {
	r.Carry = ((ps & CarryBit) != 0)
	r.Zero = ((ps & ZeroBit) != 0)
	r.InterruptDisable = ((ps & InterruptDisableBit) != 0)
	r.Decimal = ((ps & DecimalBit) != 0)
	r.Overflow = ((ps & OverflowBit) != 0)
	r.Sign = ((ps & SignBit) != 0)
}

// String returns the register contents, with the processor status shown
// as flag letters and cleared flags shown as dashes.
func (r *Registers) String() string {
	return fmt.Sprintf("A=%02X X=%02X Y=%02X PS=[%s] SP=%02X PC=%04X",
		r.A, r.X, r.Y, r.flagString(), r.SP, r.PC)
}

func (r *Registers) flagString() string {
	ps := r.SavePS(false)
	b := []byte("NV-BDIZC")
	for i := range b {
		if ps&(0x80>>i) == 0 {
			b[i] = '-'
		}
	}
	return string(b)
}

// reset places the registers in their power-on state. The accumulator and
// index registers keep their values.
func (r *Registers) reset() {
	r.SP = 0xff
	r.PC = 0
	r.RestorePS(0)
}

func (r *Registers) setNZ(v byte) {
	r.Zero = v == 0
	r.Sign = v&0x80 != 0
}
