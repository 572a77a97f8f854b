// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// Operations performed on the operand byte latched by the addressing
// cycles.
var readOps = map[opsym]func(cpu *CPU){
	symADC: (*CPU).adc,
	symAND: func(cpu *CPU) { cpu.setA(cpu.Reg.A & cpu.data) },
	symBIT: (*CPU).bit,
	symCMP: func(cpu *CPU) { cpu.compare(cpu.Reg.A) },
	symCPX: func(cpu *CPU) { cpu.compare(cpu.Reg.X) },
	symCPY: func(cpu *CPU) { cpu.compare(cpu.Reg.Y) },
	symEOR: func(cpu *CPU) { cpu.setA(cpu.Reg.A ^ cpu.data) },
	symLDA: func(cpu *CPU) { cpu.setA(cpu.data) },
	symLDX: func(cpu *CPU) { cpu.setX(cpu.data) },
	symLDY: func(cpu *CPU) { cpu.setY(cpu.data) },
	symORA: func(cpu *CPU) { cpu.setA(cpu.Reg.A | cpu.data) },
	symSBC: (*CPU).sbc,

	symANC: func(cpu *CPU) {
		cpu.setA(cpu.Reg.A & cpu.data)
		cpu.Reg.Carry = cpu.Reg.Sign
	},
	symANE: func(cpu *CPU) { cpu.setA((cpu.Reg.A | 0xee) & cpu.Reg.X & cpu.data) },
	symARR: (*CPU).arr,
	symASR: func(cpu *CPU) { cpu.setA(cpu.lsr(cpu.Reg.A & cpu.data)) },
	symLAS: func(cpu *CPU) {
		cpu.data &= cpu.Reg.SP
		cpu.Reg.SP = cpu.data
		cpu.Reg.X = cpu.data
		cpu.setA(cpu.data)
	},
	symLAX: func(cpu *CPU) {
		cpu.Reg.X = cpu.data
		cpu.setA(cpu.data)
	},
	symLXA: func(cpu *CPU) {
		cpu.Reg.X = cpu.data & (cpu.Reg.A | 0xee)
		cpu.setA(cpu.Reg.X)
	},
	symSBX: func(cpu *CPU) {
		v := int(cpu.Reg.X&cpu.Reg.A) - int(cpu.data)
		cpu.setX(byte(v))
		cpu.Reg.Carry = v >= 0
	},
}

// Operations that compute the byte written to the effective address.
var storeOps = map[opsym]func(cpu *CPU){
	symSTA: func(cpu *CPU) { cpu.data = cpu.Reg.A },
	symSTX: func(cpu *CPU) { cpu.data = cpu.Reg.X },
	symSTY: func(cpu *CPU) { cpu.data = cpu.Reg.Y },
	symSAX: func(cpu *CPU) { cpu.data = cpu.Reg.A & cpu.Reg.X },

	// The high-byte stores AND their value with the target page + 1. When
	// indexing crossed a page, the stored value also replaces the high
	// byte of the target address.
	symSHA: func(cpu *CPU) {
		cpu.data = cpu.Reg.X & cpu.Reg.A & (byte(cpu.ea>>8) + 1)
		cpu.highByteStoreFixup()
	},
	symSHS: func(cpu *CPU) {
		cpu.Reg.SP = cpu.Reg.A & cpu.Reg.X
		cpu.data = (byte(cpu.ea>>8) + 1) & cpu.Reg.SP
		cpu.highByteStoreFixup()
	},
	symSHX: func(cpu *CPU) {
		cpu.data = cpu.Reg.X & (byte(cpu.ea>>8) + 1)
		cpu.highByteStoreFixup()
	},
	symSHY: func(cpu *CPU) {
		cpu.data = cpu.Reg.Y & (byte(cpu.ea>>8) + 1)
		cpu.highByteStoreFixup()
	},
}

// Operations that modify the operand byte in place. They run after the
// unmodified value has been written back.
var modifyOps = map[opsym]func(cpu *CPU){
	symASL: func(cpu *CPU) { cpu.data = cpu.asl(cpu.data); cpu.Reg.setNZ(cpu.data) },
	symLSR: func(cpu *CPU) { cpu.data = cpu.lsr(cpu.data); cpu.Reg.setNZ(cpu.data) },
	symROL: func(cpu *CPU) { cpu.data = cpu.rol(cpu.data); cpu.Reg.setNZ(cpu.data) },
	symROR: func(cpu *CPU) { cpu.data = cpu.ror(cpu.data); cpu.Reg.setNZ(cpu.data) },
	symINC: func(cpu *CPU) { cpu.data++; cpu.Reg.setNZ(cpu.data) },
	symDEC: func(cpu *CPU) { cpu.data--; cpu.Reg.setNZ(cpu.data) },

	symDCP: func(cpu *CPU) {
		cpu.data--
		cpu.compare(cpu.Reg.A)
	},
	symISB: func(cpu *CPU) {
		cpu.data++
		cpu.Reg.setNZ(cpu.data)
		cpu.sbc()
	},
	symSLO: func(cpu *CPU) {
		cpu.data = cpu.asl(cpu.data)
		cpu.setA(cpu.Reg.A | cpu.data)
	},
	symSRE: func(cpu *CPU) {
		cpu.data = cpu.lsr(cpu.data)
		cpu.setA(cpu.Reg.A ^ cpu.data)
	},
	symRLA: func(cpu *CPU) {
		cpu.data = cpu.rol(cpu.data)
		cpu.setA(cpu.Reg.A & cpu.data)
	},
	symRRA: func(cpu *CPU) {
		cpu.data = cpu.ror(cpu.data)
		cpu.adc()
	},
}

// Shifts and rotates applied to the accumulator.
var accumulatorOps = map[opsym]func(cpu *CPU, v byte) byte{
	symASL: func(cpu *CPU, v byte) byte { v = cpu.asl(v); cpu.Reg.setNZ(v); return v },
	symLSR: func(cpu *CPU, v byte) byte { v = cpu.lsr(v); cpu.Reg.setNZ(v); return v },
	symROL: func(cpu *CPU, v byte) byte { v = cpu.rol(v); cpu.Reg.setNZ(v); return v },
	symROR: func(cpu *CPU, v byte) byte { v = cpu.ror(v); cpu.Reg.setNZ(v); return v },
}

// Single-cycle register and flag operations.
var impliedOps = map[opsym]func(cpu *CPU){
	symCLC: func(cpu *CPU) { cpu.Reg.Carry = false },
	symCLD: func(cpu *CPU) { cpu.Reg.Decimal = false },
	symCLV: func(cpu *CPU) { cpu.setOverflow(false) },
	symSEC: func(cpu *CPU) { cpu.Reg.Carry = true },
	symSED: func(cpu *CPU) { cpu.Reg.Decimal = true },
	symDEX: func(cpu *CPU) { cpu.setX(cpu.Reg.X - 1) },
	symDEY: func(cpu *CPU) { cpu.setY(cpu.Reg.Y - 1) },
	symINX: func(cpu *CPU) { cpu.setX(cpu.Reg.X + 1) },
	symINY: func(cpu *CPU) { cpu.setY(cpu.Reg.Y + 1) },
	symTAX: func(cpu *CPU) { cpu.setX(cpu.Reg.A) },
	symTAY: func(cpu *CPU) { cpu.setY(cpu.Reg.A) },
	symTSX: func(cpu *CPU) { cpu.setX(cpu.Reg.SP) },
	symTXA: func(cpu *CPU) { cpu.setA(cpu.Reg.X) },
	symTXS: func(cpu *CPU) { cpu.Reg.SP = cpu.Reg.X },
	symTYA: func(cpu *CPU) { cpu.setA(cpu.Reg.Y) },
}

func (cpu *CPU) setA(v byte) {
	cpu.Reg.A = v
	cpu.Reg.setNZ(v)
}

func (cpu *CPU) setX(v byte) {
	cpu.Reg.X = v
	cpu.Reg.setNZ(v)
}

func (cpu *CPU) setY(v byte) {
	cpu.Reg.Y = v
	cpu.Reg.setNZ(v)
}

func (cpu *CPU) highByteStoreFixup() {
	if cpu.wrongEA != cpu.ea {
		cpu.ea = uint16(cpu.data)<<8 | cpu.ea&0xff
	}
}

func (cpu *CPU) compare(reg byte) {
	cpu.Reg.setNZ(reg - cpu.data)
	cpu.Reg.Carry = reg >= cpu.data
}

func (cpu *CPU) bit() {
	cpu.Reg.Zero = cpu.Reg.A&cpu.data == 0
	cpu.Reg.Sign = cpu.data&0x80 != 0
	cpu.setOverflow(cpu.data&0x40 != 0)
}

func (cpu *CPU) asl(v byte) byte {
	cpu.Reg.Carry = v&0x80 != 0
	return v << 1
}

func (cpu *CPU) lsr(v byte) byte {
	cpu.Reg.Carry = v&0x01 != 0
	return v >> 1
}

func (cpu *CPU) rol(v byte) byte {
	carry := v&0x80 != 0
	v <<= 1
	if cpu.Reg.Carry {
		v |= 0x01
	}
	cpu.Reg.Carry = carry
	return v
}

func (cpu *CPU) ror(v byte) byte {
	carry := v&0x01 != 0
	v >>= 1
	if cpu.Reg.Carry {
		v |= 0x80
	}
	cpu.Reg.Carry = carry
	return v
}

// Add with carry. In decimal mode, the zero flag comes from the binary
// sum while the sign and overflow flags come from the intermediate result
// before the high nybble is corrected.
func (cpu *CPU) adc() {
	var carry uint32
	if cpu.Reg.Carry {
		carry = 1
	}
	acc := uint32(cpu.Reg.A)
	add := uint32(cpu.data)
	sum := acc + add + carry

	if !cpu.Reg.Decimal {
		cpu.Reg.Carry = sum > 0xff
		cpu.setOverflow((sum^acc)&0x80 != 0 && (acc^add)&0x80 == 0)
		cpu.setA(byte(sum))
		return
	}

	lo := (acc & 0x0f) + (add & 0x0f) + carry
	hi := (acc & 0xf0) + (add & 0xf0)
	if lo > 0x09 {
		lo += 0x06
	}
	if lo > 0x0f {
		hi += 0x10
	}
	cpu.Reg.Zero = sum&0xff == 0
	cpu.Reg.Sign = hi&0x80 != 0
	cpu.setOverflow((hi^acc)&0x80 != 0 && (acc^add)&0x80 == 0)
	if hi > 0x90 {
		hi += 0x60
	}
	cpu.Reg.Carry = hi > 0xff
	cpu.Reg.A = byte(hi&0xf0 | lo&0x0f)
}

// Subtract with carry. All flags come from the binary difference, even
// in decimal mode.
func (cpu *CPU) sbc() {
	var borrow int32
	if !cpu.Reg.Carry {
		borrow = 1
	}
	acc := int32(cpu.Reg.A)
	sub := int32(cpu.data)
	diff := acc - sub - borrow

	cpu.Reg.Carry = diff >= 0
	cpu.setOverflow((diff^acc)&0x80 != 0 && (acc^sub)&0x80 != 0)
	cpu.Reg.setNZ(byte(diff))

	if !cpu.Reg.Decimal {
		cpu.Reg.A = byte(diff)
		return
	}

	lo := (acc & 0x0f) - (sub & 0x0f) - borrow
	hi := (acc & 0xf0) - (sub & 0xf0)
	if lo&0x10 != 0 {
		lo -= 0x06
		hi -= 0x10
	}
	if hi&0x100 != 0 {
		hi -= 0x60
	}
	cpu.Reg.A = byte(hi&0xf0 | lo&0x0f)
}

// AND the operand with the accumulator and rotate right. Decimal mode
// applies a BCD correction to each nybble.
func (cpu *CPU) arr() {
	v := cpu.data & cpu.Reg.A
	cpu.Reg.A = v >> 1
	if cpu.Reg.Carry {
		cpu.Reg.A |= 0x80
	}

	if !cpu.Reg.Decimal {
		cpu.Reg.setNZ(cpu.Reg.A)
		cpu.Reg.Carry = cpu.Reg.A&0x40 != 0
		cpu.setOverflow((cpu.Reg.A&0x40)^((cpu.Reg.A&0x20)<<1) != 0)
		return
	}

	cpu.Reg.Sign = cpu.Reg.Carry
	cpu.Reg.Zero = cpu.Reg.A == 0
	cpu.setOverflow((v^cpu.Reg.A)&0x40 != 0)
	if (v&0x0f)+(v&0x01) > 5 {
		cpu.Reg.A = cpu.Reg.A&0xf0 | (cpu.Reg.A+6)&0x0f
	}
	cpu.Reg.Carry = (uint16(v)+uint16(v&0x10))&0x1f0 > 0x50
	if cpu.Reg.Carry {
		cpu.Reg.A += 0x60
	}
}
