// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import "fmt"

// A cycle is one clock tick's worth of CPU work. Cycles that write to the
// bus are marked nosteal: the CPU cannot be halted during them.
type cycle struct {
	fn      func(cpu *CPU)
	nosteal bool
}

// A microcode program holds the ordered cycles of one opcode or interrupt
// sequence. The last entry always services interrupts and fetches the
// next opcode.
type microcode struct {
	cycles []cycle
	jam    bool
}

// Opcodes referenced directly by the CPU.
const (
	opCLI = 0x58
	opSEI = 0x78
	opNOP = 0xea
)

// Interrupt sequences
const (
	seqRST = iota
	seqNMI
	seqIRQ
)

// Microcode tables, built once at start-up and never modified.
var (
	opTable  [256]microcode
	intTable [3]microcode
)

func init() {
	for i := range data {
		opTable[i] = buildOpcode(&data[i])
	}
	for i := range intTable {
		intTable[i] = buildInterrupt(i)
	}
}

// How an instruction accesses its effective address.
type access byte

const (
	accNone access = iota
	accRead
	accWrite
	accModify
)

type builder struct {
	cycles []cycle
}

func (b *builder) add(fns ...func(cpu *CPU)) {
	for _, fn := range fns {
		b.cycles = append(b.cycles, cycle{fn: fn})
	}
}

func (b *builder) addNoSteal(fns ...func(cpu *CPU)) {
	for _, fn := range fns {
		b.cycles = append(b.cycles, cycle{fn: fn, nosteal: true})
	}
}

// Add a cycle that performs fn and then ends the instruction.
func (b *builder) addFinal(fn func(cpu *CPU)) {
	b.add(func(cpu *CPU) {
		fn(cpu)
		cpu.interruptsAndNextOpcode()
	})
}

func accessOf(d *opcodeData) access {
	switch d.mode {
	case IMM, IMP, ACC, REL, IND:
		return accNone
	}
	switch {
	case d.sym == symJMP || d.sym == symJSR:
		return accNone
	case readOps[d.sym] != nil || d.sym == symNOP:
		return accRead
	case storeOps[d.sym] != nil:
		return accWrite
	case modifyOps[d.sym] != nil:
		return accModify
	}
	return accNone
}

func buildOpcode(d *opcodeData) microcode {
	var b builder
	acc := accessOf(d)

	// Addressing cycles
	switch d.mode {
	case IMP, ACC:
		switch d.sym {
		case symBRK, symRTI, symRTS:
			b.add((*CPU).readImmediate)
		case symJAM:
		default:
			b.add((*CPU).dummyRead)
		}
	case IMM, REL:
		b.add((*CPU).readImmediate)
	case ZPG:
		b.add((*CPU).fetchLowAddr)
	case ZPX:
		b.add((*CPU).fetchLowAddrX, (*CPU).wasted)
	case ZPY:
		b.add((*CPU).fetchLowAddrY, (*CPU).wasted)
	case ABS:
		b.add((*CPU).fetchLowAddr)
		if d.sym != symJSR {
			b.add((*CPU).fetchHighAddr)
		}
	case ABX:
		b.add((*CPU).fetchLowAddr)
		if acc == accRead {
			b.add((*CPU).fetchHighAddrXPenalty)
		} else {
			b.add((*CPU).fetchHighAddrX)
		}
		b.add((*CPU).throwAwayRead)
	case ABY:
		b.add((*CPU).fetchLowAddr)
		if acc == accRead {
			b.add((*CPU).fetchHighAddrYPenalty)
		} else {
			b.add((*CPU).fetchHighAddrY)
		}
		b.add((*CPU).throwAwayRead)
	case IND:
		b.add((*CPU).fetchLowPointer, (*CPU).fetchHighPointer,
			(*CPU).fetchLowEffAddr, (*CPU).fetchHighEffAddr)
	case IDX:
		b.add((*CPU).fetchLowPointer, (*CPU).indexPointerX,
			(*CPU).fetchLowEffAddr, (*CPU).fetchHighEffAddr)
	case IDY:
		b.add((*CPU).fetchLowPointer, (*CPU).fetchLowEffAddr)
		if acc == accRead {
			b.add((*CPU).fetchHighEffAddrYPenalty)
		} else {
			b.add((*CPU).fetchHighEffAddrY)
		}
		b.add((*CPU).throwAwayRead)
	}

	if acc == accRead || acc == accModify {
		b.add((*CPU).readEffAddr)
	}

	// Operation cycles
	var jam bool
	switch {
	case d.sym == symNOP:
	case d.sym == symJAM:
		b.add(func(cpu *CPU) { cpu.Reg.PC-- })
		jam = true
	case d.mode == ACC:
		op := accumulatorOps[d.sym]
		b.addFinal(func(cpu *CPU) { cpu.Reg.A = op(cpu, cpu.Reg.A) })
	case impliedOps[d.sym] != nil:
		b.addFinal(impliedOps[d.sym])
	case readOps[d.sym] != nil:
		b.addFinal(readOps[d.sym])
	case storeOps[d.sym] != nil:
		op := storeOps[d.sym]
		b.addNoSteal(func(cpu *CPU) {
			op(cpu)
			cpu.writeEffAddr()
		})
	case modifyOps[d.sym] != nil:
		op := modifyOps[d.sym]
		b.addNoSteal(func(cpu *CPU) {
			cpu.writeEffAddr()
			op(cpu)
		}, (*CPU).writeEffAddr)
	case branchConds[d.sym] != nil:
		b.add(branch(branchConds[d.sym]), (*CPU).throwAwayRead)
	default:
		if !buildSpecial(&b, d.sym) {
			panic(fmt.Sprintf("cpu: opcode $%02X has no microcode", d.opcode))
		}
	}

	b.add((*CPU).interruptsAndNextOpcode)
	return microcode{cycles: b.cycles, jam: jam}
}

// Build the stack and flow-control instructions, which don't fit the
// operand-access patterns.
func buildSpecial(b *builder, sym opsym) bool {
	switch sym {
	case symBRK:
		b.addNoSteal((*CPU).pushHighPC, (*CPU).pushLowPC, (*CPU).brkPushSR)
		b.add((*CPU).irqVectorLow, (*CPU).irqVectorHigh, (*CPU).fetchOpcode)
	case symCLI:
		b.addFinal(func(cpu *CPU) {
			if cpu.Reg.InterruptDisable {
				cpu.irq.clk = cpu.step
			}
			cpu.Reg.InterruptDisable = false
		})
	case symSEI:
		// The new flag takes effect after the interrupt check.
		b.add(func(cpu *CPU) {
			cpu.interruptsAndNextOpcode()
			cpu.Reg.InterruptDisable = true
		})
	case symPHA:
		b.addNoSteal(func(cpu *CPU) { cpu.push(cpu.Reg.A) })
	case symPHP:
		b.addNoSteal(func(cpu *CPU) { cpu.pushSR(true) })
	case symPLA:
		b.add((*CPU).wasted, func(cpu *CPU) {
			cpu.Reg.A = cpu.pop()
			cpu.Reg.setNZ(cpu.Reg.A)
		})
	case symPLP:
		b.add((*CPU).wasted, (*CPU).wasted, func(cpu *CPU) {
			cpu.interruptsAndNextOpcode()
			cpu.popSR()
		})
	case symJSR:
		b.add((*CPU).wasted)
		b.addNoSteal((*CPU).pushHighPC, (*CPU).pushLowPC)
		b.add((*CPU).fetchHighAddr)
		b.addFinal((*CPU).jumpEffAddr)
	case symJMP:
		b.addFinal((*CPU).jumpEffAddr)
	case symRTS:
		b.add((*CPU).wasted, (*CPU).popLowPC, (*CPU).popHighPC, func(cpu *CPU) {
			cpu.Reg.PC = cpu.ea + 1
		})
	case symRTI:
		b.add((*CPU).wasted, (*CPU).popSR, (*CPU).popLowPC, (*CPU).popHighPC)
		b.addFinal((*CPU).jumpEffAddr)
	default:
		return false
	}
	return true
}

func buildInterrupt(seq int) microcode {
	var b builder
	b.add((*CPU).dummyRead, (*CPU).dummyRead)
	b.addNoSteal((*CPU).pushHighPC, (*CPU).pushLowPC, (*CPU).interruptPushSR)
	switch seq {
	case seqRST:
		b.add(func(cpu *CPU) {
			if cpu.Model == MOS6510 {
				cpu.write(0, 0x2f)
				cpu.write(1, 0x37)
			}
			cpu.Reg.PC = uint16(cpu.read(vectorReset))
		}, func(cpu *CPU) {
			cpu.Reg.PC |= uint16(cpu.read(vectorReset+1)) << 8
		})
	case seqNMI:
		b.add((*CPU).nmiVectorLow, (*CPU).nmiVectorHigh)
	case seqIRQ:
		b.add((*CPU).irqVectorLow, (*CPU).irqVectorHigh)
	}
	b.add((*CPU).fetchOpcode)
	return microcode{cycles: b.cycles}
}

//
// Addressing micro-operations
//

func (cpu *CPU) wasted() {}

func (cpu *CPU) dummyRead() {
	cpu.read(cpu.Reg.PC)
}

func (cpu *CPU) readImmediate() {
	cpu.data = cpu.read(cpu.Reg.PC)
	cpu.Reg.PC++
}

func (cpu *CPU) fetchLowAddr() {
	cpu.ea = uint16(cpu.read(cpu.Reg.PC))
	cpu.Reg.PC++
}

func (cpu *CPU) fetchLowAddrX() {
	cpu.fetchLowAddr()
	cpu.ea = (cpu.ea + uint16(cpu.Reg.X)) & 0xff
}

func (cpu *CPU) fetchLowAddrY() {
	cpu.fetchLowAddr()
	cpu.ea = (cpu.ea + uint16(cpu.Reg.Y)) & 0xff
}

func (cpu *CPU) fetchHighAddr() {
	cpu.ea |= uint16(cpu.read(cpu.Reg.PC)) << 8
	cpu.Reg.PC++
}

func (cpu *CPU) fetchHighAddrX() {
	cpu.fetchHighAddr()
	cpu.indexEA(cpu.Reg.X)
}

func (cpu *CPU) fetchHighAddrY() {
	cpu.fetchHighAddr()
	cpu.indexEA(cpu.Reg.Y)
}

func (cpu *CPU) fetchHighAddrXPenalty() {
	cpu.fetchHighAddrX()
	cpu.skipIfSamePage()
}

func (cpu *CPU) fetchHighAddrYPenalty() {
	cpu.fetchHighAddrY()
	cpu.skipIfSamePage()
}

func (cpu *CPU) fetchLowPointer() {
	cpu.pointer = uint16(cpu.read(cpu.Reg.PC))
	cpu.Reg.PC++
}

func (cpu *CPU) fetchHighPointer() {
	cpu.pointer |= uint16(cpu.read(cpu.Reg.PC)) << 8
	cpu.Reg.PC++
}

func (cpu *CPU) indexPointerX() {
	cpu.pointer = (cpu.pointer + uint16(cpu.Reg.X)) & 0xff
}

func (cpu *CPU) fetchLowEffAddr() {
	cpu.ea = uint16(cpu.read(cpu.pointer))
}

// The pointer's high byte is never incremented, so ($xxFF) wraps within
// its page.
func (cpu *CPU) fetchHighEffAddr() {
	cpu.pointer = cpu.pointer&0xff00 | (cpu.pointer+1)&0xff
	cpu.ea |= uint16(cpu.read(cpu.pointer)) << 8
}

func (cpu *CPU) fetchHighEffAddrY() {
	cpu.fetchHighEffAddr()
	cpu.indexEA(cpu.Reg.Y)
}

func (cpu *CPU) fetchHighEffAddrYPenalty() {
	cpu.fetchHighEffAddrY()
	cpu.skipIfSamePage()
}

// Index the effective address, remembering the address the CPU sees
// before the carry reaches the high byte.
func (cpu *CPU) indexEA(r byte) {
	cpu.wrongEA = cpu.ea&0xff00 | (cpu.ea+uint16(r))&0xff
	cpu.ea += uint16(r)
}

// Skip the fix-up read when indexing didn't cross a page.
func (cpu *CPU) skipIfSamePage() {
	if cpu.ea == cpu.wrongEA {
		cpu.step++
	}
}

func (cpu *CPU) throwAwayRead() {
	cpu.read(cpu.wrongEA)
}

func (cpu *CPU) readEffAddr() {
	cpu.data = cpu.read(cpu.ea)
}

func (cpu *CPU) writeEffAddr() {
	cpu.write(cpu.ea, cpu.data)
}

func (cpu *CPU) jumpEffAddr() {
	cpu.Reg.PC = cpu.ea
}

//
// Stack and interrupt micro-operations
//

func (cpu *CPU) pushHighPC() {
	cpu.push(byte(cpu.Reg.PC >> 8))
}

func (cpu *CPU) pushLowPC() {
	cpu.push(byte(cpu.Reg.PC))
}

func (cpu *CPU) popLowPC() {
	cpu.ea = uint16(cpu.pop())
}

func (cpu *CPU) popHighPC() {
	cpu.ea |= uint16(cpu.pop()) << 8
}

func (cpu *CPU) interruptPushSR() {
	cpu.pushSR(false)
	cpu.Reg.InterruptDisable = true
}

// An NMI arriving early enough during BRK hijacks the sequence and takes
// the NMI vector instead.
func (cpu *CPU) brkPushSR() {
	cpu.pushSR(true)
	cpu.Reg.InterruptDisable = true
	if cpu.nmi.pending && cpu.nmi.clk < 3 {
		cpu.cur = &intTable[seqNMI]
		cpu.nmi.pending = false
		cpu.step = 5
	}
}

func (cpu *CPU) irqVectorLow() {
	cpu.Reg.PC = uint16(cpu.read(vectorIRQ))
}

func (cpu *CPU) irqVectorHigh() {
	cpu.Reg.PC |= uint16(cpu.read(vectorIRQ+1)) << 8
}

func (cpu *CPU) nmiVectorLow() {
	cpu.Reg.PC = uint16(cpu.read(vectorNMI))
}

func (cpu *CPU) nmiVectorHigh() {
	cpu.Reg.PC |= uint16(cpu.read(vectorNMI+1)) << 8
}

//
// Branches
//

var branchConds = map[opsym]func(cpu *CPU) bool{
	symBCC: func(cpu *CPU) bool { return !cpu.Reg.Carry },
	symBCS: func(cpu *CPU) bool { return cpu.Reg.Carry },
	symBEQ: func(cpu *CPU) bool { return cpu.Reg.Zero },
	symBNE: func(cpu *CPU) bool { return !cpu.Reg.Zero },
	symBMI: func(cpu *CPU) bool { return cpu.Reg.Sign },
	symBPL: func(cpu *CPU) bool { return !cpu.Reg.Sign },
	symBVC: func(cpu *CPU) bool { return !cpu.overflow() },
	symBVS: func(cpu *CPU) bool { return cpu.overflow() },
}

// A taken branch without a page crossing skips the fix-up read and
// delays interrupt recognition by one more instruction cycle.
func branch(cond func(cpu *CPU) bool) func(cpu *CPU) {
	return func(cpu *CPU) {
		if !cond(cpu) {
			cpu.interruptsAndNextOpcode()
			return
		}
		cpu.read(cpu.Reg.PC)
		offset := uint16(int8(cpu.data))
		cpu.wrongEA = cpu.Reg.PC&0xff00 | (cpu.Reg.PC+offset)&0xff
		cpu.ea = cpu.Reg.PC + offset
		if cpu.ea == cpu.wrongEA {
			cpu.step++
			cpu.irq.clk += 2
			cpu.nmi.clk += 2
		}
		cpu.Reg.PC = cpu.ea
	}
}
