// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cpu implements a cycle-exact NMOS 6502/6510 CPU. Every
// instruction is executed as a sequence of per-cycle micro-operations
// driven by an event scheduler, so memory accesses, interrupt
// recognition and bus stalls happen on the same clock tick as on real
// hardware.
package cpu

import "github.com/beevik/go1541/event"

// Model selects the CPU chip: 6502 or 6510.
type Model byte

const (
	// MOS6502 is the plain NMOS 6502, as used in the 1541 drive.
	MOS6502 Model = iota

	// MOS6510 is the 6502 variant with an on-chip I/O port at $00/$01.
	MOS6510
)

func (m Model) String() string {
	if m == MOS6510 {
		return "6510"
	}
	return "6502"
}

// CPU represents a single 6502 CPU. It contains a pointer to the
// memory associated with the CPU.
type CPU struct {
	Model        Model     // CPU model
	Reg          Registers // CPU registers
	Mem          Memory    // assigned memory
	Cycles       uint64    // total executed CPU cycles
	Instructions uint64    // instructions fetched since reset
	LastPC       uint16    // address of the most recently fetched instruction

	// OnOverflowAccess, if set, is called whenever the CPU is about to
	// read or write the overflow flag. Devices wired to the SO pin use it
	// to bring themselves up to date first.
	OnOverflowAccess func()

	sched     *event.Scheduler
	noSteal   *event.Event
	steal     *event.Event
	busAvail  bool
	cur       *microcode
	step      int
	ea        uint16
	wrongEA   uint16
	pointer   uint16
	data      byte
	irq       line
	nmi       line
	debugger  *Debugger
	storeByte func(cpu *CPU, addr uint16, v byte)
}

// An interrupt line may be held by several sources at once.
type line struct {
	count   int  // number of sources holding the line
	pending bool // interrupt observed and not yet serviced
	clk     int  // micro-op step at which the interrupt arrived
}

// Interrupt vectors
const (
	vectorNMI   = 0xfffa
	vectorReset = 0xfffc
	vectorIRQ   = 0xfffe
)

// NewCPU creates an emulated CPU bound to the specified memory and
// scheduler. The CPU does nothing until it is reset.
func NewCPU(model Model, m Memory, sched *event.Scheduler) *CPU {
	cpu := &CPU{
		Model:     model,
		Mem:       m,
		sched:     sched,
		busAvail:  true,
		storeByte: (*CPU).storeByteNormal,
	}
	cpu.noSteal = event.New("CPU-nosteal", cpu.runNoSteal)
	cpu.steal = event.New("CPU-steal", cpu.runSteal)
	cpu.cur = &opTable[opNOP]
	return cpu
}

// Reset asserts the reset line. The reset sequence begins on the next
// PHI2 phase of the scheduler.
func (cpu *CPU) Reset() {
	cpu.Reg.reset()
	cpu.irq = line{clk: -1}
	cpu.nmi = line{clk: -1}
	cpu.busAvail = true
	cpu.sched.Cancel(cpu.steal)
	cpu.sched.ScheduleInPhase(cpu.noSteal, 0, event.PHI2)
	cpu.step = 0
	cpu.cur = &intTable[seqRST]
	cpu.Instructions = 0
}

// Jump forces the CPU to continue execution at 'addr'. The instruction at
// the address is fetched on the next CPU cycle.
func (cpu *CPU) Jump(addr uint16) {
	cpu.step = 1
	cpu.cur = &opTable[opNOP]
	cpu.ea = addr
	cpu.Reg.PC = addr
}

// SetBusAvailable raises or lowers the CPU's bus-available (AEC/RDY)
// input. While the bus is unavailable, the CPU stalls on its next
// stealable cycle; writes are never stalled.
func (cpu *CPU) SetBusAvailable(avail bool) {
	if cpu.busAvail == avail {
		return
	}
	if cpu.busAvail {
		cpu.sched.Cancel(cpu.noSteal)
	} else {
		cpu.sched.Cancel(cpu.steal)
	}
	cpu.busAvail = avail
	if avail {
		cpu.sched.ScheduleInPhase(cpu.noSteal, 0, event.PHI2)
	} else {
		cpu.sched.ScheduleInPhase(cpu.steal, 0, event.PHI2)
	}
}

// TriggerIRQ asserts the IRQ line on behalf of one interrupt source.
func (cpu *CPU) TriggerIRQ() {
	cpu.trigger(&cpu.irq)
}

// ClearIRQ releases the IRQ line on behalf of one interrupt source. It
// panics if more sources are released than were asserted.
func (cpu *CPU) ClearIRQ() {
	cpu.irq.count--
	if cpu.irq.count < 0 {
		panic("cpu: IRQ cleared more times than triggered")
	}
}

// TriggerNMI asserts the NMI line on behalf of one interrupt source.
func (cpu *CPU) TriggerNMI() {
	cpu.trigger(&cpu.nmi)
}

// ClearNMI releases the NMI line on behalf of one interrupt source.
func (cpu *CPU) ClearNMI() {
	cpu.nmi.count--
	if cpu.nmi.count < 0 {
		panic("cpu: NMI cleared more times than triggered")
	}
}

func (cpu *CPU) trigger(l *line) {
	if l.count == 0 {
		l.pending = true
		l.clk = cpu.step

		// A stalled CPU may still consume one cycle of interrupt delay.
		if !cpu.busAvail {
			cpu.sched.Cancel(cpu.steal)
			cpu.sched.ScheduleInPhase(cpu.steal, 0, event.PHI2)
		}
	}
	l.count++
}

// IRQAsserted returns true if any source holds the IRQ line.
func (cpu *CPU) IRQAsserted() bool {
	return cpu.irq.count > 0
}

// SignalOverflow sets the overflow flag through the CPU's SO pin.
func (cpu *CPU) SignalOverflow() {
	cpu.Reg.Overflow = true
}

// GetInstruction returns the instruction opcode at the requested address.
func (cpu *CPU) GetInstruction(addr uint16) *Instruction {
	var b [1]byte
	cpu.Mem.LoadBytes(addr, b[:])
	return Lookup(b[0])
}

// NextAddr returns the address of the next instruction following the
// instruction at addr.
func (cpu *CPU) NextAddr(addr uint16) uint16 {
	return addr + uint16(cpu.GetInstruction(addr).Length)
}

// Jammed returns true if the CPU has executed an opcode that locks up the
// processor.
func (cpu *CPU) Jammed() bool {
	return cpu.cur.jam
}

// AttachDebugger attaches a debugger to the CPU. The debugger receives
// notifications whenever the CPU fetches an instruction or stores a byte
// to memory.
func (cpu *CPU) AttachDebugger(debugger *Debugger) {
	cpu.debugger = debugger
	cpu.storeByte = (*CPU).storeByteDebugger
}

// DetachDebugger detaches the currently debugger from the CPU.
func (cpu *CPU) DetachDebugger() {
	cpu.debugger = nil
	cpu.storeByte = (*CPU).storeByteNormal
}

func (cpu *CPU) runNoSteal() {
	cpu.exec()
	cpu.sched.Schedule(cpu.noSteal, 1)
}

func (cpu *CPU) runSteal() {
	if cpu.cur.cycles[cpu.step].nosteal {
		cpu.exec()
		cpu.sched.Schedule(cpu.steal, 1)
		return
	}

	// Stalled. Interrupt latency keeps counting down for one cycle.
	if cpu.nmi.clk == cpu.step {
		cpu.nmi.clk--
	}
	if cpu.step == 0 {
		switch cpu.cur {
		case &opTable[opCLI]:
			// A CLI stalled on its first cycle consumes the IRQ delay.
			cpu.cur = &opTable[opNOP]
			cpu.Reg.InterruptDisable = false
			cpu.irq.clk = -1
			return
		case &opTable[opSEI]:
			return
		}
	}
	if cpu.irq.clk == cpu.step {
		cpu.irq.clk--
	}
}

func (cpu *CPU) exec() {
	c := cpu.cur.cycles[cpu.step]
	cpu.step++
	cpu.Cycles++
	c.fn(cpu)
}

// Service a pending interrupt if its recognition delay has elapsed,
// otherwise fetch the next opcode.
func (cpu *CPU) interruptsAndNextOpcode() {
	var seq int
	switch {
	case cpu.nmi.pending && cpu.step > cpu.nmi.clk+2:
		cpu.nmi.pending = false
		seq = seqNMI
	case !cpu.Reg.InterruptDisable && cpu.irq.pending && cpu.step > cpu.irq.clk+2:
		seq = seqIRQ
	default:
		cpu.fetchOpcode()
		return
	}
	cpu.cur = &intTable[seq]
	cpu.step = 1
	cpu.cur.cycles[0].fn(cpu)
}

func (cpu *CPU) fetchOpcode() {
	cpu.LastPC = cpu.Reg.PC
	cpu.irq.pending = cpu.irq.count != 0
	cpu.cur = &opTable[cpu.read(cpu.Reg.PC)]
	cpu.Reg.PC++
	cpu.irq.clk = -1
	cpu.nmi.clk = -1
	cpu.step = 0
	cpu.Instructions++

	if cpu.debugger != nil {
		cpu.debugger.onUpdatePC(cpu, cpu.LastPC)
	}
}

func (cpu *CPU) read(addr uint16) byte {
	return cpu.Mem.LoadByte(addr)
}

func (cpu *CPU) write(addr uint16, v byte) {
	cpu.storeByte(cpu, addr, v)
}

func (cpu *CPU) storeByteNormal(addr uint16, v byte) {
	cpu.Mem.StoreByte(addr, v)
}

func (cpu *CPU) storeByteDebugger(addr uint16, v byte) {
	cpu.Mem.StoreByte(addr, v)
	cpu.debugger.onDataStore(cpu, addr, v)
}

func (cpu *CPU) push(v byte) {
	cpu.write(stackAddress(cpu.Reg.SP), v)
	cpu.Reg.SP--
}

func (cpu *CPU) pop() byte {
	cpu.Reg.SP++
	return cpu.read(stackAddress(cpu.Reg.SP))
}

func (cpu *CPU) pushSR(brk bool) {
	cpu.overflowAccess()
	cpu.push(cpu.Reg.SavePS(brk))
}

func (cpu *CPU) popSR() {
	ps := cpu.pop()
	cpu.overflowAccess()
	cpu.Reg.RestorePS(ps)
}

func (cpu *CPU) overflowAccess() {
	if cpu.OnOverflowAccess != nil {
		cpu.OnOverflowAccess()
	}
}

func (cpu *CPU) overflow() bool {
	cpu.overflowAccess()
	return cpu.Reg.Overflow
}

func (cpu *CPU) setOverflow(v bool) {
	cpu.overflowAccess()
	cpu.Reg.Overflow = v
}
