// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package via emulates the MOS 6522 Versatile Interface Adapter: two 8-bit
// ports, two 16-bit timers, a shift register and edge-triggered control
// lines feeding a shared interrupt output.
//
// The VIA type implements the chip itself. What is wired to its ports
// and control lines is supplied by a Peripheral. The 1541 uses two
// specializations: the BusController, wired to the serial bus and the
// parallel cable, and the DiskController, wired to the read/write head.
package via

import (
	"fmt"

	"github.com/beevik/go1541/event"
)

// Registers
const (
	PRB    = 0x0 // port B
	PRA    = 0x1 // port A
	DDRB   = 0x2 // data direction, port B
	DDRA   = 0x3 // data direction, port A
	T1CL   = 0x4 // timer 1 counter low
	T1CH   = 0x5 // timer 1 counter high
	T1LL   = 0x6 // timer 1 latch low
	T1LH   = 0x7 // timer 1 latch high
	T2CL   = 0x8 // timer 2 counter low (read), latch low (write)
	T2CH   = 0x9 // timer 2 counter high
	SR     = 0xa // shift register
	ACR    = 0xb // auxiliary control
	PCR    = 0xc // peripheral control
	IFR    = 0xd // interrupt flags
	IER    = 0xe // interrupt enable
	PRANHS = 0xf // port A without handshake
)

// Interrupt flag and enable bits.
const (
	IntCA2 = 0x01
	IntCA1 = 0x02
	IntSR  = 0x04
	IntCB2 = 0x08
	IntCB1 = 0x10
	IntT2  = 0x20
	IntT1  = 0x40
	IntAny = 0x80
)

// Line selects a control line.
type Line byte

// Control lines
const (
	CA1 Line = iota
	CA2
	CB1
	CB2
)

var lineNames = [...]string{"CA1", "CA2", "CB1", "CB2"}

func (l Line) String() string {
	return lineNames[l&3]
}

// Edge is a signal transition on a control line.
type Edge byte

// Edges
const (
	Fall Edge = iota
	Rise
)

// The timer 1 counter runs one tick behind its alarm.
const tauOffset = -1

// A Peripheral is the hardware attached to a VIA. The VIA calls it when
// the CPU accesses a port or when an output line changes.
type Peripheral interface {
	StorePortA(v byte)
	StorePortB(v byte)
	StoreACR(v byte)
	StoreSR(v byte)
	StoreT2Latch(v byte)
	ReadPortA() byte
	ReadPortB() byte
	SetCA2(high bool)
	SetCB2(high bool)
}

// VIA is a single 6522 chip.
type VIA struct {
	name   string
	sched  *event.Scheduler
	periph Peripheral
	irq    func(asserted bool)

	regs     [16]byte
	ifr      byte
	ier      byte
	tal      int64 // timer 1 latch
	tbl      int64 // timer 2 latch
	tau      int64 // tick at which timer 1 was last loaded
	tbu      int64 // tick at which timer 2 underflows
	tai      int64 // timer 1 alarm tick
	tbi      int64 // timer 2 alarm tick
	pb7      int
	pb7x     int
	pb7o     int
	pb7xx    int
	pb7sx    int
	oldpa    byte
	oldpb    byte
	ila      byte // port A input latch
	ilb      byte // port B input latch
	ca2      bool
	cb2      bool
	asserted bool
	t1Alarm  *event.Event
	t2Alarm  *event.Event
}

// New creates a VIA. The scheduler supplies the time base for its timers,
// the peripheral is wired to its ports, and irq is called whenever the
// chip's interrupt output changes.
func New(name string, sched *event.Scheduler, p Peripheral, irq func(asserted bool)) *VIA {
	v := &VIA{
		name:   name,
		sched:  sched,
		periph: p,
		irq:    irq,
	}
	v.t1Alarm = event.New(name+"T1", v.timer1Underflow)
	v.t2Alarm = event.New(name+"T2", v.timer2Underflow)

	// Timers and latches power up with all bits set.
	for i := T1CL; i <= T2CH; i++ {
		v.regs[i] = 0xff
	}
	return v
}

// Name returns the name the VIA was created with.
func (v *VIA) Name() string {
	return v.name
}

func (v *VIA) now() int64 {
	return v.sched.Time(event.PHI2)
}

// Reset clears all registers except the timer counters, the timer latches
// and the shift register. Pending timer alarms are canceled.
func (v *VIA) Reset() {
	for i := range v.regs {
		if i < T1CL || i > SR {
			v.regs[i] = 0
		}
	}
	v.sched.Cancel(v.t1Alarm)
	v.sched.Cancel(v.t2Alarm)

	v.tal = int64(v.regs[T1LL]) | int64(v.regs[T1LH])<<8
	v.tbl = int64(v.regs[T2CL]) | int64(v.regs[T2CH])<<8
	v.tau = v.now()
	v.tbu = v.now()
	v.tai = 0
	v.tbi = 0
	v.ier = 0
	v.ifr = 0
	v.pb7, v.pb7x, v.pb7o, v.pb7xx, v.pb7sx = 0, 0, 0, 0, 0
	v.asserted = false
	v.oldpa = 0xff
	v.oldpb = 0xff

	v.ca2 = true
	v.cb2 = true
	v.periph.SetCA2(v.ca2)
	v.periph.SetCB2(v.cb2)
}

// Disable cancels the timer alarms.
func (v *VIA) Disable() {
	v.sched.Cancel(v.t1Alarm)
	v.sched.Cancel(v.t2Alarm)
}

func (v *VIA) ca2InputIndependent() bool { return v.regs[PCR]&0x0a == 0x02 }
func (v *VIA) ca2Handshake() bool        { return v.regs[PCR]&0x0c == 0x08 }
func (v *VIA) ca2Pulse() bool            { return v.regs[PCR]&0x0e == 0x0a }
func (v *VIA) ca2Toggle() bool           { return v.regs[PCR]&0x0e == 0x08 }
func (v *VIA) cb2Handshake() bool        { return v.regs[PCR]&0xc0 == 0x80 }
func (v *VIA) cb2Pulse() bool            { return v.regs[PCR]&0xe0 == 0xa0 }
func (v *VIA) cb2Toggle() bool           { return v.regs[PCR]&0xe0 == 0x80 }

// Propagate the interrupt output on a change only.
func (v *VIA) checkInterrupts() {
	irq := v.ifr&v.ier&0x7f != 0
	if irq != v.asserted {
		v.asserted = irq
		v.irq(irq)
	}
}

// IRQ returns true while the VIA asserts its interrupt output.
func (v *VIA) IRQ() bool {
	return v.asserted
}

func (v *VIA) setCA2(high bool) {
	v.ca2 = high
	v.periph.SetCA2(high)
}

func (v *VIA) setCB2(high bool) {
	v.cb2 = high
	v.periph.SetCB2(high)
}

// Signal reports an edge on one of the control lines.
func (v *VIA) Signal(line Line, edge Edge) {
	pcr := v.regs[PCR]
	switch line {
	case CA1:
		if byte(edge) == pcr&0x01 {
			if v.ca2Toggle() && !v.ca2 {
				v.setCA2(true)
			}
			v.ifr |= IntCA1
			v.checkInterrupts()
		}
	case CA2:
		if pcr&0x08 == 0 {
			if (byte(edge)<<2^pcr)&0x04 == 0 {
				v.ifr |= IntCA2
			}
			v.checkInterrupts()
		}
	case CB1:
		if byte(edge)<<4 == pcr&0x10 {
			if v.cb2Toggle() && !v.cb2 {
				v.setCB2(true)
			}
			v.ifr |= IntCB1
			v.checkInterrupts()
		}
	case CB2:
		if pcr&0x80 == 0 {
			if (byte(edge)<<6^pcr)&0x40 == 0 {
				v.ifr |= IntCB2
			}
			v.checkInterrupts()
		}
	}
}

// Timer 1 value as seen by the CPU.
func (v *VIA) timer1(clk int64) int64 {
	if clk < v.tau-tauOffset {
		return v.tau - tauOffset - clk - 2
	}
	return v.tal - (clk-v.tau+tauOffset)%(v.tal+2)
}

// Timer 2 value as seen by the CPU.
func (v *VIA) timer2(clk int64) int64 {
	return v.tbu - clk - 2
}

// Bring timer 1 and the PB7 output up to date, then reload the latch
// from its registers.
func (v *VIA) updateTimer1Latch(clk int64) {
	v.pb7x = 0
	v.pb7xx = 0
	if clk > v.tau {
		nuf := int((v.tal + 1 + clk - v.tau) / (v.tal + 2))
		if v.regs[ACR]&0x40 == 0 {
			if nuf-v.pb7sx > 1 || v.pb7 == 0 {
				v.pb7o = 1
				v.pb7sx = 0
			}
		}
		v.pb7 ^= nuf & 1
		v.tau = tauOffset + v.tal + 2 + (clk - (clk-v.tau+tauOffset)%(v.tal+2))
		if clk == v.tau-v.tal-1 {
			v.pb7xx = 1
		}
	}
	if v.tau == clk {
		v.pb7x = 1
	}
	v.tal = int64(v.regs[T1LL]) | int64(v.regs[T1LH])<<8
}

func (v *VIA) updateTimer2Latch() {
	v.tbl = int64(v.regs[T2CL]) | int64(v.regs[T2CH])<<8
}

func (v *VIA) timer1Underflow() {
	if v.regs[ACR]&0x40 != 0 {
		v.tai += v.tal + 2
		v.sched.ScheduleAbsolute(v.t1Alarm, v.tai, event.PHI1)
	}
	v.ifr |= IntT1
	v.checkInterrupts()
}

// Timer 2 pulse counting on PB6 is not emulated; it always counts ticks.
func (v *VIA) timer2Underflow() {
	v.ifr |= IntT2
	v.checkInterrupts()
}

func checkReg(addr int) {
	if addr < 0 || addr > 0xf {
		panic(fmt.Sprintf("via: register index out of range: %d", addr))
	}
}

// Write stores a value into a VIA register.
func (v *VIA) Write(addr int, b byte) {
	checkReg(addr)
	clk := v.now()

	switch addr {
	case PRA, PRANHS, DDRA:
		if addr == PRA {
			v.ifr &^= IntCA1
			if !v.ca2InputIndependent() {
				v.ifr &^= IntCA2
			}
			if v.ca2Handshake() {
				v.setCA2(false)
				if v.ca2Pulse() {
					v.setCA2(true)
				}
			}
			if v.ier&(IntCA1|IntCA2) != 0 {
				v.checkInterrupts()
			}
		}
		if addr != DDRA {
			v.regs[PRANHS] = b
			addr = PRA
		}
		v.regs[addr] = b
		b = v.regs[PRA] | ^v.regs[DDRA]
		v.periph.StorePortA(b)
		v.oldpa = b

	case PRB, DDRB:
		if addr == PRB {
			v.ifr &^= IntCB1
			if v.regs[PCR]&0xa0 != 0x20 {
				v.ifr &^= IntCB2
			}
			if v.cb2Handshake() {
				v.setCB2(false)
				if v.cb2Pulse() {
					v.setCB2(true)
				}
			}
			if v.ier&(IntCB1|IntCB2) != 0 {
				v.checkInterrupts()
			}
		}
		v.regs[addr] = b
		b = v.regs[PRB] | ^v.regs[DDRB]
		v.periph.StorePortB(b)
		v.oldpb = b

	case SR:
		v.regs[addr] = b
		v.periph.StoreSR(b)

	case T1CL, T1LL:
		v.regs[T1LL] = b
		v.updateTimer1Latch(clk)

	case T1CH:
		v.regs[T1LH] = b
		v.updateTimer1Latch(clk)

		// Load the counter from the latch.
		v.tau = clk + v.tal + 3 + tauOffset
		v.tai = clk + v.tal + 2
		v.sched.ScheduleAbsolute(v.t1Alarm, v.tai, event.PHI1)

		v.pb7 = 0
		v.pb7o = 0
		v.ifr &^= IntT1
		v.checkInterrupts()

	case T1LH:
		v.regs[addr] = b
		v.updateTimer1Latch(clk)
		v.ifr &^= IntT1
		v.checkInterrupts()

	case T2CL:
		v.regs[T2CL] = b
		v.updateTimer2Latch()
		v.periph.StoreT2Latch(b)

	case T2CH:
		v.regs[T2CH] = b
		v.updateTimer2Latch()
		v.tbu = clk + v.tbl + 3
		v.tbi = clk + v.tbl + 2
		v.sched.ScheduleAbsolute(v.t2Alarm, v.tbi, event.PHI1)
		v.ifr &^= IntT2
		v.checkInterrupts()

	case IFR:
		v.ifr &^= b
		v.checkInterrupts()

	case IER:
		if b&IntAny != 0 {
			v.ier |= b & 0x7f
		} else {
			v.ier &^= b
		}
		v.checkInterrupts()

	case ACR:
		v.writeACR(clk, b)

	case PCR:
		switch b & 0x0e {
		case 0x0c:
			v.setCA2(false)
		default:
			v.setCA2(true)
		}
		switch b & 0xe0 {
		case 0xc0:
			v.setCB2(false)
		default:
			v.setCB2(true)
		}
		v.regs[addr] = b

	default:
		v.regs[addr] = b
	}
}

// Bit 7 of the ACR routes timer 1 to PB7, bit 6 selects free-running
// mode. Timer 2 pulse counting (bit 5) and the shift register modes are
// not emulated.
func (v *VIA) writeACR(clk int64, b byte) {
	v.updateTimer1Latch(clk)
	acr := v.regs[ACR]
	if (acr^b)&0x80 != 0 && b&0x80 != 0 {
		v.pb7 = 1 ^ v.pb7x
	}
	if (acr^b)&0x40 != 0 {
		v.pb7 ^= v.pb7sx
		if b&0x40 != 0 && (v.pb7x != 0 || v.pb7xx != 0) {
			if v.tal != 0 {
				v.pb7o = 1
			} else {
				v.pb7o = 0
				if acr&0x80 != 0 && v.pb7x != 0 && v.pb7xx == 0 {
					v.pb7 ^= 1
				}
			}
		}
	}
	v.pb7sx = v.pb7x
	v.regs[ACR] = b
	v.periph.StoreACR(b)
}

// Read returns the value of a VIA register as seen by the CPU, with all
// the side effects of the access.
func (v *VIA) Read(addr int) byte {
	checkReg(addr)
	clk := v.now()

	switch addr {
	case PRA, PRANHS:
		if addr == PRA {
			v.ifr &^= IntCA1
			if v.regs[PCR]&0x0a != 0x02 {
				v.ifr &^= IntCA2
			}
			if v.ca2Handshake() {
				v.setCA2(false)
				if v.ca2Pulse() {
					v.setCA2(true)
				}
			}
			if v.ier&(IntCA1|IntCA2) != 0 {
				v.checkInterrupts()
			}
		}

		// Port A reads the pins, not the output register.
		b := v.periph.ReadPortA()
		v.ila = b
		return b

	case PRB:
		v.ifr &^= IntCB1
		if v.regs[PCR]&0xa0 != 0x20 {
			v.ifr &^= IntCB2
		}
		if v.ier&(IntCB1|IntCB2) != 0 {
			v.checkInterrupts()
		}

		// Port B reads the output register for output pins.
		b := v.periph.ReadPortB()
		v.ilb = b
		b = b&^v.regs[DDRB] | v.regs[PRB]&v.regs[DDRB]
		if v.regs[ACR]&0x80 != 0 {
			v.updateTimer1Latch(clk)
			b &= 0x7f
			if v.pb7^v.pb7x|v.pb7o != 0 {
				b |= 0x80
			}
		}
		return b

	case T1CL:
		v.ifr &^= IntT1
		v.checkInterrupts()
		return byte(v.timer1(clk))

	case T1CH:
		return byte(v.timer1(clk) >> 8)

	case T2CL:
		v.ifr &^= IntT2
		v.checkInterrupts()
		return byte(v.timer2(clk))

	case T2CH:
		return byte(v.timer2(clk) >> 8)
	}
	return v.Peek(addr)
}

// Peek returns the value of a VIA register without side effects. The
// ports return their output registers.
func (v *VIA) Peek(addr int) byte {
	checkReg(addr)
	clk := v.now()

	switch addr {
	case T1CL:
		return byte(v.timer1(clk))
	case T1CH:
		return byte(v.timer1(clk) >> 8)
	case T2CL:
		return byte(v.timer2(clk))
	case T2CH:
		return byte(v.timer2(clk) >> 8)
	case IFR:
		t := v.ifr
		if v.ifr&v.ier != 0 {
			t |= IntAny
		}
		return t
	case IER:
		return v.ier | IntAny
	}
	return v.regs[addr]
}

// State is a snapshot of a VIA for display.
type State struct {
	Regs   [16]byte
	Timer1 uint16
	Timer2 uint16
	Latch1 uint16
	Latch2 uint16
	IRQ    bool
}

// State returns a snapshot of the VIA's registers and timers.
func (v *VIA) State() State {
	var s State
	for i := range s.Regs {
		s.Regs[i] = v.Peek(i)
	}
	clk := v.now()
	s.Timer1 = uint16(v.timer1(clk))
	s.Timer2 = uint16(v.timer2(clk))
	s.Latch1 = uint16(v.tal)
	s.Latch2 = uint16(v.tbl)
	s.IRQ = v.asserted
	return s
}
