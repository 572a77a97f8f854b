// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package drive

// Memory sizes
const (
	RAMSize        = 0x800
	ROMSize        = 0x4000
	ExpansionSize  = 0x2000
	ExpansionBanks = 5
)

// Chip selects below $8000.
const (
	chipMask = 0x1c00
	chipBC   = 0x1800
	chipDC   = 0x1c00
)

// memoryMap is the drive's address space as seen by its CPU. The address
// lines are only partially decoded, so RAM and the VIAs are mirrored
// throughout the lower 32K. ROM fills the upper 32K twice. An enabled
// RAM expansion bank takes precedence over both for reads.
type memoryMap Drive

func (m *memoryMap) expansion(addr uint16) []byte {
	bank := int(addr >> 13)
	if bank > 0 && bank <= ExpansionBanks {
		return m.exp[bank-1]
	}
	return nil
}

// LoadByte reads a byte with all side effects of the access.
func (m *memoryMap) LoadByte(addr uint16) byte {
	if e := m.expansion(addr); e != nil {
		return e[addr&(ExpansionSize-1)]
	}
	if addr >= 0x8000 {
		return m.rom[addr&(ROMSize-1)]
	}
	switch chip := addr & chipMask; {
	case chip < RAMSize:
		return m.ram[addr&(RAMSize-1)]
	case chip == chipBC:
		return m.BC.Read(int(addr & 0xf))
	case chip == chipDC:
		return m.DC.Read(int(addr & 0xf))
	}
	return 0xff
}

// LoadBytes reads memory without side effects. VIA registers are peeked.
func (m *memoryMap) LoadBytes(addr uint16, b []byte) {
	for i := range b {
		b[i] = m.peek(addr + uint16(i))
	}
}

func (m *memoryMap) peek(addr uint16) byte {
	if e := m.expansion(addr); e != nil {
		return e[addr&(ExpansionSize-1)]
	}
	if addr >= 0x8000 {
		return m.rom[addr&(ROMSize-1)]
	}
	switch chip := addr & chipMask; {
	case chip < RAMSize:
		return m.ram[addr&(RAMSize-1)]
	case chip == chipBC:
		return m.BC.Peek(int(addr & 0xf))
	case chip == chipDC:
		return m.DC.Peek(int(addr & 0xf))
	}
	return 0xff
}

// StoreByte writes a byte as the CPU does. Writes to ROM are ignored. A
// write into an enabled expansion bank also reaches the chip mirrored at
// the same address.
func (m *memoryMap) StoreByte(addr uint16, v byte) {
	if e := m.expansion(addr); e != nil {
		e[addr&(ExpansionSize-1)] = v
	}
	if addr >= 0x8000 {
		return
	}
	switch chip := addr & chipMask; {
	case chip < RAMSize:
		m.ram[addr&(RAMSize-1)] = v
	case chip == chipBC:
		m.BC.Write(int(addr&0xf), v)
	case chip == chipDC:
		m.DC.Write(int(addr&0xf), v)
	}
}

// StoreBytes writes memory on behalf of a debugger or loader. Unlike the
// CPU, it can write ROM.
func (m *memoryMap) StoreBytes(addr uint16, b []byte) {
	for i, v := range b {
		a := addr + uint16(i)
		if a >= 0x8000 && m.expansion(a) == nil {
			m.rom[a&(ROMSize-1)] = v
			continue
		}
		m.StoreByte(a, v)
	}
}
