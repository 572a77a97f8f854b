// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disasm implements a disassembler for the NMOS 6502 instruction
// set, including its undocumented opcodes.
package disasm

import (
	"fmt"

	"github.com/beevik/go1541/cpu"
)

// Disassembler formatting for addressing modes
var modeFormat = []string{
	"#$%s",    // IMM
	"%s",      // IMP
	"$%s",     // REL
	"$%s",     // ZPG
	"$%s,X",   // ZPX
	"$%s,Y",   // ZPY
	"$%s",     // ABS
	"$%s,X",   // ABX
	"$%s,Y",   // ABY
	"($%s)",   // IND
	"($%s,X)", // IDX
	"($%s),Y", // IDY
	"A",       // ACC
}

var hex = "0123456789ABCDEF"

// Return a hexadecimal string representation of the byte slice, most
// significant byte first.
func hexString(b []byte) string {
	hexlen := len(b) * 2
	hexbuf := make([]byte, hexlen)
	j := hexlen - 1
	for _, n := range b {
		hexbuf[j] = hex[n&0xf]
		hexbuf[j-1] = hex[n>>4]
		j -= 2
	}
	return string(hexbuf)
}

// Disassemble the machine code in memory 'm' at address 'addr'. Return a
// 'line' string representing the disassembled instruction and a 'next'
// address that starts the following line of machine code. Memory is read
// without side effects. Undocumented opcodes are marked with a '*'.
func Disassemble(m cpu.Memory, addr uint16) (line string, next uint16) {
	var opcode [1]byte
	m.LoadBytes(addr, opcode[:])
	inst := cpu.Lookup(opcode[0])

	operand := make([]byte, inst.Length-1)
	m.LoadBytes(addr+1, operand)
	if inst.Mode == cpu.REL {
		// Convert relative offset to absolute address.
		braddr := addr + uint16(inst.Length) + uint16(int8(operand[0]))
		operand = []byte{byte(braddr), byte(braddr >> 8)}
	}

	name := inst.Name
	if inst.Unofficial {
		name = "*" + name
	}
	switch inst.Mode {
	case cpu.IMP:
		line = name
	case cpu.ACC:
		line = name + " " + modeFormat[inst.Mode]
	default:
		line = fmt.Sprintf("%s "+modeFormat[inst.Mode], name, hexString(operand))
	}
	next = addr + uint16(inst.Length)
	return
}

// Bytes returns the machine code of the instruction at 'addr' as a
// space-separated hexadecimal string.
func Bytes(m cpu.Memory, addr uint16) string {
	var opcode [1]byte
	m.LoadBytes(addr, opcode[:])
	b := make([]byte, cpu.Lookup(opcode[0]).Length)
	m.LoadBytes(addr, b)

	s := ""
	for i, v := range b {
		if i > 0 {
			s += " "
		}
		s += hexString([]byte{v})
	}
	return s
}
