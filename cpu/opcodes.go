// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// An opsym is an internal symbol used to associate an opcode's data
// with its micro-operations.
type opsym byte

const (
	symADC opsym = iota
	symAND
	symASL
	symBCC
	symBCS
	symBEQ
	symBIT
	symBMI
	symBNE
	symBPL
	symBRK
	symBVC
	symBVS
	symCLC
	symCLD
	symCLI
	symCLV
	symCMP
	symCPX
	symCPY
	symDEC
	symDEX
	symDEY
	symEOR
	symINC
	symINX
	symINY
	symJMP
	symJSR
	symLDA
	symLDX
	symLDY
	symLSR
	symNOP
	symORA
	symPHA
	symPHP
	symPLA
	symPLP
	symROL
	symROR
	symRTI
	symRTS
	symSBC
	symSEC
	symSED
	symSEI
	symSTA
	symSTX
	symSTY
	symTAX
	symTAY
	symTSX
	symTXA
	symTXS
	symTYA

	// Unofficial instructions
	symANC
	symANE
	symARR
	symASR
	symDCP
	symISB
	symJAM
	symLAS
	symLAX
	symLXA
	symRLA
	symRRA
	symSAX
	symSBX
	symSHA
	symSHS
	symSHX
	symSHY
	symSLO
	symSRE
)

var symNames = [...]string{
	symADC: "ADC", symAND: "AND", symASL: "ASL", symBCC: "BCC",
	symBCS: "BCS", symBEQ: "BEQ", symBIT: "BIT", symBMI: "BMI",
	symBNE: "BNE", symBPL: "BPL", symBRK: "BRK", symBVC: "BVC",
	symBVS: "BVS", symCLC: "CLC", symCLD: "CLD", symCLI: "CLI",
	symCLV: "CLV", symCMP: "CMP", symCPX: "CPX", symCPY: "CPY",
	symDEC: "DEC", symDEX: "DEX", symDEY: "DEY", symEOR: "EOR",
	symINC: "INC", symINX: "INX", symINY: "INY", symJMP: "JMP",
	symJSR: "JSR", symLDA: "LDA", symLDX: "LDX", symLDY: "LDY",
	symLSR: "LSR", symNOP: "NOP", symORA: "ORA", symPHA: "PHA",
	symPHP: "PHP", symPLA: "PLA", symPLP: "PLP", symROL: "ROL",
	symROR: "ROR", symRTI: "RTI", symRTS: "RTS", symSBC: "SBC",
	symSEC: "SEC", symSED: "SED", symSEI: "SEI", symSTA: "STA",
	symSTX: "STX", symSTY: "STY", symTAX: "TAX", symTAY: "TAY",
	symTSX: "TSX", symTXA: "TXA", symTXS: "TXS", symTYA: "TYA",
	symANC: "ANC", symANE: "ANE", symARR: "ARR", symASR: "ASR",
	symDCP: "DCP", symISB: "ISB", symJAM: "JAM", symLAS: "LAS",
	symLAX: "LAX", symLXA: "LXA", symRLA: "RLA", symRRA: "RRA",
	symSAX: "SAX", symSBX: "SBX", symSHA: "SHA", symSHS: "SHS",
	symSHX: "SHX", symSHY: "SHY", symSLO: "SLO", symSRE: "SRE",
}

// Mode describes a memory addressing mode.
type Mode byte

// All possible memory addressing modes
const (
	IMM Mode = iota // Immediate
	IMP             // Implied (no operand)
	REL             // Relative
	ZPG             // Zero Page
	ZPX             // Zero Page,X
	ZPY             // Zero Page,Y
	ABS             // Absolute
	ABX             // Absolute,X
	ABY             // Absolute,Y
	IND             // (Indirect)
	IDX             // (Indirect,X)
	IDY             // (Indirect),Y
	ACC             // Accumulator (no operand)
)

var modeLength = [...]byte{
	IMM: 2, IMP: 1, REL: 2, ZPG: 2, ZPX: 2, ZPY: 2,
	ABS: 3, ABX: 3, ABY: 3, IND: 3, IDX: 2, IDY: 2, ACC: 1,
}

// Opcode data for an (opcode, mode) pair
type opcodeData struct {
	sym        opsym // internal opcode symbol
	mode       Mode  // addressing mode
	opcode     byte  // opcode hex value
	cycles     byte  // documented cycles, including all penalty cycles
	unofficial bool  // opcode is not part of the documented instruction set
}

// All 256 opcodes. The cycle count is the longest possible execution
// time: page-crossing and taken-branch penalties are included.
var data = [256]opcodeData{
	{symBRK, IMP, 0x00, 7, false},
	{symORA, IDX, 0x01, 6, false},
	{symJAM, IMP, 0x02, 2, true},
	{symSLO, IDX, 0x03, 8, true},
	{symNOP, ZPG, 0x04, 3, true},
	{symORA, ZPG, 0x05, 3, false},
	{symASL, ZPG, 0x06, 5, false},
	{symSLO, ZPG, 0x07, 5, true},
	{symPHP, IMP, 0x08, 3, false},
	{symORA, IMM, 0x09, 2, false},
	{symASL, ACC, 0x0a, 2, false},
	{symANC, IMM, 0x0b, 2, true},
	{symNOP, ABS, 0x0c, 4, true},
	{symORA, ABS, 0x0d, 4, false},
	{symASL, ABS, 0x0e, 6, false},
	{symSLO, ABS, 0x0f, 6, true},

	{symBPL, REL, 0x10, 4, false},
	{symORA, IDY, 0x11, 6, false},
	{symJAM, IMP, 0x12, 2, true},
	{symSLO, IDY, 0x13, 8, true},
	{symNOP, ZPX, 0x14, 4, true},
	{symORA, ZPX, 0x15, 4, false},
	{symASL, ZPX, 0x16, 6, false},
	{symSLO, ZPX, 0x17, 6, true},
	{symCLC, IMP, 0x18, 2, false},
	{symORA, ABY, 0x19, 5, false},
	{symNOP, IMP, 0x1a, 2, true},
	{symSLO, ABY, 0x1b, 7, true},
	{symNOP, ABX, 0x1c, 5, true},
	{symORA, ABX, 0x1d, 5, false},
	{symASL, ABX, 0x1e, 7, false},
	{symSLO, ABX, 0x1f, 7, true},

	{symJSR, ABS, 0x20, 6, false},
	{symAND, IDX, 0x21, 6, false},
	{symJAM, IMP, 0x22, 2, true},
	{symRLA, IDX, 0x23, 8, true},
	{symBIT, ZPG, 0x24, 3, false},
	{symAND, ZPG, 0x25, 3, false},
	{symROL, ZPG, 0x26, 5, false},
	{symRLA, ZPG, 0x27, 5, true},
	{symPLP, IMP, 0x28, 4, false},
	{symAND, IMM, 0x29, 2, false},
	{symROL, ACC, 0x2a, 2, false},
	{symANC, IMM, 0x2b, 2, true},
	{symBIT, ABS, 0x2c, 4, false},
	{symAND, ABS, 0x2d, 4, false},
	{symROL, ABS, 0x2e, 6, false},
	{symRLA, ABS, 0x2f, 6, true},

	{symBMI, REL, 0x30, 4, false},
	{symAND, IDY, 0x31, 6, false},
	{symJAM, IMP, 0x32, 2, true},
	{symRLA, IDY, 0x33, 8, true},
	{symNOP, ZPX, 0x34, 4, true},
	{symAND, ZPX, 0x35, 4, false},
	{symROL, ZPX, 0x36, 6, false},
	{symRLA, ZPX, 0x37, 6, true},
	{symSEC, IMP, 0x38, 2, false},
	{symAND, ABY, 0x39, 5, false},
	{symNOP, IMP, 0x3a, 2, true},
	{symRLA, ABY, 0x3b, 7, true},
	{symNOP, ABX, 0x3c, 5, true},
	{symAND, ABX, 0x3d, 5, false},
	{symROL, ABX, 0x3e, 7, false},
	{symRLA, ABX, 0x3f, 7, true},

	{symRTI, IMP, 0x40, 6, false},
	{symEOR, IDX, 0x41, 6, false},
	{symJAM, IMP, 0x42, 2, true},
	{symSRE, IDX, 0x43, 8, true},
	{symNOP, ZPG, 0x44, 3, true},
	{symEOR, ZPG, 0x45, 3, false},
	{symLSR, ZPG, 0x46, 5, false},
	{symSRE, ZPG, 0x47, 5, true},
	{symPHA, IMP, 0x48, 3, false},
	{symEOR, IMM, 0x49, 2, false},
	{symLSR, ACC, 0x4a, 2, false},
	{symASR, IMM, 0x4b, 2, true},
	{symJMP, ABS, 0x4c, 3, false},
	{symEOR, ABS, 0x4d, 4, false},
	{symLSR, ABS, 0x4e, 6, false},
	{symSRE, ABS, 0x4f, 6, true},

	{symBVC, REL, 0x50, 4, false},
	{symEOR, IDY, 0x51, 6, false},
	{symJAM, IMP, 0x52, 2, true},
	{symSRE, IDY, 0x53, 8, true},
	{symNOP, ZPX, 0x54, 4, true},
	{symEOR, ZPX, 0x55, 4, false},
	{symLSR, ZPX, 0x56, 6, false},
	{symSRE, ZPX, 0x57, 6, true},
	{symCLI, IMP, 0x58, 2, false},
	{symEOR, ABY, 0x59, 5, false},
	{symNOP, IMP, 0x5a, 2, true},
	{symSRE, ABY, 0x5b, 7, true},
	{symNOP, ABX, 0x5c, 5, true},
	{symEOR, ABX, 0x5d, 5, false},
	{symLSR, ABX, 0x5e, 7, false},
	{symSRE, ABX, 0x5f, 7, true},

	{symRTS, IMP, 0x60, 6, false},
	{symADC, IDX, 0x61, 6, false},
	{symJAM, IMP, 0x62, 2, true},
	{symRRA, IDX, 0x63, 8, true},
	{symNOP, ZPG, 0x64, 3, true},
	{symADC, ZPG, 0x65, 3, false},
	{symROR, ZPG, 0x66, 5, false},
	{symRRA, ZPG, 0x67, 5, true},
	{symPLA, IMP, 0x68, 4, false},
	{symADC, IMM, 0x69, 2, false},
	{symROR, ACC, 0x6a, 2, false},
	{symARR, IMM, 0x6b, 2, true},
	{symJMP, IND, 0x6c, 5, false},
	{symADC, ABS, 0x6d, 4, false},
	{symROR, ABS, 0x6e, 6, false},
	{symRRA, ABS, 0x6f, 6, true},

	{symBVS, REL, 0x70, 4, false},
	{symADC, IDY, 0x71, 6, false},
	{symJAM, IMP, 0x72, 2, true},
	{symRRA, IDY, 0x73, 8, true},
	{symNOP, ZPX, 0x74, 4, true},
	{symADC, ZPX, 0x75, 4, false},
	{symROR, ZPX, 0x76, 6, false},
	{symRRA, ZPX, 0x77, 6, true},
	{symSEI, IMP, 0x78, 2, false},
	{symADC, ABY, 0x79, 5, false},
	{symNOP, IMP, 0x7a, 2, true},
	{symRRA, ABY, 0x7b, 7, true},
	{symNOP, ABX, 0x7c, 5, true},
	{symADC, ABX, 0x7d, 5, false},
	{symROR, ABX, 0x7e, 7, false},
	{symRRA, ABX, 0x7f, 7, true},

	{symNOP, IMM, 0x80, 2, true},
	{symSTA, IDX, 0x81, 6, false},
	{symNOP, IMM, 0x82, 2, true},
	{symSAX, IDX, 0x83, 6, true},
	{symSTY, ZPG, 0x84, 3, false},
	{symSTA, ZPG, 0x85, 3, false},
	{symSTX, ZPG, 0x86, 3, false},
	{symSAX, ZPG, 0x87, 3, true},
	{symDEY, IMP, 0x88, 2, false},
	{symNOP, IMM, 0x89, 2, true},
	{symTXA, IMP, 0x8a, 2, false},
	{symANE, IMM, 0x8b, 2, true},
	{symSTY, ABS, 0x8c, 4, false},
	{symSTA, ABS, 0x8d, 4, false},
	{symSTX, ABS, 0x8e, 4, false},
	{symSAX, ABS, 0x8f, 4, true},

	{symBCC, REL, 0x90, 4, false},
	{symSTA, IDY, 0x91, 6, false},
	{symJAM, IMP, 0x92, 2, true},
	{symSHA, IDY, 0x93, 6, true},
	{symSTY, ZPX, 0x94, 4, false},
	{symSTA, ZPX, 0x95, 4, false},
	{symSTX, ZPY, 0x96, 4, false},
	{symSAX, ZPY, 0x97, 4, true},
	{symTYA, IMP, 0x98, 2, false},
	{symSTA, ABY, 0x99, 5, false},
	{symTXS, IMP, 0x9a, 2, false},
	{symSHS, ABY, 0x9b, 5, true},
	{symSHY, ABX, 0x9c, 5, true},
	{symSTA, ABX, 0x9d, 5, false},
	{symSHX, ABY, 0x9e, 5, true},
	{symSHA, ABY, 0x9f, 5, true},

	{symLDY, IMM, 0xa0, 2, false},
	{symLDA, IDX, 0xa1, 6, false},
	{symLDX, IMM, 0xa2, 2, false},
	{symLAX, IDX, 0xa3, 6, true},
	{symLDY, ZPG, 0xa4, 3, false},
	{symLDA, ZPG, 0xa5, 3, false},
	{symLDX, ZPG, 0xa6, 3, false},
	{symLAX, ZPG, 0xa7, 3, true},
	{symTAY, IMP, 0xa8, 2, false},
	{symLDA, IMM, 0xa9, 2, false},
	{symTAX, IMP, 0xaa, 2, false},
	{symLXA, IMM, 0xab, 2, true},
	{symLDY, ABS, 0xac, 4, false},
	{symLDA, ABS, 0xad, 4, false},
	{symLDX, ABS, 0xae, 4, false},
	{symLAX, ABS, 0xaf, 4, true},

	{symBCS, REL, 0xb0, 4, false},
	{symLDA, IDY, 0xb1, 6, false},
	{symJAM, IMP, 0xb2, 2, true},
	{symLAX, IDY, 0xb3, 6, true},
	{symLDY, ZPX, 0xb4, 4, false},
	{symLDA, ZPX, 0xb5, 4, false},
	{symLDX, ZPY, 0xb6, 4, false},
	{symLAX, ZPY, 0xb7, 4, true},
	{symCLV, IMP, 0xb8, 2, false},
	{symLDA, ABY, 0xb9, 5, false},
	{symTSX, IMP, 0xba, 2, false},
	{symLAS, ABY, 0xbb, 5, true},
	{symLDY, ABX, 0xbc, 5, false},
	{symLDA, ABX, 0xbd, 5, false},
	{symLDX, ABY, 0xbe, 5, false},
	{symLAX, ABY, 0xbf, 5, true},

	{symCPY, IMM, 0xc0, 2, false},
	{symCMP, IDX, 0xc1, 6, false},
	{symNOP, IMM, 0xc2, 2, true},
	{symDCP, IDX, 0xc3, 8, true},
	{symCPY, ZPG, 0xc4, 3, false},
	{symCMP, ZPG, 0xc5, 3, false},
	{symDEC, ZPG, 0xc6, 5, false},
	{symDCP, ZPG, 0xc7, 5, true},
	{symINY, IMP, 0xc8, 2, false},
	{symCMP, IMM, 0xc9, 2, false},
	{symDEX, IMP, 0xca, 2, false},
	{symSBX, IMM, 0xcb, 2, true},
	{symCPY, ABS, 0xcc, 4, false},
	{symCMP, ABS, 0xcd, 4, false},
	{symDEC, ABS, 0xce, 6, false},
	{symDCP, ABS, 0xcf, 6, true},

	{symBNE, REL, 0xd0, 4, false},
	{symCMP, IDY, 0xd1, 6, false},
	{symJAM, IMP, 0xd2, 2, true},
	{symDCP, IDY, 0xd3, 8, true},
	{symNOP, ZPX, 0xd4, 4, true},
	{symCMP, ZPX, 0xd5, 4, false},
	{symDEC, ZPX, 0xd6, 6, false},
	{symDCP, ZPX, 0xd7, 6, true},
	{symCLD, IMP, 0xd8, 2, false},
	{symCMP, ABY, 0xd9, 5, false},
	{symNOP, IMP, 0xda, 2, true},
	{symDCP, ABY, 0xdb, 7, true},
	{symNOP, ABX, 0xdc, 5, true},
	{symCMP, ABX, 0xdd, 5, false},
	{symDEC, ABX, 0xde, 7, false},
	{symDCP, ABX, 0xdf, 7, true},

	{symCPX, IMM, 0xe0, 2, false},
	{symSBC, IDX, 0xe1, 6, false},
	{symNOP, IMM, 0xe2, 2, true},
	{symISB, IDX, 0xe3, 8, true},
	{symCPX, ZPG, 0xe4, 3, false},
	{symSBC, ZPG, 0xe5, 3, false},
	{symINC, ZPG, 0xe6, 5, false},
	{symISB, ZPG, 0xe7, 5, true},
	{symINX, IMP, 0xe8, 2, false},
	{symSBC, IMM, 0xe9, 2, false},
	{symNOP, IMP, 0xea, 2, false},
	{symSBC, IMM, 0xeb, 2, true},
	{symCPX, ABS, 0xec, 4, false},
	{symSBC, ABS, 0xed, 4, false},
	{symINC, ABS, 0xee, 6, false},
	{symISB, ABS, 0xef, 6, true},

	{symBEQ, REL, 0xf0, 4, false},
	{symSBC, IDY, 0xf1, 6, false},
	{symJAM, IMP, 0xf2, 2, true},
	{symISB, IDY, 0xf3, 8, true},
	{symNOP, ZPX, 0xf4, 4, true},
	{symSBC, ZPX, 0xf5, 4, false},
	{symINC, ZPX, 0xf6, 6, false},
	{symISB, ZPX, 0xf7, 6, true},
	{symSED, IMP, 0xf8, 2, false},
	{symSBC, ABY, 0xf9, 5, false},
	{symNOP, IMP, 0xfa, 2, true},
	{symISB, ABY, 0xfb, 7, true},
	{symNOP, ABX, 0xfc, 5, true},
	{symSBC, ABX, 0xfd, 5, false},
	{symINC, ABX, 0xfe, 7, false},
	{symISB, ABX, 0xff, 7, true},
}

// An Instruction describes a CPU instruction, including its name, its
// addressing mode, its opcode value, its operand size, and its CPU cycle
// cost.
type Instruction struct {
	Name       string // all-caps name of the instruction
	Mode       Mode   // addressing mode
	Opcode     byte   // hexadecimal opcode value
	Length     byte   // combined size of opcode and operand, in bytes
	Cycles     byte   // maximum number of CPU cycles to execute the instruction
	Unofficial bool   // instruction is an undocumented opcode
}

var instructions [256]Instruction

func init() {
	for i, d := range data {
		if int(d.opcode) != i {
			panic("opcode table out of order")
		}
		instructions[i] = Instruction{
			Name:       symNames[d.sym],
			Mode:       d.mode,
			Opcode:     d.opcode,
			Length:     modeLength[d.mode],
			Cycles:     d.cycles,
			Unofficial: d.unofficial,
		}
	}
}

// Lookup retrieves a CPU instruction corresponding to the requested opcode.
func Lookup(opcode byte) *Instruction {
	return &instructions[opcode]
}
