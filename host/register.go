// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"strings"

	"github.com/beevik/cmd"
	"github.com/beevik/go1541/cpu"
	"github.com/beevik/prefixtree/v2"
)

// A register is a CPU register or status flag that the monitor can read
// and change.
type register struct {
	name string
	size int // 0 for a flag
	get  func(h *Host) int64
	set  func(h *Host, v int64)
}

func flag(name string, p func(r *cpu.Registers) *bool) *register {
	return &register{
		name: name,
		get: func(h *Host) int64 {
			if *p(&h.drive.CPU.Reg) {
				return 1
			}
			return 0
		},
		set: func(h *Host, v int64) { *p(&h.drive.CPU.Reg) = v != 0 },
	}
}

var (
	registers    = make(map[string]*register)
	registerTree = prefixtree.New[*register]()
)

func init() {
	regs := []*register{
		{"A", 1, func(h *Host) int64 { return int64(h.drive.CPU.Reg.A) },
			func(h *Host, v int64) { h.drive.CPU.Reg.A = byte(v) }},
		{"X", 1, func(h *Host) int64 { return int64(h.drive.CPU.Reg.X) },
			func(h *Host, v int64) { h.drive.CPU.Reg.X = byte(v) }},
		{"Y", 1, func(h *Host) int64 { return int64(h.drive.CPU.Reg.Y) },
			func(h *Host, v int64) { h.drive.CPU.Reg.Y = byte(v) }},
		{"SP", 2, func(h *Host) int64 { return int64(h.drive.CPU.Reg.SP) | 0x0100 },
			func(h *Host, v int64) { h.drive.CPU.Reg.SP = byte(v) }},
		{"PC", 2, func(h *Host) int64 { return int64(h.pc()) },
			func(h *Host, v int64) { h.jump(uint16(v)) }},
		flag("Carry", func(r *cpu.Registers) *bool { return &r.Carry }),
		flag("Zero", func(r *cpu.Registers) *bool { return &r.Zero }),
		flag("InterruptDisable", func(r *cpu.Registers) *bool { return &r.InterruptDisable }),
		flag("Decimal", func(r *cpu.Registers) *bool { return &r.Decimal }),
		flag("Overflow", func(r *cpu.Registers) *bool { return &r.Overflow }),
		flag("Sign", func(r *cpu.Registers) *bool { return &r.Sign }),
	}
	for _, r := range regs {
		key := strings.ToLower(r.name)
		registers[key] = r
		registerTree.Add(key, r)
	}

	// Flag letters of the status register display.
	for key, name := range map[string]string{"c": "carry", "z": "zero", "i": "interruptdisable",
		"d": "decimal", "v": "overflow", "n": "sign"} {
		registers[key] = registers[name]
	}
}

// lookupRegister finds a register by its name, its flag letter or an
// unambiguous prefix of its name.
func lookupRegister(name string) (*register, error) {
	if r, ok := registers[name]; ok {
		return r, nil
	}
	return registerTree.FindValue(name)
}

func (h *Host) cmdRegister(c cmd.Selection) error {
	if len(c.Args) == 0 {
		if !h.requirePower() {
			return nil
		}
		d, _ := h.disassemble(h.pc(), displayAll)
		h.println(d)
		return nil
	}
	if len(c.Args) < 2 {
		h.displayUsage(c.Command)
		return nil
	}

	r, err := lookupRegister(strings.ToLower(c.Args[0]))
	if err != nil {
		h.printf("Register '%s': %v\n", c.Args[0], err)
		return nil
	}
	v, err := h.exprParser.Parse(strings.Join(c.Args[1:], " "), h)
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	r.set(h, v)
	switch r.size {
	case 0:
		h.printf("Flag %s set to %v.\n", r.name, intToBool(int(v)))
	case 1:
		h.printf("Register %s set to $%02X.\n", r.name, byte(v))
	default:
		h.printf("Register %s set to $%04X.\n", r.name, uint16(r.get(h)))
	}
	return nil
}
