package disasm_test

import (
	"testing"

	"github.com/beevik/go1541/cpu"
	"github.com/beevik/go1541/disasm"
)

func TestDisassemble(t *testing.T) {
	mem := cpu.NewFlatMemory()
	mem.StoreBytes(0xc000, []byte{
		0xa9, 0x42, // LDA #$42
		0x8d, 0x00, 0x1c, // STA $1C00
		0xd0, 0xfe, // BNE $C005
		0x10, 0x04, // BPL $C00D
		0x0a,             // ASL A
		0xea,             // NOP
		0x6c, 0xfc, 0xff, // JMP ($FFFC)
		0xb1, 0x30, // LDA ($30),Y
		0xa7, 0x10, // LAX $10
		0x02, // JAM
	})

	tests := []struct {
		addr uint16
		line string
		next uint16
	}{
		{0xc000, "LDA #$42", 0xc002},
		{0xc002, "STA $1C00", 0xc005},
		{0xc005, "BNE $C005", 0xc007},
		{0xc007, "BPL $C00D", 0xc009},
		{0xc009, "ASL A", 0xc00a},
		{0xc00a, "NOP", 0xc00b},
		{0xc00b, "JMP ($FFFC)", 0xc00e},
		{0xc00e, "LDA ($30),Y", 0xc010},
		{0xc010, "*LAX $10", 0xc012},
		{0xc012, "*JAM", 0xc013},
	}
	for _, tt := range tests {
		line, next := disasm.Disassemble(mem, tt.addr)
		if line != tt.line {
			t.Errorf("Line at $%04X incorrect. exp: %q, got: %q", tt.addr, tt.line, line)
		}
		if next != tt.next {
			t.Errorf("Next at $%04X incorrect. exp: $%04X, got: $%04X", tt.addr, tt.next, next)
		}
	}
}

func TestBytes(t *testing.T) {
	mem := cpu.NewFlatMemory()
	mem.StoreBytes(0x0300, []byte{0x8d, 0x00, 0x1c, 0xea})
	if s := disasm.Bytes(mem, 0x0300); s != "8D 00 1C" {
		t.Errorf("Bytes incorrect. exp: %q, got: %q", "8D 00 1C", s)
	}
	if s := disasm.Bytes(mem, 0x0303); s != "EA" {
		t.Errorf("Bytes incorrect. exp: %q, got: %q", "EA", s)
	}
}
