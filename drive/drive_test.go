package drive_test

import (
	"errors"
	"testing"

	"github.com/beevik/go1541/cpu"
	"github.com/beevik/go1541/disk"
	"github.com/beevik/go1541/drive"
	"github.com/beevik/go1541/iec"
	"github.com/beevik/go1541/via"
)

// Build a ROM holding code at $C000 and the given IRQ handler address.
func buildROM(code []byte, irq uint16) []byte {
	rom := make([]byte, drive.ROMSize)
	copy(rom, code)
	rom[0x3ffc], rom[0x3ffd] = 0x00, 0xc0
	rom[0x3ffe], rom[0x3fff] = byte(irq), byte(irq>>8)
	return rom
}

func newDrive(t *testing.T, code []byte, irq uint16) *drive.Drive {
	t.Helper()
	d := drive.New(8, cpu.MOS6502, iec.NewBus(), nil)
	if err := d.LoadROM(buildROM(code, irq)); err != nil {
		t.Fatal(err)
	}
	d.PowerOn()
	return d
}

func expectByte(t *testing.T, name string, got, exp byte) {
	t.Helper()
	if got != exp {
		t.Errorf("%s incorrect. exp: $%02X, got: $%02X", name, exp, got)
	}
}

func TestMemoryMap(t *testing.T) {
	d := newDrive(t, []byte{0xaa, 0xbb}, 0)
	m := d.Memory()

	m.StoreByte(0x0005, 0x42)
	expectByte(t, "RAM mirror $2005", m.LoadByte(0x2005), 0x42)
	expectByte(t, "Open bus $0805", m.LoadByte(0x0805), 0xff)
	expectByte(t, "Open bus $0C00", m.LoadByte(0x0c00), 0xff)

	expectByte(t, "ROM $8000", m.LoadByte(0x8000), 0xaa)
	expectByte(t, "ROM $C001", m.LoadByte(0xc001), 0xbb)
	m.StoreByte(0xc000, 0x00)
	expectByte(t, "ROM after CPU write", m.LoadByte(0xc000), 0xaa)
	m.StoreBytes(0xc000, []byte{0x11})
	expectByte(t, "ROM after loader write", m.LoadByte(0xc000), 0x11)

	m.StoreByte(0x1803, 0xff)
	expectByte(t, "BC DDRA", d.BC.Peek(via.DDRA), 0xff)
	expectByte(t, "BC DDRA mirror", m.LoadByte(0x5803), 0xff)
	m.StoreByte(0x1c03, 0x0f)
	expectByte(t, "DC DDRA", d.DC.Peek(via.DDRA), 0x0f)

	var b [2]byte
	m.LoadBytes(0x1c02, b[:])
	if b[1] != 0x0f {
		t.Errorf("LoadBytes incorrect. exp: $0F, got: $%02X", b[1])
	}
}

func TestRAMExpansion(t *testing.T) {
	d := newDrive(t, nil, 0)
	m := d.Memory()

	d.SetRAMExpansion(0, true)
	m.StoreByte(0x2005, 0x99)
	expectByte(t, "Expansion $2005", m.LoadByte(0x2005), 0x99)
	expectByte(t, "RAM $0005", m.LoadByte(0x0005), 0x99)

	d.SetRAMExpansion(3, true)
	m.StoreByte(0x8000, 0x01)
	expectByte(t, "Expansion $8000", m.LoadByte(0x8000), 0x01)
	d.SetRAMExpansion(3, false)
	expectByte(t, "ROM $8000", m.LoadByte(0x8000), 0x00)

	if !d.RAMExpansion(0) || d.RAMExpansion(3) {
		t.Error("Expansion state incorrect.")
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected panic for expansion bank 5.")
		}
	}()
	d.SetRAMExpansion(5, true)
}

func TestRunProgram(t *testing.T) {
	d := newDrive(t, []byte{
		0xa9, 0x42, // LDA #$42
		0x8d, 0x00, 0x03, // STA $0300
		0xee, 0x01, 0x03, // INC $0301
		0x4c, 0x05, 0xc0, // JMP $C005
	}, 0)

	d.Step()
	if d.CPU.LastPC != 0xc000 {
		t.Fatalf("PC incorrect. exp: $C000, got: $%04X", d.CPU.LastPC)
	}
	if n := d.Step(); n != 2 {
		t.Errorf("LDA ticks incorrect. exp: 2, got: %d", n)
	}
	expectByte(t, "A", d.CPU.Reg.A, 0x42)
	if d.CPU.Reg.Zero || d.CPU.Reg.Sign {
		t.Errorf("Flags incorrect. exp: Z=false N=false, got: Z=%v N=%v", d.CPU.Reg.Zero, d.CPU.Reg.Sign)
	}
	if n := d.Step(); n != 4 {
		t.Errorf("STA ticks incorrect. exp: 4, got: %d", n)
	}

	d.Advance(1000)
	if d.Time() != 1000 {
		t.Errorf("Time incorrect. exp: 1000, got: %d", d.Time())
	}
	m := d.Memory()
	expectByte(t, "$0300", m.LoadByte(0x0300), 0x42)
	if m.LoadByte(0x0301) == 0 {
		t.Error("Loop did not run.")
	}
}

func TestTimerInterrupt(t *testing.T) {
	d := newDrive(t, []byte{
		0x78,       // SEI
		0xa9, 0xc0, // LDA #$C0
		0x8d, 0x0e, 0x18, // STA $180E
		0xa9, 0x10, // LDA #$10
		0x8d, 0x04, 0x18, // STA $1804
		0xa9, 0x00, // LDA #$00
		0x8d, 0x05, 0x18, // STA $1805
		0x58,             // CLI
		0x4c, 0x11, 0xc0, // JMP $C011
		0xee, 0x02, 0x03, // INC $0302
		0xad, 0x04, 0x18, // LDA $1804
		0x40, // RTI
	}, 0xc014)

	d.Advance(2000)
	expectByte(t, "IRQ count", d.Memory().LoadByte(0x0302), 1)
	if d.CPU.IRQAsserted() {
		t.Error("IRQ still asserted.")
	}
}

func TestTimerInterruptDisabled(t *testing.T) {
	d := newDrive(t, []byte{
		0x4c, 0x00, 0xc0, // JMP $C000
	}, 0)
	m := d.Memory()

	m.StoreByte(0x180b, 0x40) // continuous
	m.StoreByte(0x180e, 0xc0)
	m.StoreByte(0x1804, 0xff)
	m.StoreByte(0x1805, 0x00)
	d.Advance(d.Time() + 300)
	if !d.CPU.IRQAsserted() {
		t.Fatal("IRQ not asserted.")
	}

	m.StoreByte(0x180e, 0x40)
	if d.CPU.IRQAsserted() {
		t.Error("IRQ still asserted after IER cleared.")
	}
	for i := 0; i < 3; i++ {
		m.StoreByte(0x180d, 0x40)
		d.Advance(d.Time() + 257)
		expectByte(t, "IFR timer flag", d.BC.Peek(via.IFR)&via.IntT1, via.IntT1)
		if d.CPU.IRQAsserted() {
			t.Error("IRQ asserted with the timer interrupt disabled.")
		}
	}
}

func TestIRQFanIn(t *testing.T) {
	d := newDrive(t, nil, 0)
	m := d.Memory()

	m.StoreByte(0x180e, 0x82)
	m.StoreByte(0x1c0e, 0x82)
	d.BC.Signal(via.CA1, via.Fall)
	d.DC.Signal(via.CA1, via.Fall)
	if !d.CPU.IRQAsserted() {
		t.Fatal("IRQ not asserted.")
	}

	m.LoadByte(0x1801)
	if !d.CPU.IRQAsserted() {
		t.Error("IRQ released while the disk controller still holds it.")
	}
	m.LoadByte(0x1c01)
	if d.CPU.IRQAsserted() {
		t.Error("IRQ still asserted after both VIAs released it.")
	}
}

func TestStatus(t *testing.T) {
	d := drive.New(9, cpu.MOS6502, iec.NewBus(), nil)
	if d.Status() != drive.Off {
		t.Errorf("Status incorrect. exp: OFF, got: %v", d.Status())
	}
	d.Advance(100)
	if d.Time() != 0 {
		t.Error("Powered-off drive advanced.")
	}

	// The LED lights while port B floats after reset.
	d.PowerOn()
	m := d.Memory()
	m.StoreByte(0x1c02, 0x08)
	if d.Status() != drive.On {
		t.Errorf("Status incorrect. exp: ON, got: %v", d.Status())
	}
	m.StoreByte(0x1c00, 0x08)
	if d.Status() != drive.Load {
		t.Errorf("Status incorrect. exp: LOAD, got: %v", d.Status())
	}

	d.PowerOff()
	if d.Status() != drive.Off || d.Status().String() != "OFF" {
		t.Errorf("Status incorrect. exp: OFF, got: %v", d.Status())
	}
}

func TestDisk(t *testing.T) {
	d := newDrive(t, nil, 0)
	img, err := disk.Format("games", "01", 35)
	if err != nil {
		t.Fatal(err)
	}

	d.InsertDisk(img)
	if d.DiskName() != "games" || d.DC.Image() == nil {
		t.Errorf("Disk name incorrect. exp: games, got: %q", d.DiskName())
	}
	d.EjectDisk()
	if d.DiskName() != "" || d.DC.Image() != nil {
		t.Errorf("Disk name incorrect. exp: \"\", got: %q", d.DiskName())
	}
}

func TestROMSize(t *testing.T) {
	d := drive.New(8, cpu.MOS6502, iec.NewBus(), nil)
	if err := d.LoadROM(make([]byte, 100)); !errors.Is(err, drive.ErrROMSize) {
		t.Errorf("Error incorrect. exp: %v, got: %v", drive.ErrROMSize, err)
	}
}
