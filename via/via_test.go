package via_test

import (
	"math/rand/v2"
	"testing"

	"github.com/beevik/go1541/disk"
	"github.com/beevik/go1541/event"
	"github.com/beevik/go1541/via"
)

type ports struct {
	pa, pb   []byte
	ca2, cb2 bool
	inA, inB byte
}

func (p *ports) StorePortA(v byte)   { p.pa = append(p.pa, v) }
func (p *ports) StorePortB(v byte)   { p.pb = append(p.pb, v) }
func (p *ports) StoreACR(v byte)     {}
func (p *ports) StoreSR(v byte)      {}
func (p *ports) StoreT2Latch(v byte) {}
func (p *ports) ReadPortA() byte     { return p.inA }
func (p *ports) ReadPortB() byte     { return p.inB }
func (p *ports) SetCA2(high bool)    { p.ca2 = high }
func (p *ports) SetCB2(high bool)    { p.cb2 = high }

type irqLine struct {
	asserted bool
	changes  int
}

func (l *irqLine) set(asserted bool) {
	l.asserted = asserted
	l.changes++
}

func newVIA() (*via.VIA, *event.Scheduler, *ports, *irqLine) {
	sched := event.NewScheduler()
	p := &ports{inA: 0xff, inB: 0xff}
	irq := &irqLine{}
	v := via.New("test", sched, p, irq.set)
	v.Reset()
	return v, sched, p, irq
}

func expectByte(t *testing.T, name string, got, exp byte) {
	t.Helper()
	if got != exp {
		t.Errorf("%s incorrect. exp: $%02X, got: $%02X", name, exp, got)
	}
}

func expectBool(t *testing.T, name string, got, exp bool) {
	t.Helper()
	if got != exp {
		t.Errorf("%s incorrect. exp: %v, got: %v", name, exp, got)
	}
}

func TestTimer1Continuous(t *testing.T) {
	v, sched, _, irq := newVIA()
	v.Write(via.ACR, 0x40)
	v.Write(via.IER, via.IntAny|via.IntT1)
	v.Write(via.T1CL, 0xff)
	v.Write(via.T1CH, 0x00)

	for k := int64(1); k <= 4; k++ {
		sched.RunUntil(257*k - 1)
		expectBool(t, "IRQ before underflow", irq.asserted, false)
		sched.RunUntil(257 * k)
		expectBool(t, "IRQ at underflow", irq.asserted, true)
		expectByte(t, "IFR", v.Peek(via.IFR), via.IntAny|via.IntT1)
		v.Write(via.IFR, via.IntT1)
		expectBool(t, "IRQ after clear", irq.asserted, false)
	}
	if irq.changes != 8 {
		t.Errorf("IRQ change count incorrect. exp: 8, got: %d", irq.changes)
	}

	// With the interrupt disabled the flag keeps setting on its own.
	v.Write(via.IER, via.IntT1)
	for k := int64(5); k <= 7; k++ {
		sched.RunUntil(257*k - 1)
		expectByte(t, "IFR before underflow", v.Peek(via.IFR), 0x00)
		sched.RunUntil(257 * k)
		expectByte(t, "IFR at underflow", v.Peek(via.IFR), via.IntT1)
		expectBool(t, "IRQ at underflow", irq.asserted, false)
		v.Write(via.IFR, via.IntT1)
	}
	if irq.changes != 8 {
		t.Errorf("IRQ change count incorrect. exp: 8, got: %d", irq.changes)
	}
}

func TestTimer1OneShot(t *testing.T) {
	v, sched, _, _ := newVIA()
	v.Write(via.T1CL, 0x20)
	v.Write(via.T1CH, 0x00)

	sched.RunUntil(33)
	expectByte(t, "IFR", v.Peek(via.IFR)&via.IntT1, 0)
	sched.RunUntil(34)
	expectByte(t, "IFR", v.Peek(via.IFR)&via.IntT1, via.IntT1)

	v.Write(via.IFR, via.IntT1)
	sched.RunUntil(1000)
	expectByte(t, "IFR after one-shot", v.Peek(via.IFR)&via.IntT1, 0)
}

func TestTimer1Read(t *testing.T) {
	v, sched, _, _ := newVIA()
	v.Write(via.ACR, 0x40)
	v.Write(via.T1CL, 0xff)
	v.Write(via.T1CH, 0x00)

	sched.RunUntil(10)
	expectByte(t, "T1CH", v.Read(via.T1CH), 0x00)
	expectByte(t, "T1CL", v.Read(via.T1CL), 0xf6)

	sched.RunUntil(257)
	expectByte(t, "T1CH at underflow", v.Peek(via.T1CH), 0xff)
	expectByte(t, "T1CL at underflow", v.Peek(via.T1CL), 0xff)
	expectByte(t, "IFR", v.Peek(via.IFR)&via.IntT1, via.IntT1)

	sched.RunUntil(258)
	expectByte(t, "T1CL after reload", v.Read(via.T1CL), 0xff)
	expectByte(t, "IFR after T1CL read", v.Peek(via.IFR)&via.IntT1, 0)
}

func TestTimer2(t *testing.T) {
	v, sched, _, _ := newVIA()
	v.Write(via.T2CL, 0x10)
	v.Write(via.T2CH, 0x00)

	sched.RunUntil(5)
	expectByte(t, "T2CL", v.Peek(via.T2CL), 0x0c)
	sched.RunUntil(17)
	expectByte(t, "IFR", v.Peek(via.IFR)&via.IntT2, 0)
	sched.RunUntil(18)
	expectByte(t, "IFR", v.Peek(via.IFR)&via.IntT2, via.IntT2)

	v.Read(via.T2CL)
	expectByte(t, "IFR after T2CL read", v.Peek(via.IFR)&via.IntT2, 0)
	sched.RunUntil(100000)
	expectByte(t, "IFR after one-shot", v.Peek(via.IFR)&via.IntT2, 0)
}

func TestPB7(t *testing.T) {
	v, sched, _, _ := newVIA()
	v.Write(via.ACR, 0xc0)
	v.Write(via.T1CL, 0x10)
	v.Write(via.T1CH, 0x00)

	sched.RunUntil(5)
	expectByte(t, "PB7", v.Read(via.PRB)&0x80, 0x00)
	sched.RunUntil(20)
	expectByte(t, "PB7", v.Read(via.PRB)&0x80, 0x80)
	sched.RunUntil(40)
	expectByte(t, "PB7", v.Read(via.PRB)&0x80, 0x00)
}

func TestInterruptRegisters(t *testing.T) {
	v, _, _, irq := newVIA()

	v.Write(via.IER, via.IntAny|via.IntCA1|via.IntCB1)
	expectByte(t, "IER", v.Read(via.IER), 0x92)
	v.Write(via.IER, via.IntCB1)
	expectByte(t, "IER", v.Read(via.IER), 0x82)

	// PCR bit 0 clear selects the falling edge.
	v.Signal(via.CA1, via.Rise)
	expectByte(t, "IFR", v.Read(via.IFR), 0x00)
	v.Signal(via.CA1, via.Fall)
	expectByte(t, "IFR", v.Read(via.IFR), 0x82)
	expectBool(t, "IRQ", irq.asserted, true)

	v.Read(via.PRA)
	expectByte(t, "IFR after PRA read", v.Read(via.IFR), 0x00)
	expectBool(t, "IRQ", irq.asserted, false)

	// Flags are set even when disabled, but do not raise the IRQ.
	v.Signal(via.CB1, via.Fall)
	expectByte(t, "IFR", v.Read(via.IFR), via.IntCB1)
	expectBool(t, "IRQ", irq.asserted, false)
	v.Write(via.IFR, 0xff)
	expectByte(t, "IFR after clear", v.Read(via.IFR), 0x00)

	v.Write(via.PCR, 0x01)
	v.Signal(via.CA1, via.Rise)
	expectByte(t, "IFR", v.Read(via.IFR), 0x82)
}

func TestPorts(t *testing.T) {
	v, _, p, _ := newVIA()

	v.Write(via.DDRA, 0x0f)
	v.Write(via.PRA, 0x05)
	if n := len(p.pa); n != 2 || p.pa[1] != 0xf5 {
		t.Fatalf("Port A output incorrect. got: % X", p.pa)
	}

	p.inB = 0x3c
	v.Write(via.DDRB, 0xf0)
	v.Write(via.PRB, 0xa5)
	expectByte(t, "PRB", v.Read(via.PRB), 0xac)
	expectByte(t, "PRB output", p.pb[len(p.pb)-1], 0xaf)

	p.inA = 0x42
	expectByte(t, "PRA", v.Read(via.PRA), 0x42)
	expectByte(t, "PRA peek", v.Peek(via.PRA), 0x05)
}

func TestControlOutputs(t *testing.T) {
	v, _, p, _ := newVIA()
	expectBool(t, "CA2 after reset", p.ca2, true)
	expectBool(t, "CB2 after reset", p.cb2, true)

	v.Write(via.PCR, 0xcc)
	expectBool(t, "CA2 low", p.ca2, false)
	expectBool(t, "CB2 low", p.cb2, false)

	v.Write(via.PCR, 0xee)
	expectBool(t, "CA2 high", p.ca2, true)
	expectBool(t, "CB2 high", p.cb2, true)
}

func TestReset(t *testing.T) {
	v, _, p, _ := newVIA()
	v.Write(via.T1LL, 0x34)
	v.Write(via.T1LH, 0x12)
	v.Write(via.SR, 0x99)
	v.Write(via.DDRA, 0xff)
	v.Write(via.IER, 0xff)
	v.Write(via.PCR, 0xcc)

	v.Reset()
	expectByte(t, "T1LL", v.Peek(via.T1LL), 0x34)
	expectByte(t, "T1LH", v.Peek(via.T1LH), 0x12)
	expectByte(t, "SR", v.Peek(via.SR), 0x99)
	expectByte(t, "DDRA", v.Peek(via.DDRA), 0x00)
	expectByte(t, "IER", v.Peek(via.IER), 0x80)
	expectByte(t, "PCR", v.Peek(via.PCR), 0x00)
	expectBool(t, "CA2", p.ca2, true)

	s := v.State()
	if s.Latch1 != 0x1234 {
		t.Errorf("Latch1 incorrect. exp: $1234, got: $%04X", s.Latch1)
	}
}

func TestRegisterRange(t *testing.T) {
	v, _, _, _ := newVIA()
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for register index 16.")
		}
	}()
	v.Write(16, 0)
}

type serialBus struct {
	updates []byte
	lines   byte
}

func (b *serialBus) UpdateDrive(id int, v byte) { b.updates = append(b.updates, v) }
func (b *serialBus) DeviceRead() byte           { return b.lines }

type cable struct {
	written   []byte
	handshake bool
	value     byte
}

func (c *cable) DriveWrite(v byte, handshake bool, id int) {
	c.written = append(c.written, v)
	c.handshake = handshake
}

func (c *cable) DriveRead(handshake bool) byte { return c.value }

func TestBusController(t *testing.T) {
	sched := event.NewScheduler()
	bus := &serialBus{lines: 0x85}
	bc := via.NewBusController(9, sched, bus, func(bool) {})
	bc.Reset()

	bc.Write(via.DDRB, 0x1a)
	bc.Write(via.PRB, 0x02)
	bc.Write(via.PRB, 0x02)
	if len(bus.updates) != 2 || bus.updates[0] != 0xe5 || bus.updates[1] != 0xe7 {
		t.Errorf("Bus updates incorrect. exp: E5 E7, got: % X", bus.updates)
	}

	expectByte(t, "PRB", bc.Read(via.PRB), 0x22)
	bus.lines = 0x80
	expectByte(t, "PRB", bc.Read(via.PRB), 0x27)

	expectByte(t, "PRA without cable", bc.Read(via.PRA), 0xff)

	c := &cable{value: 0x3c}
	bc.SetParallelCable(c)
	expectByte(t, "PRA with cable", bc.Read(via.PRA), 0x3c)
	bc.Write(via.PCR, 0x0a)
	bc.Write(via.DDRA, 0xff)
	bc.Write(via.PRA, 0x77)
	if n := len(c.written); n == 0 || c.written[n-1] != 0x77 || !c.handshake {
		t.Errorf("Cable write incorrect. got: % X %v", c.written, c.handshake)
	}
}

type overflow struct{ count int }

func (o *overflow) SignalOverflow() { o.count++ }

func newDiskController() (*via.DiskController, *event.Scheduler, *overflow) {
	sched := event.NewScheduler()
	ovf := &overflow{}
	dc := via.NewDiskController(8, sched, ovf, rand.New(rand.NewPCG(1, 2)), func(bool) {})
	dc.Reset()
	dc.Write(via.DDRB, 0x6f)
	return dc, sched, ovf
}

func formatted(t *testing.T) *disk.MemImage {
	t.Helper()
	img, err := disk.Format("test", "01", 35)
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func TestStepper(t *testing.T) {
	dc, _, _ := newDiskController()
	if dc.HalfTrack() != 36 {
		t.Fatalf("Half-track incorrect. exp: 36, got: %d", dc.HalfTrack())
	}

	dc.Write(via.PRB, 0x04)
	expectBool(t, "Motor", dc.MotorOn(), true)
	dc.Write(via.PRB, 0x05)
	dc.Write(via.PRB, 0x06)
	if dc.HalfTrack() != 38 {
		t.Errorf("Half-track incorrect. exp: 38, got: %d", dc.HalfTrack())
	}
	dc.Write(via.PRB, 0x05)
	if dc.HalfTrack() != 37 {
		t.Errorf("Half-track incorrect. exp: 37, got: %d", dc.HalfTrack())
	}

	// Stepping with the motor off does nothing.
	dc.Write(via.PRB, 0x02)
	if dc.HalfTrack() != 37 {
		t.Errorf("Half-track incorrect. exp: 37, got: %d", dc.HalfTrack())
	}

	phase := byte(2)
	dc.Write(via.PRB, 0x04|phase)
	for i := 0; i < 50; i++ {
		phase = (phase - 1) & 3
		dc.Write(via.PRB, 0x04|phase)
	}
	if dc.HalfTrack() != 2 {
		t.Errorf("Half-track incorrect. exp: 2, got: %d", dc.HalfTrack())
	}

	dc.Write(via.PRB, 0x0c|phase)
	expectBool(t, "LED", dc.LEDOn(), true)
	dc.Write(via.PRB, 0x60|phase)
	expectBool(t, "LED", dc.LEDOn(), false)
	expectBool(t, "Motor", dc.MotorOn(), false)
	if z := dc.Rotation().SpeedZone(); z != 3 {
		t.Errorf("Speed zone incorrect. exp: 3, got: %d", z)
	}
}

func TestDiskChangeWindows(t *testing.T) {
	dc, sched, _ := newDiskController()
	wps := func() byte { return dc.Read(via.PRB) & 0x10 }

	expectByte(t, "WPS empty", wps(), 0x10)

	img := formatted(t)
	dc.InsertDisk(img)
	sched.RunUntil(10)
	expectByte(t, "WPS attaching", wps(), 0x00)
	expectByte(t, "GCR attaching", dc.Read(via.PRA), 0x00)
	sched.RunUntil(1800010)
	expectByte(t, "WPS attached", wps(), 0x10)

	img.SetReadOnly(true)
	expectByte(t, "WPS read-only", wps(), 0x00)
	img.SetReadOnly(false)

	// Ejecting and re-inserting at the same tick runs through all three
	// windows.
	now := int64(2000000)
	sched.RunUntil(now)
	dc.EjectDisk()
	dc.InsertDisk(img)
	sched.RunUntil(now + 10)
	expectByte(t, "WPS detaching", wps(), 0x00)
	sched.RunUntil(now + 700000)
	expectByte(t, "WPS attach-detach", wps(), 0x10)
	sched.RunUntil(now + 1300000)
	expectByte(t, "WPS attaching", wps(), 0x00)
	sched.RunUntil(now + 1900000)
	expectByte(t, "WPS attached", wps(), 0x10)
}

func TestByteReady(t *testing.T) {
	dc, sched, ovf := newDiskController()
	dc.InsertDisk(formatted(t))
	sched.RunUntil(2000000)

	dc.Write(via.PRB, 0x44)
	sched.RunUntil(2002000)
	dc.RotateDisk()
	if ovf.count == 0 {
		t.Fatal("No byte-ready signal while reading.")
	}

	// CA2 low disables byte-ready signalling.
	dc.Write(via.PCR, 0x0c)
	n := ovf.count
	sched.RunUntil(2004000)
	dc.RotateDisk()
	if ovf.count != n {
		t.Errorf("Byte-ready count incorrect. exp: %d, got: %d", n, ovf.count)
	}
}

func TestWriteback(t *testing.T) {
	dc, sched, _ := newDiskController()
	img := formatted(t)
	dc.InsertDisk(img)
	sched.RunUntil(2000000)

	dc.Write(via.PRB, 0x44)
	dc.Write(via.PCR, 0xee)
	dc.Write(via.PCR, 0xce)
	if dc.Mode().String() != "write" {
		t.Fatalf("Mode incorrect. exp: write, got: %s", dc.Mode())
	}
	dc.Write(via.DDRA, 0xff)
	dc.Write(via.PRA, 0x00)
	sched.RunUntil(2001000)
	dc.RotateDisk()
	if img.Dirty() {
		t.Fatal("Image written before the head moved.")
	}

	dc.Write(via.PRB, 0x45)
	if !img.Dirty() {
		t.Error("Track not written back when the head moved.")
	}
}
