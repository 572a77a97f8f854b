// Copyright 2018-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host implements an interactive monitor for an emulated 1541
// disk drive.
//
// Within the host it is possible to load code and ROM images into drive
// memory, insert and eject disk images, step through the drive's machine
// code, measure elapsed drive clock ticks, set address and data
// breakpoints, dump and disassemble memory, inspect the VIAs, manipulate
// CPU registers and memory, evaluate arbitrary expressions and run Lua
// scripts.
package host

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/beevik/cmd"
	"github.com/beevik/go1541/cpu"
	"github.com/beevik/go1541/disasm"
	"github.com/beevik/go1541/disk"
	"github.com/beevik/go1541/drive"
)

// ErrQuit is returned by RunScript when a script quits the monitor.
var ErrQuit = errors.New("exiting program")

type displayFlags uint8

const (
	displayRegisters displayFlags = 1 << iota
	displayCycles

	displayAll = displayRegisters | displayCycles
)

type state byte

const (
	stateProcessingCommands state = iota
	stateRunning
	stateBreakpoint
	stateStepOverBreakpoint
)

// A Host is a monitor attached to a single drive.
type Host struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	drive       *drive.Drive
	debugger    *cpu.Debugger
	lastCmd     *cmd.Selection
	state       state
	exprParser  *exprParser
	settings    *settings
	image       *disk.MemImage
	quitting    bool
}

// New creates a monitor for a drive and attaches a debugger to the drive's
// CPU. Output goes to stdout until RunCommands is called.
func New(d *drive.Drive) *Host {
	h := &Host{
		output:     bufio.NewWriter(os.Stdout),
		drive:      d,
		state:      stateProcessingCommands,
		exprParser: newExprParser(),
		settings:   newSettings(),
	}

	h.debugger = cpu.NewDebugger(newDebugHandler(h))
	d.CPU.AttachDebugger(h.debugger)
	h.onSettingsUpdate()
	h.sync()
	return h
}

// RunCommands accepts host commands from a reader and outputs the results
// to a writer. If the commands are interactive, a prompt is displayed while
// the host waits for the the next command to be entered. It returns true
// if a quit command was processed.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) bool {
	h.input = bufio.NewScanner(r)
	h.output = bufio.NewWriter(w)
	h.interactive = interactive

	if interactive {
		h.println()
	}
	h.displayPC()

	return errors.Is(h.processCommands(), ErrQuit)
}

func (h *Host) processCommands() error {
	for {
		h.prompt()

		line, err := h.getLine()
		if err != nil {
			return nil
		}
		if err := h.exec(line); err != nil {
			return err
		}
	}
}

// exec runs a single command line. An empty line repeats the previous
// command.
func (h *Host) exec(line string) error {
	var c cmd.Selection
	if line = strings.TrimSpace(line); line != "" {
		if strings.HasPrefix(line, "#") {
			return nil
		}
		var err error
		c, err = cmds.Lookup(line)
		switch {
		case err == cmd.ErrNotFound:
			h.println("Command not found.")
			return nil
		case err == cmd.ErrAmbiguous:
			h.println("Command is ambiguous.")
			return nil
		case err != nil:
			h.printf("ERROR: %v.\n", err)
			return nil
		}
	} else if h.lastCmd != nil {
		c = *h.lastCmd
	}

	if c.Command == nil {
		return nil
	}
	h.lastCmd = &c

	handler := c.Command.Data.(func(*Host, cmd.Selection) error)
	return handler(h, c)
}

// Break interrupts a running drive.
func (h *Host) Break() {
	h.println()

	if h.state == stateRunning {
		h.displayPC()
	}
	if h.state == stateProcessingCommands {
		h.prompt()
	}
	h.state = stateProcessingCommands
}

func (h *Host) printf(format string, args ...any) {
	fmt.Fprintf(h.output, format, args...)
	h.flush()
}

func (h *Host) println(args ...any) {
	fmt.Fprintln(h.output, args...)
	h.flush()
}

func (h *Host) flush() {
	h.output.Flush()
}

func (h *Host) getLine() (string, error) {
	if h.input.Scan() {
		return h.input.Text(), nil
	}
	if h.input.Err() != nil {
		return "", h.input.Err()
	}
	return "", io.EOF
}

func (h *Host) prompt() {
	if h.interactive {
		h.printf("%s* ", h.drive.Status())
	}
}

// sync runs a freshly reset drive up to the fetch of its first
// instruction, so that there is a current instruction to display.
func (h *Host) sync() {
	if h.drive.Powered() && h.drive.CPU.Instructions == 0 {
		h.drive.Step()
	}
}

// pc returns the address of the instruction about to execute.
func (h *Host) pc() uint16 {
	return h.drive.CPU.LastPC
}

// registers returns the CPU registers with PC at the instruction about
// to execute.
func (h *Host) registers() cpu.Registers {
	r := h.drive.CPU.Reg
	r.PC = h.pc()
	return r
}

func (h *Host) peek(addr uint16) byte {
	var b [1]byte
	h.drive.Memory().LoadBytes(addr, b[:])
	return b[0]
}

func (h *Host) displayPC() {
	if !h.interactive {
		return
	}
	if !h.drive.Powered() {
		h.println("Drive is powered off.")
		return
	}
	d, _ := h.disassemble(h.pc(), displayAll)
	h.println(d)
}

func (h *Host) requirePower() bool {
	if !h.drive.Powered() {
		h.println("Drive is powered off.")
		return false
	}
	return true
}

func (h *Host) cmdAdvance(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c.Command)
		return nil
	}
	if !h.requirePower() {
		return nil
	}

	ticks, err := h.exprParser.Parse(c.Args[0], h)
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	target := h.drive.Time() + ticks

	if len(h.debugger.GetBreakpoints()) == 0 && len(h.debugger.GetDataBreakpoints()) == 0 {
		h.drive.Advance(target)
	} else {
		h.state = stateRunning
		for h.state == stateRunning && h.drive.Time() < target {
			h.drive.Step()
		}
		h.state = stateProcessingCommands
	}

	h.printf("Drive clock at %d.\n", h.drive.Time())
	h.settings.NextDisasmAddr = h.pc()
	return nil
}

func (h *Host) cmdBreakpointList(c cmd.Selection) error {
	h.println("Addr  Enabled")
	h.println("----- -------")
	for _, b := range h.debugger.GetBreakpoints() {
		h.printf("$%04X %v\n", b.Address, !b.Disabled)
	}
	return nil
}

func (h *Host) cmdBreakpointAdd(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c.Command)
		return nil
	}

	addr, err := h.parseAddr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.debugger.AddBreakpoint(addr)
	h.printf("Breakpoint added at $%04X.\n", addr)
	return nil
}

func (h *Host) cmdBreakpointRemove(c cmd.Selection) error {
	b := h.lookupBreakpoint(c)
	if b == nil {
		return nil
	}
	h.debugger.RemoveBreakpoint(b.Address)
	h.printf("Breakpoint at $%04X removed.\n", b.Address)
	return nil
}

func (h *Host) cmdBreakpointEnable(c cmd.Selection) error {
	if b := h.lookupBreakpoint(c); b != nil {
		b.Disabled = false
		h.printf("Breakpoint at $%04X enabled.\n", b.Address)
	}
	return nil
}

func (h *Host) cmdBreakpointDisable(c cmd.Selection) error {
	if b := h.lookupBreakpoint(c); b != nil {
		b.Disabled = true
		h.printf("Breakpoint at $%04X disabled.\n", b.Address)
	}
	return nil
}

func (h *Host) lookupBreakpoint(c cmd.Selection) *cpu.Breakpoint {
	if len(c.Args) < 1 {
		h.displayUsage(c.Command)
		return nil
	}

	addr, err := h.parseAddr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	b := h.debugger.GetBreakpoint(addr)
	if b == nil {
		h.printf("No breakpoint was set on $%04X.\n", addr)
	}
	return b
}

func (h *Host) cmdDataBreakpointList(c cmd.Selection) error {
	h.println("Addr  Enabled  Value")
	h.println("----- -------  -----")
	for _, b := range h.debugger.GetDataBreakpoints() {
		if b.Conditional {
			h.printf("$%04X %-5v    $%02X\n", b.Address, !b.Disabled, b.Value)
		} else {
			h.printf("$%04X %-5v    <none>\n", b.Address, !b.Disabled)
		}
	}
	return nil
}

func (h *Host) cmdDataBreakpointAdd(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c.Command)
		return nil
	}

	addr, err := h.parseAddr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	if len(c.Args) > 1 {
		value, err := h.parseAddr(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.debugger.AddConditionalDataBreakpoint(addr, byte(value))
		h.printf("Conditional data breakpoint added at $%04X for value $%02X.\n", addr, byte(value))
	} else {
		h.debugger.AddDataBreakpoint(addr)
		h.printf("Data breakpoint added at $%04X.\n", addr)
	}
	return nil
}

func (h *Host) cmdDataBreakpointRemove(c cmd.Selection) error {
	b := h.lookupDataBreakpoint(c)
	if b == nil {
		return nil
	}
	h.debugger.RemoveDataBreakpoint(b.Address)
	h.printf("Data breakpoint at $%04X removed.\n", b.Address)
	return nil
}

func (h *Host) cmdDataBreakpointEnable(c cmd.Selection) error {
	if b := h.lookupDataBreakpoint(c); b != nil {
		b.Disabled = false
		h.printf("Data breakpoint at $%04X enabled.\n", b.Address)
	}
	return nil
}

func (h *Host) cmdDataBreakpointDisable(c cmd.Selection) error {
	if b := h.lookupDataBreakpoint(c); b != nil {
		b.Disabled = true
		h.printf("Data breakpoint at $%04X disabled.\n", b.Address)
	}
	return nil
}

func (h *Host) lookupDataBreakpoint(c cmd.Selection) *cpu.DataBreakpoint {
	if len(c.Args) < 1 {
		h.displayUsage(c.Command)
		return nil
	}

	addr, err := h.parseAddr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	b := h.debugger.GetDataBreakpoint(addr)
	if b == nil {
		h.printf("No data breakpoint was set on $%04X.\n", addr)
	}
	return b
}

func (h *Host) cmdDisassemble(c cmd.Selection) error {
	addr := h.settings.NextDisasmAddr
	if addr == 0 {
		addr = h.pc()
	}
	if len(c.Args) > 0 {
		switch c.Args[0] {
		case "$":
		case ".":
			addr = h.pc()
		default:
			a, err := h.parseAddr(c.Args[0])
			if err != nil {
				h.printf("%v\n", err)
				return nil
			}
			addr = a
		}
	}

	lines := h.settings.DisasmLines
	if len(c.Args) > 1 {
		l, err := h.parseAddr(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		lines = int(l)
	}

	for range lines {
		d, next := h.disassemble(addr, 0)
		h.println(d)
		addr = next
	}

	h.settings.NextDisasmAddr = addr
	h.lastCmd.Args = []string{"$", strconv.Itoa(lines)}
	return nil
}

func (h *Host) cmdEvaluate(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c.Command)
		return nil
	}

	v, err := h.exprParser.Parse(strings.Join(c.Args, " "), h)
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.printf("$%04X (%d)\n", uint16(v), v)
	return nil
}

func (h *Host) cmdExecute(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c.Command)
		return nil
	}

	file, err := os.Open(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	defer file.Close()

	input, interactive := h.input, h.interactive
	h.input, h.interactive = bufio.NewScanner(file), false
	err = h.processCommands()
	h.input, h.interactive = input, interactive
	return err
}

func (h *Host) cmdHelp(c cmd.Selection) error {
	t := helpRoot
	if len(c.Args) > 0 {
		var err error
		t, err = helpTree.FindValue(strings.ToLower(strings.Join(c.Args, " ")))
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
	}

	if t.subtopics != nil {
		h.printf("%s commands:\n", t.path)
		for _, s := range t.subtopics {
			h.printf("    %-15s  %s\n", s.path[strings.LastIndexByte(s.path, ' ')+1:], s.brief)
		}
		return nil
	}

	if t.usage != "" {
		h.printf("Syntax: %s\n\n", t.usage)
	}
	switch {
	case t.description != "":
		h.printf("Description:\n%s\n\n", indentWrap(3, t.description))
	case t.brief != "":
		h.printf("Description:\n%s.\n\n", indentWrap(3, t.brief))
	}
	return nil
}

func (h *Host) cmdLoad(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c.Command)
		return nil
	}

	filename := c.Args[0]
	b, err := os.ReadFile(filename)
	if err != nil {
		h.printf("Failed to open '%s': %v\n", filepath.Base(filename), err)
		return nil
	}

	var addr uint16
	switch {
	case len(c.Args) >= 2:
		addr, err = h.parseAddr(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}

	case len(b) == drive.ROMSize:
		if err := h.drive.LoadROM(b); err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.printf("Loaded '%s' as drive ROM.\n", filepath.Base(filename))
		return nil

	case len(b) >= 2:
		addr = uint16(b[0]) | uint16(b[1])<<8
		b = b[2:]

	default:
		h.printf("File '%s' has no load address.\n", filepath.Base(filename))
		return nil
	}

	h.drive.Memory().StoreBytes(addr, b)
	h.printf("Loaded '%s' to $%04X..$%04X.\n", filepath.Base(filename), addr, int(addr)+len(b)-1)
	h.settings.NextDisasmAddr = addr
	return nil
}

func (h *Host) cmdMemoryDump(c cmd.Selection) error {
	addr := h.settings.NextMemDumpAddr
	if len(c.Args) > 0 {
		switch c.Args[0] {
		case "$":
		case ".":
			addr = h.pc()
		default:
			a, err := h.parseAddr(c.Args[0])
			if err != nil {
				h.printf("%v\n", err)
				return nil
			}
			addr = a
		}
	}

	bytes := uint16(h.settings.MemDumpBytes)
	if len(c.Args) >= 2 {
		var err error
		bytes, err = h.parseAddr(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
	}

	h.dumpMemory(addr, bytes)

	h.settings.NextMemDumpAddr = addr + bytes
	h.lastCmd.Args = []string{"$", strconv.Itoa(int(bytes))}
	return nil
}

func (h *Host) cmdMemorySet(c cmd.Selection) error {
	if len(c.Args) < 2 {
		h.displayUsage(c.Command)
		return nil
	}

	addr, err := h.parseAddr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	b := make([]byte, 0, len(c.Args)-1)
	for _, a := range c.Args[1:] {
		v, err := h.exprParser.Parse(a, h)
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		b = append(b, byte(v))
	}

	h.drive.Memory().StoreBytes(addr, b)
	h.printf("Memory set at $%04X..$%04X.\n", addr, int(addr)+len(b)-1)
	return nil
}

func (h *Host) cmdMemoryCopy(c cmd.Selection) error {
	if len(c.Args) < 3 {
		h.displayUsage(c.Command)
		return nil
	}

	var a [3]uint16
	for i := range a {
		v, err := h.parseAddr(c.Args[i])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		a[i] = v
	}
	dst, begin, end := a[0], a[1], a[2]
	if end < begin {
		h.println("Source range is empty.")
		return nil
	}

	b := make([]byte, int(end-begin)+1)
	m := h.drive.Memory()
	m.LoadBytes(begin, b)
	m.StoreBytes(dst, b)
	h.printf("Copied $%04X..$%04X to $%04X.\n", begin, end, dst)
	return nil
}

func (h *Host) cmdPower(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c.Command)
		return nil
	}

	on, err := stringToBool(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	if on {
		h.drive.PowerOn()
		h.sync()
	} else {
		h.drive.PowerOff()
	}
	h.printf("Drive %d is %s.\n", h.drive.ID, h.drive.Status())
	h.displayPC()
	return nil
}

func (h *Host) cmdQuit(c cmd.Selection) error {
	return ErrQuit
}

func (h *Host) cmdReset(c cmd.Selection) error {
	if !h.requirePower() {
		return nil
	}
	h.drive.Reset()
	h.sync()
	h.settings.NextDisasmAddr = h.pc()
	h.println("Drive reset.")
	h.displayPC()
	return nil
}

func (h *Host) cmdRun(c cmd.Selection) error {
	if !h.requirePower() {
		return nil
	}
	if len(c.Args) > 0 {
		pc, err := h.parseAddr(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.jump(pc)
	}

	h.printf("Running from $%04X. Press ctrl-C to break.\n", h.pc())

	h.state = stateRunning
	for h.state == stateRunning {
		h.step()
	}
	h.state = stateProcessingCommands

	h.settings.NextDisasmAddr = h.pc()
	return nil
}

func (h *Host) cmdSet(c cmd.Selection) error {
	switch len(c.Args) {
	case 0:
		h.println("Variables:")
		h.settings.Display(h.output)
		h.flush()

	case 1:
		h.displayUsage(c.Command)

	default:
		key, value := c.Args[0], strings.Join(c.Args[1:], " ")

		var err error
		switch h.settings.Kind(key) {
		case reflect.Invalid:
			err = fmt.Errorf("setting '%s' not found", key)
		case reflect.Bool:
			var v bool
			if v, err = stringToBool(value); err == nil {
				err = h.settings.Set(key, v)
			}
		default:
			var v int64
			if v, err = h.exprParser.Parse(value, h); err == nil {
				err = h.settings.Set(key, v)
			}
		}

		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.println("Setting updated.")
		h.onSettingsUpdate()
	}
	return nil
}

func (h *Host) cmdStepIn(c cmd.Selection) error {
	return h.stepCommand(c, h.step)
}

func (h *Host) cmdStepOver(c cmd.Selection) error {
	return h.stepCommand(c, h.stepOver)
}

func (h *Host) stepCommand(c cmd.Selection, step func()) error {
	if !h.requirePower() {
		return nil
	}

	count := 1
	if len(c.Args) > 0 {
		if n, err := h.exprParser.Parse(c.Args[0], h); err == nil {
			count = int(n)
		}
	}

	h.state = stateRunning
	for i := count - 1; i >= 0 && h.state == stateRunning; i-- {
		step()
		switch {
		case i == h.settings.MaxStepLines:
			h.println("...")
		case i < h.settings.MaxStepLines:
			h.displayPC()
		}
	}
	h.state = stateProcessingCommands

	h.settings.NextDisasmAddr = h.pc()
	return nil
}

func (h *Host) cmdStepOut(c cmd.Selection) error {
	if !h.requirePower() {
		return nil
	}

	h.state = stateRunning
	depth := 0
	for h.state == stateRunning {
		switch cpu.Lookup(h.peek(h.pc())).Name {
		case "JSR":
			depth++
		case "RTS", "RTI":
			depth--
		}
		h.step()
		if depth < 0 {
			break
		}
	}
	h.state = stateProcessingCommands

	h.displayPC()
	h.settings.NextDisasmAddr = h.pc()
	return nil
}

func (h *Host) step() {
	h.drive.Step()
	if h.drive.CPU.Jammed() {
		h.printf("CPU jammed at $%04X.\n", h.pc())
		h.state = stateBreakpoint
	}
}

func (h *Host) stepOver() {
	// JSR instructions need to be handled specially.
	pc := h.pc()
	inst := cpu.Lookup(h.peek(pc))
	if inst.Name != "JSR" {
		h.step()
		return
	}

	// Place a step-over breakpoint on the instruction following the JSR.
	// Either modify an already existing breakpoint on that instruction, or
	// create a temporary one.
	next := pc + uint16(inst.Length)
	tmpBreakpointCreated := false
	b := h.debugger.GetBreakpoint(next)
	if b == nil {
		b = h.debugger.AddBreakpoint(next)
		tmpBreakpointCreated = true
	}
	b.StepOver = true

	// Run until interrupted.
	for h.state == stateRunning {
		h.step()
	}
	b.StepOver = false

	// If we were interrupted by the temporary step-over breakpoint,
	// then continue as normal.
	if h.state == stateStepOverBreakpoint {
		h.state = stateRunning
	}

	if tmpBreakpointCreated {
		h.debugger.RemoveBreakpoint(next)
	}
}

// jump moves execution to addr and runs the drive up to the fetch of the
// instruction there.
func (h *Host) jump(addr uint16) {
	h.drive.CPU.Jump(addr)
	h.drive.Step()
}

func (h *Host) onSettingsUpdate() {
	h.exprParser.hexMode = h.settings.HexMode
	h.drive.DC.Rotation().Noise = h.settings.NoiseEnabled
}

func (h *Host) parseAddr(expr string) (uint16, error) {
	v, err := h.exprParser.Parse(expr, h)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}

func (h *Host) disassemble(addr uint16, flags displayFlags) (str string, next uint16) {
	m := h.drive.Memory()

	var line string
	line, next = disasm.Disassemble(m, addr)
	if h.settings.CompactMode {
		str = fmt.Sprintf("%04X- %-15s", addr, line)
	} else {
		str = fmt.Sprintf("%04X-   %-8s    %-15s", addr, disasm.Bytes(m, addr), line)
	}

	if flags&displayRegisters != 0 {
		r := h.registers()
		str += " " + r.String()
	}
	if flags&displayCycles != 0 && h.settings.TraceCycles {
		str += fmt.Sprintf(" T=%d", h.drive.Time())
	}
	return str, next
}

func (h *Host) dumpMemory(addr0, bytes uint16) {
	if bytes == 0 {
		return
	}

	addr1 := addr0 + bytes - 1
	if addr1 < addr0 {
		addr1 = 0xffff
	}

	buf := []byte("    -" + strings.Repeat(" ", 35))

	// Don't align display for short dumps.
	if addr1-addr0 < 8 {
		addrToBuf(addr0, buf[0:4])
		for a, c1, c2 := uint32(addr0), 6, 32; a <= uint32(addr1); a, c1, c2 = a+1, c1+3, c2+1 {
			m := h.peek(uint16(a))
			byteToBuf(m, buf[c1:c1+2])
			buf[c2] = toPrintableChar(m)
		}
		h.println(string(buf))
		return
	}

	// Align addr0 and addr1 to 8-byte boundaries.
	start := uint32(addr0) & 0xfff8
	stop := min((uint32(addr1)+8)&0xffff8, 0x10000)

	a := uint16(start)
	for r := start; r < stop; r += 8 {
		addrToBuf(a, buf[0:4])
		for c1, c2 := 6, 32; c1 < 29; c1, c2, a = c1+3, c2+1, a+1 {
			if a >= addr0 && a <= addr1 {
				m := h.peek(a)
				byteToBuf(m, buf[c1:c1+2])
				buf[c2] = toPrintableChar(m)
			} else {
				buf[c1] = ' '
				buf[c1+1] = ' '
				buf[c2] = ' '
			}
		}
		h.println(string(buf))
	}
}

func (h *Host) displayUsage(c *cmd.Command) {
	if c.Usage != "" {
		h.printf("Usage: %s\n", c.Usage)
	} else {
		h.println("<no usage text>")
	}
}

// Identifiers usable in expressions besides the registers.
var symbols = map[string]int64{
	"bc": 0x1800,
	"dc": 0x1c00,
}

func (h *Host) resolveIdentifier(s string) (int64, error) {
	s = strings.ToLower(s)

	switch s {
	case ".":
		return int64(h.pc()), nil
	case "time":
		return h.drive.Time(), nil
	}
	if r, err := lookupRegister(s); err == nil {
		return r.get(h), nil
	}
	if v, ok := symbols[s]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("identifier '%s' not found", s)
}

func (h *Host) onBreakpoint(cpu *cpu.CPU, b *cpu.Breakpoint) {
	if b.StepOver {
		h.state = stateStepOverBreakpoint
	} else {
		h.state = stateBreakpoint
		h.printf("Breakpoint hit at $%04X.\n", b.Address)
		h.displayPC()
	}
}

func (h *Host) onDataBreakpoint(cpu *cpu.CPU, b *cpu.DataBreakpoint) {
	h.printf("Data breakpoint hit on address $%04X.\n", b.Address)

	h.state = stateBreakpoint

	d, _ := h.disassemble(cpu.LastPC, displayAll)
	h.println(d)
}
