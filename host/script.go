// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/cmd"
	"github.com/beevik/go1541/disk"
	"github.com/beevik/go1541/logger"
	lua "github.com/yuin/gopher-lua"
)

// RunScript runs a Lua script against the drive. Script output goes to
// the host's output. If the script runs the monitor's quit command, the
// script stops and RunScript reports it with ErrQuit.
func (h *Host) RunScript(filename string) error {
	L := lua.NewState()
	defer L.Close()

	h.registerScriptFuncs(L)
	err := L.DoFile(filename)
	h.flush()
	if h.quitting {
		h.quitting = false
		return ErrQuit
	}
	return err
}

func (h *Host) cmdScript(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c.Command)
		return nil
	}

	err := h.RunScript(c.Args[0])
	switch {
	case errors.Is(err, ErrQuit):
		return err
	case err != nil:
		h.printf("Script failed: %v\n", err)
	}
	h.settings.NextDisasmAddr = h.pc()
	return nil
}

func (h *Host) registerScriptFuncs(L *lua.LState) {
	funcs := map[string]lua.LGFunction{
		"print":   h.luaPrint,
		"peek":    h.luaPeek,
		"poke":    h.luaPoke,
		"reg":     h.luaReg,
		"step":    h.luaStep,
		"advance": h.luaAdvance,
		"time":    h.luaTime,
		"status":  h.luaStatus,
		"insert":  h.luaInsert,
		"eject":   h.luaEject,
		"log":     h.luaLog,
		"monitor": h.luaMonitor,
	}
	for name, fn := range funcs {
		L.SetGlobal(name, L.NewFunction(fn))
	}
}

// print(...) writes its arguments to the monitor output.
func (h *Host) luaPrint(L *lua.LState) int {
	n := L.GetTop()
	args := make([]string, n)
	for i := 1; i <= n; i++ {
		args[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	h.println(strings.Join(args, "\t"))
	return 0
}

// peek(addr) reads drive memory without side effects.
func (h *Host) luaPeek(L *lua.LState) int {
	L.Push(lua.LNumber(h.peek(uint16(L.CheckInt(1)))))
	return 1
}

// poke(addr, value) writes drive memory as the CPU would.
func (h *Host) luaPoke(L *lua.LState) int {
	h.drive.Memory().StoreByte(uint16(L.CheckInt(1)), byte(L.CheckInt(2)))
	return 0
}

// reg(name [, value]) reads or changes a CPU register or flag.
func (h *Host) luaReg(L *lua.LState) int {
	r, err := lookupRegister(strings.ToLower(L.CheckString(1)))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	if L.GetTop() > 1 {
		r.set(h, int64(L.CheckInt(2)))
	}
	L.Push(lua.LNumber(r.get(h)))
	return 1
}

// step([count]) executes instructions and returns the elapsed ticks.
func (h *Host) luaStep(L *lua.LState) int {
	var ticks int64
	for range L.OptInt(1, 1) {
		ticks += h.drive.Step()
	}
	L.Push(lua.LNumber(ticks))
	return 1
}

// advance(ticks) runs the drive and returns the new drive time.
func (h *Host) luaAdvance(L *lua.LState) int {
	h.drive.Advance(h.drive.Time() + int64(L.CheckInt(1)))
	L.Push(lua.LNumber(h.drive.Time()))
	return 1
}

// time() returns the drive time in ticks.
func (h *Host) luaTime(L *lua.LState) int {
	L.Push(lua.LNumber(h.drive.Time()))
	return 1
}

// status() returns the front panel state: "OFF", "ON" or "LOAD".
func (h *Host) luaStatus(L *lua.LState) int {
	L.Push(lua.LString(h.drive.Status().String()))
	return 1
}

// insert(filename) inserts a raw disk image.
func (h *Host) luaInsert(L *lua.LState) int {
	img, err := disk.LoadRaw(L.CheckString(1))
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	h.insert(img)
	return 0
}

// eject() ejects the disk, saving it if it was modified.
func (h *Host) luaEject(L *lua.LState) int {
	if err := h.eject(); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

// log(message) adds an entry to the drive log.
func (h *Host) luaLog(L *lua.LState) int {
	logger.Log(logger.Allow, "script", L.CheckString(1))
	return 0
}

// monitor(line) runs a monitor command.
func (h *Host) luaMonitor(L *lua.LState) int {
	err := h.exec(L.CheckString(1))
	switch {
	case errors.Is(err, ErrQuit):
		h.quitting = true
		L.RaiseError("quit")
	case err != nil:
		L.RaiseError("%v", fmt.Errorf("monitor: %w", err))
	}
	return 0
}
