// Copyright 2018-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"strings"

	"github.com/beevik/cmd"
	"github.com/beevik/prefixtree/v2"
)

var cmds *cmd.Tree

// A helpTopic documents a command or a group of subcommands.
type helpTopic struct {
	path        string
	brief       string
	description string
	usage       string
	subtopics   []*helpTopic
}

var (
	helpRoot = &helpTopic{path: "go1541"}
	helpTree = prefixtree.New[*helpTopic]()
)

// A commandGroup adds commands to a command tree and to the help index.
type commandGroup struct {
	tree  *cmd.Tree
	topic *helpTopic
}

func (g commandGroup) add(d cmd.CommandDescriptor) {
	g.tree.AddCommand(d)
	g.index(&helpTopic{
		path:        strings.TrimSpace(g.prefix() + d.Name),
		brief:       d.Brief,
		description: d.Description,
		usage:       d.Usage,
	})
}

func (g commandGroup) subgroup(d cmd.TreeDescriptor) commandGroup {
	t := &helpTopic{path: strings.TrimSpace(g.prefix() + d.Name), brief: d.Brief}
	g.index(t)
	return commandGroup{tree: g.tree.AddSubtree(d), topic: t}
}

func (g commandGroup) prefix() string {
	if g.topic == helpRoot {
		return ""
	}
	return g.topic.path + " "
}

func (g commandGroup) index(t *helpTopic) {
	g.topic.subtopics = append(g.topic.subtopics, t)
	helpTree.Add(t.path, t)
}

func init() {
	root := commandGroup{
		tree:  cmd.NewTree(cmd.TreeDescriptor{Name: "go1541"}),
		topic: helpRoot,
	}
	root.add(cmd.CommandDescriptor{
		Name:        "help",
		Brief:       "Display help for a command",
		Description: "Display help for a command.",
		Usage:       "help [<command>]",
		Data:        (*Host).cmdHelp,
	})
	root.add(cmd.CommandDescriptor{
		Name:  "advance",
		Brief: "Advance the drive clock",
		Description: "Run the drive for the specified number of clock ticks." +
			" Breakpoints stop the drive early.",
		Usage: "advance <ticks>",
		Data:  (*Host).cmdAdvance,
	})

	// Breakpoint commands
	bp := root.subgroup(cmd.TreeDescriptor{Name: "breakpoint", Brief: "Breakpoint commands"})
	bp.add(cmd.CommandDescriptor{
		Name:        "list",
		Brief:       "List breakpoints",
		Description: "List all current breakpoints.",
		Usage:       "breakpoint list",
		Data:        (*Host).cmdBreakpointList,
	})
	bp.add(cmd.CommandDescriptor{
		Name:  "add",
		Brief: "Add a breakpoint",
		Description: "Add a breakpoint at the specified address." +
			" The breakpoint starts enabled.",
		Usage: "breakpoint add <address>",
		Data:  (*Host).cmdBreakpointAdd,
	})
	bp.add(cmd.CommandDescriptor{
		Name:        "remove",
		Brief:       "Remove a breakpoint",
		Description: "Remove a breakpoint at the specified address.",
		Usage:       "breakpoint remove <address>",
		Data:        (*Host).cmdBreakpointRemove,
	})
	bp.add(cmd.CommandDescriptor{
		Name:        "enable",
		Brief:       "Enable a breakpoint",
		Description: "Enable a previously added breakpoint.",
		Usage:       "breakpoint enable <address>",
		Data:        (*Host).cmdBreakpointEnable,
	})
	bp.add(cmd.CommandDescriptor{
		Name:  "disable",
		Brief: "Disable a breakpoint",
		Description: "Disable a previously added breakpoint. This" +
			" prevents the breakpoint from being hit when running the" +
			" drive.",
		Usage: "breakpoint disable <address>",
		Data:  (*Host).cmdBreakpointDisable,
	})

	// Data breakpoint commands
	db := root.subgroup(cmd.TreeDescriptor{Name: "databreakpoint", Brief: "Data breakpoint commands"})
	db.add(cmd.CommandDescriptor{
		Name:        "list",
		Brief:       "List data breakpoints",
		Description: "List all current data breakpoints.",
		Usage:       "databreakpoint list",
		Data:        (*Host).cmdDataBreakpointList,
	})
	db.add(cmd.CommandDescriptor{
		Name:  "add",
		Brief: "Add a data breakpoint",
		Description: "Add a new data breakpoint at the specified" +
			" memory address. When the CPU stores data at this address, the" +
			" breakpoint will stop the drive. Optionally, a byte" +
			" value may be specified, and the drive will stop only" +
			" when this value is stored. The data breakpoint starts" +
			" enabled.",
		Usage: "databreakpoint add <address> [<value>]",
		Data:  (*Host).cmdDataBreakpointAdd,
	})
	db.add(cmd.CommandDescriptor{
		Name:  "remove",
		Brief: "Remove a data breakpoint",
		Description: "Remove a previously added data breakpoint at" +
			" the specified memory address.",
		Usage: "databreakpoint remove <address>",
		Data:  (*Host).cmdDataBreakpointRemove,
	})
	db.add(cmd.CommandDescriptor{
		Name:        "enable",
		Brief:       "Enable a data breakpoint",
		Description: "Enable a previously added data breakpoint.",
		Usage:       "databreakpoint enable <address>",
		Data:        (*Host).cmdDataBreakpointEnable,
	})
	db.add(cmd.CommandDescriptor{
		Name:        "disable",
		Brief:       "Disable a data breakpoint",
		Description: "Disable a previously added data breakpoint.",
		Usage:       "databreakpoint disable <address>",
		Data:        (*Host).cmdDataBreakpointDisable,
	})

	// Disk commands
	dk := root.subgroup(cmd.TreeDescriptor{Name: "disk", Brief: "Disk commands"})
	dk.add(cmd.CommandDescriptor{
		Name:  "insert",
		Brief: "Insert a disk image",
		Description: "Load a raw GCR disk image file and insert it into the" +
			" drive. The current disk is ejected first. A file that cannot" +
			" be written is inserted write protected.",
		Usage: "disk insert <filename>",
		Data:  (*Host).cmdDiskInsert,
	})
	dk.add(cmd.CommandDescriptor{
		Name:  "eject",
		Brief: "Eject the disk",
		Description: "Eject the disk from the drive. If the drive modified" +
			" the disk, the image is saved back to its file.",
		Usage: "disk eject",
		Data:  (*Host).cmdDiskEject,
	})
	dk.add(cmd.CommandDescriptor{
		Name:  "format",
		Brief: "Create a blank disk",
		Description: "Create a blank formatted disk with the specified name" +
			" and two-character ID, save it to a raw GCR image file and insert" +
			" it. The disk has 35 tracks unless 40 or 42 are requested.",
		Usage: "disk format <filename> <name> <id> [<tracks>]",
		Data:  (*Host).cmdDiskFormat,
	})
	dk.add(cmd.CommandDescriptor{
		Name:        "status",
		Brief:       "Display the drive mechanism state",
		Description: "Display the power, LED, motor and head state of the drive.",
		Usage:       "disk status",
		Data:        (*Host).cmdDiskStatus,
	})
	dk.add(cmd.CommandDescriptor{
		Name:  "directory",
		Brief: "List the disk directory",
		Description: "Decode the BAM and directory of the inserted disk" +
			" and display its listing.",
		Usage: "disk directory",
		Data:  (*Host).cmdDiskDirectory,
	})

	root.add(cmd.CommandDescriptor{
		Name:  "disassemble",
		Brief: "Disassemble code",
		Description: "Disassemble machine code starting at the requested" +
			" address. The number of instruction lines to disassemble may be" +
			" specified as an option. If no address is specified, the" +
			" disassembly continues from where the last disassembly left off.",
		Usage: "disassemble [<address>] [<lines>]",
		Data:  (*Host).cmdDisassemble,
	})
	root.add(cmd.CommandDescriptor{
		Name:        "evaluate",
		Brief:       "Evaluate an expression",
		Description: "Evaluate a mathematical expression.",
		Usage:       "evaluate <expression>",
		Data:        (*Host).cmdEvaluate,
	})
	root.add(cmd.CommandDescriptor{
		Name:  "execute",
		Brief: "Execute a monitor script file",
		Description: "Load a monitor script file from disk and execute the" +
			" commands it contains.",
		Usage: "execute <filename>",
		Data:  (*Host).cmdExecute,
	})
	root.add(cmd.CommandDescriptor{
		Name:  "load",
		Brief: "Load a binary file",
		Description: "Load the contents of a binary file into drive memory." +
			" Without an address, a file of exactly 16384 bytes replaces the" +
			" drive ROM, and any other file is loaded to the address stored in" +
			" its first two bytes.",
		Usage: "load <filename> [<address>]",
		Data:  (*Host).cmdLoad,
	})
	root.add(cmd.CommandDescriptor{
		Name:  "log",
		Brief: "Display the drive log",
		Description: "Display the most recent entries of the drive log. All" +
			" entries are displayed if no count is specified.",
		Usage: "log [<count>]",
		Data:  (*Host).cmdLog,
	})

	// Memory commands
	me := root.subgroup(cmd.TreeDescriptor{Name: "memory", Brief: "Memory commands"})
	me.add(cmd.CommandDescriptor{
		Name:  "dump",
		Brief: "Dump memory at address",
		Description: "Dump the contents of memory starting from the" +
			" specified address. The number of bytes to dump may be" +
			" specified as an option. If no address is specified, the" +
			" memory dump continues from where the last dump left off." +
			" Reading VIA registers this way has no side effects.",
		Usage: "memory dump [<address>] [<bytes>]",
		Data:  (*Host).cmdMemoryDump,
	})
	me.add(cmd.CommandDescriptor{
		Name:  "set",
		Brief: "Set memory at address",
		Description: "Set the contents of memory starting from the specified" +
			" address. The values to assign should be a series of" +
			" space-separated byte values. You may use an expression for each" +
			" byte value.",
		Usage: "memory set <address> <byte> [<byte> ...]",
		Data:  (*Host).cmdMemorySet,
	})
	me.add(cmd.CommandDescriptor{
		Name:  "copy",
		Brief: "Copy memory",
		Description: "Copy memory from one range of addresses to another. You" +
			" must specify the destination address, the first byte of the source" +
			" address, and the last byte of the source address.",
		Usage: "memory copy <dst addr> <src addr begin> <src addr end>",
		Data:  (*Host).cmdMemoryCopy,
	})

	root.add(cmd.CommandDescriptor{
		Name:  "memviz",
		Brief: "Write a graph of the drive state",
		Description: "Write a Graphviz description of the drive's CPU, VIA and" +
			" disk state to a file.",
		Usage: "memviz <filename>",
		Data:  (*Host).cmdMemviz,
	})
	root.add(cmd.CommandDescriptor{
		Name:        "power",
		Brief:       "Switch the drive on or off",
		Description: "Switch the drive on or off. Switching on resets the drive.",
		Usage:       "power <on|off>",
		Data:        (*Host).cmdPower,
	})
	root.add(cmd.CommandDescriptor{
		Name:        "quit",
		Brief:       "Quit the program",
		Description: "Quit the program.",
		Usage:       "quit",
		Data:        (*Host).cmdQuit,
	})
	root.add(cmd.CommandDescriptor{
		Name:  "register",
		Brief: "View or change register values",
		Description: "When used without arguments, this command displays the current" +
			" contents of the CPU registers.  When used with arguments, this" +
			" command changes the value of a register or one of the CPU's status" +
			" flags. Allowed register names include A, X, Y, PC and SP. Allowed status" +
			" flag names include N (Sign), Z (Zero), C (Carry), I (InterruptDisable)," +
			" D (Decimal) and V (Overflow). Changing PC moves execution to the" +
			" new address.",
		Usage: "register [<name> <value>]",
		Data:  (*Host).cmdRegister,
	})
	root.add(cmd.CommandDescriptor{
		Name:  "reset",
		Brief: "Reset the drive",
		Description: "Reset the drive. The clock returns to zero, RAM is" +
			" cleared and the CPU starts at its reset vector.",
		Usage: "reset",
		Data:  (*Host).cmdReset,
	})
	root.add(cmd.CommandDescriptor{
		Name:  "run",
		Brief: "Run the drive",
		Description: "Run the drive until a breakpoint is hit or until the" +
			" user types Ctrl-C. If an address is given, execution continues" +
			" there.",
		Usage: "run [<address>]",
		Data:  (*Host).cmdRun,
	})
	root.add(cmd.CommandDescriptor{
		Name:  "script",
		Brief: "Run a Lua script",
		Description: "Run a Lua script that controls the drive. Scripts may" +
			" call peek, poke, reg, step, advance, time, status, insert," +
			" eject, log and monitor.",
		Usage: "script <filename>",
		Data:  (*Host).cmdScript,
	})
	root.add(cmd.CommandDescriptor{
		Name:  "set",
		Brief: "Set a configuration variable",
		Description: "Set the value of a configuration variable. To see the" +
			" current values of all configuration variables, type set" +
			" without any arguments.",
		Usage: "set [<var> <value>]",
		Data:  (*Host).cmdSet,
	})

	// Step commands
	st := root.subgroup(cmd.TreeDescriptor{Name: "step", Brief: "Step the debugger"})
	st.add(cmd.CommandDescriptor{
		Name:  "in",
		Brief: "Step into next instruction",
		Description: "Step the CPU by a single instruction. If the" +
			" instruction is a subroutine call, step into the subroutine." +
			" The number of steps may be specified as an option.",
		Usage: "step in [<count>]",
		Data:  (*Host).cmdStepIn,
	})
	st.add(cmd.CommandDescriptor{
		Name:  "over",
		Brief: "Step over next instruction",
		Description: "Step the CPU by a single instruction. If the" +
			" instruction is a subroutine call, step over the subroutine." +
			" The number of steps may be specified as an option.",
		Usage: "step over [<count>]",
		Data:  (*Host).cmdStepOver,
	})
	st.add(cmd.CommandDescriptor{
		Name:  "out",
		Brief: "Step out of the current subroutine",
		Description: "Step the CPU until it executes an RTS or RTI" +
			" instruction. This has the effect of stepping until the" +
			" currently running subroutine has returned.",
		Usage: "step out",
		Data:  (*Host).cmdStepOut,
	})

	root.add(cmd.CommandDescriptor{
		Name:  "via",
		Brief: "Display VIA registers",
		Description: "Display the registers, timers and interrupt state of" +
			" the bus controller (bc) and disk controller (dc) VIAs.",
		Usage: "via [bc|dc]",
		Data:  (*Host).cmdVIA,
	})

	// Add command shortcuts.
	t := root.tree
	t.AddShortcut("a", "advance")
	t.AddShortcut("b", "breakpoint")
	t.AddShortcut("bp", "breakpoint")
	t.AddShortcut("ba", "breakpoint add")
	t.AddShortcut("br", "breakpoint remove")
	t.AddShortcut("bl", "breakpoint list")
	t.AddShortcut("be", "breakpoint enable")
	t.AddShortcut("bd", "breakpoint disable")
	t.AddShortcut("d", "disassemble")
	t.AddShortcut("db", "databreakpoint")
	t.AddShortcut("dbp", "databreakpoint")
	t.AddShortcut("dbl", "databreakpoint list")
	t.AddShortcut("dba", "databreakpoint add")
	t.AddShortcut("dbr", "databreakpoint remove")
	t.AddShortcut("dbe", "databreakpoint enable")
	t.AddShortcut("dbd", "databreakpoint disable")
	t.AddShortcut("dir", "disk directory")
	t.AddShortcut("e", "evaluate")
	t.AddShortcut("m", "memory dump")
	t.AddShortcut("mc", "memory copy")
	t.AddShortcut("ms", "memory set")
	t.AddShortcut("r", "register")
	t.AddShortcut("s", "step over")
	t.AddShortcut("si", "step in")
	t.AddShortcut("so", "step out")
	t.AddShortcut("?", "help")
	t.AddShortcut(".", "register")

	cmds = t
}
