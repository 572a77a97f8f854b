// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/beevik/cmd"
	"github.com/beevik/go1541/disk"
	"github.com/beevik/go1541/logger"
	"github.com/beevik/go1541/via"
)

// extendPolicy lets images grow while the ExtendImages setting is on.
func (h *Host) extendPolicy() disk.ExtendPolicy {
	return disk.PolicyFunc(func() bool { return h.settings.ExtendImages })
}

func (h *Host) insert(img *disk.MemImage) {
	h.eject()
	img.Policy = h.extendPolicy()
	h.drive.InsertDisk(img)
	h.image = img
}

// eject removes the disk and saves it to its file if the drive changed
// it.
func (h *Host) eject() error {
	if h.image == nil {
		return nil
	}
	h.drive.EjectDisk()
	img := h.image
	h.image = nil

	if !img.Dirty() || img.Path() == "" {
		return nil
	}
	if err := disk.SaveRaw(img.Path(), img); err != nil {
		logger.Logf(logger.Allow, "host", "Saving %s failed: %v", img.Path(), err)
		return err
	}
	logger.Logf(logger.Allow, "host", "Saved %s", img.Path())
	return nil
}

// InsertDisk loads a raw disk image file and inserts it into the drive.
func (h *Host) InsertDisk(path string) error {
	img, err := disk.LoadRaw(path)
	if err != nil {
		return err
	}
	h.insert(img)
	return nil
}

// Close ejects the inserted disk, saving it if the drive modified it.
func (h *Host) Close() error {
	return h.eject()
}

func (h *Host) cmdDiskInsert(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c.Command)
		return nil
	}

	img, err := disk.LoadRaw(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	h.insert(img)

	if img.ReadOnly() {
		h.printf("Inserted '%s' (write protected).\n", img.Name())
	} else {
		h.printf("Inserted '%s'.\n", img.Name())
	}
	return nil
}

func (h *Host) cmdDiskEject(c cmd.Selection) error {
	if h.image == nil {
		h.println("No disk inserted.")
		return nil
	}

	name := h.image.Name()
	if err := h.eject(); err != nil {
		h.printf("Ejected '%s', but saving it failed: %v\n", name, err)
		return nil
	}
	h.printf("Ejected '%s'.\n", name)
	return nil
}

func (h *Host) cmdDiskFormat(c cmd.Selection) error {
	if len(c.Args) < 3 {
		h.displayUsage(c.Command)
		return nil
	}

	tracks := disk.MinTracks
	if len(c.Args) > 3 {
		n, err := strconv.Atoi(c.Args[3])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		tracks = n
	}

	filename := c.Args[0]
	img, err := disk.Format(c.Args[1], c.Args[2], tracks)
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	if err := disk.SaveRaw(filename, img); err != nil {
		h.printf("%v\n", err)
		return nil
	}
	h.insert(img)

	h.printf("Formatted '%s' with %d tracks and inserted it.\n", filepath.Base(filename), tracks)
	return nil
}

func (h *Host) cmdDiskStatus(c cmd.Selection) error {
	d := h.drive
	dc := d.DC

	h.printf("Unit:       %d\n", d.ID)
	h.printf("Status:     %s\n", d.Status())
	h.printf("Clock:      %d\n", d.Time())
	h.printf("Motor:      %s\n", onOff(dc.MotorOn()))
	h.printf("LED:        %s\n", onOff(dc.LEDOn()))

	ht := dc.HalfTrack()
	if ht&1 == 0 {
		h.printf("Head:       track %d\n", ht>>1)
	} else {
		h.printf("Head:       track %d.5\n", ht>>1)
	}
	h.printf("Speed zone: %d\n", dc.Rotation().SpeedZone())
	h.printf("Mode:       %s\n", dc.Mode())

	if h.image == nil {
		h.println("Disk:       none")
		return nil
	}
	img := h.image
	flags := []string{fmt.Sprintf("%d tracks", img.Tracks())}
	if img.ReadOnly() {
		flags = append(flags, "write protected")
	}
	if img.Dirty() {
		flags = append(flags, "modified")
	}
	h.printf("Disk:       %s (%s)\n", img.Name(), strings.Join(flags, ", "))
	return nil
}

func (h *Host) cmdDiskDirectory(c cmd.Selection) error {
	if h.image == nil {
		h.println("No disk inserted.")
		return nil
	}

	// The drive may hold modified data for the track under the head.
	h.drive.DC.Flush()

	dir, err := disk.ReadDirectory(h.image)
	if dir == nil {
		h.printf("%v\n", err)
		return nil
	}

	h.printf("0 %-18s %s\n", `"`+dir.Title+`"`, strings.ReplaceAll(dir.ID, "\xa0", " "))
	for i := range dir.Files {
		h.println(dir.Files[i].String())
	}
	h.printf("%d BLOCKS FREE.\n", dir.FreeBlocks)
	if err != nil {
		h.printf("%v\n", err)
	}
	return nil
}

var viaRegisterNames = [16]string{
	"PRB", "PRA", "DDRB", "DDRA", "T1CL", "T1CH", "T1LL", "T1LH",
	"T2CL", "T2CH", "SR", "ACR", "PCR", "IFR", "IER", "PRANHS",
}

func (h *Host) cmdVIA(c cmd.Selection) error {
	vias := []*via.VIA{h.drive.BC.VIA, h.drive.DC.VIA}
	if len(c.Args) > 0 {
		switch strings.ToLower(c.Args[0]) {
		case "bc":
			vias = vias[:1]
		case "dc":
			vias = vias[1:]
		default:
			h.displayUsage(c.Command)
			return nil
		}
	}

	for _, v := range vias {
		s := v.State()
		h.printf("%s:\n", v.Name())
		for i, r := range s.Regs {
			h.printf("  %-6s $%02X", viaRegisterNames[i], r)
			if i%4 == 3 {
				h.println()
			}
		}
		h.printf("  Timer 1 $%04X (latch $%04X)  Timer 2 $%04X (latch $%04X)  IRQ %s\n",
			s.Timer1, s.Latch1, s.Timer2, s.Latch2, onOff(s.IRQ))
	}
	return nil
}

func (h *Host) cmdLog(c cmd.Selection) error {
	if len(c.Args) > 0 {
		n, err := h.exprParser.Parse(c.Args[0], h)
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		logger.Tail(h.output, int(n))
	} else {
		logger.Write(h.output)
	}
	h.flush()
	return nil
}
