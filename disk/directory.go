// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package disk

import (
	"bytes"
	"fmt"
)

const (
	entriesPerBlock = 8
	entrySize       = 32
)

var fileTypes = [8]string{"DEL", "SEQ", "PRG", "USR", "REL", "???", "???", "???"}

// A FileEntry is a single directory entry.
type FileEntry struct {
	Name   string
	Type   byte // raw file type byte
	Blocks int
	Track  int // first track of the file
	Sector int // first sector of the file
}

// TypeName returns the file type as listed by the drive, such as "PRG"
// or "*SEQ<".
func (e *FileEntry) TypeName() string {
	s := fileTypes[e.Type&7]
	if e.Type&0x80 == 0 {
		s = "*" + s
	}
	if e.Type&0x40 != 0 {
		s += "<"
	}
	return s
}

func (e *FileEntry) String() string {
	return fmt.Sprintf("%-5d %-18s %s", e.Blocks, `"`+e.Name+`"`, e.TypeName())
}

// Directory is the listing of a disk.
type Directory struct {
	Title      string
	ID         string
	FreeBlocks int
	Files      []FileEntry
}

// ReadDirectory reads the BAM and the directory chain of an image. A
// directory chain that loops back onto itself ends the listing. If a
// directory block cannot be read, the entries read so far are returned
// along with the error.
func ReadDirectory(img Image) (*Directory, error) {
	bam, err := ReadSector(img, DirTrack, 0)
	if err != nil {
		return nil, err
	}

	dir := &Directory{
		Title: trimPadding(bam[0x90:0xa0]),
		ID:    trimPadding(bam[0xa2:0xa7]),
	}
	for t := 1; t <= MinTracks; t++ {
		if t != DirTrack {
			dir.FreeBlocks += int(bam[4*t])
		}
	}

	type block struct{ track, sector int }
	visited := make(map[block]bool)
	b := block{int(bam[0]), int(bam[1])}
	for b.track != 0 && !visited[b] {
		visited[b] = true
		sec, err := ReadSector(img, b.track, b.sector)
		if err != nil {
			return dir, err
		}
		for i := 0; i < entriesPerBlock; i++ {
			e := sec[i*entrySize : (i+1)*entrySize]
			if e[2] == 0 {
				continue
			}
			dir.Files = append(dir.Files, FileEntry{
				Name:   trimPadding(e[5:21]),
				Type:   e[2],
				Blocks: int(e[30]) | int(e[31])<<8,
				Track:  int(e[3]),
				Sector: int(e[4]),
			})
		}
		b = block{int(sec[0]), int(sec[1])}
	}
	return dir, nil
}

func trimPadding(b []byte) string {
	return string(bytes.TrimRight(b, "\xa0"))
}
