// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcr

// A Codec holds the GCR data of an entire disk and the position of the
// read/write head within it. Half-tracks share the data of their full
// track. While no disk is attached, reads return zero bits and writes are
// dropped.
type Codec struct {
	data       []byte
	trackPos   int // start of the current track within data
	headOffset int // bit offset of the head within the current track
	attached   bool
}

// NewCodec creates a codec with an empty track buffer and no attached
// disk.
func NewCodec() *Codec {
	return &Codec{data: make([]byte, MaxTracks*MaxTrackBytes)}
}

// Attach marks the track buffer as holding a disk.
func (c *Codec) Attach() {
	c.attached = true
}

// Detach clears the track buffer and marks the disk as removed.
func (c *Codec) Detach() {
	clear(c.data)
	c.attached = false
}

// Attached returns true while a disk is attached.
func (c *Codec) Attached() bool {
	return c.attached
}

// Reset moves the head to the start of track 1.
func (c *Codec) Reset() {
	c.trackPos = 0
	c.headOffset = 0
}

// Track returns the buffer of a track, numbered from 1. The returned
// slice aliases the codec's data and is MaxTrackBytes long.
func (c *Codec) Track(track int) []byte {
	start := (track - 1) * MaxTrackBytes
	return c.data[start : start+MaxTrackBytes]
}

// SetTrackData replaces the contents of a track. Bytes of the track
// beyond len(b) are left unchanged.
func (c *Codec) SetTrackData(track int, b []byte) {
	copy(c.Track(track), b)
}

// Current returns the current track's data limited to size bytes.
func (c *Codec) Current(size int) []byte {
	return c.data[c.trackPos : c.trackPos+size]
}

// HeadOffset returns the bit position of the head within the current
// track.
func (c *Codec) HeadOffset() int {
	return c.headOffset
}

// SetHalfTrack moves the head to a half-track. The head's bit offset is
// rescaled from the old track size to the new one so that its angular
// position on the disk is preserved.
func (c *Codec) SetHalfTrack(halfTrack, oldSize, newSize int) {
	c.trackPos = ((halfTrack >> 1) - 1) * MaxTrackBytes
	c.headOffset = c.headOffset * oldSize / newSize
}

// ReadNextBit returns the bit under the head and advances the head. The
// head wraps at the end of a track of the given size.
func (c *Codec) ReadNextBit(size int) byte {
	if !c.attached {
		return 0
	}
	off, bit := c.advance(size)
	return c.data[off] >> bit & 1
}

// WriteNextBit stores a bit under the head and advances the head.
func (c *Codec) WriteNextBit(v bool, size int) {
	if !c.attached {
		return
	}
	off, bit := c.advance(size)
	if v {
		c.data[off] |= 1 << bit
	} else {
		c.data[off] &^= 1 << bit
	}
}

func (c *Codec) advance(size int) (off int, bit uint) {
	off = c.trackPos + c.headOffset>>3
	bit = uint(^c.headOffset & 7)
	c.headOffset = (c.headOffset + 1) % (size << 3)
	return off, bit
}

// EncodeSector encodes a sector into the current track at byte offset
// off.
func (c *Codec) EncodeSector(off int, payload []byte, h Header, code ErrorCode) {
	EncodeSector(c.data[c.trackPos+off:], payload, h, code)
}

// DecodeSector decodes the sector frame at offset pos of the current
// track.
func (c *Codec) DecodeSector(pos, size int) Frame {
	return DecodeSector(c.Current(size), pos)
}

// FindSectorHeader scans the current track for a sector header. See the
// package-level FindSectorHeader.
func (c *Codec) FindSectorHeader(track, sector, size int) int {
	return FindSectorHeader(c.Current(size), track, sector)
}

// FindSectorData scans the current track for the data block following a
// sector header.
func (c *Codec) FindSectorData(pos, size int) int {
	return FindSectorData(c.Current(size), pos)
}
