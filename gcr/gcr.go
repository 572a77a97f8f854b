// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gcr implements the Group Code Recording used on 1541 floppy
// media. Every 4-bit nibble is stored as a 5-bit code, so 4 bytes of
// sector data occupy 5 bytes on disk.
//
// The package provides sector encoding and decoding over raw track bytes
// and a Codec that holds the GCR data of a whole disk together with the
// bit-granular position of the read/write head.
package gcr

const (
	// MaxTracks is the number of tracks the track buffer can hold.
	MaxTracks = 70

	// MaxTrackBytes is the largest size in bytes of a single GCR track.
	MaxTrackBytes = 7928

	// SectorSize is the size of a sector frame: the data block id, 256
	// data bytes, the checksum and two filler bytes.
	SectorSize = 260

	// DataSize is the number of payload bytes in a sector.
	DataSize = 256

	// BlockHeaderStart marks the start of a sector header.
	BlockHeaderStart = 0x08

	// DataHeaderStart marks the start of a sector data block.
	DataHeaderStart = 0x07

	// SectorGCRSize is the number of GCR bytes spanned by an encoded
	// sector from its header sync to the end of its data block.
	SectorGCRSize = syncSize + 2*groupGCR + gapSize + syncSize + frameGCR
)

const (
	syncSize = 5
	gapSize  = 10
	groupGCR = 5                         // GCR bytes per 4 byte group
	frameGCR = SectorSize / 4 * groupGCR // GCR bytes per sector frame
	syncByte = 0xff
	fillByte = 0x55
)

var toGCR = [16]byte{
	0x0a, 0x0b, 0x12, 0x13, 0x0e, 0x0f, 0x16, 0x17,
	0x09, 0x19, 0x1a, 0x1b, 0x0d, 0x1d, 0x1e, 0x15,
}

// Invalid 5-bit codes decode to zero.
var fromGCR = [32]byte{
	0, 0, 0, 0, 0, 0, 0, 0, 0, 8, 0, 1, 0, 12, 4, 5,
	0, 0, 2, 3, 0, 15, 6, 7, 0, 9, 10, 11, 0, 13, 14, 0,
}

// Header identifies a sector on disk.
type Header struct {
	Track  int
	Sector int
	ID1    byte // first character of the disk ID
	ID2    byte // second character of the disk ID
}

// Frame is a decoded sector frame.
type Frame [SectorSize]byte

// Data returns the 256 payload bytes of the frame.
func (f *Frame) Data() []byte {
	return f[1 : 1+DataSize]
}

// Checksum returns the XOR of all payload bytes.
func (f *Frame) Checksum() byte {
	var sum byte
	for _, b := range f.Data() {
		sum ^= b
	}
	return sum
}

// Valid returns true if the frame starts with a data block id and its
// stored checksum matches its payload.
func (f *Frame) Valid() bool {
	return f[0] == DataHeaderStart && f[1+DataSize] == f.Checksum()
}

// Encode4 converts 4 bytes into their 5-byte GCR form.
func Encode4(dst []byte, src []byte) {
	var idx uint
	for i := uint(2); i < 10; i += 2 {
		b := src[0]
		src = src[1:]
		idx = idx<<5 | uint(toGCR[b>>4])
		idx = idx<<5 | uint(toGCR[b&0x0f])
		dst[0] = byte(idx >> i)
		dst = dst[1:]
	}
	dst[0] = byte(idx)
}

// Decode4 converts 5 GCR bytes back into 4 bytes.
func Decode4(dst []byte, src []byte) {
	idx := uint(src[0]) << 13
	for i, n := uint(5), 0; i < 13; i, n = i+2, n+1 {
		idx |= uint(src[n+1]) << i
		hi := fromGCR[(idx>>16)&0x1f]
		idx <<= 5
		lo := fromGCR[(idx>>16)&0x1f]
		idx <<= 5
		dst[n] = hi<<4 | lo
	}
}

// EncodeSector writes the GCR form of a sector into dst, which must hold
// at least SectorGCRSize bytes. The payload is the 256 data bytes of the
// sector. The simulated DOS error code selects how the encoded sector is
// corrupted, so that drive firmware observes the error when reading it.
// The gap between the header and the data block is left untouched.
// SyncNotFound only replaces this sector's data sync with filler; see
// EncodeTrack for a whole track.
func EncodeSector(dst []byte, payload []byte, h Header, code ErrorCode) {
	fill(dst[:syncSize], syncByte)
	dst = dst[syncSize:]

	id1 := h.ID1
	if code == DiskIDMismatch {
		id1 ^= 0xff
	}

	var buf [4]byte
	buf[0] = BlockHeaderStart
	if code == BlockNotFound {
		buf[0] = 0xff
	}
	buf[1] = byte(h.Sector) ^ byte(h.Track) ^ h.ID2 ^ id1
	if code == HeaderChecksumError {
		buf[1] ^= 0xff
	}
	buf[2] = byte(h.Sector)
	buf[3] = byte(h.Track)
	Encode4(dst, buf[:])
	dst = dst[groupGCR:]

	buf = [4]byte{h.ID2, id1, 0x0f, 0x0f}
	Encode4(dst, buf[:])
	dst = dst[groupGCR+gapSize:]

	sync := byte(syncByte)
	if code == SyncNotFound {
		sync = fillByte
	}
	fill(dst[:syncSize], sync)
	dst = dst[syncSize:]

	var f Frame
	f[0] = DataHeaderStart
	if code == DataBlockNotFound {
		f[0] = 0xff
	}
	copy(f.Data(), payload)
	f[1+DataSize] = f.Checksum()
	if code == ChecksumError {
		f[1+DataSize] ^= 0xff
	}
	for i := 0; i < SectorSize; i += 4 {
		Encode4(dst, f[i:i+4])
		dst = dst[groupGCR:]
	}
}

// EncodeTrack lays out the sectors of a track of size bytes in dst. The
// header h names the track and disk ID; its sector number is ignored.
// Consecutive sectors are separated by gap bytes and the rest of the
// track holds filler. The code function, which may be nil, supplies the
// simulated error of each sector. A sector coded SyncNotFound erases the
// whole track to zero bytes, leaving no sync mark anywhere on it.
func EncodeTrack(dst []byte, size, gap int, h Header, sectors int, payload func(sector int) []byte, code func(sector int) ErrorCode) {
	codes := make([]ErrorCode, sectors)
	if code != nil {
		for s := range codes {
			codes[s] = code(s)
			if codes[s] == SyncNotFound {
				fill(dst[:size], 0)
				return
			}
		}
	}

	fill(dst[:size], fillByte)
	stride := SectorGCRSize - 1 + gap
	for s, off := 0, 0; s < sectors; s, off = s+1, off+stride {
		h.Sector = s
		EncodeSector(dst[off:], payload(s), h, codes[s])
	}
}

// DecodeSector decodes the sector frame whose GCR data begins at offset
// pos of the track. Decoding wraps around the end of the track.
func DecodeSector(track []byte, pos int) Frame {
	var f Frame
	var group [groupGCR]byte
	for i := 0; i < SectorSize; i += 4 {
		for j := range group {
			group[j] = track[pos]
			pos++
			if pos >= len(track) {
				pos = 0
			}
		}
		Decode4(f[i:i+4], group[:])
	}
	return f
}

// FindSectorHeader scans a track for the header of the requested sector.
// It returns the offset just past the header, or -1 if the header cannot
// be found. A track made entirely of sync bytes has no header.
func FindSectorHeader(track []byte, trackNum, sector int) int {
	size := len(track)
	offset := 0
	wrapped := false
	syncCount := 0

	var raw [groupGCR]byte
	var header [4]byte
	for offset < size && !wrapped {
		for track[offset] != syncByte {
			offset++
			if offset >= size {
				return -1
			}
		}
		for track[offset] == syncByte {
			offset++
			if offset == size {
				offset = 0
				wrapped = true
			}
			syncCount++
			if syncCount >= size {
				return -1
			}
		}

		for i := range raw {
			raw[i] = track[offset]
			offset++
			if offset >= size {
				offset = 0
				wrapped = true
			}
		}
		Decode4(header[:], raw[:])

		if header[0] == BlockHeaderStart && int(header[2]) == sector && int(header[3]) == trackNum {
			return offset
		}
	}
	return -1
}

// FindSectorData scans forward from a sector header position to the
// start of the sector's data block. It returns -1 if no sync mark follows
// the header closely enough.
func FindSectorData(track []byte, pos int) int {
	size := len(track)
	for n := 0; track[pos] != syncByte; {
		pos++
		if pos >= size {
			pos = 0
		}
		n++
		if n >= 500 {
			return -1
		}
	}
	for n := 0; track[pos] == syncByte; n++ {
		if n >= size {
			return -1
		}
		pos++
		if pos == size {
			pos = 0
		}
	}
	return pos
}

func fill(b []byte, v byte) {
	for i := range b {
		b[i] = v
	}
}
