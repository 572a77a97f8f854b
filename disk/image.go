// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package disk

import "github.com/beevik/go1541/gcr"

// MemImage is a disk image held in memory.
type MemImage struct {
	// Policy decides whether the image may grow when a track beyond its
	// end is written. A nil policy always allows it.
	Policy ExtendPolicy

	name     string
	path     string
	tracks   [][]byte
	sizes    [MaxTracks]int
	readOnly bool
	dirty    bool
}

// NewMemImage creates an unformatted image with the given number of
// tracks.
func NewMemImage(name string, tracks int) *MemImage {
	m := &MemImage{name: name}
	for t := 1; t <= MaxTracks; t++ {
		m.sizes[t-1] = RawTrackSize(t)
	}
	m.grow(tracks)
	return m
}

func (m *MemImage) grow(tracks int) {
	for len(m.tracks) < tracks {
		m.tracks = append(m.tracks, make([]byte, gcr.MaxTrackBytes))
	}
}

// Name returns the image name.
func (m *MemImage) Name() string { return m.name }

// Tracks returns the number of tracks holding data.
func (m *MemImage) Tracks() int { return len(m.tracks) }

// TrackSize returns the size in bytes of a track.
func (m *MemImage) TrackSize(track int) int { return m.sizes[track-1] }

// ReadOnly returns true if the image cannot be written.
func (m *MemImage) ReadOnly() bool { return m.readOnly }

// SetReadOnly sets the write protection of the image.
func (m *MemImage) SetReadOnly(ro bool) { m.readOnly = ro }

// Path returns the file the image was loaded from, if any.
func (m *MemImage) Path() string { return m.path }

// Dirty returns true if a track was written since the image was created,
// loaded or saved.
func (m *MemImage) Dirty() bool { return m.dirty }

// Track returns the raw GCR data of a track.
func (m *MemImage) Track(track int) []byte {
	if track < 1 || track > len(m.tracks) {
		return nil
	}
	return m.tracks[track-1]
}

// Writeback stores the data of a track. Writing beyond the last track
// grows the image to 40 tracks, or 42 for the outermost tracks, if the
// extend policy allows it.
func (m *MemImage) Writeback(track int, data []byte) error {
	if m.readOnly {
		return ErrReadOnly
	}
	if track < 1 || track > MaxTracks {
		return ErrTrackRange
	}
	if track > len(m.tracks) {
		if m.Policy != nil && !m.Policy.IsAllowed() {
			return ErrExtendRefused
		}
		if track > ExtTracks {
			m.grow(MaxTracks)
		} else {
			m.grow(ExtTracks)
		}
	}
	copy(m.tracks[track-1], data)
	m.dirty = true
	return nil
}

// Format creates a blank formatted disk: every sector is empty, the BAM
// on track 18 sector 0 marks all sectors but the BAM and the first
// directory block as free, and the directory is empty. The id is the
// two-character disk ID. Tracks must be 35, 40 or 42.
func Format(name, id string, tracks int) (*MemImage, error) {
	switch tracks {
	case MinTracks, ExtTracks, MaxTracks:
	default:
		return nil, ErrTrackRange
	}

	data := make([]byte, sectorIndex(tracks+1, 0)*gcr.DataSize)
	id1, id2 := idBytes(id)
	copy(data[sectorIndex(DirTrack, 0)*gcr.DataSize:], newBAM(name, id1, id2))
	data[sectorIndex(DirTrack, 1)*gcr.DataSize+1] = 0xff
	return FromSectors(name, tracks, data, nil)
}

// FromSectors creates an image from decoded sector contents. The data
// holds every sector of the first 'tracks' tracks, 256 bytes each, in
// track and sector order. The disk ID is taken from the BAM on track 18
// sector 0. The optional error table holds one D64 error byte per sector
// and selects the simulated read error each sector is encoded with.
func FromSectors(name string, tracks int, data, errorTable []byte) (*MemImage, error) {
	if tracks < DirTrack || tracks > MaxTracks {
		return nil, ErrTrackRange
	}
	n := sectorIndex(tracks+1, 0)
	if len(data) != n*gcr.DataSize || (errorTable != nil && len(errorTable) != n) {
		return nil, ErrSectorCount
	}

	bam := data[sectorIndex(DirTrack, 0)*gcr.DataSize:]
	h := gcr.Header{ID1: bam[0xa2], ID2: bam[0xa3]}

	var code func(sector int) gcr.ErrorCode
	m := NewMemImage(name, tracks)
	for t := 1; t <= tracks; t++ {
		first := sectorIndex(t, 0)
		if errorTable != nil {
			code = func(s int) gcr.ErrorCode { return gcr.FromD64(errorTable[first+s]) }
		}
		h.Track = t
		gcr.EncodeTrack(m.tracks[t-1], RawTrackSize(t), gapPerZone[SpeedZone(t)], h, Sectors(t),
			func(s int) []byte { return data[(first+s)*gcr.DataSize:][:gcr.DataSize] }, code)
	}
	return m, nil
}

// sectorIndex returns the position of a sector among all sectors of a
// disk, counting from track 1 sector 0.
func sectorIndex(track, sector int) int {
	n := sector
	for t := 1; t < track; t++ {
		n += Sectors(t)
	}
	return n
}

func idBytes(id string) (byte, byte) {
	b := petscii(id + "00")
	return b[0], b[1]
}

func newBAM(name string, id1, id2 byte) []byte {
	bam := make([]byte, gcr.DataSize)
	bam[0], bam[1] = DirTrack, 1
	bam[2] = 'A'

	for t := 1; t <= MinTracks; t++ {
		n := Sectors(t)
		free := uint32(1)<<n - 1
		if t == DirTrack {
			free &^= 3
			n -= 2
		}
		e := bam[4*t:]
		e[0] = byte(n)
		e[1], e[2], e[3] = byte(free), byte(free>>8), byte(free>>16)
	}

	title := bam[0x90:0xab]
	for i := range title {
		title[i] = 0xa0
	}
	copy(title[:16], petscii(name))
	bam[0xa2], bam[0xa3] = id1, id2
	bam[0xa5], bam[0xa6] = '2', 'A'
	return bam
}

// Convert a host string to the uppercase character set of the drive.
func petscii(s string) []byte {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return b
}
