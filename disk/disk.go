// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disk provides the disk images a 1541 drive reads and writes.
// An image is a list of raw GCR tracks; translating container formats
// into raw tracks happens outside of the drive.
package disk

import (
	"errors"

	"github.com/beevik/go1541/gcr"
)

// 1541 disk geometry.
const (
	DirTrack  = 18 // track holding the BAM and directory
	MinTracks = 35 // tracks of a standard disk
	ExtTracks = 40 // tracks of an extended disk
	MaxTracks = 42 // tracks reachable by the head
)

// Errors
var (
	ErrReadOnly       = errors.New("disk image is read-only")
	ErrTrackRange     = errors.New("track out of range")
	ErrSectorNotFound = errors.New("sector header not found")
	ErrDataNotFound   = errors.New("sector data block not found")
	ErrExtendRefused  = errors.New("disk image extension refused")
	ErrBadFormat      = errors.New("not a raw GCR disk image")
	ErrSectorCount    = errors.New("sector data does not match the track count")
)

// Raw track size in bytes for each speed zone.
var rawTrackSize = [4]int{6250, 6666, 7142, 7692}

// Sectors per track and the gap between sectors for each speed zone.
var (
	sectorsPerZone = [4]int{17, 18, 19, 21}
	gapPerZone     = [4]int{9, 12, 17, 8}
)

var speedMap = [MaxTracks]int{
	3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3,
	2, 2, 2, 2, 2, 2, 2,
	1, 1, 1, 1, 1, 1,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// SpeedZone returns the speed zone of a track, numbered from 1.
func SpeedZone(track int) int {
	return speedMap[track-1]
}

// RawTrackSize returns the standard size in bytes of a track.
func RawTrackSize(track int) int {
	return rawTrackSize[SpeedZone(track)]
}

// Sectors returns the number of sectors on a track.
func Sectors(track int) int {
	return sectorsPerZone[SpeedZone(track)]
}

// An Image is a disk as seen by the drive.
type Image interface {
	// Name returns the name the image was created or loaded with.
	Name() string

	// Tracks returns the number of tracks holding data.
	Tracks() int

	// TrackSize returns the size in bytes of a track. It is defined for
	// every track the head can reach, even beyond Tracks.
	TrackSize(track int) int

	// Track returns the raw GCR bytes of a track. It returns nil for a
	// track beyond Tracks.
	Track(track int) []byte

	// ReadOnly returns true if the image cannot be written.
	ReadOnly() bool

	// Writeback stores the raw GCR bytes of a modified track.
	Writeback(track int, data []byte) error
}

// ExtendPolicy decides whether an image may grow beyond its original
// number of tracks.
type ExtendPolicy interface {
	IsAllowed() bool
}

// PolicyFunc adapts a function to an ExtendPolicy.
type PolicyFunc func() bool

// IsAllowed calls f.
func (f PolicyFunc) IsAllowed() bool {
	return f()
}

// Fixed extend policies.
var (
	AlwaysExtend ExtendPolicy = PolicyFunc(func() bool { return true })
	NeverExtend  ExtendPolicy = PolicyFunc(func() bool { return false })
)

// ReadSector decodes a sector of an image and returns its 256 data bytes.
func ReadSector(img Image, track, sector int) ([]byte, error) {
	if track < 1 || track > img.Tracks() {
		return nil, ErrTrackRange
	}
	data := img.Track(track)[:img.TrackSize(track)]
	pos := gcr.FindSectorHeader(data, track, sector)
	if pos < 0 {
		return nil, ErrSectorNotFound
	}
	pos = gcr.FindSectorData(data, pos)
	if pos < 0 {
		return nil, ErrDataNotFound
	}
	f := gcr.DecodeSector(data, pos)
	if f[0] != gcr.DataHeaderStart {
		return nil, ErrDataNotFound
	}
	return append([]byte(nil), f.Data()...), nil
}
