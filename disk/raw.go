// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package disk

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/beevik/go1541/gcr"
)

// A raw image file starts with a magic string, a version byte and the
// track count, followed by a little-endian 16-bit size for every track
// and then MaxTrackBytes of GCR data per track.
const (
	rawMagic   = "GCR-1541"
	rawVersion = 1
)

// ReadRaw reads a raw GCR image from r.
func ReadRaw(r io.Reader, name string) (*MemImage, error) {
	var hdr [len(rawMagic) + 2]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	if string(hdr[:len(rawMagic)]) != rawMagic || hdr[len(rawMagic)] != rawVersion {
		return nil, ErrBadFormat
	}
	tracks := int(hdr[len(rawMagic)+1])
	if tracks < 1 || tracks > MaxTracks {
		return nil, ErrTrackRange
	}

	sizes := make([]uint16, tracks)
	if err := binary.Read(r, binary.LittleEndian, sizes); err != nil {
		return nil, err
	}

	m := NewMemImage(name, tracks)
	for i, size := range sizes {
		if size == 0 || int(size) > gcr.MaxTrackBytes {
			return nil, fmt.Errorf("track %d: %w", i+1, ErrBadFormat)
		}
		m.sizes[i] = int(size)
		if _, err := io.ReadFull(r, m.tracks[i]); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// WriteRaw writes the image to w in the raw GCR format.
func WriteRaw(w io.Writer, img Image) error {
	tracks := img.Tracks()
	hdr := append([]byte(rawMagic), rawVersion, byte(tracks))
	if _, err := w.Write(hdr); err != nil {
		return err
	}

	sizes := make([]uint16, tracks)
	for t := 1; t <= tracks; t++ {
		sizes[t-1] = uint16(img.TrackSize(t))
	}
	if err := binary.Write(w, binary.LittleEndian, sizes); err != nil {
		return err
	}

	buf := make([]byte, gcr.MaxTrackBytes)
	for t := 1; t <= tracks; t++ {
		clear(buf)
		copy(buf, img.Track(t))
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// LoadRaw loads a raw GCR image file. A file that cannot be opened for
// writing is loaded as a read-only image.
func LoadRaw(path string) (*MemImage, error) {
	readOnly := false
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		f, err = os.Open(path)
		if err != nil {
			return nil, err
		}
		readOnly = true
	}
	defer f.Close()

	m, err := ReadRaw(bufio.NewReader(f), filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.path = path
	m.readOnly = readOnly
	return m, nil
}

// SaveRaw writes the image to a raw GCR image file. Saving a MemImage
// clears its dirty state.
func SaveRaw(path string, img Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	err = WriteRaw(w, img)
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	if m, ok := img.(*MemImage); ok {
		m.dirty = false
		if m.path == "" {
			m.path = path
		}
	}
	return nil
}
