package gcr_test

import (
	"bytes"
	"testing"

	"github.com/beevik/go1541/gcr"
)

const (
	trackSize18  = 7142
	sectorStride = gcr.SectorGCRSize + 9
	headerLen    = 5 + 5 // sync + header group
)

// Build the GCR data of a track the way a disk formatter lays it out:
// filler bytes, then each sector followed by an inter-sector gap.
func buildTrack(size, track, sectors int, payload func(sector int) []byte, code func(sector int) gcr.ErrorCode) []byte {
	data := bytes.Repeat([]byte{0x55}, size)
	for s := 0; s < sectors; s++ {
		c := gcr.OK
		if code != nil {
			c = code(s)
		}
		h := gcr.Header{Track: track, Sector: s, ID1: 'A', ID2: 'B'}
		gcr.EncodeSector(data[s*sectorStride:], payload(s), h, c)
	}
	return data
}

func bamFixture() []byte {
	bam := make([]byte, gcr.DataSize)
	bam[0], bam[1], bam[2] = 18, 1, 0x41
	for t := 1; t <= 35; t++ {
		bam[4*t] = byte(17 + t%5)
		bam[4*t+1] = 0xff
		bam[4*t+2] = 0xff
		bam[4*t+3] = byte(t)
	}
	copy(bam[0x90:], "TEST DISK\xa0\xa0\xa0\xa0\xa0\xa0\xa0")
	bam[0xa2], bam[0xa3] = 'A', 'B'
	return bam
}

func counting(sector int) []byte {
	p := make([]byte, gcr.DataSize)
	for i := range p {
		p[i] = byte(i + sector)
	}
	return p
}

func expectBytes(t *testing.T, name string, got, exp []byte) {
	t.Helper()
	if !bytes.Equal(got, exp) {
		t.Errorf("%s incorrect.\nexp: % X\ngot: % X", name, exp, got)
	}
}

func TestGroupRoundTrip(t *testing.T) {
	var enc [5]byte
	var dec [4]byte
	for v := 0; v < 256; v++ {
		src := []byte{byte(v), byte(255 - v), byte(v * 7), byte(v ^ 0x5a)}
		gcr.Encode4(enc[:], src)
		gcr.Decode4(dec[:], enc[:])
		expectBytes(t, "Group", dec[:], src)
	}
}

func TestEncodeKnownGroup(t *testing.T) {
	var enc [5]byte
	gcr.Encode4(enc[:], []byte{0x08, 0x00, 0x00, 0x00})
	expectBytes(t, "Encoding", enc[:], []byte{0x52, 0x54, 0xa5, 0x29, 0x4a})
}

func TestInvalidCodesDecodeZero(t *testing.T) {
	var dec [4]byte
	gcr.Decode4(dec[:], []byte{0x00, 0x00, 0x00, 0x00, 0x00})
	expectBytes(t, "Decoding", dec[:], []byte{0, 0, 0, 0})

	// Every 5-bit code in 0xff bytes is 11111, which is not a valid code.
	gcr.Decode4(dec[:], []byte{0xff, 0xff, 0xff, 0xff, 0xff})
	expectBytes(t, "Decoding", dec[:], []byte{0, 0, 0, 0})
}

func TestSectorRoundTrip(t *testing.T) {
	dst := bytes.Repeat([]byte{0x55}, gcr.SectorGCRSize)
	payload := counting(0)
	gcr.EncodeSector(dst, payload, gcr.Header{Track: 1, Sector: 0, ID1: 'A', ID2: 'B'}, gcr.OK)

	f := gcr.DecodeSector(dst, gcr.SectorGCRSize-325)
	if f[0] != gcr.DataHeaderStart {
		t.Errorf("Data block id incorrect. exp: $07, got: $%02X", f[0])
	}
	if !f.Valid() {
		t.Error("Frame should be valid.")
	}
	expectBytes(t, "Payload", f.Data(), payload)
}

func TestErrorEncodings(t *testing.T) {
	const size = 7692
	payload := make([]byte, gcr.DataSize)
	one := func(code gcr.ErrorCode) []byte {
		return buildTrack(size, 1, 1, func(int) []byte { return payload },
			func(int) gcr.ErrorCode { return code })
	}

	// Header block id 0xff: the header cannot be found.
	if pos := gcr.FindSectorHeader(one(gcr.BlockNotFound), 1, 0); pos != -1 {
		t.Errorf("Header position incorrect. exp: -1, got: %d", pos)
	}

	// Missing data sync: the data block cannot be found.
	track := one(gcr.SyncNotFound)
	pos := gcr.FindSectorHeader(track, 1, 0)
	if pos != headerLen {
		t.Fatalf("Header position incorrect. exp: %d, got: %d", headerLen, pos)
	}
	if pos = gcr.FindSectorData(track, pos); pos != -1 {
		t.Errorf("Data position incorrect. exp: -1, got: %d", pos)
	}

	tests := []struct {
		code  gcr.ErrorCode
		id    byte
		valid bool
	}{
		{gcr.OK, gcr.DataHeaderStart, true},
		{gcr.DataBlockNotFound, 0xff, false},
		{gcr.ChecksumError, gcr.DataHeaderStart, false},
	}
	for _, tt := range tests {
		track := one(tt.code)
		pos := gcr.FindSectorData(track, gcr.FindSectorHeader(track, 1, 0))
		f := gcr.DecodeSector(track, pos)
		if f[0] != tt.id || f.Valid() != tt.valid {
			t.Errorf("Code %v frame incorrect. exp: $%02X/%v, got: $%02X/%v",
				tt.code, tt.id, tt.valid, f[0], f.Valid())
		}
	}

	// Corrupted header checksum and disk ID.
	var hdr [4]byte
	gcr.Decode4(hdr[:], one(gcr.HeaderChecksumError)[5:10])
	if exp := byte(0^1^'B'^'A') ^ 0xff; hdr[1] != exp {
		t.Errorf("Header checksum incorrect. exp: $%02X, got: $%02X", exp, hdr[1])
	}
	gcr.Decode4(hdr[:], one(gcr.DiskIDMismatch)[10:15])
	if hdr[0] != 'B' || hdr[1] != 'A'^0xff {
		t.Errorf("Header id incorrect. exp: $42/$BE, got: $%02X/$%02X", hdr[0], hdr[1])
	}
}

func TestFindBAM(t *testing.T) {
	bam := bamFixture()
	track := buildTrack(trackSize18, 18, 19, func(s int) []byte {
		if s == 0 {
			return bam
		}
		return counting(s)
	}, nil)

	pos := gcr.FindSectorHeader(track, 18, 0)
	if pos == -1 {
		t.Fatal("Header of 18/0 not found.")
	}
	pos = gcr.FindSectorData(track, pos)
	if pos == -1 {
		t.Fatal("Data of 18/0 not found.")
	}
	f := gcr.DecodeSector(track, pos)
	expectBytes(t, "BAM", f.Data(), bam)

	for s := 1; s < 19; s++ {
		pos := gcr.FindSectorData(track, gcr.FindSectorHeader(track, 18, s))
		f := gcr.DecodeSector(track, pos)
		expectBytes(t, "Sector", f.Data(), counting(s))
	}

	if pos := gcr.FindSectorHeader(track, 18, 19); pos != -1 {
		t.Errorf("Header position incorrect. exp: -1, got: %d", pos)
	}
	if pos := gcr.FindSectorHeader(track, 17, 0); pos != -1 {
		t.Errorf("Header position incorrect. exp: -1, got: %d", pos)
	}
}

func TestSectorAcrossTrackEnd(t *testing.T) {
	const size = 6250
	linear := buildTrack(size, 31, 1, counting, nil)

	// Rotate the track so the sector's data block wraps the track end.
	shift := size - headerLen - 100
	track := append(append([]byte{}, linear[size-shift:]...), linear[:size-shift]...)

	pos := gcr.FindSectorHeader(track, 31, 0)
	if pos != shift+headerLen {
		t.Fatalf("Header position incorrect. exp: %d, got: %d", shift+headerLen, pos)
	}
	f := gcr.DecodeSector(track, gcr.FindSectorData(track, pos))
	expectBytes(t, "Payload", f.Data(), counting(0))
}

func TestKillerTrack(t *testing.T) {
	track := bytes.Repeat([]byte{0xff}, 6250)
	if pos := gcr.FindSectorHeader(track, 1, 0); pos != -1 {
		t.Errorf("Header position incorrect. exp: -1, got: %d", pos)
	}
	if pos := gcr.FindSectorData(track, 0); pos != -1 {
		t.Errorf("Data position incorrect. exp: -1, got: %d", pos)
	}
}

func TestFromD64(t *testing.T) {
	tests := []struct {
		b   byte
		exp gcr.ErrorCode
	}{
		{0x00, gcr.OK},
		{0x01, gcr.OK},
		{0x02, gcr.BlockNotFound},
		{0x03, gcr.SyncNotFound},
		{0x06, gcr.OK},
		{0x09, gcr.HeaderChecksumError},
		{0x0b, gcr.DiskIDMismatch},
		{0x0f, gcr.DriveNotReady},
		{0x10, gcr.GCRError},
		{0x42, gcr.OK},
	}
	for _, tt := range tests {
		if got := gcr.FromD64(tt.b); got != tt.exp {
			t.Errorf("Code for $%02X incorrect. exp: %v, got: %v", tt.b, tt.exp, got)
		}
	}
	if s := gcr.SyncNotFound.String(); s != "21, READ ERROR (NO SYNC CHARACTER)" {
		t.Errorf("Name incorrect. got: %s", s)
	}
}

func TestEncodeTrack(t *testing.T) {
	const size, sectors = 7692, 21
	h := gcr.Header{Track: 1, ID1: 'A', ID2: 'B'}
	track := make([]byte, gcr.MaxTrackBytes)

	gcr.EncodeTrack(track, size, 8, h, sectors, counting, nil)
	data := track[:size]
	for s := 0; s < sectors; s++ {
		pos := gcr.FindSectorHeader(data, 1, s)
		if pos < 0 {
			t.Fatalf("Header of sector %d not found.", s)
		}
		pos = gcr.FindSectorData(data, pos)
		if pos < 0 {
			t.Fatalf("Data of sector %d not found.", s)
		}
		f := gcr.DecodeSector(data, pos)
		if f[0] != gcr.DataHeaderStart {
			t.Errorf("Data block id incorrect. exp: $07, got: $%02X", f[0])
		}
		expectBytes(t, "Payload", f.Data(), counting(s))
	}

	// A missing sync on one sector leaves no sector on the track.
	code := func(s int) gcr.ErrorCode {
		if s == 3 {
			return gcr.SyncNotFound
		}
		return gcr.OK
	}
	gcr.EncodeTrack(track, size, 8, h, sectors, counting, code)
	for i, b := range data {
		if b != 0 {
			t.Fatalf("Track byte %d incorrect. exp: $00, got: $%02X", i, b)
		}
	}
	for s := 0; s < sectors; s++ {
		if pos := gcr.FindSectorHeader(data, 1, s); pos != -1 {
			t.Errorf("Header position of sector %d incorrect. exp: -1, got: %d", s, pos)
		}
	}
}
