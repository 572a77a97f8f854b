package disk_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/beevik/go1541/disk"
	"github.com/beevik/go1541/gcr"
)

func format(t *testing.T, tracks int) *disk.MemImage {
	t.Helper()
	img, err := disk.Format("test disk", "ab", tracks)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	return img
}

// Replace the payload of an existing sector in place.
func writeSector(t *testing.T, img *disk.MemImage, track, sector int, payload []byte) {
	t.Helper()
	data := img.Track(track)[:img.TrackSize(track)]
	pos := gcr.FindSectorHeader(data, track, sector)
	if pos < 0 {
		t.Fatalf("Sector %d/%d not found", track, sector)
	}
	var hdr [4]byte
	gcr.Decode4(hdr[:], data[pos:pos+5])
	h := gcr.Header{Track: track, Sector: sector, ID1: hdr[1], ID2: hdr[0]}
	gcr.EncodeSector(data[pos-10:], payload, h, gcr.OK)
}

func expectErr(t *testing.T, got, exp error) {
	t.Helper()
	if !errors.Is(got, exp) {
		t.Errorf("Error incorrect. exp: %v, got: %v", exp, got)
	}
}

func TestGeometry(t *testing.T) {
	tests := []struct {
		track, zone, size, sectors int
	}{
		{1, 3, 7692, 21},
		{17, 3, 7692, 21},
		{18, 2, 7142, 19},
		{24, 2, 7142, 19},
		{25, 1, 6666, 18},
		{31, 0, 6250, 17},
		{42, 0, 6250, 17},
	}
	for _, tt := range tests {
		if disk.SpeedZone(tt.track) != tt.zone || disk.RawTrackSize(tt.track) != tt.size ||
			disk.Sectors(tt.track) != tt.sectors {
			t.Errorf("Track %d geometry incorrect. exp: %d/%d/%d, got: %d/%d/%d", tt.track,
				tt.zone, tt.size, tt.sectors,
				disk.SpeedZone(tt.track), disk.RawTrackSize(tt.track), disk.Sectors(tt.track))
		}
	}
}

func TestFormat(t *testing.T) {
	img := format(t, 35)
	if img.Tracks() != 35 || img.Name() != "test disk" {
		t.Errorf("Image incorrect. exp: 35/test disk, got: %d/%s", img.Tracks(), img.Name())
	}

	empty := make([]byte, gcr.DataSize)
	for tr := 1; tr <= 35; tr++ {
		for s := 0; s < disk.Sectors(tr); s++ {
			data, err := disk.ReadSector(img, tr, s)
			if err != nil {
				t.Fatalf("Sector %d/%d: %v", tr, s, err)
			}
			if tr != disk.DirTrack && !bytes.Equal(data, empty) {
				t.Errorf("Sector %d/%d not empty.", tr, s)
			}
		}
	}

	bam, _ := disk.ReadSector(img, 18, 0)
	if bam[0] != 18 || bam[1] != 1 || bam[2] != 'A' {
		t.Errorf("BAM header incorrect. got: % X", bam[:3])
	}
	if e := bam[4*18 : 4*18+4]; !bytes.Equal(e, []byte{17, 0xfc, 0xff, 0x07}) {
		t.Errorf("BAM entry of track 18 incorrect. got: % X", e)
	}

	dir, err := disk.ReadDirectory(img)
	if err != nil {
		t.Fatal(err)
	}
	if dir.Title != "TEST DISK" || dir.ID != "AB\xa02A" || dir.FreeBlocks != 664 || len(dir.Files) != 0 {
		t.Errorf("Directory incorrect. got: %q %q %d %d", dir.Title, dir.ID, dir.FreeBlocks, len(dir.Files))
	}

	if _, err := disk.Format("x", "00", 36); err != disk.ErrTrackRange {
		t.Errorf("Format error incorrect. exp: %v, got: %v", disk.ErrTrackRange, err)
	}
}

func TestReadSectorErrors(t *testing.T) {
	img := format(t, 35)
	_, err := disk.ReadSector(img, 0, 0)
	expectErr(t, err, disk.ErrTrackRange)
	_, err = disk.ReadSector(img, 36, 0)
	expectErr(t, err, disk.ErrTrackRange)
	_, err = disk.ReadSector(img, 1, 21)
	expectErr(t, err, disk.ErrSectorNotFound)
}

func TestDirectoryEntries(t *testing.T) {
	img := format(t, 35)

	dir := make([]byte, gcr.DataSize)
	dir[0], dir[1] = 18, 1 // chain loops back onto itself
	entry := func(i int, typ byte, name string, blocks int) {
		e := dir[i*32:]
		e[2], e[3], e[4] = typ, 17, byte(i)
		copy(e[5:21], bytes.Repeat([]byte{0xa0}, 16))
		copy(e[5:21], name)
		e[30], e[31] = byte(blocks), byte(blocks>>8)
	}
	entry(0, 0x82, "HELLO", 3)
	entry(1, 0x00, "DELETED", 1)
	entry(2, 0x41, "LOCKED", 300)
	writeSector(t, img, 18, 1, dir)

	d, err := disk.ReadDirectory(img)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Files) != 2 {
		t.Fatalf("File count incorrect. exp: 2, got: %d", len(d.Files))
	}
	if f := d.Files[0]; f.Name != "HELLO" || f.TypeName() != "PRG" || f.Blocks != 3 || f.Track != 17 {
		t.Errorf("Entry incorrect. got: %+v", f)
	}
	if f := d.Files[1]; f.TypeName() != "*SEQ<" || f.Blocks != 300 || f.Sector != 2 {
		t.Errorf("Entry incorrect. got: %+v", f)
	}
	if s := d.Files[0].String(); s != `3     "HELLO"            PRG` {
		t.Errorf("Entry string incorrect. got: %q", s)
	}
}

func TestWriteback(t *testing.T) {
	img := format(t, 35)
	data := bytes.Repeat([]byte{0xaa}, img.TrackSize(1))
	if err := img.Writeback(1, data); err != nil {
		t.Fatal(err)
	}
	if !img.Dirty() || !bytes.Equal(img.Track(1)[:len(data)], data) {
		t.Error("Track 1 not written.")
	}

	img.Policy = disk.NeverExtend
	expectErr(t, img.Writeback(36, data), disk.ErrExtendRefused)
	if img.Tracks() != 35 {
		t.Errorf("Track count incorrect. exp: 35, got: %d", img.Tracks())
	}

	img.Policy = disk.AlwaysExtend
	if err := img.Writeback(36, data); err != nil || img.Tracks() != 40 {
		t.Errorf("Extension incorrect. exp: 40, got: %d (%v)", img.Tracks(), err)
	}
	if err := img.Writeback(41, data); err != nil || img.Tracks() != 42 {
		t.Errorf("Extension incorrect. exp: 42, got: %d (%v)", img.Tracks(), err)
	}
	expectErr(t, img.Writeback(43, data), disk.ErrTrackRange)

	img.SetReadOnly(true)
	expectErr(t, img.Writeback(1, data), disk.ErrReadOnly)
}

func TestRawRoundTrip(t *testing.T) {
	img := format(t, 40)
	var buf bytes.Buffer
	if err := disk.WriteRaw(&buf, img); err != nil {
		t.Fatal(err)
	}

	loaded, err := disk.ReadRaw(&buf, "copy")
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Tracks() != 40 {
		t.Fatalf("Track count incorrect. exp: 40, got: %d", loaded.Tracks())
	}
	for tr := 1; tr <= 40; tr++ {
		if loaded.TrackSize(tr) != img.TrackSize(tr) || !bytes.Equal(loaded.Track(tr), img.Track(tr)) {
			t.Errorf("Track %d differs.", tr)
		}
	}

	_, err = disk.ReadRaw(bytes.NewReader([]byte("NOT-1541\x01\x23")), "bad")
	expectErr(t, err, disk.ErrBadFormat)
}

func TestSaveLoad(t *testing.T) {
	img := format(t, 35)
	img.Writeback(2, bytes.Repeat([]byte{0x55}, 100))

	path := filepath.Join(t.TempDir(), "disk.gcr")
	if err := disk.SaveRaw(path, img); err != nil {
		t.Fatal(err)
	}
	if img.Dirty() || img.Path() != path {
		t.Errorf("Image state incorrect after save. got: %v/%s", img.Dirty(), img.Path())
	}

	loaded, err := disk.LoadRaw(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Name() != "disk.gcr" || loaded.Path() != path || loaded.ReadOnly() {
		t.Errorf("Loaded image incorrect. got: %s/%s/%v", loaded.Name(), loaded.Path(), loaded.ReadOnly())
	}
	if !bytes.Equal(loaded.Track(2), img.Track(2)) {
		t.Error("Track 2 differs.")
	}
}

func TestFromSectors(t *testing.T) {
	const sectors = 683
	data := make([]byte, sectors*gcr.DataSize)
	for i := range data {
		data[i] = byte(i / gcr.DataSize)
	}
	bam := data[357*gcr.DataSize:] // track 18 sector 0
	bam[0xa2], bam[0xa3] = 'X', 'Y'

	errs := make([]byte, sectors)
	errs[5] = 0x03       // 1/5: no sync on the whole track
	errs[21] = 0x02      // 2/0: header not found
	errs[21+21+1] = 0x04 // 3/1: data block not found
	img, err := disk.FromSectors("errors", 35, data, errs)
	if err != nil {
		t.Fatalf("FromSectors failed: %v", err)
	}

	for i, b := range img.Track(1)[:disk.RawTrackSize(1)] {
		if b != 0 {
			t.Fatalf("Track 1 byte %d incorrect. exp: $00, got: $%02X", i, b)
		}
	}
	_, err = disk.ReadSector(img, 1, 0)
	expectErr(t, err, disk.ErrSectorNotFound)
	_, err = disk.ReadSector(img, 2, 0)
	expectErr(t, err, disk.ErrSectorNotFound)
	_, err = disk.ReadSector(img, 3, 1)
	expectErr(t, err, disk.ErrDataNotFound)

	got, err := disk.ReadSector(img, 2, 1)
	if err != nil {
		t.Fatalf("ReadSector 2/1 failed: %v", err)
	}
	if got[0] != 22 {
		t.Errorf("Sector 2/1 incorrect. exp: $16, got: $%02X", got[0])
	}

	// The disk ID of every header comes from the BAM.
	track := img.Track(3)[:disk.RawTrackSize(3)]
	pos := gcr.FindSectorHeader(track, 3, 0)
	if pos < 0 {
		t.Fatal("Header of 3/0 not found.")
	}
	var hdr [4]byte
	gcr.Decode4(hdr[:], track[pos:pos+5])
	if hdr[0] != 'Y' || hdr[1] != 'X' {
		t.Errorf("Header id incorrect. exp: $59/$58, got: $%02X/$%02X", hdr[0], hdr[1])
	}

	_, err = disk.FromSectors("short", 35, data[:100], nil)
	expectErr(t, err, disk.ErrSectorCount)
	_, err = disk.FromSectors("short", 35, data, errs[:10])
	expectErr(t, err, disk.ErrSectorCount)
}
