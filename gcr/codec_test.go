package gcr_test

import (
	"testing"

	"github.com/beevik/go1541/gcr"
)

func readByte(c *gcr.Codec, size int) byte {
	var v byte
	for i := 0; i < 8; i++ {
		v = v<<1 | c.ReadNextBit(size)
	}
	return v
}

func TestCodecDetached(t *testing.T) {
	c := gcr.NewCodec()
	c.SetTrackData(1, []byte{0xff, 0xff})
	c.SetHalfTrack(2, 6250, 6250)
	if v := readByte(c, 6250); v != 0 {
		t.Errorf("Detached read incorrect. exp: $00, got: $%02X", v)
	}
	if off := c.HeadOffset(); off != 0 {
		t.Errorf("Head offset incorrect. exp: 0, got: %d", off)
	}
}

func TestCodecReadWrite(t *testing.T) {
	c := gcr.NewCodec()
	c.Attach()
	c.SetTrackData(18, []byte{0xa5, 0x3c})
	c.SetHalfTrack(36, 7142, 7142)

	if v := readByte(c, 7142); v != 0xa5 {
		t.Errorf("Read incorrect. exp: $A5, got: $%02X", v)
	}
	if v := readByte(c, 7142); v != 0x3c {
		t.Errorf("Read incorrect. exp: $3C, got: $%02X", v)
	}

	// Half-track 37 shares the data of track 18.
	c.SetHalfTrack(37, 7142, 7142)
	for _, bit := range []bool{true, true, false, false, true, true, false, true} {
		c.WriteNextBit(bit, 7142)
	}
	if b := c.Track(18)[2]; b != 0xcd {
		t.Errorf("Written byte incorrect. exp: $CD, got: $%02X", b)
	}

	c.Detach()
	if b := c.Track(18)[0]; b != 0 || c.Attached() {
		t.Errorf("Detach incorrect. exp: $00/false, got: $%02X/%v", b, c.Attached())
	}
}

func TestCodecWrap(t *testing.T) {
	c := gcr.NewCodec()
	c.Attach()
	c.SetTrackData(1, []byte{0x81, 0x7e})
	c.SetHalfTrack(2, 1, 1)

	// A track of one byte wraps after 8 bits.
	for i := 0; i < 3; i++ {
		if v := readByte(c, 1); v != 0x81 {
			t.Errorf("Read incorrect. exp: $81, got: $%02X", v)
		}
	}
}

func TestSetHalfTrackRescale(t *testing.T) {
	c := gcr.NewCodec()
	c.Attach()
	c.SetHalfTrack(2, 7692, 7692)
	for i := 0; i < 800; i++ {
		c.ReadNextBit(7692)
	}

	// Moving to a shorter track keeps the angular head position.
	c.SetHalfTrack(62, 7692, 6250)
	if off := c.HeadOffset(); off != 800*7692/6250 {
		t.Errorf("Head offset incorrect. exp: %d, got: %d", 800*7692/6250, off)
	}
	c.SetHalfTrack(2, 6250, 7692)
	if off := c.HeadOffset(); off != 984*6250/7692 {
		t.Errorf("Head offset incorrect. exp: %d, got: %d", 984*6250/7692, off)
	}
}

func TestCodecSectorSearch(t *testing.T) {
	c := gcr.NewCodec()
	c.Attach()
	c.SetHalfTrack(36, 7142, 7142)
	payload := counting(3)
	c.EncodeSector(100, payload, gcr.Header{Track: 18, Sector: 4, ID1: '1', ID2: '2'}, gcr.OK)

	pos := c.FindSectorHeader(18, 4, 7142)
	if pos != 110 {
		t.Fatalf("Header position incorrect. exp: 110, got: %d", pos)
	}
	pos = c.FindSectorData(pos, 7142)
	f := c.DecodeSector(pos, 7142)
	expectBytes(t, "Payload", f.Data(), payload)
}
