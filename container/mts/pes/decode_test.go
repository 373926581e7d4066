/*
NAME
  decode_test.go

DESCRIPTION
  decode_test.go tests PES header parsing, including 33-bit PTS timestamp
  decoding, in decode.go.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pes

import (
	"bytes"
	"testing"
)

// encodeTimestamp is the inverse of decodeTimestamp, used to build test
// fixtures: v must be a 33-bit PTS/DTS value.
func encodeTimestamp(v uint64) [5]byte {
	var b [5]byte
	b[0] = byte((v >> 30 & 0x7) << 1)
	b[1] = byte(v >> 22)
	b[2] = byte((v >> 15 & 0x7f) << 1)
	b[3] = byte(v >> 7)
	b[4] = byte((v & 0x7f) << 1)
	return b
}

func TestParsePTSOnly(t *testing.T) {
	const pts = uint64(90000)
	ts := encodeTimestamp(pts)

	buf := []byte{0x00, 0x00, 0x01, PrivateStream1SID, 0x03, 0xe8, 0x00, 0x80, 0x05}
	buf = append(buf, ts[:]...)
	buf = append(buf, 0xaa, 0xbb)

	p, err := Parse(buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.StreamID != PrivateStream1SID {
		t.Errorf("StreamID = %#02x, want %#02x", p.StreamID, PrivateStream1SID)
	}
	if p.Length != 1000 {
		t.Errorf("Length = %d, want 1000", p.Length)
	}
	if p.PDI != pdiPTS {
		t.Errorf("PDI = %d, want %d", p.PDI, pdiPTS)
	}
	if p.PTS != pts {
		t.Errorf("PTS = %d, want %d", p.PTS, pts)
	}
	if !bytes.Equal(p.Data, []byte{0xaa, 0xbb}) {
		t.Errorf("Data = %v, want [0xaa 0xbb]", p.Data)
	}
}

func TestParseNoTimestamp(t *testing.T) {
	buf := []byte{0x00, 0x00, 0x01, PrivateStream1SID, 0x00, 0x05, 0x00, 0x00, 0x00, 0x01, 0x02}
	p, err := Parse(buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.PDI != pdiNone {
		t.Errorf("PDI = %d, want %d", p.PDI, pdiNone)
	}
	if !bytes.Equal(p.Data, []byte{0x01, 0x02}) {
		t.Errorf("Data = %v, want [0x01 0x02]", p.Data)
	}
}

func TestParseBadStartCode(t *testing.T) {
	buf := []byte{0x00, 0x00, 0x02, PrivateStream1SID, 0, 0, 0, 0, 0}
	if _, err := Parse(buf); err != ErrBadStartCode {
		t.Errorf("Parse with bad start code error = %v, want ErrBadStartCode", err)
	}
}

func TestParseShortHeader(t *testing.T) {
	if _, err := Parse([]byte{0x00, 0x00, 0x01}); err != ErrShortHeader {
		t.Errorf("Parse with short buffer error = %v, want ErrShortHeader", err)
	}

	// HeaderLength declares more optional bytes than are actually present.
	buf := []byte{0x00, 0x00, 0x01, PrivateStream1SID, 0, 0, 0, 0x80, 0x05, 0x00}
	if _, err := Parse(buf); err != ErrShortHeader {
		t.Errorf("Parse with truncated optional header error = %v, want ErrShortHeader", err)
	}
}
