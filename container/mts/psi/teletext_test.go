/*
NAME
  teletext_test.go

DESCRIPTION
  teletext_test.go tests TeletextStreams against hand-built PMT sections.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package psi

import "testing"

// pmtWithStream builds a minimal PMT section with a single elementary stream
// entry: streamType, pid, and one descriptor (descTag, with no descriptor
// bytes of its own).
func pmtWithStream(streamType byte, pid uint16, descTag byte) PSIBytes {
	p := make([]byte, 24)
	p[1] = 0x02 // table_id: PMT.
	p[3] = 20   // section_length (low byte; SyntaxSecLenMask1 keeps p[2]'s low 2 bits, here 0).

	// p[4..10]: program_number, version/current-next, section numbers, PCR_PID.
	// p[11..12]: program_info_length = 0 (no program-level descriptors).

	i := DescriptorsIdx // 13
	p[i] = streamType
	p[i+1] = byte(pid >> 8 & 0x1f)
	p[i+2] = byte(pid)
	const esInfoLen = 2
	p[i+3] = esInfoLen >> 8 & 0x3
	p[i+4] = esInfoLen
	p[i+5] = descTag
	p[i+6] = 0 // Descriptor length: no descriptor-specific bytes.
	// p[20..23]: CRC, unchecked by TeletextStreams.
	return PSIBytes(p)
}

func TestTeletextStreamsFindsTeletextDescriptor(t *testing.T) {
	p := pmtWithStream(PrivateDataStreamType, 0x150, TeletextDescTag)
	streams, err := TeletextStreams(p)
	if err != nil {
		t.Fatalf("TeletextStreams: %v", err)
	}
	if len(streams) != 1 {
		t.Fatalf("TeletextStreams returned %d streams, want 1", len(streams))
	}
	if streams[0].PID != 0x150 {
		t.Errorf("PID = %#x, want %#x", streams[0].PID, 0x150)
	}
	if streams[0].Tag != TeletextDescTag {
		t.Errorf("Tag = %#x, want %#x", streams[0].Tag, TeletextDescTag)
	}
}

func TestTeletextStreamsRecognisesAllTags(t *testing.T) {
	for _, tag := range []byte{TeletextDescTag, VBITeletextDescTag, TeletextSubDescTag} {
		p := pmtWithStream(PrivateDataStreamType, 0x200, tag)
		streams, err := TeletextStreams(p)
		if err != nil {
			t.Fatalf("TeletextStreams: %v", err)
		}
		if len(streams) != 1 || streams[0].Tag != tag {
			t.Errorf("tag %#x: streams = %v, want one stream tagged %#x", tag, streams, tag)
		}
	}
}

func TestTeletextStreamsIgnoresNonTeletextStream(t *testing.T) {
	// An audio stream (stream_type 0x04) with an unrelated descriptor tag.
	p := pmtWithStream(0x04, 0x151, 0x0a)
	streams, err := TeletextStreams(p)
	if err != nil {
		t.Fatalf("TeletextStreams: %v", err)
	}
	if len(streams) != 0 {
		t.Errorf("TeletextStreams = %v, want none", streams)
	}
}

func TestTeletextStreamsIgnoresPrivateStreamWithoutTeletextDescriptor(t *testing.T) {
	// stream_type 0x06 but a descriptor tag that isn't one of the teletext tags.
	p := pmtWithStream(PrivateDataStreamType, 0x152, 0x0a)
	streams, err := TeletextStreams(p)
	if err != nil {
		t.Fatalf("TeletextStreams: %v", err)
	}
	if len(streams) != 0 {
		t.Errorf("TeletextStreams = %v, want none", streams)
	}
}

func TestTeletextStreamsShortPMT(t *testing.T) {
	if _, err := TeletextStreams(make(PSIBytes, 5)); err != ErrShortPMT {
		t.Errorf("TeletextStreams with short buffer error = %v, want ErrShortPMT", err)
	}
}
