/*
NAME
  teletext.go

DESCRIPTION
  teletext.go scans a program mapping table for elementary streams carrying
  DVB teletext, reading the section through the PMT byte layout constants
  of psi.go: stream_type 0x06 entries descriptored with the teletext (0x45),
  VBI teletext (0x46) or teletext subtitling (0x56) tags.

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

import "errors"

// Descriptor tags identifying a teletext elementary stream, per ETS 300 468.
const (
	TeletextDescTag    = 0x45
	VBITeletextDescTag = 0x46
	TeletextSubDescTag = 0x56
)

// PrivateDataStreamType is the stream_type value used by DVB teletext and
// other PES private-data elementary streams.
const PrivateDataStreamType = 0x06

// TeletextStream describes a single elementary stream found in a PMT that
// carries DVB teletext.
type TeletextStream struct {
	PID uint16
	Tag byte // Which of the three descriptor tags identified the stream.
}

// Errors returned by TeletextStreams.
var (
	ErrShortPMT = errors.New("pmt section too short")
)

// TeletextStreams walks the elementary stream loop of a PMT section p (a
// complete PSI section, pointer field included) and returns every stream
// that carries teletext content.
func TeletextStreams(p PSIBytes) ([]TeletextStream, error) {
	if len(p) < DescriptorsIdx+crcSize {
		return nil, ErrShortPMT
	}

	sectionLen := SyntaxSecLenFrom(p)
	sectionEnd := 4 + sectionLen // sectionLen counts from right after the 2-byte length field.
	if sectionEnd > len(p) {
		sectionEnd = len(p)
	}

	progInfoLen := p.ProgramInfoLen()
	i := DescriptorsIdx + progInfoLen

	var out []TeletextStream
	for i+ESSDataLen <= sectionEnd-crcSize {
		streamType := p[i]
		pid := uint16(p[i+1]&0x1f)<<8 | uint16(p[i+2])
		esInfoLen := int(uint16(p[i+3]&0x3)<<8 | uint16(p[i+4]))

		descStart := i + ESSDataLen
		descEnd := descStart + esInfoLen
		if descEnd > len(p) {
			break
		}

		if streamType == PrivateDataStreamType {
			if tag, ok := hasTeletextDescriptor(p[descStart:descEnd]); ok {
				out = append(out, TeletextStream{PID: pid, Tag: tag})
			}
		}

		i = descEnd
	}

	return out, nil
}

// hasTeletextDescriptor scans a run of descriptors for one of the teletext
// tags, returning the tag found.
func hasTeletextDescriptor(descs []byte) (byte, bool) {
	for i := 0; i+DescDefLen <= len(descs); {
		tag := descs[i]
		l := int(descs[i+1])
		switch tag {
		case TeletextDescTag, VBITeletextDescTag, TeletextSubDescTag:
			return tag, true
		}
		i += DescDefLen + l
	}
	return 0, false
}
