/*
NAME
  decode.go

DESCRIPTION
  decode.go parses a 188-byte MPEG-TS packet from the wire into the Packet
  struct defined in mpegts.go, for use by decoding
  pipelines such as the teletext demultiplexer.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mts

import "github.com/pkg/errors"

// SyncByte is the fixed first octet of every MPEG-TS packet.
const SyncByte = 0x47

// Errors returned by ParsePacket.
var (
	ErrShortPacket = errors.New("buffer shorter than a full MPEG-TS packet")
	ErrBadSync     = errors.New("packet does not begin with the sync byte")
)

// ParsePacket decodes a single 188-byte MPEG-TS packet from buf, which must
// hold at least PacketSize bytes beginning with the sync byte.
func ParsePacket(buf []byte) (*Packet, error) {
	if len(buf) < PacketSize {
		return nil, ErrShortPacket
	}
	if buf[0] != SyncByte {
		return nil, ErrBadSync
	}

	p := &Packet{
		TEI:      buf[1]&0x80 != 0,
		PUSI:     buf[1]&0x40 != 0,
		Priority: buf[1]&0x20 != 0,
		PID:      uint16(buf[1]&0x1f)<<8 | uint16(buf[2]),
		TSC:      buf[3] >> 6 & 0x3,
		AFC:      buf[3] >> 4 & 0x3,
		CC:       buf[3] & 0xf,
	}

	i := HeadSize
	if p.AFC&HasAdaptationField != 0 {
		afl := int(buf[AdaptationIdx])
		afStart := AdaptationFieldsIdx
		if afl > 0 {
			flags := buf[afStart]
			p.DI = flags&0x80 != 0
			p.RAI = flags&0x40 != 0
			p.ESPI = flags&0x20 != 0
			p.PCRF = flags&0x10 != 0
			p.OPCRF = flags&0x08 != 0
			p.SPF = flags&0x04 != 0
			p.TPDF = flags&0x02 != 0
			p.AFEF = flags&0x01 != 0

			j := afStart + 1
			if p.PCRF {
				p.PCR = parsePCR(buf[j : j+6])
				j += 6
			}
			if p.OPCRF {
				p.OPCR = parsePCR(buf[j : j+6])
				j += 6
			}
			if p.SPF {
				p.SC = buf[j]
				j++
			}
			if p.TPDF {
				p.TPDL = buf[j]
				j++
				p.TPD = append([]byte(nil), buf[j:j+int(p.TPDL)]...)
				j += int(p.TPDL)
			}
			if p.AFEF {
				extLen := int(buf[j])
				p.Ext = append([]byte(nil), buf[j:j+1+extLen]...)
			}
		}
		i = AdaptationIdx + 1 + afl
	}

	if p.AFC&HasPayload != 0 && i < PacketSize {
		p.Payload = append([]byte(nil), buf[i:PacketSize]...)
	}

	return p, nil
}

// parsePCR decodes the 48-bit program clock reference field into a 27MHz
// tick count: base (33 bits, 90kHz) * 300 + extension (9 bits, 27MHz).
func parsePCR(b []byte) uint64 {
	base := uint64(b[0])<<25 | uint64(b[1])<<17 | uint64(b[2])<<9 | uint64(b[3])<<1 | uint64(b[4])>>7
	ext := uint64(b[4]&0x1)<<8 | uint64(b[5])
	return base*300 + ext
}
