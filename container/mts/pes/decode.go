/*
NAME
  decode.go

DESCRIPTION
  decode.go parses a PES packet header from the wire into the Packet struct
  defined in pes.go.

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

import "github.com/pkg/errors"

// PTS/DTS indicator values for the PDI field.
const (
	pdiNone   = 0x0
	pdiPTS    = 0x2
	pdiPTSDTS = 0x3
)

// Errors returned by Parse.
var (
	ErrShortHeader  = errors.New("buffer too short for a PES header")
	ErrBadStartCode = errors.New("buffer does not begin with the PES start code")
)

// Parse decodes a PES packet header (and whatever of its payload is
// present in buf) into a Packet. buf must begin with the start code prefix
// 0x00 0x00 0x01.
func Parse(buf []byte) (*Packet, error) {
	if len(buf) < 9 {
		return nil, ErrShortHeader
	}
	if buf[0] != 0x00 || buf[1] != 0x00 || buf[2] != 0x01 {
		return nil, ErrBadStartCode
	}

	p := &Packet{
		StreamID: buf[3],
		Length:   uint16(buf[4])<<8 | uint16(buf[5]),
	}

	flags1 := buf[6]
	p.SC = flags1 >> 4 & 0x3
	p.Priority = flags1&0x08 != 0
	p.DAI = flags1&0x04 != 0
	p.Copyright = flags1&0x02 != 0
	p.Original = flags1&0x01 != 0

	flags2 := buf[7]
	p.PDI = flags2 >> 6 & 0x3
	p.ESCRF = flags2&0x20 != 0
	p.ESRF = flags2&0x10 != 0
	p.DSMTMF = flags2&0x08 != 0
	p.ACIF = flags2&0x04 != 0
	p.CRCF = flags2&0x02 != 0
	p.EF = flags2&0x01 != 0

	p.HeaderLength = buf[8]

	const headerFixedLen = 9
	end := headerFixedLen + int(p.HeaderLength)
	if end > len(buf) {
		return nil, ErrShortHeader
	}

	optional := buf[headerFixedLen:end]
	i := 0
	switch p.PDI {
	case pdiPTS:
		if len(optional) < i+5 {
			return nil, ErrShortHeader
		}
		p.PTS = decodeTimestamp(optional[i : i+5])
		i += 5
	case pdiPTSDTS:
		if len(optional) < i+10 {
			return nil, ErrShortHeader
		}
		p.PTS = decodeTimestamp(optional[i : i+5])
		p.DTS = decodeTimestamp(optional[i+5 : i+10])
		i += 10
	}

	p.Data = append([]byte(nil), buf[end:]...)
	return p, nil
}

// decodeTimestamp decodes a 5-byte PTS or DTS field into a 33-bit value.
func decodeTimestamp(b []byte) uint64 {
	return (uint64(b[0]>>1&0x07) << 30) |
		(uint64(b[1]) << 22) |
		(uint64(b[2]>>1&0x7f) << 15) |
		(uint64(b[3]) << 7) |
		(uint64(b[4] >> 1 & 0x7f))
}
