/*
NAME
  packet.go

DESCRIPTION
  packet.go decodes the 44-byte teletext data block (ETS 300 706 / EN 300
  472) that follows the data_unit_id and data_unit_length bytes of a PES
  private-data payload, recovering the magazine/row address (MRAG) and the
  40 bytes of packet data that follow it.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package teletext

import "github.com/pkg/errors"

// Data unit identifiers, as carried in the first byte of each teletext data
// block within a PES private-data payload.
const (
	DataUnitEBUTeletextNonSubtitle = 0x02
	DataUnitEBUTeletextSubtitle    = 0x03
	DataUnitStuffing               = 0xff
)

// dataBlockLen is the length of the teletext data block following the
// data_unit_id and data_unit_length bytes.
const dataBlockLen = 44

// FramingCode is the fixed synchronisation byte (before bit reversal) that
// begins every teletext data block, immediately following the
// reserved/field-parity/line-offset byte.
const FramingCode = 0xe4

// Row designations with special meaning beyond plain display rows.
const (
	RowHeader   = 0
	RowOverlay  = 26
	RowX28      = 28
	RowM29      = 29
	RowBSD      = 30
)

// Errors returned by DecodePacket.
var (
	ErrShortDataBlock = errors.New("teletext data block too short")
	ErrBadMRAG        = errors.New("uncorrectable magazine/row address group")
)

// Packet is a single decoded teletext packet: a magazine/row address and the
// 40 bytes of packet data that follow it. Data has not yet had Hamming 8/4,
// Hamming 24/18 or parity decoding applied; that's the responsibility of
// the handler selected for Row.
type Packet struct {
	Magazine int      // 1-8.
	Row      int      // 0-31.
	Data     [40]byte // Packet payload, bit order already corrected.
}

// DecodePacket decodes a teletext data block. b must hold at least
// dataBlockLen bytes, starting at the reserved/field-parity/line-offset
// byte (i.e. with the data_unit_id and data_unit_length already consumed).
func DecodePacket(b []byte, stats *Stats) (*Packet, error) {
	if len(b) < dataBlockLen {
		return nil, ErrShortDataBlock
	}

	var block [dataBlockLen]byte
	copy(block[:], b[:dataBlockLen])
	reverseBytes(block[:])

	// block[0] is reserved/field-parity/line-offset, and block[1] holds the
	// framing code (FramingCode before reversal); neither carries information needed for caption decoding,
	// so we don't require the framing code to match.

	m1, ok1 := decodeHamming84(block[2])
	m2, ok2 := decodeHamming84(block[3])
	if !ok1 || !ok2 {
		if stats != nil {
			stats.Hamming84Errors++
		}
		return nil, ErrBadMRAG
	}

	magazine := int(m1 & 0x7)
	if magazine == 0 {
		magazine = 8
	}
	row := int(m1>>3) | int(m2)<<1

	pkt := &Packet{Magazine: magazine, Row: row}
	copy(pkt.Data[:], block[4:44])
	return pkt, nil
}
