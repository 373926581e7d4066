/*
NAME
  page.go

DESCRIPTION
  page.go assembles teletext packets addressed to a single page into a
  25x40 character grid: the page header (row 0), text rows (rows 1-23),
  character overlay enhancements (row 26), charset control packets (rows
  28 and 29) and broadcast service data (row 30).

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

import "time"

// PageIdentifier names a teletext page by magazine (1-8) and page number
// (the two BCD digits following it, e.g. page "888" is magazine 8, page
// 0x88). Together they are the 12-bit value (magazine<<8)|page conventional
// teletext page numbers are encoded as.
type PageIdentifier struct {
	Magazine int
	Page     byte
}

// ParsePageNumber decodes a user-supplied decimal page number abc
// (100..899) into the PageIdentifier it names: magazine a, page b*16+c (the
// BCD byte transmitted in the header). It reports false if n is outside the
// valid range.
func ParsePageNumber(n int) (PageIdentifier, bool) {
	if n < 100 || n > 899 {
		return PageIdentifier{}, false
	}
	a, b, c := n/100, (n/10)%10, n%10
	return PageIdentifier{Magazine: a, Page: byte(b<<4 | c)}, true
}

// pageRows is the number of display rows held in a PageBuffer: the header
// (row 0) plus the 24 body text rows (rows 1-24) defined by ETS 300 706.
const pageRows = 25

// pageCols is the number of character cells per display row.
const pageCols = 40

// PrimaryCharsetState tracks the active G0 national subset for a page,
// honouring the precedence defined by ETS 300 706: an X/28 packet
// overrides an M/29 packet, which in turn overrides the subset implied by
// the page header's region bits.
type PrimaryCharsetState struct {
	header int
	m29    *int
	x28    *int
}

// Active returns the currently active national subset id.
func (c *PrimaryCharsetState) Active() int {
	if c.x28 != nil {
		return *c.x28
	}
	if c.m29 != nil {
		return *c.m29
	}
	return c.header
}

// setHeader records the subset implied by a page header's region bits.
func (c *PrimaryCharsetState) setHeader(id int) { c.header = id }

// setM29 records the subset signalled by an M/29 packet.
func (c *PrimaryCharsetState) setM29(id int) { c.m29 = &id }

// setX28 records the subset signalled by an X/28 packet.
func (c *PrimaryCharsetState) setX28(id int) { c.x28 = &id }

// unwritten marks a page cell that has not yet received a character from
// either the X/26 overlay or the row's own text packet, distinguishing it
// from a legitimately transmitted 0x00 (alpha-black) control code.
const unwritten = rune(-1)

// PageBuffer accumulates the packets belonging to a single teletext page
// between consecutive page headers.
type PageBuffer struct {
	ID       PageIdentifier
	Subcode  uint16
	Rows     [pageRows][pageCols]rune
	received [pageRows]bool
	Charset  PrimaryCharsetState
	Erase    bool
	Network  string

	// Tainted is set once a text row (Y=1..23) or an X/26 overlay character
	// has been written, so a page superseded before either arrived isn't
	// emitted as a frame.
	Tainted bool
}

// newPageBuffer returns an empty PageBuffer for id, with every cell marked
// unwritten so that X/26 overlays received ahead of their row (the usual
// ETS 300 706 annex B.2.2 ordering) aren't clobbered by the row's own text.
func newPageBuffer(id PageIdentifier) *PageBuffer {
	pb := &PageBuffer{ID: id}
	for r := range pb.Rows {
		for c := range pb.Rows[r] {
			pb.Rows[r][c] = unwritten
		}
	}
	return pb
}

// headerSubsets maps the 3-bit region code carried by a page header's
// control bits to one of the defined G0 national subsets. Only the first
// seven subsets are reachable directly from the header (region code 7 falls
// back to English); anything more specific requires an M/29 or X/28 packet.
var headerSubsets = [8]int{
	SubsetEnglish,
	SubsetGerman,
	SubsetSwedishFinnishHungarian,
	SubsetItalian,
	SubsetFrench,
	SubsetPortugueseSpanish,
	SubsetCzechSlovak,
	SubsetEnglish,
}

// headerInfo is the content of a Y=0 page header packet, decoded without
// mutating any PageBuffer state so a caller can inspect it (to decide
// whether it starts, continues or terminates the page currently being
// received) before committing it to a buffer.
type headerInfo struct {
	ID      PageIdentifier
	Subcode uint16
	Erase   bool
	Region  int  // Index into headerSubsets.
	Serial  bool // C11: true selects serial transmission mode, false parallel.
}

// decodeHeader decodes a Y=0 header packet's page number, subcode, erase
// flag, national-subset region code (from the control nibble at data[7])
// and transmission mode.
func decodeHeader(pkt *Packet, stats *Stats) (headerInfo, bool) {
	var h headerInfo

	units, ok1 := decodeHamming84(pkt.Data[0])
	tens, ok2 := decodeHamming84(pkt.Data[1])
	if !ok1 || !ok2 {
		stats.Hamming84Errors++
		return h, false
	}
	h.ID = PageIdentifier{Magazine: pkt.Magazine, Page: tens<<4 | units}

	s1, ok1 := decodeHamming84(pkt.Data[2])
	s2, ok2 := decodeHamming84(pkt.Data[3])
	s3, ok3 := decodeHamming84(pkt.Data[4])
	s4, ok4 := decodeHamming84(pkt.Data[5])
	if ok1 && ok2 && ok3 && ok4 {
		h.Subcode = uint16(s1&0x7) | uint16(s2&0x7)<<3 | uint16(s3&0xf)<<6 | uint16(s4&0x3)<<10
		h.Erase = s1&0x8 != 0
	} else {
		stats.Hamming84Errors++
	}

	ctrl, ok := decodeHamming84(pkt.Data[7])
	if ok {
		h.Region = int(ctrl>>1) & 0x7
		h.Serial = ctrl&0x1 != 0
	} else {
		stats.Hamming84Errors++
	}
	return h, true
}

// applyHeader decodes a Y=0 header packet, setting the page number,
// subcode, erase flag and header-level charset guess.
func (pb *PageBuffer) applyHeader(pkt *Packet, stats *Stats) {
	h, ok := decodeHeader(pkt, stats)
	if !ok {
		return
	}
	pb.ID.Page = h.ID.Page
	pb.Subcode = h.Subcode
	pb.Erase = h.Erase
	pb.Charset.setHeader(headerSubsets[h.Region])

	writeG0Row(&pb.Rows[RowHeader], pkt.Data[8:40], pb.Charset.Active(), stats, false)
	pb.received[RowHeader] = true
}

// applyTextRow decodes a Y=1..23 display-text packet.
func (pb *PageBuffer) applyTextRow(pkt *Packet, stats *Stats) {
	if pkt.Row < 1 || pkt.Row > 23 {
		return
	}
	writeG0Row(&pb.Rows[pkt.Row], pkt.Data[:pageCols], pb.Charset.Active(), stats, true)
	pb.received[pkt.Row] = true
	pb.Tainted = true
}

// writeG0Row decodes 40 (or fewer) odd-parity G0 bytes from src into dst,
// applying the active national subset. Control codes (values below 0x20)
// are passed through unparitied so the frame formatter can recognise
// spacing attributes and box controls. When preserveOverlay is true, a
// destination cell already holding a value other than unwritten (i.e. one
// placed by an X/26 overlay received ahead of this row) is left untouched.
func writeG0Row(dst *[pageCols]rune, src []byte, subset int, stats *Stats, preserveOverlay bool) {
	for i := 0; i < len(src) && i < pageCols; i++ {
		if preserveOverlay && dst[i] != unwritten {
			continue
		}
		c, ok := decodeParity(src[i])
		if !ok {
			stats.ParityErrors++
			dst[i] = ' '
			continue
		}
		if c < 0x20 {
			dst[i] = rune(c)
			continue
		}
		dst[i] = G0(subset, c)
	}
}

// X/26 enhancement triplet mode values relevant to caption overlay.
const (
	modeRowAddress  = 0x04 // row-address-group: set the active row.
	modeG2Character = 0x0f // not row-address-group: a direct G2 character.
	modeAccentLow   = 0x11 // 0x11-0x1f: a termination marker in a row-address-group
	modeAccentHigh  = 0x1f // triplet, otherwise a diacritical composition.
)

// applyOverlay decodes a Y=26 enhancement packet: 13 Hamming 24/18 triplets
// from data[1..40] that address individual cells of the page by tracking an
// active (row, col) position, composing G2 characters and diacritical marks
// onto it. pkt.Data[0] carries the packet's designation code, which every
// defined triplet mode below treats identically for caption purposes.
func (pb *PageBuffer) applyOverlay(pkt *Packet, stats *Stats) {
	row, col := -1, 0
	for i := 1; i+2 < len(pkt.Data); i += 3 {
		raw := uint32(pkt.Data[i]) | uint32(pkt.Data[i+1])<<8 | uint32(pkt.Data[i+2])<<16
		payload, ok := decodeHamming2418(raw)
		if !ok {
			stats.Hamming2418Errors++
			continue
		}

		address := int(payload & 0x3f)
		mode := int((payload >> 6) & 0x1f)
		data := byte((payload >> 11) & 0x7f)
		rowGroup := address >= 40 && address <= 63

		switch {
		case mode == modeRowAddress && rowGroup:
			r := address - 40
			if r == 0 {
				r = 24
			}
			row, col = r, 0

		case mode >= modeAccentLow && mode <= modeAccentHigh && rowGroup:
			return // termination marker.

		case mode == modeG2Character && !rowGroup:
			col = address
			if row < 1 || row >= pageRows || col >= pageCols {
				continue
			}
			if data > 31 {
				pb.Rows[row][col] = G2(data)
				pb.Tainted = true
			}

		case mode >= modeAccentLow && mode <= modeAccentHigh && !rowGroup:
			col = address
			if row < 1 || row >= pageRows || col >= pageCols {
				continue
			}
			if letter, ok := overlayLetter(data); ok {
				pb.Rows[row][col] = Accent(letter, byte(0x41+(mode-modeAccentLow)))
			} else if c, ok := decodeParity(data); ok {
				pb.Rows[row][col] = G0(pb.Charset.Active(), c)
			} else {
				stats.ParityErrors++
				pb.Rows[row][col] = ' '
			}
			pb.Tainted = true
		}
	}
}

// overlayLetter reports whether data is one of the 52 Latin letters (A-Z,
// a-z) eligible for diacritical composition under X/26, returning it as a
// rune if so.
func overlayLetter(data byte) (rune, bool) {
	if data >= 'A' && data <= 'Z' || data >= 'a' && data <= 'z' {
		return rune(data), true
	}
	return 0, false
}

// applyX28 decodes a Y=28 page function packet (designation code 0 or 4),
// updating the page-level charset override.
func (pb *PageBuffer) applyX28(pkt *Packet, stats *Stats) {
	designation, ok := decodeHamming84(pkt.Data[0])
	if !ok || (designation != 0 && designation != 4) {
		return
	}
	id, ok := subsetFromTriplet(pkt.Data[1:4], stats)
	if ok {
		pb.Charset.setX28(id)
	}
}

// applyM29 decodes a Y=29 magazine function packet (designation code 0 or
// 4), updating the magazine-wide charset default.
func (pb *PageBuffer) applyM29(pkt *Packet, stats *Stats) {
	designation, ok := decodeHamming84(pkt.Data[0])
	if !ok || (designation != 0 && designation != 4) {
		return
	}
	id, ok := subsetFromTriplet(pkt.Data[1:4], stats)
	if ok {
		pb.Charset.setM29(id)
	}
}

// subsetFromTriplet decodes a Hamming 24/18 triplet carrying a national
// option subset id in its low 7 bits.
func subsetFromTriplet(b []byte, stats *Stats) (int, bool) {
	if len(b) < 3 {
		return 0, false
	}
	raw := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
	payload, ok := decodeHamming2418(raw)
	if !ok {
		stats.Hamming2418Errors++
		return 0, false
	}
	id := int(payload & 0x7f)
	if id < 0 || id >= numSubsets {
		stats.noteUnknownCharset(id)
		return 0, false
	}
	return id, true
}

// applyBSD decodes a Y=30 broadcast service data packet: the network name
// (format 1, designation 0, bytes 21-40) for diagnostics, and the 7-byte
// Modified Julian Day + BCD UTC time + local time offset (bytes 11-17) that
// anchors search-engine mode's UTC reference, latched once per stream.
func (pb *PageBuffer) applyBSD(pkt *Packet, stats *Stats) {
	designation, ok := decodeHamming84(pkt.Data[0])
	if !ok || designation != 0 {
		return
	}
	var name [pageCols]rune
	writeG0Row(&name, pkt.Data[20:40], SubsetEnglish, stats, false)
	runes := make([]rune, 0, len(name))
	for _, r := range name {
		if r != 0 {
			runes = append(runes, r)
		}
	}
	pb.Network = trimSpaceRunes(runes)

	if t, ok := decodeBSDTime(pkt.Data[10:17]); ok {
		stats.noteBSDTime(t)
	}
}

// decodeBSDTime decodes the 7-byte Modified Julian Day + BCD local time +
// local time offset field of a Y=30 format 1 packet (ETS 300 706 §9.8.1):
// 3 bytes of unprotected BCD-packed MJD, 3 bytes of BCD hour/minute/second,
// and 1 byte giving the local time offset in units of 15 minutes (bit 7 the
// sign). The returned time is the UTC equivalent, local time less the
// offset.
func decodeBSDTime(b []byte) (time.Time, bool) {
	if len(b) < 7 {
		return time.Time{}, false
	}
	bcd := func(v byte) (int, bool) {
		hi, lo := int(v>>4), int(v&0xf)
		if hi > 9 || lo > 9 {
			return 0, false
		}
		return hi*10 + lo, true
	}

	mjd := int(b[0]&0xf)*10000 + int(b[1]>>4)*1000 + int(b[1]&0xf)*100 + int(b[2]>>4)*10 + int(b[2]&0xf)
	if mjd == 0 {
		return time.Time{}, false
	}
	hh, okH := bcd(b[3])
	mm, okM := bcd(b[4])
	ss, okS := bcd(b[5])
	if !okH || !okM || !okS || hh > 23 || mm > 59 || ss > 59 {
		return time.Time{}, false
	}

	sign := 1
	if b[6]&0x80 != 0 {
		sign = -1
	}
	offset := time.Duration(sign*int(b[6]&0x7f)) * 15 * time.Minute

	date := mjdToDate(mjd)
	return time.Date(date.Year(), date.Month(), date.Day(), hh, mm, ss, 0, time.UTC).Add(-offset), true
}

// mjdToDate converts a Modified Julian Day number to a Gregorian calendar
// date, per the Fliegel & Van Flandern integer Julian-day algorithm.
func mjdToDate(mjd int) time.Time {
	l := mjd + 2400001 + 68569
	n := 4 * l / 146097
	l = l - (146097*n+3)/4
	i := 4000 * (l + 1) / 1461001
	l = l - 1461*i/4 + 31
	j := 80 * l / 2447
	k := l - 2447*j/80
	l = j / 11
	j = j + 2 - 12*l
	i = 100*(n-49) + i + l
	return time.Date(i, time.Month(j), k, 0, 0, 0, 0, time.UTC)
}

// trimSpaceRunes trims leading and trailing ASCII spaces from r.
func trimSpaceRunes(r []rune) string {
	start, end := 0, len(r)
	for start < end && r[start] == ' ' {
		start++
	}
	for end > start && r[end-1] == ' ' {
		end--
	}
	return string(r[start:end])
}

// Apply dispatches pkt to the appropriate row handler.
func (pb *PageBuffer) Apply(pkt *Packet, stats *Stats) {
	switch {
	case pkt.Row == RowHeader:
		pb.applyHeader(pkt, stats)
	case pkt.Row >= 1 && pkt.Row <= 23:
		pb.applyTextRow(pkt, stats)
	case pkt.Row == RowOverlay:
		pb.applyOverlay(pkt, stats)
	case pkt.Row == RowX28:
		pb.applyX28(pkt, stats)
	case pkt.Row == RowM29:
		pb.applyM29(pkt, stats)
	case pkt.Row == RowBSD:
		pb.applyBSD(pkt, stats)
	}
}
