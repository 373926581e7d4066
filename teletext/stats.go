/*
NAME
  stats.go

DESCRIPTION
  stats.go defines the diagnostic counters accumulated while decoding,
  surfaced to callers so that a noisy or damaged recording can be
  distinguished from a clean one without re-running with verbose logging.

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

// Stats accumulates diagnostic counters over a single call to Decoder.Decode. All
// fields are safe to read once decoding has finished; a Decoder does not
// update Stats concurrently with itself.
type Stats struct {
	// SyncLosses counts the number of times the demultiplexer had to
	// resynchronise on the 0x47 sync byte after losing packet alignment.
	SyncLosses int

	// ContinuityErrors counts transport-stream continuity counter
	// discontinuities observed on the PIDs being tracked.
	ContinuityErrors int

	// TransportErrors counts packets dropped because the transport error
	// indicator bit was set.
	TransportErrors int

	// Hamming84Errors counts Hamming 8/4 bytes that could not be corrected.
	Hamming84Errors int

	// Hamming2418Errors counts Hamming 24/18 triplets that could not be
	// corrected.
	Hamming2418Errors int

	// ParityErrors counts G0 text bytes that failed the odd-parity check.
	ParityErrors int

	// UnknownCharsets counts the distinct national subset ids encountered
	// that have no defined mapping; the overlay in effect is left
	// untouched rather than defaulted, and each id is only counted once.
	UnknownCharsets int

	// CCMap records, for diagnostic purposes, the magazine/page identifier
	// of every page header decoded, whatever its data-unit type, mapped to
	// the number of headers seen.
	CCMap map[PageIdentifier]int

	// CCBitmap is a 256-byte bitmap indexed by page-number LSB (the BCD
	// page byte), with bit (magazine-1) set whenever a header for that
	// page/magazine combination carried the subtitle data-unit type.
	CCBitmap [256]byte

	// BSDTime is the UTC reference decoded from the stream's broadcast
	// service data (Y=30) packet, zero if the stream carried none or none
	// decoded cleanly. Only the first one seen is kept.
	BSDTime time.Time

	seenUnknownCharsets map[int]bool
}

// newStats returns a Stats with its maps initialised.
func newStats() *Stats {
	return &Stats{CCMap: make(map[PageIdentifier]int)}
}

// noteUnknownCharset records an unrecognised national subset id, counting it
// in UnknownCharsets only the first time it's seen.
func (s *Stats) noteUnknownCharset(id int) {
	if s.seenUnknownCharsets == nil {
		s.seenUnknownCharsets = make(map[int]bool)
	}
	if s.seenUnknownCharsets[id] {
		return
	}
	s.seenUnknownCharsets[id] = true
	s.UnknownCharsets++
}

// noteBSDTime records t as the stream's UTC reference, ignoring every call
// after the first so that only the stream's earliest broadcast service data
// packet governs it.
func (s *Stats) noteBSDTime(t time.Time) {
	if !s.BSDTime.IsZero() {
		return
	}
	s.BSDTime = t
}

// observePage records that a page with identifier id was received.
func (s *Stats) observePage(id PageIdentifier) {
	if s.CCMap == nil {
		s.CCMap = make(map[PageIdentifier]int)
	}
	s.CCMap[id]++
}

// markSubtitle records, in CCBitmap, that id's page number was carried by a
// subtitle (as opposed to non-subtitle) teletext data unit.
func (s *Stats) markSubtitle(id PageIdentifier, subtitle bool) {
	if !subtitle || id.Magazine < 1 || id.Magazine > 8 {
		return
	}
	s.CCBitmap[id.Page] |= 1 << uint(id.Magazine-1)
}
