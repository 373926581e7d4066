/*
NAME
  clock.go

DESCRIPTION
  clock.go reconciles the 33-bit, 90kHz presentation timestamps carried by
  PES packets into a monotonic, zero-based time base suitable for SRT frame
  timing, handling the wraparound that occurs roughly every 26.5 hours.

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

// Time-related constants shared with the container/mts PES/PCR timestamp
// representation.
const (
	// PTSFrequency is the presentation timestamp clock frequency in Hz.
	PTSFrequency = 90000

	// MaxPTS is the largest value a 33-bit PTS field can hold.
	MaxPTS = (1 << 33) - 1

	// wrapThreshold is the minimum backward jump in a PTS value, relative
	// to the last seen value, that is treated as a clock wraparound rather
	// than an out-of-order or repeated timestamp.
	wrapThreshold = MaxPTS / 2
)

// Clock converts the raw PTS values seen in a stream into a monotonically
// increasing time base, with zero corresponding to the first PTS observed.
type Clock struct {
	have    bool
	base    uint64 // First PTS observed.
	last    uint64 // Last raw PTS observed, pre-wrap accounting.
	wraps   uint64 // Number of wraps accounted for so far.
}

// NewClock returns a Clock ready to reconcile a new PTS sequence.
func NewClock() *Clock { return &Clock{} }

// Resolve accepts a raw 33-bit PTS value and returns the elapsed duration
// since the first PTS passed to Resolve.
func (c *Clock) Resolve(pts uint64) time.Duration {
	pts &= MaxPTS

	if !c.have {
		c.have = true
		c.base = pts
		c.last = pts
		return 0
	}

	// A large backward jump indicates the 33-bit counter has wrapped.
	if c.last > pts && c.last-pts > wrapThreshold {
		c.wraps++
	}
	c.last = pts

	absolute := c.wraps*(MaxPTS+1) + pts
	baseline := c.base
	if absolute < baseline {
		// The first sample itself was close to a wrap boundary and this
		// sample precedes it once unwrapped; clamp to zero rather than
		// go negative.
		return 0
	}

	ticks := absolute - baseline
	return time.Duration(ticks) * time.Second / PTSFrequency
}
