/*
DESCRIPTION
  options.go provides option functions that can be passed to NewDemuxer for
  demuxer configuration, including explicit PID selection, M2TS handling and
  logging.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mts

import "github.com/ausocean/utils/logging"

// Option configures a Demuxer.
type Option func(*Demuxer)

// WithPID forces the Demuxer to treat pid as the teletext elementary stream,
// bypassing PAT/PMT based discovery. Useful when d is fed a raw elementary
// stream, or a PMT whose teletext descriptor isn't recognised. The value
// 0x2000 selects the first PID that carries a Private Stream 1 PES header.
func WithPID(pid uint16) Option {
	return func(d *Demuxer) {
		d.pid = pid
		d.havePID = true
	}
}

// WithM2TS configures the Demuxer to expect BDAV M2TS packets, i.e. 192-byte
// packets each prefixed by a 4-byte copy permission/timecode field ahead of
// the 188-byte MPEG-TS packet, rather than detecting this automatically.
func WithM2TS(m2ts bool) Option {
	return func(d *Demuxer) { d.m2ts, d.autoM2TS = m2ts, false }
}

// WithLogger sets the logger used to report discontinuities, sync loss and
// other stream anomalies encountered while demuxing. Without this option,
// nothing is logged.
func WithLogger(l logging.Logger) Option {
	return func(d *Demuxer) { d.log = l }
}
