/*
NAME
  options.go

DESCRIPTION
  options.go provides option functions that can be passed to NewDecoder for
  decoder configuration: elementary stream selection, page filtering, output
  styling and logging.

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

import (
	"github.com/ausocean/ttxt2srt/container/mts"
	"github.com/ausocean/utils/logging"
)

// Option configures a Decoder.
type Option func(*Decoder)

// WithPID forces the decoder to treat pid as the teletext elementary stream,
// bypassing PAT/PMT based discovery.
func WithPID(pid uint16) Option {
	return func(d *Decoder) { d.demuxOpts = append(d.demuxOpts, mts.WithPID(pid)) }
}

// WithM2TS configures the decoder to expect BDAV M2TS framing rather than
// detecting it automatically.
func WithM2TS(m2ts bool) Option {
	return func(d *Decoder) { d.demuxOpts = append(d.demuxOpts, mts.WithM2TS(m2ts)) }
}

// WithMagazine restricts decoding to the given magazine (1-8). The zero
// value, the default, decodes every magazine.
func WithMagazine(mag int) Option {
	return func(d *Decoder) { d.magazine = mag }
}

// WithPage fixes the page the decoder follows, bypassing automatic
// adoption of the first subtitle page encountered. Use ParsePageNumber to
// construct id from a user-supplied decimal page number.
func WithPage(id PageIdentifier) Option {
	return func(d *Decoder) { d.target, d.targetSet = id, true }
}

// WithColour enables rendering of spacing-attribute colour codes as
// <font color="..."> spans around caption text.
func WithColour(colour bool) Option {
	return func(d *Decoder) { d.colour = colour }
}

// WithLogger sets the logger used to report stream anomalies encountered
// while decoding. Without this option, nothing is logged.
func WithLogger(l logging.Logger) Option {
	return func(d *Decoder) { d.log = l }
}

// nopLogger is the default Decoder logger, discarding everything.
type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{})   {}
func (nopLogger) Info(string, ...interface{})    {}
func (nopLogger) Warning(string, ...interface{}) {}
func (nopLogger) Error(string, ...interface{})   {}
func (nopLogger) Fatal(string, ...interface{})   {}
