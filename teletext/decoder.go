/*
NAME
  decoder.go

DESCRIPTION
  decoder.go provides the Decoder type, which demultiplexes an MPEG-TS or
  M2TS stream down to its DVB teletext elementary stream, decodes every
  teletext packet it carries, assembles the selected page(s) and emits a
  CaptionFrame for each completed page instance.

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
	"context"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/ausocean/ttxt2srt/container/mts"
	"github.com/ausocean/ttxt2srt/container/mts/pes"
	"github.com/ausocean/utils/logging"
)

// hideLeadTime is subtracted from a superseding page's show time to produce
// the hide time of the page it replaces, per ETS 300 706's one-frame (25fps)
// display guard band.
const hideLeadTime = 40 * time.Millisecond

// Decoder reads an MPEG-TS or M2TS stream carrying DVB teletext and produces
// a sequence of CaptionFrame values, one per completed page instance.
type Decoder struct {
	demuxOpts []mts.Option
	magazine  int // 0 selects any magazine.
	targetSet bool
	target    PageIdentifier
	colour    bool
	log       logging.Logger
	stats     *Stats
}

// NewDecoder returns a Decoder configured by opts. With no WithPage option,
// the decoder adopts the first subtitle page it encounters as its target.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		log:   nopLogger{},
		stats: newStats(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Stats returns the diagnostic counters accumulated by the most recent call
// to Decode.
func (d *Decoder) Stats() *Stats { return d.stats }

// dataUnit is a single EBU teletext data unit extracted from a PES private
// data payload, tagged with the data_unit_id it was carried under.
type dataUnit struct {
	id   byte
	data []byte
}

// Decode reads r to EOF, or until ctx is done, demultiplexing and decoding
// teletext captions for the decoder's target page (adopted automatically,
// unless WithPage was given). Frames are returned in the order their pages
// completed, which follows PTS order for a well-formed recording.
func (d *Decoder) Decode(ctx context.Context, r io.Reader) ([]CaptionFrame, error) {
	d.stats = newStats()

	demux := mts.NewDemuxer(append([]mts.Option{mts.WithLogger(d.log)}, d.demuxOpts...)...)

	var (
		frames    []CaptionFrame
		current   *PageBuffer
		receiving bool
		curStart  time.Duration
		m29       *int // Persists across pages of the target's magazine.
		clock     = NewClock()
		lastTS    time.Duration
		haveMode  bool // Whether the PTS-vs-PCR clock source has been latched yet.
		usingPTS  bool
	)

	emit := func(end time.Duration) {
		pb := current
		current, receiving = nil, false
		if pb == nil || !pb.Tainted {
			return
		}
		lines := FormatPage(pb, d.colour)
		if len(lines) == 0 {
			return
		}
		frames = append(frames, CaptionFrame{Page: pb.ID, Start: curStart, End: end, Lines: lines})
	}

	err := demux.Demux(r, func(_ uint16, p *pes.Packet) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if p.StreamID != pes.PrivateStream1SID {
			return nil
		}

		if !haveMode {
			usingPTS = p.PDI&0x2 != 0 // pdiPTS and pdiPTSDTS both set this bit; pdiNone doesn't.
			haveMode = true
		}

		var ts time.Duration
		switch {
		case usingPTS && p.PDI&0x2 != 0:
			ts = clock.Resolve(p.PTS)
		case usingPTS:
			// Latched onto PTS mode, but this PES carries none: hold time.
			ts = lastTS
		default:
			if pcr, ok := demux.PCR(); ok {
				ts = clock.Resolve(pcr)
			} else {
				ts = lastTS
			}
		}
		lastTS = ts

		for _, unit := range splitDataUnits(p.Data) {
			pkt, err := DecodePacket(unit.data, d.stats)
			if err != nil {
				continue
			}
			if d.magazine != 0 && pkt.Magazine != d.magazine {
				continue
			}

			if pkt.Row == RowHeader {
				h, ok := decodeHeader(pkt, d.stats)
				if !ok {
					continue
				}
				d.stats.observePage(h.ID)
				d.stats.markSubtitle(h.ID, unit.id == DataUnitEBUTeletextSubtitle)

				if !d.targetSet && unit.id == DataUnitEBUTeletextSubtitle {
					d.target, d.targetSet = h.ID, true
					d.log.Info("adopted teletext subtitle page", "magazine", h.ID.Magazine, "page", h.ID.Page)
				}
				if !d.targetSet {
					continue
				}

				matches := h.ID.Magazine == d.target.Magazine && h.ID.Page == d.target.Page
				if matches {
					hide := ts - hideLeadTime
					if hide < 0 {
						hide = 0
					}
					emit(hide)
					pb := newPageBuffer(h.ID)
					pb.Subcode, pb.Erase = h.Subcode, h.Erase
					pb.Charset.setHeader(headerSubsets[h.Region])
					if m29 != nil {
						pb.Charset.setM29(*m29)
					}
					writeG0Row(&pb.Rows[RowHeader], pkt.Data[8:40], pb.Charset.Active(), d.stats, false)
					pb.received[RowHeader] = true

					current, receiving = pb, true
					curStart = ts
					continue
				}

				terminates := h.Serial || h.ID.Magazine == d.target.Magazine
				if receiving && terminates {
					emit(ts)
				}
				continue
			}

			if !receiving || pkt.Magazine != d.target.Magazine {
				continue
			}

			if pkt.Row == RowM29 {
				des, okDes := decodeHamming84(pkt.Data[0])
				if id, ok := subsetFromTriplet(pkt.Data[1:4], d.stats); okDes && (des == 0 || des == 4) && ok {
					m29 = &id
					if current.Charset.x28 == nil {
						current.Charset.setM29(id)
					}
				}
				continue
			}

			current.Apply(pkt, d.stats)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "demultiplexing teletext stream")
	}

	emit(lastTS)

	d.stats.SyncLosses = demux.Stats.SyncLosses
	d.stats.ContinuityErrors = demux.Stats.ContinuityErrors
	d.stats.TransportErrors = demux.Stats.TransportErrors

	return frames, nil
}

// splitDataUnits splits a PES private-stream-1 payload into the individual
// EBU teletext data units it carries, discarding the leading data_identifier
// byte and any data units of a type other than subtitle/non-subtitle
// teletext (e.g. stuffing).
func splitDataUnits(data []byte) []dataUnit {
	if len(data) < 1 {
		return nil
	}
	data = data[1:]

	var units []dataUnit
	for i := 0; i+2 <= len(data); {
		id := data[i]
		length := int(data[i+1])
		start := i + 2
		end := start + length
		if end > len(data) {
			break
		}
		if id == DataUnitEBUTeletextNonSubtitle || id == DataUnitEBUTeletextSubtitle {
			units = append(units, dataUnit{id: id, data: data[start:end]})
		}
		i = end
	}
	return units
}
