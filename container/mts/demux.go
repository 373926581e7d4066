/*
NAME
  demux.go

DESCRIPTION
  demux.go provides a Demuxer that reads a raw MPEG-TS or BDAV M2TS stream,
  locates the DVB teletext elementary stream via PAT/PMT (or an explicit PID),
  and reassembles that stream's PES packets for a caller-supplied callback.

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

import (
	"bufio"
	"io"

	"github.com/pkg/errors"

	"github.com/ausocean/ttxt2srt/container/mts/pes"
	"github.com/ausocean/ttxt2srt/container/mts/psi"
	"github.com/ausocean/utils/logging"
)

// M2TS framing constants. A BDAV M2TS file is a sequence of 192-byte frames,
// each a 4-byte copy-permission/arrival-timecode field followed by a regular
// 188-byte MPEG-TS packet.
const (
	m2tsPacketSize = PacketSize + m2tsPrefixSize
	m2tsPrefixSize = 4
)

// Demuxer demultiplexes an MPEG-TS or M2TS stream, resolving the PID of the
// DVB teletext elementary stream and delivering its reassembled PES packets.
//
// A Demuxer is only good for a single stream; construct a new one per file.
type Demuxer struct {
	pid      uint16 // PID of the teletext elementary stream.
	havePID  bool
	pmtPID   uint16 // PID of the PMT, once known from the PAT.
	m2ts     bool
	autoM2TS bool
	log      logging.Logger

	cc     map[uint16]byte
	haveCC map[uint16]bool

	pcr     uint64 // Most recent global PCR, in 90kHz ticks, across any PID.
	havePCR bool

	acc *pesAccumulator

	Stats DemuxStats
}

// DemuxStats tallies anomalies seen while demultiplexing.
type DemuxStats struct {
	SyncLosses       int
	ContinuityErrors int
	TransportErrors  int
}

// PCR returns the most recently observed program clock reference, converted
// to 90kHz ticks (the same domain as a PES PTS), and whether one has been
// seen yet. Used as a fallback clock source for streams whose teletext PES
// packets carry no PTS.
func (d *Demuxer) PCR() (uint64, bool) { return d.pcr, d.havePCR }

// NewDemuxer returns a Demuxer configured by opts. With no options, the
// Demuxer auto-detects M2TS framing and discovers the teletext PID from the
// stream's PAT/PMT.
func NewDemuxer(opts ...Option) *Demuxer {
	d := &Demuxer{
		autoM2TS: true,
		cc:       make(map[uint16]byte),
		haveCC:   make(map[uint16]bool),
		log:      nopLogger{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Demux reads MPEG-TS packets from r until EOF, and calls fn with every
// complete PES packet belonging to the teletext elementary stream. fn is
// called synchronously; a non-nil error from fn aborts the demux.
func (d *Demuxer) Demux(r io.Reader, fn func(pid uint16, p *pes.Packet) error) error {
	br := bufio.NewReaderSize(r, 1<<16)

	if d.autoM2TS {
		peek, _ := br.Peek(m2tsPacketSize)
		d.m2ts = len(peek) == m2tsPacketSize && peek[0] != SyncByte && peek[m2tsPrefixSize] == SyncByte
	}

	tsBuf := make([]byte, PacketSize)
	skipPrefix := d.m2ts
	for {
		if skipPrefix {
			if _, err := io.CopyN(io.Discard, br, m2tsPrefixSize); err != nil {
				if err == io.EOF {
					break
				}
				return errors.Wrap(err, "reading M2TS prefix")
			}
		}
		skipPrefix = d.m2ts

		// Check alignment before consuming a packet, so that a packet starting
		// part-way into the misaligned bytes isn't read past and lost.
		if b, err := br.Peek(1); err == nil && b[0] != SyncByte {
			if err := d.resync(br); err != nil {
				if err == io.EOF {
					break
				}
				return errors.Wrap(err, "resynchronising")
			}
			skipPrefix = false
			continue
		}

		_, err := io.ReadFull(br, tsBuf)
		if err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return errors.Wrap(err, "reading MPEG-TS packet")
		}

		if err := d.handlePacket(tsBuf, fn); err != nil {
			return err
		}
	}

	if d.acc != nil && len(d.acc.buf) > 0 {
		return d.emit(fn)
	}
	return nil
}

// handlePacket routes a single validated MPEG-TS packet: PAT/PMT parsing for
// PID discovery, continuity checking, and PES reassembly for the teletext PID.
func (d *Demuxer) handlePacket(tsBuf []byte, fn func(uint16, *pes.Packet) error) error {
	pkt, err := ParsePacket(tsBuf)
	if err != nil {
		d.Stats.TransportErrors++
		d.log.Warning("could not parse MPEG-TS packet", "error", err)
		return nil
	}
	if pkt.TEI {
		d.Stats.TransportErrors++
		d.log.Warning("transport error indicator set", "pid", pkt.PID)
		return nil
	}

	if pkt.PCRF {
		// PCR is a 33-bit (90kHz) base plus a 9-bit (27MHz) extension always
		// smaller than 300; dividing back out recovers the base exactly.
		d.pcr = pkt.PCR / 300
		d.havePCR = true
	}

	d.checkContinuity(pkt)

	switch {
	case pkt.PID == PatPid && !d.havePID:
		progs, err := Programs(tsBuf)
		if err != nil {
			d.log.Warning("could not parse PAT", "error", err)
			return nil
		}
		for _, pmtPID := range progs {
			d.pmtPID = pmtPID
			break
		}

	case !d.havePID && d.pmtPID != 0 && pkt.PID == d.pmtPID:
		payload, err := Payload(tsBuf)
		if err != nil {
			return nil
		}
		streams, err := psi.TeletextStreams(psi.PSIBytes(payload))
		if err != nil || len(streams) == 0 {
			return nil
		}
		d.pid = streams[0].PID
		d.havePID = true
		d.log.Info("discovered teletext elementary stream", "pid", d.pid, "tag", streams[0].Tag)

	case d.havePID && d.pid == 0x2000 && pkt.PUSI && len(pkt.Payload) >= 4 &&
		pkt.Payload[0] == 0x00 && pkt.Payload[1] == 0x00 && pkt.Payload[2] == 0x01 &&
		pkt.Payload[3] == pes.PrivateStream1SID:
		// PID 0x2000 lies outside the 13-bit PID range; it selects the first
		// PID that carries a Private Stream 1 PES header.
		d.pid = pkt.PID
		d.log.Info("adopted first Private Stream 1 PID", "pid", d.pid)
		return d.feed(pkt, fn)

	case d.havePID && pkt.PID == d.pid:
		return d.feed(pkt, fn)
	}
	return nil
}

// checkContinuity updates the expected continuity counter for pkt's PID,
// logging and counting a discontinuity when the observed value is neither the
// expected next value nor a legitimate repeat of the previous packet, and the
// packet does not signal a discontinuity in its adaptation field. A
// discontinuity on the teletext PID also discards the partly assembled PES
// packet; reassembly resumes at the next payload unit start.
func (d *Demuxer) checkContinuity(pkt *Packet) {
	if pkt.AFC&HasPayload == 0 {
		return
	}
	if d.haveCC[pkt.PID] {
		prev := d.cc[pkt.PID]
		want := (prev + 1) & 0xf
		if pkt.CC != want && pkt.CC != prev && !pkt.DI {
			d.Stats.ContinuityErrors++
			d.log.Warning("continuity error", "pid", pkt.PID, "want", want, "got", pkt.CC)
			if d.havePID && pkt.PID == d.pid {
				d.acc = nil
			}
		}
	}
	d.cc[pkt.PID] = pkt.CC
	d.haveCC[pkt.PID] = true
}

// resync discards bytes from br until the next byte available is a sync
// byte, so that the following read realigns to a packet boundary.
func (d *Demuxer) resync(br *bufio.Reader) error {
	d.Stats.SyncLosses++
	d.log.Warning("lost MPEG-TS sync, resynchronising")
	for {
		b, err := br.Peek(1)
		if err != nil {
			return err
		}
		if b[0] == SyncByte {
			return nil
		}
		if _, err := br.Discard(1); err != nil {
			return err
		}
	}
}

// feed appends pkt's payload to the in-progress PES accumulation for the
// teletext PID, starting a new one on a payload unit start, and emits a
// complete PES packet to fn as soon as one is assembled.
func (d *Demuxer) feed(pkt *Packet, fn func(uint16, *pes.Packet) error) error {
	if pkt.Payload == nil {
		return nil
	}

	if pkt.PUSI {
		if d.acc != nil && len(d.acc.buf) > 0 {
			if err := d.emit(fn); err != nil {
				return err
			}
		}
		d.acc = new(pesAccumulator)
		d.acc.reset(pkt.Payload)
	} else if d.acc != nil {
		d.acc.append(pkt.Payload)
	}

	if d.acc != nil && d.acc.done() {
		return d.emit(fn)
	}
	return nil
}

// emit parses the accumulated PES bytes and delivers them to fn.
func (d *Demuxer) emit(fn func(uint16, *pes.Packet) error) error {
	buf := d.acc.buf
	d.acc = nil
	p, err := pes.Parse(buf)
	if err != nil {
		d.log.Warning("could not parse PES packet", "error", err)
		return nil
	}
	return fn(d.pid, p)
}

// pesAccumulator collects MPEG-TS payload fragments belonging to a single PES
// packet, stopping once the packet's declared length (if any) is satisfied.
type pesAccumulator struct {
	buf  []byte
	want int // total expected length of buf, 0 if unbounded.
}

// reset starts a new accumulation from a PUSI payload, which must begin with
// the PES start code.
func (a *pesAccumulator) reset(payload []byte) {
	a.buf = append([]byte(nil), payload...)
	const pesLengthFieldEnd = 6
	if len(payload) >= pesLengthFieldEnd {
		length := int(payload[4])<<8 | int(payload[5])
		if length > 0 {
			a.want = pesLengthFieldEnd + length
		}
	}
}

// append adds a continuation fragment to the accumulation. A fragment that
// would take the accumulation past 4096 bytes is dropped.
func (a *pesAccumulator) append(payload []byte) {
	const maxPESSize = 4096
	if len(a.buf)+len(payload) > maxPESSize {
		return
	}
	a.buf = append(a.buf, payload...)
}

// done reports whether the accumulation has reached its expected length.
// Teletext PES packets always declare an explicit length, so an accumulator
// with no declared length is never considered done by size alone; it's
// flushed instead when the next PUSI arrives.
func (a *pesAccumulator) done() bool {
	return a.want != 0 && len(a.buf) >= a.want
}

// nopLogger is the default Demuxer logger, discarding everything.
type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{})   {}
func (nopLogger) Info(string, ...interface{})    {}
func (nopLogger) Warning(string, ...interface{}) {}
func (nopLogger) Error(string, ...interface{})   {}
func (nopLogger) Fatal(string, ...interface{})   {}
