/*
NAME
  demux_test.go

DESCRIPTION
  demux_test.go tests Demuxer.Demux: delivery of single-packet PES packets
  for an explicitly selected PID, PID filtering, continuity error counting
  and sync-loss counting.

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
	"bytes"
	"testing"

	"github.com/ausocean/ttxt2srt/container/mts/pes"
)

// tsPacket builds a single PacketSize-byte MPEG-TS packet for pid, filling
// the payload from data and padding the remainder with 0xff stuffing bytes.
func tsPacket(pid uint16, pusi bool, cc byte, data []byte) []byte {
	p := make([]byte, PacketSize)
	p[0] = SyncByte
	p[1] = byte(pid >> 8 & 0x1f)
	if pusi {
		p[1] |= 0x40
	}
	p[2] = byte(pid)
	p[3] = 0x10 | cc&0xf // AFC = 1 (payload only).
	n := copy(p[4:], data)
	for i := 4 + n; i < PacketSize; i++ {
		p[i] = 0xff
	}
	return p
}

// shortPES builds a minimal PES packet with no optional header fields, whose
// declared length covers exactly the bytes given in body.
func shortPES(body []byte) []byte {
	length := 3 + len(body) // flags1 + flags2 + headerLength + body.
	buf := []byte{0x00, 0x00, 0x01, pes.PrivateStream1SID, byte(length >> 8), byte(length)}
	buf = append(buf, 0x00, 0x00, 0x00) // flags1, flags2, headerLength = 0 (no PTS/DTS).
	buf = append(buf, body...)
	return buf
}

func TestDemuxBasic(t *testing.T) {
	const pid = 0x100
	pkt := tsPacket(pid, true, 0, shortPES([]byte("HELLO")))

	var got []byte
	var gotPID uint16
	calls := 0
	d := NewDemuxer(WithPID(pid))
	err := d.Demux(bytes.NewReader(pkt), func(p uint16, pp *pes.Packet) error {
		calls++
		gotPID = p
		got = pp.Data
		return nil
	})
	if err != nil {
		t.Fatalf("Demux: %v", err)
	}
	if calls != 1 {
		t.Fatalf("fn called %d times, want 1", calls)
	}
	if gotPID != pid {
		t.Errorf("pid = %#x, want %#x", gotPID, pid)
	}
	if !bytes.HasPrefix(got, []byte("HELLO")) {
		t.Errorf("Data = %v, want prefix %q", got, "HELLO")
	}
}

func TestDemuxIgnoresOtherPIDs(t *testing.T) {
	const pid = 0x100
	other := tsPacket(0x200, true, 0, shortPES([]byte("NOPE")))

	calls := 0
	d := NewDemuxer(WithPID(pid))
	err := d.Demux(bytes.NewReader(other), func(uint16, *pes.Packet) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Demux: %v", err)
	}
	if calls != 0 {
		t.Errorf("fn called %d times for a non-matching PID, want 0", calls)
	}
}

func TestDemuxContinuityError(t *testing.T) {
	const pid = 0x100
	var stream bytes.Buffer
	stream.Write(tsPacket(pid, true, 0, shortPES([]byte("A"))))
	stream.Write(tsPacket(pid, true, 2, shortPES([]byte("B")))) // Skips CC 1.

	d := NewDemuxer(WithPID(pid))
	err := d.Demux(&stream, func(uint16, *pes.Packet) error { return nil })
	if err != nil {
		t.Fatalf("Demux: %v", err)
	}
	if d.Stats.ContinuityErrors != 1 {
		t.Errorf("ContinuityErrors = %d, want 1", d.Stats.ContinuityErrors)
	}
}

func TestDemuxContinuityRepeatNotAnError(t *testing.T) {
	const pid = 0x100
	var stream bytes.Buffer
	stream.Write(tsPacket(pid, true, 0, shortPES([]byte("A"))))
	stream.Write(tsPacket(pid, false, 0, shortPES([]byte("B")))) // Legitimate repeat of CC 0.

	d := NewDemuxer(WithPID(pid))
	err := d.Demux(&stream, func(uint16, *pes.Packet) error { return nil })
	if err != nil {
		t.Fatalf("Demux: %v", err)
	}
	if d.Stats.ContinuityErrors != 0 {
		t.Errorf("ContinuityErrors = %d, want 0", d.Stats.ContinuityErrors)
	}
}

func TestDemuxResync(t *testing.T) {
	const pid = 0x100
	good := tsPacket(pid, true, 0, shortPES([]byte("HELLO")))

	var stream bytes.Buffer
	stream.WriteByte(0x00) // One misaligned byte ahead of the first packet.
	stream.Write(good)
	stream.Write(tsPacket(pid, false, 0, nil))

	calls := 0
	d := NewDemuxer(WithPID(pid))
	err := d.Demux(&stream, func(uint16, *pes.Packet) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Demux: %v", err)
	}
	if d.Stats.SyncLosses == 0 {
		t.Error("SyncLosses = 0, want at least 1 after a misaligned byte")
	}
}
