/*
NAME
  mpegts_test.go

DESCRIPTION
  mpegts_test.go tests the packet-level helpers in mpegts.go: PID lookup,
  payload extraction and PID search.

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
)

// packetWithPID builds a minimal PacketSize-byte TS packet carrying pid and
// a payload-only adaptation field control, with payload filled from fill.
func packetWithPID(pid uint16, fill byte) []byte {
	p := make([]byte, PacketSize)
	p[0] = 0x47
	p[1] = byte(pid >> 8 & 0x1f)
	p[2] = byte(pid)
	p[3] = 0x10 // AFC = 1 (payload only), no TEI/PUSI/priority.
	for i := 4; i < PacketSize; i++ {
		p[i] = fill
	}
	return p
}

func TestPID(t *testing.T) {
	p := packetWithPID(0x1ff, 0)
	got, err := PID(p)
	if err != nil {
		t.Fatalf("PID: %v", err)
	}
	if got != 0x1ff {
		t.Errorf("PID = %#x, want %#x", got, 0x1ff)
	}
}

func TestFindPid(t *testing.T) {
	clip := append(packetWithPID(0x100, 0xaa), packetWithPID(0x200, 0xbb)...)

	pkt, i, err := FindPid(clip, 0x200)
	if err != nil {
		t.Fatalf("FindPid: %v", err)
	}
	if i != PacketSize {
		t.Errorf("FindPid index = %d, want %d", i, PacketSize)
	}
	if pkt[4] != 0xbb {
		t.Errorf("FindPid payload byte = %#x, want 0xbb", pkt[4])
	}

	if _, _, err := FindPid(clip, 0x300); err == nil {
		t.Error("FindPid with absent PID should return an error")
	}

	if _, _, err := FindPid([]byte{0x47}, 0x100); err != ErrInvalidLen {
		t.Errorf("FindPid with short data error = %v, want ErrInvalidLen", err)
	}
}

func TestLastPid(t *testing.T) {
	clip := append(packetWithPID(0x100, 0xaa), packetWithPID(0x100, 0xbb)...)

	pkt, i, err := LastPid(clip, 0x100)
	if err != nil {
		t.Fatalf("LastPid: %v", err)
	}
	if i != PacketSize {
		t.Errorf("LastPid index = %d, want %d (the second, later packet)", i, PacketSize)
	}
	if pkt[4] != 0xbb {
		t.Errorf("LastPid payload byte = %#x, want 0xbb", pkt[4])
	}
}

func TestPayload(t *testing.T) {
	p := packetWithPID(0x100, 0xcd)
	payload, err := Payload(p)
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}
	want := bytes.Repeat([]byte{0xcd}, PacketSize-4)
	if !bytes.Equal(payload, want) {
		t.Errorf("Payload length = %d, want %d", len(payload), len(want))
	}
}

func TestPayloadNone(t *testing.T) {
	p := packetWithPID(0x100, 0)
	p[3] = 0x20 // AFC = 2: adaptation field only, no payload.
	if _, err := Payload(p); err != ErrNoPayload {
		t.Errorf("Payload with AFC=2 error = %v, want ErrNoPayload", err)
	}
}
