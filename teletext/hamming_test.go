/*
NAME
  hamming_test.go

DESCRIPTION
  hamming_test.go tests the error-correcting codes in hamming.go.

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
	"bytes"
	"math/bits"
	"testing"
)

// findCodeword84 returns the error-free codeword for nibble: the byte that
// decodes to nibble and has the odd overall parity of a valid codeword.
func findCodeword84(t *testing.T, nibble byte) byte {
	t.Helper()
	for b := 0; b < 256; b++ {
		if n, ok := decodeHamming84(byte(b)); ok && n == nibble && bits.OnesCount8(byte(b))%2 == 1 {
			return byte(b)
		}
	}
	t.Fatalf("no codeword found for nibble %d", nibble)
	return 0
}

func TestDecodeHamming84SingleErrorCorrection(t *testing.T) {
	for nibble := byte(0); nibble < 16; nibble++ {
		cw := findCodeword84(t, nibble)
		if got, ok := decodeHamming84(cw); !ok || got != nibble {
			t.Fatalf("nibble %d: clean codeword %#02x decoded to %d,%v", nibble, cw, got, ok)
		}
		for bit := uint(0); bit < 8; bit++ {
			corrupted := cw ^ (1 << bit)
			got, ok := decodeHamming84(corrupted)
			if !ok || got != nibble {
				t.Errorf("nibble %d bit %d: corrupted %#02x decoded to %d,%v, want %d,true", nibble, bit, corrupted, got, ok, nibble)
			}
		}
	}
}

func TestDecodeHamming84DoubleErrorDetection(t *testing.T) {
	cw := findCodeword84(t, 5)
	corrupted := cw ^ 0x01 ^ 0x02
	if _, ok := decodeHamming84(corrupted); ok {
		t.Errorf("decodeHamming84(%#02x) with two flipped bits should be uncorrectable", corrupted)
	}
}

// findCodeword2418 searches the 6 parity bit positions for the error-free
// triplet encoding payload (one that decodes to payload and has odd overall
// parity), holding the 18 data bit positions fixed.
func findCodeword2418(t *testing.T, payload uint32) uint32 {
	t.Helper()
	dataPositions := []uint{2, 4, 5, 6, 8, 9, 10, 11, 12, 13, 14, 16, 17, 18, 19, 20, 21, 22}
	parityPositions := []uint{0, 1, 3, 7, 15, 23}

	var base uint32
	for i, pos := range dataPositions {
		if payload&(1<<uint(i)) != 0 {
			base |= 1 << pos
		}
	}
	for p := uint32(0); p < 64; p++ {
		a := base
		for i, pos := range parityPositions {
			if p&(1<<uint(i)) != 0 {
				a |= 1 << pos
			}
		}
		if got, ok := decodeHamming2418(a); ok && got == payload && bits.OnesCount32(a)%2 == 1 {
			return a
		}
	}
	t.Fatalf("no codeword found for payload %#x", payload)
	return 0
}

func TestDecodeHamming2418SingleErrorCorrection(t *testing.T) {
	for _, payload := range []uint32{0, 1, 0x3ffff, 0x2aaaa, 0x15555, 0x20001} {
		cw := findCodeword2418(t, payload)
		for bit := uint(0); bit < 24; bit++ {
			corrupted := cw ^ (1 << bit)
			got, ok := decodeHamming2418(corrupted)
			if !ok || got != payload {
				t.Errorf("payload %#x bit %d: corrupted triplet decoded to %#x,%v, want %#x,true", payload, bit, got, ok, payload)
			}
		}
	}
}

func TestDecodeParityRoundTrip(t *testing.T) {
	for char := byte(0); char < 0x80; char++ {
		b := char
		if bits.OnesCount8(b)%2 == 0 {
			b |= 0x80
		}
		got, ok := decodeParity(b)
		if !ok || got != char {
			t.Fatalf("decodeParity(%#02x) = %d,%v, want %d,true", b, got, ok, char)
		}
		if _, ok := decodeParity(b ^ 0x80); ok {
			t.Errorf("decodeParity(%#02x) with flipped parity bit should fail", b^0x80)
		}
	}
}

func TestReverseBits(t *testing.T) {
	tests := []struct{ in, want byte }{
		{0x01, 0x80},
		{0xc0, 0x03},
		{0xe4, 0x27}, // The teletext framing code.
	}
	for _, tt := range tests {
		if got := reverseBits(tt.in); got != tt.want {
			t.Errorf("reverseBits(%#02x) = %#02x, want %#02x", tt.in, got, tt.want)
		}
	}
}

func TestReverseBytes(t *testing.T) {
	p := []byte{0x01, 0x80, 0xe4}
	reverseBytes(p)
	want := []byte{0x80, 0x01, 0x27}
	if !bytes.Equal(p, want) {
		t.Errorf("reverseBytes = %v, want %v", p, want)
	}
}
