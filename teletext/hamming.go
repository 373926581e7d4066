/*
NAME
  hamming.go

DESCRIPTION
  hamming.go provides decoding of the error-protection codes used to carry
  teletext addressing and control information: the Hamming 8/4 code used for
  magazine/row addresses and mode bytes, and the Hamming 24/18 code used for
  triplets in X/26, X/28 and M/29 packets. Both codes are single-error
  correcting, double-error detecting.

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

import "math/bits"

// badByte marks an uncorrectable entry in hamming84Table.
const badByte = 0xff

// hamming84Table maps every possible received byte to its corrected 4-bit
// nibble, or to badByte if the byte carries a double-bit (uncorrectable)
// error. It's built once at package init time from the Hamming 8/4 parity
// equations defined by ETS 300 706 rather than transcribed as a literal
// table, so that the relationship between received bits and parity checks
// stays visible in the code.
var hamming84Table [256]byte

func init() {
	for i := range hamming84Table {
		hamming84Table[i] = computeHamming84(byte(i))
	}
}

// computeHamming84 corrects a single Hamming 8/4 protected byte. Bit 0 is
// the first bit transmitted, so bits 0-7 hold P1 D1 P2 D2 P3 D3 P4 D4 and
// the data bits D1-D4 sit at bit positions 1, 3, 5 and 7. Parity tests A-C
// and the overall test D each pass when their bits have odd parity.
func computeHamming84(a byte) byte {
	bit := func(n uint) byte { return (a >> n) & 1 }

	tA := bit(0) ^ bit(1) ^ bit(5) ^ bit(7) ^ 1
	tB := bit(1) ^ bit(2) ^ bit(3) ^ bit(7) ^ 1
	tC := bit(1) ^ bit(3) ^ bit(4) ^ bit(5) ^ 1
	failed := tA | tB<<1 | tC<<2

	overall := bit(0) ^ bit(1) ^ bit(2) ^ bit(3) ^ bit(4) ^ bit(5) ^ bit(6) ^ bit(7)

	if failed != 0 && overall == 1 {
		// Two bits disagree with the parity checks: uncorrectable.
		return badByte
	}
	if failed != 0 {
		// The set of failing tests names the single bit in error.
		a ^= 1 << [8]uint{0, 0, 2, 7, 4, 5, 3, 1}[failed]
	}

	return bit(1) | bit(3)<<1 | bit(5)<<2 | bit(7)<<3
}

// decodeHamming84 decodes a single Hamming 8/4 protected byte, returning the
// corrected 4-bit value and false if the byte is uncorrectable.
func decodeHamming84(b byte) (nibble byte, ok bool) {
	v := hamming84Table[b]
	if v == badByte {
		return 0, false
	}
	return v, true
}

// decodeHamming2418 decodes a 24-bit Hamming 24/18 protected triplet, as
// used by enhancement packets (X/26, X/28, M/29). a holds the 24 bits in
// transmission order, bit 0 first. The 6 parity tests (A-F) are folded into
// a single syndrome: tests A-E form the low 5 bits, test F (the overall
// parity check) is bit 5. If tests A-E disagree and test F passes, two bits
// are in error and the triplet is uncorrectable; otherwise a single bit is
// flipped at the position the syndrome names.
func decodeHamming2418(a uint32) (payload uint32, ok bool) {
	var test uint32
	for i := uint(0); i < 23; i++ {
		if (a>>i)&1 != 0 {
			test ^= uint32(i + 33)
		}
	}
	// Test F also covers bit 23, the overall parity bit.
	test ^= (a >> 23 & 1) << 5

	if test&0x1f != 0x1f {
		if test&0x20 != 0 {
			return 0, false
		}
		a ^= 1 << (30 - test)
	}

	payload = (a&0x000004)>>2 | (a&0x000070)>>3 | (a&0x007f00)>>4 | (a&0x7f0000)>>5
	return payload, true
}

// oddParityTable maps every byte to its 7-bit value with the parity bit (bit
// 7) stripped, or to badByte if the byte fails the odd-parity check used to
// protect the basic G0 character set in text rows.
var oddParityTable [256]byte

func init() {
	for i := range oddParityTable {
		if bits.OnesCount8(byte(i))%2 == 1 {
			oddParityTable[i] = byte(i) & 0x7f
		} else {
			oddParityTable[i] = badByte
		}
	}
}

// decodeParity strips and checks the odd-parity bit from b, returning the
// unprotected 7-bit character code, or false if parity fails.
func decodeParity(b byte) (char byte, ok bool) {
	v := oddParityTable[b]
	if v == badByte {
		return 0, false
	}
	return v, true
}

// reverseTable reverses the bit order of a byte. Teletext data is
// transmitted least-significant-bit first, so every payload byte read off
// the wire must have its bits reversed before any of the above codecs,
// lookups or character tables are applied.
var reverseTable [256]byte

func init() {
	for i := range reverseTable {
		v := byte(i)
		var r byte
		for b := 0; b < 8; b++ {
			r <<= 1
			r |= v & 1
			v >>= 1
		}
		reverseTable[i] = r
	}
}

// reverseBits reverses the bit order of b.
func reverseBits(b byte) byte { return reverseTable[b] }

// reverseBytes reverses the bit order of every byte in p, in place.
func reverseBytes(p []byte) {
	for i, b := range p {
		p[i] = reverseTable[b]
	}
}
