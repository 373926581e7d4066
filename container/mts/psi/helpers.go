/*
NAME
  helpers.go

DESCRIPTION
  helpers.go provides small byte-slice helpers shared by the PSI encoding
  and decoding paths.

AUTHOR
  Saxon Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package psi

// SyntaxSecLenFrom takes a byte slice representation of a psi and extracts
// its syntax section length.
func SyntaxSecLenFrom(p []byte) int {
	return int(p[SyntaxSecLenIdx1]&SyntaxSecLenMask1)<<8 | int(p[SyntaxSecLenIdx2])
}
