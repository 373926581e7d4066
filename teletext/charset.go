/*
NAME
  charset.go

DESCRIPTION
  charset.go provides the G0 (primary) and G2 (supplementary) character set
  tables defined by ETS 300 706, including the thirteen national-option
  positions that vary between the Latin G0 subsets, and the G2 diacritical
  marks used by X/26 packets to accent a previously transmitted G0 letter.

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

import "golang.org/x/text/unicode/norm"

// nationalPositions are the 13 code positions of the G0 Latin set that are
// replaced by national-option characters, per ETS 300 706 table 36.
var nationalPositions = [13]byte{
	0x23, 0x24, 0x40, 0x5b, 0x5c, 0x5d, 0x5e, 0x5f, 0x60, 0x7b, 0x7c, 0x7d, 0x7e,
}

// National G0 subset identifiers, as signalled in the page header C12-C14
// bits and in X/28 / M/29 packets.
const (
	SubsetEnglish = iota
	SubsetGerman
	SubsetSwedishFinnishHungarian
	SubsetItalian
	SubsetFrench
	SubsetPortugueseSpanish
	SubsetCzechSlovak
	SubsetTurkish
	SubsetSerbianCroatianSlovenian
	SubsetRomanian
	SubsetPolish
	SubsetEstonian
	SubsetLettishLithuanian
	numSubsets
)

// nationalSubsets holds the 13 replacement runes for each defined G0
// national subset, in the same order as nationalPositions.
var nationalSubsets = [numSubsets][13]rune{
	SubsetEnglish:                  {'£', '$', '@', '←', '½', '→', '↑', '#', '—', '¼', '‖', '¾', '÷'},
	SubsetGerman:                   {'#', '$', '§', 'Ä', 'Ö', 'Ü', '^', '_', '°', 'ä', 'ö', 'ü', 'ß'},
	SubsetSwedishFinnishHungarian:  {'#', '¤', 'É', 'Ä', 'Ö', 'Å', 'Ü', '_', 'é', 'ä', 'ö', 'å', 'ü'},
	SubsetItalian:                  {'£', '$', 'é', '°', 'ç', '»', '^', '#', 'ù', 'à', 'ò', 'è', 'ì'},
	SubsetFrench:                   {'é', 'ï', 'à', 'ë', 'ê', 'ù', 'î', '#', 'è', 'â', 'ô', 'û', 'ç'},
	SubsetPortugueseSpanish:        {'ç', '$', '¡', 'á', 'é', 'í', 'ó', 'ú', '¿', 'ü', 'ñ', 'è', 'à'},
	SubsetCzechSlovak:               {'#', 'ů', 'č', 'ť', 'ž', 'ý', 'í', 'ř', 'é', 'á', 'ě', 'ú', 'š'},
	SubsetTurkish:                  {'ğ', '$', 'İ', 'Ş', 'Ö', 'Ç', 'Ü', 'Ğ', 'ı', 'ş', 'ö', 'ç', 'ü'},
	SubsetSerbianCroatianSlovenian: {'#', 'Ë', 'Č', 'Ć', 'Ž', 'Đ', 'Š', 'ë', 'č', 'ć', 'ž', 'đ', 'š'},
	SubsetRomanian:                 {'#', '¤', 'Ţ', 'Â', 'Ş', 'Ă', 'Î', 'î', 'ţ', 'â', 'ş', 'ă', '_'},
	SubsetPolish:                   {'#', 'ń', 'ę', 'ż', 'ą', 'ś', 'ł', 'ź', 'ć', 'ó', 'ę', 'ł', 'ż'},
	SubsetEstonian:                 {'#', '$', 'Š', 'Õ', 'Ä', 'Ö', 'Ž', 'Ü', 'š', 'õ', 'ä', 'ö', 'ž'},
	SubsetLettishLithuanian:        {'#', '$', 'Š', 'Ē', 'Ä', 'Ö', 'Ž', 'Ü', 'š', 'ē', 'ä', 'ö', 'ž'},
}

// g0Base is the default (English) G0 Latin repertoire for positions
// 0x20-0x7f, used as the starting point before a national subset's 13
// positions are overlaid on top.
var g0Base [0x60]rune

func init() {
	for i := range g0Base {
		g0Base[i] = rune(0x20 + i)
	}
}

// G0 applies national subset id's 13-position overlay to the default Latin
// G0 repertoire and returns the rune for character code c (0x20-0x7f). An
// unrecognised subset id falls back to English.
func G0(id int, c byte) rune {
	if c < 0x20 || c > 0x7f {
		return ' '
	}
	if id < 0 || id >= numSubsets {
		id = SubsetEnglish
	}
	for i, pos := range nationalPositions {
		if pos == c {
			return nationalSubsets[id][i]
		}
	}
	return g0Base[c-0x20]
}

// g2Supplementary is the G2 supplementary Latin set, for positions
// 0x20-0x7f, holding diacritical marks, currency and other symbols not in
// the G0 repertoire. Combining diacritics are expressed as accent runes
// that Accent composes onto a preceding G0 letter.
var g2Supplementary = [0x60]rune{
	0x00: ' ', 0x01: '¡', 0x02: '¢', 0x03: '£', 0x04: '$', 0x05: '¥', 0x06: '#', 0x07: '§',
	0x08: '¤', 0x09: '‘', 0x0a: '“', 0x0b: '«', 0x0c: '←', 0x0d: '↑', 0x0e: '→', 0x0f: '↓',
	0x10: '°', 0x11: '±', 0x12: '²', 0x13: '³', 0x14: '×', 0x15: 'µ', 0x16: '¶', 0x17: '·',
	0x18: '÷', 0x19: '’', 0x1a: '”', 0x1b: '»', 0x1c: '¼', 0x1d: '½', 0x1e: '¾', 0x1f: '¿',
	0x20: ' ', 0x21: '!', 0x22: '"', 0x23: '#', 0x24: '¤', 0x25: '%', 0x26: '&', 0x27: '\'',
	0x28: '(', 0x29: ')', 0x2a: '*', 0x2b: '+', 0x2c: ',', 0x2d: '-', 0x2e: '.', 0x2f: '/',
	0x30: '0', 0x31: '1', 0x32: '2', 0x33: '3', 0x34: '4', 0x35: '5', 0x36: '6', 0x37: '7',
	0x38: '8', 0x39: '9', 0x3a: ':', 0x3b: ';', 0x3c: '<', 0x3d: '=', 0x3e: '>', 0x3f: '?',
	0x40: '─', 0x41: 'Α', 0x42: 'Β', 0x43: 'Χ', 0x44: 'Δ', 0x45: 'Ε', 0x46: 'Φ', 0x47: 'Γ',
	0x48: 'Η', 0x49: 'Ι', 0x4a: 'Θ', 0x4b: 'Κ', 0x4c: 'Λ', 0x4d: 'Μ', 0x4e: 'Ν', 0x4f: 'Ο',
	0x50: 'Π', 0x51: 'Ψ', 0x52: 'Ρ', 0x53: 'Σ', 0x54: 'Τ', 0x55: 'Θ', 0x56: 'Ω', 0x57: 'Ξ',
	0x58: 'Υ', 0x59: 'Ζ', 0x5a: '[', 0x5b: '\\', 0x5c: ']', 0x5d: '^', 0x5e: '_', 0x5f: '`',
}

// accentGrave, etc. are the G2 accent codes (0x41-0x4f) that combine with a
// preceding G0 letter. These index diacriticMarks.
const (
	accentGrave    = 0x41
	accentAcute    = 0x42
	accentCircflex = 0x43
	accentTilde    = 0x44
	accentMacron   = 0x45
	accentBreve    = 0x46
	accentDot      = 0x47
	accentDiaeresis = 0x48
	accentRing     = 0x4a
	accentCedilla  = 0x4b
	accentOgonek   = 0x4c
	accentUnderbar = 0x4f
)

// diacriticMarks maps a G2 accent code to the Unicode combining mark applied
// to the preceding base letter to compose the accented character.
var diacriticMarks = map[byte]rune{
	accentGrave:     '̀',
	accentAcute:     '́',
	accentCircflex:  '̂',
	accentTilde:     '̃',
	accentMacron:    '̄',
	accentBreve:     '̆',
	accentDot:       '̇',
	accentDiaeresis: '̈',
	accentRing:      '̊',
	accentCedilla:   '̧',
	accentOgonek:    '̨',
	accentUnderbar:  '̲',
}

// G2 returns the rune for G2 supplementary character code c (0x20-0x7f).
func G2(c byte) rune {
	if c < 0x20 || int(c) > 0x5f+0x20 {
		return ' '
	}
	if int(c-0x20) < len(g2Supplementary) {
		return g2Supplementary[c-0x20]
	}
	return ' '
}

// Accent composes base (a G0 letter, as decoded by G0) with the G2 accent
// code mark, returning a single NFC-normalised rune where possible. If mark
// is not a recognised accent, base is returned unaccented.
func Accent(base rune, mark byte) rune {
	d, ok := diacriticMarks[mark]
	if !ok {
		return base
	}
	composed := norm.NFC.String(string(base) + string(d))
	r := []rune(composed)
	if len(r) == 0 {
		return base
	}
	return r[0]
}
