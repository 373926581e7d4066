/*
NAME
  frame.go

DESCRIPTION
  frame.go turns a finished PageBuffer into a CaptionFrame: the lines of
  subtitle text enclosed by a row's start-box/end-box control codes, with
  spacing-attribute colour codes either stripped or rendered as HTML-style
  <font color> tags.

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
	"strings"
	"time"
)

// Spacing-attribute control codes relevant to caption text. Values 0x00-0x07
// select a foreground colour; 0x0a and 0x0b delimit the boxed region of a
// row that a subtitle renderer should display.
const (
	ctrlStartBox = 0x0b
	ctrlEndBox   = 0x0a

	colourBlack = 0
	colourWhite = 7
)

// colourHex maps a spacing-attribute colour code (0x00-0x07) to its hex RGB
// value, for the optional <font color="#RRGGBB"> rendering.
var colourHex = [8]string{
	"#000000", "#FF0000", "#00FF00", "#FFFF00",
	"#0000FF", "#FF00FF", "#00FFFF", "#FFFFFF",
}

// CaptionFrame is a single subtitle cue: the lines of text shown for a
// page between Start and End.
type CaptionFrame struct {
	Page  PageIdentifier
	Start time.Duration
	End   time.Duration
	Lines []string
}

// FormatPage renders the boxed rows of pb into caption text lines. When
// colour is true, spacing-attribute colour codes are rendered as
// <font color="#RRGGBB"> spans with HTML-escaped text; otherwise colour
// codes collapse to plain spaces. A page carrying no start-box control code
// anywhere is suppressed entirely.
func FormatPage(pb *PageBuffer, colour bool) []string {
	if !pageHasBox(pb) {
		return nil
	}
	var lines []string
	for r := 1; r < pageRows; r++ {
		line := formatRow(pb.Rows[r][:], colour)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// pageHasBox reports whether any row of pb carries a start-box control code.
func pageHasBox(pb *PageBuffer) bool {
	for r := 1; r < pageRows; r++ {
		for _, c := range pb.Rows[r] {
			if c == ctrlStartBox {
				return true
			}
		}
	}
	return false
}

// formatRow extracts and renders the boxed portion of a single row: from
// the rightmost start-box control code (col_start) to the last displayable
// cell before the next end-box or row end (col_stop).
func formatRow(row []rune, colour bool) string {
	colStart := -1
	for i := len(row) - 1; i >= 0; i-- {
		if row[i] == ctrlStartBox {
			colStart = i
			break
		}
	}
	if colStart < 0 {
		return ""
	}

	colStop := colStart
	for i := colStart + 1; i < len(row); i++ {
		if row[i] == ctrlEndBox {
			break
		}
		if row[i] >= 0x20 {
			colStop = i
		}
	}

	fg := colourWhite
	for i := 0; i < colStart; i++ {
		if row[i] >= colourBlack && row[i] <= colourWhite {
			fg = int(row[i])
		}
	}

	var b strings.Builder
	open := false
	if colour && fg != colourWhite {
		b.WriteString(`<font color="` + colourHex[fg] + `">`)
		open = true
	}

	for i := colStart + 1; i <= colStop; i++ {
		c := row[i]
		switch {
		case c == unwritten, c == ctrlStartBox, c == ctrlEndBox:
			// Carries no text of its own.
		case c >= colourBlack && c <= colourWhite:
			fg = int(c)
			if colour {
				if open {
					b.WriteString("</font> ")
					open = false
				}
				if fg != colourBlack && fg != colourWhite {
					b.WriteString(`<font color="` + colourHex[fg] + `">`)
					open = true
				}
			} else {
				b.WriteByte(' ')
			}
		case c < 0x20:
			// Other control codes (double height, flash, conceal, etc.)
			// carry no text-rendering meaning for SRT output.
		default:
			writeEscaped(&b, c, colour)
		}
	}
	if open {
		b.WriteString("</font>")
	}

	return strings.TrimRight(b.String(), " ")
}

// writeEscaped writes r to b, HTML-escaping '<', '>' and '&' when colour
// mode is active (the rendered text may be embedded in <font> markup).
func writeEscaped(b *strings.Builder, r rune, colour bool) {
	if colour {
		switch r {
		case '<':
			b.WriteString("&lt;")
			return
		case '>':
			b.WriteString("&gt;")
			return
		case '&':
			b.WriteString("&amp;")
			return
		}
	}
	b.WriteRune(r)
}
