/*
NAME
  srt.go

DESCRIPTION
  srt.go renders decoded teletext caption frames as SubRip (SRT) text, the
  format most video players and search pipelines expect.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package srt writes teletext caption frames as SubRip (.srt) subtitle
// text, in both the conventional multi-line entry format and the
// single-line "search engine" format used for full-text indexing.
package srt

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ausocean/ttxt2srt/teletext"
)

// utf8BOM is the byte-order mark conventionally prepended to UTF-8 SRT
// files so that players which sniff for it recognise the encoding.
const utf8BOM = "﻿"

// Write renders frames as SRT text to w: one CRLF-delimited entry per
// frame, numbered from 1, with show/hide timestamps offset by offset. When
// bom is true, a UTF-8 byte-order mark is written first.
func Write(w io.Writer, frames []teletext.CaptionFrame, offset time.Duration, bom bool) error {
	if bom {
		if _, err := io.WriteString(w, utf8BOM); err != nil {
			return err
		}
	}
	for i, f := range frames {
		show := f.Start + offset
		hide := f.End + offset
		if hide < show {
			hide = show
		}
		_, err := fmt.Fprintf(w, "%d\r\n%s --> %s\r\n%s\r\n\r\n",
			i+1, formatTimestamp(show), formatTimestamp(hide), strings.Join(f.Lines, "\r\n"))
		if err != nil {
			return err
		}
	}
	return nil
}

// formatTimestamp renders d as an SRT timestamp, HH:MM:SS,mmm.
func formatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	h := ms / 3600000
	ms -= h * 3600000
	m := ms / 60000
	ms -= m * 60000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// WriteSearchEngine renders frames in the single-line search-engine format:
// one line per frame, `seconds_float|row row row`, rows joined by a single
// space instead of a newline so that an indexer can treat each frame as one
// token-searchable document. When ref is non-zero, it's added to each
// frame's Start before formatting as the seconds offset, matching a BSD
// timestamp reconciled against a UTC reference.
func WriteSearchEngine(w io.Writer, frames []teletext.CaptionFrame, offset time.Duration, ref time.Time) error {
	for _, f := range frames {
		shown := f.Start + offset
		seconds := shown.Seconds()
		if !ref.IsZero() {
			seconds = float64(ref.Unix()) + seconds
		}
		line := strings.Join(f.Lines, " ")
		if _, err := fmt.Fprintf(w, "%f|%s\n", seconds, line); err != nil {
			return err
		}
	}
	return nil
}
