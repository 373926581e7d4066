/*
NAME
  srt_test.go

DESCRIPTION
  srt_test.go tests SRT and search-engine-mode rendering of caption frames.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package srt

import (
	"bytes"
	"testing"
	"time"

	"github.com/ausocean/ttxt2srt/teletext"
)

func TestWrite(t *testing.T) {
	frames := []teletext.CaptionFrame{
		{
			Start: 1*time.Second + 234*time.Millisecond,
			End:   3*time.Second + 456*time.Millisecond,
			Lines: []string{"Hello", "World"},
		},
		{
			Start: time.Hour + 2*time.Minute + 3*time.Second,
			End:   time.Hour + 2*time.Minute + 5*time.Second,
			Lines: []string{"Second cue"},
		},
	}

	var buf bytes.Buffer
	if err := Write(&buf, frames, 0, false); err != nil {
		t.Fatalf("Write: %v", err)
	}

	want := "1\r\n00:00:01,234 --> 00:00:03,456\r\nHello\r\nWorld\r\n\r\n" +
		"2\r\n01:02:03,000 --> 01:02:05,000\r\nSecond cue\r\n\r\n"
	if got := buf.String(); got != want {
		t.Errorf("Write output =\n%q\nwant\n%q", got, want)
	}
}

func TestWriteBOM(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, nil, 0, true); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := buf.String(); got != utf8BOM {
		t.Errorf("Write with bom=true, no frames = %q, want just the BOM", got)
	}
}

func TestWriteOffset(t *testing.T) {
	frames := []teletext.CaptionFrame{
		{Start: time.Second, End: 2 * time.Second, Lines: []string{"x"}},
	}
	var buf bytes.Buffer
	if err := Write(&buf, frames, 500*time.Millisecond, false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := "1\r\n00:00:01,500 --> 00:00:02,500\r\nx\r\n\r\n"
	if got := buf.String(); got != want {
		t.Errorf("Write with offset =\n%q\nwant\n%q", got, want)
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00,000"},
		{999 * time.Millisecond, "00:00:00,999"},
		{time.Hour, "01:00:00,000"},
		{-time.Second, "00:00:00,000"},
	}
	for _, tt := range tests {
		if got := formatTimestamp(tt.d); got != tt.want {
			t.Errorf("formatTimestamp(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestWriteSearchEngine(t *testing.T) {
	frames := []teletext.CaptionFrame{
		{Start: 1500 * time.Millisecond, Lines: []string{"row one", "row two"}},
	}
	var buf bytes.Buffer
	if err := WriteSearchEngine(&buf, frames, 0, time.Time{}); err != nil {
		t.Fatalf("WriteSearchEngine: %v", err)
	}
	want := "1.500000|row one row two\n"
	if got := buf.String(); got != want {
		t.Errorf("WriteSearchEngine = %q, want %q", got, want)
	}
}
