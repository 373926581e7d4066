/*
NAME
  frame_test.go

DESCRIPTION
  frame_test.go tests the caption frame formatter in frame.go.

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

import "testing"

func TestFormatPageSuppressedWithoutBox(t *testing.T) {
	pb := newPageBuffer(PageIdentifier{Magazine: 1, Page: 0x01})
	copy(pb.Rows[1][:], []rune("hello, no box here"))

	if lines := FormatPage(pb, false); lines != nil {
		t.Errorf("FormatPage with no start-box code = %v, want nil", lines)
	}
}

func TestFormatPageMonochrome(t *testing.T) {
	pb := newPageBuffer(PageIdentifier{Magazine: 1, Page: 0x01})
	row := &pb.Rows[1]
	row[0] = ctrlStartBox
	copy(row[1:], []rune("HELLO"))
	row[6] = ctrlEndBox

	lines := FormatPage(pb, false)
	want := []string{"HELLO"}
	if len(lines) != len(want) || lines[0] != want[0] {
		t.Errorf("FormatPage = %v, want %v", lines, want)
	}
}

func TestFormatPageColour(t *testing.T) {
	pb := newPageBuffer(PageIdentifier{Magazine: 1, Page: 0x01})
	row := &pb.Rows[1]
	row[0] = 1 // Red spacing-attribute control code, before the box.
	row[1] = ctrlStartBox
	copy(row[2:], []rune("HELLO"))
	row[7] = ctrlEndBox

	lines := FormatPage(pb, true)
	want := `<font color="#FF0000">HELLO</font>`
	if len(lines) != 1 || lines[0] != want {
		t.Errorf("FormatPage(colour) = %v, want [%q]", lines, want)
	}
}

func TestFormatPageEscapesMarkupInColourMode(t *testing.T) {
	pb := newPageBuffer(PageIdentifier{Magazine: 1, Page: 0x01})
	row := &pb.Rows[2]
	row[0] = ctrlStartBox
	copy(row[1:], []rune("<tom & jerry>"))
	row[14] = ctrlEndBox

	lines := FormatPage(pb, true)
	want := "&lt;tom &amp; jerry&gt;"
	if len(lines) != 1 || lines[0] != want {
		t.Errorf("FormatPage(colour) = %v, want [%q]", lines, want)
	}
}
