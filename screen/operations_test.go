// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: screen/operations_test.go
// Summary: Erase/motion/report/tab-stop operation tests.
// Usage: Run via go test ./screen/...

package screen

import "testing"

// capturingCallbacks records WriteToChild payloads for assertions on
// report formatting, without touching stdio.
type capturingCallbacks struct {
	NullCallbacks
	written [][]byte
}

func (c *capturingCallbacks) WriteToChild(b []byte) {
	c.written = append(c.written, append([]byte(nil), b...))
}

func (c *capturingCallbacks) last() string {
	if len(c.written) == 0 {
		return ""
	}
	return string(c.written[len(c.written)-1])
}

func TestEraseInLineModes(t *testing.T) {
	s, _ := New(3, 10, 0)
	for i := 0; i < 10; i++ {
		s.Draw('x')
	}
	s.CursorToColumn(5)

	s.EraseInLine(0, false)
	row := s.mainBuf.Row(0)
	if row.Cells[4].Char != ' ' || row.Cells[3].Char != 'x' {
		t.Errorf("EL 0 should erase from cursor to end of line only")
	}
}

func TestEraseInDisplayMode2ClearsWholeScreen(t *testing.T) {
	s, _ := New(3, 10, 0)
	s.Draw('x')
	s.CursorToLine(3)
	s.Draw('y')
	s.EraseInDisplay(2, false)
	for y := 0; y < 3; y++ {
		row := s.mainBuf.Row(y)
		for _, c := range row.Cells {
			if c.Char != ' ' {
				t.Fatalf("expected row %d fully blanked, found %q", y, c.Char)
			}
		}
	}
}

func TestEraseInDisplayMode3ClearsScrollbackOnMainOnly(t *testing.T) {
	s, _ := New(3, 10, 50)
	s.history.AddLine(NewLine(10))
	s.EraseInDisplay(3, false)
	if s.HistoryLen() != 0 {
		t.Errorf("expected ED 3 to clear scrollback history")
	}
}

func TestInsertAndDeleteLinesRespectMargins(t *testing.T) {
	s, _ := New(5, 10, 0)
	s.SetMargins(2, 4)
	s.CursorToLine(1)
	s.InsertLines(1)
	// cursor sits outside the region (row 0, region is rows 1..3 0-based); no-op expected.
	s.CursorToLine(2)
	s.Draw('A')
	s.InsertLines(1)
	row := s.mainBuf.Row(1)
	if row.Cells[0].Char != ' ' {
		t.Errorf("expected inserted blank line to push content down within margins")
	}
	s.DeleteLines(1)
	row = s.mainBuf.Row(1)
	if row.Cells[0].Char != 'A' {
		t.Errorf("expected deleted line to pull content back up within margins")
	}
}

func TestInsertCharactersShiftsRight(t *testing.T) {
	s, _ := New(3, 5, 0)
	s.Draw('a')
	s.Draw('b')
	s.CursorToColumn(1)
	s.InsertCharacters(1)
	row := s.mainBuf.Row(0)
	if row.Cells[0].Char != ' ' || row.Cells[1].Char != 'a' || row.Cells[2].Char != 'b' {
		t.Errorf("expected ICH to shift tail right, row=%+v", row.Cells[:3])
	}
}

func TestDeleteCharactersShiftsLeft(t *testing.T) {
	s, _ := New(3, 5, 0)
	s.Draw('a')
	s.Draw('b')
	s.Draw('c')
	s.CursorToColumn(1)
	s.DeleteCharacters(1)
	row := s.mainBuf.Row(0)
	if row.Cells[0].Char != 'b' || row.Cells[1].Char != 'c' {
		t.Errorf("expected DCH to shift tail left, row=%+v", row.Cells[:2])
	}
}

func TestAlignmentDisplayFillsEAndFixesBottomMargin(t *testing.T) {
	s, _ := New(4, 5, 0)
	s.SetMargins(1, 2)
	s.AlignmentDisplay()
	if s.marginBottom != s.lines-1 {
		t.Errorf("expected DECALN to reset bottom margin to lines-1, got %d", s.marginBottom)
	}
	row := s.mainBuf.Row(0)
	for _, c := range row.Cells {
		if c.Char != 'E' {
			t.Errorf("expected DECALN fill character 'E', got %q", c.Char)
		}
	}
}

func TestCursorUpDownStopAtMarginsWhenInsideRegion(t *testing.T) {
	s, _ := New(6, 10, 0)
	s.SetMargins(2, 4)
	s.CursorToLine(2)
	s.CursorUp(5)
	if s.Cursor().Y != 1 {
		t.Errorf("expected CursorUp to stop at top margin (row 1), got %d", s.Cursor().Y)
	}
	s.CursorToLine(4)
	s.CursorDown(5)
	if s.Cursor().Y != 3 {
		t.Errorf("expected CursorDown to stop at bottom margin (row 3), got %d", s.Cursor().Y)
	}
}

func TestTabForwardAndBackward(t *testing.T) {
	s, _ := New(3, 20, 0)
	s.TabForward(1)
	if s.Cursor().X != 8 {
		t.Errorf("expected first default tab stop at column 8, got %d", s.Cursor().X)
	}
	s.TabForward(1)
	if s.Cursor().X != 16 {
		t.Errorf("expected second tab stop at column 16, got %d", s.Cursor().X)
	}
	s.TabBackward(1)
	if s.Cursor().X != 8 {
		t.Errorf("expected TabBackward to return to column 8, got %d", s.Cursor().X)
	}
}

func TestClearTabStopAllRemovesEveryStop(t *testing.T) {
	s, _ := New(3, 20, 0)
	s.ClearTabStop(3)
	s.TabForward(1)
	if s.Cursor().X != 19 {
		t.Errorf("expected TabForward with no stops to land on last column, got %d", s.Cursor().X)
	}
}

func TestReportDeviceStatusCursorPositionReport(t *testing.T) {
	cb := &capturingCallbacks{}
	s, _ := New(5, 10, 0, WithCallbacks(cb))
	s.CursorPosition(3, 4)
	s.ReportDeviceStatus(6, false)
	if got, want := cb.last(), "\x1b[3;4R"; got != want {
		t.Errorf("CPR mismatch: got %q want %q", got, want)
	}
}

func TestReportModeStatusFormatsDECRPM(t *testing.T) {
	cb := &capturingCallbacks{}
	s, _ := New(5, 10, 0, WithCallbacks(cb))
	s.SetMode(EncodeMode(RawDECOM, true))
	s.ReportModeStatus(RawDECOM, true)
	if got, want := cb.last(), "\x1b[?6;1$y"; got != want {
		t.Errorf("DECRPM mismatch: got %q want %q", got, want)
	}
}

func TestReportDeviceAttributesPrimary(t *testing.T) {
	cb := &capturingCallbacks{}
	s, _ := New(5, 10, 0, WithCallbacks(cb))
	s.ReportDeviceAttributes(1, 0)
	if got, want := cb.last(), "\x1b[?62;c"; got != want {
		t.Errorf("DA1 mismatch: got %q want %q", got, want)
	}
}

func TestSetMarginsRejectsInvertedRegion(t *testing.T) {
	s, _ := New(6, 10, 0)
	s.SetMargins(4, 2)
	if s.marginTop != 0 || s.marginBottom != s.lines-1 {
		t.Errorf("expected inverted margin request to be ignored, got top=%d bottom=%d", s.marginTop, s.marginBottom)
	}
}

func TestEraseInLinePrivatePreservesStyle(t *testing.T) {
	s, _ := New(3, 10, 0)
	s.SelectGraphicRendition([]int{1})
	s.Draw('x')
	s.SelectGraphicRendition([]int{0})
	s.CursorToColumn(1)
	s.EraseInLine(2, true)
	row := s.mainBuf.Row(0)
	if row.Cells[0].Char != ' ' {
		t.Errorf("expected cell blanked, got %q", row.Cells[0].Char)
	}
	if !row.Cells[0].Bold {
		t.Errorf("expected private erase to preserve existing style (bold)")
	}
}

func TestEraseInLineNonPrivateStampsCursorStyle(t *testing.T) {
	s, _ := New(3, 10, 0)
	s.Draw('x')
	s.SelectGraphicRendition([]int{1})
	s.CursorToColumn(1)
	s.EraseInLine(2, false)
	row := s.mainBuf.Row(0)
	if !row.Cells[0].Bold {
		t.Errorf("expected non-private erase to stamp the cursor's current style")
	}
}

func TestRestoreCursorEmptyStackResetsModesAndCharsets(t *testing.T) {
	s, _ := New(5, 10, 0)
	s.SetMode(EncodeMode(RawDECOM, true))
	s.SetMode(EncodeMode(RawDECSCNM, true))
	s.CursorPosition(3, 4)
	s.RestoreCursor()
	if s.modes.DECOM || s.modes.DECSCNM {
		t.Errorf("expected empty-stack restore to reset DECOM/DECSCNM")
	}
	if s.Cursor().X != 0 || s.Cursor().Y != 0 {
		t.Errorf("expected empty-stack restore to home the cursor, got (%d,%d)", s.Cursor().X, s.Cursor().Y)
	}
}

func TestSGRUndercurl(t *testing.T) {
	s, _ := New(3, 10, 0)
	s.SelectGraphicRendition([]int{undercurlCode})
	if s.Cursor().Decoration != DecorationUndercurl {
		t.Errorf("expected undercurl decoration set, got %v", s.Cursor().Decoration)
	}
}

func TestSetCursorShapeDECSCUSR(t *testing.T) {
	s, _ := New(3, 10, 0)
	s.SetCursor(4, ' ')
	if s.Cursor().Shape != CursorUnderline {
		t.Errorf("expected underline cursor shape, got %v", s.Cursor().Shape)
	}
	if s.Cursor().Blink {
		t.Errorf("expected steady (non-blinking) cursor for even mode")
	}
}

func TestUseLatin1TogglesTranslation(t *testing.T) {
	s, _ := New(3, 10, 0)
	s.UseLatin1(true)
	if !s.charsets.Latin1 || s.charsets.UTF8 {
		t.Errorf("expected Latin1 enabled and UTF8 disabled after UseLatin1(true)")
	}
	s.UseLatin1(false)
	if s.charsets.Latin1 || !s.charsets.UTF8 {
		t.Errorf("expected UTF8 restored after UseLatin1(false)")
	}
}

func TestCursorPositionClampsToMarginsUnderDECOM(t *testing.T) {
	s, _ := New(5, 10, 0)
	s.SetMode(EncodeMode(RawDECOM, true))
	s.SetMargins(2, 4)
	s.CursorPosition(100, 1)
	if s.Cursor().Y != 3 {
		t.Errorf("expected DECOM cursor_position to clamp to margin_bottom (row 3), got %d", s.Cursor().Y)
	}
}

func TestCursorToLineClampsToMarginsUnderDECOM(t *testing.T) {
	s, _ := New(5, 10, 0)
	s.SetMode(EncodeMode(RawDECOM, true))
	s.SetMargins(2, 4)
	s.CursorToLine(100)
	if s.Cursor().Y != 3 {
		t.Errorf("expected DECOM cursor_to_line to clamp to margin_bottom (row 3), got %d", s.Cursor().Y)
	}
}

func TestScrollCapsCountAtLines(t *testing.T) {
	s, _ := New(3, 5, 10)
	s.Scroll(1000)
	if s.HistoryLen() != 3 {
		t.Errorf("expected Scroll(n) to cap at lines (3), pushed %d lines to history", s.HistoryLen())
	}
}

func TestReverseScrollCapsCountAtLines(t *testing.T) {
	s, _ := New(3, 5, 0)
	s.Draw('x')
	s.ReverseScroll(1000)
	row := s.mainBuf.Row(0)
	if row.Cells[0].Char != ' ' {
		t.Errorf("expected ReverseScroll(n) capped at lines to still clear the top row, got %q", row.Cells[0].Char)
	}
}

func TestLineFeedPerformsCarriageReturnUnderLNM(t *testing.T) {
	s, _ := New(5, 10, 0)
	s.SetMode(EncodeMode(RawLNM, false))
	s.CursorToColumn(5)
	s.LineFeed()
	if s.Cursor().X != 0 {
		t.Errorf("expected LNM linefeed to perform carriage return, got X=%d", s.Cursor().X)
	}
}

func TestLineFeedLeavesColumnWithoutLNM(t *testing.T) {
	s, _ := New(5, 10, 0)
	s.CursorToColumn(5)
	s.LineFeed()
	if s.Cursor().X != 4 {
		t.Errorf("expected linefeed without LNM to leave column untouched, got X=%d", s.Cursor().X)
	}
}

func TestByteBufferDrainEmpties(t *testing.T) {
	var b ByteBuffer
	b.Write([]byte("hello"))
	if b.Len() != 5 {
		t.Errorf("expected length 5, got %d", b.Len())
	}
	data := b.Drain()
	if string(data) != "hello" {
		t.Errorf("expected drained data %q, got %q", "hello", data)
	}
	if b.Len() != 0 {
		t.Errorf("expected buffer empty after drain, got length %d", b.Len())
	}
}
