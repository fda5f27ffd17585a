// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: screen/screen_test.go
// Summary: Core screen engine behavior tests.
// Usage: Run via go test ./screen/...

package screen

import "testing"

func TestNewDefaultsAndBounds(t *testing.T) {
	s, err := New(0, 0, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Lines() != 24 || s.Columns() != 80 {
		t.Errorf("expected 24x80 defaults, got %dx%d", s.Lines(), s.Columns())
	}
	if _, err := New(-1, 10, 0); err == nil {
		t.Errorf("expected error for negative lines")
	}
}

func TestCursorStaysInBounds(t *testing.T) {
	s, _ := New(5, 10, 0)
	s.CursorPosition(100, 100)
	c := s.Cursor()
	if c.X != 9 || c.Y != 4 {
		t.Errorf("cursor escaped bounds: got (%d,%d)", c.X, c.Y)
	}
	s.CursorPosition(-5, -5)
	c = s.Cursor()
	if c.X != 0 || c.Y != 0 {
		t.Errorf("cursor escaped bounds on negative input: got (%d,%d)", c.X, c.Y)
	}
}

func TestDrawAdvancesCursorByWidth(t *testing.T) {
	s, _ := New(5, 10, 0)
	s.Draw('a')
	if s.Cursor().X != 1 {
		t.Errorf("expected cursor at column 1, got %d", s.Cursor().X)
	}
	s.Draw('界') // wide CJK character
	if s.Cursor().X != 3 {
		t.Errorf("expected cursor at column 3 after wide char, got %d", s.Cursor().X)
	}
}

func TestWideCharLeavesContinuationCell(t *testing.T) {
	s, _ := New(5, 10, 0)
	s.Draw('界')
	row := s.mainBuf.Row(0)
	if row.Cells[0].Width != 2 {
		t.Errorf("expected left cell width 2, got %d", row.Cells[0].Width)
	}
	if !row.Cells[1].IsContinuation() {
		t.Errorf("expected right cell to be a continuation marker")
	}
}

func TestCombiningMarkAttachesToPriorCell(t *testing.T) {
	s, _ := New(5, 10, 0)
	s.Draw('e')
	s.Draw('́') // combining acute accent, width 0
	row := s.mainBuf.Row(0)
	combining := row.Cells[0].CombiningChars()
	if len(combining) != 1 || combining[0] != '́' {
		t.Errorf("expected combining mark attached to prior cell, got %v", combining)
	}
}

func TestScrollPushesToHistory(t *testing.T) {
	s, _ := New(3, 10, 50)
	for i := 0; i < 5; i++ {
		s.Draw(rune('0' + i))
		s.LineFeed()
		s.CarriageReturn()
	}
	if s.HistoryLen() == 0 {
		t.Errorf("expected lines pushed to history after scrolling past bottom margin")
	}
}

func TestAltScreenIsolatesContentAndCursor(t *testing.T) {
	s, _ := New(5, 10, 0)
	s.Draw('m')
	mainCursor := s.Cursor()

	s.SetMode(EncodeMode(RawAltScreenSaveHome, true))
	if !s.InAltScreen() {
		t.Fatalf("expected alt screen active")
	}
	if s.Cursor().X != 0 || s.Cursor().Y != 0 {
		t.Errorf("expected cursor homed on alt-screen entry")
	}
	s.Draw('a')
	if s.mainBuf.Row(0).Cells[0].Char != 'm' {
		t.Errorf("main buffer content leaked/changed while alt active")
	}

	s.ResetMode(EncodeMode(RawAltScreenSaveHome, true))
	if s.InAltScreen() {
		t.Fatalf("expected main screen active after alt-screen exit")
	}
	if s.Cursor() != mainCursor {
		t.Errorf("expected cursor restored to pre-alt-screen position, got %+v want %+v", s.Cursor(), mainCursor)
	}
}

func TestSaveRestoreCursorRoundTrip(t *testing.T) {
	s, _ := New(5, 10, 0)
	s.CursorPosition(3, 4)
	s.SelectGraphicRendition([]int{1})
	s.SaveCursor()

	s.CursorPosition(1, 1)
	s.SelectGraphicRendition([]int{0})

	s.RestoreCursor()
	c := s.Cursor()
	if c.X != 3 || c.Y != 2 {
		t.Errorf("expected cursor restored to (3,2) 0-based, got (%d,%d)", c.X, c.Y)
	}
	if !c.Bold {
		t.Errorf("expected bold attribute restored")
	}
}

func TestResizePreservesContent(t *testing.T) {
	s, _ := New(3, 10, 50)
	s.Draw('h')
	s.Draw('i')
	if err := s.Resize(3, 5); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	row := s.mainBuf.Row(0)
	if row.Cells[0].Char != 'h' || row.Cells[1].Char != 'i' {
		t.Errorf("expected content preserved across resize, got %q%q", row.Cells[0].Char, row.Cells[1].Char)
	}
}

func TestSGRResetClearsAttributes(t *testing.T) {
	s, _ := New(5, 10, 0)
	s.SelectGraphicRendition([]int{1, 3, 4, 7})
	s.SelectGraphicRendition([]int{0})
	c := s.Cursor()
	if c.Bold || c.Italic || c.Reverse || c.Decoration != DecorationNone {
		t.Errorf("expected SGR 0 to clear all attributes, got %+v", c)
	}
}

func TestDECOMReportedViaReportMode(t *testing.T) {
	s, _ := New(5, 10, 0)
	if s.ReportMode(EncodeMode(RawDECOM, true)) != modeStatusReset {
		t.Errorf("expected DECOM reset by default")
	}
	s.SetMode(EncodeMode(RawDECOM, true))
	if s.ReportMode(EncodeMode(RawDECOM, true)) != modeStatusSet {
		t.Errorf("expected DECOM set after SetMode")
	}
}

func TestResetDirtyClearsFlags(t *testing.T) {
	s, _ := New(5, 10, 0)
	s.Draw('x')
	if !s.IsDirty() {
		t.Errorf("expected dirty after draw")
	}
	s.ResetDirty()
	if s.IsDirty() || s.CursorChanged() || s.HistoryLineAddedCount() != 0 {
		t.Errorf("expected all dirty flags cleared after ResetDirty")
	}
}
