// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: screen/scroll.go
// Summary: Scroll-region index/reverse-index and margin handling.
// Usage: Consumed by the screen engine.

package screen

// Index moves content up by one within the scroll region: the top
// margin row is discarded (pushed to history when the region spans the
// whole main buffer, per spec invariant 4) and a blank row
// appears at the bottom margin. If the cursor sits below the scroll
// region it simply moves down instead (matches kitty's index()).
func (s *Screen) Index() {
	if s.cursor.Y < s.marginTop || s.cursor.Y > s.marginBottom {
		s.CursorDown(1)
		return
	}
	if s.cursor.Y < s.marginBottom {
		s.setCursorPos(s.cursor.Y+1, s.cursor.X)
		return
	}
	s.scrollUpOnce()
	s.markDirty()
}

// scrollUpOnce rotates [marginTop, marginBottom] up by one row,
// feeding the expelled row to history only when the whole screen is
// scrolling (margins span every row) on the main buffer.
func (s *Screen) scrollUpOnce() {
	expelled := s.linebuf.Index(s.marginTop, s.marginBottom)
	if !s.altActive && s.marginTop == 0 && s.marginBottom == s.lines-1 {
		s.history.AddLine(expelled)
		s.historyLineAddedCount++
	}
}

// ReverseIndex moves content down by one within the scroll region: a
// blank row appears at the top margin and the bottom margin row is
// discarded. If the cursor sits above the scroll region it moves up
// instead.
func (s *Screen) ReverseIndex() {
	if s.cursor.Y < s.marginTop || s.cursor.Y > s.marginBottom {
		s.CursorUp(1)
		return
	}
	if s.cursor.Y > s.marginTop {
		s.setCursorPos(s.cursor.Y-1, s.cursor.X)
		return
	}
	s.linebuf.ReverseIndex(s.marginTop, s.marginBottom)
	s.markDirty()
}

// Scroll scrolls the region up by n lines (as if n Index calls fired
// at the bottom margin), without moving the cursor. n is capped at
// s.lines, matching kitty's screen_scroll.
func (s *Screen) Scroll(n int) {
	if n <= 0 {
		n = 1
	}
	if n > s.lines {
		n = s.lines
	}
	for i := 0; i < n; i++ {
		s.scrollUpOnce()
	}
	s.markDirty()
}

// ReverseScroll scrolls the region down by n lines, without moving the
// cursor. n is capped at s.lines, matching kitty's screen_reverse_scroll.
func (s *Screen) ReverseScroll(n int) {
	if n <= 0 {
		n = 1
	}
	if n > s.lines {
		n = s.lines
	}
	for i := 0; i < n; i++ {
		s.linebuf.ReverseIndex(s.marginTop, s.marginBottom)
	}
	s.markDirty()
}

// SetMargins establishes the vertical scroll region, 1-based and
// inclusive; top==0 and bottom==0 both reset to the full screen
// (spec §4.4 DECSTBM). An invalid region (top >= bottom) is ignored.
// The cursor homes to (1,1) of the (possibly DECOM-relative) region.
func (s *Screen) SetMargins(top, bottom int) {
	if top <= 0 {
		top = 1
	}
	if bottom <= 0 || bottom > s.lines {
		bottom = s.lines
	}
	t, b := top-1, bottom-1
	if t >= b {
		return
	}
	s.marginTop, s.marginBottom = t, b
	if s.modes.DECOM {
		s.setCursorPos(s.marginTop, 0)
	} else {
		s.setCursorPos(0, 0)
	}
}

// SaveCursor pushes a Savepoint capturing cursor position, style,
// DECOM/DECAWM/DECSCNM, and charset state onto the active buffer's
// ring (spec §3 Savepoint; DECSC).
func (s *Screen) SaveCursor() {
	sp := Savepoint{
		Cursor:   s.cursor,
		DECOM:    s.modes.DECOM,
		DECAWM:   s.modes.DECAWM,
		DECSCNM:  s.modes.DECSCNM,
		Charsets: s.charsets,
	}
	s.activeSavepoints().Push(sp)
}

// RestoreCursor pops the most recent Savepoint from the active
// buffer's ring and applies it (DECRC). If the ring is empty, it homes
// the cursor and resets DECOM, DECSCNM, and the charsets instead,
// matching spec §4.4's empty-stack fallback.
func (s *Screen) RestoreCursor() {
	sp, ok := s.activeSavepoints().Pop()
	if !ok {
		s.setCursorPos(0, 0)
		s.modes.DECOM = false
		s.modes.DECSCNM = false
		s.charsets.reset()
		s.markCursorChanged()
		return
	}
	s.cursor = sp.Cursor
	s.modes.DECOM = sp.DECOM
	s.modes.DECAWM = sp.DECAWM
	s.modes.DECSCNM = sp.DECSCNM
	s.charsets = sp.Charsets
	s.markCursorChanged()
}
