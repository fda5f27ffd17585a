// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: screen/erase.go
// Summary: Erase-in-line/display, insert/delete line/character operations.
// Usage: Consumed by internal/vtadapt.

package screen

// eraseRange blanks n cells of the current row starting at x. When
// private, only the text content is cleared and each cell's existing
// style survives; otherwise the cursor's style is stamped onto the
// erased cells (spec §4.6).
func (s *Screen) eraseRange(x, n int, private bool) {
	if private {
		s.linebuf.ClearText(x, n, ' ')
	} else {
		s.linebuf.ApplyCursor(&s.cursor, x, n, ' ')
	}
}

// EraseInLine implements EL: how 0 erases from the cursor to the end
// of the line, 1 from the start of the line to the cursor (inclusive),
// 2 the entire line.
func (s *Screen) EraseInLine(how int, private bool) {
	s.linebuf.InitLine(s.cursor.Y)
	switch how {
	case 1:
		s.eraseRange(0, s.cursor.X+1, private)
	case 2:
		s.eraseRange(0, s.columns, private)
	default:
		s.eraseRange(s.cursor.X, s.columns-s.cursor.X, private)
	}
	s.markDirty()
}

// EraseInDisplay implements ED: how 0 erases from the cursor to the
// end of the screen, 1 from the start of the screen to the cursor
// (inclusive), 2 the entire visible screen, 3 the entire screen plus
// scrollback history.
func (s *Screen) EraseInDisplay(how int, private bool) {
	switch how {
	case 1:
		for y := 0; y < s.cursor.Y; y++ {
			s.linebuf.InitLine(y)
			s.eraseRange(0, s.columns, private)
		}
		s.EraseInLine(1, private)
	case 2, 3:
		for y := 0; y < s.lines; y++ {
			s.linebuf.InitLine(y)
			s.eraseRange(0, s.columns, private)
		}
		if how == 3 && !s.altActive {
			s.history = NewHistoryBuf(s.scrollback, s.columns)
		}
	default:
		s.EraseInLine(0, private)
		for y := s.cursor.Y + 1; y < s.lines; y++ {
			s.linebuf.InitLine(y)
			s.eraseRange(0, s.columns, private)
		}
	}
	s.markDirty()
}

// InsertLines implements IL: inserts n blank lines at the cursor's
// row, within the scroll region, only when the cursor sits inside the
// region.
func (s *Screen) InsertLines(n int) {
	if n <= 0 {
		n = 1
	}
	if s.cursor.Y < s.marginTop || s.cursor.Y > s.marginBottom {
		return
	}
	s.linebuf.InsertLines(n, s.cursor.Y, s.marginBottom)
	s.markDirty()
}

// DeleteLines implements DL: deletes n lines at the cursor's row,
// within the scroll region, only when the cursor sits inside the
// region.
func (s *Screen) DeleteLines(n int) {
	if n <= 0 {
		n = 1
	}
	if s.cursor.Y < s.marginTop || s.cursor.Y > s.marginBottom {
		return
	}
	s.linebuf.DeleteLines(n, s.cursor.Y, s.marginBottom)
	s.markDirty()
}

// InsertCharacters implements ICH: shifts the tail of the current row
// right by n, losing characters that fall off the right edge.
func (s *Screen) InsertCharacters(n int) {
	if n <= 0 {
		n = 1
	}
	s.linebuf.InitLine(s.cursor.Y)
	s.linebuf.RightShift(s.cursor.X, n, &s.cursor)
	s.markDirty()
}

// DeleteCharacters implements DCH: shifts the tail of the current row
// left by n, filling the vacated tail with blanks.
func (s *Screen) DeleteCharacters(n int) {
	if n <= 0 {
		n = 1
	}
	s.linebuf.InitLine(s.cursor.Y)
	s.linebuf.LeftShift(s.cursor.X, n)
	s.markDirty()
}

// EraseCharacters implements ECH: blanks n cells starting at the
// cursor without shifting anything.
func (s *Screen) EraseCharacters(n int) {
	if n <= 0 {
		n = 1
	}
	s.linebuf.InitLine(s.cursor.Y)
	s.linebuf.ApplyCursor(&s.cursor, s.cursor.X, n, ' ')
	s.markDirty()
}

// AlignmentDisplay implements DECALN: fills the entire screen with
// 'E', resets margins to the full screen, and homes the cursor. The
// bottom margin is set to lines-1 (not lines), matching the index
// convention the rest of the scroll-region code uses.
func (s *Screen) AlignmentDisplay() {
	for y := 0; y < s.lines; y++ {
		s.linebuf.InitLine(y)
		s.linebuf.ClearRowWithChar('E')
	}
	s.marginTop = 0
	s.marginBottom = s.lines - 1
	s.setCursorPos(0, 0)
	s.markDirty()
}
