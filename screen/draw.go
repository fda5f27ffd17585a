// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: screen/draw.go
// Summary: Codepoint drawing: charset, width, autowrap, combining marks.
// Usage: Consumed by internal/vtadapt.

package screen

// Draw processes one decoded codepoint through charset translation,
// width resolution, DECAWM autowrap, insert mode, and combining-mark
// attachment (spec §4.6). Control characters below 0x20 (and 0x7f)
// never reach Draw -- the adapter dispatches those as Execute actions
// -- so any such codepoint here is ignored defensively.
func (s *Screen) Draw(codepoint rune) {
	if codepoint < 0x20 || codepoint == 0x7f {
		return
	}

	r := s.charsets.Translate(codepoint)
	w := clampWidth(s.widthStrategy, r)

	if w == 0 {
		s.attachCombining(r)
		return
	}

	if s.cursor.X+w > s.columns {
		if s.modes.DECAWM {
			s.wrapLine()
		} else {
			s.cursor.X = s.columns - w
			if s.cursor.X < 0 {
				s.cursor.X = 0
			}
		}
	}

	s.linebuf.InitLine(s.cursor.Y)
	if s.modes.IRM {
		s.linebuf.RightShift(s.cursor.X, w, &s.cursor)
	}
	s.linebuf.SetChar(s.cursor.X, r, w, &s.cursor)
	s.cursor.X += w
	s.markDirty()
}

// wrapLine advances the cursor to the start of the row below, scrolling
// the region if already at its bottom margin, and marks that new row as
// continuing the one above.
func (s *Screen) wrapLine() {
	if s.cursor.Y == s.marginBottom {
		s.scrollUpOnce()
		s.cursor.X = 0
	} else {
		s.cursor.Y++
		s.cursor.X = 0
	}
	if s.cursor.Y >= 0 && s.cursor.Y < s.linebuf.Rows() {
		s.linebuf.Row(s.cursor.Y).Continued = true
	}
	s.markDirty()
}

// attachCombining attaches a zero-width combining mark to the cell the
// cursor just drew, or, if the cursor sits at column 0, to the last
// cell of the row above (spec §4.6's "cross-row attach").
func (s *Screen) attachCombining(r rune) {
	x := s.cursor.X - 1
	y := s.cursor.Y
	if x < 0 {
		y--
		if y < 0 {
			return
		}
		x = s.columns - 1
	}
	s.linebuf.InitLine(y)
	if s.linebuf.AddCombining(r, x) {
		s.markDirty()
	}
}
