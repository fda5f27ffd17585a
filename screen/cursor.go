// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: screen/cursor.go
// Summary: Cursor position, shape, and style attribute state.
// Usage: Consumed by the screen engine.

package screen

// CursorShape selects the DECSCUSR-reported cursor glyph.
type CursorShape uint8

const (
	CursorBlock CursorShape = iota
	CursorUnderline
	CursorBeam
)

// Cursor holds position, shape/blink, and the style attributes that
// newly drawn cells inherit verbatim (spec §4.1).
type Cursor struct {
	X, Y    int
	Shape   CursorShape
	Blink   bool
	Visible bool

	FG, BG       Color
	DecorationFG Color
	Decoration   DecorationStyle

	Bold, Italic, Reverse, Strikethrough bool
}

// newCursor returns a cursor at the origin with default style, visible,
// block shape, blinking -- xterm's power-on defaults.
func newCursor() Cursor {
	c := Cursor{Visible: true, Shape: CursorBlock, Blink: true}
	c.ResetDisplayAttrs()
	return c
}

// Reset clears attributes (style + shape/blink/visibility) but leaves
// X, Y untouched, per spec §3's Cursor.reset() contract.
func (c *Cursor) Reset() {
	c.ResetDisplayAttrs()
	c.Shape = CursorBlock
	c.Blink = true
	c.Visible = true
}

// ResetDisplayAttrs clears only the style fields (fg/bg/decoration/bold
// family), leaving position, shape, blink and visibility alone. This is
// what SGR 0 drives.
func (c *Cursor) ResetDisplayAttrs() {
	c.FG = DefaultColor
	c.BG = DefaultColor
	c.DecorationFG = DefaultColor
	c.Decoration = DecorationNone
	c.Bold, c.Italic, c.Reverse, c.Strikethrough = false, false, false, false
}

// copyCursor copies src's fields into dst (spec's cursor_copy(src,dst)).
func copyCursor(dst, src *Cursor) { *dst = *src }

// SetCursor implements DECSCUSR (CSI Ps SP q): mode selects shape and
// blink, secondary names which final-intermediate family the request
// belongs to -- only ' ' (DECSCUSR itself) is recognized; other
// families (DECLL, DECCSA) are accepted but have no modeled effect.
func (s *Screen) SetCursor(mode int, secondary byte) {
	if secondary != ' ' {
		return
	}
	shape, blink := CursorBlock, false
	if mode > 0 {
		blink = mode%2 == 1
		switch {
		case mode < 3:
			shape = CursorBlock
		case mode < 5:
			shape = CursorUnderline
		case mode < 7:
			shape = CursorBeam
		default:
			shape = CursorBlock
		}
	}
	if shape != s.cursor.Shape || blink != s.cursor.Blink {
		s.cursor.Shape = shape
		s.cursor.Blink = blink
		s.markCursorChanged()
	}
}
