// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: screen/cell.go
// Summary: Single styled grid cell, including combining marks.
// Usage: Consumed by linebuf and the screen engine.

package screen

// maxCombining bounds the number of combining marks a single cell can
// carry before further marks are silently dropped.
const maxCombining = 2

// DecorationStyle names the underline-family decoration drawn under a cell.
type DecorationStyle uint8

const (
	DecorationNone DecorationStyle = iota
	DecorationUnderline
	DecorationUndercurl
)

// Cell is a single styled grid position. A width-2 codepoint occupies
// two adjacent cells: the left one carries Width 2, the right one is a
// continuation marker with Char 0 and Width 0.
type Cell struct {
	Char       rune
	combining  [maxCombining]rune
	nCombining uint8
	Width      uint8

	FG, BG       Color
	DecorationFG Color
	Decoration   DecorationStyle

	Bold, Italic, Reverse, Strikethrough bool
}

// blankCell returns a single-width space cell with default styling.
func blankCell() Cell {
	return Cell{Char: ' ', Width: 1, FG: DefaultColor, BG: DefaultColor, DecorationFG: DefaultColor}
}

// styledBlank returns a single-width space cell carrying the cursor's
// current style, as used by erase operations that stamp cursor style
// onto cleared cells.
func styledBlank(cur *Cursor) Cell {
	return Cell{
		Char: ' ', Width: 1,
		FG: cur.FG, BG: cur.BG,
		DecorationFG: cur.DecorationFG, Decoration: cur.Decoration,
		Bold: cur.Bold, Italic: cur.Italic, Reverse: cur.Reverse, Strikethrough: cur.Strikethrough,
	}
}

// continuationCell is the zero-width right half of a wide cell; it
// inherits the left half's style so partial erases still look sane.
func continuationCell(left Cell) Cell {
	c := left
	c.Char = 0
	c.Width = 0
	c.nCombining = 0
	c.combining = [maxCombining]rune{}
	return c
}

// IsContinuation reports whether this cell is the right half of a wide cell.
func (c *Cell) IsContinuation() bool { return c.Width == 0 }

// AddCombining appends a combining mark, dropping it silently once
// maxCombining is reached (spec invariant: bounded, not unbounded).
func (c *Cell) AddCombining(r rune) bool {
	if int(c.nCombining) >= len(c.combining) {
		return false
	}
	c.combining[c.nCombining] = r
	c.nCombining++
	return true
}

// CombiningChars returns the combining marks attached to this cell.
func (c *Cell) CombiningChars() []rune { return c.combining[:c.nCombining] }

// styleFrom copies the cursor's style fields onto c verbatim, matching
// C1's "newly drawn cells copy the cursor's style fields verbatim".
func (c *Cell) styleFrom(cur *Cursor) {
	c.FG, c.BG = cur.FG, cur.BG
	c.DecorationFG, c.Decoration = cur.DecorationFG, cur.Decoration
	c.Bold, c.Italic, c.Reverse, c.Strikethrough = cur.Bold, cur.Italic, cur.Reverse, cur.Strikethrough
}
