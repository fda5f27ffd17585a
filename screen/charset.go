// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: screen/charset.go
// Summary: G0/G1 charset tables and codepoint translation.
// Usage: Consumed by the screen engine.

package screen

import "golang.org/x/text/encoding/charmap"

// CharsetID names a designatable 256-entry translation table.
type CharsetID uint8

const (
	CharsetASCII CharsetID = iota
	CharsetDECSpecialGraphics
	CharsetUK
	CharsetLatin1
)

// charsetTable is a 256-entry codepoint translation table.
type charsetTable [256]rune

var asciiTable charsetTable
var ukTable charsetTable
var decSpecialGraphicsTable charsetTable
var latin1Table charsetTable

func init() {
	for i := 0; i < 256; i++ {
		asciiTable[i] = rune(i)
	}
	ukTable = asciiTable
	ukTable['#'] = '£' // pound sign, the one ASCII/UK difference

	decSpecialGraphicsTable = asciiTable
	// VT100 DEC Special Graphics: 0x60-0x7e map to line-drawing glyphs.
	graphics := map[byte]rune{
		'`': '◆', 'a': '▒', 'b': '␉', 'c': '␌',
		'd': '␍', 'e': '␊', 'f': '°', 'g': '±',
		'h': '␤', 'i': '␋', 'j': '┘', 'k': '┐',
		'l': '┌', 'm': '└', 'n': '┼', 'o': '⎺',
		'p': '⎻', 'q': '─', 'r': '⎼', 's': '⎽',
		't': '├', 'u': '┤', 'v': '┴', 'w': '┬',
		'x': '│', 'y': '≤', 'z': '≥', '{': 'π',
		'|': '≠', '}': '£', '~': '·',
	}
	for b, r := range graphics {
		decSpecialGraphicsTable[b] = r
	}

	cm := charmap.ISO8859_1
	for i := 0; i < 256; i++ {
		latin1Table[i] = cm.DecodeByte(byte(i))
	}
}

func tableFor(id CharsetID) *charsetTable {
	switch id {
	case CharsetDECSpecialGraphics:
		return &decSpecialGraphicsTable
	case CharsetUK:
		return &ukTable
	case CharsetLatin1:
		return &latin1Table
	default:
		return &asciiTable
	}
}

// CharsetState holds G0/G1 designations, which slot is active, and the
// UTF-8/Latin-1 encoding toggle (spec §4.5).
type CharsetState struct {
	G0, G1 CharsetID
	Active int // 0 selects G0, 1 selects G1
	UTF8   bool
	Latin1 bool
}

// reset reinitializes G0 to ASCII, G1 to DEC Special Graphics,
// selects G0, and restores UTF-8 mode (Latin-1 off) -- all four together,
// never piecemeal, per kitty's RESET_CHARSETS (SPEC_FULL §4).
func (c *CharsetState) reset() {
	c.G0 = CharsetASCII
	c.G1 = CharsetDECSpecialGraphics
	c.Active = 0
	c.UTF8 = true
	c.Latin1 = false
}

// Designate sets the table for slot `which` (0=G0, 1=G1).
func (c *CharsetState) Designate(which int, as CharsetID) {
	if which == 0 {
		c.G0 = as
	} else {
		c.G1 = as
	}
}

// ChangeCharset switches the active slot (0=G0, 1=G1), e.g. SI/SO.
func (c *CharsetState) ChangeCharset(which int) {
	if which == 0 || which == 1 {
		c.Active = which
	}
}

// Translate maps codepoints below 256 through the active table; higher
// codepoints pass through unchanged (spec §4.5).
func (c *CharsetState) Translate(r rune) rune {
	if r >= 256 {
		return r
	}
	if c.Latin1 {
		return latin1Table[byte(r)]
	}
	active := c.G0
	if c.Active == 1 {
		active = c.G1
	}
	return tableFor(active)[byte(r)]
}
