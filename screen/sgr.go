// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: screen/sgr.go
// Summary: Select Graphic Rendition parameter handling.
// Usage: Consumed by internal/vtadapt.

package screen

import "strconv"

// undercurlCode is the pseudo-parameter kitty's CSI parser synthesizes
// from the colon-subparameter form "4:3" (curly underline), since this
// package's SGR params arrive flattened to a plain []int rather than
// carrying colon subparameters (spec §4.6: "4 underline. (extended
// code) undercurl").
const undercurlCode = 223

// SelectGraphicRendition applies an SGR parameter sequence to the
// cursor's style, which subsequently-drawn cells inherit verbatim
// (spec §4.6). Unknown parameters are logged and skipped; indexed and
// RGB color sub-sequences (38/48;5;n and 38/48;2;r;g;b) consume their
// trailing parameters.
func (s *Screen) SelectGraphicRendition(params []int) {
	if len(params) == 0 {
		params = []int{0}
	}
	for i := 0; i < len(params); i++ {
		p := params[i]
		switch {
		case p == 0:
			s.cursor.ResetDisplayAttrs()
		case p == 1:
			s.cursor.Bold = true
		case p == 3:
			s.cursor.Italic = true
		case p == 4:
			s.cursor.Decoration = DecorationUnderline
		case p == undercurlCode:
			s.cursor.Decoration = DecorationUndercurl
		case p == 7:
			s.cursor.Reverse = true
		case p == 9:
			s.cursor.Strikethrough = true
		case p == 21 || p == 22:
			s.cursor.Bold = false
		case p == 23:
			s.cursor.Italic = false
		case p == 24:
			s.cursor.Decoration = DecorationNone
		case p == 27:
			s.cursor.Reverse = false
		case p == 29:
			s.cursor.Strikethrough = false
		case p >= 30 && p <= 37:
			s.cursor.FG = NewIndexedColor(uint8(p - 30))
		case p == 38:
			color, consumed := s.parseExtendedColor(params[i+1:])
			if consumed > 0 {
				s.cursor.FG = color
				i += consumed
			}
		case p == 39:
			s.cursor.FG = DefaultColor
		case p >= 40 && p <= 47:
			s.cursor.BG = NewIndexedColor(uint8(p - 40))
		case p == 48:
			color, consumed := s.parseExtendedColor(params[i+1:])
			if consumed > 0 {
				s.cursor.BG = color
				i += consumed
			}
		case p == 49:
			s.cursor.BG = DefaultColor
		case p >= 90 && p <= 97:
			s.cursor.FG = NewIndexedColor(uint8(p-90) + 8)
		case p >= 100 && p <= 107:
			s.cursor.BG = NewIndexedColor(uint8(p-100) + 8)
		case p == 58:
			color, consumed := s.parseExtendedColor(params[i+1:])
			if consumed > 0 {
				s.cursor.DecorationFG = color
				i += consumed
			}
		case p == 59:
			s.cursor.DecorationFG = DefaultColor
		default:
			s.logger.Unsupported("SGR parameter", strconv.Itoa(p))
		}
	}
}

// parseExtendedColor decodes the "5;n" (indexed) or "2;r;g;b" (RGB)
// continuation of an SGR 38/48/58 sequence. It returns the color and
// how many of rest's entries it consumed.
func (s *Screen) parseExtendedColor(rest []int) (Color, int) {
	if len(rest) == 0 {
		return DefaultColor, 0
	}
	switch rest[0] {
	case 5:
		if len(rest) < 2 {
			return DefaultColor, 0
		}
		return NewIndexedColor(uint8(rest[1])), 2
	case 2:
		if len(rest) < 4 {
			return DefaultColor, 0
		}
		return NewRGBColor(uint8(rest[1]), uint8(rest[2]), uint8(rest[3])), 4
	default:
		s.logger.Unsupported("SGR extended color selector", strconv.Itoa(rest[0]))
		return DefaultColor, 0
	}
}

