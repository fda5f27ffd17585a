// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: screen/wcwidth.go
// Summary: Display-width strategies (legacy wcwidth vs grapheme-aware).
// Usage: Selected at screen construction time.

package screen

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// WidthStrategy computes the terminal display width of a codepoint.
// Selected once at construction time (spec §9: "not per-call").
type WidthStrategy interface {
	RuneWidth(r rune) int
}

// LegacyWidth uses the classic East-Asian-Width Unicode tables via
// go-runewidth, matching the wcwidth() most terminals shipped for
// decades.
type LegacyWidth struct{}

func (LegacyWidth) RuneWidth(r rune) int {
	return runewidth.RuneWidth(r)
}

// GraphemeWidth is combining-mark aware: it asks uniseg for the width
// of the rune's grapheme cluster in isolation, which collapses
// zero-width joiners and combining marks to width 0 even for runes
// go-runewidth would otherwise misjudge.
type GraphemeWidth struct{}

func (GraphemeWidth) RuneWidth(r rune) int {
	return uniseg.StringWidth(string(r))
}

// clampWidth implements spec §4.6 step 3: clamp(wcwidth(c), 0, 2),
// with negative widths (control/unassigned) treated as 1.
func clampWidth(strategy WidthStrategy, r rune) int {
	w := strategy.RuneWidth(r)
	if w < 0 {
		return 1
	}
	if w > 2 {
		return 2
	}
	return w
}
