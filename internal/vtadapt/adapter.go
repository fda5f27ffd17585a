// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// Package vtadapt bridges github.com/cliofy/govte's byte-level VT
// parser into typed github.com/texelation-contrib/vtscreen/screen
// calls, implementing govte.Performer. It carries no screen state of
// its own; every byte it decodes is forwarded straight into a
// *screen.Screen.
package vtadapt

import (
	"strconv"

	"github.com/cliofy/govte"

	"github.com/texelation-contrib/vtscreen/screen"
)

// Adapter implements govte.Performer over a *screen.Screen.
type Adapter struct {
	Screen *screen.Screen

	dcsQuery     []byte
	dcsIsGetTCap bool
}

// New returns an Adapter driving s.
func New(s *screen.Screen) *Adapter {
	return &Adapter{Screen: s}
}

// Print forwards one decoded, printable codepoint.
func (a *Adapter) Print(c rune) {
	a.Screen.Draw(c)
}

// Execute forwards a single C0/C1 control byte.
func (a *Adapter) Execute(b byte) {
	switch b {
	case 0x07: // BEL
		a.Screen.Bell()
	case 0x08: // BS
		a.Screen.CursorBack(1)
	case 0x09: // HT
		a.Screen.TabForward(1)
	case 0x0a, 0x0b, 0x0c: // LF, VT, FF
		a.Screen.LineFeed()
	case 0x0d: // CR
		a.Screen.CarriageReturn()
	case 0x0e: // SO - select G1
		a.Screen.ChangeCharset(1)
	case 0x0f: // SI - select G0
		a.Screen.ChangeCharset(0)
	}
}

// Hook starts a DCS sequence. Only XTGETTCAP ("+q") is recognized; its
// query payload accumulates across Put calls until Unhook.
func (a *Adapter) Hook(params *govte.Params, intermediates []byte, ignore bool, action rune) {
	a.dcsQuery = a.dcsQuery[:0]
	a.dcsIsGetTCap = !ignore && action == 'q' && len(intermediates) > 0 && intermediates[len(intermediates)-1] == '+'
}

// Put accumulates one byte of the current DCS payload.
func (a *Adapter) Put(b byte) {
	if a.dcsIsGetTCap {
		a.dcsQuery = append(a.dcsQuery, b)
	}
}

// Unhook forwards a completed XTGETTCAP query to the screen.
func (a *Adapter) Unhook() {
	if a.dcsIsGetTCap {
		a.Screen.RequestCapabilities(string(a.dcsQuery))
	}
	a.dcsIsGetTCap = false
	a.dcsQuery = a.dcsQuery[:0]
}

// oscValue returns params[1] as a *string, or nil for a query (absent
// or "?" payload), matching kitty's set_dynamic_color(code, NULL) query
// convention.
func oscValue(params [][]byte) *string {
	if len(params) < 2 || string(params[1]) == "?" {
		return nil
	}
	v := string(params[1])
	return &v
}

// OscDispatch forwards window title / icon / palette / dynamic-color
// OSC sequences to the screen's callback surface.
func (a *Adapter) OscDispatch(params [][]byte, bellTerminated bool) {
	if len(params) == 0 || len(params[0]) == 0 {
		return
	}
	switch string(params[0]) {
	case "0", "2":
		if len(params) > 1 {
			a.Screen.SetTitle(string(params[1]))
		}
	case "1":
		if len(params) > 1 {
			a.Screen.SetIcon(string(params[1]))
		}
	case "4":
		if len(params) < 2 {
			return
		}
		index, err := strconv.Atoi(string(params[1]))
		if err != nil {
			return
		}
		var value *string
		if len(params) > 2 && string(params[2]) != "?" {
			v := string(params[2])
			value = &v
		}
		a.Screen.SetColorTableColor(index, value)
	case "10", "11", "12", "13", "14", "15", "16", "17", "18", "19", "110", "111", "112", "117", "118", "119":
		code, err := strconv.Atoi(string(params[0]))
		if err == nil {
			a.Screen.SetDynamicColor(code, oscValue(params))
		}
	default:
		a.Screen.UnsupportedOSC(string(params[0]))
	}
}

// paramAt returns the i-th parameter group's first value, or def if
// absent.
func paramAt(groups [][]uint16, i, def int) int {
	if i < len(groups) && len(groups[i]) > 0 {
		return int(groups[i][0])
	}
	return def
}

// allParamsAsInts flattens every group's first value into a single
// slice, as SGR and similar sequences need (sub-parameters within a
// group beyond the first are not used by any sequence this adapter
// decodes).
func allParamsAsInts(groups [][]uint16) []int {
	out := make([]int, 0, len(groups))
	for _, g := range groups {
		if len(g) > 0 {
			out = append(out, int(g[0]))
		} else {
			out = append(out, 0)
		}
	}
	return out
}

func isPrivate(intermediates []byte) bool {
	for _, b := range intermediates {
		if b == '?' {
			return true
		}
	}
	return false
}

// CsiDispatch forwards a decoded CSI sequence to the matching typed
// screen.Screen operation.
func (a *Adapter) CsiDispatch(params *govte.Params, intermediates []byte, ignore bool, action rune) {
	if ignore {
		return
	}
	var groups [][]uint16
	if params != nil {
		groups = params.Iter()
	}
	private := isPrivate(intermediates)

	switch action {
	case 'H', 'f':
		a.Screen.CursorPosition(paramAt(groups, 0, 1), paramAt(groups, 1, 1))
	case 'A':
		a.Screen.CursorUp(paramAt(groups, 0, 1))
	case 'B':
		a.Screen.CursorDown(paramAt(groups, 0, 1))
	case 'C':
		a.Screen.CursorForward(paramAt(groups, 0, 1))
	case 'D':
		a.Screen.CursorBack(paramAt(groups, 0, 1))
	case 'E':
		a.Screen.CursorNextLine(paramAt(groups, 0, 1))
	case 'F':
		a.Screen.CursorPrevLine(paramAt(groups, 0, 1))
	case 'G', '`':
		a.Screen.CursorToColumn(paramAt(groups, 0, 1))
	case 'd':
		a.Screen.CursorToLine(paramAt(groups, 0, 1))
	case 'I':
		a.Screen.TabForward(paramAt(groups, 0, 1))
	case 'Z':
		a.Screen.TabBackward(paramAt(groups, 0, 1))
	case 'g':
		a.Screen.ClearTabStop(paramAt(groups, 0, 0))
	case 'J':
		a.Screen.EraseInDisplay(paramAt(groups, 0, 0), private)
	case 'K':
		a.Screen.EraseInLine(paramAt(groups, 0, 0), private)
	case 'L':
		a.Screen.InsertLines(paramAt(groups, 0, 1))
	case 'M':
		a.Screen.DeleteLines(paramAt(groups, 0, 1))
	case '@':
		a.Screen.InsertCharacters(paramAt(groups, 0, 1))
	case 'P':
		a.Screen.DeleteCharacters(paramAt(groups, 0, 1))
	case 'X':
		a.Screen.EraseCharacters(paramAt(groups, 0, 1))
	case 'S':
		a.Screen.Scroll(paramAt(groups, 0, 1))
	case 'T':
		a.Screen.ReverseScroll(paramAt(groups, 0, 1))
	case 'r':
		a.Screen.SetMargins(paramAt(groups, 0, 0), paramAt(groups, 1, 0))
	case 'm':
		a.Screen.SelectGraphicRendition(allParamsAsInts(groups))
	case 's':
		if private {
			for _, p := range groups {
				if len(p) > 0 {
					a.Screen.SetMode(screen.EncodeMode(int(p[0]), true))
				}
			}
			return
		}
		a.Screen.SaveCursor()
	case 'u':
		a.Screen.RestoreCursor()
	case 'h':
		for _, p := range groups {
			if len(p) > 0 {
				a.Screen.SetMode(screen.EncodeMode(int(p[0]), private))
			}
		}
	case 'l':
		for _, p := range groups {
			if len(p) > 0 {
				a.Screen.ResetMode(screen.EncodeMode(int(p[0]), private))
			}
		}
	case 'n':
		a.Screen.ReportDeviceStatus(paramAt(groups, 0, 0), private)
	case 'c':
		mode := 1
		for _, b := range intermediates {
			if b == '>' {
				mode = 2
			}
		}
		a.Screen.ReportDeviceAttributes(mode, paramAt(groups, 0, 0))
	case 'p':
		if private && len(intermediates) > 0 && intermediates[len(intermediates)-1] == '$' {
			a.Screen.ReportModeStatus(paramAt(groups, 0, 0), true)
		}
	case 'q':
		var secondary byte
		if len(intermediates) > 0 {
			secondary = intermediates[len(intermediates)-1]
		}
		a.Screen.SetCursor(paramAt(groups, 0, 0), secondary)
	}
}

// charsetDesignation maps a designate-charset final byte to the
// CharsetID it selects (the common VT100/xterm set; anything else is
// treated as ASCII).
func charsetDesignation(b byte) screen.CharsetID {
	switch b {
	case '0':
		return screen.CharsetDECSpecialGraphics
	case 'A':
		return screen.CharsetUK
	default:
		return screen.CharsetASCII
	}
}

// EscDispatch forwards a decoded escape (non-CSI, non-OSC) sequence.
func (a *Adapter) EscDispatch(intermediates []byte, ignore bool, b byte) {
	if ignore {
		return
	}
	if len(intermediates) > 0 {
		switch intermediates[0] {
		case '(':
			a.Screen.DesignateCharset(0, charsetDesignation(b))
			return
		case ')':
			a.Screen.DesignateCharset(1, charsetDesignation(b))
			return
		case '%':
			switch b {
			case '@':
				a.Screen.UseLatin1(true)
			case 'G':
				a.Screen.UseLatin1(false)
			}
			return
		}
	}
	switch b {
	case 'D':
		a.Screen.Index()
	case 'M':
		a.Screen.ReverseIndex()
	case 'E':
		a.Screen.CursorNextLine(1)
	case '7':
		a.Screen.SaveCursor()
	case '8':
		if len(intermediates) > 0 && intermediates[0] == '#' {
			a.Screen.AlignmentDisplay()
		} else {
			a.Screen.RestoreCursor()
		}
	case 'c':
		a.Screen.Reset()
	}
}
