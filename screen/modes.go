// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: screen/modes.go
// Summary: ANSI/DEC private mode tracking and mode-code encoding.
// Usage: Consumed by internal/vtadapt and the screen engine.

package screen

import "fmt"

// MouseTracking and MouseProtocol model the two mutually-exclusive
// mouse-reporting groups (spec §4.5: "mouse modes are exclusive within
// their group").
type MouseTracking uint8

const (
	MouseTrackingNone MouseTracking = iota
	MouseTrackingX10
	MouseTrackingNormal
	MouseTrackingButtonEvent
	MouseTrackingAnyEvent
)

type MouseProtocol uint8

const (
	MouseProtocolDefault MouseProtocol = iota
	MouseProtocolUTF8
	MouseProtocolSGR
	MouseProtocolURXVT
)

// Modes collects the public (ANSI) and private (DEC) mode flags the
// engine tracks explicitly. Cursor visibility and blink live on Cursor
// itself rather than being duplicated here.
type Modes struct {
	IRM bool // insert/replace mode
	LNM bool // linefeed/new-line mode

	DECCKM           bool
	DECOM            bool
	DECAWM           bool
	DECCOLM          bool
	DECSCNM          bool
	DECARM           bool
	BracketedPaste   bool
	FocusTracking    bool
	ExtendedKeyboard bool
	MouseTracking    MouseTracking
	MouseProtocol    MouseProtocol
}

func defaultModes() Modes {
	return Modes{DECAWM: true, DECARM: true}
}

// Raw (unshifted) mode codes. Public modes are the plain ANSI SM/RM
// numbers; private ones are the DEC private numbers as xterm defines
// them.
const (
	RawIRM = 4
	RawLNM = 20

	RawDECCKM            = 1
	RawDECCOLM           = 3
	RawDECSCNM           = 5
	RawDECOM             = 6
	RawDECAWM            = 7
	RawDECARM            = 8
	RawMouseX10          = 9
	RawDECTCEM           = 25
	RawAltScreenSimple   = 47
	RawMouseNormal       = 1000
	RawMouseButtonEvent  = 1002
	RawMouseAnyEvent     = 1003
	RawFocusTracking     = 1004
	RawMouseUTF8         = 1005
	RawMouseSGR          = 1006
	RawMouseURXVT        = 1015
	RawAltScreenSave     = 1047
	RawAltScreenSaveHome = 1049
	RawExtendedKeyboard  = 1036
	RawBracketedPaste    = 2004
)

// EncodeMode packs a raw mode number and its public/private origin
// into the single int the external set_mode/reset_mode operations
// take, by shifting the raw code left 5 bits and using the low bit as
// the private tag (spec §4.5).
func EncodeMode(raw int, private bool) int {
	tag := 0
	if private {
		tag = 1
	}
	return (raw << 5) | tag
}

// DecodeMode reverses EncodeMode.
func DecodeMode(code int) (raw int, private bool) {
	return code >> 5, code&1 == 1
}

// SetMode sets the mode named by a pre-encoded code (see EncodeMode).
func (s *Screen) SetMode(code int) {
	raw, private := DecodeMode(code)
	s.applyMode(raw, private, true)
}

// ResetMode resets the mode named by a pre-encoded code.
func (s *Screen) ResetMode(code int) {
	raw, private := DecodeMode(code)
	s.applyMode(raw, private, false)
}

func (s *Screen) applyMode(raw int, private, set bool) {
	if !private {
		switch raw {
		case RawIRM:
			s.modes.IRM = set
		case RawLNM:
			s.modes.LNM = set
		default:
			s.logger.Unsupported("ANSI mode", fmt.Sprintf("%d", raw))
		}
		return
	}

	switch raw {
	case RawDECCKM:
		s.modes.DECCKM = set
	case RawDECCOLM:
		s.modes.DECCOLM = set
		s.EraseInDisplay(2, false)
		s.setCursorPos(0, 0)
	case RawDECSCNM:
		if s.modes.DECSCNM != set {
			s.markDirty()
		}
		s.modes.DECSCNM = set
	case RawDECOM:
		s.modes.DECOM = set
		if set {
			s.setCursorPos(s.marginTop, 0)
		} else {
			s.setCursorPos(0, 0)
		}
	case RawDECAWM:
		s.modes.DECAWM = set
	case RawDECARM:
		s.modes.DECARM = set
	case RawDECTCEM:
		if s.cursor.Visible != set {
			s.markCursorChanged()
		}
		s.cursor.Visible = set
	case RawMouseX10:
		s.setMouseTracking(set, MouseTrackingX10)
	case RawMouseNormal:
		s.setMouseTracking(set, MouseTrackingNormal)
	case RawMouseButtonEvent:
		s.setMouseTracking(set, MouseTrackingButtonEvent)
	case RawMouseAnyEvent:
		s.setMouseTracking(set, MouseTrackingAnyEvent)
	case RawFocusTracking:
		s.modes.FocusTracking = set
	case RawMouseUTF8:
		s.setMouseProtocol(set, MouseProtocolUTF8)
	case RawMouseSGR:
		s.setMouseProtocol(set, MouseProtocolSGR)
	case RawMouseURXVT:
		s.setMouseProtocol(set, MouseProtocolURXVT)
	case RawExtendedKeyboard:
		s.modes.ExtendedKeyboard = set
	case RawBracketedPaste:
		s.modes.BracketedPaste = set
	case RawAltScreenSimple, RawAltScreenSave, RawAltScreenSaveHome:
		s.toggleAltScreen(set)
	default:
		s.logger.Unsupported("DEC private mode", fmt.Sprintf("%d", raw))
	}
}

func (s *Screen) setMouseTracking(set bool, kind MouseTracking) {
	if set {
		s.modes.MouseTracking = kind
	} else if s.modes.MouseTracking == kind {
		s.modes.MouseTracking = MouseTrackingNone
	}
}

func (s *Screen) setMouseProtocol(set bool, kind MouseProtocol) {
	if set {
		s.modes.MouseProtocol = kind
	} else if s.modes.MouseProtocol == kind {
		s.modes.MouseProtocol = MouseProtocolDefault
	}
}

// modeStatus is the DECRPM answer code: 0=unknown, 1=set, 2=reset,
// 3=permanently set.
type modeStatus int

const (
	modeStatusUnknown modeStatus = iota
	modeStatusSet
	modeStatusReset
	modeStatusPermanentlySet
)

func boolStatus(b bool) modeStatus {
	if b {
		return modeStatusSet
	}
	return modeStatusReset
}

// ReportMode answers a pre-encoded mode code with its current status.
func (s *Screen) ReportMode(code int) modeStatus {
	raw, private := DecodeMode(code)
	if !private {
		switch raw {
		case RawIRM:
			return boolStatus(s.modes.IRM)
		case RawLNM:
			return boolStatus(s.modes.LNM)
		}
		return modeStatusUnknown
	}
	switch raw {
	case RawDECCKM:
		return boolStatus(s.modes.DECCKM)
	case RawDECCOLM:
		return boolStatus(s.modes.DECCOLM)
	case RawDECSCNM:
		return boolStatus(s.modes.DECSCNM)
	case RawDECOM:
		return boolStatus(s.modes.DECOM)
	case RawDECAWM:
		return boolStatus(s.modes.DECAWM)
	case RawDECARM:
		return modeStatusPermanentlySet
	case RawDECTCEM:
		return boolStatus(s.cursor.Visible)
	case RawBracketedPaste:
		return boolStatus(s.modes.BracketedPaste)
	case RawFocusTracking:
		return boolStatus(s.modes.FocusTracking)
	case RawExtendedKeyboard:
		return boolStatus(s.modes.ExtendedKeyboard)
	case RawAltScreenSimple, RawAltScreenSave, RawAltScreenSaveHome:
		return boolStatus(s.altActive)
	case RawMouseX10:
		return boolStatus(s.modes.MouseTracking == MouseTrackingX10)
	case RawMouseNormal:
		return boolStatus(s.modes.MouseTracking == MouseTrackingNormal)
	case RawMouseButtonEvent:
		return boolStatus(s.modes.MouseTracking == MouseTrackingButtonEvent)
	case RawMouseAnyEvent:
		return boolStatus(s.modes.MouseTracking == MouseTrackingAnyEvent)
	case RawMouseUTF8:
		return boolStatus(s.modes.MouseProtocol == MouseProtocolUTF8)
	case RawMouseSGR:
		return boolStatus(s.modes.MouseProtocol == MouseProtocolSGR)
	case RawMouseURXVT:
		return boolStatus(s.modes.MouseProtocol == MouseProtocolURXVT)
	}
	return modeStatusUnknown
}

// toggleAltScreen implements spec §4.5's alternate-screen effect:
// entering saves the cursor, clears alt, and homes it; leaving
// restores the saved cursor. The save slot is dedicated to this swap,
// distinct from the DECSC/DECRC savepoint ring.
func (s *Screen) toggleAltScreen(entering bool) {
	if entering == s.altActive {
		return
	}
	if entering {
		s.altSwapCursor = s.cursor
		s.altActive = true
		s.linebuf = s.altBuf
		s.tabstops = s.altTabstops
		s.altBuf.Clear(' ')
		s.cursor.X, s.cursor.Y = 0, 0
		s.callbacks.BufToggled(false)
	} else {
		s.altActive = false
		s.linebuf = s.mainBuf
		s.tabstops = s.mainTabstops
		s.cursor = s.altSwapCursor
		s.callbacks.BufToggled(true)
	}
	s.markDirty()
	s.markCursorChanged()
}
