// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: screen/reports.go
// Summary: Device attribute/status and mode-status reply formatting.
// Usage: Consumed by internal/vtadapt.

package screen

import (
	"fmt"
)

// Firmware version numbers reported in the secondary DA reply, matching
// kitty's xstr(PRIMARY_VERSION)/xstr(SECONDARY_VERSION) constants.
const (
	primaryVersion   = 1
	secondaryVersion = 0
)

// ReportDeviceAttributes answers a DA1/DA2 query by staging the
// appropriate escape sequence to the callback sink. mode selects
// primary (1) or secondary (2) attributes; modifier is unused.
func (s *Screen) ReportDeviceAttributes(mode, modifier int) {
	_ = modifier
	switch mode {
	case 2:
		s.callbacks.WriteToChild([]byte(fmt.Sprintf("\x1b[>1;%d;%dc", primaryVersion, secondaryVersion)))
	default:
		s.callbacks.WriteToChild([]byte("\x1b[?62;c"))
	}
}

// ReportDeviceStatus answers a DSR/CPR query. which 5 is the standard
// "ready" status; which 6 is a cursor position report. private selects
// the DEC-private CPR form (DECXCPR), which differs only by a '?'
// prefix.
func (s *Screen) ReportDeviceStatus(which int, private bool) {
	switch which {
	case 6:
		row, col := s.cursor.Y+1, s.cursor.X+1
		if s.modes.DECOM {
			row -= s.marginTop
		}
		if private {
			s.callbacks.WriteToChild([]byte(fmt.Sprintf("\x1b[?%d;%dR", row, col)))
		} else {
			s.callbacks.WriteToChild([]byte(fmt.Sprintf("\x1b[%d;%dR", row, col)))
		}
	default:
		s.callbacks.WriteToChild([]byte("\x1b[0n"))
	}
}

// ReportModeStatus answers a DECRPM query for a raw mode code,
// formatting the reply as CSI [?] code ; status $ y (spec §6).
func (s *Screen) ReportModeStatus(code int, private bool) {
	status := s.ReportMode(EncodeMode(code, private))
	if private {
		s.callbacks.WriteToChild([]byte(fmt.Sprintf("\x1b[?%d;%d$y", code, status)))
	} else {
		s.callbacks.WriteToChild([]byte(fmt.Sprintf("\x1b[%d;%d$y", code, status)))
	}
}
