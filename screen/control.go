// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: screen/control.go
// Summary: Line feed, carriage return, bell, charset, and title/icon plumbing.
// Usage: Consumed by internal/vtadapt.

package screen

// LineFeed advances the cursor down one row (scrolling the region if
// at its bottom margin). Plain LF/VT/FF leaves the column untouched;
// when LNM is set, a linefeed also performs a carriage return.
func (s *Screen) LineFeed() {
	s.Index()
	if s.modes.LNM {
		s.CarriageReturn()
	}
}

// CarriageReturn returns the cursor to column 0 of its current row.
func (s *Screen) CarriageReturn() {
	s.setCursorPos(s.cursor.Y, 0)
}

// Bell notifies the host of a BEL without altering any screen state.
func (s *Screen) Bell() {
	s.callbacks.Bell()
}

// UseLatin1 toggles Latin-1 codepoint translation on or off, notifying
// the host when the effective encoding (Latin-1 vs UTF-8) changes.
func (s *Screen) UseLatin1(enabled bool) {
	changed := s.charsets.Latin1 != enabled
	s.charsets.Latin1 = enabled
	s.charsets.UTF8 = !enabled
	if changed {
		s.callbacks.UseUTF8(!enabled)
	}
}

// ChangeCharset switches the active G-slot (0 or 1), e.g. SI/SO.
func (s *Screen) ChangeCharset(which int) {
	s.charsets.ChangeCharset(which)
}

// DesignateCharset assigns a translation table to a G-slot, e.g. the
// ESC ( / ESC ) family.
func (s *Screen) DesignateCharset(which int, as CharsetID) {
	s.charsets.Designate(which, as)
}

// SetTitle forwards an OSC 0/2 window-title change to the host.
func (s *Screen) SetTitle(title string) {
	s.callbacks.TitleChanged(title)
}

// SetIcon forwards an OSC 1 icon-name change to the host.
func (s *Screen) SetIcon(icon string) {
	s.callbacks.IconChanged(icon)
}

// SetDynamicColor forwards an OSC 10-19-family dynamic-color set or
// query to the host. value is nil for a query; the host is responsible
// for staging any reply through WriteBuffer/callbacks.
func (s *Screen) SetDynamicColor(code int, value *string) {
	s.callbacks.SetDynamicColor(code, value)
}

// SetColorTableColor forwards an OSC 4 palette-entry set or query to
// the host. value is nil for a query.
func (s *Screen) SetColorTableColor(code int, value *string) {
	s.callbacks.SetColorTableColor(code, value)
}

// RequestCapabilities forwards an XTGETTCAP-style capability query to
// the host.
func (s *Screen) RequestCapabilities(query string) {
	s.callbacks.RequestCapabilities(query)
}

// UnsupportedOSC logs an OSC command this engine doesn't model.
func (s *Screen) UnsupportedOSC(cmd string) {
	s.logger.Unsupported("OSC command", cmd)
}
