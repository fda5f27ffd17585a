// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: screen/callbacks.go
// Summary: Outward notification interface and its null implementation.
// Usage: Implemented by hosts embedding the screen package.

package screen

// Callbacks is the small outward capability set the screen uses to
// notify its host (PTY writer, window title, color palette, renderer)
// of events it cannot resolve itself (spec §4.7/§9). The sink must not
// retain the screen -- callbacks point outward only, never back in.
//
// A nil Callbacks is valid; NullCallbacks is the default zero-cost
// implementation, exercised whenever the caller doesn't supply one.
type Callbacks interface {
	// BufToggled fires after an alt-screen swap; isMain is true when
	// the main screen just became active again.
	BufToggled(isMain bool)
	// Bell fires on BEL.
	Bell()
	// WriteToChild stages a reply (device/mode status, CPR, ...) bound
	// for the pty/child process.
	WriteToChild(data []byte)
	// UseUTF8 fires when the charset encoding toggles between UTF-8
	// and Latin-1.
	UseUTF8(enabled bool)
	// TitleChanged fires on OSC 0/2.
	TitleChanged(title string)
	// IconChanged fires on OSC 1.
	IconChanged(icon string)
	// SetDynamicColor fires on OSC 10-19 family sequences. value is nil
	// for a query (caller should reply via WriteToChild separately).
	SetDynamicColor(code int, value *string)
	// SetColorTableColor fires on OSC 4 (palette entry set/query).
	SetColorTableColor(code int, value *string)
	// RequestCapabilities fires on XTGETTCAP-style capability queries.
	RequestCapabilities(query string)
}

// NullCallbacks drops every event; it is the zero value default sink.
type NullCallbacks struct{}

func (NullCallbacks) BufToggled(bool)                   {}
func (NullCallbacks) Bell()                             {}
func (NullCallbacks) WriteToChild([]byte)                {}
func (NullCallbacks) UseUTF8(bool)                       {}
func (NullCallbacks) TitleChanged(string)                {}
func (NullCallbacks) IconChanged(string)                 {}
func (NullCallbacks) SetDynamicColor(int, *string)       {}
func (NullCallbacks) SetColorTableColor(int, *string)    {}
func (NullCallbacks) RequestCapabilities(string)         {}
