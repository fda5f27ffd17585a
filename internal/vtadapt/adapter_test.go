// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/vtadapt/adapter_test.go
// Summary: govte.Performer bridge tests.
// Usage: Run via go test ./internal/vtadapt/...

package vtadapt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texelation-contrib/vtscreen/screen"
)

func newTestAdapter(t *testing.T) (*Adapter, *screen.Screen) {
	t.Helper()
	s, err := screen.New(5, 10, 0)
	require.NoError(t, err)
	return New(s), s
}

func TestPrintDrawsAndAdvancesCursor(t *testing.T) {
	a, s := newTestAdapter(t)
	a.Print('A')
	a.Print('B')
	assert.Equal(t, 2, s.Cursor().X)
}

func TestExecuteControlCharacters(t *testing.T) {
	a, s := newTestAdapter(t)
	a.Print('x')
	a.Execute(0x0d) // CR
	assert.Equal(t, 0, s.Cursor().X)
	a.Execute(0x0a) // LF
	assert.Equal(t, 1, s.Cursor().Y)
}

func TestCsiDispatchCursorPosition(t *testing.T) {
	a, s := newTestAdapter(t)
	a.CsiDispatch(nil, nil, false, 'H')
	assert.Equal(t, 0, s.Cursor().X)
	assert.Equal(t, 0, s.Cursor().Y)
}

func TestCsiDispatchIgnoredWhenFlagged(t *testing.T) {
	a, s := newTestAdapter(t)
	a.Print('x')
	before := s.Cursor()
	a.CsiDispatch(nil, nil, true, 'H')
	assert.Equal(t, before, s.Cursor())
}

func TestEscDispatchIndexAndReset(t *testing.T) {
	a, s := newTestAdapter(t)
	a.Print('z')
	a.EscDispatch(nil, false, 'D')
	assert.Equal(t, 1, s.Cursor().Y)
	a.EscDispatch(nil, false, 'c')
	assert.Equal(t, 0, s.Cursor().X)
	assert.Equal(t, 0, s.Cursor().Y)
}

func TestEscDispatchAlignmentDisplay(t *testing.T) {
	a, s := newTestAdapter(t)
	a.EscDispatch([]byte{'#'}, false, '8')
	assert.True(t, s.IsDirty())
}

func TestIsPrivateDetection(t *testing.T) {
	assert.True(t, isPrivate([]byte{'?'}))
	assert.False(t, isPrivate([]byte{}))
	assert.False(t, isPrivate([]byte{'#'}))
}

func TestParamAtDefaults(t *testing.T) {
	groups := [][]uint16{{5}, {}}
	assert.Equal(t, 5, paramAt(groups, 0, 1))
	assert.Equal(t, 1, paramAt(groups, 1, 1))
	assert.Equal(t, 9, paramAt(groups, 5, 9))
}
