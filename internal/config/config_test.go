// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/config/config_test.go
// Summary: Configuration loading and clamping tests.
// Usage: Run via go test ./internal/config/...

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 24, cfg.Lines)
	assert.Equal(t, 80, cfg.Columns)
	assert.Equal(t, 2000, cfg.ScrollbackLines)
	assert.Equal(t, "legacy", cfg.WidthStrategy)
	assert.False(t, cfg.Latin1)
}

func writeConfigFile(t *testing.T, contents string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	err := os.WriteFile(filepath.Join(home, ".vtscreen-demo.yaml"), []byte(contents), 0644)
	assert.NoError(t, err)
}

func TestLoadClampsOutOfRangeGeometry(t *testing.T) {
	writeConfigFile(t, "lines: 0\ncolumns: 5000\nscrollback_lines: -10\n")
	cfg := Load()

	assert.Equal(t, 24, cfg.Lines)
	assert.Equal(t, 1000, cfg.Columns)
	assert.Equal(t, 0, cfg.ScrollbackLines)
}

func TestLoadFallsBackToDefaultsWhenNoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := Load()
	assert.Equal(t, DefaultConfig().Lines, cfg.Lines)
	assert.Equal(t, DefaultConfig().Columns, cfg.Columns)
	assert.NotEmpty(t, cfg.Shell)
}

func TestLoadRejectsUnknownWidthStrategy(t *testing.T) {
	writeConfigFile(t, "width_strategy: bogus\n")
	cfg := Load()
	assert.Equal(t, "legacy", cfg.WidthStrategy)
}
