// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// Package config loads and provides vtscreen-demo's configuration.
//
// On first run, a default YAML config is written to ~/.vtscreen-demo.yaml.
// Subsequent runs read and merge that file with built-in defaults.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the demo binary's user-configurable settings. The core
// screen package itself takes no config and does no I/O; this exists
// only to parameterize cmd/vtscreen-demo.
type Config struct {
	// Lines and Columns size the screen at startup.
	Lines   int `yaml:"lines"`
	Columns int `yaml:"columns"`

	// ScrollbackLines bounds the history ring's capacity.
	ScrollbackLines int `yaml:"scrollback_lines"`

	// WidthStrategy selects "legacy" (go-runewidth) or "grapheme"
	// (uniseg) wcwidth behavior.
	WidthStrategy string `yaml:"width_strategy"`

	// Shell is the command spawned inside the PTY.
	Shell string `yaml:"shell"`

	// Latin1 forces Latin-1 codepoint translation instead of UTF-8.
	Latin1 bool `yaml:"latin1"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Lines:           24,
		Columns:         80,
		ScrollbackLines: 2000,
		WidthStrategy:   "legacy",
		Shell:           "",
		Latin1:          false,
	}
}

// configPath returns the path to ~/.vtscreen-demo.yaml.
func configPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".vtscreen-demo.yaml")
}

// Load reads the config file, falling back to defaults for missing
// fields, and clamps anything out of bounds.
func Load() Config {
	cfg := DefaultConfig()

	if p := configPath(); p != "" {
		data, err := os.ReadFile(p)
		if err != nil {
			// No config file yet -- write defaults for future editing.
			writeDefaults(p, cfg)
		} else {
			_ = yaml.Unmarshal(data, &cfg)
		}
	}

	if cfg.Lines < 1 {
		cfg.Lines = 24
	}
	if cfg.Lines > 500 {
		cfg.Lines = 500
	}
	if cfg.Columns < 1 {
		cfg.Columns = 80
	}
	if cfg.Columns > 1000 {
		cfg.Columns = 1000
	}
	if cfg.ScrollbackLines < 0 {
		cfg.ScrollbackLines = 0
	}
	if cfg.ScrollbackLines > 100000 {
		cfg.ScrollbackLines = 100000
	}
	if cfg.WidthStrategy != "legacy" && cfg.WidthStrategy != "grapheme" {
		cfg.WidthStrategy = "legacy"
	}
	if cfg.Shell == "" {
		if sh := os.Getenv("SHELL"); sh != "" {
			cfg.Shell = sh
		} else {
			cfg.Shell = "/bin/sh"
		}
	}

	return cfg
}

// writeDefaults persists the default configuration to disk.
func writeDefaults(path string, cfg Config) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return
	}
	header := []byte("# vtscreen-demo configuration\n# Edit this file to customise defaults.\n\n")
	_ = os.WriteFile(path, append(header, data...), 0644)
}
