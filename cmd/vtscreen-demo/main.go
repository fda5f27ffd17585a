// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// Command vtscreen-demo spawns a shell inside a PTY, feeds its output
// through a govte parser and the vtadapt bridge into a screen.Screen,
// and prints the resulting grid to stdout on exit. It puts the
// controlling terminal in raw mode for the duration of the session so
// keystrokes pass straight through to the child shell.
package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"

	"github.com/cliofy/govte"
	"github.com/creack/pty"
	"golang.org/x/term"

	"github.com/texelation-contrib/vtscreen/internal/config"
	"github.com/texelation-contrib/vtscreen/internal/vtadapt"
	"github.com/texelation-contrib/vtscreen/screen"
)

// ptyCallbacks implements screen.Callbacks, forwarding everything the
// screen can't resolve itself (device/mode status replies, the bell,
// a title change) to the PTY or the controlling terminal.
type ptyCallbacks struct {
	pty      *os.File
	writeBuf *screen.ByteBuffer
}

func (c *ptyCallbacks) BufToggled(bool) {}
func (c *ptyCallbacks) Bell()           { fmt.Fprint(os.Stderr, "\a") }

// WriteToChild stages a reply (CPR, DSR, DECRPM, ...) through the
// screen's mutex-guarded write buffer before flushing it to the PTY,
// exercising the same I/O boundary a multi-goroutine host would drain
// from independently of the single-threaded parser loop.
func (c *ptyCallbacks) WriteToChild(b []byte) {
	c.writeBuf.Write(b)
	_, _ = c.pty.Write(c.writeBuf.Drain())
}

func (c *ptyCallbacks) UseUTF8(bool) {}

func (c *ptyCallbacks) TitleChanged(title string) {
	fmt.Fprintf(os.Stderr, "\x1b]0;%s\a", title)
}

func (c *ptyCallbacks) IconChanged(string)              {}
func (c *ptyCallbacks) SetDynamicColor(int, *string)    {}
func (c *ptyCallbacks) SetColorTableColor(int, *string) {}
func (c *ptyCallbacks) RequestCapabilities(string)      {}

func main() {
	cfg := config.Load()

	var widthStrategy screen.WidthStrategy = screen.LegacyWidth{}
	if cfg.WidthStrategy == "grapheme" {
		widthStrategy = screen.GraphemeWidth{}
	}

	cmd := exec.Command(cfg.Shell)
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(cfg.Lines), Cols: uint16(cfg.Columns)})
	if err != nil {
		log.Fatalf("vtscreen-demo: pty.StartWithSize: %v", err)
	}
	defer ptmx.Close()

	cb := &ptyCallbacks{pty: ptmx}
	scr, err := screen.New(cfg.Lines, cfg.Columns, cfg.ScrollbackLines,
		screen.WithWidthStrategy(widthStrategy),
		screen.WithLatin1(cfg.Latin1),
		screen.WithCallbacks(cb),
	)
	if err != nil {
		log.Fatalf("vtscreen-demo: screen.New: %v", err)
	}
	cb.writeBuf = scr.WriteBuffer

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err == nil {
		defer term.Restore(int(os.Stdin.Fd()), oldState)
	}

	adapter := vtadapt.New(scr)
	go io.Copy(ptmx, os.Stdin)

	parser := govte.NewParser()
	reader := bufio.NewReader(ptmx)
	chunk := make([]byte, 4096)
	for {
		n, err := reader.Read(chunk)
		if n > 0 {
			scr.ReadBuffer.Write(chunk[:n])
			for _, b := range scr.ReadBuffer.Drain() {
				parser.Advance(adapter, b)
			}
		}
		if err != nil {
			break
		}
	}

	_ = cmd.Wait()

	printGrid(scr)
}

// printGrid dumps the final visible screen content to stdout.
func printGrid(scr *screen.Screen) {
	grid := make([][]screen.Cell, scr.Lines())
	for y := range grid {
		grid[y] = make([]screen.Cell, scr.Columns())
	}
	scr.UpdateCellData(grid, 0, true)
	for _, row := range grid {
		for _, cell := range row {
			if cell.Char == 0 {
				continue
			}
			fmt.Print(string(cell.Char))
		}
		fmt.Println()
	}
}
