// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: screen/buffers.go
// Summary: Mutex-guarded byte staging buffers for the I/O boundary.
// Usage: Consumed by hosts driving the screen from a PTY.

package screen

import (
	"bytes"
	"sync"
)

// ByteBuffer is a mutex-guarded byte buffer sitting beside the
// single-threaded core (spec §5's "external byte buffers separately
// mutex-guarded"), concretely naming kitty's read_buf_lock/
// write_buf_lock pair. The core never locks these itself; callers on
// the I/O side do.
type ByteBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write appends p under lock.
func (b *ByteBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// Drain removes and returns everything currently buffered.
func (b *ByteBuffer) Drain() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]byte, b.buf.Len())
	copy(out, b.buf.Bytes())
	b.buf.Reset()
	return out
}

// Len reports the number of buffered bytes.
func (b *ByteBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}

// ReadBuffer stages bytes read from the child process before the
// parser consumes them; WriteBuffer stages replies (CPR, DSR, DECRPM,
// ...) bound for the child. Both are allocated with the Screen and
// live for its lifetime.
func (s *Screen) readBufferInit()  { s.ReadBuffer = &ByteBuffer{} }
func (s *Screen) writeBufferInit() { s.WriteBuffer = &ByteBuffer{} }
