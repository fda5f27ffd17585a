// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: screen/screen.go
// Summary: Screen engine: the terminal screen state machine.
// Usage: Consumed by internal/vtadapt and cmd/vtscreen-demo.

package screen

// savepointCapacity is the bounded ring size S for save/restore cursor
// stacks (spec §3: "typical S≈10").
const savepointCapacity = 10

// Screen is the terminal screen state machine: the in-memory model a
// parser of decoded control actions drives and a renderer samples. It
// owns every buffer it touches -- main/alt grids, history, tab stops,
// savepoint rings -- and performs no I/O of its own.
type Screen struct {
	lines, columns int
	scrollback     int

	mainBuf *LineBuf
	altBuf  *LineBuf
	linebuf *LineBuf // active alias: mainBuf or altBuf

	history *HistoryBuf

	mainTabstops []bool
	altTabstops  []bool
	tabstops     []bool // active alias: mainTabstops or altTabstops

	mainSavepoints *SavepointRing
	altSavepoints  *SavepointRing

	altActive     bool
	altSwapCursor Cursor // cursor stashed across an alt-screen swap

	cursor   Cursor
	charsets CharsetState
	modes    Modes

	marginTop, marginBottom int

	isDirty               bool
	cursorChanged         bool
	historyLineAddedCount int

	widthStrategy WidthStrategy
	callbacks     Callbacks
	logger        Logger

	// ReadBuffer and WriteBuffer are mutex-guarded byte staging areas
	// that sit beside the single-threaded core -- the I/O side locks
	// them, the core never does (spec §5).
	ReadBuffer  *ByteBuffer
	WriteBuffer *ByteBuffer
}

// Option configures a Screen at construction time.
type Option func(*Screen)

// WithCallbacks installs the outward notification sink. Passing nil is
// equivalent to not calling the option (NullCallbacks stays active).
func WithCallbacks(cb Callbacks) Option {
	return func(s *Screen) {
		if cb != nil {
			s.callbacks = cb
		}
	}
}

// WithWidthStrategy selects the wcwidth implementation. Default is
// LegacyWidth.
func WithWidthStrategy(strategy WidthStrategy) Option {
	return func(s *Screen) {
		if strategy != nil {
			s.widthStrategy = strategy
		}
	}
}

// WithLatin1 selects Latin-1 codepoint translation instead of UTF-8 at
// construction time.
func WithLatin1(enabled bool) Option {
	return func(s *Screen) {
		s.charsets.Latin1 = enabled
		s.charsets.UTF8 = !enabled
	}
}

// WithLogger installs the diagnostic sink for unsupported modes.
func WithLogger(l Logger) Option {
	return func(s *Screen) {
		if l != nil {
			s.logger = l
		}
	}
}

// New allocates a Screen of lines x columns with the given scrollback
// capacity (in lines). Zero lines/columns fall back to the classic
// 24x80 default; a negative scrollback is treated as zero.
func New(lines, columns, scrollback int, opts ...Option) (*Screen, error) {
	if lines == 0 {
		lines = 24
	}
	if columns == 0 {
		columns = 80
	}
	if lines < 0 || columns < 0 {
		return nil, newScreenError(ErrInvalidArgument, "lines and columns must be non-negative")
	}
	if scrollback < 0 {
		scrollback = 0
	}

	s := &Screen{
		lines:          lines,
		columns:        columns,
		scrollback:     scrollback,
		mainBuf:        NewLineBuf(lines, columns),
		altBuf:         NewLineBuf(lines, columns),
		history:        NewHistoryBuf(scrollback, columns),
		mainTabstops:   defaultTabstops(columns),
		altTabstops:    defaultTabstops(columns),
		mainSavepoints: NewSavepointRing(savepointCapacity),
		altSavepoints:  NewSavepointRing(savepointCapacity),
		cursor:         newCursor(),
		marginTop:      0,
		marginBottom:   lines - 1,
		widthStrategy:  LegacyWidth{},
		callbacks:      NullCallbacks{},
		logger:         stdLogger{},
		isDirty:        true,
		cursorChanged:  true,
	}
	s.readBufferInit()
	s.writeBufferInit()
	s.charsets.reset()
	s.modes = defaultModes()
	s.linebuf = s.mainBuf
	s.tabstops = s.mainTabstops

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// defaultTabstops returns a bitmap with stops at every column t where
// t%8==0 (0, 8, 16, ...), so a forward tab from column 0 lands on
// column 8 (SPEC_FULL §4).
func defaultTabstops(columns int) []bool {
	stops := make([]bool, columns)
	for t := 0; t < columns; t++ {
		if t%8 == 0 {
			stops[t] = true
		}
	}
	return stops
}

// Lines returns the current screen height.
func (s *Screen) Lines() int { return s.lines }

// Columns returns the current screen width.
func (s *Screen) Columns() int { return s.columns }

// Cursor returns a copy of the current cursor state.
func (s *Screen) Cursor() Cursor { return s.cursor }

// InAltScreen reports whether the alternate screen is currently active.
func (s *Screen) InAltScreen() bool { return s.altActive }

// IsDirty reports whether content has changed since the last ResetDirty.
func (s *Screen) IsDirty() bool { return s.isDirty }

// CursorChanged reports whether the cursor moved or a visibility-
// affecting attribute changed since the last ResetDirty.
func (s *Screen) CursorChanged() bool { return s.cursorChanged }

// HistoryLineAddedCount reports how many lines have been pushed into
// history since the last ResetDirty.
func (s *Screen) HistoryLineAddedCount() int { return s.historyLineAddedCount }

// HistoryLen reports the number of lines currently retained in
// scrollback.
func (s *Screen) HistoryLen() int { return s.history.Len() }

// ResetDirty clears is_dirty and cursor_changed and zeroes
// history_line_added_count; the renderer calls this after each frame
// (spec §4.6).
func (s *Screen) ResetDirty() {
	s.isDirty = false
	s.cursorChanged = false
	s.historyLineAddedCount = 0
}

func (s *Screen) markDirty()         { s.isDirty = true }
func (s *Screen) markCursorChanged() { s.cursorChanged = true }

// activeSavepoints returns the savepoint ring belonging to the active
// screen buffer.
func (s *Screen) activeSavepoints() *SavepointRing {
	if s.altActive {
		return s.altSavepoints
	}
	return s.mainSavepoints
}

// Reset returns the screen to its initial state without reallocating
// any buffer.
func (s *Screen) Reset() {
	s.mainBuf.Clear(' ')
	s.altBuf.Clear(' ')
	s.history = NewHistoryBuf(s.scrollback, s.columns)
	s.altActive = false
	s.linebuf = s.mainBuf
	s.mainTabstops = defaultTabstops(s.columns)
	s.altTabstops = defaultTabstops(s.columns)
	s.tabstops = s.mainTabstops
	s.mainSavepoints = NewSavepointRing(savepointCapacity)
	s.altSavepoints = NewSavepointRing(savepointCapacity)
	s.cursor = newCursor()
	s.charsets.reset()
	s.modes = defaultModes()
	s.marginTop = 0
	s.marginBottom = s.lines - 1
	s.historyLineAddedCount = 0
	s.markDirty()
	s.markCursorChanged()
}

// Resize reallocates every buffer for the new geometry, rewrapping
// content via history and clamping the cursor. It is atomic: buffers
// are built fresh before any screen field is mutated, so a failure
// (invalid geometry) leaves the prior state untouched.
func (s *Screen) Resize(newLines, newColumns int) error {
	if newLines <= 0 || newColumns <= 0 {
		return newScreenError(ErrInvalidArgument, "lines and columns must be positive")
	}
	if newLines == s.lines && newColumns == s.columns {
		return nil
	}

	oldColumns := s.columns
	s.history.Rewrap(newColumns)

	newMainBuf := NewLineBuf(newLines, newColumns)
	mainCursorRow := RewrapLineBuf(s.mainBuf, newMainBuf, s.cursor.Y, s.cursor.X, s.history)

	newAltBuf := NewLineBuf(newLines, newColumns)
	altCursorRow := RewrapLineBuf(s.altBuf, newAltBuf, s.cursor.Y, s.cursor.X, nil)

	shrunkHorizontally := newColumns < oldColumns
	mainTopWasContinued := newMainBuf.Row(mainCursorRow).Continued

	s.mainBuf = newMainBuf
	s.altBuf = newAltBuf
	s.mainTabstops = defaultTabstops(newColumns)
	s.altTabstops = defaultTabstops(newColumns)
	s.lines, s.columns = newLines, newColumns
	s.marginTop, s.marginBottom = 0, newLines-1

	if s.altActive {
		s.linebuf = s.altBuf
		s.tabstops = s.altTabstops
		s.cursor.Y = altCursorRow
	} else {
		s.linebuf = s.mainBuf
		s.tabstops = s.mainTabstops
		s.cursor.Y = mainCursorRow
	}
	if s.cursor.X >= newColumns {
		s.cursor.X = newColumns - 1
	}
	if s.cursor.X < 0 {
		s.cursor.X = 0
	}

	if !s.altActive && shrunkHorizontally && mainTopWasContinued {
		s.Index()
	}

	s.markDirty()
	s.markCursorChanged()
	return nil
}

// copyRow copies src into dst, padding or truncating to dst's length.
func copyRow(dst, src []Cell) {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	copy(dst[:n], src[:n])
	for i := n; i < len(dst); i++ {
		dst[i] = blankCell()
	}
}

// UpdateCellData performs an atomic sample of up to Lines() rows --
// those visible given the vertical scroll offset scrolledBy -- into
// dest, a caller-owned buffer. It is the renderer's one-shot read
// interface (spec §5) and must be called only when the mutator is
// quiescent. It returns whether the cursor changed and the effective
// (clamped) scroll offset actually used.
func (s *Screen) UpdateCellData(dest [][]Cell, scrolledBy int, force bool) (cursorChanged bool, effectiveScrolledBy int) {
	if s.altActive {
		for y := 0; y < s.lines && y < len(dest); y++ {
			copyRow(dest[y], s.altBuf.Row(y).Cells)
		}
		return s.cursorChanged, 0
	}

	eff := scrolledBy
	if eff < 0 {
		eff = 0
	}
	if max := s.history.Len(); eff > max {
		eff = max
	}
	for y := 0; y < s.lines && y < len(dest); y++ {
		if y < eff {
			if line, ok := s.history.LineFromNewest(eff - y - 1); ok {
				copyRow(dest[y], line.Cells)
				continue
			}
		}
		mainRow := y - eff
		if mainRow >= 0 && mainRow < s.mainBuf.Rows() {
			copyRow(dest[y], s.mainBuf.Row(mainRow).Cells)
		} else {
			copyRow(dest[y], nil)
		}
	}
	return s.cursorChanged, eff
}
