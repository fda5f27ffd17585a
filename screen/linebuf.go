// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: screen/linebuf.go
// Summary: Fixed-geometry row grid and resize rewrap logic.
// Usage: Consumed by the screen engine.

package screen

// Line is one row of a LineBuf: a fixed-width cell sequence plus the
// soft-wrap continuation flag (spec §3 Line).
type Line struct {
	Cells     []Cell
	Continued bool
}

// NewLine returns a row of the given width filled with blank cells.
func NewLine(columns int) Line {
	l := Line{Cells: make([]Cell, columns)}
	for i := range l.Cells {
		l.Cells[i] = blankCell()
	}
	return l
}

// clone returns an independent copy of l.
func (l Line) clone() Line {
	out := Line{Cells: make([]Cell, len(l.Cells)), Continued: l.Continued}
	copy(out.Cells, l.Cells)
	return out
}

// trimmedLen returns the length of l with trailing blank single-width
// cells removed, used when reconstructing logical lines for rewrap.
func (l Line) trimmedLen() int {
	n := len(l.Cells)
	for n > 0 {
		c := l.Cells[n-1]
		if c.Char != 0 && c.Char != ' ' {
			break
		}
		n--
	}
	return n
}

// LineBuf is a fixed lines x columns grid (spec §3/§4.2 LineBuf). Row
// ops act on whichever row InitLine most recently selected.
type LineBuf struct {
	lines   []Line
	columns int
	cur     int
}

// NewLineBuf allocates a lines x columns grid, every cell blank.
func NewLineBuf(rows, columns int) *LineBuf {
	lb := &LineBuf{lines: make([]Line, rows), columns: columns, cur: 0}
	for i := range lb.lines {
		lb.lines[i] = NewLine(columns)
	}
	return lb
}

func (lb *LineBuf) Rows() int    { return len(lb.lines) }
func (lb *LineBuf) Columns() int { return lb.columns }

// InitLine makes row y the current view for subsequent row-level ops.
func (lb *LineBuf) InitLine(y int) { lb.cur = y }

// Row returns a pointer to row y, for read-only snapshot purposes.
func (lb *LineBuf) Row(y int) *Line { return &lb.lines[y] }

// CurrentRow returns a pointer to the row last selected by InitLine.
func (lb *LineBuf) CurrentRow() *Line { return &lb.lines[lb.cur] }

// Clear resets every row in the buffer to a blank row filled with fill.
func (lb *LineBuf) Clear(fill rune) {
	for y := range lb.lines {
		lb.InitLine(y)
		lb.ClearRowWithChar(fill)
	}
}

// ClearRow blanks the current row with a plain space, default style.
func (lb *LineBuf) ClearRow() {
	row := lb.CurrentRow()
	for i := range row.Cells {
		row.Cells[i] = blankCell()
	}
	row.Continued = false
}

// ClearRowWithChar blanks the current row, filling every cell with fill
// (default style), used by DECALN's 'E' fill.
func (lb *LineBuf) ClearRowWithChar(fill rune) {
	row := lb.CurrentRow()
	for i := range row.Cells {
		row.Cells[i] = blankCell()
		row.Cells[i].Char = fill
	}
	row.Continued = false
}

// SetChar writes (ch, w, cursor style) at x in the current row. If w==2
// the adjacent cell at x+1 becomes the continuation marker.
func (lb *LineBuf) SetChar(x int, ch rune, w int, cur *Cursor) {
	row := lb.CurrentRow()
	if x < 0 || x >= len(row.Cells) {
		return
	}
	cell := Cell{Char: ch, Width: uint8(w)}
	cell.styleFrom(cur)
	row.Cells[x] = cell
	if w == 2 && x+1 < len(row.Cells) {
		row.Cells[x+1] = continuationCell(cell)
	}
}

// AddCombining appends ch to the combining list of the cell at x in the
// current row. If that cell is the right half of a wide pair, it
// attaches to the left half instead.
func (lb *LineBuf) AddCombining(ch rune, x int) bool {
	row := lb.CurrentRow()
	if x < 0 || x >= len(row.Cells) {
		return false
	}
	if row.Cells[x].IsContinuation() && x > 0 {
		x--
	}
	return row.Cells[x].AddCombining(ch)
}

// RightShift shifts cells [x..columns-n) to [x+n..columns) in the
// current row, losing the rightmost n; positions [x..x+n) are cleared
// with the cursor's style.
func (lb *LineBuf) RightShift(x, n int, cur *Cursor) {
	row := lb.CurrentRow()
	cols := len(row.Cells)
	if x < 0 || x >= cols || n <= 0 {
		return
	}
	if n > cols-x {
		n = cols - x
	}
	copy(row.Cells[x+n:cols], row.Cells[x:cols-n])
	for i := x; i < x+n; i++ {
		row.Cells[i] = styledBlank(cur)
	}
}

// LeftShift shifts cells [x+n..columns) to [x..columns-n) in the
// current row; the last n positions become blank.
func (lb *LineBuf) LeftShift(x, n int) {
	row := lb.CurrentRow()
	cols := len(row.Cells)
	if x < 0 || x >= cols || n <= 0 {
		return
	}
	if n > cols-x {
		n = cols - x
	}
	copy(row.Cells[x:cols-n], row.Cells[x+n:cols])
	for i := cols - n; i < cols; i++ {
		row.Cells[i] = blankCell()
	}
}

// ApplyCursor overwrites n cells starting at x in the current row with
// blank content (rune clearChar) carrying the cursor's style.
func (lb *LineBuf) ApplyCursor(cur *Cursor, x, n int, clearChar rune) {
	row := lb.CurrentRow()
	cols := len(row.Cells)
	for i := x; i < x+n && i >= 0 && i < cols; i++ {
		cell := styledBlank(cur)
		cell.Char = clearChar
		row.Cells[i] = cell
	}
}

// ClearText overwrites n cells starting at x in the current row with
// fill, preserving each cell's existing style.
func (lb *LineBuf) ClearText(x, n int, fill rune) {
	row := lb.CurrentRow()
	cols := len(row.Cells)
	for i := x; i < x+n && i >= 0 && i < cols; i++ {
		row.Cells[i].Char = fill
		row.Cells[i].Width = 1
		row.Cells[i].nCombining = 0
	}
}

// InsertLines shifts rows [y..bottom-count+1) down to [y+count..bottom+1]
// within [y,bottom]; rows [y..y+count) become blank.
func (lb *LineBuf) InsertLines(count, y, bottom int) {
	if count <= 0 || y > bottom || y < 0 || bottom >= len(lb.lines) {
		return
	}
	if count > bottom-y+1 {
		count = bottom - y + 1
	}
	for i := bottom; i >= y+count; i-- {
		lb.lines[i] = lb.lines[i-count]
	}
	for i := y; i < y+count; i++ {
		lb.lines[i] = NewLine(lb.columns)
	}
}

// DeleteLines shifts rows [y+count..bottom] up to [y..bottom-count+1);
// rows [bottom-count+1..bottom] become blank.
func (lb *LineBuf) DeleteLines(count, y, bottom int) {
	if count <= 0 || y > bottom || y < 0 || bottom >= len(lb.lines) {
		return
	}
	if count > bottom-y+1 {
		count = bottom - y + 1
	}
	for i := y; i <= bottom-count; i++ {
		lb.lines[i] = lb.lines[i+count]
	}
	for i := bottom - count + 1; i <= bottom; i++ {
		lb.lines[i] = NewLine(lb.columns)
	}
}

// Index rotates rows [top..bottom] up by one: row top is discarded and
// returned to the caller, row bottom becomes blank.
func (lb *LineBuf) Index(top, bottom int) Line {
	expelled := lb.lines[top]
	copy(lb.lines[top:bottom], lb.lines[top+1:bottom+1])
	lb.lines[bottom] = NewLine(lb.columns)
	return expelled
}

// ReverseIndex rotates rows [top..bottom] down by one: row bottom is
// discarded and returned, row top becomes blank.
func (lb *LineBuf) ReverseIndex(top, bottom int) Line {
	expelled := lb.lines[bottom]
	copy(lb.lines[top+1:bottom+1], lb.lines[top:bottom])
	lb.lines[top] = NewLine(lb.columns)
	return expelled
}

// logicalLine is an intermediate reflow unit: the flattened cells of a
// run of rows joined by Continued. The cursor's position within it is
// tracked separately by buildLogicalLines.
type logicalLine struct {
	cells []Cell
}

// buildLogicalLines flattens old's rows into logical lines by joining
// runs where row i+1.Continued is true, trimming trailing blanks off
// non-continued runs. It also records, if cursorRow is in range, the
// (logical line index, offset) the cursor cell maps to.
func buildLogicalLines(old *LineBuf, cursorRow, cursorCol int) ([]logicalLine, int, int) {
	var out []logicalLine
	var cur []Cell
	markerLine, markerOffset := -1, 0
	for y := 0; y < len(old.lines); y++ {
		row := old.lines[y]
		if y == cursorRow {
			markerLine = len(out)
			markerOffset = len(cur) + cursorCol
		}
		nextContinued := y+1 < len(old.lines) && old.lines[y+1].Continued
		if nextContinued {
			cur = append(cur, row.Cells...)
		} else {
			n := row.trimmedLen()
			cur = append(cur, row.Cells[:n]...)
			out = append(out, logicalLine{cells: cur})
			cur = nil
		}
	}
	if len(cur) > 0 {
		out = append(out, logicalLine{cells: cur})
	}
	return out, markerLine, markerOffset
}

// chunkLogicalLine splits a logical line's cells into rows of width
// newColumns, never splitting a width-2 cell across a row boundary.
func chunkLogicalLine(cells []Cell, newColumns int) []Line {
	var rows []Line
	for len(cells) > 0 {
		n := newColumns
		if n > len(cells) {
			n = len(cells)
		}
		if n > 0 && n < len(cells) && cells[n-1].Width == 2 {
			n--
		}
		if n == 0 {
			n = 1
		}
		row := NewLine(newColumns)
		copy(row.Cells, cells[:n])
		cells = cells[n:]
		if len(cells) > 0 {
			// this row is followed by more content from the same
			// logical line; mark the *next* row continued.
			rows = append(rows, row)
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		rows = append(rows, NewLine(newColumns))
	}
	for i := 1; i < len(rows); i++ {
		rows[i].Continued = true
	}
	return rows
}

// RewrapLineBuf reflows content from old (its own geometry) into newLB
// (its own geometry), pushing rows that fall off the top into history
// (if non-nil; history only ever receives overflow from the main
// buffer per spec invariant 4). It returns the cursor's new row.
func RewrapLineBuf(old *LineBuf, newLB *LineBuf, cursorRow, cursorCol int, history *HistoryBuf) int {
	logicals, markerLine, markerOffset := buildLogicalLines(old, cursorRow, cursorCol)

	var allRows []Line
	markerRow, markerCol := -1, 0
	for li, ll := range logicals {
		chunks := chunkLogicalLine(ll.cells, newLB.columns)
		if li == markerLine {
			offset := markerOffset
			for ci, ch := range chunks {
				if offset <= len(ch.Cells) || ci == len(chunks)-1 {
					markerRow = len(allRows) + ci
					if offset > newLB.columns-1 {
						offset = newLB.columns - 1
					}
					markerCol = offset
					break
				}
				offset -= len(ch.Cells)
			}
		}
		allRows = append(allRows, chunks...)
	}

	newRows := newLB.Rows()
	overflow := len(allRows) - newRows
	if overflow > 0 {
		if history != nil {
			for i := 0; i < overflow; i++ {
				history.AddLine(allRows[i])
			}
		}
		allRows = allRows[overflow:]
		markerRow -= overflow
	}
	for i := 0; i < newRows; i++ {
		if i < len(allRows) {
			newLB.lines[i] = allRows[i]
		} else {
			newLB.lines[i] = NewLine(newLB.columns)
		}
	}

	if markerRow < 0 {
		markerRow = 0
	}
	if markerRow >= newRows {
		markerRow = newRows - 1
	}
	_ = markerCol
	return markerRow
}
