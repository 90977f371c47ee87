package viewer

import (
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// parserState is the byte-stream parser's current mode.
type parserState int

const (
	stateGround parserState = iota
	stateEscape
	stateCSI
	stateOSC
)

// selection is an inclusive range of grid positions considered selected.
// Nothing in this repo currently populates it (no mouse-drag text selection
// is wired to the dashboard), but the snapshot algorithm honors it as
// specified so the behavior is ready the moment a caller sets one.
type selection struct {
	startRow, startCol int
	endRow, endCol     int
}

func (s *selection) contains(row, col int) bool {
	if s == nil {
		return false
	}
	pos := row*1_000_000 + col
	start := s.startRow*1_000_000 + s.startCol
	end := s.endRow*1_000_000 + s.endCol
	if start > end {
		start, end = end, start
	}
	return pos >= start && pos <= end
}

// cursorShape mirrors whether the cursor is currently hidden (DECTCEM).
type cursorShape int

const (
	cursorVisible cursorShape = iota
	cursorHidden
)

// emulator is the terminal-cell-grid model driven by the reader goroutine's
// ANSI/VT parser and read by the snapshotter. All access is serialized by
// the owning Viewer's mutex.
type emulator struct {
	rows, cols int
	grid       []cell

	cursorRow, cursorCol int
	cursorShape          cursorShape

	curFg, curBg                            cellColor
	curBold, curDim, curUnderline, curInverse, curHidden bool

	palette *palette
	sel     *selection

	mouseMode      bool
	sgrMouse       bool
	utf8Mouse      bool
	bracketedPaste bool

	state      parserState
	escBuf     strings.Builder
	params     strings.Builder
	privateCSI bool
}

func newEmulator(rows, cols int) *emulator {
	e := &emulator{
		rows:    rows,
		cols:    cols,
		grid:    make([]cell, rows*cols),
		palette: newPalette(),
		curFg:   defaultColor,
		curBg:   defaultColor,
	}
	for i := range e.grid {
		e.grid[i] = blankCell()
	}
	return e
}

func (e *emulator) at(row, col int) *cell {
	return &e.grid[row*e.cols+col]
}

// resize changes the grid dimensions, preserving the top-left overlap and
// discarding/blanking the rest.
func (e *emulator) resize(rows, cols int) {
	newGrid := make([]cell, rows*cols)
	for i := range newGrid {
		newGrid[i] = blankCell()
	}
	for r := 0; r < rows && r < e.rows; r++ {
		for c := 0; c < cols && c < e.cols; c++ {
			newGrid[r*cols+c] = e.grid[r*e.cols+c]
		}
	}
	e.grid = newGrid
	e.rows = rows
	e.cols = cols
	if e.cursorRow >= rows {
		e.cursorRow = rows - 1
	}
	if e.cursorCol >= cols {
		e.cursorCol = cols - 1
	}
}

// write feeds raw PTY output bytes into the parser, advancing the emulator
// state byte by byte (matching the source's byte-at-a-time Processor.advance
// loop).
func (e *emulator) write(data []byte) {
	for _, b := range data {
		e.advance(b)
	}
}

func (e *emulator) advance(b byte) {
	switch e.state {
	case stateGround:
		e.advanceGround(b)
	case stateEscape:
		e.advanceEscape(b)
	case stateCSI:
		e.advanceCSI(b)
	case stateOSC:
		e.advanceOSC(b)
	}
}

func (e *emulator) advanceGround(b byte) {
	switch b {
	case 0x1b: // ESC
		e.state = stateEscape
		e.escBuf.Reset()
	case '\n':
		e.lineFeed()
	case '\r':
		e.cursorCol = 0
	case '\b':
		if e.cursorCol > 0 {
			e.cursorCol--
		}
	case '\t':
		next := (e.cursorCol/8 + 1) * 8
		if next >= e.cols {
			next = e.cols - 1
		}
		e.cursorCol = next
	case 0x07: // BEL
	default:
		if b >= 0x20 {
			e.printByte(b)
		}
	}
}

// printByte handles a single printable byte. Multi-byte UTF-8 runes are
// reassembled by the reader before reaching here in practice; for the
// common ASCII fast path this is sufficient, and non-ASCII bytes still
// advance the cursor so the grid never desyncs from the byte stream.
func (e *emulator) printByte(b byte) {
	e.printRune(rune(b))
}

func (e *emulator) printRune(r rune) {
	if r == 0 {
		r = ' '
	}
	wide := width.LookupRune(r).Kind() == width.EastAsianWide

	if e.cursorCol >= e.cols {
		e.cursorCol = 0
		e.lineFeed()
	}

	c := e.at(e.cursorRow, e.cursorCol)
	*c = cell{
		ch: r, fg: e.curFg, bg: e.curBg,
		bold: e.curBold, dim: e.curDim, underline: e.curUnderline,
		inverse: e.curInverse, hidden: e.curHidden, wide: wide,
	}
	e.cursorCol++

	if wide && e.cursorCol < e.cols {
		spacer := e.at(e.cursorRow, e.cursorCol)
		*spacer = cell{ch: ' ', fg: e.curFg, bg: e.curBg, spacer: true}
		e.cursorCol++
	}
}

func (e *emulator) lineFeed() {
	if e.cursorRow == e.rows-1 {
		e.scrollUp(1)
	} else {
		e.cursorRow++
	}
}

func (e *emulator) scrollUp(n int) {
	if n <= 0 {
		return
	}
	if n >= e.rows {
		for i := range e.grid {
			e.grid[i] = blankCell()
		}
		return
	}
	copy(e.grid, e.grid[n*e.cols:])
	for i := (e.rows - n) * e.cols; i < len(e.grid); i++ {
		e.grid[i] = blankCell()
	}
}

func (e *emulator) advanceEscape(b byte) {
	switch b {
	case '[':
		e.state = stateCSI
		e.params.Reset()
		e.privateCSI = false
	case ']':
		e.state = stateOSC
		e.params.Reset()
	case 'c':
		e.reset()
		e.state = stateGround
	default:
		// Unsupported single-char escape (e.g. charset designation); ignore.
		e.state = stateGround
	}
}

func (e *emulator) reset() {
	for i := range e.grid {
		e.grid[i] = blankCell()
	}
	e.cursorRow, e.cursorCol = 0, 0
	e.curFg, e.curBg = defaultColor, defaultColor
	e.curBold, e.curDim, e.curUnderline, e.curInverse, e.curHidden = false, false, false, false, false
	e.cursorShape = cursorVisible
}

func (e *emulator) advanceCSI(b byte) {
	switch {
	case b == '?' && e.params.Len() == 0:
		e.privateCSI = true
	case b >= '0' && b <= '9', b == ';':
		e.params.WriteByte(b)
	case b >= 0x40 && b <= 0x7e:
		e.dispatchCSI(b)
		e.state = stateGround
	default:
		// ignore intermediates we don't model
	}
}

func (e *emulator) csiInts(defaultVal int) []int {
	raw := e.params.String()
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ";")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			out = append(out, defaultVal)
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			n = defaultVal
		}
		out = append(out, n)
	}
	return out
}

func (e *emulator) csiInt(idx, def int) int {
	ints := e.csiInts(def)
	if idx >= len(ints) || ints[idx] <= 0 {
		return def
	}
	return ints[idx]
}

func (e *emulator) dispatchCSI(final byte) {
	if e.privateCSI {
		e.dispatchPrivateCSI(final)
		return
	}
	switch final {
	case 'A':
		e.cursorRow -= e.csiInt(0, 1)
		e.clampCursor()
	case 'B':
		e.cursorRow += e.csiInt(0, 1)
		e.clampCursor()
	case 'C':
		e.cursorCol += e.csiInt(0, 1)
		e.clampCursor()
	case 'D':
		e.cursorCol -= e.csiInt(0, 1)
		e.clampCursor()
	case 'G':
		e.cursorCol = e.csiInt(0, 1) - 1
		e.clampCursor()
	case 'H', 'f':
		ints := e.csiInts(1)
		row, col := 1, 1
		if len(ints) > 0 {
			row = ints[0]
		}
		if len(ints) > 1 {
			col = ints[1]
		}
		e.cursorRow = row - 1
		e.cursorCol = col - 1
		e.clampCursor()
	case 'J':
		e.eraseInDisplay(e.csiInt(0, 0))
	case 'K':
		e.eraseInLine(e.csiInt(0, 0))
	case 'm':
		e.applySGR()
	default:
		// scroll-region ('r'), save/restore cursor, etc. are not modeled.
	}
}

func (e *emulator) dispatchPrivateCSI(final byte) {
	if final != 'h' && final != 'l' {
		return
	}
	set := final == 'h'
	for _, mode := range e.csiInts(0) {
		switch mode {
		case 25:
			if set {
				e.cursorShape = cursorVisible
			} else {
				e.cursorShape = cursorHidden
			}
		case 1000, 1002, 1003:
			e.mouseMode = set
		case 1006:
			e.sgrMouse = set
		case 1005:
			e.utf8Mouse = set
		case 2004:
			e.bracketedPaste = set
		}
	}
}

func (e *emulator) clampCursor() {
	if e.cursorRow < 0 {
		e.cursorRow = 0
	}
	if e.cursorRow >= e.rows {
		e.cursorRow = e.rows - 1
	}
	if e.cursorCol < 0 {
		e.cursorCol = 0
	}
	if e.cursorCol >= e.cols {
		e.cursorCol = e.cols - 1
	}
}

func (e *emulator) eraseInDisplay(mode int) {
	switch mode {
	case 0:
		e.eraseInLine(0)
		for r := e.cursorRow + 1; r < e.rows; r++ {
			e.eraseRow(r)
		}
	case 1:
		for r := 0; r < e.cursorRow; r++ {
			e.eraseRow(r)
		}
		e.eraseInLine(1)
	case 2, 3:
		for r := 0; r < e.rows; r++ {
			e.eraseRow(r)
		}
	}
}

func (e *emulator) eraseRow(row int) {
	for c := 0; c < e.cols; c++ {
		*e.at(row, c) = blankCell()
	}
}

func (e *emulator) eraseInLine(mode int) {
	switch mode {
	case 0:
		for c := e.cursorCol; c < e.cols; c++ {
			*e.at(e.cursorRow, c) = blankCell()
		}
	case 1:
		for c := 0; c <= e.cursorCol && c < e.cols; c++ {
			*e.at(e.cursorRow, c) = blankCell()
		}
	case 2:
		e.eraseRow(e.cursorRow)
	}
}

func (e *emulator) applySGR() {
	codes := e.csiInts(0)
	if len(codes) == 0 {
		codes = []int{0}
	}
	for i := 0; i < len(codes); i++ {
		code := codes[i]
		switch {
		case code == 0:
			e.curFg, e.curBg = defaultColor, defaultColor
			e.curBold, e.curDim, e.curUnderline, e.curInverse, e.curHidden = false, false, false, false, false
		case code == 1:
			e.curBold = true
		case code == 2:
			e.curDim = true
		case code == 4:
			e.curUnderline = true
		case code == 7:
			e.curInverse = true
		case code == 8:
			e.curHidden = true
		case code == 21, code == 22:
			e.curBold, e.curDim = false, false
		case code == 24:
			e.curUnderline = false
		case code == 27:
			e.curInverse = false
		case code == 28:
			e.curHidden = false
		case code >= 30 && code <= 37:
			e.curFg = indexedColor(uint8(code - 30))
		case code == 38:
			consumed, col := e.parseExtendedColor(codes, i)
			e.curFg = col
			i += consumed
		case code == 39:
			e.curFg = defaultColor
		case code >= 40 && code <= 47:
			e.curBg = indexedColor(uint8(code - 40))
		case code == 48:
			consumed, col := e.parseExtendedColor(codes, i)
			e.curBg = col
			i += consumed
		case code == 49:
			e.curBg = defaultColor
		case code >= 90 && code <= 97:
			e.curFg = indexedColor(uint8(code - 90 + 8))
		case code >= 100 && code <= 107:
			e.curBg = indexedColor(uint8(code - 100 + 8))
		}
	}
}

// parseExtendedColor handles 38/48;5;n (indexed) and 38/48;2;r;g;b (RGB)
// forms, returning how many extra codes were consumed and the resolved
// color reference.
func (e *emulator) parseExtendedColor(codes []int, i int) (int, cellColor) {
	if i+1 >= len(codes) {
		return 0, defaultColor
	}
	switch codes[i+1] {
	case 5:
		if i+2 < len(codes) {
			return 2, indexedColor(uint8(codes[i+2]))
		}
		return 1, defaultColor
	case 2:
		if i+4 < len(codes) {
			return 4, rgbColor(uint8(codes[i+2]), uint8(codes[i+3]), uint8(codes[i+4]))
		}
		return 1, defaultColor
	default:
		return 1, defaultColor
	}
}

func (e *emulator) advanceOSC(b byte) {
	switch b {
	case 0x07:
		e.state = stateGround
	case 0x1b:
		e.escBuf.WriteByte(b)
		// ESC starts the ST terminator; the escape state then swallows
		// the following '\' so it is not printed.
		e.state = stateEscape
	default:
		// OSC payloads (window title, palette sets) are skipped without
		// being interpreted; the snapshot algorithm does not need them.
	}
}

// mouseReportingActive reports whether the attached application has
// requested any form of mouse reporting.
func (e *emulator) mouseReportingActive() bool {
	return e.mouseMode || e.sgrMouse || e.utf8Mouse
}

// bracketedPasteActive reports whether bracketed paste mode is enabled.
func (e *emulator) bracketedPasteActive() bool {
	return e.bracketedPaste
}
