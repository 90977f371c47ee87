package viewer

// cell is one position in the emulator's grid: a rune plus unresolved style
// attributes. Colors are resolved against the palette only when a
// TerminalSnapshot is produced.
type cell struct {
	ch        rune
	fg, bg    cellColor
	bold      bool
	dim       bool
	underline bool
	inverse   bool
	hidden    bool
	wide      bool // this cell holds a double-width rune
	spacer    bool // trailing half of a wide rune; skipped when snapshotting
}

func blankCell() cell {
	return cell{ch: ' ', fg: defaultColor, bg: defaultColor}
}

// TerminalCellStyle is the resolved, renderable style of one cell.
type TerminalCellStyle struct {
	FG        RGB
	BG        RGB
	Bold      bool
	Underline bool
}

// TerminalCell is one resolved, renderable grid position.
type TerminalCell struct {
	Char  rune
	Style TerminalCellStyle
}

// TerminalSnapshot is an immutable rectangular grid of styled cells.
type TerminalSnapshot struct {
	Rows  int
	Cols  int
	Cells [][]TerminalCell
}

// blankSnapshot allocates a rows x cols snapshot filled with baseStyle
// spaces.
func blankSnapshot(rows, cols int, baseStyle TerminalCellStyle) TerminalSnapshot {
	grid := make([][]TerminalCell, rows)
	for r := range grid {
		row := make([]TerminalCell, cols)
		for c := range row {
			row[c] = TerminalCell{Char: ' ', Style: baseStyle}
		}
		grid[r] = row
	}
	return TerminalSnapshot{Rows: rows, Cols: cols, Cells: grid}
}
