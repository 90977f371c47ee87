package viewer

// snapshotFrom walks the emulator's grid in row-major order and resolves
// each cell's rendered style, applying the modifiers in the exact order
// specified: dim, then inverse, then selection, then cursor-swap, then
// hidden, then NUL-to-space. Wide-character spacer cells are skipped so the
// preceding wide cell's glyph is the only one rendered for that logical
// character.
func snapshotFrom(e *emulator) TerminalSnapshot {
	baseStyle := TerminalCellStyle{
		FG: e.palette.resolveIndex(paletteForeground),
		BG: e.palette.resolveIndex(paletteBackground),
	}
	snap := blankSnapshot(e.rows, e.cols, baseStyle)

	cursorVisibleNow := e.cursorShape != cursorHidden

	for row := 0; row < e.rows; row++ {
		for col := 0; col < e.cols; col++ {
			c := e.at(row, col)
			if c.spacer {
				continue
			}

			fg := e.palette.resolve(c.fg, paletteForeground)
			bg := e.palette.resolve(c.bg, paletteBackground)

			if c.dim {
				fg = e.palette.resolveIndex(paletteDimFg)
			}

			if c.inverse {
				fg, bg = bg, fg
			}

			if e.sel.contains(row, col) {
				fg = e.palette.resolveIndex(paletteBlack)
				bg = e.palette.resolveIndex(paletteWhite)
			}

			isCursorCell := cursorVisibleNow && row == e.cursorRow && col == e.cursorCol
			if isCursorCell {
				fg, bg = bg, fg
			}

			ch := c.ch
			if c.hidden {
				ch = ' '
			}
			if ch == 0 {
				ch = ' '
			}

			snap.Cells[row][col] = TerminalCell{
				Char: ch,
				Style: TerminalCellStyle{
					FG:        fg,
					BG:        bg,
					Bold:      c.bold,
					Underline: c.underline,
				},
			}
		}
	}

	return snap
}
