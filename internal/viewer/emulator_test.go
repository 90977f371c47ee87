package viewer

import "testing"

func TestEmulatorPrintsPlainText(t *testing.T) {
	e := newEmulator(4, 10)
	e.write([]byte("hi"))

	snap := snapshotFrom(e)
	if snap.Cells[0][0].Char != 'h' || snap.Cells[0][1].Char != 'i' {
		t.Fatalf("expected 'hi', got %q%q", snap.Cells[0][0].Char, snap.Cells[0][1].Char)
	}
}

func TestEmulatorLineFeedScrolls(t *testing.T) {
	e := newEmulator(2, 5)
	e.write([]byte("aaaaa\r\nbbbbb\r\nccccc"))

	snap := snapshotFrom(e)
	if snap.Cells[0][0].Char != 'b' {
		t.Fatalf("expected top row to have scrolled to 'b', got %q", snap.Cells[0][0].Char)
	}
	if snap.Cells[1][0].Char != 'c' {
		t.Fatalf("expected bottom row 'c', got %q", snap.Cells[1][0].Char)
	}
}

func TestEmulatorSGRBoldAndColor(t *testing.T) {
	e := newEmulator(1, 5)
	e.write([]byte("\x1b[1;31mX\x1b[0m"))

	snap := snapshotFrom(e)
	cell := snap.Cells[0][0]
	if !cell.Style.Bold {
		t.Fatalf("expected bold cell")
	}
	if cell.Style.FG != fallbackAnsiColor(1) {
		t.Fatalf("expected red fg, got %+v", cell.Style.FG)
	}
}

func TestEmulatorInverseSwapsColors(t *testing.T) {
	e := newEmulator(1, 5)
	e.write([]byte("\x1b[7mX"))

	snap := snapshotFrom(e)
	cell := snap.Cells[0][0]
	if cell.Style.FG != fallbackAnsiColor(paletteBackground) || cell.Style.BG != fallbackAnsiColor(paletteForeground) {
		t.Fatalf("expected fg/bg swapped by inverse, got %+v", cell.Style)
	}
}

func TestEmulatorHiddenFlagBlanksChar(t *testing.T) {
	e := newEmulator(1, 5)
	e.write([]byte("\x1b[8mX"))

	snap := snapshotFrom(e)
	if snap.Cells[0][0].Char != ' ' {
		t.Fatalf("expected hidden cell to render as space, got %q", snap.Cells[0][0].Char)
	}
}

func TestEmulatorCursorPositionSwapsColorsWhenVisible(t *testing.T) {
	e := newEmulator(1, 5)
	e.write([]byte("X"))
	// cursor now sits on column 1 (blank cell) after printing 'X'.

	snap := snapshotFrom(e)
	cursorCell := snap.Cells[0][1]
	if cursorCell.Style.FG != fallbackAnsiColor(paletteBackground) {
		t.Fatalf("expected cursor cell fg/bg swapped, got %+v", cursorCell.Style)
	}
}

func TestMouseReportingAndBracketedPasteModes(t *testing.T) {
	e := newEmulator(1, 5)
	if e.mouseReportingActive() || e.bracketedPasteActive() {
		t.Fatalf("expected both modes inactive initially")
	}

	e.write([]byte("\x1b[?1000h\x1b[?2004h"))
	if !e.mouseReportingActive() {
		t.Fatalf("expected mouse reporting active")
	}
	if !e.bracketedPasteActive() {
		t.Fatalf("expected bracketed paste active")
	}

	e.write([]byte("\x1b[?1000l\x1b[?2004l"))
	if e.mouseReportingActive() || e.bracketedPasteActive() {
		t.Fatalf("expected both modes cleared")
	}
}

func TestEncodeKeyControlAndSpecials(t *testing.T) {
	got := EncodeKey('a', KeyNone, KeyModifiers{Control: true})
	if string(got) != "\x01" {
		t.Fatalf("Ctrl-a = %x, want 0x01", got)
	}

	got = EncodeKey(0, KeyEnter, KeyModifiers{})
	if string(got) != "\r" {
		t.Fatalf("Enter = %q, want \\r", got)
	}

	got = EncodeKey(0, KeyUp, KeyModifiers{})
	if string(got) != "\x1b[A" {
		t.Fatalf("Up = %q, want ESC[A", got)
	}

	got = EncodeKey(0, KeyF5, KeyModifiers{})
	if string(got) != "\x1b[5~" {
		t.Fatalf("F5 = %q, want ESC[5~", got)
	}
}
