package viewer

// RGB is a resolved 24-bit color.
type RGB struct {
	R, G, B uint8
}

// colorKind tags how a cell's color was last set.
type colorKind uint8

const (
	colorDefault colorKind = iota
	colorIndexed
	colorRGB
)

// cellColor is an unresolved color reference as stored on a cell: either the
// default foreground/background, a palette index, or an explicit RGB triple.
// Resolution against the current palette happens at snapshot time, per the
// ordered rules in the snapshotting algorithm.
type cellColor struct {
	kind  colorKind
	index uint8
	rgb   RGB
}

var defaultColor = cellColor{kind: colorDefault}

func indexedColor(idx uint8) cellColor { return cellColor{kind: colorIndexed, index: idx} }
func rgbColor(r, g, b uint8) cellColor { return cellColor{kind: colorRGB, rgb: RGB{r, g, b}} }

// fallbackAnsiColor is the built-in xterm-256 table, used whenever the
// active palette has no override for an index. Indices 0-15 are the
// standard/bright ANSI colors; 16-231 are the 6x6x6 color cube; 232-255 are
// the grayscale ramp.
func fallbackAnsiColor(index uint8) RGB {
	switch {
	case index < 16:
		return ansi16[index]
	case index <= 231:
		idx := index - 16
		r := idx / 36
		g := (idx % 36) / 6
		b := idx % 6
		steps := [6]uint8{0, 95, 135, 175, 215, 255}
		return RGB{steps[r], steps[g], steps[b]}
	default:
		v := uint8(8 + (int(index)-232)*10)
		return RGB{v, v, v}
	}
}

var ansi16 = [16]RGB{
	{0x00, 0x00, 0x00}, {0xcd, 0x00, 0x00}, {0x00, 0xcd, 0x00}, {0xcd, 0xcd, 0x00},
	{0x00, 0x00, 0xee}, {0xcd, 0x00, 0xcd}, {0x00, 0xcd, 0xcd}, {0xe5, 0xe5, 0xe5},
	{0x7f, 0x7f, 0x7f}, {0xff, 0x00, 0x00}, {0x00, 0xff, 0x00}, {0xff, 0xff, 0x00},
	{0x5c, 0x5c, 0xff}, {0xff, 0x00, 0xff}, {0x00, 0xff, 0xff}, {0xff, 0xff, 0xff},
}

const (
	paletteForeground = 7
	paletteBackground = 0
	paletteDimFg      = 8
	paletteBlack      = 0
	paletteWhite      = 7
)

// palette holds the emulator's current 256-color table. It starts as the
// built-in xterm table; indices without an override fall back to
// fallbackAnsiColor. The emulator skips OSC sequences, so no override is
// ever installed from the byte stream.
type palette struct {
	overrides map[uint8]RGB
}

func newPalette() *palette {
	return &palette{overrides: make(map[uint8]RGB)}
}

func (p *palette) resolveIndex(idx uint8) RGB {
	if rgb, ok := p.overrides[idx]; ok {
		return rgb
	}
	return fallbackAnsiColor(idx)
}

func (p *palette) set(idx uint8, rgb RGB) {
	p.overrides[idx] = rgb
}

// resolve implements the ordered color-resolution rule from the snapshotting
// algorithm: explicit RGB wins; indexed uses the current palette falling
// back to the built-in table; default/unset falls back to the same table at
// the named fallback index.
func (p *palette) resolve(c cellColor, fallbackIndex uint8) RGB {
	switch c.kind {
	case colorRGB:
		return c.rgb
	case colorIndexed:
		return p.resolveIndex(c.index)
	default:
		return p.resolveIndex(fallbackIndex)
	}
}
