package tty

import "github.com/mattn/go-runewidth"

// AttrFlags is the bitset of cell attributes mirrored from the grid.
type AttrFlags uint16

const (
	AttrBright AttrFlags = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrReverse
	AttrHidden
	AttrCharset
	AttrPadding
	AttrSelected
)

// Cell is the engine's view of one grid cell. It is borrowed from the
// grid subsystem for the duration of a dispatched operation; the engine
// never retains a Cell beyond that call.
type Cell struct {
	Attr AttrFlags
	FG   Color
	BG   Color
	Data []byte
	// Width is the on-screen cell width of Data: 1 for most glyphs, 2 for
	// wide (CJK, emoji) glyphs. A Width-2 cell is followed in the grid by
	// a padding cell that the cell writer skips.
	Width int
}

// DefaultCell is the grid's default cell: default colours, no attributes,
// a single space.
func DefaultCell() Cell {
	return Cell{FG: ColorDefaultValue, BG: ColorDefaultValue, Data: []byte{' '}, Width: 1}
}

// NewCell builds a Cell from a single rune and explicit colours/attributes.
func NewCell(r rune, attr AttrFlags, fg, bg Color) Cell {
	w := runewidth.RuneWidth(r)
	if w < 1 {
		w = 1
	}
	return Cell{Attr: attr, FG: fg, BG: bg, Data: []byte(string(r)), Width: w}
}

// Equal reports whether two cells have identical attributes, colours and
// content — used by tests asserting cell and shadow state. Apply compares
// attributes and colours directly and does not call it.
func (c Cell) Equal(o Cell) bool {
	if c.Attr != o.Attr || c.FG != o.FG || c.BG != o.BG || c.Width != o.Width {
		return false
	}
	if len(c.Data) != len(o.Data) {
		return false
	}
	for i := range c.Data {
		if c.Data[i] != o.Data[i] {
			return false
		}
	}
	return true
}

// grid_cells_equal in the original ignores GRID_FLAG_SELECTED when
// comparing shadow state; Equal does not. Apply copies every attribute
// bit, AttrSelected included, into the shadow cell, so a selected cell and
// its unselected twin compare unequal here.
