package tty

import "strings"

// fakeBCE reports whether the terminal needs an explicit space-fill
// instead of relying on clr_eol/clr_bol to paint the background colour
// correctly, because it lacks back_color_erase (tty_fake_bce).
func (t *Terminal) fakeBCE(bg Color) bool {
	return !t.caps.Flag(CapBCE) && !bg.IsDefault()
}

// largeRegion reports whether redrawing ny rows of pane p is cheaper
// done as a scroll-region insert/delete than cell-by-cell, matching
// tty_large_region's heuristic of "more than half the pane's height".
func (t *Terminal) largeRegion(p Pane, ny int) bool {
	_, sy := p.Size()
	return ny > sy/2
}

// paneFullWidth reports whether pane p spans the full physical terminal
// width, the precondition for using unparametrised margin-relative
// capabilities (ich1/dch1/el) instead of the parametrised forms.
func (t *Terminal) paneFullWidth(p Pane) bool {
	xoff, _ := p.Offset()
	sx, _ := p.Size()
	return xoff == 0 && sx == t.sx
}

// drawLine emits line py of pane p's screen from column atleast to the end
// of the line's used cells (tty_draw_line / tty_draw_pane). Trailing
// default cells are elided via clr_eol when the terminal can paint them
// without an explicit space per cell.
func (t *Terminal) drawLine(p Pane, py int, atleast int) {
	scr := p.Screen()
	xoff, yoff := p.Offset()
	sx, _ := p.Size()

	used := scr.LineCellsize(py)
	if used > sx {
		used = sx
	}

	t.MoveTo(xoff+atleast, yoff+py)

	for x := atleast; x < used; x++ {
		cell := scr.GetCell(x, py)
		if cell.Attr&AttrPadding != 0 {
			continue
		}
		if cell.Attr&AttrSelected != 0 {
			cell = scr.SelectCell(cell)
		}
		t.writeCell(p, cell)
		if cell.Width > 1 {
			x += cell.Width - 1
		}
	}

	if used < sx {
		def := DefaultCell()
		t.Apply(def, p)
		_, bg := t.resolveColours(def, p)
		fake := t.fakeBCE(bg)
		if !fake && t.paneFullWidth(p) && t.caps.Has(CapEL) {
			t.puts(t.caps.String(CapEL))
		} else if !fake && t.caps.Has(CapECH) {
			t.puts(t.caps.String1(CapECH, sx-used))
		} else {
			for x := used; x < sx; x++ {
				t.writeCell(p, def)
			}
		}
	}
}

// writeCell emits cell's attributes/colours (if changed) followed by its
// bytes, then advances the shadow cursor column (tty_cell).
//
// On a TermEarlyWrap terminal the last cell of the last row is skipped
// entirely, since writing it would scroll the screen. On other terminals a
// cell written in the last column leaves the cursor in the deferred-wrap
// state, so the shadow column becomes Unknown instead of being advanced and
// the next MoveTo positions absolutely.
func (t *Terminal) writeCell(p Pane, cell Cell) {
	if t.termFlags&TermEarlyWrap != 0 && t.cx == t.sx-1 && t.cy == t.sy-1 {
		return
	}
	t.Apply(cell, p)
	if t.cx == t.sx-1 && t.termFlags&TermEarlyWrap == 0 {
		t.cx = Unknown
	}

	t.puts(t.encodeCellData(cell))

	if t.cx != Unknown {
		t.cx += cell.Width
	}
}

// encodeCellData resolves what bytes actually reach the terminal for a
// cell (tty_cell): control characters are dropped, alternate-charset
// cells are translated through acs_chars, and multi-byte UTF-8 content is
// replaced by width-matched underscores on a terminal that hasn't been
// told it can accept UTF-8.
func (t *Terminal) encodeCellData(cell Cell) []byte {
	if len(cell.Data) == 1 && (cell.Data[0] < 0x20 || cell.Data[0] == 0x7f) {
		return nil
	}

	if cell.Attr&AttrCharset != 0 && t.caps.Has(CapACSC) {
		return t.translateACS(cell.Data)
	}

	if len(cell.Data) > 1 && t.flags&FlagUTF8 == 0 {
		return []byte(strings.Repeat("_", cell.Width))
	}

	return cell.Data
}

// translateACS maps each byte of data through the acs_chars capability's
// alternating source/destination byte pairs, leaving unmapped bytes as is.
func (t *Terminal) translateACS(data []byte) []byte {
	acs := t.caps.String(CapACSC)
	out := make([]byte, 0, len(data))
	for _, b := range data {
		out = append(out, acsLookup(acs, b))
	}
	return out
}

func acsLookup(acs []byte, b byte) byte {
	for i := 0; i+1 < len(acs); i += 2 {
		if acs[i] == b {
			return acs[i+1]
		}
	}
	return b
}

// redrawRegion repaints [py, py+ny) of pane p's screen (tty_redraw_region).
// Every row is redrawn with drawLine whatever the region's size, and p is
// flagged for redraw.
func (t *Terminal) redrawRegion(p Pane, py, ny int) {
	for y := py; y < py+ny; y++ {
		p.SetRedraw()
		t.drawLine(p, y, 0)
	}
}
