package tty

import "fmt"

// Op tags one pane-level screen operation the dispatcher knows how to
// apply to the physical terminal. It replaces a per-command
// function-pointer table with a single switch, the idiomatic Go shape
// for a small closed set of variants.
type Op int

const (
	OpInsertCharacter Op = iota
	OpDeleteCharacter
	OpClearCharacter
	OpInsertLine
	OpDeleteLine
	OpClearLine
	OpClearEndOfLine
	OpClearStartOfLine
	OpReverseIndex
	OpLineFeed
	OpClearEndOfScreen
	OpClearStartOfScreen
	OpClearScreen
	OpAlignmentTest
	OpCell
	OpUTF8Character
	OpSetSelection
	OpRawString
)

// Command is one dispatched operation: Op plus whatever parameters that
// variant needs. Fields unused by a given Op are ignored.
type Command struct {
	Op Op

	// Cursor-relative position, used by every Op except OpRawString and
	// OpSetSelection.
	OCX, OCY int

	// Orupper, Orlower bound the scroll region an operation should respect.
	// Leaving both zero means "the whole pane height", matched by region.
	Orupper, Orlower int

	// Xoff, Yoff are the pane's screen offset. Dispatch fills these in from
	// Pane.Offset() when both are left zero, so callers need not populate
	// them for the common zero-offset case.
	Xoff, Yoff int

	// N is a repeat count (insert/delete character or line counts).
	N int

	Cell Cell
	// LastCell is the cell immediately preceding OCX, used by the cell op's
	// right-margin wide-character wrap trick.
	LastCell Cell

	// Data carries OpUTF8Character's encoded rune, OpSetSelection's
	// clipboard bytes, or OpRawString's literal escape sequence.
	Data []byte
}

// region returns the scroll region cmd should apply to, defaulting to the
// full pane height when Orupper/Orlower were left unset.
func (cmd Command) region(sy int) (int, int) {
	if cmd.Orupper == 0 && cmd.Orlower == 0 {
		return 0, sy - 1
	}
	return cmd.Orupper, cmd.Orlower
}

// Dispatcher applies Commands against one Terminal/Pane pair, falling
// back to a full line redraw whenever the terminal lacks the primitive a
// command would otherwise need (tty_cmd_*'s "redraw_line" fallback).
type Dispatcher struct {
	t *Terminal
}

// NewDispatcher binds a Dispatcher to t.
func NewDispatcher(t *Terminal) *Dispatcher {
	return &Dispatcher{t: t}
}

// Dispatch applies cmd against pane p.
func (d *Dispatcher) Dispatch(p Pane, cmd Command) error {
	t := d.t
	if !p.Visible() {
		return nil
	}

	if cmd.Xoff == 0 && cmd.Yoff == 0 {
		cmd.Xoff, cmd.Yoff = p.Offset()
	}

	switch cmd.Op {
	case OpInsertCharacter:
		d.insertCharacter(p, cmd)
	case OpDeleteCharacter:
		d.deleteCharacter(p, cmd)
	case OpClearCharacter:
		d.clearCharacter(p, cmd)
	case OpInsertLine:
		d.insertLine(p, cmd)
	case OpDeleteLine:
		d.deleteLine(p, cmd)
	case OpClearLine:
		d.clearLine(p, cmd)
	case OpClearEndOfLine:
		d.clearEndOfLine(p, cmd)
	case OpClearStartOfLine:
		d.clearStartOfLine(p, cmd)
	case OpReverseIndex:
		d.reverseIndex(p, cmd)
	case OpLineFeed:
		d.lineFeed(p, cmd)
	case OpClearEndOfScreen:
		d.clearEndOfScreen(p, cmd)
	case OpClearStartOfScreen:
		d.clearStartOfScreen(p, cmd)
	case OpClearScreen:
		d.clearScreen(p, cmd)
	case OpAlignmentTest:
		d.alignmentTest(p, cmd)
	case OpCell:
		d.cell(p, cmd)
	case OpUTF8Character:
		d.utf8Character(p, cmd)
	case OpSetSelection:
		d.setSelection(cmd)
	case OpRawString:
		t.puts(cmd.Data)
		t.invalidateCursor()
		t.cell = DefaultCell()
	default:
		return fmt.Errorf("tty: unknown op %d", cmd.Op)
	}
	t.sink.Flush()
	return nil
}

func (d *Dispatcher) insertCharacter(p Pane, cmd Command) {
	t := d.t
	n := cmd.N
	if n <= 0 {
		return
	}
	t.regionPane(p, cmd.OCY, cmd.OCY)
	t.MoveTo(cmd.Xoff+cmd.OCX, cmd.Yoff+cmd.OCY)

	full := t.paneFullWidth(p)
	switch {
	case full && n == 1 && t.caps.Has(CapICH1):
		t.Apply(DefaultCell(), p)
		t.puts(t.caps.String(CapICH1))
	case t.caps.Has(CapICH):
		t.Apply(DefaultCell(), p)
		t.puts(t.caps.String1(CapICH, n))
	default:
		t.redrawRegion(p, cmd.OCY, 1)
	}
}

func (d *Dispatcher) deleteCharacter(p Pane, cmd Command) {
	t := d.t
	n := cmd.N
	if n <= 0 {
		return
	}
	t.regionPane(p, cmd.OCY, cmd.OCY)
	t.MoveTo(cmd.Xoff+cmd.OCX, cmd.Yoff+cmd.OCY)

	full := t.paneFullWidth(p)
	switch {
	case full && n == 1 && t.caps.Has(CapDCH1):
		t.Apply(DefaultCell(), p)
		t.puts(t.caps.String(CapDCH1))
	case t.caps.Has(CapDCH):
		t.Apply(DefaultCell(), p)
		t.puts(t.caps.String1(CapDCH, n))
	default:
		t.redrawRegion(p, cmd.OCY, 1)
	}
}

func (d *Dispatcher) clearCharacter(p Pane, cmd Command) {
	t := d.t
	n := cmd.N
	if n <= 0 {
		return
	}
	t.MoveTo(cmd.Xoff+cmd.OCX, cmd.Yoff+cmd.OCY)
	t.Apply(cmd.Cell, p)

	switch {
	case t.caps.Has(CapECH) && !t.fakeBCE(cmd.Cell.BG):
		t.puts(t.caps.String1(CapECH, n))
	default:
		for i := 0; i < n; i++ {
			t.writeCell(p, cmd.Cell)
		}
	}
}

// insertLine inserts n blank lines at cmd.OCY (tty_cmd_insertline). The
// CSR-based primitive is only safe when the pane spans the full terminal
// width, the terminal doesn't need fake-BCE space-filling, and it actually
// has a scroll-region and insert-line capability; otherwise every affected
// line is redrawn instead.
func (d *Dispatcher) insertLine(p Pane, cmd Command) {
	t := d.t
	n := cmd.N
	if n <= 0 {
		return
	}
	_, sy := p.Size()
	orupper, orlower := cmd.region(sy)

	full := t.paneFullWidth(p)
	_, bg := t.resolveColours(DefaultCell(), p)
	fake := t.fakeBCE(bg)
	hasPrimitive := t.caps.Has(CapIL) || (n == 1 && t.caps.Has(CapIL1))

	if !full || fake || !t.caps.Has(CapCSR) || !hasPrimitive {
		t.redrawRegion(p, cmd.OCY, sy-cmd.OCY)
		return
	}

	t.regionPane(p, orupper, orlower)
	t.MoveTo(cmd.Xoff, cmd.Yoff+cmd.OCY)
	t.Apply(DefaultCell(), p)
	if n == 1 && t.caps.Has(CapIL1) {
		t.puts(t.caps.String(CapIL1))
	} else {
		t.puts(t.caps.String1(CapIL, n))
	}
}

// deleteLine mirrors insertLine for DL/DL1 (tty_cmd_deleteline).
func (d *Dispatcher) deleteLine(p Pane, cmd Command) {
	t := d.t
	n := cmd.N
	if n <= 0 {
		return
	}
	_, sy := p.Size()
	orupper, orlower := cmd.region(sy)

	full := t.paneFullWidth(p)
	_, bg := t.resolveColours(DefaultCell(), p)
	fake := t.fakeBCE(bg)
	hasPrimitive := t.caps.Has(CapDL) || (n == 1 && t.caps.Has(CapDL1))

	if !full || fake || !t.caps.Has(CapCSR) || !hasPrimitive {
		t.redrawRegion(p, cmd.OCY, sy-cmd.OCY)
		return
	}

	t.regionPane(p, orupper, orlower)
	t.MoveTo(cmd.Xoff, cmd.Yoff+cmd.OCY)
	t.Apply(DefaultCell(), p)
	if n == 1 && t.caps.Has(CapDL1) {
		t.puts(t.caps.String(CapDL1))
	} else {
		t.puts(t.caps.String1(CapDL, n))
	}
}

func (d *Dispatcher) clearLine(p Pane, cmd Command) {
	t := d.t
	sx, _ := p.Size()
	t.MoveTo(cmd.Xoff, cmd.Yoff+cmd.OCY)
	t.Apply(cmd.Cell, p)

	if t.paneFullWidth(p) && t.caps.Has(CapEL) && !t.fakeBCE(cmd.Cell.BG) {
		t.puts(t.caps.String(CapEL))
		return
	}
	for x := 0; x < sx; x++ {
		t.writeCell(p, cmd.Cell)
	}
}

func (d *Dispatcher) clearEndOfLine(p Pane, cmd Command) {
	t := d.t
	sx, _ := p.Size()
	t.MoveTo(cmd.Xoff+cmd.OCX, cmd.Yoff+cmd.OCY)
	t.Apply(cmd.Cell, p)

	if t.paneFullWidth(p) && t.caps.Has(CapEL) && !t.fakeBCE(cmd.Cell.BG) {
		t.puts(t.caps.String(CapEL))
		return
	}
	for x := cmd.OCX; x < sx; x++ {
		t.writeCell(p, cmd.Cell)
	}
}

func (d *Dispatcher) clearStartOfLine(p Pane, cmd Command) {
	t := d.t
	t.Apply(cmd.Cell, p)

	if t.paneFullWidth(p) && t.caps.Has(CapEL1) && !t.fakeBCE(cmd.Cell.BG) {
		t.MoveTo(cmd.Xoff+cmd.OCX, cmd.Yoff+cmd.OCY)
		t.puts(t.caps.String(CapEL1))
		return
	}
	t.MoveTo(cmd.Xoff, cmd.Yoff+cmd.OCY)
	for x := 0; x <= cmd.OCX; x++ {
		t.writeCell(p, cmd.Cell)
	}
}

// reverseIndex scrolls the region down one line, only acting when the
// cursor sits exactly on the region's upper margin (tty_cmd_reverseindex's
// "if (ctx->ocy != ctx->orupper) return" guard); any other row is a no-op
// here because the grid has already scrolled its own content.
func (d *Dispatcher) reverseIndex(p Pane, cmd Command) {
	t := d.t
	_, sy := p.Size()
	orupper, orlower := cmd.region(sy)
	if cmd.OCY != orupper {
		return
	}

	full := t.paneFullWidth(p)
	_, bg := t.resolveColours(DefaultCell(), p)
	fake := t.fakeBCE(bg)

	if !full || fake || !t.caps.Has(CapCSR) || !t.caps.Has(CapRI) {
		t.redrawRegion(p, orupper, orlower-orupper+1)
		return
	}

	t.regionPane(p, orupper, orlower)
	t.MoveTo(cmd.Xoff+cmd.OCX, cmd.Yoff+orupper)
	t.puts(t.caps.String(CapRI))
}

// lineFeed scrolls the region up one line, only acting when the cursor
// sits on the region's lower margin (tty_cmd_linefeed's matching guard).
func (d *Dispatcher) lineFeed(p Pane, cmd Command) {
	t := d.t
	_, sy := p.Size()
	orupper, orlower := cmd.region(sy)
	if cmd.OCY != orlower {
		return
	}

	full := t.paneFullWidth(p)
	_, bg := t.resolveColours(DefaultCell(), p)
	fake := t.fakeBCE(bg)

	if !full || fake || !t.caps.Has(CapCSR) {
		t.redrawRegion(p, orupper, orlower-orupper+1)
		return
	}

	t.regionPane(p, orupper, orlower)
	t.MoveTo(cmd.Xoff+cmd.OCX, cmd.Yoff+orlower)
	t.puts([]byte("\n"))
	t.cy = cmd.Yoff + orlower
}

func (d *Dispatcher) clearEndOfScreen(p Pane, cmd Command) {
	t := d.t
	sx, sy := p.Size()
	t.Apply(cmd.Cell, p)
	t.MoveTo(cmd.Xoff+cmd.OCX, cmd.Yoff+cmd.OCY)

	if t.caps.Has(CapEL) && !t.fakeBCE(cmd.Cell.BG) {
		t.puts(t.caps.String(CapEL))
	} else {
		for x := cmd.OCX; x < sx; x++ {
			t.writeCell(p, cmd.Cell)
		}
	}
	t.redrawRegion(p, cmd.OCY+1, sy-cmd.OCY-1)
}

// clearStartOfScreen clears from the top of the pane through the cursor's
// row; on the cursor's row it clears ocx+1 cells, columns 0 through the
// cursor column inclusive — matching DEC's erase-to-cursor-inclusive
// semantics, as the original's explicit ocx+1 bound does.
func (d *Dispatcher) clearStartOfScreen(p Pane, cmd Command) {
	t := d.t
	sx, _ := p.Size()
	t.Apply(cmd.Cell, p)
	t.redrawRegion(p, 0, cmd.OCY)

	t.MoveTo(cmd.Xoff, cmd.Yoff+cmd.OCY)
	last := cmd.OCX + 1
	if last > sx {
		last = sx
	}
	for x := 0; x < last; x++ {
		t.writeCell(p, cmd.Cell)
	}
}

func (d *Dispatcher) clearScreen(p Pane, cmd Command) {
	t := d.t
	_, sy := p.Size()
	t.Apply(cmd.Cell, p)
	t.redrawRegion(p, 0, sy)
}

func (d *Dispatcher) alignmentTest(p Pane, cmd Command) {
	t := d.t
	xoff, yoff := p.Offset()
	sx, sy := p.Size()
	fill := NewCell('E', 0, ColorDefaultValue, ColorDefaultValue)
	t.Apply(fill, p)
	for y := 0; y < sy; y++ {
		t.MoveTo(xoff, yoff+y)
		for x := 0; x < sx; x++ {
			t.writeCell(p, fill)
		}
	}
}

// cell writes a single cell (tty_cmd_cell). A wide cell landing in the
// pane's last column risks an incorrect wrap on terminals that don't
// handle double-width characters there correctly; the wrap trick instead
// redraws the previous (already-placed) cell, LastCell, one column back
// and does not write the wide cell in this call.
func (d *Dispatcher) cell(p Pane, cmd Command) {
	t := d.t
	sx, _ := p.Size()
	if cmd.Cell.Width > 1 && cmd.OCX == sx-1 {
		t.MoveTo(cmd.Xoff+cmd.OCX-1, cmd.Yoff+cmd.OCY)
		t.writeCell(p, cmd.LastCell)
		return
	}
	t.MoveTo(cmd.Xoff+cmd.OCX, cmd.Yoff+cmd.OCY)
	t.writeCell(p, cmd.Cell)
}

// utf8Character always redraws the whole row rather than writing the cell
// in place (tty_cmd_utf8character): a multi-byte glyph can change the
// line's wrap point in ways a single writeCell can't reason about.
func (d *Dispatcher) utf8Character(p Pane, cmd Command) {
	t := d.t
	t.drawLine(p, cmd.OCY, 0)
}

// setSelection emits the OSC 52 clipboard-set sequence (Ms extended
// capability), base64-encoded by the caller into cmd.Data. An empty or
// over-long payload is dropped silently, matching the original's refusal
// to forward selections a terminal would choke on.
func (d *Dispatcher) setSelection(cmd Command) {
	const maxSelection = 1 << 20
	t := d.t
	if len(cmd.Data) == 0 || len(cmd.Data) > maxSelection {
		return
	}
	if !t.caps.Has(CapMS) {
		return
	}
	t.puts(t.caps.Ptr2(CapMS, []byte("c"), cmd.Data))
}
