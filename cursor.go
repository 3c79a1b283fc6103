package tty

// MoveTo positions the shadow (and physical) cursor at (cx, cy), choosing
// the cheapest sequence of capabilities that gets there (tty_cursor). The
// shadow is trusted: if either coordinate is Unknown the only safe move is
// an absolute one.
func (t *Terminal) MoveTo(cx, cy int) {
	if cx < 0 {
		cx = 0
	}
	if cy < 0 {
		cy = 0
	}

	// Pending-wrap recovery: a shadow column at or past the right margin
	// means the physical cursor may still be sitting in the terminal's
	// deferred-wrap state, where the terminal's own idea of the cursor
	// column disagrees with the shadow. Force an explicit column-0 move
	// before any of the optimisations below run, so every later comparison
	// against t.cx is trustworthy again — this also covers move_to(0,0)
	// with a pending-wrapped shadow, which must not take the CapHOME
	// shortcut directly.
	if t.cx != Unknown && t.cx >= t.sx {
		t.puts(t.caps.String(CapCR))
		t.cx = 0
	}

	if t.cx == cx && t.cy == cy {
		return
	}

	// Unknown shadow position: only an absolute move is trustworthy.
	if t.cx == Unknown || t.cy == Unknown {
		t.moveAbsolute(cx, cy)
		return
	}

	if cx == 0 && cy == 0 && t.caps.Has(CapHOME) {
		t.puts(t.caps.String(CapHOME))
		t.cx, t.cy = 0, 0
		return
	}

	// CR+LF is cheaper than an absolute or HPA/VPA-based move when landing
	// on column 0 of the very next row — but only when that row isn't the
	// bottom of the scroll region, where a line feed would scroll the
	// region instead of just moving the cursor down.
	if cx == 0 && cy == t.cy+1 && (t.rlower == Unknown || t.cy != t.rlower) && t.caps.Has(CapCR) {
		t.puts(t.caps.String(CapCR))
		t.puts([]byte("\n"))
		t.cx, t.cy = 0, cy
		return
	}

	// Moving to column 0 of the current row: plain carriage return.
	if cx == 0 && cy == t.cy && t.caps.Has(CapCR) {
		t.puts(t.caps.String(CapCR))
		t.cx = 0
		return
	}

	switch {
	case cy == t.cy:
		t.moveCol(cx)
	case cx == t.cx:
		t.moveRow(cy)
	default:
		t.moveAbsolute(cx, cy)
	}
}

func (t *Terminal) moveCol(cx int) {
	switch {
	case cx == t.cx:
		return
	case t.caps.Has(CapHPA):
		t.puts(t.caps.String1(CapHPA, cx))
	case cx > t.cx && t.caps.Has(CapCUF):
		t.puts(t.caps.String1(CapCUF, cx-t.cx))
	case cx > t.cx && cx-t.cx <= 4 && t.caps.Has(CapCUF1):
		for i := 0; i < cx-t.cx; i++ {
			t.puts(t.caps.String(CapCUF1))
		}
	case cx < t.cx && t.caps.Has(CapCUB):
		t.puts(t.caps.String1(CapCUB, t.cx-cx))
	case cx < t.cx && t.cx-cx <= 4 && t.caps.Has(CapCUB1):
		for i := 0; i < t.cx-cx; i++ {
			t.puts(t.caps.String(CapCUB1))
		}
	default:
		t.moveAbsolute(cx, t.cy)
		return
	}
	t.cx = cx
}

func (t *Terminal) moveRow(cy int) {
	switch {
	case cy == t.cy:
		return
	case t.caps.Has(CapVPA):
		t.puts(t.caps.String1(CapVPA, cy))
	case cy > t.cy && t.caps.Has(CapCUD):
		t.puts(t.caps.String1(CapCUD, cy-t.cy))
	case cy > t.cy && cy-t.cy <= 4 && t.caps.Has(CapCUD1):
		for i := 0; i < cy-t.cy; i++ {
			t.puts(t.caps.String(CapCUD1))
		}
	case cy < t.cy && t.caps.Has(CapCUU):
		t.puts(t.caps.String1(CapCUU, t.cy-cy))
	case cy < t.cy && t.cy-cy <= 4 && t.caps.Has(CapCUU1):
		for i := 0; i < t.cy-cy; i++ {
			t.puts(t.caps.String(CapCUU1))
		}
	default:
		t.moveAbsolute(t.cx, cy)
		return
	}
	t.cy = cy
}

func (t *Terminal) moveAbsolute(cx, cy int) {
	t.puts(t.caps.String2(CapCUP, cy, cx))
	t.cx, t.cy = cx, cy
}

// SetRegion sets the scroll region to [rupper, rlower] (inclusive,
// 0-based), matching tty_region_pane/tty_region. A region spanning the
// whole screen is still emitted the first time so later relative
// scrolling (RI/linefeed) has a defined boundary; repeats are suppressed.
//
// Setting CSR moves the cursor to the terminal's home position on most
// terminals, so the shadow cursor position is invalidated, matching the
// PuTTY "pending wrap state" caution tty_region takes around CSR.
func (t *Terminal) SetRegion(rupper, rlower int) {
	if t.rupper == rupper && t.rlower == rlower {
		return
	}
	if !t.caps.Has(CapCSR) {
		t.rupper, t.rlower = rupper, rlower
		return
	}
	// PuTTY workaround: if the shadow cursor is past the right margin, its
	// pending-wrap state can make CSR land the cursor somewhere other than
	// what the terminal's own row tracking expects. An explicit column-0
	// move resolves the wrap before CSR is written.
	if t.cx != Unknown && t.cx >= t.sx {
		t.puts(t.caps.String(CapCR))
		t.cx = 0
	}
	t.puts(t.caps.String2(CapCSR, rupper, rlower))
	t.rupper, t.rlower = rupper, rlower
	t.cx, t.cy = Unknown, Unknown
}

// regionPane sets the scroll region to pane-relative rows [rupper, rlower]
// of pane p, offset into the physical screen (tty_region_pane).
func (t *Terminal) regionPane(p Pane, rupper, rlower int) {
	xoff, yoff := p.Offset()
	t.SetRegion(yoff+rupper, yoff+rlower)
	_ = xoff
}
