package tty

import "fmt"

// attrCapTable maps each attribute bit Apply can turn on to the capability
// that sets it, in the fixed emission order tty_attributes uses. After an
// sgr0 reset every bit still wanted is re-applied in this order; otherwise
// only newly set bits are emitted. AttrCharset, AttrPadding and
// AttrSelected have no entry.
var attrCapTable = []struct {
	bit AttrFlags
	cap Cap
}{
	{AttrBright, CapBOLD},
	{AttrDim, CapDIM},
	{AttrItalic, CapSITM},
	{AttrUnderline, CapSMUL},
	{AttrBlink, CapBLINK},
	{AttrReverse, CapREV},
	{AttrHidden, CapINVIS},
}

// Apply reconciles the shadow cell (attributes and colours) with cell,
// resolving default colours against p's style chain and emitting only the
// capabilities needed to converge (tty_attributes / tty_default_colours).
func (t *Terminal) Apply(cell Cell, p Pane) {
	fg, bg := t.resolveColours(cell, p)
	resolved := cell
	resolved.FG, resolved.BG = fg, bg

	// Terminals without SETAB can't paint a non-default background at all;
	// the closest approximation is to swap fg/bg into the foreground slot
	// and ask for reverse video instead. A foreground of white or default
	// (7 or 8) is left alone, since reversing those tends to produce black
	// on black rather than anything resembling the requested colour.
	if !t.caps.Has(CapSETAB) && !resolved.BG.IsDefault() &&
		!(resolved.FG.Mode == ColorPalette && (resolved.FG.Index == 7 || resolved.FG.Index == 8)) {
		resolved.FG, resolved.BG = resolved.BG, ColorDefaultValue
		resolved.Attr |= AttrReverse
	}

	if resolved.Attr == t.cell.Attr && resolved.FG == t.cell.FG && resolved.BG == t.cell.BG {
		return
	}

	// An attribute bit turned off can only be undone with a full reset,
	// since most terminals have no "cancel bold" capability independent of
	// sgr0; colours must then be reissued too.
	removed := t.cell.Attr &^ resolved.Attr
	if removed != 0 {
		t.puts(t.caps.String(CapSGR0))
		t.cell = DefaultCell()
	}

	for _, e := range attrCapTable {
		if resolved.Attr&e.bit != 0 && t.cell.Attr&e.bit == 0 {
			t.puts(t.caps.String(e.cap))
		}
	}

	if resolved.FG != t.cell.FG {
		t.colourFG(resolved.FG)
	}
	if resolved.BG != t.cell.BG {
		t.colourBG(resolved.BG)
	}

	t.cell.Attr = resolved.Attr
	t.cell.FG = resolved.FG
	t.cell.BG = resolved.BG
}

// resolveColours walks the default-colour fallthrough chain of
// tty_default_colours: a non-default cell colour wins outright; otherwise
// the pane's own override, then (if the pane is active) the active-pane
// style, then the window style, and finally the cell's own default.
func (t *Terminal) resolveColours(cell Cell, p Pane) (fg, bg Color) {
	fg, bg = cell.FG, cell.BG
	if p == nil {
		return fg, bg
	}

	if fg.IsDefault() || bg.IsDefault() {
		pfg, pbg := p.DefaultColours()
		if fg.IsDefault() && !pfg.IsDefault() {
			fg = pfg
		}
		if bg.IsDefault() && !pbg.IsDefault() {
			bg = pbg
		}
	}

	if p.IsActive() && (fg.IsDefault() || bg.IsDefault()) {
		afg, abg := p.ActiveStyle()
		if fg.IsDefault() && !afg.IsDefault() {
			fg = afg
		}
		if bg.IsDefault() && !abg.IsDefault() {
			bg = abg
		}
	}

	if fg.IsDefault() || bg.IsDefault() {
		wfg, wbg := p.WindowStyle()
		if fg.IsDefault() && !wfg.IsDefault() {
			fg = wfg
		}
		if bg.IsDefault() && !wbg.IsDefault() {
			bg = wbg
		}
	}

	return fg, bg
}

// checkFG down-converts fg against the terminal's advertised colour depth
// (tty_check_fg): RGB needs true-colour support or is reduced to 256, then
// further to 16/8, always preferring the nearest real colour over dropping
// it silently.
func (t *Terminal) checkFG(fg Color) Color {
	switch fg.Mode {
	case ColorRGB:
		if t.caps.Flag(CapTC) {
			return fg
		}
		idx := colourFindRGB(fg.R, fg.G, fg.B)
		return t.checkFG(Color{Mode: Color256, Index: idx})
	case Color256:
		if t.caps.Number(CapCOLORS) >= 256 {
			return fg
		}
		idx := colour256to16[fg.Index]
		return t.checkFG(paletteFrom16(idx))
	case ColorAixterm:
		if t.termFlags&TermForceNoAX != 0 || t.caps.Number(CapCOLORS) < 16 {
			return Color{Mode: ColorPalette, Index: fg.Index - 90}
		}
		return fg
	default:
		return fg
	}
}

// checkBG mirrors checkFG for the background slot. Unlike the historical
// aixterm background quirk, bright background indices are treated
// symmetrically with foreground rather than reproducing the original's
// increment of the foreground slot (see DESIGN.md).
func (t *Terminal) checkBG(bg Color) Color {
	return t.checkFG(bg)
}

func paletteFrom16(idx uint8) Color {
	if idx >= 8 {
		return Color{Mode: ColorAixterm, Index: 90 + (idx - 8)}
	}
	return Color{Mode: ColorPalette, Index: idx}
}

func (t *Terminal) colourFG(fg Color) {
	fg = t.checkFG(fg)
	if fg.IsDefault() {
		t.puts(t.opOrDefaultFG())
		return
	}
	switch fg.Mode {
	case ColorRGB:
		fmt.Fprintf(t.sink, "\033[38;2;%d;%d;%dm", fg.R, fg.G, fg.B)
	case Color256:
		fmt.Fprintf(t.sink, "\033[38;5;%dm", fg.Index)
	case ColorAixterm:
		fmt.Fprintf(t.sink, "\033[%dm", fg.Index)
	default:
		t.puts(t.caps.String1(CapSETAF, int(fg.Index)))
	}
}

func (t *Terminal) colourBG(bg Color) {
	bg = t.checkBG(bg)
	if bg.IsDefault() {
		t.puts(t.opOrDefaultBG())
		return
	}
	switch bg.Mode {
	case ColorRGB:
		fmt.Fprintf(t.sink, "\033[48;2;%d;%d;%dm", bg.R, bg.G, bg.B)
	case Color256:
		fmt.Fprintf(t.sink, "\033[48;5;%dm", bg.Index)
	case ColorAixterm:
		fmt.Fprintf(t.sink, "\033[%dm", bg.Index+10)
	default:
		t.puts(t.caps.String1(CapSETAB, int(bg.Index)))
	}
}

// opOrDefaultFG resets only the foreground when the terminal advertises
// AX (ANSI default colour support, orig_pair split into its two halves);
// otherwise it falls back to the combined op capability, which also
// resets the background — matching tty_colours' handling of op vs AX.
func (t *Terminal) opOrDefaultFG() []byte {
	if t.caps.Flag(CapAX) {
		return []byte("\033[39m")
	}
	return t.caps.String(CapOP)
}

func (t *Terminal) opOrDefaultBG() []byte {
	if t.caps.Flag(CapAX) {
		return []byte("\033[49m")
	}
	return t.caps.String(CapOP)
}
