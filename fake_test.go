package tty

// fakeCaps is a map-based Capabilities double for tests, decoupled from
// any real terminfo database so behaviour can be pinned to specific
// capability combinations (e.g. "no CSR", "no BCE", "AX but no Tc").
type fakeCaps struct {
	strs    map[Cap][]byte
	bools   map[Cap]bool
	nums    map[Cap]int
	fmtStr1 map[Cap]string // printf-style template taking one %d
	fmtStr2 map[Cap]string // printf-style template taking two %d
}

func newFakeCaps() *fakeCaps {
	return &fakeCaps{
		strs:    map[Cap][]byte{},
		bools:   map[Cap]bool{},
		nums:    map[Cap]int{},
		fmtStr1: map[Cap]string{},
		fmtStr2: map[Cap]string{},
	}
}

// defaultFakeCaps returns a capability set modelling a reasonably
// complete xterm-256color terminal: every primitive present, BCE and AX
// advertised, 256 colours but no true-colour.
func defaultFakeCaps() *fakeCaps {
	c := newFakeCaps()
	set := map[Cap]string{
		CapCUP:   "CUP(%d,%d)",
		CapHOME:  "HOME",
		CapCR:    "\r",
		CapHPA:   "HPA(%d)",
		CapVPA:   "VPA(%d)",
		CapCUF:   "CUF(%d)",
		CapCUB:   "CUB(%d)",
		CapCUD:   "CUD(%d)",
		CapCUU:   "CUU(%d)",
		CapCUF1:  "CUF1",
		CapCUB1:  "CUB1",
		CapCUD1:  "CUD1",
		CapCUU1:  "CUU1",
		CapCSR:   "CSR(%d,%d)",
		CapEL:    "EL",
		CapEL1:   "EL1",
		CapECH:   "ECH(%d)",
		CapICH:   "ICH(%d)",
		CapICH1:  "ICH1",
		CapDCH:   "DCH(%d)",
		CapDCH1:  "DCH1",
		CapIL:    "IL(%d)",
		CapIL1:   "IL1",
		CapDL:    "DL(%d)",
		CapDL1:   "DL1",
		CapRI:    "RI",
		CapBOLD:  "BOLD",
		CapDIM:   "DIM",
		CapSMUL:  "SMUL",
		CapBLINK: "BLINK",
		CapREV:   "REV",
		CapINVIS: "INVIS",
		CapSITM:  "SITM",
		CapSMSO:  "SMSO",
		CapSGR0:  "SGR0",
		CapSETAF: "SETAF(%d)",
		CapSETAB: "SETAB(%d)",
		CapSMCUP: "SMCUP",
		CapRMCUP: "RMCUP",
		CapSMKX:  "SMKX",
		CapRMKX:  "RMKX",
		CapCNORM: "CNORM",
		CapCIVIS: "CIVIS",
		CapCVVIS: "CVVIS",
		CapOP:    "OP",
		CapCLS:   "CLS",
	}
	for cap, lit := range set {
		c.strs[cap] = []byte(lit)
	}
	c.bools[CapBCE] = true
	c.bools[CapAX] = true
	c.nums[CapCOLORS] = 256
	return c
}

func (c *fakeCaps) Has(cap Cap) bool {
	if _, ok := c.strs[cap]; ok {
		return true
	}
	return c.Flag(cap)
}

func (c *fakeCaps) Flag(cap Cap) bool { return c.bools[cap] }

func (c *fakeCaps) Number(cap Cap) int { return c.nums[cap] }

func (c *fakeCaps) String(cap Cap) []byte { return c.strs[cap] }

func (c *fakeCaps) String1(cap Cap, a int) []byte {
	if _, ok := c.strs[cap]; !ok {
		return nil
	}
	return []byte(sprintfTemplate(string(c.strs[cap]), a))
}

func (c *fakeCaps) String2(cap Cap, a, b int) []byte {
	if _, ok := c.strs[cap]; !ok {
		return nil
	}
	return []byte(sprintfTemplate(string(c.strs[cap]), a, b))
}

func (c *fakeCaps) Ptr1(cap Cap, a []byte) []byte {
	if _, ok := c.strs[cap]; !ok {
		return nil
	}
	return append(append([]byte{}, c.strs[cap]...), a...)
}

func (c *fakeCaps) Ptr2(cap Cap, a, b []byte) []byte {
	if _, ok := c.strs[cap]; !ok {
		return nil
	}
	out := append([]byte{}, c.strs[cap]...)
	out = append(out, a...)
	out = append(out, b...)
	return out
}

func sprintfTemplate(lit string, args ...int) string {
	out := make([]byte, 0, len(lit))
	argi := 0
	for i := 0; i < len(lit); i++ {
		if i+1 < len(lit) && lit[i] == '%' && lit[i+1] == 'd' {
			out = append(out, []byte(itoa(args[argi]))...)
			argi++
			i++
			continue
		}
		out = append(out, lit[i])
	}
	return string(out)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// fakeScreen is a minimal in-memory Screen for tests.
type fakeScreen struct {
	sx, sy int
	cells  map[[2]int]Cell
	lens   map[int]int
}

func newFakeScreen(sx, sy int) *fakeScreen {
	return &fakeScreen{sx: sx, sy: sy, cells: map[[2]int]Cell{}, lens: map[int]int{}}
}

func (s *fakeScreen) GetCell(x, y int) Cell {
	if c, ok := s.cells[[2]int{x, y}]; ok {
		return c
	}
	return DefaultCell()
}

func (s *fakeScreen) SelectCell(in Cell) Cell { return in }
func (s *fakeScreen) SizeX() int              { return s.sx }
func (s *fakeScreen) SizeY() int              { return s.sy }
func (s *fakeScreen) LineCellsize(y int) int {
	if n, ok := s.lens[y]; ok {
		return n
	}
	return s.sx
}
func (s *fakeScreen) LineFlags(y int) LineFlags { return 0 }

// fakePane is a minimal Pane for tests: a full-width or offset pane over
// a fakeScreen, with settable style-chain colours.
type fakePane struct {
	scr            *fakeScreen
	xoff, yoff     int
	sx, sy         int
	visible        bool
	active         bool
	redrawn        bool
	fg, bg         Color
	afg, abg       Color
	wfg, wbg       Color
}

func newFakePane(scr *fakeScreen, xoff, yoff, sx, sy int) *fakePane {
	return &fakePane{
		scr: scr, xoff: xoff, yoff: yoff, sx: sx, sy: sy, visible: true,
		fg: ColorDefaultValue, bg: ColorDefaultValue,
		afg: ColorDefaultValue, abg: ColorDefaultValue,
		wfg: ColorDefaultValue, wbg: ColorDefaultValue,
	}
}

func (p *fakePane) Screen() Screen         { return p.scr }
func (p *fakePane) Offset() (int, int)     { return p.xoff, p.yoff }
func (p *fakePane) Size() (int, int)       { return p.sx, p.sy }
func (p *fakePane) Visible() bool          { return p.visible }
func (p *fakePane) SetRedraw()             { p.redrawn = true }
func (p *fakePane) IsActive() bool         { return p.active }
func (p *fakePane) DefaultColours() (Color, Color) { return p.fg, p.bg }
func (p *fakePane) ActiveStyle() (Color, Color)    { return p.afg, p.abg }
func (p *fakePane) WindowStyle() (Color, Color)    { return p.wfg, p.wbg }

// newTestTerminal builds a Terminal with the given capabilities, bypassing
// the real fd/termios path entirely, writing into a fresh byte buffer
// returned alongside it.
func newTestTerminal(caps Capabilities, sx, sy int) (*Terminal, *recordingWriter) {
	w := &recordingWriter{}
	tm := &Terminal{
		fd:        -1,
		cx:        Unknown,
		cy:        Unknown,
		rupper:    Unknown,
		rlower:    Unknown,
		cstyle:    CursorDefault,
		termName:  "fake",
		cell:      DefaultCell(),
		sink:      newSink(w),
		resizeCh:  make(chan Size, 1),
		sigCh:     make(chan struct{}, 1),
		sx:        sx,
		sy:        sy,
	}
	tm.OpenWith(caps)
	tm.flags |= FlagStarted
	return tm, w
}

type recordingWriter struct {
	buf []byte
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	return len(p), nil
}

func (t *Terminal) flush() string {
	t.sink.Flush()
	w := t.sink.raw.(*recordingWriter)
	s := string(w.buf)
	w.buf = nil
	return s
}
