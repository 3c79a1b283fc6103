package tty

import (
	"bufio"
	"errors"
	"io"
	"sync"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Unknown is the sentinel for a shadow cursor/region coordinate that does
// not (yet) reflect the physical terminal, forcing the next positioning
// operation to be absolute. The C original uses UINT_MAX; Go has no
// equally natural unsigned-max idiom on a signed int, so a negative
// sentinel stands in for it.
const Unknown = -1

// ErrNotATTY is returned by New when the given file descriptor is not a
// character device that supports terminal ioctls.
var ErrNotATTY = errors.New("tty: fd is not a terminal")

// ModeFlags is the bitset of terminal modes mirrored from the physical
// terminal.
type ModeFlags uint16

const (
	ModeCursor ModeFlags = 1 << iota
	ModeBlinking
	ModeKeypadApp
	ModeBracketPaste
	ModeMouseStandard
	ModeMouseButton
	ModeMouseAny
	ModeFocusEvents
)

// allMouseModes is the set of modes that share one enable/disable branch
// in UpdateMode.
const allMouseModes = ModeMouseStandard | ModeMouseButton | ModeMouseAny

// StateFlags is the bitset of engine-internal state.
type StateFlags uint16

const (
	FlagOpened StateFlags = 1 << iota
	FlagStarted
	FlagNoCursor
	FlagFrozen
	FlagUTF8
	FlagFocus
	FlagTimerPending
)

// TermFlags is the bitset of user-overridden capability bits.
type TermFlags uint8

const (
	TermForce256 TermFlags = 1 << iota
	TermForceNoAX
	TermEarlyWrap
)

// CursorShape is the DECSCUSR cursor style index; 0 is the terminal default.
type CursorShape int

const (
	CursorDefault        CursorShape = 0
	CursorBlockBlink     CursorShape = 1
	CursorBlock          CursorShape = 2
	CursorUnderlineBlink CursorShape = 3
	CursorUnderline      CursorShape = 4
	CursorBarBlink       CursorShape = 5
	CursorBar            CursorShape = 6
)

// LineFlags describes per-line state owned by the grid/screen collaborator.
type LineFlags uint8

const (
	LineWrapped LineFlags = 1 << iota
)

// Screen is the read-only grid/screen collaborator. It is owned and
// mutated by the grid subsystem; this package only reads from it for the
// duration of a single dispatched operation.
type Screen interface {
	GetCell(x, y int) Cell
	SelectCell(in Cell) Cell
	SizeX() int
	SizeY() int
	LineCellsize(y int) int
	LineFlags(y int) LineFlags
}

// Pane is the pane/window-tree collaborator: geometry, visibility, the
// redraw-request sink, and default-colour resolution.
type Pane interface {
	Screen() Screen
	Offset() (xoff, yoff int)
	Size() (sx, sy int)
	Visible() bool
	SetRedraw()
	IsActive() bool
	// DefaultColours returns the pane's own colour override; a component
	// of ColorDefaultValue means "not overridden, fall through".
	DefaultColours() (fg, bg Color)
	ActiveStyle() (fg, bg Color)
	WindowStyle() (fg, bg Color)
}

// Terminal is a shadow of one physical terminal's cursor, scroll region,
// attributes and modes. It is not safe for concurrent use: callers
// serialise dispatch the way a single-threaded event loop would.
type Terminal struct {
	fd int

	sx, sy int
	cx, cy int

	rupper, rlower int

	cell Cell

	mode      ModeFlags
	cstyle    CursorShape
	ccolour   string
	flags     StateFlags
	termFlags TermFlags

	caps     Capabilities
	termName string

	savedTermios *unix.Termios

	sink *sink

	resizeCh chan Size
	sigCh    chan struct{}
	mu       sync.Mutex
}

// Size is a terminal dimension in columns/rows.
type Size struct {
	Cols, Rows int
}

// New allocates an unopened Terminal bound to fd, matching tty_init's
// split between allocation (New) and capability binding (Open).
func New(fd int, termName string, w io.Writer) (*Terminal, error) {
	if !term.IsTerminal(fd) {
		return nil, ErrNotATTY
	}
	if termName == "" {
		termName = "unknown"
	}

	t := &Terminal{
		fd:       fd,
		cx:       Unknown,
		cy:       Unknown,
		rupper:   Unknown,
		rlower:   Unknown,
		cstyle:   CursorDefault,
		termName: termName,
		cell:     DefaultCell(),
		sink:     newSink(w),
		resizeCh: make(chan Size, 1),
		sigCh:    make(chan struct{}, 1),
	}
	return t, nil
}

// Open resolves termName against the terminfo database, binding the
// capability adapter and entering the "opened" state (tty_open).
func (t *Terminal) Open() error {
	caps, err := NewTerminfoCapabilities(t.termName)
	if err != nil {
		return err
	}
	t.caps = caps
	t.flags |= FlagOpened
	t.flags &^= FlagNoCursor | FlagFrozen | FlagTimerPending
	return nil
}

// OpenWith binds an already-resolved Capabilities source instead of
// loading one from terminfo — used by tests and by callers that maintain
// their own capability cache across terminals of the same type.
func (t *Terminal) OpenWith(caps Capabilities) {
	t.caps = caps
	t.flags |= FlagOpened
	t.flags &^= FlagNoCursor | FlagFrozen | FlagTimerPending
}

// Close unbinds the capability table. Idempotent.
func (t *Terminal) Close() {
	if t.flags&FlagOpened == 0 {
		return
	}
	if t.flags&FlagStarted != 0 {
		t.Stop()
	}
	t.caps = nil
	t.flags &^= FlagOpened
}

// Free releases the Terminal's owned resources. Idempotent.
func (t *Terminal) Free() {
	t.Close()
	t.ccolour = ""
	t.termName = ""
}

// IsStarted reports whether Start has been called without a matching Stop.
func (t *Terminal) IsStarted() bool { return t.flags&FlagStarted != 0 }

// Size returns the current shadowed terminal dimensions.
func (t *Terminal) Size() Size { return Size{Cols: t.sx, Rows: t.sy} }

// ResizeChan delivers a Size whenever the underlying fd's window size
// changes (SIGWINCH).
func (t *Terminal) ResizeChan() <-chan Size { return t.resizeCh }

func newBufWriter(w io.Writer) *bufio.Writer {
	return bufio.NewWriterSize(w, 8192)
}
