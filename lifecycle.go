package tty

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// isEAGAIN reports whether err is an EAGAIN/EWOULDBLOCK from a raw write.
func isEAGAIN(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK)
}

// Start puts the terminal into application mode (tty_start_tty): raw
// termios, the alternate screen, keypad transmit mode, and the saved
// window size. It also begins watching the fd for SIGWINCH.
func (t *Terminal) Start() error {
	if t.flags&FlagOpened == 0 {
		return fmt.Errorf("tty: terminal not opened")
	}
	if t.flags&FlagStarted != 0 {
		return nil
	}

	if err := t.setRawMode(); err != nil {
		return err
	}

	sz, err := t.queryWinsize()
	if err != nil {
		sz = Size{Cols: 80, Rows: 24}
	}
	t.sx, t.sy = sz.Cols, sz.Rows

	t.puts(t.caps.String(CapSMCUP))
	t.puts(t.caps.String(CapSMKX))

	t.puts(t.caps.String(CapSGR0))
	t.cell = DefaultCell()
	if t.caps.Has(CapRMACS) {
		t.puts(t.caps.String(CapRMACS))
	}
	t.puts(t.caps.String(CapCLS))
	t.puts(t.caps.String(CapCNORM))
	t.puts(t.disableMouseSeq())
	t.puts([]byte("\033[?1004h"))
	t.mode &^= allMouseModes
	t.mode |= ModeCursor | ModeFocusEvents
	t.flags |= FlagFocus

	t.invalidateCursor()

	t.flags |= FlagStarted
	t.sink.Flush()

	t.watchResize()
	return nil
}

// Stop restores the terminal to cooked mode and leaves application mode
// (tty_stop_tty): cursor visible, default style, mouse modes off, the
// primary screen restored, termios reverted. It uses the raw bypass path
// because it may run during process teardown when nothing will drain a
// bufio flush later.
func (t *Terminal) Stop() {
	if t.flags&FlagStarted == 0 {
		return
	}

	var out []byte
	out = append(out, t.caps.String(CapCNORM)...)
	out = append(out, t.disableMouseSeq()...)
	out = append(out, t.caps.String(CapSGR0)...)
	out = append(out, t.caps.String(CapOP)...)
	out = append(out, t.caps.String(CapRMKX)...)
	out = append(out, t.caps.String(CapRMCUP)...)
	t.sink.rawWrite(out)

	t.restoreMode()
	t.flags &^= FlagStarted
}

func (t *Terminal) setRawMode() error {
	termios, err := unix.IoctlGetTermios(t.fd, unix.TIOCGETA)
	if err != nil {
		return fmt.Errorf("tty: get termios: %w", err)
	}
	saved := *termios
	t.savedTermios = &saved

	raw := *termios
	raw.Iflag &^= unix.IXON | unix.IXOFF | unix.ICRNL | unix.BRKINT | unix.INPCK | unix.ISTRIP
	raw.Oflag &^= unix.OPOST
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	raw.Cflag |= unix.CS8
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0

	return unix.IoctlSetTermios(t.fd, unix.TIOCSETA, &raw)
}

func (t *Terminal) restoreMode() {
	if t.savedTermios == nil {
		return
	}
	unix.IoctlSetTermios(t.fd, unix.TIOCSETA, t.savedTermios)
	t.savedTermios = nil
}

func (t *Terminal) queryWinsize() (Size, error) {
	ws, err := unix.IoctlGetWinsize(t.fd, unix.TIOCGWINSZ)
	if err != nil {
		return Size{}, err
	}
	if ws.Col == 0 || ws.Row == 0 {
		return Size{}, fmt.Errorf("tty: zero winsize")
	}
	return Size{Cols: int(ws.Col), Rows: int(ws.Row)}, nil
}

// watchResize spawns the goroutine that turns SIGWINCH into a refreshed
// Size delivered on resizeCh.
func (t *Terminal) watchResize() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, unix.SIGWINCH)
	go func() {
		for range ch {
			sz, err := t.queryWinsize()
			if err != nil {
				continue
			}
			t.mu.Lock()
			t.sx, t.sy = sz.Cols, sz.Rows
			t.mu.Unlock()
			select {
			case t.resizeCh <- sz:
			default:
			}
		}
	}()
}

// UpdateMode reconciles the shadow mode bitset with want, emitting only
// the transitions needed (tty_update_mode). Mouse-tracking sequences are
// always disabled/enabled in SGR-extended-then-legacy order, matching the
// original's fixed \033[?1006h-first convention regardless of which
// legacy mode is also requested.
func (t *Terminal) UpdateMode(want ModeFlags) {
	if t.flags&FlagStarted == 0 {
		return
	}
	changed := t.mode ^ want

	if changed&ModeCursor != 0 {
		if want&ModeCursor != 0 {
			t.puts(t.caps.String(CapCNORM))
		} else {
			t.puts(t.caps.String(CapCIVIS))
		}
	}

	if changed&ModeKeypadApp != 0 {
		if want&ModeKeypadApp != 0 {
			t.puts(t.caps.String(CapSMKX))
		} else {
			t.puts(t.caps.String(CapRMKX))
		}
	}

	if changed&allMouseModes != 0 {
		t.puts(t.disableMouseSeq())
		if want&allMouseModes != 0 {
			t.puts([]byte("\033[?1006h"))
			if want&ModeMouseAny != 0 {
				t.puts([]byte("\033[?1003h"))
			} else if want&ModeMouseButton != 0 {
				t.puts([]byte("\033[?1002h"))
			} else if want&ModeMouseStandard != 0 {
				t.puts([]byte("\033[?1000h"))
			}
		}
	}

	if changed&ModeBracketPaste != 0 {
		if want&ModeBracketPaste != 0 {
			t.puts([]byte("\033[?2004h"))
		} else {
			t.puts([]byte("\033[?2004l"))
		}
	}

	if changed&ModeFocusEvents != 0 {
		if want&ModeFocusEvents != 0 {
			t.puts([]byte("\033[?1004h"))
		} else {
			t.puts([]byte("\033[?1004l"))
		}
	}

	t.mode = want
	t.sink.Flush()
}

// disableMouseSeq always turns off SGR-extended mode before the legacy
// modes, mirroring the fixed ordering tty_update_mode uses on teardown.
func (t *Terminal) disableMouseSeq() []byte {
	return []byte("\033[?1006l\033[?1000l\033[?1002l\033[?1003l")
}

// SetCursorStyle applies a DECSCUSR shape, skipping the write if it
// already matches the shadow (tty_set_cursor_style / Ss extended cap).
func (t *Terminal) SetCursorStyle(shape CursorShape) {
	if t.cstyle == shape {
		return
	}
	if t.caps.Has(CapSS) {
		t.puts(t.caps.String1(CapSS, int(shape)))
	} else {
		fmt.Fprintf(t.sink, "\033[%d q", int(shape))
	}
	t.cstyle = shape
	t.sink.Flush()
}

// SetCursorColour sets the cursor colour via OSC 12 (Cs extended cap),
// or resets it via Se/OSC 112 when colour is empty.
func (t *Terminal) SetCursorColour(colour string) {
	if t.ccolour == colour {
		return
	}
	if colour == "" {
		if t.caps.Has(CapSE) {
			t.puts(t.caps.String(CapSE))
		} else {
			t.puts([]byte("\033]112\007"))
		}
	} else if t.caps.Has(CapCS) {
		t.puts(t.caps.Ptr1(CapCS, []byte(colour)))
	} else {
		fmt.Fprintf(t.sink, "\033]12;%s\007", colour)
	}
	t.ccolour = colour
	t.sink.Flush()
}

func (t *Terminal) puts(b []byte) {
	if len(b) == 0 {
		return
	}
	t.sink.Write(b)
}

func (t *Terminal) invalidateCursor() {
	t.cx, t.cy = Unknown, Unknown
	t.rupper, t.rlower = Unknown, Unknown
}
