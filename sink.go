package tty

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"
)

// sink is the buffered output path to the physical terminal. Writes
// accumulate in a bufio.Writer and are flushed explicitly at
// operation boundaries; a raw bypass path exists for the writes
// (the terminal restore sequence on shutdown) that must reach
// the fd even if buffering would otherwise coalesce or drop them.
type sink struct {
	w   *bufio.Writer
	raw io.Writer

	debug   *os.File
	debugOn bool
}

// newSink wraps w for buffered writes. If MUXTTY_DEBUG is set, every byte
// written is also teed to a per-process debug log.
func newSink(w io.Writer) *sink {
	s := &sink{w: newBufWriter(w), raw: w}
	if os.Getenv("MUXTTY_DEBUG") != "" {
		if f, err := os.OpenFile(
			fmt.Sprintf("tmux-out-%d.log", os.Getpid()),
			os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
			0o600,
		); err == nil {
			s.debug = f
			s.debugOn = true
		}
	}
	return s
}

func (s *sink) Write(p []byte) (int, error) {
	if s.debugOn {
		s.debug.Write(p)
	}
	return s.w.Write(p)
}

func (s *sink) WriteString(str string) (int, error) {
	if s.debugOn {
		io.WriteString(s.debug, str)
	}
	return s.w.WriteString(str)
}

// Flush pushes any buffered bytes to the underlying writer.
func (s *sink) Flush() error {
	return s.w.Flush()
}

// rawWrite bypasses buffering entirely, retrying briefly on EAGAIN the way
// tty_raw does (5 attempts, 100µs apart) so that a full pty write buffer
// during shutdown doesn't silently drop the terminal-restore sequence.
func (s *sink) rawWrite(p []byte) (int, error) {
	const retries = 5
	const backoff = 100 * time.Microsecond

	f, ok := s.raw.(interface {
		Write([]byte) (int, error)
	})
	if !ok {
		return 0, fmt.Errorf("tty: raw writer does not support Write")
	}

	var n int
	var err error
	for attempt := 0; attempt < retries; attempt++ {
		var wrote int
		wrote, err = f.Write(p[n:])
		n += wrote
		if n >= len(p) || err == nil {
			break
		}
		if !isEAGAIN(err) {
			break
		}
		time.Sleep(backoff)
	}
	return n, err
}

func (s *sink) Close() error {
	if s.debug != nil {
		s.debug.Close()
	}
	return nil
}
