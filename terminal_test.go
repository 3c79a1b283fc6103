package tty

import "testing"

func TestOpenWithBindsCapabilitiesAndClearsTransientFlags(t *testing.T) {
	tm := &Terminal{cx: Unknown, cy: Unknown, cell: DefaultCell(), sink: newSink(&recordingWriter{})}
	tm.flags = FlagNoCursor | FlagFrozen | FlagTimerPending
	tm.OpenWith(defaultFakeCaps())

	if tm.flags&FlagOpened == 0 {
		t.Fatalf("FlagOpened not set after OpenWith")
	}
	if tm.flags&(FlagNoCursor|FlagFrozen|FlagTimerPending) != 0 {
		t.Fatalf("transient flags not cleared: %v", tm.flags)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	tm := &Terminal{cx: Unknown, cy: Unknown, cell: DefaultCell(), sink: newSink(&recordingWriter{})}
	tm.OpenWith(defaultFakeCaps())
	tm.Close()
	tm.Close() // must not panic or double-stop
	if tm.flags&FlagOpened != 0 {
		t.Fatalf("FlagOpened still set after Close")
	}
}

func TestFreeClearsOwnedState(t *testing.T) {
	tm := &Terminal{cx: Unknown, cy: Unknown, cell: DefaultCell(), sink: newSink(&recordingWriter{}), termName: "xterm", ccolour: "red"}
	tm.OpenWith(defaultFakeCaps())
	tm.Free()
	if tm.termName != "" || tm.ccolour != "" {
		t.Fatalf("Free did not clear owned state: termName=%q ccolour=%q", tm.termName, tm.ccolour)
	}
}

func TestSizeReflectsShadowDimensions(t *testing.T) {
	tm, _ := newTestTerminal(defaultFakeCaps(), 100, 40)
	sz := tm.Size()
	if sz.Cols != 100 || sz.Rows != 40 {
		t.Fatalf("Size() = %+v, want {100 40}", sz)
	}
}

func TestIsStartedTracksFlag(t *testing.T) {
	tm := &Terminal{cx: Unknown, cy: Unknown, cell: DefaultCell(), sink: newSink(&recordingWriter{})}
	if tm.IsStarted() {
		t.Fatalf("IsStarted() = true before Start")
	}
	tm.flags |= FlagStarted
	if !tm.IsStarted() {
		t.Fatalf("IsStarted() = false after FlagStarted set")
	}
}
