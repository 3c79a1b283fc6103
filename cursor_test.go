package tty

import "testing"

func TestMoveToUnknownForcesAbsolute(t *testing.T) {
	tm, w := newTestTerminal(defaultFakeCaps(), 80, 24)
	tm.MoveTo(5, 3)
	got := tm.flush()
	want := "CUP(3,5)"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if tm.cx != 5 || tm.cy != 3 {
		t.Fatalf("shadow cursor = (%d,%d), want (5,3)", tm.cx, tm.cy)
	}
	_ = w
}

func TestMoveToSameIsNoop(t *testing.T) {
	tm, _ := newTestTerminal(defaultFakeCaps(), 80, 24)
	tm.MoveTo(5, 3)
	tm.flush()
	tm.MoveTo(5, 3)
	if got := tm.flush(); got != "" {
		t.Fatalf("expected no output for a same-position move, got %q", got)
	}
}

func TestMoveToHomeUsesHomeCapability(t *testing.T) {
	tm, _ := newTestTerminal(defaultFakeCaps(), 80, 24)
	tm.MoveTo(5, 3)
	tm.flush()
	tm.MoveTo(0, 0)
	if got := tm.flush(); got != "HOME" {
		t.Fatalf("got %q, want HOME", got)
	}
}

func TestMoveToColumnZeroUsesCarriageReturn(t *testing.T) {
	tm, _ := newTestTerminal(defaultFakeCaps(), 80, 24)
	tm.MoveTo(10, 5)
	tm.flush()
	tm.MoveTo(0, 5)
	if got := tm.flush(); got != "\r" {
		t.Fatalf("got %q, want CR", got)
	}
}

func TestMoveToRelativeColumnPrefersHPA(t *testing.T) {
	tm, _ := newTestTerminal(defaultFakeCaps(), 80, 24)
	tm.MoveTo(10, 5)
	tm.flush()
	tm.MoveTo(20, 5)
	if got := tm.flush(); got != "HPA(20)" {
		t.Fatalf("got %q, want HPA(20)", got)
	}
}

func TestMoveToFallsBackToCUB1WhenNoCUB(t *testing.T) {
	caps := newFakeCaps()
	caps.strs[CapCUP] = []byte("CUP(%d,%d)")
	caps.strs[CapCUB1] = []byte("<")
	tm, _ := newTestTerminal(caps, 80, 24)
	tm.MoveTo(10, 5)
	tm.flush()
	tm.MoveTo(8, 5)
	if got := tm.flush(); got != "<<" {
		t.Fatalf("got %q, want <<", got)
	}
}

func TestMoveToPendingWrapForcesColumnZeroBeforeHome(t *testing.T) {
	tm, _ := newTestTerminal(defaultFakeCaps(), 80, 24)
	tm.cx, tm.cy = tm.sx, 5 // simulate a pending-wrap shadow (cx at the margin)
	tm.MoveTo(0, 0)
	got := tm.flush()
	want := "\rHOME"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if tm.cx != 0 || tm.cy != 0 {
		t.Fatalf("shadow cursor = (%d,%d), want (0,0)", tm.cx, tm.cy)
	}
}

func TestMoveToCRLFOptimisation(t *testing.T) {
	tm, _ := newTestTerminal(defaultFakeCaps(), 80, 24)
	tm.MoveTo(10, 5)
	tm.flush()
	tm.MoveTo(0, 6)
	if got := tm.flush(); got != "\r\n" {
		t.Fatalf("got %q, want CR+LF", got)
	}
	if tm.cx != 0 || tm.cy != 6 {
		t.Fatalf("shadow cursor = (%d,%d), want (0,6)", tm.cx, tm.cy)
	}
}

func TestMoveToCRLFSuppressedAtScrollMargin(t *testing.T) {
	tm, _ := newTestTerminal(defaultFakeCaps(), 80, 24)
	tm.SetRegion(0, 5)
	tm.flush()
	tm.MoveTo(10, 5)
	tm.flush()
	if got := tm.flush(); got != "" {
		t.Fatalf("unexpected leftover output: %q", got)
	}
	tm.MoveTo(0, 6)
	if got := tm.flush(); got == "\r\n" {
		t.Fatalf("CR+LF should be suppressed at the scroll region's lower margin, got %q", got)
	}
}

func TestSetRegionSuppressesRepeat(t *testing.T) {
	tm, _ := newTestTerminal(defaultFakeCaps(), 80, 24)
	tm.SetRegion(0, 23)
	if got := tm.flush(); got != "CSR(0,23)" {
		t.Fatalf("got %q, want CSR(0,23)", got)
	}
	tm.SetRegion(0, 23)
	if got := tm.flush(); got != "" {
		t.Fatalf("expected no output for a repeated SetRegion, got %q", got)
	}
}

func TestSetRegionInvalidatesCursor(t *testing.T) {
	tm, _ := newTestTerminal(defaultFakeCaps(), 80, 24)
	tm.MoveTo(5, 5)
	tm.flush()
	tm.SetRegion(1, 20)
	tm.flush()
	if tm.cx != Unknown || tm.cy != Unknown {
		t.Fatalf("cursor not invalidated after SetRegion: (%d,%d)", tm.cx, tm.cy)
	}
}

func TestSetRegionWithoutCSRStillTracksShadow(t *testing.T) {
	caps := newFakeCaps()
	caps.strs[CapCUP] = []byte("CUP(%d,%d)")
	tm, _ := newTestTerminal(caps, 80, 24)
	tm.SetRegion(2, 10)
	if got := tm.flush(); got != "" {
		t.Fatalf("expected no output without CSR capability, got %q", got)
	}
	if tm.rupper != 2 || tm.rlower != 10 {
		t.Fatalf("shadow region = (%d,%d), want (2,10)", tm.rupper, tm.rlower)
	}
}

func TestSetRegionPendingWrapForcesColumnZero(t *testing.T) {
	tm, _ := newTestTerminal(defaultFakeCaps(), 80, 24)
	tm.cx, tm.cy = tm.sx, 5 // simulate a pending-wrap shadow
	tm.SetRegion(0, 23)
	got := tm.flush()
	want := "\rCSR(0,23)"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
