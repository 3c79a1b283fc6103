package tty

import (
	"bytes"
	"os"
	"strings"

	"github.com/xo/terminfo"
)

// Cap names one of the terminfo-style capabilities the dispatcher,
// cursor/region state and attribute state consult. It is the engine's own
// vocabulary; Capabilities implementations translate it to whatever the
// underlying capability database uses.
type Cap int

const (
	CapCUP Cap = iota
	CapCUU
	CapCUU1
	CapCUD
	CapCUD1
	CapCUF
	CapCUF1
	CapCUB
	CapCUB1
	CapHPA
	CapVPA
	CapHOME
	CapCSR
	CapEL
	CapEL1
	CapECH
	CapICH
	CapICH1
	CapDCH
	CapDCH1
	CapIL
	CapIL1
	CapDL
	CapDL1
	CapRI
	CapBOLD
	CapDIM
	CapSMUL
	CapBLINK
	CapREV
	CapINVIS
	CapSITM
	CapSMSO
	CapSGR0
	CapSETAF
	CapSETAB
	CapSMCUP
	CapRMCUP
	CapSMKX
	CapRMKX
	CapSMACS
	CapRMACS
	CapACSC
	CapCNORM
	CapCIVIS
	CapCVVIS
	CapCR
	CapTSL
	CapFSL
	CapMS
	CapSS
	CapSE
	CapCS
	CapAX
	CapBCE
	CapXT
	CapTC
	CapCOLORS
	CapOP
	CapKMOUS
	CapCLS
)

// Capabilities resolves a Cap to a presence test, a boolean flag, a
// numeric value, or a formatted byte string with 0, 1 or 2
// integer/pointer parameters. Absent capabilities format to an empty
// slice; callers must guard with Has (or Flag, for boolean-only
// capabilities) before emitting.
type Capabilities interface {
	Has(c Cap) bool
	Flag(c Cap) bool
	Number(c Cap) int
	String(c Cap) []byte
	String1(c Cap, a int) []byte
	String2(c Cap, a, b int) []byte
	Ptr1(c Cap, a []byte) []byte
	Ptr2(c Cap, a, b []byte) []byte
}

// terminfoCaps is the concrete Capabilities backed by the real terminfo
// database (github.com/xo/terminfo), treated as an external capability
// collaborator. A handful of tmux-style extension capabilities (AX, TC,
// XT, MS, SS/SE, CS) are not standard terminfo string/bool caps. The flags
// among them (AX, TC, XT) are resolved from extended terminfo capabilities
// when present, falling back to the same environment heuristics (COLORTERM,
// $TERM suffix) ecosystem colour-profile detectors such as muesli/termenv
// use. The strings among them (MS, SS, SE, CS) are returned by String when
// present, but Has reports them absent and String1/Ptr1/Ptr2 format
// nothing for them.
type terminfoCaps struct {
	ti  *terminfo.Terminfo
	env capEnv
}

type capEnv struct {
	trueColor bool
	force256  bool
}

// NewTerminfoCapabilities loads the terminfo entry for termName and wraps
// it as a Capabilities.
func NewTerminfoCapabilities(termName string) (Capabilities, error) {
	ti, err := terminfo.Load(termName)
	if err != nil {
		return nil, err
	}
	return &terminfoCaps{ti: ti, env: detectCapEnv(termName)}, nil
}

func detectCapEnv(termName string) capEnv {
	ct := strings.ToLower(os.Getenv("COLORTERM"))
	return capEnv{
		trueColor: ct == "truecolor" || ct == "24bit",
		force256:  strings.Contains(termName, "256color"),
	}
}

var strCapTable = map[Cap]terminfo.StrCapName{
	CapCUP:   terminfo.CursorAddress,
	CapCUU:   terminfo.ParmUpCursor,
	CapCUU1:  terminfo.CursorUp,
	CapCUD:   terminfo.ParmDownCursor,
	CapCUD1:  terminfo.CursorDown,
	CapCUF:   terminfo.ParmRightCursor,
	CapCUF1:  terminfo.CursorRight,
	CapCUB:   terminfo.ParmLeftCursor,
	CapCUB1:  terminfo.CursorLeft,
	CapHPA:   terminfo.ColumnAddress,
	CapVPA:   terminfo.RowAddress,
	CapHOME:  terminfo.CursorHome,
	CapCSR:   terminfo.ChangeScrollRegion,
	CapEL:    terminfo.ClrEol,
	CapEL1:   terminfo.ClrBol,
	CapECH:   terminfo.EraseChars,
	CapICH:   terminfo.ParmInsertCharacter,
	CapICH1:  terminfo.InsertCharacter,
	CapDCH:   terminfo.ParmDeleteCharacter,
	CapDCH1:  terminfo.DeleteCharacter,
	CapIL:    terminfo.ParmInsertLine,
	CapIL1:   terminfo.InsertLine,
	CapDL:    terminfo.ParmDeleteLine,
	CapDL1:   terminfo.DeleteLine,
	CapRI:    terminfo.ScrollReverse,
	CapBOLD:  terminfo.EnterBoldMode,
	CapDIM:   terminfo.EnterDimMode,
	CapSMUL:  terminfo.EnterUnderlineMode,
	CapBLINK: terminfo.EnterBlinkMode,
	CapREV:   terminfo.EnterReverseMode,
	CapINVIS: terminfo.EnterSecureMode,
	CapSITM:  terminfo.EnterItalicsMode,
	CapSMSO:  terminfo.EnterStandoutMode,
	CapSGR0:  terminfo.ExitAttributeMode,
	CapSETAF: terminfo.SetAForeground,
	CapSETAB: terminfo.SetABackground,
	CapSMCUP: terminfo.EnterCaMode,
	CapRMCUP: terminfo.ExitCaMode,
	CapSMKX:  terminfo.KeypadXmit,
	CapRMKX:  terminfo.KeypadLocal,
	CapSMACS: terminfo.EnterAlternateCharsetMode,
	CapRMACS: terminfo.ExitAlternateCharsetMode,
	CapACSC:  terminfo.AcsChars,
	CapCNORM: terminfo.CursorNormal,
	CapCIVIS: terminfo.CursorInvisible,
	CapCVVIS: terminfo.CursorVisible,
	CapCR:    terminfo.CarriageReturn,
	CapTSL:   terminfo.ToStatusLine,
	CapFSL:   terminfo.FromStatusLine,
	CapKMOUS: terminfo.KeyMouse,
	CapOP:    terminfo.OrigPair,
	CapCLS:   terminfo.ClearScreen,
}

var boolCapTable = map[Cap]terminfo.BoolCapName{
	CapBCE: terminfo.BackColorErase,
}

var numCapTable = map[Cap]terminfo.NumCapName{
	CapCOLORS: terminfo.MaxColors,
}

// extCapNames names the tmux/xterm extension capabilities not in the standard
// terminfo captab; resolved by extended-capability name when the terminfo
// source carries them, else by environment heuristic.
var extCapNames = map[Cap]string{
	CapMS: "Ms",
	CapSS: "Ss",
	CapSE: "Se",
	CapCS: "Cs",
	CapAX: "AX",
	CapXT: "XT",
	CapTC: "Tc",
}

func (c *terminfoCaps) Has(cap Cap) bool {
	if name, ok := strCapTable[cap]; ok {
		return len(c.ti.Str(name)) > 0
	}
	return c.Flag(cap)
}

func (c *terminfoCaps) Flag(cap Cap) bool {
	if name, ok := boolCapTable[cap]; ok {
		return c.ti.Bool(name)
	}
	if extName, ok := extCapNames[cap]; ok {
		if v, ok := c.ti.ExtBool(extName); ok {
			return v
		}
		switch cap {
		case CapAX, CapTC:
			return c.env.trueColor || cap == CapAX && c.ti.Bool(terminfo.BackColorErase)
		case CapXT:
			return true
		}
	}
	return false
}

func (c *terminfoCaps) Number(cap Cap) int {
	if name, ok := numCapTable[cap]; ok {
		n := c.ti.Num(name)
		if n <= 0 && c.env.force256 {
			return 256
		}
		return n
	}
	return 0
}

func (c *terminfoCaps) String(cap Cap) []byte {
	if name, ok := strCapTable[cap]; ok {
		return c.ti.Str(name)
	}
	if extName, ok := extCapNames[cap]; ok {
		if v, ok := c.ti.ExtStr(extName); ok {
			return v
		}
	}
	return nil
}

func (c *terminfoCaps) String1(cap Cap, a int) []byte {
	if a < 0 {
		return nil
	}
	return c.format(cap, a)
}

func (c *terminfoCaps) String2(cap Cap, a, b int) []byte {
	if a < 0 || b < 0 {
		return nil
	}
	return c.format(cap, a, b)
}

func (c *terminfoCaps) Ptr1(cap Cap, a []byte) []byte {
	if a == nil {
		return nil
	}
	return c.format(cap, string(a))
}

func (c *terminfoCaps) Ptr2(cap Cap, a, b []byte) []byte {
	if a == nil || b == nil {
		return nil
	}
	return c.format(cap, string(a), string(b))
}

func (c *terminfoCaps) format(cap Cap, params ...interface{}) []byte {
	name, ok := strCapTable[cap]
	if !ok {
		return nil
	}
	var buf bytes.Buffer
	if err := c.ti.Fprintf(&buf, name, params...); err != nil {
		return nil
	}
	return buf.Bytes()
}
