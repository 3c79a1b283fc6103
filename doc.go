// Package tty is the terminal rendering engine of a pane-based multiplexer.
//
// It shadows a physical terminal's cursor, scroll region and cell attributes
// so that logical screen operations posted against a pane emit only the
// escape sequences needed to make the terminal converge to that state. The
// grid/screen storage, pane/window tree, option store, input decoding and
// session lifecycle all live outside this package; it consumes them through
// the Screen and Pane interfaces and an injected Capabilities lookup.
package tty
