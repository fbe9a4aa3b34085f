// @focus: #sys { term }
// Package terminal provides direct ANSI terminal control for the grid renderer.
//
// Features:
//   - Raw mode and alternate screen lifecycle with idempotent restore
//   - Batched output: many fragments joined into a single write per frame
//   - Raw stdin input parsing into normalized key events
//   - Cursor position report round-trip probe for latency measurement
//   - SIGWINCH resize notification
//   - Clean terminal restoration on exit/panic
//
// This package bypasses terminfo/termcap entirely, emitting direct ANSI sequences.
// Target environments: Linux, macOS, BSDs with xterm-compatible terminals.
package terminal
