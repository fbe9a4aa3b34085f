package core

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"

	"github.com/lixenwraith/gridterm/terminal"
)

var (
	crashMu       sync.Mutex
	crashRestorer func()

	// Replaced in tests
	crashExit   = os.Exit
	crashStdout io.Writer = os.Stdout
	crashStderr io.Writer = os.Stderr
)

// RegisterRestorer installs fn as the terminal cleanup run by HandleCrash
// The returned function removes it if it is still the active restorer
func RegisterRestorer(fn func()) (unregister func()) {
	crashMu.Lock()
	defer crashMu.Unlock()
	crashRestorer = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			crashMu.Lock()
			defer crashMu.Unlock()
			crashRestorer = nil
		})
	}
}

// HandleCrash is the unified panic handler that restores the terminal and prints the stack trace
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	restore := crashRestorer
	crashMu.Unlock()

	// Restore terminal to sane state immediately
	if restore != nil {
		restore()
	} else {
		terminal.EmergencyReset(crashStdout)
	}

	if f, ok := crashStdout.(*os.File); ok {
		f.Sync()
	}

	// \r\n keeps the trace readable if the tty is still in raw mode
	fmt.Fprintf(crashStderr, "\r\n\x1b[31mCRASH DETECTED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(crashStderr, "Stack Trace:\r\n%s\r\n", debug.Stack())

	if f, ok := crashStderr.(*os.File); ok {
		f.Sync()
	}

	crashExit(1)
}

// Go runs a function in a new goroutine with panic recovery.
// Use this instead of the 'go' keyword to ensure terminal cleanup on crash.
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
