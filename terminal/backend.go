package terminal

import (
	"errors"
	"fmt"
)

var (
	// ErrNotTerminal is returned when the input stream is not attached to a tty
	ErrNotTerminal = errors.New("stdin is not a terminal")
	// ErrClosed is returned by operations on a terminal that was already closed
	ErrClosed = errors.New("terminal closed")
)

// Backend names accepted by NewBackend
const (
	BackendUnix  = "unix"
	BackendTcell = "tcell"
)

// Size reported when the platform cannot tell
const (
	fallbackCols = 80
	fallbackRows = 24
)

// Backend abstracts platform-specific terminal operations.
// This interface allows the terminal package to run over raw stdio file
// descriptors or over a tcell tty opened on /dev/tty.
type Backend interface {
	// Lifecycle
	Init() error
	Fini()

	// Capabilities
	Size() (width, height int)

	// I/O
	// Write writes raw bytes to the terminal output.
	Write(p []byte) error

	// Read blocks until input is available, the stop channel is closed, a poll
	// timeout elapses (nil, nil), or an error occurs.
	Read(stopCh <-chan struct{}) ([]byte, error)

	// Callbacks
	// SetResizeHandler registers a callback for terminal resize events.
	SetResizeHandler(handler func(width, height int))
}

// NewBackend creates the named backend, empty name selects the platform default
func NewBackend(name string) (Backend, error) {
	switch name {
	case "", BackendUnix:
		return newDefaultBackend()
	case BackendTcell:
		return newTcellBackend()
	default:
		return nil, fmt.Errorf("unknown terminal backend %q", name)
	}
}
