//go:build !unix

package terminal

import (
	"fmt"
	"runtime"
)

func newDefaultBackend() (Backend, error) {
	return nil, fmt.Errorf("%w: no terminal backend for %s", ErrNotTerminal, runtime.GOOS)
}

func newTcellBackend() (Backend, error) {
	return newDefaultBackend()
}
