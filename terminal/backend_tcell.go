//go:build unix

package terminal

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
)

// tcellBackend drives /dev/tty through tcell's Tty so stdio may be redirected
type tcellBackend struct {
	tty    tcell.Tty
	dataCh chan []byte
	errCh  chan error
	doneCh chan struct{}
}

func newTcellBackend() (Backend, error) {
	tty, err := tcell.NewDevTty()
	if err != nil {
		return nil, fmt.Errorf("open /dev/tty: %w", err)
	}
	return &tcellBackend{tty: tty}, nil
}

func (b *tcellBackend) Init() error {
	if err := b.tty.Start(); err != nil {
		return fmt.Errorf("%w: %v", ErrNotTerminal, err)
	}

	b.dataCh = make(chan []byte, 16)
	b.errCh = make(chan error, 1)
	b.doneCh = make(chan struct{})
	go b.pump()
	return nil
}

// pump moves tty reads onto dataCh; Drain during Fini wakes the blocked Read
func (b *tcellBackend) pump() {
	defer close(b.doneCh)
	buf := make([]byte, 256)
	for {
		n, err := b.tty.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			b.dataCh <- chunk
		}
		if err != nil {
			if !errors.Is(err, os.ErrDeadlineExceeded) {
				b.errCh <- err
			}
			return
		}
	}
}

func (b *tcellBackend) Fini() {
	b.tty.NotifyResize(nil)
	_ = b.tty.Drain()
	if b.doneCh != nil {
		// Unblock pump if it is parked on a full dataCh
	drain:
		for {
			select {
			case <-b.dataCh:
			case <-b.doneCh:
				break drain
			}
		}
		b.doneCh = nil
	}
	_ = b.tty.Stop()
	_ = b.tty.Close()
}

func (b *tcellBackend) Size() (int, int) {
	ws, err := b.tty.WindowSize()
	if err != nil || ws.Width <= 0 || ws.Height <= 0 {
		return fallbackCols, fallbackRows
	}
	return ws.Width, ws.Height
}

func (b *tcellBackend) Write(p []byte) error {
	_, err := b.tty.Write(p)
	return err
}

func (b *tcellBackend) Read(stopCh <-chan struct{}) ([]byte, error) {
	timer := time.NewTimer(pollTimeoutMs * time.Millisecond)
	defer timer.Stop()

	select {
	case <-stopCh:
		return nil, nil
	case p := <-b.dataCh:
		return p, nil
	case err := <-b.errCh:
		return nil, err
	case <-timer.C:
		return nil, nil
	}
}

func (b *tcellBackend) SetResizeHandler(handler func(width, height int)) {
	b.tty.NotifyResize(func() {
		w, h := b.Size()
		handler(w, h)
	})
}
