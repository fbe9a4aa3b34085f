//go:build unix

package terminal

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// pollTimeoutMs bounds a single Read so the input loop can flush a lone ESC and observe stop
const pollTimeoutMs = 100

// stdioBackend drives the controlling terminal through the process stdin/stdout descriptors
type stdioBackend struct {
	in      *os.File
	out     *os.File
	inFd    int
	outFd   int
	oldTerm *term.State
	buf     []byte

	resizeStopCh chan struct{}
	resizeDoneCh chan struct{}
}

func newDefaultBackend() (Backend, error) {
	return &stdioBackend{
		in:    os.Stdin,
		out:   os.Stdout,
		inFd:  int(os.Stdin.Fd()),
		outFd: int(os.Stdout.Fd()),
		buf:   make([]byte, 256),
	}, nil
}

func (b *stdioBackend) Init() error {
	if !term.IsTerminal(b.inFd) {
		return ErrNotTerminal
	}

	old, err := term.MakeRaw(b.inFd)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	b.oldTerm = old
	return nil
}

func (b *stdioBackend) Fini() {
	b.stopResizeWatcher()
	if b.oldTerm != nil {
		_ = term.Restore(b.inFd, b.oldTerm)
		b.oldTerm = nil
	}
}

func (b *stdioBackend) Size() (int, int) {
	return getTerminalSize(b.outFd)
}

func (b *stdioBackend) Write(p []byte) error {
	if _, err := b.out.Write(p); err != nil {
		return fmt.Errorf("write stdout: %w", err)
	}
	return nil
}

// Read polls stdin once; a poll timeout yields (nil, nil) so the caller can run its timers
func (b *stdioBackend) Read(stopCh <-chan struct{}) ([]byte, error) {
	for {
		select {
		case <-stopCh:
			return nil, nil
		default:
		}

		fds := []unix.PollFd{{Fd: int32(b.inFd), Events: unix.POLLIN}}
		n, err := unix.Poll(fds, pollTimeoutMs)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return nil, fmt.Errorf("poll stdin: %w", err)
		}
		if n == 0 {
			return nil, nil
		}

		rn, err := unix.Read(b.inFd, b.buf)
		if err != nil {
			if err == unix.EINTR || err == unix.EAGAIN {
				continue
			}
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		if rn == 0 {
			return nil, io.EOF
		}

		ret := make([]byte, rn)
		copy(ret, b.buf[:rn])
		return ret, nil
	}
}

// SetResizeHandler starts a SIGWINCH watcher that reports only actual size changes.
// A second call replaces the previous watcher.
func (b *stdioBackend) SetResizeHandler(handler func(width, height int)) {
	b.stopResizeWatcher()
	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	b.resizeStopCh, b.resizeDoneCh = stopCh, doneCh

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)
	lastW, lastH := b.Size()

	go func() {
		defer close(doneCh)
		defer signal.Stop(sigCh)

		for {
			select {
			case <-stopCh:
				return
			case <-sigCh:
				w, h := b.Size()
				if w == lastW && h == lastH {
					continue
				}
				lastW, lastH = w, h
				handler(w, h)
			}
		}
	}()
}

func (b *stdioBackend) stopResizeWatcher() {
	if b.resizeStopCh == nil {
		return
	}
	close(b.resizeStopCh)
	<-b.resizeDoneCh
	b.resizeStopCh, b.resizeDoneCh = nil, nil
}

// getTerminalSize queries the window size, falling back to 80x24 when the ioctl has nothing useful
func getTerminalSize(fd int) (int, int) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 || ws.Row == 0 {
		return fallbackCols, fallbackRows
	}
	return int(ws.Col), int(ws.Row)
}
