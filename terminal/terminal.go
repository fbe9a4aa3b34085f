package terminal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Options controls the screen modes entered by Open
type Options struct {
	// AltScreen switches to the alternate screen buffer so the shell scrollback survives
	AltScreen bool
}

// Terminal is the output collaborator: lifecycle, size, resize notifications and batched writes
type Terminal struct {
	backend Backend
	opts    Options

	mu     sync.Mutex
	opened bool
	closed bool
	batch  []byte // Reused join buffer for Batch

	resizeMu   sync.Mutex
	resizeSubs map[uint64]func(width, height int)
	nextID     uint64
}

// New wraps a backend; the terminal is untouched until Open
func New(backend Backend, opts Options) *Terminal {
	return &Terminal{
		backend:    backend,
		opts:       opts,
		batch:      make([]byte, 0, 64*1024),
		resizeSubs: make(map[uint64]func(int, int)),
	}
}

// Backend returns the underlying backend, shared with Input
func (t *Terminal) Backend() Backend {
	return t.backend
}

// Open enters raw mode, the alternate screen, hides the cursor, disables auto-wrap and clears
func (t *Terminal) Open() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}
	if t.opened {
		return nil
	}

	if err := t.backend.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	t.backend.SetResizeHandler(t.notifyResize)

	seq := make([]byte, 0, 64)
	if t.opts.AltScreen {
		seq = append(seq, csiAltScreenEnter...)
	}
	seq = append(seq, csiCursorHide...)
	// Prevents terminal scroll/wrap on bottom-right corner write
	seq = append(seq, csiAutoWrapOff...)
	seq = append(seq, csiSGR0...)
	seq = append(seq, csiClear...)
	if err := t.backend.Write(seq); err != nil {
		t.backend.Fini()
		return fmt.Errorf("terminal setup: %w", err)
	}

	t.opened = true
	return nil
}

// Close restores the terminal; safe to call multiple times and before Open
func (t *Terminal) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	if !t.opened {
		return nil
	}

	seq := make([]byte, 0, 64)
	seq = append(seq, csiSGR0...)
	seq = append(seq, csiCursorShow...)
	if t.opts.AltScreen {
		seq = append(seq, csiAltScreenExit...)
	}
	// Re-enable auto-wrap after leaving the alternate screen so the main buffer has it
	seq = append(seq, csiAutoWrapOn...)
	err := t.backend.Write(seq)

	t.backend.Fini()
	if err != nil {
		return fmt.Errorf("terminal restore: %w", err)
	}
	return nil
}

// Size returns current terminal dimensions in cells
func (t *Terminal) Size() (cols, rows int) {
	return t.backend.Size()
}

// Write performs one write to the terminal
func (t *Terminal) Write(p []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}
	return t.backend.Write(p)
}

// Batch joins chunks and hands them to the backend as a single write
func (t *Terminal) Batch(chunks ...[]byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}

	t.batch = t.batch[:0]
	for _, c := range chunks {
		t.batch = append(t.batch, c...)
	}
	if len(t.batch) == 0 {
		return nil
	}
	return t.backend.Write(t.batch)
}

// OnResize registers fn for resize notifications; it runs on the signal goroutine
func (t *Terminal) OnResize(fn func(width, height int)) (unsubscribe func()) {
	t.resizeMu.Lock()
	id := t.nextID
	t.nextID++
	t.resizeSubs[id] = fn
	t.resizeMu.Unlock()

	return func() {
		t.resizeMu.Lock()
		delete(t.resizeSubs, id)
		t.resizeMu.Unlock()
	}
}

func (t *Terminal) notifyResize(width, height int) {
	t.resizeMu.Lock()
	handlers := make([]func(int, int), 0, len(t.resizeSubs))
	for _, fn := range t.resizeSubs {
		handlers = append(handlers, fn)
	}
	t.resizeMu.Unlock()

	for _, fn := range handlers {
		fn(width, height)
	}
}

// EmergencyReset attempts to restore terminal to sane state
// Call this from panic recovery if Close() cannot be called normally
func EmergencyReset(w io.Writer) {
	w.Write(csiCursorShow)
	w.Write(csiAltScreenExit)
	w.Write(csiSGR0)
	w.Write(csiAutoWrapOn)
	w.Write(csiRIS)

	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios
	resetTerminalMode()
}
