package terminal

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"
	"time"
)

// CursorPos is a decoded cursor position report (1-based, as sent by the terminal)
type CursorPos struct {
	Row int
	Col int
}

// Input reads raw bytes from a Backend and delivers normalized key events to subscribers
// Cursor position reports are routed to a waiting Prober instead of subscribers
type Input struct {
	backend Backend

	mu      sync.Mutex
	subs    map[uint64]func(KeyEvent)
	nextID  uint64
	cprCh   chan CursorPos
	err     error
	running bool

	stopCh chan struct{}
	doneCh chan struct{}

	// Persistent buffer for stream assembly, keeps partial UTF-8 and escape sequences across reads
	buf []byte
}

// NewInput creates an input decoder over the backend; call Start to begin reading
func NewInput(backend Backend) *Input {
	return &Input{
		backend: backend,
		subs:    make(map[uint64]func(KeyEvent)),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
		buf:     make([]byte, 0, 256),
	}
}

// Subscribe registers fn for every key event; handlers run on the input goroutine
func (in *Input) Subscribe(fn func(KeyEvent)) (unsubscribe func()) {
	in.mu.Lock()
	id := in.nextID
	in.nextID++
	in.subs[id] = fn
	in.mu.Unlock()

	return func() {
		in.mu.Lock()
		delete(in.subs, id)
		in.mu.Unlock()
	}
}

// Start begins reading input in a goroutine
func (in *Input) Start() {
	in.mu.Lock()
	if in.running {
		in.mu.Unlock()
		return
	}
	in.running = true
	in.mu.Unlock()

	go in.readLoop()
}

// Stop signals the reader to stop and waits briefly for it to exit
func (in *Input) Stop() {
	in.mu.Lock()
	if !in.running {
		in.mu.Unlock()
		return
	}
	in.running = false
	in.mu.Unlock()

	close(in.stopCh)
	// Don't block forever if a backend read is stuck
	select {
	case <-in.doneCh:
	case <-time.After(200 * time.Millisecond):
	}
}

// Done is closed when the read loop exits
func (in *Input) Done() <-chan struct{} {
	return in.doneCh
}

// Err returns the read error that terminated the loop, if any
func (in *Input) Err() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.err
}

// awaitCPR arms cursor position report routing; only one waiter at a time
func (in *Input) awaitCPR() (<-chan CursorPos, func(), bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.cprCh != nil {
		return nil, nil, false
	}
	ch := make(chan CursorPos, 1)
	in.cprCh = ch
	cancel := func() {
		in.mu.Lock()
		if in.cprCh == ch {
			in.cprCh = nil
		}
		in.mu.Unlock()
	}
	return ch, cancel, true
}

func (in *Input) expectingCPR() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.cprCh != nil
}

// deliverCPR hands a report to the waiting prober; disarms routing
func (in *Input) deliverCPR(pos CursorPos) {
	in.mu.Lock()
	ch := in.cprCh
	in.cprCh = nil
	in.mu.Unlock()
	if ch != nil {
		ch <- pos
	}
}

// readLoop is the main input reading goroutine
func (in *Input) readLoop() {
	defer close(in.doneCh)

	defer func() {
		if r := recover(); r != nil {
			EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mINPUT READER CRASHED: %v\x1b[0m\r\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	for {
		data, err := in.backend.Read(in.stopCh)
		if err != nil {
			in.mu.Lock()
			in.err = err
			in.mu.Unlock()
			return
		}

		if len(data) == 0 {
			select {
			case <-in.stopCh:
				return
			default:
			}
			in.idle()
			continue
		}

		in.process(data)
	}
}

// process appends data to the stream buffer and dispatches every complete token
func (in *Input) process(data []byte) {
	in.buf = append(in.buf, data...)
	consumed := in.parseInput(in.buf)
	if consumed >= len(in.buf) {
		in.buf = in.buf[:0]
	} else if consumed > 0 {
		copy(in.buf, in.buf[consumed:])
		in.buf = in.buf[:len(in.buf)-consumed]
	}
}

// idle runs after a read timeout: a lone pending ESC is the Escape key
func (in *Input) idle() {
	if len(in.buf) == 1 && in.buf[0] == 0x1b {
		in.dispatch(newKeyEvent(KeyEscape, 0, ModNone, in.buf))
		in.buf = in.buf[:0]
	}
}

func (in *Input) dispatch(ev KeyEvent) {
	in.mu.Lock()
	handlers := make([]func(KeyEvent), 0, len(in.subs))
	for _, fn := range in.subs {
		handlers = append(handlers, fn)
	}
	in.mu.Unlock()

	for _, fn := range handlers {
		fn(ev)
	}
}

// parseInput parses raw bytes into events and returns bytes consumed (stop on incomplete sequence)
func (in *Input) parseInput(data []byte) int {
	i := 0
	n := len(data)

	for i < n {
		b := data[i]

		switch {
		case b == ' ':
			in.dispatch(newKeyEvent(KeySpace, ' ', ModNone, data[i:i+1]))
			i++

		case b > 0x20 && b < 0x7f:
			in.dispatch(newKeyEvent(KeyRune, rune(b), ModNone, data[i:i+1]))
			i++

		case b == 0x1b:
			if i+1 >= n {
				return i // Lone ESC: wait for more data or the idle flush
			}
			consumed := in.parseEscape(data[i:])
			if consumed == 0 {
				return i
			}
			i += consumed

		case b == 0x7f:
			in.dispatch(newKeyEvent(KeyBackspace, 0, ModNone, data[i:i+1]))
			i++

		case b < 0x20:
			key, r, mod := parseControl(b)
			in.dispatch(newKeyEvent(key, r, mod, data[i:i+1]))
			i++

		default:
			// UTF-8 multibyte
			seqLen := utf8SeqLen(b)
			if seqLen == 0 {
				i++
				continue
			}
			if i+seqLen > n {
				return i
			}
			rn, size := decodeRune(data[i:])
			in.dispatch(newKeyEvent(KeyRune, rn, ModNone, data[i:i+size]))
			i += size
		}
	}
	return i
}

// parseEscape handles a sequence starting with ESC, returns 0 on incomplete
func (in *Input) parseEscape(data []byte) int {
	switch next := data[1]; {
	case next == '[':
		return in.parseCSI(data)

	case next == 'O':
		if len(data) < 3 {
			return 0
		}
		if key, ok := lookupSS3(data[2]); ok {
			in.dispatch(newKeyEvent(key, 0, ModNone, data[:3]))
		}
		return 3

	case next == 0x1b:
		in.dispatch(newKeyEvent(KeyEscape, 0, ModAlt, data[:2]))
		return 2

	case next < 0x20:
		key, r, mod := parseControl(next)
		in.dispatch(newKeyEvent(key, r, mod|ModAlt, data[:2]))
		return 2

	case next == ' ':
		in.dispatch(newKeyEvent(KeySpace, ' ', ModAlt, data[:2]))
		return 2

	case next < 0x7f:
		in.dispatch(newKeyEvent(KeyRune, rune(next), ModAlt, data[:2]))
		return 2

	case next == 0x7f:
		in.dispatch(newKeyEvent(KeyBackspace, 0, ModAlt, data[:2]))
		return 2
	}

	// ESC followed by UTF-8 lead byte: emit ESC, leave the rune for the next pass
	in.dispatch(newKeyEvent(KeyEscape, 0, ModNone, data[:1]))
	return 1
}

// parseCSI parses "ESC [ params final"; unknown but well-formed sequences are swallowed
func (in *Input) parseCSI(data []byte) int {
	if len(data) < 3 {
		return 0
	}

	// Linux console F1-F5: ESC [ [ A..E
	if data[2] == '[' {
		if len(data) < 4 {
			return 0
		}
		if key, mod, ok := lookupCSI(data[2:4]); ok {
			in.dispatch(newKeyEvent(key, 0, mod, data[:4]))
		}
		return 4
	}

	end := 2
	maxScan := len(data)
	if maxScan > 32 {
		maxScan = 32
	}
	for end < maxScan {
		b := data[end]
		if b >= 0x40 && b <= 0x7e {
			end++
			seq := data[:end]
			params := data[2 : end-1]

			if b == 'R' {
				if row, col, ok := parseCPR(params); ok && in.expectingCPR() {
					in.deliverCPR(CursorPos{Row: row, Col: col})
					return end
				}
			}

			if key, mod, ok := lookupCSI(data[2:end]); ok {
				in.dispatch(newKeyEvent(key, 0, mod, seq))
			}
			return end
		}
		if b < 0x20 {
			// Malformed: drop the introducer and resync
			return 2
		}
		end++
	}

	if maxScan == 32 && len(data) >= 32 {
		return 2 // Overlong garbage
	}
	return 0
}

// parseCPR extracts "row;col" from cursor position report parameters
func parseCPR(params []byte) (row, col int, ok bool) {
	field := 0
	val := 0
	digits := 0
	for _, b := range params {
		switch {
		case b >= '0' && b <= '9':
			val = val*10 + int(b-'0')
			digits++
			if val > 99999 {
				return 0, 0, false
			}
		case b == ';' && field == 0 && digits > 0:
			row = val
			val = 0
			digits = 0
			field = 1
		default:
			return 0, 0, false
		}
	}
	if field != 1 || digits == 0 {
		return 0, 0, false
	}
	return row, val, true
}

// parseControl maps C0 control characters to keys
func parseControl(b byte) (Key, rune, Modifier) {
	switch b {
	case 0x00: // Ctrl+Space or Ctrl+@
		return KeySpace, ' ', ModCtrl
	case 0x08:
		return KeyBackspace, 0, ModNone
	case 0x09:
		return KeyTab, 0, ModNone
	case 0x0a:
		return KeyEnter, 0, ModNone
	case 0x0d:
		return KeyReturn, 0, ModNone
	case 0x1b:
		return KeyEscape, 0, ModNone
	case 0x1c:
		return KeyRune, '\\', ModCtrl
	case 0x1d:
		return KeyRune, ']', ModCtrl
	case 0x1e:
		return KeyRune, '^', ModCtrl
	case 0x1f:
		return KeyRune, '_', ModCtrl
	}
	// Ctrl+A (0x01) .. Ctrl+Z (0x1A)
	return KeyRune, rune('a' + b - 1), ModCtrl
}

// utf8SeqLen returns expected UTF-8 sequence length from start byte, 0 if invalid
func utf8SeqLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b&0xe0 == 0xc0:
		return 2
	case b&0xf0 == 0xe0:
		return 3
	case b&0xf8 == 0xf0:
		return 4
	}
	return 0
}

// decodeRune decodes the first UTF-8 rune from data
func decodeRune(data []byte) (rune, int) {
	if len(data) == 0 {
		return 0, 0
	}

	b := data[0]
	if b < 0x80 {
		return rune(b), 1
	}

	var size int
	var min rune
	var r rune

	switch {
	case b&0xe0 == 0xc0:
		size, min, r = 2, 0x80, rune(b&0x1f)
	case b&0xf0 == 0xe0:
		size, min, r = 3, 0x800, rune(b&0x0f)
	case b&0xf8 == 0xf0:
		size, min, r = 4, 0x10000, rune(b&0x07)
	default:
		return 0xFFFD, 1
	}

	if len(data) < size {
		return 0xFFFD, 1
	}

	for i := 1; i < size; i++ {
		if data[i]&0xc0 != 0x80 {
			return 0xFFFD, 1
		}
		r = r<<6 | rune(data[i]&0x3f)
	}

	if r < min {
		return 0xFFFD, 1 // Overlong encoding
	}

	return r, size
}
