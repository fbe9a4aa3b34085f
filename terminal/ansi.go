// @focus: #terminal { ansi }
package terminal

// Pre-allocated ANSI sequence fragments (avoid allocations during render)
var (
	// CSI sequences
	csi       = []byte("\x1b[")
	csiRIS    = []byte("\x1bc") // Reset to Initial State (emergency)
	csiSGR0   = []byte("\x1b[0m")
	csiClear  = []byte("\x1b[2J\x1b[H")
	csiDSRCPR = []byte("\x1b[6n") // Device Status Report: cursor position

	// Cursor control
	csiCursorHide = []byte("\x1b[?25l")
	csiCursorShow = []byte("\x1b[?25h")

	// Screen modes
	csiAltScreenEnter = []byte("\x1b[?1049h")
	csiAltScreenExit  = []byte("\x1b[?1049l")
	// DECAWM: Auto-Wrap Mode
	// ?7l disables wrapping (cursor sticks at right edge), preventing scroll when writing to bottom-right corner
	csiAutoWrapOn  = []byte("\x1b[?7h")
	csiAutoWrapOff = []byte("\x1b[?7l")
)

// SGRReset is the select-graphic-rendition reset sequence
const SGRReset = "\x1b[0m"

// ClearHome clears the whole screen and homes the cursor
const ClearHome = "\x1b[2J\x1b[H"

// AppendInt appends a non-negative decimal without allocation
// Optimized for terminal values (0-255 common, 0-999 typical max)
func AppendInt(b []byte, n int) []byte {
	if n < 0 {
		n = 0
	}
	if n < 10 {
		return append(b, byte(n)+'0')
	}
	if n < 100 {
		return append(b, byte(n/10)+'0', byte(n%10)+'0')
	}
	if n < 1000 {
		return append(b, byte(n/100)+'0', byte(n/10%10)+'0', byte(n%10)+'0')
	}
	// Fallback for >999 (rare)
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte(n%10) + '0'
		n /= 10
	}
	return append(b, buf[i:]...)
}

// AppendCursorPos appends a cursor positioning sequence (0-indexed input, 1-based on the wire)
func AppendCursorPos(b []byte, x, y int) []byte {
	b = append(b, csi...)
	b = AppendInt(b, y+1)
	b = append(b, ';')
	b = AppendInt(b, x+1)
	return append(b, 'H')
}
