package terminal

import "strconv"

// Key represents a parsed input key
type Key uint16

const (
	KeyNone Key = iota
	KeyRune     // Printable character, or a Ctrl/Alt letter (check KeyEvent.Rune)

	// Control keys
	KeyEscape
	KeyReturn // CR
	KeyEnter  // LF, keypad enter
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyDelete
	KeySpace

	// Navigation
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyClear

	// Function keys
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// Modifier flags
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << 0
	ModAlt   Modifier = 1 << 1
	ModCtrl  Modifier = 1 << 2
)

// escapeSequence maps the bytes after "ESC [" or "ESC O" to a key
type escapeSequence struct {
	key Key
	mod Modifier
}

// Final bytes of "ESC [ 1 ; mod X" style sequences
var csiLetterKeys = map[byte]Key{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'E': KeyClear,
	'H': KeyHome,
	'F': KeyEnd,
	'P': KeyF1,
	'Q': KeyF2,
	'R': KeyF3,
	'S': KeyF4,
}

// Numeric parameters of "ESC [ N ; mod ~" style sequences
var csiTildeKeys = map[int]Key{
	1:  KeyHome,
	2:  KeyInsert,
	3:  KeyDelete,
	4:  KeyEnd,
	5:  KeyPageUp,
	6:  KeyPageDown,
	7:  KeyHome,
	8:  KeyEnd,
	11: KeyF1,
	12: KeyF2,
	13: KeyF3,
	14: KeyF4,
	15: KeyF5,
	17: KeyF6,
	18: KeyF7,
	19: KeyF8,
	20: KeyF9,
	21: KeyF10,
	23: KeyF11,
	24: KeyF12,
}

// SS3 sequences (ESC O X), also used by the vt-style "ESC [ [ X" function keys
var ss3Keys = map[byte]Key{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'H': KeyHome,
	'F': KeyEnd,
	'P': KeyF1,
	'Q': KeyF2,
	'R': KeyF3,
	'S': KeyF4,
	'M': KeyEnter,
}

var csiMap = buildCSIMap()

// buildCSIMap expands the base tables with every xterm modifier parameter (2..8)
func buildCSIMap() map[string]escapeSequence {
	m := make(map[string]escapeSequence, 256)
	for final, key := range csiLetterKeys {
		m[string(final)] = escapeSequence{key, ModNone}
		for p := 2; p <= 8; p++ {
			m["1;"+strconv.Itoa(p)+string(final)] = escapeSequence{key, modFromParam(p)}
		}
	}
	// P/Q/R/S without a parameter are not keys in CSI form; only the SS3 form is
	for _, f := range []byte{'P', 'Q', 'R', 'S'} {
		delete(m, string(f))
	}
	for n, key := range csiTildeKeys {
		base := strconv.Itoa(n)
		m[base+"~"] = escapeSequence{key, ModNone}
		for p := 2; p <= 8; p++ {
			m[base+";"+strconv.Itoa(p)+"~"] = escapeSequence{key, modFromParam(p)}
		}
	}
	m["Z"] = escapeSequence{KeyBacktab, ModShift}
	// Linux console function keys
	m["[A"] = escapeSequence{KeyF1, ModNone}
	m["[B"] = escapeSequence{KeyF2, ModNone}
	m["[C"] = escapeSequence{KeyF3, ModNone}
	m["[D"] = escapeSequence{KeyF4, ModNone}
	m["[E"] = escapeSequence{KeyF5, ModNone}
	return m
}

// modFromParam decodes the xterm modifier parameter (1 + shift + 2*alt + 4*ctrl)
func modFromParam(p int) Modifier {
	if p < 2 {
		return ModNone
	}
	return Modifier(p - 1)
}

// lookupCSI performs zero-alloc map lookup via compiler optimization
// The string([]byte) conversion inline in map access does not allocate
func lookupCSI(seq []byte) (Key, Modifier, bool) {
	if s, ok := csiMap[string(seq)]; ok {
		return s.key, s.mod, true
	}
	return KeyNone, ModNone, false
}

func lookupSS3(b byte) (Key, bool) {
	k, ok := ss3Keys[b]
	return k, ok
}
