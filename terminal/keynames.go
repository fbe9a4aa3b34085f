package terminal

import "unicode"

// KeyEvent is a normalized keypress
// Name follows readline conventions: "a", "return", "up", "escape", "space", "f5"
// Ctrl+letter reports the letter as Name with Ctrl set
type KeyEvent struct {
	Name     string
	Ctrl     bool
	Meta     bool
	Shift    bool
	Sequence string // Raw bytes that produced the event

	Key  Key
	Rune rune
}

// keyToName maps Key constants to readline-style names
var keyToName = map[Key]string{
	KeyEscape:    "escape",
	KeyReturn:    "return",
	KeyEnter:     "enter",
	KeyTab:       "tab",
	KeyBacktab:   "tab",
	KeyBackspace: "backspace",
	KeyDelete:    "delete",
	KeySpace:     "space",

	KeyUp:       "up",
	KeyDown:     "down",
	KeyLeft:     "left",
	KeyRight:    "right",
	KeyHome:     "home",
	KeyEnd:      "end",
	KeyPageUp:   "pageup",
	KeyPageDown: "pagedown",
	KeyInsert:   "insert",
	KeyClear:    "clear",

	KeyF1:  "f1",
	KeyF2:  "f2",
	KeyF3:  "f3",
	KeyF4:  "f4",
	KeyF5:  "f5",
	KeyF6:  "f6",
	KeyF7:  "f7",
	KeyF8:  "f8",
	KeyF9:  "f9",
	KeyF10: "f10",
	KeyF11: "f11",
	KeyF12: "f12",
}

// nameToKey is the reverse lookup, built from keyToName
var nameToKey map[string]Key

func init() {
	nameToKey = make(map[string]Key, len(keyToName))
	for k, v := range keyToName {
		if k == KeyBacktab {
			continue
		}
		nameToKey[v] = k
	}
}

// KeyName returns the readline-style name for a non-rune key, empty if unknown
func KeyName(k Key) string {
	return keyToName[k]
}

// KeyByName returns the Key for a name, KeyNone if unknown
func KeyByName(name string) Key {
	return nameToKey[name]
}

// newKeyEvent normalizes a decoded key into a KeyEvent
func newKeyEvent(key Key, r rune, mod Modifier, seq []byte) KeyEvent {
	ev := KeyEvent{
		Key:      key,
		Rune:     r,
		Ctrl:     mod&ModCtrl != 0,
		Meta:     mod&ModAlt != 0,
		Shift:    mod&ModShift != 0,
		Sequence: string(seq),
	}

	if key != KeyRune {
		ev.Name = keyToName[key]
		return ev
	}

	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		ev.Name = string(r)
	case r >= 'A' && r <= 'Z':
		ev.Name = string(unicode.ToLower(r))
		ev.Shift = true
	}
	// Punctuation and non-ASCII runes carry no name; consumers read Rune
	return ev
}
