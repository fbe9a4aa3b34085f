package render

import "github.com/lixenwraith/gridterm/terminal"

// Style carries the attributes of a cell
// Equality is plain struct comparison; the zero value is StyleNone (unstyled)
type Style struct {
	fg        Color
	bg        Color
	bold      bool
	underline bool
	inverse   bool
	set       bool // Explicit style present, even without attributes
}

var (
	// StyleNone renders with terminal default attributes
	StyleNone = Style{}
	// StylePlain is an explicit style with no attributes; it differs from StyleNone
	// for diffing purposes but emits the same reset code
	StylePlain = Style{set: true}
)

// Fg returns the style with the foreground color set
func (s Style) Fg(c Color) Style {
	s.fg = c
	s.set = true
	return s
}

// Bg returns the style with the background color set
func (s Style) Bg(c Color) Style {
	s.bg = c
	s.set = true
	return s
}

// Bold returns the style with bold enabled or disabled
func (s Style) Bold(on bool) Style {
	s.bold = on
	s.set = true
	return s
}

// Underline returns the style with underline enabled or disabled
func (s Style) Underline(on bool) Style {
	s.underline = on
	s.set = true
	return s
}

// Inverse returns the style with reverse video enabled or disabled
func (s Style) Inverse(on bool) Style {
	s.inverse = on
	s.set = true
	return s
}

// Decompose returns the colors and attributes of the style
func (s Style) Decompose() (fg, bg Color, bold, underline, inverse bool) {
	return s.fg, s.bg, s.bold, s.underline, s.inverse
}

// IsSet reports whether the style is explicit (anything but StyleNone)
func (s Style) IsSet() bool {
	return s.set
}

// hasCodes reports whether the style produces any SGR parameter
func (s Style) hasCodes() bool {
	return s.bold || s.underline || s.inverse || s.fg.Valid() || s.bg.Valid()
}

// appendCodes appends the ';'-joined SGR parameters: 1 bold, 4 underline, 7 inverse, 38;5;N, 48;5;N
func (s Style) appendCodes(b []byte) []byte {
	start := len(b)
	sep := func() {
		if len(b) > start {
			b = append(b, ';')
		}
	}
	if s.bold {
		sep()
		b = append(b, '1')
	}
	if s.underline {
		sep()
		b = append(b, '4')
	}
	if s.inverse {
		sep()
		b = append(b, '7')
	}
	if s.fg.Valid() {
		sep()
		b = append(b, "38;5;"...)
		b = terminal.AppendInt(b, s.fg.Index())
	}
	if s.bg.Valid() {
		sep()
		b = append(b, "48;5;"...)
		b = terminal.AppendInt(b, s.bg.Index())
	}
	return b
}

// AppendSGR appends the select-graphic-rendition sequence for the style
// A style without attributes (including StyleNone) yields the reset sequence
func (s Style) AppendSGR(b []byte) []byte {
	if !s.hasCodes() {
		return append(b, terminal.SGRReset...)
	}
	b = append(b, "\x1b["...)
	b = s.appendCodes(b)
	return append(b, 'm')
}

// SGR returns the select-graphic-rendition sequence for the style
func (s Style) SGR() string {
	return string(s.AppendSGR(make([]byte, 0, 24)))
}
