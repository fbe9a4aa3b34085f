package render

// Color is a 256-color palette index with a validity bit
// The zero value is ColorDefault: no color set, terminal default applies
type Color uint16

// colorValid marks a Color as carrying an explicit palette index
const colorValid Color = 1 << 8

// ColorDefault means "not set"
const ColorDefault Color = 0

// Standard 16-color palette entries
const (
	ColorBlack Color = colorValid | iota
	ColorMaroon
	ColorGreen
	ColorOlive
	ColorNavy
	ColorPurple
	ColorTeal
	ColorSilver
	ColorGray
	ColorRed
	ColorLime
	ColorYellow
	ColorBlue
	ColorFuchsia
	ColorAqua
	ColorWhite
)

// PaletteColor returns the color for a 0-255 palette index, out-of-range values are clamped
func PaletteColor(index int) Color {
	if index < 0 {
		index = 0
	}
	if index > 255 {
		index = 255
	}
	return colorValid | Color(index)
}

// GrayColor returns one of the 24 grayscale ramp entries (232-255), level 0-23
func GrayColor(level int) Color {
	if level < 0 {
		level = 0
	}
	if level > 23 {
		level = 23
	}
	return PaletteColor(232 + level)
}

// CubeColor returns the 6x6x6 color cube entry (16-231), each component 0-5
func CubeColor(r, g, b int) Color {
	clamp := func(v int) int {
		if v < 0 {
			return 0
		}
		if v > 5 {
			return 5
		}
		return v
	}
	return PaletteColor(16 + 36*clamp(r) + 6*clamp(g) + clamp(b))
}

// Valid reports whether the color is set
func (c Color) Valid() bool {
	return c&colorValid != 0
}

// Index returns the palette index, -1 when not set
func (c Color) Index() int {
	if !c.Valid() {
		return -1
	}
	return int(c & 0xff)
}
