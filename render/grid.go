package render

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// Cell is one character-plus-style unit of the grid
type Cell struct {
	Rune  rune
	Style Style
}

// blankCell is a space with no style
var blankCell = Cell{Rune: ' '}

// glyphWidth measures with ambiguous-width runes as narrow so box glyphs stay single-cell
var glyphWidth = &runewidth.Condition{EastAsianWidth: false}

// Sanitize maps a rune to something that occupies exactly one terminal column
// Control characters become spaces, wide or zero-width runes become '?'
func Sanitize(r rune) rune {
	if r == 0 || unicode.IsControl(r) {
		return ' '
	}
	if r < 0x80 {
		return r
	}
	if glyphWidth.RuneWidth(r) != 1 {
		return '?'
	}
	return r
}

// Grid is a fixed-size row-major cell buffer; dimensions never change after construction
type Grid struct {
	cells []Cell
	cols  int
	rows  int
}

// NewGrid creates a grid filled with spaces and no style; negative sizes are treated as 0
func NewGrid(cols, rows int) *Grid {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	g := &Grid{
		cells: make([]Cell, cols*rows),
		cols:  cols,
		rows:  rows,
	}
	g.Clear()
	return g
}

// Cols returns the grid width
func (g *Grid) Cols() int { return g.cols }

// Rows returns the grid height
func (g *Grid) Rows() int { return g.rows }

// Size returns the grid dimensions
func (g *Grid) Size() (cols, rows int) { return g.cols, g.rows }

// inBounds returns true if in grid bounds
func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.cols && y >= 0 && y < g.rows
}

// At returns the cell at (x, y), a blank cell when out of bounds
func (g *Grid) At(x, y int) Cell {
	if !g.inBounds(x, y) {
		return blankCell
	}
	return g.cells[y*g.cols+x]
}

// Row returns the backing slice of row y, nil when out of bounds
func (g *Grid) Row(y int) []Cell {
	if y < 0 || y >= g.rows {
		return nil
	}
	return g.cells[y*g.cols : (y+1)*g.cols]
}

// Put writes one cell; out-of-bounds writes are ignored
// The rune passes through Sanitize so every cell stays one column wide
func (g *Grid) Put(x, y int, ch rune, style Style) {
	if !g.inBounds(x, y) {
		return
	}
	g.cells[y*g.cols+x] = Cell{Rune: Sanitize(ch), Style: style}
}

// Text writes s left to right from (x, y), one cell per rune, clipped without wrapping
func (g *Grid) Text(x, y int, s string, style Style) {
	if y < 0 || y >= g.rows {
		return
	}
	col := x
	for _, ch := range s {
		if col >= g.cols {
			return
		}
		g.Put(col, y, ch, style)
		col++
	}
}

// Fill sets a region to ch with no style; a zero rune fills with spaces
func (g *Grid) Fill(x, y, w, h int, ch rune) {
	g.FillStyled(x, y, w, h, ch, StyleNone)
}

// FillStyled sets a region to ch with the given style, clipped to the grid
func (g *Grid) FillStyled(x, y, w, h int, ch rune, style Style) {
	ch = Sanitize(ch)
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, g.cols), min(y+h, g.rows)
	if x0 >= x1 || y0 >= y1 {
		return
	}
	c := Cell{Rune: ch, Style: style}
	for yy := y0; yy < y1; yy++ {
		row := g.cells[yy*g.cols+x0 : yy*g.cols+x1]
		for i := range row {
			row[i] = c
		}
	}
}

// Clear resets all cells to spaces with no style using exponential copy
func (g *Grid) Clear() {
	if len(g.cells) == 0 {
		return
	}
	g.cells[0] = blankCell
	for filled := 1; filled < len(g.cells); filled *= 2 {
		copy(g.cells[filled:], g.cells[:filled])
	}
}

// Clone returns an independent copy of the grid
func (g *Grid) Clone() *Grid {
	c := &Grid{
		cells: make([]Cell, len(g.cells)),
		cols:  g.cols,
		rows:  g.rows,
	}
	copy(c.cells, g.cells)
	return c
}

// SameShape reports whether both grids have identical dimensions
func (g *Grid) SameShape(other *Grid) bool {
	return other != nil && g.cols == other.cols && g.rows == other.rows
}

// String returns the characters of the grid, one line per row, styles discarded
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow(len(g.cells) + g.rows)
	for y := 0; y < g.rows; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for _, c := range g.Row(y) {
			sb.WriteRune(c.Rune)
		}
	}
	return sb.String()
}
