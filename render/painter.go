package render

// Box drawing glyphs
const (
	boxTL = '┌'
	boxTR = '┐'
	boxBL = '└'
	boxBR = '┘'
	boxH  = '─'
	boxV  = '│'
)

// Painter draws primitives into a Grid; it performs no terminal I/O
type Painter struct {
	grid *Grid
}

// NewPainter creates a painter over g
func NewPainter(g *Grid) *Painter {
	return &Painter{grid: g}
}

// Grid returns the target grid
func (p *Painter) Grid() *Grid {
	return p.grid
}

// Put writes a single cell
func (p *Painter) Put(x, y int, ch rune, style Style) {
	p.grid.Put(x, y, ch, style)
}

// Text writes a string left to right, one cell per rune, clipped at the grid edge
func (p *Painter) Text(x, y int, s string, style Style) {
	col := x
	for _, ch := range s {
		if col >= p.grid.cols {
			return
		}
		p.Put(col, y, ch, style)
		col++
	}
}

// HLine draws w cells rightward from (x, y); a zero rune draws '─'
func (p *Painter) HLine(x, y, w int, ch rune, style Style) {
	if ch == 0 {
		ch = boxH
	}
	for i := 0; i < w; i++ {
		p.Put(x+i, y, ch, style)
	}
}

// VLine draws h cells downward from (x, y); a zero rune draws '│'
func (p *Painter) VLine(x, y, h int, ch rune, style Style) {
	if ch == 0 {
		ch = boxV
	}
	for i := 0; i < h; i++ {
		p.Put(x, y+i, ch, style)
	}
}

// Fill sets a region to ch with the given style
func (p *Painter) Fill(x, y, w, h int, ch rune, style Style) {
	p.grid.FillStyled(x, y, w, h, ch, style)
}

// Rect fills a region with styled spaces, used for backdrops
func (p *Painter) Rect(x, y, w, h int, style Style) {
	p.grid.FillStyled(x, y, w, h, ' ', style)
}

// Box draws a single-line border with an optional title on the top edge
// No-op when w < 2 or h < 2
func (p *Painter) Box(x, y, w, h int, title string, style Style) {
	if w < 2 || h < 2 {
		return
	}

	// Corners
	p.Put(x, y, boxTL, style)
	p.Put(x+w-1, y, boxTR, style)
	p.Put(x, y+h-1, boxBL, style)
	p.Put(x+w-1, y+h-1, boxBR, style)

	// Edges
	p.HLine(x+1, y, w-2, boxH, style)
	p.HLine(x+1, y+h-1, w-2, boxH, style)
	p.VLine(x, y+1, h-2, boxV, style)
	p.VLine(x+w-1, y+1, h-2, boxV, style)

	if title == "" {
		return
	}
	// Title " title " starts one cell in and never overwrites the right corner
	i := 0
	for _, ch := range " " + title + " " {
		if i+1 >= w-1 {
			break
		}
		p.Put(x+1+i, y, ch, style)
		i++
	}
}
