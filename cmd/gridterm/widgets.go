package main

import (
	"strings"

	"github.com/lixenwraith/gridterm/layout"
	"github.com/lixenwraith/gridterm/render"
)

// Shared demo styles
var (
	frameStyle  = render.StylePlain.Fg(render.PaletteColor(245)).Bold(true)
	titleStyle  = render.StylePlain.Fg(render.PaletteColor(214)).Bold(true)
	valueStyle  = render.StylePlain.Fg(render.PaletteColor(39)).Bold(true)
	dimStyle    = render.StylePlain.Fg(render.PaletteColor(244))
	bodyStyle   = render.StylePlain.Fg(render.PaletteColor(252))
	modalStyle  = render.StylePlain.Fg(render.PaletteColor(223)).Bold(true)
	hintStyle   = render.StylePlain.Fg(render.PaletteColor(229))
	backdrop    = render.StylePlain.Bg(render.PaletteColor(236))
	selectStyle = render.StylePlain.Fg(render.PaletteColor(15)).Inverse(true)
	itemStyle   = render.StylePlain.Fg(render.PaletteColor(250))
)

// drawBox frames area, never smaller than its own border
func drawBox(p *render.Painter, a layout.Rect, title string) {
	p.Box(a.X, a.Y, max(2, a.W), max(2, a.H), title, frameStyle)
}

// boxed is a leaf that frames its area and then draws body inside
func boxed(title string, body func(p *render.Painter, inner layout.Rect)) *layout.Node {
	return layout.Leaf(func(p *render.Painter, a layout.Rect) {
		drawBox(p, a, title)
		if body != nil {
			body(p, a.Inset(1))
		}
	})
}

// header is a boxed leaf with a title centred on its top edge
func header(title string) *layout.Node {
	return layout.Leaf(func(p *render.Painter, a layout.Rect) {
		drawBox(p, a, "")
		tx := max(a.X+1, a.X+(a.W-len([]rune(title)))/2)
		p.Text(tx, a.Y, title, titleStyle)
	})
}

// textLine draws get() at an offset inside the area
func textLine(title string, get func() string) *layout.Node {
	return boxed(title, func(p *render.Painter, in layout.Rect) {
		p.Text(in.X+1, in.Y, clip(get(), in.W-1), valueStyle)
	})
}

// clip truncates s to at most n runes
func clip(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// modal draws a dimmed backdrop and a centred window while visible returns true
func modal(title string, visible func() bool, lines func() []string) *layout.Node {
	return layout.Leaf(func(p *render.Painter, a layout.Rect) {
		if !visible() {
			return
		}
		p.Rect(a.X, a.Y, a.W, a.H, backdrop)

		mw := min(54, max(32, a.W*6/10))
		mh := min(12, max(7, a.H*4/10))
		mx := a.X + (a.W-mw)/2
		my := a.Y + (a.H-mh)/2

		p.Rect(mx, my, mw, mh, render.StylePlain)
		p.Box(mx, my, mw, mh, title, modalStyle)
		for i, line := range lines() {
			if i >= mh-3 {
				break
			}
			p.Text(mx+2, my+2+i, clip(line, mw-4), hintStyle)
		}
	})
}

// plotLines splits a multi-line string into rows that fit w columns
func plotLines(s string, w int) []string {
	rows := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, r := range rows {
		rows[i] = clip(r, w)
	}
	return rows
}
