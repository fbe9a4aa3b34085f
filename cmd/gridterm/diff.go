package main

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/gridterm/app"
	"github.com/lixenwraith/gridterm/layout"
	"github.com/lixenwraith/gridterm/render"
)

var spinner = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

var (
	clockStyle   = render.StylePlain.Fg(render.PaletteColor(39)).Bold(true)
	spinnerStyle = render.StylePlain.Fg(render.PaletteColor(46))
)

// diffState animates a few cells per frame so each commit stays small
type diffState struct {
	spin  int
	last  render.Stats
	dense float64
}

func (s *diffState) draw(p *render.Painter, a layout.Rect) {
	p.Box(a.X+2, a.Y+1, max(10, a.W-4), max(5, a.H-2), "gridterm diff demo (q to quit)", frameStyle)

	p.Text(a.X+6, a.Y+3, "Time: "+time.Now().Format("15:04:05"), clockStyle)
	p.Text(a.X+6, a.Y+5, "Spinner: "+string(spinner[s.spin]), spinnerStyle)
	p.Text(a.X+6, a.Y+6, fmt.Sprintf("Last frame: %d runs, %d cells, %d bytes", s.last.Runs, s.last.Cells, s.last.Bytes), dimStyle)

	rx, ry := a.X+6, a.Y+9
	rw := max(20, min(40, a.W-12))
	rh := max(4, min(8, a.H-12))
	p.Box(rx-2, ry-1, rw+4, rh+2, "Live Region", dimStyle)
	for y := 0; y < rh; y++ {
		for x := 0; x < rw; x++ {
			ch := ' '
			if rand.Float64() < s.dense {
				ch = '•'
			}
			p.Put(rx+x, ry+y, ch, dimStyle)
		}
	}
}

func runDiff(cmd *cobra.Command, _ []string) error {
	return runSession(cmd, func(rt *app.Runtime) *demo {
		s := &diffState{dense: 0.02}
		return &demo{
			root: layout.Leaf(s.draw),
			tick: 80 * time.Millisecond,
			onTick: func() {
				s.spin = (s.spin + 1) % len(spinner)
			},
			onFrame: func(st render.Stats) { s.last = st },
		}
	})
}
