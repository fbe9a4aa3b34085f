package main

import (
	"fmt"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/gridterm/app"
	"github.com/lixenwraith/gridterm/layout"
	"github.com/lixenwraith/gridterm/render"
	"github.com/lixenwraith/gridterm/terminal"
)

// historyLen bounds every plotted series
const historyLen = 120

// series is a fixed-capacity sample window
type series struct {
	title   string
	caption string
	values  []float64
}

func (s *series) push(v float64) {
	if len(s.values) == historyLen {
		copy(s.values, s.values[1:])
		s.values = s.values[:historyLen-1]
	}
	s.values = append(s.values, v)
}

// dashboardState is owned by the render loop
type dashboardState struct {
	rt       *app.Runtime
	selected int
	tick     int
	help     bool
	series   []*series
	bytes    *series
	runs     *series
	rtt      *series
	fps      *series
}

func newDashboardState(rt *app.Runtime) *dashboardState {
	s := &dashboardState{
		rt:    rt,
		bytes: &series{title: "Frame bytes", caption: "bytes written per frame"},
		runs:  &series{title: "Runs per frame", caption: "positioned runs per frame"},
		rtt:   &series{title: "Round trip", caption: "measured RTT (ms)"},
		fps:   &series{title: "FPS ceiling", caption: "adaptive frame-rate ceiling"},
	}
	s.series = []*series{s.bytes, s.runs, s.rtt, s.fps}
	return s
}

func (s *dashboardState) onFrame(st render.Stats) {
	s.bytes.push(float64(st.Bytes))
	s.runs.push(float64(st.Runs))
}

func (s *dashboardState) onTick() {
	s.tick++
	if rtt, ok := s.rt.Scheduler().RTT(); ok {
		s.rtt.push(float64(rtt) / float64(time.Millisecond))
	} else {
		s.rtt.push(0)
	}
	s.fps.push(float64(s.rt.Scheduler().FPS()))
}

func (s *dashboardState) onKey(ev terminal.KeyEvent) {
	switch ev.Name {
	case "up", "k":
		s.selected = max(0, s.selected-1)
	case "down", "j":
		s.selected = min(len(s.series), s.selected+1)
	case "z":
		s.help = true
	case "c":
		s.help = false
	}
}

// titles lists the selectable entries: every series, then the counter table
func (s *dashboardState) titles() []string {
	out := make([]string, 0, len(s.series)+1)
	for _, sr := range s.series {
		out = append(out, sr.title)
	}
	return append(out, countersTitle)
}

const countersTitle = "Counters"

func (s *dashboardState) drawList(p *render.Painter, in layout.Rect) {
	for i, title := range s.titles() {
		if i >= in.H {
			break
		}
		style := itemStyle
		if i == s.selected {
			style = selectStyle
		}
		p.Text(in.X+1, in.Y+i, clip(title, in.W-2), style)
	}
}

func (s *dashboardState) drawCounters(p *render.Painter, in layout.Rect) {
	entries := s.rt.Metrics().Snapshot()
	nameW := 0
	for _, e := range entries {
		nameW = max(nameW, len(e.Name))
	}
	for i, e := range entries {
		if i >= in.H {
			break
		}
		p.Text(in.X+1, in.Y+i, clip(e.Name, in.W-1), dimStyle)
		p.Text(in.X+nameW+3, in.Y+i, clip(e.Value, in.W-nameW-3), valueStyle)
	}
}

func (s *dashboardState) drawDetail(p *render.Painter, in layout.Rect) {
	if s.selected == len(s.series) {
		s.drawCounters(p, in)
		return
	}
	sr := s.series[s.selected]
	if len(sr.values) < 2 {
		p.Text(in.X+1, in.Y, "(collecting samples)", dimStyle)
		return
	}
	// Plot spans h+1 rows plus a caption line; labels take the left columns
	h := in.H - 3
	w := in.W - 12
	if h < 2 || w < 4 {
		p.Text(in.X+1, in.Y, clip(fmt.Sprintf("%s: %.0f", sr.title, sr.values[len(sr.values)-1]), in.W-1), valueStyle)
		return
	}
	graph := asciigraph.Plot(sr.values,
		asciigraph.Height(h),
		asciigraph.Width(w),
		asciigraph.Caption(sr.caption),
	)
	for i, line := range plotLines(graph, in.W) {
		if i >= in.H {
			break
		}
		p.Text(in.X, in.Y+i, line, bodyStyle)
	}
}

func (s *dashboardState) footer() string {
	rtt := "…"
	if d, ok := s.rt.Scheduler().RTT(); ok {
		rtt = fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("Tick: %d | RTT: %s | FPS ≤ %d | ↑/↓ select, z help, q quit",
		s.tick, rtt, s.rt.Scheduler().FPS())
}

func (s *dashboardState) root() *layout.Node {
	base := layout.VStack(
		header("gridterm dashboard"),
		layout.HStack(
			boxed("Series", s.drawList),
			layout.Leaf(func(p *render.Painter, a layout.Rect) {
				drawBox(p, a, s.titles()[s.selected])
				s.drawDetail(p, a.Inset(1))
			}),
		).Gap(2).Grow(0, 1).Grow(1, 3),
		textLine("Footer", s.footer),
	).Pad(1).Gap(1).Grow(0, 3).Grow(1, 14).Grow(2, 3)

	return layout.Overlay(base, modal("Help",
		func() bool { return s.help },
		func() []string {
			return []string{
				"↑ / ↓ : select series",
				"z : open this help",
				"c : close help",
				"q : quit",
			}
		},
	))
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	return runSession(cmd, func(rt *app.Runtime) *demo {
		s := newDashboardState(rt)
		return &demo{
			root:    s.root(),
			tick:    time.Second,
			onTick:  s.onTick,
			onKey:   s.onKey,
			onFrame: s.onFrame,
		}
	})
}
