package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/gridterm/app"
	"github.com/lixenwraith/gridterm/layout"
	"github.com/lixenwraith/gridterm/render"
	"github.com/lixenwraith/gridterm/terminal"
)

// stacksState lets the user shift growth weight between the two columns
type stacksState struct {
	tick  int
	left  int
	right int
	row   *layout.Node
}

func (s *stacksState) onKey(ev terminal.KeyEvent) {
	switch ev.Name {
	case "left", "h":
		s.left, s.right = max(0, s.left-1), s.right+1
	case "right", "l":
		s.left, s.right = s.left+1, max(0, s.right-1)
	case "0":
		s.left, s.right = 1, 2
	}
	s.row.Grow(0, s.left).Grow(1, s.right)
}

func (s *stacksState) root() *layout.Node {
	s.row = layout.HStack(
		textLine("Left", func() string { return fmt.Sprintf("Tick: %d", s.tick) }),
		textLine("Right", func() string { return "Time: " + time.Now().Format("15:04:05") }),
	).Gap(2)
	s.row.Grow(0, s.left).Grow(1, s.right)

	weights := layout.Leaf(func(p *render.Painter, a layout.Rect) {
		drawBox(p, a, "Weights")
		in := a.Inset(1)
		p.Text(in.X+1, in.Y, fmt.Sprintf("left %d : right %d  (←/→ shift, 0 reset)", s.left, s.right), valueStyle)
		if in.H > 1 {
			parts := layout.Partition(in.W, []int{s.left, s.right})
			p.HLine(in.X, in.Y+1, parts[0], '█', spinnerStyle)
			p.HLine(in.X+parts[0], in.Y+1, parts[1], '░', dimStyle)
		}
	})

	return layout.VStack(
		header("gridterm stacks demo (q to quit)"),
		s.row,
		weights,
		textLine("Footer", func() string { return "Middle row grows 5x, header and footer 1x." }),
	).Pad(1).Gap(1).Grow(0, 1).Grow(1, 5).Grow(2, 2).Grow(3, 1)
}

func runStacks(cmd *cobra.Command, _ []string) error {
	return runSession(cmd, func(*app.Runtime) *demo {
		s := &stacksState{left: 1, right: 2}
		return &demo{
			root:   s.root(),
			tick:   500 * time.Millisecond,
			onTick: func() { s.tick++ },
			onKey:  s.onKey,
		}
	})
}
