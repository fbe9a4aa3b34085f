package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/gridterm/app"
	"github.com/lixenwraith/gridterm/layout"
	"github.com/lixenwraith/gridterm/render"
)

// runRuntime shows the raw runtime counters with no decoration beyond text
func runRuntime(cmd *cobra.Command, _ []string) error {
	return runSession(cmd, func(rt *app.Runtime) *demo {
		frames := 0
		root := layout.Leaf(func(p *render.Painter, a layout.Rect) {
			cols, rows := p.Grid().Size()
			rtt := "…"
			if d, ok := rt.Scheduler().RTT(); ok {
				rtt = fmt.Sprintf("%d ms", d.Milliseconds())
			}
			lines := []string{
				"Runtime demo (press 'q' to quit)",
				fmt.Sprintf("Size: %dx%d", cols, rows),
				fmt.Sprintf("Frames: %d", frames),
				"RTT: " + rtt,
				fmt.Sprintf("Adaptive max FPS: ~%d", rt.Scheduler().FPS()),
			}
			for i, line := range lines {
				p.Text(a.X, a.Y+i, line, render.StyleNone)
			}
		})

		return &demo{
			root:    root,
			tick:    250 * time.Millisecond,
			onTick:  func() {},
			onFrame: func(render.Stats) { frames++ },
		}
	})
}
