package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/gridterm/app"
	"github.com/lixenwraith/gridterm/layout"
	"github.com/lixenwraith/gridterm/terminal"
)

func runOverlay(cmd *cobra.Command, _ []string) error {
	return runSession(cmd, func(*app.Runtime) *demo {
		tick := 0
		open := false

		base := layout.VStack(
			header("gridterm overlay demo (q=quit, z=open, c=close)"),
			layout.HStack(
				textLine("Left", func() string { return fmt.Sprintf("Tick: %d", tick) }),
				textLine("Right", func() string { return "Time: " + time.Now().Format("15:04:05") }),
			).Gap(2).Grow(0, 1).Grow(1, 2),
			textLine("Footer", func() string { return "Press z to open modal; c to close." }),
		).Pad(1).Gap(1).Grow(0, 1).Grow(1, 5).Grow(2, 1)

		root := layout.Overlay(base, modal("Modal",
			func() bool { return open },
			func() []string {
				return []string{
					"Press 'c' to close",
					"",
					"This is drawn by the overlay on top.",
					"",
					"Background stays rendered underneath.",
				}
			},
		))

		return &demo{
			root:   root,
			tick:   500 * time.Millisecond,
			onTick: func() { tick++ },
			onKey: func(ev terminal.KeyEvent) {
				switch ev.Name {
				case "z":
					open = true
				case "c":
					open = false
				}
			},
		}
	})
}
