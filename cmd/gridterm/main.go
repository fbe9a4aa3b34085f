package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/gridterm/core"
)

var (
	configPath  string
	backendName string
	logPath     string
)

func main() {
	// Panic Recovery: Ensure terminal is reset even if a demo crashes
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "gridterm: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gridterm",
		Short: "flicker-free terminal dashboards with differential rendering",
		Long: "gridterm renders layout trees into a cell grid and writes only the changed cells,\n" +
			"one batched write per frame, with the frame rate adapted to the measured round-trip time.",
		SilenceUsage: true,
		RunE:         runDashboard,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (toml or yaml)")
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", "", "terminal backend: unix or tcell")
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "debug log file (disabled when empty)")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "dashboard",
			Short: "command list, live graphs and a help modal",
			RunE:  runDashboard,
		},
		&cobra.Command{
			Use:   "diff",
			Short: "clock, spinner and a sparse live region to show minimal diffs",
			RunE:  runDiff,
		},
		&cobra.Command{
			Use:   "stacks",
			Short: "vertical and horizontal stacks with weighted growth",
			RunE:  runStacks,
		},
		&cobra.Command{
			Use:   "overlay",
			Short: "modal drawn over a base layout (z opens, c closes)",
			RunE:  runOverlay,
		},
		&cobra.Command{
			Use:   "runtime",
			Short: "size, frame count, RTT and the adaptive frame-rate ceiling",
			RunE:  runRuntime,
		},
	)

	return rootCmd
}
