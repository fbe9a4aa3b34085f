package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/gridterm/app"
	"github.com/lixenwraith/gridterm/config"
	"github.com/lixenwraith/gridterm/core"
	"github.com/lixenwraith/gridterm/layout"
	"github.com/lixenwraith/gridterm/render"
	"github.com/lixenwraith/gridterm/schedule"
	"github.com/lixenwraith/gridterm/terminal"
)

// demo describes one interactive screen; every callback runs on the render loop
type demo struct {
	root *layout.Node

	tick   time.Duration
	onTick func()

	onKey   func(ev terminal.KeyEvent)
	onFrame func(s render.Stats)
}

// loadConfig reads the config file and applies command-line overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if backendName != "" {
		cfg.Terminal.Backend = backendName
	}
	if logPath != "" {
		cfg.Log.File = logPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// isQuit matches q and Ctrl+C; raw mode delivers Ctrl+C as a key, not SIGINT
func isQuit(ev terminal.KeyEvent) bool {
	return (ev.Name == "q" && !ev.Ctrl && !ev.Meta) || (ev.Ctrl && ev.Name == "c")
}

// runSession opens the terminal, runs the demo built by build until quit, and restores the terminal
func runSession(cmd *cobra.Command, build func(rt *app.Runtime) *demo) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logFile, err := core.SetupLogging(cfg.Log.File)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	backend, err := terminal.NewBackend(cfg.Terminal.Backend)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		d  *demo
		rt *app.Runtime
	)
	rt = app.New(app.Options{
		Backend:   backend,
		AltScreen: cfg.Terminal.AltScreen,
		Scheduler: schedule.Options{
			Policy:        cfg.Policy(),
			ProbeInterval: cfg.Scheduler.ProbeInterval.Std(),
			ProbeTimeout:  cfg.Scheduler.ProbeTimeout.Std(),
		},
		OnKey: func(ev terminal.KeyEvent) {
			if isQuit(ev) {
				cancel()
				return
			}
			if d.onKey != nil {
				d.onKey(ev)
			}
			rt.RequestRedraw()
		},
		OnFrame: func(s render.Stats) {
			if d.onFrame != nil {
				d.onFrame(s)
			}
		},
	})
	rt.Metrics().Label("backend").Store(cfg.Terminal.Backend)
	d = build(rt)
	rt.SetRoot(d.root)

	if configPath != "" {
		err := config.Watch(ctx, configPath, func(c *config.Config) {
			rt.SetPolicy(c.Policy())
			rt.RequestRedraw()
		})
		if err != nil {
			log.Printf("gridterm: config watch disabled: %v", err)
		}
	}

	if d.tick > 0 && d.onTick != nil {
		core.Go(func() {
			ticker := time.NewTicker(d.tick)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					rt.Post(d.onTick)
					rt.RequestRedraw()
				}
			}
		})
	}

	err = rt.Run(ctx)
	if errors.Is(err, terminal.ErrNotTerminal) {
		return fmt.Errorf("%w (try --backend tcell when stdio is redirected)", err)
	}
	return err
}
