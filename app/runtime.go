// Package app wires the terminal, differential renderer, redraw scheduler and a
// layout tree into one runtime with a scoped Start/Stop lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/lixenwraith/gridterm/core"
	"github.com/lixenwraith/gridterm/layout"
	"github.com/lixenwraith/gridterm/render"
	"github.com/lixenwraith/gridterm/schedule"
	"github.com/lixenwraith/gridterm/status"
	"github.com/lixenwraith/gridterm/terminal"
)

var (
	ErrStarted    = errors.New("runtime already started")
	ErrNotStarted = errors.New("runtime not started")
)

// Options configures a Runtime
type Options struct {
	Backend   terminal.Backend
	AltScreen bool

	// Scheduler settings; Prober is filled in by the runtime unless DisableProbe is set
	Scheduler    schedule.Options
	DisableProbe bool

	Root *layout.Node

	// OnKey runs on the scheduler goroutine for every key event
	// It may call Post or SetRoot; it must not call Stop, cancel the Run context instead
	OnKey func(terminal.KeyEvent)
	// OnFrame runs on the scheduler goroutine after each commit
	OnFrame func(render.Stats)

	// Metrics receives runtime counters; nil creates a private registry
	Metrics *status.Registry
}

// Runtime owns one terminal session and its render loop
type Runtime struct {
	term     *terminal.Terminal
	input    *terminal.Input
	renderer *render.DiffRenderer
	sched    *schedule.Scheduler

	onKey   func(terminal.KeyEvent)
	onFrame func(render.Stats)

	metrics *status.Registry
	stat    frameMetrics

	// Loop-owned
	root *layout.Node

	mu       sync.Mutex
	started  bool
	stopped  bool
	cancel   context.CancelFunc
	loopDone chan error
	cleanups []func()

	statsMu   sync.Mutex
	lastStats render.Stats
	frames    uint64
}

// New assembles a runtime; the terminal is not touched until Start
func New(opts Options) *Runtime {
	if opts.Metrics == nil {
		opts.Metrics = status.NewRegistry()
	}
	r := &Runtime{
		term:    terminal.New(opts.Backend, terminal.Options{AltScreen: opts.AltScreen}),
		input:   terminal.NewInput(opts.Backend),
		onKey:   opts.OnKey,
		onFrame: opts.OnFrame,
		root:    opts.Root,
		metrics: opts.Metrics,
		stat:    newFrameMetrics(opts.Metrics),
	}
	r.renderer = render.NewDiffRenderer(r.term)

	schedOpts := opts.Scheduler
	if !opts.DisableProbe && schedOpts.Prober == nil {
		schedOpts.Prober = terminal.NewProber(r.term, r.input)
	}
	if opts.DisableProbe {
		schedOpts.Prober = nil
	} else {
		schedOpts.Prober = newCountingProber(schedOpts.Prober, opts.Metrics)
	}
	r.sched = schedule.New(r.draw, schedOpts)
	return r
}

// Scheduler exposes the redraw scheduler for RTT and policy control
func (r *Runtime) Scheduler() *schedule.Scheduler {
	return r.sched
}

// Metrics returns the registry receiving runtime counters
func (r *Runtime) Metrics() *status.Registry {
	return r.metrics
}

// Terminal returns the output collaborator
func (r *Runtime) Terminal() *terminal.Terminal {
	return r.term
}

// Start opens the terminal and launches input decoding and the render loop
func (r *Runtime) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return ErrStarted
	}

	if err := r.term.Open(); err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	r.started = true
	r.cleanups = append(r.cleanups, core.RegisterRestorer(func() {
		r.input.Stop()
		r.term.Close()
	}))

	cols, rows := r.term.Size()
	log.Printf("runtime: terminal opened %dx%d", cols, rows)

	r.cleanups = append(r.cleanups,
		r.term.OnResize(func(w, h int) {
			r.sched.Post(func() {
				log.Printf("runtime: resize %dx%d", w, h)
				r.stat.resizes.Inc()
				r.renderer.Reset()
			})
			r.sched.RequestRedraw()
		}),
		r.input.Subscribe(func(ev terminal.KeyEvent) {
			if r.onKey == nil {
				return
			}
			r.sched.Post(func() { r.onKey(ev) })
		}),
	)
	r.input.Start()

	loopCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.loopDone = make(chan error, 1)
	done := r.loopDone
	core.Go(func() {
		done <- r.sched.Run(loopCtx)
	})

	r.sched.RequestRedraw()
	return nil
}

// Stop halts the loop and restores the terminal; safe to call more than once
func (r *Runtime) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started {
		return ErrNotStarted
	}
	if r.stopped {
		return nil
	}
	r.stopped = true

	r.cancel()
	<-r.loopDone

	for i := len(r.cleanups) - 1; i >= 0; i-- {
		r.cleanups[i]()
	}
	r.cleanups = nil

	r.input.Stop()
	err := r.term.Close()
	log.Printf("runtime: stopped after %d frames", r.Frames())
	return err
}

// Run starts the runtime and blocks until ctx is cancelled or input ends
func (r *Runtime) Run(ctx context.Context) error {
	if err := r.Start(ctx); err != nil {
		return err
	}

	var inputErr error
	select {
	case <-ctx.Done():
	case <-r.input.Done():
		inputErr = r.input.Err()
	}

	if err := r.Stop(); err != nil {
		return err
	}
	if inputErr != nil {
		return fmt.Errorf("input: %w", inputErr)
	}
	return nil
}

// Post runs fn on the render loop ahead of the next frame; never blocks, callable from the loop itself
func (r *Runtime) Post(fn func()) {
	r.sched.Post(fn)
}

// RequestRedraw schedules a frame; safe from any goroutine
func (r *Runtime) RequestRedraw() {
	r.sched.RequestRedraw()
}

// SetRoot replaces the layout tree and schedules a frame
func (r *Runtime) SetRoot(n *layout.Node) {
	r.sched.Post(func() { r.root = n })
	r.sched.RequestRedraw()
}

// SetPolicy applies a new frame-rate policy, as after a config reload
func (r *Runtime) SetPolicy(p schedule.Policy) {
	r.sched.SetPolicy(p)
}

// LastStats returns the counters of the most recent commit
func (r *Runtime) LastStats() render.Stats {
	r.statsMu.Lock()
	defer r.statsMu.Unlock()
	return r.lastStats
}

// Frames returns the number of committed frames
func (r *Runtime) Frames() uint64 {
	r.statsMu.Lock()
	defer r.statsMu.Unlock()
	return r.frames
}

// draw composes one frame; runs on the scheduler goroutine
func (r *Runtime) draw() {
	g := r.renderer.NewGrid()
	cols, rows := g.Size()
	layout.Render(r.root, layout.Rect{W: cols, H: rows}, render.NewPainter(g))

	if err := r.renderer.Commit(g); err != nil {
		log.Printf("runtime: %v", err)
		r.stat.writeErrors.Inc()
		// Next frame repaints everything
		r.renderer.Reset()
		return
	}

	stats := r.renderer.Stats()
	r.stat.record(stats, r.sched.FPS())
	r.statsMu.Lock()
	r.lastStats = stats
	r.frames++
	r.statsMu.Unlock()

	if r.onFrame != nil {
		r.onFrame(stats)
	}
}
