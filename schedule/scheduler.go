package schedule

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/gridterm/core"
)

const (
	DefaultProbeInterval = 5 * time.Second
	DefaultProbeTimeout  = 250 * time.Millisecond
)

// ErrRunning is returned by Run when the loop is already active or has finished
var ErrRunning = errors.New("scheduler already running")

// Prober measures the round-trip time to the terminal; ok=false means unknown
type Prober interface {
	Probe(ctx context.Context, timeout time.Duration) (time.Duration, bool)
}

// Options configures a Scheduler; zero values select defaults
type Options struct {
	Clock         Clock
	Policy        Policy // Unset Unknown/Floor rates come from DefaultPolicy
	Prober        Prober // nil disables RTT probing
	ProbeInterval time.Duration
	ProbeTimeout  time.Duration
}

// Scheduler coalesces redraw requests into frames no faster than an RTT-derived ceiling
// All draws and posted tasks run on the goroutine executing Run
type Scheduler struct {
	draw  func()
	clock Clock

	prober        Prober
	probeInterval time.Duration
	probeTimeout  time.Duration

	requests chan struct{}
	wake     chan struct{}
	running  atomic.Bool

	taskMu sync.Mutex
	tasks  []func()
	closed bool

	fps atomic.Int64

	mu     sync.Mutex
	policy Policy
	rtt    time.Duration
	rttOK  bool

	// Loop-owned state
	pending     bool
	armed       bool
	nextAllowed time.Time
	lastProbe   time.Time
	probing     bool
}

// New creates a scheduler that calls draw for each frame
func New(draw func(), opts Options) *Scheduler {
	if opts.Clock == nil {
		opts.Clock = NewTimeProvider()
	}
	if opts.ProbeInterval <= 0 {
		opts.ProbeInterval = DefaultProbeInterval
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = DefaultProbeTimeout
	}
	if draw == nil {
		draw = func() {}
	}

	s := &Scheduler{
		draw:          draw,
		clock:         opts.Clock,
		prober:        opts.Prober,
		probeInterval: opts.ProbeInterval,
		probeTimeout:  opts.ProbeTimeout,
		requests:      make(chan struct{}, 1),
		wake:          make(chan struct{}, 1),
		policy:        opts.Policy.withDefaults(),
	}
	s.fps.Store(int64(s.ceilingLocked()))
	return s
}

// FPS returns the current frame-rate ceiling
func (s *Scheduler) FPS() int {
	return int(s.fps.Load())
}

// RTT returns the last applied measurement
func (s *Scheduler) RTT() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rtt, s.rttOK
}

// SetRTT applies a round-trip measurement; ok=false marks it unknown
// The new ceiling affects frames scheduled after the current one
func (s *Scheduler) SetRTT(rtt time.Duration, ok bool) {
	s.mu.Lock()
	s.rtt, s.rttOK = rtt, ok
	s.applyLocked()
	s.mu.Unlock()
}

// SetPolicy replaces the tier table, used by config reload
func (s *Scheduler) SetPolicy(p Policy) {
	s.mu.Lock()
	s.policy = p.withDefaults()
	s.applyLocked()
	s.mu.Unlock()
}

// ceilingLocked is the policy's rate for the current RTT, at least 1
func (s *Scheduler) ceilingLocked() int {
	return max(s.policy.FPS(s.rtt, s.rttOK), 1)
}

func (s *Scheduler) applyLocked() {
	fps := s.ceilingLocked()
	if old := s.fps.Swap(int64(fps)); old != int64(fps) {
		if s.rttOK {
			log.Printf("scheduler: rtt %v, fps ceiling %d -> %d", s.rtt, old, fps)
		} else {
			log.Printf("scheduler: rtt unknown, fps ceiling %d -> %d", old, fps)
		}
	}
}

// RequestRedraw asks for a frame; safe from any goroutine, never blocks
func (s *Scheduler) RequestRedraw() {
	select {
	case s.requests <- struct{}{}:
	default:
	}
}

// Post queues fn to run on the loop goroutine ahead of the next frame, in order
// Never blocks, so draws, key handlers and other tasks may post too; dropped once Run has returned
func (s *Scheduler) Post(fn func()) {
	if fn == nil {
		return
	}
	s.taskMu.Lock()
	if s.closed {
		s.taskMu.Unlock()
		return
	}
	s.tasks = append(s.tasks, fn)
	s.taskMu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run drives the scheduler until ctx is cancelled and returns ctx.Err()
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer func() {
		s.taskMu.Lock()
		s.closed = true
		s.tasks = nil
		s.taskMu.Unlock()
	}()

	timer := time.NewTimer(0)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	defer timer.Stop()

	// nil while idle so the select ignores it
	var timerC <-chan time.Time
	arm := func(d time.Duration) {
		timer.Reset(d)
		timerC = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-s.requests:
			if d, ok := s.request(); ok {
				arm(d)
			}

		case <-s.wake:
			s.drainTasks()

		case <-timerC:
			timerC = nil
			if d, ok := s.fire(ctx); ok {
				arm(d)
			}
		}
	}
}

// request marks a frame pending and reports the delay if the timer must be armed
func (s *Scheduler) request() (time.Duration, bool) {
	s.pending = true
	if s.armed {
		return 0, false
	}
	s.armed = true
	return s.delay(), true
}

func (s *Scheduler) delay() time.Duration {
	return Until(s.clock, s.nextAllowed)
}

// fire runs one timer expiry and reports the delay if another frame is due
func (s *Scheduler) fire(ctx context.Context) (time.Duration, bool) {
	s.armed = false
	s.maybeProbe(ctx)

	if s.pending {
		s.drainTasks()
		s.pending = false
		s.draw()
		// The interval starts when the draw finishes
		s.nextAllowed = s.clock.Now().Add(time.Second / time.Duration(s.FPS()))

		// Requests made by draw itself
		select {
		case <-s.requests:
			s.pending = true
		default:
		}
	}

	if !s.pending {
		return 0, false
	}
	s.armed = true
	return s.delay(), true
}

// drainTasks runs queued tasks, including ones they post, until the queue is empty
func (s *Scheduler) drainTasks() {
	for {
		s.taskMu.Lock()
		batch := s.tasks
		s.tasks = nil
		s.taskMu.Unlock()
		if len(batch) == 0 {
			return
		}
		for _, fn := range batch {
			fn()
		}
	}
}

func (s *Scheduler) maybeProbe(ctx context.Context) {
	if s.prober == nil || s.probing {
		return
	}
	if !s.lastProbe.IsZero() && Since(s.clock, s.lastProbe) < s.probeInterval {
		return
	}
	s.probing = true
	s.lastProbe = s.clock.Now()

	prober, timeout := s.prober, s.probeTimeout
	core.Go(func() {
		rtt, ok := prober.Probe(ctx, timeout)
		s.Post(func() {
			s.probing = false
			s.SetRTT(rtt, ok)
		})
	})
}
