package schedule

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// newTestScheduler returns a scheduler on a mock clock that counts draws
func newTestScheduler(opts Options) (*Scheduler, *MockClock, *int) {
	clk := NewMockClock(time.Unix(1000, 0))
	opts.Clock = clk
	draws := new(int)
	s := New(func() { *draws++ }, opts)
	return s, clk, draws
}

func TestRequestsCoalesceIntoOneDraw(t *testing.T) {
	s, _, draws := newTestScheduler(Options{})

	armed := 0
	for i := 0; i < 5; i++ {
		if _, ok := s.request(); ok {
			armed++
		}
	}
	if armed != 1 {
		t.Fatalf("Expected timer armed once, armed %d times", armed)
	}

	if _, again := s.fire(context.Background()); again {
		t.Error("Expected scheduler to go idle after the frame")
	}
	if *draws != 1 {
		t.Errorf("Expected 1 draw, got %d", *draws)
	}

	// No pending request: a stray fire draws nothing
	s.fire(context.Background())
	if *draws != 1 {
		t.Errorf("Expected no extra draw, got %d", *draws)
	}
}

func TestRedrawBurstBeforeRunDrawsOnce(t *testing.T) {
	var draws atomic.Int32
	s := New(func() { draws.Add(1) }, Options{})

	for i := 0; i < 5; i++ {
		s.RequestRedraw()
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for draws.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	// Well past the 50ms frame interval, so a second owed frame would have fired
	time.Sleep(150 * time.Millisecond)
	cancel()
	<-errCh

	if n := draws.Load(); n != 1 {
		t.Errorf("Expected 1 draw for 5 requests, got %d", n)
	}
}

func TestFPSTiers(t *testing.T) {
	tests := []struct {
		name string
		rtt  time.Duration
		ok   bool
		want int
	}{
		{"unknown", 0, false, 20},
		{"10ms", 10 * time.Millisecond, true, 30},
		{"100ms", 100 * time.Millisecond, true, 15},
		{"150ms", 150 * time.Millisecond, true, 8},
		{"300ms", 300 * time.Millisecond, true, 4},
		{"boundary 50ms", 50 * time.Millisecond, true, 15},
		{"boundary 200ms", 200 * time.Millisecond, true, 4},
	}

	s, _, _ := newTestScheduler(Options{})
	if got := s.FPS(); got != 20 {
		t.Fatalf("Expected initial FPS 20, got %d", got)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.SetRTT(tt.rtt, tt.ok)
			if got := s.FPS(); got != tt.want {
				t.Errorf("SetRTT(%v, %v): FPS = %d, want %d", tt.rtt, tt.ok, got, tt.want)
			}
		})
	}
}

func TestDelayRespectsCeiling(t *testing.T) {
	s, clk, draws := newTestScheduler(Options{})
	ctx := context.Background()

	if d, ok := s.request(); !ok || d != 0 {
		t.Fatalf("Expected immediate first frame, got %v %v", d, ok)
	}
	s.fire(ctx)

	// 20 FPS -> 50ms between frames
	clk.Advance(10 * time.Millisecond)
	d, ok := s.request()
	if !ok || d != 40*time.Millisecond {
		t.Errorf("Expected 40ms delay, got %v %v", d, ok)
	}

	clk.Advance(40 * time.Millisecond)
	s.fire(ctx)
	if *draws != 2 {
		t.Errorf("Expected 2 draws, got %d", *draws)
	}

	// Ceiling change applies to the next scheduled frame
	s.SetRTT(5*time.Millisecond, true)
	clk.Advance(100 * time.Millisecond)
	s.request()
	s.fire(ctx)
	if d, _ := s.request(); d != time.Second/30 {
		t.Errorf("Expected %v delay at 30 FPS, got %v", time.Second/30, d)
	}
}

func TestSlowDrawDelaysNextFrame(t *testing.T) {
	clk := NewMockClock(time.Unix(0, 0))
	s := New(func() { clk.Advance(60 * time.Millisecond) }, Options{Clock: clk})
	ctx := context.Background()

	s.request()
	s.fire(ctx)

	// 20 FPS: the next frame waits a full 50ms after the draw finished
	if d, ok := s.request(); !ok || d != 50*time.Millisecond {
		t.Errorf("Expected 50ms delay after a slow draw, got %v %v", d, ok)
	}
}

func TestPartialPolicyKeepsPositiveCeiling(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		rtt    time.Duration
		ok     bool
		want   int
	}{
		{"floor only", Policy{Floor: 4}, 0, false, 20},
		{"unknown only", Policy{Unknown: 10}, 500 * time.Millisecond, true, 4},
		{"zero tier rate", Policy{Unknown: 5, Floor: 5, Tiers: []Tier{{Below: time.Second, FPS: 0}}}, 10 * time.Millisecond, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, draws := newTestScheduler(Options{Policy: tt.policy})
			s.SetRTT(tt.rtt, tt.ok)
			if got := s.FPS(); got != tt.want {
				t.Errorf("FPS = %d, want %d", got, tt.want)
			}

			s.request()
			s.fire(context.Background())
			if *draws != 1 {
				t.Errorf("Expected 1 draw, got %d", *draws)
			}
			if d, _ := s.request(); d != time.Second/time.Duration(tt.want) {
				t.Errorf("Expected %v delay, got %v", time.Second/time.Duration(tt.want), d)
			}
		})
	}

	s, _, _ := newTestScheduler(Options{Policy: Policy{Floor: 4}})
	if got := s.FPS(); got != 20 {
		t.Errorf("Expected initial FPS 20 from default unknown rate, got %d", got)
	}
	s.SetPolicy(Policy{Floor: 2})
	if got := s.FPS(); got != 20 {
		t.Errorf("Expected SetPolicy to fill the unknown rate, got %d", got)
	}
}

func TestPostFromLoopNeverBlocks(t *testing.T) {
	const n = 1000
	var s *Scheduler
	var count atomic.Int32
	finished := make(chan struct{})

	s = New(func() {
		// A draw posting work must not stall the loop
		s.Post(func() { count.Add(1) })
	}, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	s.Post(func() {
		for i := 0; i < n; i++ {
			s.Post(func() { count.Add(1) })
		}
		s.Post(func() { close(finished) })
	})

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Tasks posted from the loop never ran")
	}
	if got := count.Load(); got < n {
		t.Errorf("Expected at least %d tasks run, got %d", n, got)
	}

	s.RequestRedraw()
	deadline := time.Now().Add(2 * time.Second)
	for count.Load() == n && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := count.Load(); got != n+1 {
		t.Errorf("Expected task posted by draw to run, got %d tasks", got)
	}
}

func TestDrawRequestingRedrawRearms(t *testing.T) {
	clk := NewMockClock(time.Unix(0, 0))
	var s *Scheduler
	calls := 0
	s = New(func() {
		calls++
		if calls == 1 {
			s.RequestRedraw()
		}
	}, Options{Clock: clk})

	s.request()
	d, again := s.fire(context.Background())
	if !again || d != 50*time.Millisecond {
		t.Fatalf("Expected re-arm after 50ms, got %v %v", d, again)
	}

	clk.Advance(d)
	if _, again := s.fire(context.Background()); again {
		t.Error("Expected idle after second frame")
	}
	if calls != 2 {
		t.Errorf("Expected 2 draws, got %d", calls)
	}
}

func TestPostedTasksRunBeforeDraw(t *testing.T) {
	var order []string
	clk := NewMockClock(time.Unix(0, 0))
	s := New(func() { order = append(order, "draw") }, Options{Clock: clk})

	s.Post(func() { order = append(order, "a") })
	s.Post(func() { order = append(order, "b") })
	s.request()
	s.fire(context.Background())

	want := []string{"a", "b", "draw"}
	if len(order) != len(want) {
		t.Fatalf("Expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, order)
		}
	}
}

type blockingProber struct {
	calls   atomic.Int32
	release chan struct{}
	rtt     time.Duration
	ok      bool
}

func (p *blockingProber) Probe(ctx context.Context, timeout time.Duration) (time.Duration, bool) {
	p.calls.Add(1)
	select {
	case <-p.release:
		return p.rtt, p.ok
	case <-ctx.Done():
		return 0, false
	}
}

func TestProbeNeverOverlaps(t *testing.T) {
	prober := &blockingProber{release: make(chan struct{}), rtt: 10 * time.Millisecond, ok: true}
	s, clk, _ := newTestScheduler(Options{Prober: prober, ProbeInterval: 5 * time.Second})
	ctx := context.Background()

	applyResult := func() {
		t.Helper()
		prober.release <- struct{}{}
		select {
		case <-s.wake:
			s.drainTasks()
		case <-time.After(time.Second):
			t.Fatal("Probe result was never posted")
		}
	}

	s.request()
	s.fire(ctx)
	if !s.probing {
		t.Fatal("Expected probe to start on first frame")
	}
	applyResult()
	if s.probing {
		t.Error("Expected probing flag cleared")
	}
	if got := s.FPS(); got != 30 {
		t.Errorf("Expected FPS 30 after 10ms RTT, got %d", got)
	}

	// Within the interval no new probe starts
	clk.Advance(time.Second)
	s.request()
	s.fire(ctx)
	if s.probing {
		t.Error("Expected no probe within interval")
	}

	clk.Advance(5 * time.Second)
	s.request()
	s.fire(ctx)
	if !s.probing {
		t.Fatal("Expected probe after interval")
	}

	// Interval elapsed again, but the second probe is still in flight
	clk.Advance(10 * time.Second)
	s.request()
	s.fire(ctx)
	applyResult()

	if n := prober.calls.Load(); n != 2 {
		t.Errorf("Expected 2 probe calls, got %d", n)
	}
}

type fixedProber struct{ rtt time.Duration }

func (p fixedProber) Probe(context.Context, time.Duration) (time.Duration, bool) {
	return p.rtt, true
}

func TestRunDrawsAndStops(t *testing.T) {
	drawn := make(chan int, 16)
	var mu sync.Mutex
	value := 0

	var s *Scheduler
	s = New(func() {
		mu.Lock()
		v := value
		mu.Unlock()
		drawn <- v
	}, Options{Prober: fixedProber{rtt: 150 * time.Millisecond}})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	s.Post(func() {
		mu.Lock()
		value = 42
		mu.Unlock()
	})
	s.RequestRedraw()

	select {
	case v := <-drawn:
		if v != 42 {
			t.Errorf("Expected draw to observe posted mutation, got %d", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for draw")
	}

	// Probe result is applied on the loop
	deadline := time.Now().Add(2 * time.Second)
	for s.FPS() != 8 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := s.FPS(); got != 8 {
		t.Errorf("Expected FPS 8 after 150ms probe, got %d", got)
	}

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	if err := s.Run(context.Background()); !errors.Is(err, ErrRunning) {
		t.Errorf("Expected ErrRunning on second Run, got %v", err)
	}

	// Post after shutdown is dropped
	ran := false
	for i := 0; i < 300; i++ {
		s.Post(func() { ran = true })
	}
	s.drainTasks()
	if ran {
		t.Error("Expected tasks posted after shutdown to be dropped")
	}
}

func TestSetPolicy(t *testing.T) {
	s, _, _ := newTestScheduler(Options{})
	s.SetRTT(10*time.Millisecond, true)

	s.SetPolicy(Policy{
		Tiers:   []Tier{{Below: 20 * time.Millisecond, FPS: 60}},
		Unknown: 10,
		Floor:   2,
	})
	if got := s.FPS(); got != 60 {
		t.Errorf("Expected FPS 60 under new policy, got %d", got)
	}
	if rtt, ok := s.RTT(); !ok || rtt != 10*time.Millisecond {
		t.Errorf("Expected RTT preserved, got %v %v", rtt, ok)
	}
}
