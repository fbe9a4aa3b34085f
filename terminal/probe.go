package terminal

import (
	"context"
	"time"
)

// Writer is the output side used by Prober
type Writer interface {
	Write(p []byte) error
}

// Prober measures the terminal round-trip time with a cursor position request
// The reply travels back through Input, so the measurement covers any SSH hops
// and the terminal's own processing
type Prober struct {
	out   Writer
	input *Input
	now   func() time.Time
}

// NewProber creates a prober writing to out and reading replies from input
func NewProber(out Writer, input *Input) *Prober {
	return &Prober{out: out, input: input, now: time.Now}
}

// Probe sends ESC[6n and waits for the report
// Returns false on timeout, cancellation, write failure, or when another probe is in flight
func (p *Prober) Probe(ctx context.Context, timeout time.Duration) (time.Duration, bool) {
	replyCh, cancel, ok := p.input.awaitCPR()
	if !ok {
		return 0, false
	}
	defer cancel()

	started := p.now()
	if err := p.out.Write(csiDSRCPR); err != nil {
		return 0, false
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-replyCh:
		return p.now().Sub(started), true
	case <-timer.C:
		return 0, false
	case <-ctx.Done():
		return 0, false
	}
}
