package app

import (
	"context"
	"time"

	"github.com/lixenwraith/gridterm/render"
	"github.com/lixenwraith/gridterm/schedule"
	"github.com/lixenwraith/gridterm/status"
)

// Metric names published by the runtime
const (
	MetricFrames       = "frames"
	MetricFullRepaints = "frames_full_repaint"
	MetricWriteErrors  = "frames_write_errors"
	MetricBytes        = "bytes_written"
	MetricRuns         = "runs_written"
	MetricCells        = "cells_written"
	MetricResizes      = "resizes"
	MetricFPS          = "fps_ceiling"
	MetricProbesOK     = "probes_ok"
	MetricProbesFailed = "probes_failed"
	MetricRTT          = "rtt_ms"
)

// frameMetrics caches registry pointers so the draw path stays lock-free
type frameMetrics struct {
	frames       *status.Counter
	fullRepaints *status.Counter
	writeErrors  *status.Counter
	bytes        *status.Counter
	runs         *status.Counter
	cells        *status.Counter
	resizes      *status.Counter
	fps          *status.Gauge
}

func newFrameMetrics(reg *status.Registry) frameMetrics {
	return frameMetrics{
		frames:       reg.Counter(MetricFrames),
		fullRepaints: reg.Counter(MetricFullRepaints),
		writeErrors:  reg.Counter(MetricWriteErrors),
		bytes:        reg.Counter(MetricBytes),
		runs:         reg.Counter(MetricRuns),
		cells:        reg.Counter(MetricCells),
		resizes:      reg.Counter(MetricResizes),
		fps:          reg.Gauge(MetricFPS),
	}
}

func (m frameMetrics) record(s render.Stats, fps int) {
	m.frames.Inc()
	if s.FullRepaint {
		m.fullRepaints.Inc()
	}
	m.bytes.Add(int64(s.Bytes))
	m.runs.Add(int64(s.Runs))
	m.cells.Add(int64(s.Cells))
	m.fps.Set(float64(fps))
}

// countingProber publishes probe outcomes and the last RTT
type countingProber struct {
	inner  schedule.Prober
	ok     *status.Counter
	failed *status.Counter
	rtt    *status.Gauge
}

func newCountingProber(inner schedule.Prober, reg *status.Registry) *countingProber {
	return &countingProber{
		inner:  inner,
		ok:     reg.Counter(MetricProbesOK),
		failed: reg.Counter(MetricProbesFailed),
		rtt:    reg.Gauge(MetricRTT),
	}
}

func (p *countingProber) Probe(ctx context.Context, timeout time.Duration) (time.Duration, bool) {
	d, ok := p.inner.Probe(ctx, timeout)
	if ok {
		p.ok.Inc()
		p.rtt.SetDuration(d)
	} else {
		p.failed.Inc()
	}
	return d, ok
}
