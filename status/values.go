package status

import (
	"math"
	"strconv"
	"sync/atomic"
	"time"
)

// Value is a metric cell that can render itself for display
type Value interface {
	String() string
}

// Counter is a monotonically increasing integer; zero value is ready to use
type Counter struct {
	n atomic.Int64
}

func (c *Counter) Inc()           { c.n.Add(1) }
func (c *Counter) Add(d int64)    { c.n.Add(d) }
func (c *Counter) Load() int64    { return c.n.Load() }
func (c *Counter) String() string { return strconv.FormatInt(c.n.Load(), 10) }

// Gauge holds the latest float64 sample, stored as bits for atomic access
type Gauge struct {
	bits atomic.Uint64
}

func (g *Gauge) Set(v float64) { g.bits.Store(math.Float64bits(v)) }

func (g *Gauge) Load() float64 { return math.Float64frombits(g.bits.Load()) }

// SetDuration records d in milliseconds
func (g *Gauge) SetDuration(d time.Duration) {
	g.Set(float64(d) / float64(time.Millisecond))
}

func (g *Gauge) String() string {
	return strconv.FormatFloat(g.Load(), 'f', -1, 64)
}

// Label holds a short text value such as a backend name
type Label struct {
	ptr atomic.Pointer[string]
}

// maxLabelLen keeps labels to one dashboard column
const maxLabelLen = 24

func (l *Label) Store(v string) {
	if len(v) > maxLabelLen {
		v = v[:maxLabelLen]
	}
	l.ptr.Store(&v)
}

func (l *Label) Load() string {
	if p := l.ptr.Load(); p != nil {
		return *p
	}
	return ""
}

func (l *Label) String() string { return l.Load() }
