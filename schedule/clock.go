package schedule

import (
	"sync"
	"time"
)

// Clock supplies the scheduler's notion of now
type Clock interface {
	Now() time.Time
}

// Until reports how long until t on c, never negative
func Until(c Clock, t time.Time) time.Duration {
	return max(t.Sub(c.Now()), 0)
}

// Since reports the time elapsed on c since t
func Since(c Clock, t time.Time) time.Duration {
	return c.Now().Sub(t)
}

// TimeProvider is the wall clock; readings carry the monotonic component
type TimeProvider struct{}

func NewTimeProvider() *TimeProvider {
	return &TimeProvider{}
}

func (*TimeProvider) Now() time.Time {
	return time.Now()
}

// MockClock only moves when told to
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewMockClock(start time.Time) *MockClock {
	return &MockClock{now: start}
}

func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// SetTime jumps to t, backwards included
func (m *MockClock) SetTime(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}
