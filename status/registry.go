// Package status is a lock-free metrics registry: writers cache metric pointers once
// and update atomics directly; readers take sorted snapshots for display.
package status

import (
	"maps"
	"slices"
	"sync"
)

// Entry is one metric in a snapshot
type Entry struct {
	Name  string
	Value string
}

// Registry maps metric names to counters, gauges and labels
// A name belongs to exactly one kind; the first registration wins
type Registry struct {
	mu    sync.RWMutex
	items map[string]Value
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]Value)}
}

// Counter returns the counter registered under name, creating it if absent
func (r *Registry) Counter(name string) *Counter {
	return lookup(r, name, func() *Counter { return new(Counter) })
}

// Gauge returns the gauge registered under name, creating it if absent
func (r *Registry) Gauge(name string) *Gauge {
	return lookup(r, name, func() *Gauge { return new(Gauge) })
}

// Label returns the label registered under name, creating it if absent
func (r *Registry) Label(name string) *Label {
	return lookup(r, name, func() *Label { return new(Label) })
}

// lookup returns the cached pointer for name; a kind mismatch yields a detached metric
func lookup[T Value](r *Registry, name string, create func() T) T {
	r.mu.RLock()
	v, ok := r.items[name]
	r.mu.RUnlock()
	if ok {
		if t, ok := v.(T); ok {
			return t
		}
		return create()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under the write lock
	if v, ok := r.items[name]; ok {
		if t, ok := v.(T); ok {
			return t
		}
		return create()
	}
	t := create()
	r.items[name] = t
	return t
}

// Len returns the number of registered metrics
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Snapshot returns every metric in name order
func (r *Registry) Snapshot() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := slices.Sorted(maps.Keys(r.items))
	out := make([]Entry, len(names))
	for i, name := range names {
		out[i] = Entry{Name: name, Value: r.items[name].String()}
	}
	return out
}
