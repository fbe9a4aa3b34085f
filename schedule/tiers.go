package schedule

import (
	"fmt"
	"time"
)

// Tier caps the frame rate at FPS while the round-trip time is below Below
type Tier struct {
	Below time.Duration
	FPS   int
}

// Policy maps a round-trip measurement to a frame-rate ceiling
type Policy struct {
	Tiers   []Tier // Ascending by Below
	Unknown int    // Ceiling when no measurement is available
	Floor   int    // Ceiling when the RTT is at or above every tier
}

// DefaultPolicy: unknown 20, <50ms 30, <120ms 15, <200ms 8, otherwise 4
func DefaultPolicy() Policy {
	return Policy{
		Tiers: []Tier{
			{Below: 50 * time.Millisecond, FPS: 30},
			{Below: 120 * time.Millisecond, FPS: 15},
			{Below: 200 * time.Millisecond, FPS: 8},
		},
		Unknown: 20,
		Floor:   4,
	}
}

// withDefaults fills unset rates from DefaultPolicy; an all-zero policy becomes DefaultPolicy
func (p Policy) withDefaults() Policy {
	def := DefaultPolicy()
	if p.Unknown <= 0 && p.Floor <= 0 && len(p.Tiers) == 0 {
		return def
	}
	if p.Unknown <= 0 {
		p.Unknown = def.Unknown
	}
	if p.Floor <= 0 {
		p.Floor = def.Floor
	}
	return p
}

// FPS returns the ceiling for a measurement; ok=false means unknown
func (p Policy) FPS(rtt time.Duration, ok bool) int {
	if !ok {
		return p.Unknown
	}
	for _, t := range p.Tiers {
		if rtt < t.Below {
			return t.FPS
		}
	}
	return p.Floor
}

// Validate rejects non-positive rates and tiers that are not strictly ascending
func (p Policy) Validate() error {
	if p.Unknown <= 0 {
		return fmt.Errorf("unknown-rtt fps must be positive, got %d", p.Unknown)
	}
	if p.Floor <= 0 {
		return fmt.Errorf("floor fps must be positive, got %d", p.Floor)
	}
	var prev time.Duration
	for i, t := range p.Tiers {
		if t.FPS <= 0 {
			return fmt.Errorf("tier %d: fps must be positive, got %d", i, t.FPS)
		}
		if t.Below <= prev {
			return fmt.Errorf("tier %d: threshold %v not above %v", i, t.Below, prev)
		}
		prev = t.Below
	}
	return nil
}
