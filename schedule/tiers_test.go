package schedule

import (
	"testing"
	"time"
)

func TestPolicyValidate(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		wantErr bool
	}{
		{"default", DefaultPolicy(), false},
		{"no tiers", Policy{Unknown: 5, Floor: 1}, false},
		{"zero unknown", Policy{Floor: 1}, true},
		{"zero floor", Policy{Unknown: 1}, true},
		{"unsorted", Policy{Unknown: 1, Floor: 1, Tiers: []Tier{{Below: time.Second, FPS: 2}, {Below: time.Millisecond, FPS: 3}}}, true},
		{"duplicate threshold", Policy{Unknown: 1, Floor: 1, Tiers: []Tier{{Below: time.Second, FPS: 2}, {Below: time.Second, FPS: 3}}}, true},
		{"non-positive tier fps", Policy{Unknown: 1, Floor: 1, Tiers: []Tier{{Below: time.Second, FPS: 0}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMockClock(t *testing.T) {
	start := time.Unix(100, 0)
	clk := NewMockClock(start)
	clk.Advance(3 * time.Second)
	if got := clk.Now(); !got.Equal(start.Add(3 * time.Second)) {
		t.Errorf("Expected advanced time, got %v", got)
	}
	clk.SetTime(start)
	if !clk.Now().Equal(start) {
		t.Error("Expected SetTime to rewind")
	}
}

func TestClockHelpers(t *testing.T) {
	clk := NewMockClock(time.Unix(100, 0))
	mark := clk.Now()

	tests := []struct {
		advance time.Duration
		until   time.Duration
		since   time.Duration
	}{
		{0, 50 * time.Millisecond, 0},
		{30 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond},
		{80 * time.Millisecond, 0, 80 * time.Millisecond},
	}

	for _, tt := range tests {
		clk.SetTime(mark.Add(tt.advance))
		if got := Until(clk, mark.Add(50*time.Millisecond)); got != tt.until {
			t.Errorf("Until after %v = %v, want %v", tt.advance, got, tt.until)
		}
		if got := Since(clk, mark); got != tt.since {
			t.Errorf("Since after %v = %v, want %v", tt.advance, got, tt.since)
		}
	}
}
