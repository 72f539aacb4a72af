package transfer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

// seqSource replays a fixed sequence of draws.
type seqSource struct {
	vals []float64
	i    int
}

func (s *seqSource) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBackoffDoublesAndCaps(t *testing.T) {
	tests := []struct {
		name    string
		attempt int
		base    time.Duration
		max     time.Duration
		jitter  float64
		want    time.Duration
	}{
		{"attempt 0", 0, time.Second, 30 * time.Second, 0, 1 * time.Second},
		{"attempt 1", 1, time.Second, 30 * time.Second, 0, 2 * time.Second},
		{"attempt 2", 2, time.Second, 30 * time.Second, 0, 4 * time.Second},
		{"attempt 3", 3, time.Second, 30 * time.Second, 0, 8 * time.Second},
		{"attempt 4", 4, time.Second, 30 * time.Second, 0, 16 * time.Second},
		{"capped", 5, time.Second, 30 * time.Second, 0, 30 * time.Second},
		{"cap includes jitter", 5, time.Second, 30 * time.Second, 0.9, 30 * time.Second},
		{"jitter added", 1, time.Second, 30 * time.Second, 0.5, 2500 * time.Millisecond},
		{"zero base", 2, 0, 30 * time.Second, 0.25, 250 * time.Millisecond},
		{"zero cap", 3, time.Second, 0, 0.7, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Backoff(tt.attempt, tt.base, tt.max, tt.jitter)
			if got != tt.want {
				t.Errorf("Backoff(%d, %v, %v, %g) = %v, want %v",
					tt.attempt, tt.base, tt.max, tt.jitter, got, tt.want)
			}
		})
	}
}

func TestSimulatorSucceedsFirstAttempt(t *testing.T) {
	s := NewSimulator(SimulatorConfig{
		MaxAttempts: 5,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
		FailureRate: 0,
	}, testLogger())

	slept := 0
	s.sleep = func(time.Duration) { slept++ }

	if err := s.Send(context.Background(), "scan.dcm", ""); err != nil {
		t.Fatalf("Send with failure rate 0 returned error: %v", err)
	}
	if slept != 0 {
		t.Errorf("successful first attempt slept %d times, want 0", slept)
	}
}

func TestSimulatorExhaustsAttempts(t *testing.T) {
	s := NewSimulator(SimulatorConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
		FailureRate: 1.0,
	}, testLogger())

	var delays []time.Duration
	s.sleep = func(d time.Duration) { delays = append(delays, d) }
	// Every draw fails, every jitter draw is zero.
	s.rand = &seqSource{vals: []float64{0}}

	err := s.Send(context.Background(), "scan.dcm", "")
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("Send with failure rate 1 returned %v, want ErrExhausted", err)
	}

	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	if len(delays) != len(want) {
		t.Fatalf("slept %d times, want %d", len(delays), len(want))
	}
	for i, d := range delays {
		if d != want[i] {
			t.Errorf("delay[%d] = %v, want %v", i, d, want[i])
		}
	}
}

func TestSimulatorRecoversAfterFailures(t *testing.T) {
	s := NewSimulator(SimulatorConfig{
		MaxAttempts: 5,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
		FailureRate: 0.5,
	}, testLogger())

	slept := 0
	s.sleep = func(time.Duration) { slept++ }
	// Draws alternate outcome/jitter: fail(0.1), jitter, fail(0.2),
	// jitter, then succeed (0.9 >= 0.5).
	s.rand = &seqSource{vals: []float64{0.1, 0.0, 0.2, 0.0, 0.9}}

	if err := s.Send(context.Background(), "scan.dcm", ""); err != nil {
		t.Fatalf("Send returned error after recoverable failures: %v", err)
	}
	if slept != 2 {
		t.Errorf("slept %d times, want 2 (one per failed attempt)", slept)
	}
}
