package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"
)

// Transport delivers one de-identified record off the device.
type Transport interface {
	// Send uploads the record persisted at localPath under key. A nil
	// return means the record was delivered.
	Send(ctx context.Context, key, localPath string) error
}

// ErrExhausted is returned when every send attempt failed. On an unstable
// link this is a normal outcome, not a fault.
var ErrExhausted = errors.New("upload failed after all retries")

// Source supplies uniform values in [0,1). Exists so tests can feed
// deterministic sequences instead of real randomness.
type Source interface {
	Float64() float64
}

// SimulatorConfig tunes the simulated link.
type SimulatorConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration

	// FailureRate is the probability in [0,1] that any single attempt
	// drops, modelling unstable 4G coverage at the mobile units.
	FailureRate float64
}

// Simulator models an unreliable network endpoint. Each failed attempt
// sleeps for an exponentially growing, jittered, capped delay before the
// next one. No bytes leave the machine.
type Simulator struct {
	cfg   SimulatorConfig
	rand  Source
	sleep func(time.Duration)
	log   *slog.Logger
}

// NewSimulator creates a simulator seeded from the wall clock.
func NewSimulator(cfg SimulatorConfig, log *slog.Logger) *Simulator {
	return &Simulator{
		cfg:   cfg,
		rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep: time.Sleep,
		log:   log,
	}
}

// Send runs up to MaxAttempts simulated upload attempts for key. The
// localPath argument is ignored: nothing is actually read or transmitted.
func (s *Simulator) Send(_ context.Context, key, _ string) error {
	for attempt := 0; attempt < s.cfg.MaxAttempts; attempt++ {
		if s.rand.Float64() >= s.cfg.FailureRate {
			s.log.Info("upload succeeded", "file", key, "attempt", attempt+1)
			return nil
		}

		delay := Backoff(attempt, s.cfg.BaseDelay, s.cfg.MaxDelay, s.rand.Float64())
		s.log.Warn("upload attempt failed",
			"file", key,
			"attempt", attempt+1,
			"max_attempts", s.cfg.MaxAttempts,
			"retry_in", delay)
		s.sleep(delay)
	}

	return fmt.Errorf("%s: %w (%d attempts)", key, ErrExhausted, s.cfg.MaxAttempts)
}

// Backoff computes the sleep after failed attempt i (0-indexed):
//
//	delay = min(base * 2^i + jitter seconds, max)
//
// jitter must be drawn uniformly from [0,1). The doubling schedule with a
// capped ceiling and additive jitter is the retry contract the receiving
// side's timing tests depend on.
func Backoff(attempt int, base, max time.Duration, jitter float64) time.Duration {
	seconds := base.Seconds()*math.Pow(2, float64(attempt)) + jitter
	if capSec := max.Seconds(); seconds > capSec {
		seconds = capSec
	}
	return time.Duration(seconds * float64(time.Second))
}
