package sequencer

import (
	"time"

	"genseq/metrics"
)

type Option func(e *Engine)

func Tempo(bpm uint16) Option {
	return func(e *Engine) {
		e.bpm = bpm
	}
}

// Patterns replaces the power-on default pattern.
func Patterns(patterns ...*Pattern) Option {
	return func(e *Engine) {
		e.patterns = append(e.patterns[:0], patterns...)
	}
}

// MIDIClock controls whether Play sends a real-time Start byte.
func MIDIClock(enabled bool) Option {
	return func(e *Engine) {
		e.clockEnabled = enabled
	}
}

// ClockPulses makes the engine send Timing Clock once per tick and a
// real-time Stop on Stop.
func ClockPulses(enabled bool) Option {
	return func(e *Engine) {
		e.clockPulses = enabled
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithUpdates enables the snapshot channel returned by Updates.
func WithUpdates() Option {
	return func(e *Engine) {
		e.updates = make(chan State, 1)
	}
}

// PollInterval is how long Run sleeps between polls. Zero spins with
// runtime.Gosched.
func PollInterval(d time.Duration) Option {
	return func(e *Engine) {
		e.pollInterval = d
	}
}

// Clock replaces time.Now as the time source of Run.
func Clock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}
