package rr

import (
	"math"
	"time"

	"rr-monitor.klederson.com/internal/config"
)

// SimulateValue returns the synthetic RR interval for tick t:
// base + amplitude*sin(2πt/period). Same t, same value.
func SimulateValue(t uint64) float64 {
	phase := 2 * math.Pi * float64(t%config.SimPeriod) / config.SimPeriod
	return config.SimBase + config.SimAmplitude*math.Sin(phase)
}

// Source produces samples, either simulated or from external readings. It
// never touches a series.
type Source struct {
	now  func() time.Time
	tick time.Duration
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithClock overrides the wall clock used to stamp samples.
func WithClock(now func() time.Time) SourceOption {
	return func(s *Source) { s.now = now }
}

// WithTick sets the spacing between synthetic timestamps.
func WithTick(d time.Duration) SourceOption {
	return func(s *Source) {
		if d > 0 {
			s.tick = d
		}
	}
}

// NewSource creates a Source stamping samples one TickInterval apart.
func NewSource(opts ...SourceOption) *Source {
	s := &Source{now: time.Now, tick: config.TickInterval}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Now returns the source clock's current time.
func (s *Source) Now() time.Time {
	return s.now()
}

// Simulate returns the simulated sample for tick t stamped with the current
// time.
func (s *Source) Simulate(t uint64) Sample {
	return Sample{Timestamp: s.now(), Value: SimulateValue(t)}
}

// IngestExternal turns raw values (oldest first) into samples spaced one tick
// apart with the last one at now. An empty batch reports ok=false, meaning
// "no external data".
func (s *Source) IngestExternal(values []float64) ([]Sample, bool) {
	if len(values) == 0 {
		return nil, false
	}
	return s.stamp(values), true
}

// SimulatedSeed returns n simulated samples for ticks 0..n-1 spanning the
// past n ticks.
func (s *Source) SimulatedSeed(n int) []Sample {
	if n <= 0 {
		return nil
	}
	values := make([]float64, n)
	for i := range values {
		values[i] = SimulateValue(uint64(i))
	}
	return s.stamp(values)
}

func (s *Source) stamp(values []float64) []Sample {
	end := s.now()
	last := len(values) - 1
	out := make([]Sample, len(values))
	for i, v := range values {
		out[i] = Sample{
			Timestamp: end.Add(-time.Duration(last-i) * s.tick),
			Value:     v,
		}
	}
	return out
}
