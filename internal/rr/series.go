package rr

import (
	"errors"
	"fmt"
	"sync"
)

var ErrInvalidCapacity = errors.New("series capacity must be positive")

// Point is a sample annotated with its derived health data.
type Point struct {
	Sample
	Class Classification
	Score float64
}

// Window is a consistent read-only copy of a series.
type Window struct {
	Points   []Point
	Capacity int
	Version  uint64 // bumped on every mutation
}

// Latest returns the newest point in the window.
func (w Window) Latest() (Point, bool) {
	if len(w.Points) == 0 {
		return Point{}, false
	}
	return w.Points[len(w.Points)-1], true
}

// RollingSeries is a thread-safe, bounded, time-ordered window of samples.
// Appending to a full series evicts the oldest sample.
type RollingSeries struct {
	mu       sync.RWMutex
	ring     *ring
	capacity int
	version  uint64
}

// NewRollingSeries creates a series holding at most capacity samples. A seed
// longer than capacity keeps its most recent entries.
func NewRollingSeries(capacity int, seed []Sample) (*RollingSeries, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	return &RollingSeries{
		ring:     newRingFrom(capacity, seed),
		capacity: capacity,
	}, nil
}

// Append adds s at the tail, dropping the head if the series is full.
func (rs *RollingSeries) Append(s Sample) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.ring.push(s)
	rs.version++
}

// ReplaceAll swaps the contents for samples, keeping only the last Cap()
// entries. Readers see either the old or the new window, never a mix.
func (rs *RollingSeries) ReplaceAll(samples []Sample) {
	next := newRingFrom(rs.capacity, samples)

	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.ring = next
	rs.version++
}

// Latest returns the most recently added sample.
func (rs *RollingSeries) Latest() (Sample, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.ring.last()
}

// Samples returns a copy of the window in chronological order.
func (rs *RollingSeries) Samples() []Sample {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.ring.values()
}

// Snapshot returns the window with classification and score per sample.
func (rs *RollingSeries) Snapshot() Window {
	rs.mu.RLock()
	samples := rs.ring.values()
	version := rs.version
	rs.mu.RUnlock()

	points := make([]Point, len(samples))
	for i, s := range samples {
		points[i] = Point{
			Sample: s,
			Class:  Classify(s),
			Score:  HealthinessScore(s.Value),
		}
	}
	return Window{Points: points, Capacity: rs.capacity, Version: version}
}

// Len returns the number of samples held.
func (rs *RollingSeries) Len() int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.ring.count
}

// Cap returns the series capacity.
func (rs *RollingSeries) Cap() int {
	return rs.capacity
}
