package rr

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleAt(i int, v float64) Sample {
	return Sample{Timestamp: t0.Add(time.Duration(i) * time.Second), Value: v}
}

func newSeries(t *testing.T, capacity int, seed []Sample) *RollingSeries {
	t.Helper()
	rs, err := NewRollingSeries(capacity, seed)
	require.NoError(t, err)
	return rs
}

func TestNewRollingSeries_InvalidCapacity(t *testing.T) {
	_, err := NewRollingSeries(0, nil)
	assert.ErrorIs(t, err, ErrInvalidCapacity)

	_, err = NewRollingSeries(-3, nil)
	assert.ErrorIs(t, err, ErrInvalidCapacity)
}

func TestNewRollingSeries_Empty(t *testing.T) {
	rs := newSeries(t, 60, nil)
	assert.Equal(t, 0, rs.Len())
	assert.Equal(t, 60, rs.Cap())

	_, ok := rs.Latest()
	assert.False(t, ok)
	assert.Empty(t, rs.Samples())
	assert.Empty(t, rs.Snapshot().Points)
}

func TestNewRollingSeries_SeedTruncated(t *testing.T) {
	var seed []Sample
	for i := 0; i < 8; i++ {
		seed = append(seed, sampleAt(i, float64(i)))
	}

	rs := newSeries(t, 5, seed)
	assert.Equal(t, seed[3:], rs.Samples())

	// Mutating the caller's slice must not leak into the series.
	seed[7].Value = 99
	latest, ok := rs.Latest()
	require.True(t, ok)
	assert.Equal(t, 7.0, latest.Value)
}

func TestAppend_EvictsOldest(t *testing.T) {
	for _, capacity := range []int{1, 2, 5, 60} {
		rs := newSeries(t, capacity, nil)
		var all []Sample
		for i := 0; i < capacity*3+1; i++ {
			s := sampleAt(i, float64(i))
			all = append(all, s)
			rs.Append(s)
			assert.LessOrEqual(t, rs.Len(), capacity)
		}
		assert.Equal(t, capacity, rs.Len())
		assert.Equal(t, all[len(all)-capacity:], rs.Samples())
	}
}

func TestAppend_StableForEqualTimestamps(t *testing.T) {
	rs := newSeries(t, 4, nil)
	for i := 0; i < 3; i++ {
		rs.Append(Sample{Timestamp: t0, Value: float64(i)})
	}
	got := rs.Samples()
	require.Len(t, got, 3)
	for i, s := range got {
		assert.Equal(t, float64(i), s.Value)
	}
}

func TestAppend_SimulatedTicksScenario(t *testing.T) {
	rs := newSeries(t, 5, nil)
	for tick := uint64(0); tick <= 6; tick++ {
		rs.Append(Sample{Timestamp: t0.Add(time.Duration(tick) * time.Second), Value: SimulateValue(tick)})
	}

	got := rs.Samples()
	require.Len(t, got, 5)
	for i, s := range got {
		tick := uint64(i + 2)
		assert.Equal(t, SimulateValue(tick), s.Value)
		assert.Equal(t, t0.Add(time.Duration(tick)*time.Second), s.Timestamp)
	}
}

func TestReplaceAll(t *testing.T) {
	rs := newSeries(t, 3, nil)
	rs.Append(sampleAt(0, 0.1))

	batch := []Sample{sampleAt(10, 1), sampleAt(11, 2), sampleAt(12, 3), sampleAt(13, 4), sampleAt(14, 5)}
	rs.ReplaceAll(batch)
	assert.Equal(t, batch[2:], rs.Samples())

	rs.ReplaceAll(batch[:2])
	assert.Equal(t, batch[:2], rs.Samples())

	// Appends continue from the replaced contents.
	rs.Append(sampleAt(20, 6))
	rs.Append(sampleAt(21, 7))
	assert.Equal(t, []Sample{batch[1], sampleAt(20, 6), sampleAt(21, 7)}, rs.Samples())

	rs.ReplaceAll(nil)
	assert.Equal(t, 0, rs.Len())
}

func TestLatest(t *testing.T) {
	rs := newSeries(t, 2, nil)
	for i := 0; i < 5; i++ {
		rs.Append(sampleAt(i, float64(i)))
		latest, ok := rs.Latest()
		require.True(t, ok)
		assert.Equal(t, sampleAt(i, float64(i)), latest)
	}
}

func TestSnapshot(t *testing.T) {
	rs := newSeries(t, 4, nil)
	rs.Append(sampleAt(0, 0.5))
	rs.Append(sampleAt(1, 0.8))
	rs.Append(sampleAt(2, 1.1))

	w := rs.Snapshot()
	require.Len(t, w.Points, 3)
	assert.Equal(t, 4, w.Capacity)
	assert.Equal(t, uint64(3), w.Version)

	assert.Equal(t, BelowRange, w.Points[0].Class)
	assert.Equal(t, Healthy, w.Points[1].Class)
	assert.Equal(t, AboveRange, w.Points[2].Class)
	assert.InDelta(t, 0.25, w.Points[0].Score, 1e-9)
	assert.Equal(t, 1.0, w.Points[1].Score)

	latest, ok := w.Latest()
	require.True(t, ok)
	assert.Equal(t, 1.1, latest.Value)

	rs.ReplaceAll([]Sample{sampleAt(5, 0.7)})
	assert.Equal(t, uint64(4), rs.Snapshot().Version)

	// Earlier snapshot is unaffected.
	assert.Len(t, w.Points, 3)
}

func TestReplaceAll_ReadersSeeWholeWindows(t *testing.T) {
	const capacity = 50
	low := make([]Sample, capacity)
	high := make([]Sample, capacity)
	for i := range low {
		low[i] = sampleAt(i, 0.5)
		high[i] = sampleAt(i, 1.5)
	}

	rs := newSeries(t, capacity, low)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			if i%2 == 0 {
				rs.ReplaceAll(high)
			} else {
				rs.ReplaceAll(low)
			}
		}
		close(stop)
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				pts := rs.Snapshot().Points
				if !assert.Len(t, pts, capacity) {
					return
				}
				first := pts[0].Value
				for _, p := range pts {
					if !assert.Equal(t, first, p.Value) {
						return
					}
				}
			}
		}()
	}

	wg.Wait()
}
