package health

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rr-monitor.klederson.com/internal/rr"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, mr *miniredis.Miniredis, opts RedisOptions) *RedisStore {
	t.Helper()
	logger, _ := test.NewNullLogger()
	opts.Addr = mr.Addr()
	s := NewRedisStore(opts, logger)
	s.now = func() time.Time { return now }
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRedisStore_FetchLatestIntervals(t *testing.T) {
	mr := miniredis.RunT(t)
	s := newTestStore(t, mr, RedisOptions{})
	ctx := context.Background()

	// Recorded out of order; the outlier is older than the window.
	require.NoError(t, s.Record(ctx, rr.Sample{Timestamp: now.Add(-10 * time.Second), Value: 0.91}))
	require.NoError(t, s.Record(ctx, rr.Sample{Timestamp: now.Add(-time.Hour), Value: 0.72}))
	require.NoError(t, s.Record(ctx, rr.Sample{Timestamp: now.Add(-25 * time.Hour), Value: 1.3}))
	require.NoError(t, s.Record(ctx, rr.Sample{Timestamp: now.Add(-30 * time.Minute), Value: 0.85}))

	values, err := s.FetchLatestIntervals(ctx)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.72, 0.85, 0.91}, values)
}

func TestRedisStore_LimitKeepsNewest(t *testing.T) {
	mr := miniredis.RunT(t)
	s := newTestStore(t, mr, RedisOptions{Limit: 2, Key: "watch:rr"})
	ctx := context.Background()

	for i, v := range []float64{0.7, 0.8, 0.9, 1.0} {
		ts := now.Add(-time.Duration(4-i) * time.Minute)
		require.NoError(t, s.Record(ctx, rr.Sample{Timestamp: ts, Value: v}))
	}

	values, err := s.FetchLatestIntervals(ctx)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.9, 1.0}, values)

	members, err := mr.ZMembers("watch:rr")
	require.NoError(t, err)
	assert.Len(t, members, 4)
}

func TestRedisStore_Empty(t *testing.T) {
	mr := miniredis.RunT(t)
	s := newTestStore(t, mr, RedisOptions{})

	values, err := s.FetchLatestIntervals(context.Background())
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestRedisStore_SkipsMalformedMembers(t *testing.T) {
	mr := miniredis.RunT(t)
	s := newTestStore(t, mr, RedisOptions{})

	score := float64(now.Add(-time.Minute).UnixMilli())
	_, err := mr.ZAdd("rr:intervals", score, "garbage")
	require.NoError(t, err)
	_, err = mr.ZAdd("rr:intervals", score+1, "123:abc")
	require.NoError(t, err)
	_, err = mr.ZAdd("rr:intervals", score+2, "124:0.66")
	require.NoError(t, err)

	values, err := s.FetchLatestIntervals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []float64{0.66}, values)
}

func TestRedisStore_Unauthorized(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("secret")
	s := newTestStore(t, mr, RedisOptions{})

	_, err := s.FetchLatestIntervals(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.ErrorIs(t, s.Connect(ctx), ErrUnauthorized)
}

func TestRedisStore_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	s := newTestStore(t, mr, RedisOptions{})
	mr.Close()

	_, err := s.FetchLatestIntervals(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Connect(ctx), ErrUnavailable)
}

func TestRedisStore_Connect(t *testing.T) {
	mr := miniredis.RunT(t)
	s := newTestStore(t, mr, RedisOptions{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Connect(ctx))
}

func TestParseMember(t *testing.T) {
	v, err := parseMember(formatMember(rr.Sample{Timestamp: now, Value: 0.8125}))
	require.NoError(t, err)
	assert.Equal(t, 0.8125, v)

	v, err = parseMember("1:-0.5")
	require.NoError(t, err)
	assert.Equal(t, -0.5, v)

	_, err = parseMember("nope")
	assert.Error(t, err)
}
