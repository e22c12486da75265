package health

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"rr-monitor.klederson.com/internal/config"
	"rr-monitor.klederson.com/internal/rr"
)

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Key      string        // sorted set holding the intervals
	Window   time.Duration // how far back to query
	Limit    int           // max intervals per fetch, 0 = unlimited
}

// RedisStore reads RR intervals from a Redis sorted set scored by unix
// milliseconds. Members are "<unix-nanos>:<seconds>".
type RedisStore struct {
	client *redis.Client
	key    string
	window time.Duration
	limit  int
	now    func() time.Time
	log    logrus.FieldLogger
}

// NewRedisStore creates a store without contacting the server.
func NewRedisStore(opts RedisOptions, log logrus.FieldLogger) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     4,
		MinIdleConns: 1,
		MaxRetries:   1,
	})
	return newRedisStore(client, opts, log)
}

func newRedisStore(client *redis.Client, opts RedisOptions, log logrus.FieldLogger) *RedisStore {
	if opts.Key == "" {
		opts.Key = config.RedisKey
	}
	if opts.Window <= 0 {
		opts.Window = config.FetchWindow
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RedisStore{
		client: client,
		key:    opts.Key,
		window: opts.Window,
		limit:  opts.Limit,
		now:    time.Now,
		log:    log.WithField("component", "redis-health"),
	}
}

// Connect pings the server with exponential backoff until ctx expires.
// Authorization failures are not retried.
func (s *RedisStore) Connect(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second

	attempt := 0
	op := func() error {
		attempt++
		err := s.client.Ping(ctx).Err()
		if err == nil {
			return nil
		}
		err = classifyRedisError(err)
		s.log.WithError(err).WithField("attempt", attempt).Warn("redis ping failed")
		if errors.Is(err, ErrUnauthorized) {
			return backoff.Permanent(err)
		}
		return err
	}
	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	s.log.WithField("attempts", attempt).Info("connected to redis health store")
	return nil
}

// FetchLatestIntervals returns the intervals recorded within the window,
// oldest first.
func (s *RedisStore) FetchLatestIntervals(ctx context.Context) ([]float64, error) {
	now := s.now()
	rng := &redis.ZRangeBy{
		Min: strconv.FormatInt(now.Add(-s.window).UnixMilli(), 10),
		Max: strconv.FormatInt(now.UnixMilli(), 10),
	}
	if s.limit > 0 {
		rng.Count = int64(s.limit)
	}

	// Most recent first so the limit keeps the newest readings.
	members, err := s.client.ZRevRangeByScore(ctx, s.key, rng).Result()
	if err != nil {
		return nil, classifyRedisError(err)
	}

	values := make([]float64, 0, len(members))
	for _, m := range members {
		v, err := parseMember(m)
		if err != nil {
			s.log.WithError(err).WithField("member", m).Warn("skipping malformed interval")
			continue
		}
		values = append(values, v)
	}
	reverse(values)

	s.log.WithField("count", len(values)).Debug("fetched intervals")
	return values, nil
}

// Record stores a sample.
func (s *RedisStore) Record(ctx context.Context, sample rr.Sample) error {
	z := redis.Z{
		Score:  float64(sample.Timestamp.UnixMilli()),
		Member: formatMember(sample),
	}
	if err := s.client.ZAdd(ctx, s.key, z).Err(); err != nil {
		return classifyRedisError(err)
	}
	return nil
}

// Close releases the connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func formatMember(sample rr.Sample) string {
	return strconv.FormatInt(sample.Timestamp.UnixNano(), 10) + ":" +
		strconv.FormatFloat(sample.Value, 'f', -1, 64)
}

func parseMember(m string) (float64, error) {
	i := strings.LastIndexByte(m, ':')
	if i < 0 {
		return 0, fmt.Errorf("member %q: missing separator", m)
	}
	v, err := strconv.ParseFloat(m[i+1:], 64)
	if err != nil {
		return 0, fmt.Errorf("member %q: %w", m, err)
	}
	return v, nil
}

func classifyRedisError(err error) error {
	msg := err.Error()
	if strings.HasPrefix(msg, "NOAUTH") || strings.HasPrefix(msg, "WRONGPASS") ||
		strings.Contains(msg, "invalid password") {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
