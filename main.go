package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"rr-monitor.klederson.com/internal/app"
	"rr-monitor.klederson.com/internal/config"
	"rr-monitor.klederson.com/internal/health"
	"rr-monitor.klederson.com/internal/metrics"
	"rr-monitor.klederson.com/internal/rr"
)

var flagConfig string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "rr-monitor",
		Short: "RR Monitor - terminal heart-rate-variability interval viewer",
		Long: `RR Monitor displays RR intervals (time between heartbeats) in a rolling
list or chart, classifying each against the 0.6-1.0s healthy range.

Intervals are simulated by default. Use --source to read them from a Redis
health store, a NATS request/reply responder, or a static --values list;
press R in the UI to refresh from the source.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			settings, err := config.Load(v, flagConfig)
			if err != nil {
				return err
			}
			return run(cmd.Context(), settings)
		},
	}

	f := rootCmd.Flags()
	f.StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	f.String("source", config.SourceSim, "Interval source: sim, redis, nats or static")
	f.Int("capacity", config.DefaultCapacity, "Samples kept in the rolling window")
	f.Duration("interval", config.TickInterval, "Simulation tick interval")
	f.Bool("seed", true, "Pre-fill the window with simulated samples")
	f.String("view", config.ViewList, "Initial view: list or chart")
	f.Duration("window", config.FetchWindow, "How far back to query external data")
	f.Duration("fetch-timeout", config.FetchTimeout, "Deadline for one external fetch")
	f.String("values", "", "Comma-separated intervals in seconds for --source=static")
	f.String("redis-addr", "127.0.0.1:6379", "Redis health store address")
	f.String("redis-password", "", "Redis password")
	f.Int("redis-db", 0, "Redis database")
	f.String("redis-key", config.RedisKey, "Sorted set holding the intervals")
	f.String("nats-url", "nats://127.0.0.1:4222", "NATS server URL")
	f.String("nats-subject", config.NATSSubject, "NATS request subject")
	f.String("metrics-addr", "", "Serve Prometheus metrics on this address (disabled when empty)")
	f.String("log-file", "rr-monitor.log", "Log file (the terminal is owned by the UI)")
	f.String("log-level", "info", "Log level")

	rootCmd.AddCommand(newRecordCmd())
	return rootCmd
}

// newRecordCmd writes simulated intervals into the Redis health store so the
// redis source has something to show.
func newRecordCmd() *cobra.Command {
	var (
		opts  health.RedisOptions
		count int
		start uint64
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record simulated RR intervals into the Redis health store",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), config.FetchTimeout)
			defer cancel()

			log := logrus.New()
			log.SetOutput(cmd.ErrOrStderr())
			n, err := record(ctx, opts, count, start, log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "recorded %d intervals into %s\n", n, opts.Key)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Addr, "redis-addr", "127.0.0.1:6379", "Redis health store address")
	f.StringVar(&opts.Password, "redis-password", "", "Redis password")
	f.IntVar(&opts.DB, "redis-db", 0, "Redis database")
	f.StringVar(&opts.Key, "redis-key", config.RedisKey, "Sorted set holding the intervals")
	f.IntVar(&count, "count", config.DefaultCapacity, "Number of intervals to record")
	f.Uint64Var(&start, "start-tick", 0, "First simulation tick")
	return cmd
}

func record(ctx context.Context, opts health.RedisOptions, count int, start uint64, log logrus.FieldLogger) (int, error) {
	store := health.NewRedisStore(opts, log)
	defer store.Close()
	if err := store.Connect(ctx); err != nil {
		return 0, err
	}

	samples := rr.NewSource().SimulatedSeed(count)
	for i := range samples {
		samples[i].Value = rr.SimulateValue(start + uint64(i))
		if err := store.Record(ctx, samples[i]); err != nil {
			return i, err
		}
	}
	return len(samples), nil
}

func run(parent context.Context, s *config.Settings) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, closeLog, err := newLogger(s)
	if err != nil {
		return err
	}
	defer closeLog()
	log := logger.WithFields(logrus.Fields{"source": s.Source, "capacity": s.Capacity})

	source := rr.NewSource(rr.WithTick(s.Interval))
	var seed []rr.Sample
	if s.Seed {
		seed = source.SimulatedSeed(s.Capacity)
	}
	series, err := rr.NewRollingSeries(s.Capacity, seed)
	if err != nil {
		return err
	}

	recorder := metrics.NewRecorder()
	recorder.ObserveWindow(series.Snapshot())
	if s.MetricsAddr != "" {
		go func() {
			if err := recorder.Serve(ctx, s.MetricsAddr, log); err != nil {
				log.WithError(err).Error("metrics server stopped")
			}
		}()
	}

	driver := rr.NewDriver(series, source, s.Interval,
		rr.WithLogger(log.WithField("component", "driver")),
		rr.WithStartTick(uint64(len(seed))),
		rr.WithOnAppend(recorder.ObserveAppend),
	)

	fetcher, closeFetcher, err := newFetcher(ctx, s, log)
	if err != nil {
		return err
	}
	defer closeFetcher()

	model := app.New(ctx, app.Options{
		Series:       series,
		Source:       source,
		Driver:       driver,
		Fetcher:      fetcher,
		Recorder:     recorder,
		Logger:       log,
		SourceName:   s.Source,
		View:         s.View,
		FetchTimeout: s.FetchTimeout,
	})
	model.StartSimulation()
	defer model.StopSimulation()

	log.Info("starting")
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithFPS(config.TargetFPS),
	)
	_, err = p.Run()
	log.WithError(err).Info("stopped")
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// newFetcher builds the health collaborator for the configured source. The
// simulation source has none.
func newFetcher(ctx context.Context, s *config.Settings, log logrus.FieldLogger) (health.Fetcher, func(), error) {
	noop := func() {}

	switch s.Source {
	case config.SourceRedis:
		store := health.NewRedisStore(health.RedisOptions{
			Addr:     s.RedisAddr,
			Password: s.RedisPassword,
			DB:       s.RedisDB,
			Key:      s.RedisKey,
			Window:   s.Window,
			Limit:    s.Capacity,
		}, log)
		connectCtx, cancel := context.WithTimeout(ctx, s.FetchTimeout)
		defer cancel()
		// An unreachable store is not fatal: fetches report it and R retries.
		if err := store.Connect(connectCtx); err != nil {
			log.WithError(err).WithField("addr", s.RedisAddr).Warn("redis health store not reachable, starting with simulation")
		}
		return store, func() { _ = store.Close() }, nil

	case config.SourceNATS:
		nc, err := health.ConnectNATS(s.NATSURL)
		if err != nil {
			return nil, noop, fmt.Errorf("nats %s: %w", s.NATSURL, err)
		}
		if !nc.IsConnected() {
			log.WithField("url", s.NATSURL).Warn("nats not reachable, starting with simulation")
		}
		f := health.NewNATSFetcher(nc, s.NATSSubject, s.Window, s.Capacity, log)
		return f, func() {
			if nc.IsConnected() {
				_ = nc.Drain()
				return
			}
			nc.Close()
		}, nil

	case config.SourceStatic:
		values, err := s.StaticValues()
		if err != nil {
			return nil, noop, err
		}
		return health.StaticFetcher{Values: values}, noop, nil
	}

	return nil, noop, nil
}

func newLogger(s *config.Settings) (*logrus.Logger, func(), error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level, err := logrus.ParseLevel(s.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	logger.SetLevel(level)

	if s.LogFile == "" {
		logger.SetOutput(io.Discard)
		return logger, func() {}, nil
	}
	f, err := tea.LogToFile(s.LogFile, "")
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(f)
	return logger, func() { _ = f.Close() }, nil
}
